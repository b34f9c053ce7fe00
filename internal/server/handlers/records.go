package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/anti-elegant/Delphi-sub000/internal/server/storage"
	"github.com/anti-elegant/Delphi-sub000/pkg/api"
)

// RecordsHandler handles zone and record operations.
type RecordsHandler struct {
	logger  *slog.Logger
	zones   storage.ZoneStorage
	records storage.RecordStorage

	// Quota is the maximum number of live records per user; 0 disables
	// the check.
	Quota int
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(logger *slog.Logger, zones storage.ZoneStorage, records storage.RecordStorage) *RecordsHandler {
	return &RecordsHandler{
		logger:  logger,
		zones:   zones,
		records: records,
	}
}

// EnsureZone handles PUT /api/v1/zones/{zone}.
func (h *RecordsHandler) EnsureZone(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, api.CodeUnauthorized, "missing identity")
		return
	}
	zone := r.PathValue("zone")

	if _, err := h.zones.EnsureZone(r.Context(), userID, zone); err != nil {
		h.logger.Error("failed to ensure zone", "error", err, "zone", zone)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to ensure zone")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Push handles POST /api/v1/zones/{zone}/records. Each record is written
// independently; version mismatches fail that record with a conflict
// code while the rest of the batch proceeds.
func (h *RecordsHandler) Push(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, api.CodeUnauthorized, "missing identity")
		return
	}
	zone := r.PathValue("zone")

	var req api.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.CodeInternal, "invalid request body")
		return
	}

	if h.Quota > 0 {
		count, err := h.records.CountRecords(r.Context(), userID)
		if err != nil {
			h.logger.Error("failed to count records", "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to count records")
			return
		}
		if count+len(req.Records) > h.Quota {
			writeError(w, h.logger, http.StatusInsufficientStorage, api.CodeQuotaExceeded,
				fmt.Sprintf("record quota of %d exceeded", h.Quota))
			return
		}
	}

	resp := api.PushResponse{SavedIDs: make([]string, 0, len(req.Records))}

	for i := range req.Records {
		rec := &req.Records[i]
		saved, err := h.records.SaveRecord(r.Context(), userID, zone, toStored(rec), rec.Version)
		switch {
		case err == nil:
			resp.SavedIDs = append(resp.SavedIDs, saved.RecordID)
		case errors.Is(err, storage.ErrVersionMismatch):
			resp.Failed = append(resp.Failed, api.RecordFailure{
				RecordID: rec.RecordID,
				Code:     api.CodeConflict,
				Message:  "stored version differs from the one observed",
			})
		case errors.Is(err, storage.ErrZoneNotFound):
			writeError(w, h.logger, http.StatusNotFound, api.CodeZoneNotFound, "zone not found")
			return
		default:
			h.logger.Error("failed to save record", "error", err, "record_id", rec.RecordID)
			resp.Failed = append(resp.Failed, api.RecordFailure{
				RecordID: rec.RecordID,
				Code:     api.CodeInternal,
				Message:  "failed to save record",
			})
		}
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Delete handles POST /api/v1/zones/{zone}/records/delete. Missing and
// already-deleted IDs are reported as deleted.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, api.CodeUnauthorized, "missing identity")
		return
	}
	zone := r.PathValue("zone")

	var req api.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.CodeInternal, "invalid request body")
		return
	}

	deleted, err := h.records.DeleteRecords(r.Context(), userID, zone, req.RecordType, req.RecordIDs)
	if err != nil {
		if errors.Is(err, storage.ErrZoneNotFound) {
			writeError(w, h.logger, http.StatusNotFound, api.CodeZoneNotFound, "zone not found")
			return
		}
		h.logger.Error("failed to delete records", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to delete records")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.DeleteResponse{DeletedIDs: deleted})
}

// Changes handles GET /api/v1/zones/{zone}/changes?token=&node=.
func (h *RecordsHandler) Changes(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, api.CodeUnauthorized, "missing identity")
		return
	}
	zone := r.PathValue("zone")

	z, err := h.zones.GetZone(r.Context(), userID, zone)
	if err != nil {
		if errors.Is(err, storage.ErrZoneNotFound) {
			writeError(w, h.logger, http.StatusNotFound, api.CodeZoneNotFound, "zone not found")
			return
		}
		h.logger.Error("failed to load zone", "error", err, "zone", zone)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to load zone")
		return
	}

	var since int64
	if token := r.URL.Query().Get("token"); token != "" {
		epoch, seq, err := parseChangeToken(token)
		if err != nil || epoch != z.Epoch || seq < z.PrunedSeq {
			writeError(w, h.logger, http.StatusGone, api.CodeTokenExpired, "change token expired")
			return
		}
		since = seq
	}

	node := r.URL.Query().Get("node")

	changed, deletedIDs, curSeq, err := h.records.ChangesSince(r.Context(), userID, zone, since, node)
	if err != nil {
		h.logger.Error("failed to load changes", "error", err, "zone", zone)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to load changes")
		return
	}

	resp := api.ChangesResponse{
		Changed:     make([]api.Record, 0, len(changed)),
		DeletedIDs:  deletedIDs,
		ChangeToken: changeToken(z.Epoch, curSeq),
	}
	for _, rec := range changed {
		resp.Changed = append(resp.Changed, *toWire(rec))
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// List handles GET /api/v1/zones/{zone}/records?type=.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, api.CodeUnauthorized, "missing identity")
		return
	}
	zone := r.PathValue("zone")

	recordType := r.URL.Query().Get("type")
	if recordType == "" {
		writeError(w, h.logger, http.StatusBadRequest, api.CodeInternal, "missing type parameter")
		return
	}

	records, err := h.records.ListRecords(r.Context(), userID, zone, recordType)
	if err != nil {
		h.logger.Error("failed to list records", "error", err, "zone", zone)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to list records")
		return
	}

	resp := api.RecordsResponse{Records: make([]api.Record, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, *toWire(rec))
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// SaveSingleton handles PUT /api/v1/zones/{zone}/records/{type}/{id},
// writing last-writer-wins without a version check.
func (h *RecordsHandler) SaveSingleton(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, api.CodeUnauthorized, "missing identity")
		return
	}
	zone := r.PathValue("zone")

	var rec api.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, api.CodeInternal, "invalid request body")
		return
	}
	rec.RecordType = r.PathValue("type")
	rec.RecordID = r.PathValue("id")

	if _, err := h.records.UpsertRecord(r.Context(), userID, zone, toStored(&rec)); err != nil {
		if errors.Is(err, storage.ErrZoneNotFound) {
			writeError(w, h.logger, http.StatusNotFound, api.CodeZoneNotFound, "zone not found")
			return
		}
		h.logger.Error("failed to save record", "error", err, "record_id", rec.RecordID)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to save record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSingleton handles GET /api/v1/zones/{zone}/records/{type}/{id}.
func (h *RecordsHandler) GetSingleton(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, api.CodeUnauthorized, "missing identity")
		return
	}
	zone := r.PathValue("zone")

	rec, err := h.records.GetRecord(r.Context(), userID, zone, r.PathValue("type"), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			writeError(w, h.logger, http.StatusNotFound, api.CodeNotFound, "record not found")
			return
		}
		h.logger.Error("failed to load record", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "failed to load record")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toWire(rec))
}

// changeToken mints the opaque feed token: zone epoch plus the sequence
// the feed has been read up to. Clients must echo it back verbatim.
func changeToken(epoch string, seq int64) string {
	return epoch + ":" + strconv.FormatInt(seq, 10)
}

func parseChangeToken(token string) (string, int64, error) {
	idx := strings.LastIndex(token, ":")
	if idx <= 0 {
		return "", 0, fmt.Errorf("malformed change token")
	}
	seq, err := strconv.ParseInt(token[idx+1:], 10, 64)
	if err != nil || seq < 0 {
		return "", 0, fmt.Errorf("malformed change token")
	}
	return token[:idx], seq, nil
}

func toStored(rec *api.Record) *storage.StoredRecord {
	return &storage.StoredRecord{
		RecordID:     rec.RecordID,
		RecordType:   rec.RecordType,
		NodeID:       rec.NodeID,
		Fields:       rec.Fields,
		LastModified: rec.LastModified,
		Version:      rec.Version,
	}
}

func toWire(rec *storage.StoredRecord) *api.Record {
	return &api.Record{
		RecordID:     rec.RecordID,
		RecordType:   rec.RecordType,
		NodeID:       rec.NodeID,
		Fields:       rec.Fields,
		LastModified: rec.LastModified,
		Version:      rec.Version,
	}
}
