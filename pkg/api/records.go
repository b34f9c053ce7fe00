package api

import "time"

// Record is the wire representation of one synced record.
type Record struct {
	LastModified time.Time `json:"last_modified"`
	RecordID     string    `json:"record_id"`
	RecordType   string    `json:"record_type"`
	NodeID       string    `json:"node_id"`
	Fields       []byte    `json:"fields"`
	Version      int64     `json:"version"`
}

// PushRequest carries a batch of records to write into a zone.
// Each record's Version is the last server version the client observed
// (0 for a record the client believes is new); a mismatch fails that
// record with CodeConflict.
type PushRequest struct {
	Records []Record `json:"records"`
}

// RecordFailure describes one record that could not be written.
type RecordFailure struct {
	RecordID string `json:"record_id"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// PushResponse reports per-record results of a batch push.
type PushResponse struct {
	SavedIDs []string        `json:"saved_ids"`
	Failed   []RecordFailure `json:"failed,omitempty"`
}

// DeleteRequest carries a batch of record IDs to delete from a zone.
type DeleteRequest struct {
	RecordType string   `json:"record_type"`
	RecordIDs  []string `json:"record_ids"`
}

// DeleteResponse lists the IDs that are now absent, including ones that
// were already deleted before the request.
type DeleteResponse struct {
	DeletedIDs []string `json:"deleted_ids"`
}

// ChangesResponse is the change feed since a client-held token.
// ChangeToken is opaque to clients and must be echoed back verbatim.
type ChangesResponse struct {
	Changed     []Record `json:"changed"`
	DeletedIDs  []string `json:"deleted_ids"`
	ChangeToken string   `json:"change_token"`
}

// RecordsResponse is the full record listing of one type in a zone.
type RecordsResponse struct {
	Records []Record `json:"records"`
}

// Failure codes returned in RecordFailure.Code and ErrorResponse.Code.
const (
	CodeConflict      = "conflict"
	CodeNotFound      = "not_found"
	CodeZoneNotFound  = "zone_not_found"
	CodeTokenExpired  = "token_expired"
	CodeQuotaExceeded = "quota_exceeded"
	CodeRateLimited   = "rate_limited"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeInternal      = "internal"
)
