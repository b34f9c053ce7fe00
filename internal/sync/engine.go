package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/ledger"
	"github.com/anti-elegant/Delphi-sub000/internal/models"
	"github.com/anti-elegant/Delphi-sub000/internal/remote"
	"github.com/anti-elegant/Delphi-sub000/pkg/api"
)

// ErrDisabled is returned when a sync pass is requested while sync is
// switched off. The pass is simply never started.
var ErrDisabled = errors.New("sync is disabled")

// Engine orchestrates full and incremental sync passes between the
// local record store and the remote zone. All dependencies are injected
// at construction; the engine owns the change ledger and the status
// cell and is their only mutator during a pass.
type Engine struct {
	records storage.RecordStorage
	meta    storage.MetadataStorage
	ledger  *ledger.Ledger
	adapter remote.Adapter
	status  *Status
	logger  *slog.Logger
	now     func() time.Time
	cfg     Config

	// running is the single sync lane: at most one pass at a time.
	// A request while a pass is in flight is a no-op.
	running atomic.Bool
	enabled atomic.Bool
}

// NewEngine creates a sync engine. Sync starts enabled.
func NewEngine(
	cfg Config,
	records storage.RecordStorage,
	meta storage.MetadataStorage,
	led *ledger.Ledger,
	adapter remote.Adapter,
	logger *slog.Logger,
) *Engine {
	e := &Engine{
		cfg:     cfg,
		records: records,
		meta:    meta,
		ledger:  led,
		adapter: adapter,
		status:  NewStatus(),
		logger:  logger,
		now:     time.Now,
	}
	e.enabled.Store(true)

	return e
}

// SetClock overrides the engine clock for deterministic tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.status.now = now
}

// Enable switches sync on.
func (e *Engine) Enable() { e.enabled.Store(true) }

// Disable switches sync off. An in-flight pass runs to completion.
func (e *Engine) Disable() { e.enabled.Store(false) }

// Enabled reports whether sync is switched on.
func (e *Engine) Enabled() bool { return e.enabled.Load() }

// Status returns the observable status cell.
func (e *Engine) Status() *Status { return e.status }

// RecordChange appends a local mutation to the change ledger so the
// next pass uploads it. Called by local-store mutation paths.
func (e *Engine) RecordChange(ctx context.Context, id, recordType string, changeType models.ChangeType) {
	e.ledger.RecordChange(ctx, id, recordType, changeType)
}

// RecordDeletion appends a deletion and its tombstone to the ledger.
func (e *Engine) RecordDeletion(ctx context.Context, id, recordType string) {
	e.ledger.RecordDeletion(ctx, id, recordType)
}

// Sync runs one incremental pass, escalating to a full pass on first
// run or when the backlog guard trips.
func (e *Engine) Sync(ctx context.Context) error {
	return e.run(ctx, false)
}

// FullSync bypasses the incremental path entirely.
func (e *Engine) FullSync(ctx context.Context) error {
	return e.run(ctx, true)
}

func (e *Engine) run(ctx context.Context, full bool) error {
	if !e.enabled.Load() {
		return ErrDisabled
	}
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Debug("sync pass already in flight, request is a no-op")
		return nil
	}
	defer e.running.Store(false)

	e.status.setPhase(PhasePreparing)

	if !full {
		full = e.shouldEscalate(ctx)
	}

	start := e.now()

	var err error
	if full {
		err = e.fullPass(ctx)
	} else {
		err = e.incrementalPass(ctx)
	}
	if err != nil {
		e.logger.Error("sync pass failed",
			"full", full, "duration", e.now().Sub(start), "error", err)
		e.status.setError(err.Error())
		return err
	}

	e.logger.Info("sync pass completed",
		"full", full, "duration", e.now().Sub(start))
	e.status.setPhase(PhaseSuccess)

	return nil
}

// shouldEscalate decides whether an incremental request is upgraded to
// a full pass: always on first run, and when the pending backlog
// exceeds the threshold while the last pass is long past.
func (e *Engine) shouldEscalate(ctx context.Context) bool {
	lastSync, err := e.meta.GetLastSyncTime(ctx)
	if err != nil || lastSync.IsZero() {
		return true
	}

	if e.ledger.PendingCount() > e.cfg.IncrementalThreshold &&
		e.now().Sub(lastSync) > e.cfg.StaleAfter {
		e.logger.Info("escalating to full sync",
			"pending", e.ledger.PendingCount(), "last_sync", lastSync)
		return true
	}

	return false
}

// incrementalPass is the common path: tombstones, then download-apply,
// then upload, then singleton deltas, then ledger clearing. Phase order
// matters: each phase's completion establishes state the next depends on.
func (e *Engine) incrementalPass(ctx context.Context) error {
	tombs, err := e.pushTombstones(ctx)
	if err != nil {
		return err
	}
	e.ledger.MarkTombstonesUploaded(ctx, tombs)
	e.status.setProgress(0.1)

	applied, err := e.downloadChanges(ctx)
	if err != nil {
		switch remote.KindOf(err) {
		case remote.KindTokenInvalid:
			// Expired cursor: reset and recover with a full pass
			e.logger.Warn("change token expired, falling back to full sync")
			if serr := e.meta.SaveChangeToken(ctx, ""); serr != nil {
				return fmt.Errorf("failed to reset change token: %w", serr)
			}
			return e.fullPass(ctx)
		case remote.KindZoneNotFound:
			e.logger.Warn("zone missing, recreating and falling back to full sync")
			return e.fullPass(ctx)
		default:
			return err
		}
	}
	e.status.setProgress(0.5)

	saved, err := e.uploadLocalChanges(ctx, applied)
	if err != nil {
		return err
	}
	e.status.setProgress(0.8)

	if err := e.syncSettings(ctx, false); err != nil {
		return err
	}
	if err := e.syncMetricDeltas(ctx); err != nil {
		return err
	}
	e.status.setProgress(0.9)

	e.ledger.Clear(ctx, e.processedChanges(saved, applied, tombs))
	if err := e.meta.SaveLastSyncTime(ctx, e.now()); err != nil {
		return fmt.Errorf("failed to save last sync time: %w", err)
	}
	e.status.setProgress(1.0)

	return nil
}

// fullPass re-downloads and re-uploads everything. The change token is
// reset up front; the next incremental pass re-acquires a fresh cursor
// by reading the feed from the beginning, which is idempotent.
func (e *Engine) fullPass(ctx context.Context) error {
	if err := e.meta.SaveChangeToken(ctx, ""); err != nil {
		return fmt.Errorf("failed to reset change token: %w", err)
	}
	if err := e.adapter.EnsureZone(ctx, e.cfg.Zone); err != nil {
		return err
	}

	tombs, err := e.pushTombstones(ctx)
	if err != nil {
		return err
	}
	e.ledger.MarkTombstonesUploaded(ctx, tombs)
	e.status.setProgress(0.1)

	if err := e.syncSettings(ctx, true); err != nil {
		return err
	}
	e.status.setProgress(0.2)

	if err := e.syncMetricsFull(ctx); err != nil {
		return err
	}
	e.status.setProgress(0.3)

	remoteRecs, err := e.adapter.FetchAll(ctx, e.cfg.Zone, models.RecordTypePrediction)
	if err != nil {
		return err
	}

	applied := make(map[string]struct{})
	for _, rec := range remoteRecs {
		if e.applyRemoteRecord(ctx, rec) {
			applied[rec.Key()] = struct{}{}
		}
	}
	e.status.setProgress(0.6)

	locals, err := e.records.GetRecordsByType(ctx, models.RecordTypePrediction)
	if err != nil {
		return fmt.Errorf("failed to load local predictions: %w", err)
	}

	saved, err := e.pushRecords(ctx, excludeApplied(locals, applied))
	if err != nil {
		return err
	}
	e.status.setProgress(0.9)

	e.ledger.Clear(ctx, e.processedChanges(saved, applied, tombs))
	if err := e.meta.SaveLastSyncTime(ctx, e.now()); err != nil {
		return fmt.Errorf("failed to save last sync time: %w", err)
	}
	e.status.setProgress(1.0)

	return nil
}

// pushTombstones uploads pending deletion markers and best-effort
// deletes the live remote records they refer to. Returns the tombstones
// confirmed by the remote; unconfirmed ones stay pending.
func (e *Engine) pushTombstones(ctx context.Context) ([]models.TombstoneRecord, error) {
	pending := e.ledger.PendingTombstones()
	if len(pending) == 0 {
		return nil, nil
	}

	nodeID, err := e.meta.GetNodeID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load node ID: %w", err)
	}

	markers := make([]*models.Record, 0, len(pending))
	for i := range pending {
		marker, err := models.EncodeTombstone(&pending[i], nodeID)
		if err != nil {
			e.logger.Error("failed to encode tombstone",
				"id", pending[i].OriginalID, "error", err)
			continue
		}
		markers = append(markers, marker)
	}

	saved, err := e.adapter.PushBatch(ctx, e.cfg.Zone, markers)
	if err != nil && remote.KindOf(err) != remote.KindPartialFailure {
		return nil, err
	}

	savedSet := make(map[string]struct{}, len(saved))
	for _, id := range saved {
		savedSet[id] = struct{}{}
	}

	confirmed := make([]models.TombstoneRecord, 0, len(saved))
	liveByType := make(map[string][]string)
	for _, t := range pending {
		if _, ok := savedSet[t.TombstoneID()]; !ok {
			continue
		}
		confirmed = append(confirmed, t)
		liveByType[t.OriginalType] = append(liveByType[t.OriginalType], t.OriginalID)
	}

	for recordType, ids := range liveByType {
		if _, err := e.adapter.DeleteBatch(ctx, e.cfg.Zone, recordType, ids); err != nil {
			if remote.KindOf(err) == remote.KindRecordNotFound {
				continue // already gone, which is the goal
			}
			return nil, err
		}
	}

	return confirmed, nil
}

// downloadChanges fetches the change feed since the persisted token and
// applies it. The token is persisted immediately after a successful
// fetch-apply, not deferred to end of pass, so a crash never
// re-downloads already-applied changes. Individual records that fail to
// apply are logged and skipped; partial progress is preserved.
func (e *Engine) downloadChanges(ctx context.Context) (map[string]struct{}, error) {
	token, err := e.meta.GetChangeToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load change token: %w", err)
	}

	cs, err := e.adapter.FetchChangesSince(ctx, e.cfg.Zone, token)
	if err != nil {
		return nil, err
	}

	applied := make(map[string]struct{})
	for _, rec := range cs.Changed {
		if rec.RecordType == models.RecordTypeTombstone {
			e.applyRemoteTombstone(ctx, rec)
			continue
		}
		if e.applyRemoteRecord(ctx, rec) {
			applied[rec.Key()] = struct{}{}
		}
	}

	// Native deletes in the feed carry no type; only predictions are
	// ever deleted through this path (tombstones cover the rest).
	for _, id := range cs.DeletedIDs {
		if err := e.records.DeleteRecord(ctx, models.RecordTypePrediction, id); err != nil {
			e.logger.Error("failed to apply remote delete", "id", id, "error", err)
		}
	}

	if err := e.meta.SaveChangeToken(ctx, cs.Token); err != nil {
		return nil, fmt.Errorf("failed to persist change token: %w", err)
	}

	return applied, nil
}

// applyRemoteRecord reconciles one downloaded record against the local
// copy and reports whether the remote version was applied. When local
// wins, nothing is written; the upload phase re-sends the local copy.
func (e *Engine) applyRemoteRecord(ctx context.Context, rec *models.Record) bool {
	local, err := e.records.GetRecord(ctx, rec.RecordType, rec.RecordID)
	if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
		e.logger.Error("failed to load local record", "key", rec.Key(), "error", err)
		return false
	}

	winner := Resolve(local, rec, e.cfg.ConflictStrategy)
	if winner != rec {
		return false
	}

	saved := rec.Clone()
	saved.NeedsSync = false
	if err := e.records.SaveRecord(ctx, saved); err != nil {
		e.logger.Error("failed to apply remote record", "key", rec.Key(), "error", err)
		return false
	}

	return true
}

// applyRemoteTombstone deletes the local copy a peer tombstoned, unless
// the local copy was modified strictly after the deletion. In that case
// the local update survives and is re-uploaded (resurrection); this is
// deliberate last-write-wins semantics.
func (e *Engine) applyRemoteTombstone(ctx context.Context, rec *models.Record) {
	ts, err := models.DecodeTombstone(rec)
	if err != nil {
		e.logger.Error("failed to decode tombstone", "key", rec.Key(), "error", err)
		return
	}

	local, err := e.records.GetRecord(ctx, ts.OriginalType, ts.OriginalID)
	if err != nil {
		if !errors.Is(err, storage.ErrRecordNotFound) {
			e.logger.Error("failed to load tombstoned record",
				"id", ts.OriginalID, "error", err)
		}
		return
	}

	if local.LastModified.After(ts.DeletedAt) {
		e.logger.Debug("local update outlives remote tombstone",
			"id", ts.OriginalID, "modified", local.LastModified, "deleted", ts.DeletedAt)
		return
	}

	if err := e.records.DeleteRecord(ctx, ts.OriginalType, ts.OriginalID); err != nil {
		e.logger.Error("failed to apply tombstone", "id", ts.OriginalID, "error", err)
	}
}

// uploadLocalChanges pushes local predictions modified since the last
// pass, skipping records the download phase just applied so a lost
// conflict is not immediately re-uploaded.
func (e *Engine) uploadLocalChanges(ctx context.Context, applied map[string]struct{}) (map[string]struct{}, error) {
	lastSync, err := e.meta.GetLastSyncTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load last sync time: %w", err)
	}

	locals, err := e.records.GetRecordsModifiedSince(ctx, models.RecordTypePrediction, lastSync)
	if err != nil {
		return nil, fmt.Errorf("failed to load modified records: %w", err)
	}

	return e.pushRecords(ctx, excludeApplied(locals, applied))
}

// pushRecords uploads a set of records, tolerating partial failure and
// resolving optimistic-concurrency conflicts with one retry each.
// Returns the IDs confirmed by the remote.
func (e *Engine) pushRecords(ctx context.Context, recs []*models.Record) (map[string]struct{}, error) {
	saved := make(map[string]struct{})
	if len(recs) == 0 {
		return saved, nil
	}

	byID := make(map[string]*models.Record, len(recs))
	for _, r := range recs {
		byID[r.RecordID] = r
	}

	savedIDs, err := e.adapter.PushBatch(ctx, e.cfg.Zone, recs)
	for _, id := range savedIDs {
		saved[id] = struct{}{}
	}

	if err != nil {
		var re *remote.Error
		if !errors.As(err, &re) || re.Kind != remote.KindPartialFailure {
			return saved, err
		}

		for _, f := range re.Failed {
			if f.Code != api.CodeConflict {
				// Stays pending; next pass retries
				e.logger.Warn("record rejected by remote",
					"id", f.RecordID, "code", f.Code, "message", f.Message)
				continue
			}
			if e.retryConflict(ctx, byID[f.RecordID]) {
				saved[f.RecordID] = struct{}{}
			}
		}
	}

	return saved, nil
}

// retryConflict handles an optimistic-concurrency rejection: fetch the
// current remote copy, resolve, and either apply the remote winner
// locally or re-push the local winner once with the fresh version.
func (e *Engine) retryConflict(ctx context.Context, local *models.Record) bool {
	if local == nil {
		return false
	}

	remoteCopy, err := e.adapter.FetchSingleton(ctx, e.cfg.Zone, local.RecordType, local.RecordID)
	if err != nil {
		e.logger.Error("failed to fetch conflicting record",
			"key", local.Key(), "error", err)
		return false
	}

	winner := Resolve(local, remoteCopy, e.cfg.ConflictStrategy)
	if winner == remoteCopy {
		applied := remoteCopy.Clone()
		applied.NeedsSync = false
		if err := e.records.SaveRecord(ctx, applied); err != nil {
			e.logger.Error("failed to apply conflict winner",
				"key", local.Key(), "error", err)
			return false
		}
		return true
	}

	repush := local.Clone()
	repush.Version = remoteCopy.Version
	savedIDs, err := e.adapter.PushBatch(ctx, e.cfg.Zone, []*models.Record{repush})
	if err != nil || len(savedIDs) == 0 {
		e.logger.Warn("conflict retry failed, record stays pending",
			"key", local.Key(), "error", err)
		return false
	}

	return true
}

// syncSettings reconciles the settings singleton. In an incremental
// pass only a locally dirty copy is uploaded; a full pass reconciles
// unconditionally.
func (e *Engine) syncSettings(ctx context.Context, full bool) error {
	local, err := e.records.GetRecord(ctx, models.RecordTypeSettings, models.SettingsRecordID)
	if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
		return fmt.Errorf("failed to load local settings: %w", err)
	}

	remoteCopy, err := e.adapter.FetchSingleton(ctx, e.cfg.Zone,
		models.RecordTypeSettings, models.SettingsRecordID)
	if err != nil {
		if remote.KindOf(err) != remote.KindRecordNotFound {
			return err
		}
		remoteCopy = nil
	}

	if local == nil && remoteCopy == nil {
		return nil
	}

	winner := Resolve(local, remoteCopy, e.cfg.ConflictStrategy)

	if winner == local && local != nil {
		if !full && !local.NeedsSync {
			return nil
		}
		upload := local.Clone()
		upload.NeedsSync = false
		if err := e.adapter.SaveSingleton(ctx, e.cfg.Zone, upload); err != nil {
			return err
		}
		if err := e.records.MarkSynced(ctx, models.RecordTypeSettings,
			[]string{models.SettingsRecordID}); err != nil {
			return fmt.Errorf("failed to mark settings synced: %w", err)
		}
		return nil
	}

	applied := remoteCopy.Clone()
	applied.NeedsSync = false
	if err := e.records.SaveRecord(ctx, applied); err != nil {
		return fmt.Errorf("failed to apply remote settings: %w", err)
	}

	return nil
}

// syncMetricDeltas uploads locally dirty metrics. Remote metric changes
// arrive through the change feed, so the incremental path only pushes.
func (e *Engine) syncMetricDeltas(ctx context.Context) error {
	dirty, err := e.records.GetNeedsSync(ctx, models.RecordTypeMetric)
	if err != nil {
		return fmt.Errorf("failed to load dirty metrics: %w", err)
	}
	if len(dirty) == 0 {
		return nil
	}

	syncedIDs := make([]string, 0, len(dirty))
	for _, m := range dirty {
		upload := m.Clone()
		upload.NeedsSync = false
		if err := e.adapter.SaveSingleton(ctx, e.cfg.Zone, upload); err != nil {
			return err
		}
		syncedIDs = append(syncedIDs, m.RecordID)
	}

	if err := e.records.MarkSynced(ctx, models.RecordTypeMetric, syncedIDs); err != nil {
		return fmt.Errorf("failed to mark metrics synced: %w", err)
	}

	return nil
}

// syncMetricsFull reconciles every metric record pairwise with the
// remote, applying remote winners locally and pushing local winners.
func (e *Engine) syncMetricsFull(ctx context.Context) error {
	remoteRecs, err := e.adapter.FetchAll(ctx, e.cfg.Zone, models.RecordTypeMetric)
	if err != nil {
		return err
	}

	remoteByID := make(map[string]*models.Record, len(remoteRecs))
	for _, r := range remoteRecs {
		remoteByID[r.RecordID] = r
	}

	locals, err := e.records.GetRecordsByType(ctx, models.RecordTypeMetric)
	if err != nil {
		return fmt.Errorf("failed to load local metrics: %w", err)
	}

	syncedIDs := make([]string, 0, len(locals))
	seen := make(map[string]struct{}, len(locals))
	for _, local := range locals {
		seen[local.RecordID] = struct{}{}

		winner := Resolve(local, remoteByID[local.RecordID], e.cfg.ConflictStrategy)
		if winner == local {
			upload := local.Clone()
			upload.NeedsSync = false
			if err := e.adapter.SaveSingleton(ctx, e.cfg.Zone, upload); err != nil {
				return err
			}
			syncedIDs = append(syncedIDs, local.RecordID)
			continue
		}

		applied := winner.Clone()
		applied.NeedsSync = false
		if err := e.records.SaveRecord(ctx, applied); err != nil {
			return fmt.Errorf("failed to apply remote metric: %w", err)
		}
	}

	for id, r := range remoteByID {
		if _, ok := seen[id]; ok {
			continue
		}
		applied := r.Clone()
		applied.NeedsSync = false
		if err := e.records.SaveRecord(ctx, applied); err != nil {
			return fmt.Errorf("failed to apply remote metric: %w", err)
		}
	}

	if len(syncedIDs) > 0 {
		if err := e.records.MarkSynced(ctx, models.RecordTypeMetric, syncedIDs); err != nil {
			return fmt.Errorf("failed to mark metrics synced: %w", err)
		}
	}

	return nil
}

// processedChanges maps confirmed uploads, applied downloads and
// uploaded tombstones back to the pending ChangeRecords they settle.
// Everything else stays in the ledger for the next pass.
func (e *Engine) processedChanges(
	saved map[string]struct{},
	applied map[string]struct{},
	tombs []models.TombstoneRecord,
) []models.ChangeRecord {
	tombSet := make(map[string]struct{}, len(tombs))
	for _, t := range tombs {
		tombSet[t.OriginalType+"/"+t.OriginalID] = struct{}{}
	}

	var processed []models.ChangeRecord
	for _, c := range e.ledger.PendingChanges() {
		switch {
		case c.ChangeType == models.ChangeDeleted:
			if _, ok := tombSet[c.RecordType+"/"+c.RecordID]; ok {
				processed = append(processed, c)
			}
		default:
			_, uploaded := saved[c.RecordID]
			_, overwritten := applied[c.RecordType+"/"+c.RecordID]
			if uploaded || overwritten {
				processed = append(processed, c)
			}
		}
	}

	return processed
}

// excludeApplied filters out records the download phase already
// settled, plus anything that is not locally dirty bookkeeping.
func excludeApplied(recs []*models.Record, applied map[string]struct{}) []*models.Record {
	out := make([]*models.Record, 0, len(recs))
	for _, r := range recs {
		if _, ok := applied[r.Key()]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}
