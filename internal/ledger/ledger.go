// Package ledger tracks local mutations that still have to reach the
// remote store: an append-only change list plus a separate tombstone
// list for deletions. Both survive restarts via LedgerStorage.
package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

// TombstoneRetention is how long uploaded tombstones are kept before
// being pruned on Clear.
const TombstoneRetention = 30 * 24 * time.Hour

// Ledger is the in-memory change ledger. Appends never fail: state is
// mutated in memory first and persisted best-effort, so a persistence
// hiccup costs at worst a full resync, never a lost local edit.
type Ledger struct {
	storage    storage.LedgerStorage
	logger     *slog.Logger
	now        func() time.Time
	changes    []models.ChangeRecord
	tombstones []models.TombstoneRecord
	mu         sync.Mutex
}

// New creates a ledger and reloads any persisted state. A load failure
// is non-fatal: it logs and starts empty, which triggers a full resync.
func New(ctx context.Context, st storage.LedgerStorage, logger *slog.Logger) *Ledger {
	l := &Ledger{
		storage: st,
		logger:  logger,
		now:     time.Now,
	}

	changes, err := st.LoadChanges(ctx)
	if err != nil {
		logger.Warn("failed to load change ledger, starting empty", "error", err)
	} else {
		l.changes = changes
	}

	tombstones, err := st.LoadTombstones(ctx)
	if err != nil {
		logger.Warn("failed to load tombstone ledger, starting empty", "error", err)
	} else {
		l.tombstones = tombstones
	}

	return l
}

// SetClock replaces the time source. Used in tests.
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// RecordChange appends a change entry for a local mutation.
func (l *Ledger) RecordChange(ctx context.Context, id, recordType string, changeType models.ChangeType) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.changes = append(l.changes, models.ChangeRecord{
		RecordID:   id,
		RecordType: recordType,
		ChangeType: changeType,
		Timestamp:  l.now(),
	})

	l.persistChangesLocked(ctx)
}

// RecordDeletion appends a tombstone and the matching Deleted change
// entry for a local delete.
func (l *Ledger) RecordDeletion(ctx context.Context, id, recordType string) {
	l.mu.Lock()

	deletedAt := l.now()
	l.tombstones = append(l.tombstones, models.TombstoneRecord{
		OriginalID:   id,
		OriginalType: recordType,
		DeletedAt:    deletedAt,
	})
	l.persistTombstonesLocked(ctx)

	l.changes = append(l.changes, models.ChangeRecord{
		RecordID:   id,
		RecordType: recordType,
		ChangeType: models.ChangeDeleted,
		Timestamp:  deletedAt,
	})
	l.persistChangesLocked(ctx)

	l.mu.Unlock()
}

// PendingChanges returns a snapshot of the unprocessed change entries.
func (l *Ledger) PendingChanges() []models.ChangeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.ChangeRecord, len(l.changes))
	copy(out, l.changes)
	return out
}

// PendingCount returns the number of unprocessed change entries.
func (l *Ledger) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.changes)
}

// PendingTombstones returns the tombstones not yet uploaded.
func (l *Ledger) PendingTombstones() []models.TombstoneRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.TombstoneRecord, 0, len(l.tombstones))
	for _, t := range l.tombstones {
		if !t.Uploaded {
			out = append(out, t)
		}
	}
	return out
}

// MarkTombstonesUploaded flags the given tombstones as having reached
// the remote. They stay in the ledger until the retention window
// expires so a second device consuming the feed late still finds them.
func (l *Ledger) MarkTombstonesUploaded(ctx context.Context, processed []models.TombstoneRecord) {
	processedKeys := make(map[string]struct{}, len(processed))
	for _, t := range processed {
		processedKeys[t.OriginalType+"/"+t.OriginalID] = struct{}{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.tombstones {
		key := l.tombstones[i].OriginalType + "/" + l.tombstones[i].OriginalID
		if _, ok := processedKeys[key]; ok {
			l.tombstones[i].Uploaded = true
		}
	}

	l.persistTombstonesLocked(ctx)
}

// Clear removes exactly the processed change entries (matched by
// (id, type, changeType)) and prunes tombstones older than the
// retention window.
func (l *Ledger) Clear(ctx context.Context, processed []models.ChangeRecord) {
	processedKeys := make(map[string]struct{}, len(processed))
	for i := range processed {
		processedKeys[processed[i].Key()] = struct{}{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.changes[:0]
	for _, c := range l.changes {
		if _, ok := processedKeys[c.Key()]; !ok {
			remaining = append(remaining, c)
		}
	}
	l.changes = remaining
	l.persistChangesLocked(ctx)

	cutoff := l.now().Add(-TombstoneRetention)
	kept := l.tombstones[:0]
	for _, t := range l.tombstones {
		if t.DeletedAt.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.tombstones = kept
	l.persistTombstonesLocked(ctx)
}

// persistChangesLocked saves the change list; the caller holds l.mu.
func (l *Ledger) persistChangesLocked(ctx context.Context) {
	if err := l.storage.SaveChanges(ctx, l.changes); err != nil {
		l.logger.Warn("failed to persist change ledger", "error", err, "pending", len(l.changes))
	}
}

// persistTombstonesLocked saves the tombstone list; the caller holds l.mu.
func (l *Ledger) persistTombstonesLocked(ctx context.Context) {
	if err := l.storage.SaveTombstones(ctx, l.tombstones); err != nil {
		l.logger.Warn("failed to persist tombstone ledger", "error", err, "tombstones", len(l.tombstones))
	}
}
