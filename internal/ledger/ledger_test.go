package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memLedgerStorage backs the ledger with plain slices.
func memLedgerStorage() *storage.LedgerStorageMock {
	var changes []models.ChangeRecord
	var tombstones []models.TombstoneRecord

	return &storage.LedgerStorageMock{
		SaveChangesFunc: func(ctx context.Context, c []models.ChangeRecord) error {
			changes = append([]models.ChangeRecord{}, c...)
			return nil
		},
		LoadChangesFunc: func(ctx context.Context) ([]models.ChangeRecord, error) {
			return changes, nil
		},
		SaveTombstonesFunc: func(ctx context.Context, ts []models.TombstoneRecord) error {
			tombstones = append([]models.TombstoneRecord{}, ts...)
			return nil
		},
		LoadTombstonesFunc: func(ctx context.Context) ([]models.TombstoneRecord, error) {
			return tombstones, nil
		},
	}
}

func TestRecordChange_Appends(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, memLedgerStorage(), testLogger())

	l.RecordChange(ctx, "p1", models.RecordTypePrediction, models.ChangeCreated)
	l.RecordChange(ctx, "p2", models.RecordTypePrediction, models.ChangeUpdated)

	pending := l.PendingChanges()
	require.Len(t, pending, 2)
	assert.Equal(t, "p1", pending[0].RecordID)
	assert.Equal(t, models.ChangeUpdated, pending[1].ChangeType)
	assert.Equal(t, 2, l.PendingCount())
}

func TestRecordDeletion_AppendsTombstoneAndChange(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, memLedgerStorage(), testLogger())

	l.RecordDeletion(ctx, "p1", models.RecordTypePrediction)

	pending := l.PendingChanges()
	require.Len(t, pending, 1)
	assert.Equal(t, models.ChangeDeleted, pending[0].ChangeType)

	tombstones := l.PendingTombstones()
	require.Len(t, tombstones, 1)
	assert.Equal(t, "p1", tombstones[0].OriginalID)
	assert.Equal(t, pending[0].Timestamp, tombstones[0].DeletedAt)
}

func TestClear_RemovesExactlyProcessed(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, memLedgerStorage(), testLogger())

	l.RecordChange(ctx, "p1", models.RecordTypePrediction, models.ChangeCreated)
	l.RecordChange(ctx, "p2", models.RecordTypePrediction, models.ChangeUpdated)
	l.RecordChange(ctx, "m1", models.RecordTypeMetric, models.ChangeUpdated)

	processed := []models.ChangeRecord{
		{RecordID: "p1", RecordType: models.RecordTypePrediction, ChangeType: models.ChangeCreated},
		// Same ID but different change type must not match p2's update
		{RecordID: "p2", RecordType: models.RecordTypePrediction, ChangeType: models.ChangeDeleted},
	}

	l.Clear(ctx, processed)

	pending := l.PendingChanges()
	require.Len(t, pending, 2)
	assert.Equal(t, "p2", pending[0].RecordID)
	assert.Equal(t, "m1", pending[1].RecordID)
}

func TestClear_DeduplicatesByKey(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, memLedgerStorage(), testLogger())

	// Duplicate appends for the same key are harmless and both removed
	l.RecordChange(ctx, "p1", models.RecordTypePrediction, models.ChangeUpdated)
	l.RecordChange(ctx, "p1", models.RecordTypePrediction, models.ChangeUpdated)

	l.Clear(ctx, []models.ChangeRecord{
		{RecordID: "p1", RecordType: models.RecordTypePrediction, ChangeType: models.ChangeUpdated},
	})

	assert.Empty(t, l.PendingChanges())
}

func TestClear_PrunesExpiredTombstones(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, memLedgerStorage(), testLogger())

	now := time.Now()
	l.SetClock(func() time.Time { return now.Add(-31 * 24 * time.Hour) })
	l.RecordDeletion(ctx, "old", models.RecordTypePrediction)

	l.SetClock(func() time.Time { return now })
	l.RecordDeletion(ctx, "fresh", models.RecordTypePrediction)

	l.Clear(ctx, nil)

	tombstones := l.PendingTombstones()
	require.Len(t, tombstones, 1)
	assert.Equal(t, "fresh", tombstones[0].OriginalID)
}

func TestMarkTombstonesUploaded(t *testing.T) {
	ctx := context.Background()
	st := memLedgerStorage()
	l := New(ctx, st, testLogger())

	l.RecordDeletion(ctx, "p1", models.RecordTypePrediction)
	l.RecordDeletion(ctx, "p2", models.RecordTypePrediction)

	pending := l.PendingTombstones()
	require.Len(t, pending, 2)

	l.MarkTombstonesUploaded(ctx, pending[:1])

	remaining := l.PendingTombstones()
	require.Len(t, remaining, 1)
	assert.Equal(t, "p2", remaining[0].OriginalID)

	// Uploaded tombstones stay persisted until retention pruning
	saved, err := st.LoadTombstones(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestNew_ReloadsPersistedState(t *testing.T) {
	ctx := context.Background()
	st := memLedgerStorage()

	l := New(ctx, st, testLogger())
	l.RecordChange(ctx, "p1", models.RecordTypePrediction, models.ChangeCreated)
	l.RecordDeletion(ctx, "p2", models.RecordTypePrediction)

	// A second ledger over the same storage sees the same state
	l2 := New(ctx, st, testLogger())
	assert.Equal(t, 2, l2.PendingCount())
	assert.Len(t, l2.PendingTombstones(), 1)
}

func TestNew_LoadFailureStartsEmpty(t *testing.T) {
	ctx := context.Background()

	st := &storage.LedgerStorageMock{
		LoadChangesFunc: func(ctx context.Context) ([]models.ChangeRecord, error) {
			return nil, errors.New("corrupt")
		},
		LoadTombstonesFunc: func(ctx context.Context) ([]models.TombstoneRecord, error) {
			return nil, errors.New("corrupt")
		},
		SaveChangesFunc: func(ctx context.Context, c []models.ChangeRecord) error {
			return nil
		},
		SaveTombstonesFunc: func(ctx context.Context, ts []models.TombstoneRecord) error {
			return nil
		},
	}

	l := New(ctx, st, testLogger())
	assert.Zero(t, l.PendingCount())

	// Still usable after the failed load
	l.RecordChange(ctx, "p1", models.RecordTypePrediction, models.ChangeCreated)
	assert.Equal(t, 1, l.PendingCount())
}

func TestRecordChange_PersistFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()

	st := memLedgerStorage()
	st.SaveChangesFunc = func(ctx context.Context, c []models.ChangeRecord) error {
		return errors.New("disk full")
	}

	l := New(ctx, st, testLogger())
	l.RecordChange(ctx, "p1", models.RecordTypePrediction, models.ChangeCreated)

	// The in-memory state is kept even though persistence failed
	assert.Equal(t, 1, l.PendingCount())
}
