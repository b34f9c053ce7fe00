package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

func TestSaveAndLoadChanges(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	changes := []models.ChangeRecord{
		{RecordID: "p1", RecordType: models.RecordTypePrediction, ChangeType: models.ChangeCreated, Timestamp: time.Now().UTC()},
		{RecordID: "p2", RecordType: models.RecordTypePrediction, ChangeType: models.ChangeUpdated, Timestamp: time.Now().UTC()},
	}

	require.NoError(t, store.SaveChanges(ctx, changes))

	loaded, err := store.LoadChanges(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "p1", loaded[0].RecordID)
	assert.Equal(t, models.ChangeUpdated, loaded[1].ChangeType)
}

func TestLoadChanges_Empty(t *testing.T) {
	store := createTestStorage(t)

	loaded, err := store.LoadChanges(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveChanges_OverwritesList(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChanges(ctx, []models.ChangeRecord{
		{RecordID: "p1", RecordType: models.RecordTypePrediction, ChangeType: models.ChangeCreated},
	}))
	require.NoError(t, store.SaveChanges(ctx, []models.ChangeRecord{}))

	loaded, err := store.LoadChanges(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSaveAndLoadTombstones(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tombstones := []models.TombstoneRecord{
		{OriginalID: "p1", OriginalType: models.RecordTypePrediction, DeletedAt: time.Now().UTC()},
	}

	require.NoError(t, store.SaveTombstones(ctx, tombstones))

	loaded, err := store.LoadTombstones(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "p1", loaded[0].OriginalID)
	assert.False(t, loaded[0].Uploaded)
}

func TestLedgerState_SurvivesReopen(t *testing.T) {
	dbPath := t.TempDir() + "/reopen_test.db"
	ctx := context.Background()

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	require.NoError(t, store.SaveChanges(ctx, []models.ChangeRecord{
		{RecordID: "p1", RecordType: models.RecordTypePrediction, ChangeType: models.ChangeDeleted},
	}))
	require.NoError(t, store.SaveTombstones(ctx, []models.TombstoneRecord{
		{OriginalID: "p1", OriginalType: models.RecordTypePrediction, DeletedAt: time.Now().UTC()},
	}))
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	changes, err := store.LoadChanges(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, models.ChangeDeleted, changes[0].ChangeType)

	tombstones, err := store.LoadTombstones(ctx)
	require.NoError(t, err)
	assert.Len(t, tombstones, 1)
}
