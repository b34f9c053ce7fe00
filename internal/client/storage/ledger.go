package storage

import (
	"context"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

//go:generate moq -out ledger_mock.go . LedgerStorage

// LedgerStorage persists the change ledger state: the pending change
// list and the tombstone list, each serialized under a fixed key. The
// ledger itself lives in memory; this interface only makes it survive
// process restarts.
type LedgerStorage interface {
	// SaveChanges overwrites the persisted pending change list
	SaveChanges(ctx context.Context, changes []models.ChangeRecord) error

	// LoadChanges returns the persisted pending change list
	// Returns an empty slice if nothing was persisted yet
	LoadChanges(ctx context.Context) ([]models.ChangeRecord, error)

	// SaveTombstones overwrites the persisted tombstone list
	SaveTombstones(ctx context.Context, tombstones []models.TombstoneRecord) error

	// LoadTombstones returns the persisted tombstone list
	// Returns an empty slice if nothing was persisted yet
	LoadTombstones(ctx context.Context) ([]models.TombstoneRecord, error)
}
