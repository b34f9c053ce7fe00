// Package remote abstracts the cloud record store the sync engine
// pushes to and pulls from: zones, batch writes, a token-cursored
// change feed. The HTTP client here is the only place transport errors
// exist; everything it returns is classified into the Kind taxonomy.
package remote

import (
	"context"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

//go:generate moq -out adapter_mock.go . Adapter

// Adapter is the remote store boundary consumed by the sync engine.
type Adapter interface {
	// EnsureZone idempotently creates the named zone
	EnsureZone(ctx context.Context, zone string) error

	// PushBatch writes records in chunks and returns the IDs that were
	// accepted. A partially failed batch returns the accepted IDs
	// together with a KindPartialFailure error listing the rest.
	PushBatch(ctx context.Context, zone string, records []*models.Record) ([]string, error)

	// DeleteBatch removes records by ID, tolerating already-deleted
	// ones, and returns the IDs now absent
	DeleteBatch(ctx context.Context, zone string, recordType string, ids []string) ([]string, error)

	// FetchChangesSince returns everything changed after the given
	// token ("" means from the beginning) plus the next token
	FetchChangesSince(ctx context.Context, zone string, token string) (*ChangeSet, error)

	// FetchAll returns every record of one type in the zone
	FetchAll(ctx context.Context, zone string, recordType string) ([]*models.Record, error)

	// SaveSingleton unconditionally upserts a record, bypassing
	// optimistic concurrency. Used for singleton records like settings
	// where the engine already resolved the conflict.
	SaveSingleton(ctx context.Context, zone string, record *models.Record) error

	// FetchSingleton retrieves one record by type and ID.
	// Returns a KindRecordNotFound error if it doesn't exist.
	FetchSingleton(ctx context.Context, zone string, recordType string, id string) (*models.Record, error)
}

// ChangeSet is one page of the remote change feed.
type ChangeSet struct {
	Token      string
	Changed    []*models.Record
	DeletedIDs []string
}
