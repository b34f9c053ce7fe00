package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage persists sync engine bookkeeping that must survive
// restarts: the last successful sync time, the remote change token and
// the per-install node identity.
type MetadataStorage interface {
	// SaveLastSyncTime saves the time of the last successful sync pass
	SaveLastSyncTime(ctx context.Context, t time.Time) error

	// GetLastSyncTime retrieves the time of the last successful sync pass
	// Returns the zero time if no sync has completed yet
	GetLastSyncTime(ctx context.Context) (time.Time, error)

	// SaveChangeToken stores the opaque remote change token verbatim
	// An empty string means "no token" (full resync on next pass)
	SaveChangeToken(ctx context.Context, token string) error

	// GetChangeToken retrieves the stored change token
	// Returns "" if no token has been stored yet
	GetChangeToken(ctx context.Context) (string, error)

	// GetNodeID returns the persisted per-install node ID, generating
	// and persisting one on first call
	GetNodeID(ctx context.Context) (string, error)
}
