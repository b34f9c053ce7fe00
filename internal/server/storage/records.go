package storage

import (
	"context"
	"time"
)

// Zone is one sync partition owned by a user. Epoch rotates whenever the
// change log is compacted, invalidating tokens minted before the rotation.
type Zone struct {
	UserID    string
	Name      string
	Epoch     string // uuid
	ChangeSeq int64  // last sequence number issued in this zone
	PrunedSeq int64  // highest sequence removed by retention pruning
}

// StoredRecord is the server-side copy of one synced record. Seq is the
// zone change sequence assigned at the last write; deleted records stay
// in place as feed tombstones until pruned.
type StoredRecord struct {
	LastModified time.Time
	RecordID     string
	RecordType   string
	NodeID       string
	Fields       []byte
	Version      int64
	Seq          int64
	Deleted      bool
}

// ZoneStorage defines the interface for zone persistence
type ZoneStorage interface {
	// EnsureZone creates the zone if it does not exist and returns it
	EnsureZone(ctx context.Context, userID, name string) (*Zone, error)

	// GetZone retrieves a zone.
	// Returns ErrZoneNotFound if it was never created.
	GetZone(ctx context.Context, userID, name string) (*Zone, error)
}

// RecordStorage defines the interface for synced record persistence.
// Every write advances the zone change sequence so the changes feed can
// replay it.
type RecordStorage interface {
	// SaveRecord writes a record if expectedVersion matches the stored
	// version (0 means the client believes the record is new). Returns
	// the saved record with its new version and sequence, or
	// ErrVersionMismatch.
	SaveRecord(ctx context.Context, userID, zone string, rec *StoredRecord, expectedVersion int64) (*StoredRecord, error)

	// UpsertRecord writes a record unconditionally, bypassing the
	// version check. Used for last-writer-wins singletons.
	UpsertRecord(ctx context.Context, userID, zone string, rec *StoredRecord) (*StoredRecord, error)

	// GetRecord retrieves a single live record.
	// Returns ErrRecordNotFound if it doesn't exist or is deleted.
	GetRecord(ctx context.Context, userID, zone, recordType, id string) (*StoredRecord, error)

	// ListRecords retrieves all live records of one type
	ListRecords(ctx context.Context, userID, zone, recordType string) ([]*StoredRecord, error)

	// DeleteRecords soft-deletes records by ID, tolerating missing and
	// already-deleted ones, and returns the IDs now absent
	DeleteRecords(ctx context.Context, userID, zone, recordType string, ids []string) ([]string, error)

	// ChangesSince returns live records changed after sinceSeq, the IDs
	// deleted after sinceSeq, and the zone's current sequence. Writes
	// originating from excludeNode are suppressed.
	ChangesSince(ctx context.Context, userID, zone string, sinceSeq int64, excludeNode string) ([]*StoredRecord, []string, int64, error)

	// CountRecords returns the number of live records a user holds
	// across all zones. Used for quota enforcement.
	CountRecords(ctx context.Context, userID string) (int, error)

	// PruneDeleted removes tombstoned rows older than the cutoff and
	// advances each affected zone's pruned sequence. Returns the number
	// of rows removed.
	PruneDeleted(ctx context.Context, cutoff time.Time) (int, error)
}
