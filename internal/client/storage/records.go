package storage

import (
	"context"
	"time"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

//go:generate moq -out records_mock.go . RecordStorage

// RecordStorage defines the local record store boundary the sync engine
// consumes. Implementations own persistence only; change tracking is the
// ledger's job.
type RecordStorage interface {
	// SaveRecord creates or overwrites a record (upsert by type+ID)
	SaveRecord(ctx context.Context, record *models.Record) error

	// GetRecord retrieves a record by type and ID
	// Returns ErrRecordNotFound if it doesn't exist
	GetRecord(ctx context.Context, recordType, id string) (*models.Record, error)

	// GetRecordsByType returns all records of one type
	GetRecordsByType(ctx context.Context, recordType string) ([]*models.Record, error)

	// GetRecordsModifiedSince returns records of one type with
	// LastModified strictly after the given time
	GetRecordsModifiedSince(ctx context.Context, recordType string, since time.Time) ([]*models.Record, error)

	// DeleteRecord removes a record; deleting a missing record is not an error
	DeleteRecord(ctx context.Context, recordType, id string) error

	// GetNeedsSync returns records of one type flagged as needing upload
	GetNeedsSync(ctx context.Context, recordType string) ([]*models.Record, error)

	// MarkSynced clears the needs-sync flag on the given records
	MarkSynced(ctx context.Context, recordType string, ids []string) error
}
