package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChangeType classifies a local mutation recorded in the change ledger.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeRecord is one entry in the change ledger: a local mutation that
// has not yet been confirmed by the remote store.
type ChangeRecord struct {
	Timestamp  time.Time  `json:"timestamp"`
	RecordID   string     `json:"record_id"`
	RecordType string     `json:"record_type"`
	ChangeType ChangeType `json:"change_type"`
}

// Key returns the deduplication key used when clearing processed entries.
func (c *ChangeRecord) Key() string {
	return c.RecordID + "/" + c.RecordType + "/" + string(c.ChangeType)
}

// TombstoneRecord is a durable deletion marker. It outlives the
// corresponding ChangeRecord: it stays in the ledger until the remote
// store reflects the deletion, and is pruned after the retention window.
type TombstoneRecord struct {
	DeletedAt    time.Time `json:"deleted_at"`
	OriginalID   string    `json:"original_id"`
	OriginalType string    `json:"original_type"`
	Uploaded     bool      `json:"uploaded"` // local bookkeeping, set once the marker reached the remote
}

// TombstoneID returns the record ID the tombstone is uploaded under.
// It is derived from the original key so re-uploads are idempotent.
func (t *TombstoneRecord) TombstoneID() string {
	return "tombstone:" + t.OriginalType + ":" + t.OriginalID
}

// EncodeTombstone wraps a tombstone into a record envelope for upload.
func EncodeTombstone(t *TombstoneRecord, nodeID string) (*Record, error) {
	fields, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tombstone: %w", err)
	}

	return &Record{
		RecordID:     t.TombstoneID(),
		RecordType:   RecordTypeTombstone,
		Fields:       fields,
		LastModified: t.DeletedAt,
		NodeID:       nodeID,
	}, nil
}

// DecodeTombstone extracts the tombstone payload from a record observed
// in the change feed.
func DecodeTombstone(r *Record) (*TombstoneRecord, error) {
	if r.RecordType != RecordTypeTombstone {
		return nil, fmt.Errorf("record %s is not a tombstone", r.Key())
	}

	var t TombstoneRecord
	if err := json.Unmarshal(r.Fields, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tombstone %s: %w", r.RecordID, err)
	}

	return &t, nil
}
