package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

// recordKey builds the bucket key for a record. Records of one type
// share a key prefix so type scans are a single cursor seek.
func recordKey(recordType, id string) []byte {
	return []byte(recordType + "/" + id)
}

// SaveRecord creates or overwrites a record
func (s *Storage) SaveRecord(ctx context.Context, record *models.Record) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return fmt.Errorf("records bucket not found")
		}

		if err := bucket.Put(recordKey(record.RecordType, record.RecordID), data); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// GetRecord retrieves a record by type and ID
func (s *Storage) GetRecord(ctx context.Context, recordType, id string) (*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var record *models.Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return storage.ErrRecordNotFound
		}

		data := bucket.Get(recordKey(recordType, id))
		if data == nil {
			return storage.ErrRecordNotFound
		}

		record = &models.Record{}
		if err := json.Unmarshal(data, record); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetRecordsByType returns all records of one type
func (s *Storage) GetRecordsByType(ctx context.Context, recordType string) ([]*models.Record, error) {
	return s.scanType(recordType, func(r *models.Record) bool { return true })
}

// GetRecordsModifiedSince returns records of one type modified strictly
// after the given time
func (s *Storage) GetRecordsModifiedSince(ctx context.Context, recordType string, since time.Time) ([]*models.Record, error) {
	return s.scanType(recordType, func(r *models.Record) bool {
		return r.LastModified.After(since)
	})
}

// GetNeedsSync returns records of one type flagged for upload
func (s *Storage) GetNeedsSync(ctx context.Context, recordType string) ([]*models.Record, error) {
	return s.scanType(recordType, func(r *models.Record) bool {
		return r.NeedsSync
	})
}

// scanType iterates the key prefix of one record type and collects
// records matching the filter.
func (s *Storage) scanType(recordType string, match func(*models.Record) bool) ([]*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	records := []*models.Record{}
	prefix := []byte(recordType + "/")

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return nil
		}

		c := bucket.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			record := &models.Record{}
			if err := json.Unmarshal(v, record); err != nil {
				return fmt.Errorf("failed to unmarshal record %s: %w", k, err)
			}
			if match(record) {
				records = append(records, record)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return records, nil
}

// DeleteRecord removes a record. Deleting a missing record is a no-op.
func (s *Storage) DeleteRecord(ctx context.Context, recordType, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return nil
		}

		if err := bucket.Delete(recordKey(recordType, id)); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		return nil
	})
}

// MarkSynced clears the needs-sync flag on the given records
func (s *Storage) MarkSynced(ctx context.Context, recordType string, ids []string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return fmt.Errorf("records bucket not found")
		}

		for _, id := range ids {
			key := recordKey(recordType, id)
			data := bucket.Get(key)
			if data == nil {
				continue
			}

			record := &models.Record{}
			if err := json.Unmarshal(data, record); err != nil {
				return fmt.Errorf("failed to unmarshal record %s: %w", id, err)
			}

			record.NeedsSync = false

			updated, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to marshal record %s: %w", id, err)
			}

			if err := bucket.Put(key, updated); err != nil {
				return fmt.Errorf("failed to update record %s: %w", id, err)
			}
		}

		return nil
	})
}
