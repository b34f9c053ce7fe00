package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const (
	keyLastSyncTime = "last_sync_time"
	keyChangeToken  = "change_token"
	keyNodeID       = "node_id"
)

// SaveLastSyncTime saves the time of the last successful sync pass
func (s *Storage) SaveLastSyncTime(ctx context.Context, t time.Time) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))

		if err := bucket.Put([]byte(keyLastSyncTime), buf); err != nil {
			return fmt.Errorf("failed to save last sync time: %w", err)
		}

		return nil
	})
}

// GetLastSyncTime retrieves the time of the last successful sync pass.
// Returns the zero time if no sync has completed yet.
func (s *Storage) GetLastSyncTime(ctx context.Context) (time.Time, error) {
	var t time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		buf := bucket.Get([]byte(keyLastSyncTime))
		if buf == nil {
			return nil
		}

		t = time.Unix(0, int64(binary.BigEndian.Uint64(buf)))
		return nil
	})

	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return t, nil
}

// SaveChangeToken stores the opaque remote change token verbatim
func (s *Storage) SaveChangeToken(ctx context.Context, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if err := bucket.Put([]byte(keyChangeToken), []byte(token)); err != nil {
			return fmt.Errorf("failed to save change token: %w", err)
		}

		return nil
	})
}

// GetChangeToken retrieves the stored change token, "" if none
func (s *Storage) GetChangeToken(ctx context.Context) (string, error) {
	var token string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if data := bucket.Get([]byte(keyChangeToken)); data != nil {
			token = string(data)
		}

		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to get change token: %w", err)
	}

	return token, nil
}

// GetNodeID returns the persisted per-install node ID, generating and
// persisting one on first call.
func (s *Storage) GetNodeID(ctx context.Context) (string, error) {
	var nodeID string

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if data := bucket.Get([]byte(keyNodeID)); data != nil {
			nodeID = string(data)
			return nil
		}

		nodeID = uuid.New().String()
		if err := bucket.Put([]byte(keyNodeID), []byte(nodeID)); err != nil {
			return fmt.Errorf("failed to save node ID: %w", err)
		}

		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to get node ID: %w", err)
	}

	return nodeID, nil
}
