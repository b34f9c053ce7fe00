package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

// Ledger state lives under two fixed keys: the whole list is rewritten
// on every mutation. The lists are small (pending changes since the
// last sync), so the simplicity wins over per-entry keys.
var (
	keyLedgerChanges    = []byte("changes")
	keyLedgerTombstones = []byte("tombstones")
)

// SaveChanges overwrites the persisted pending change list
func (s *Storage) SaveChanges(ctx context.Context, changes []models.ChangeRecord) error {
	return s.saveLedgerList(keyLedgerChanges, changes)
}

// LoadChanges returns the persisted pending change list
func (s *Storage) LoadChanges(ctx context.Context) ([]models.ChangeRecord, error) {
	changes := []models.ChangeRecord{}
	if err := s.loadLedgerList(keyLedgerChanges, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// SaveTombstones overwrites the persisted tombstone list
func (s *Storage) SaveTombstones(ctx context.Context, tombstones []models.TombstoneRecord) error {
	return s.saveLedgerList(keyLedgerTombstones, tombstones)
}

// LoadTombstones returns the persisted tombstone list
func (s *Storage) LoadTombstones(ctx context.Context) ([]models.TombstoneRecord, error) {
	tombstones := []models.TombstoneRecord{}
	if err := s.loadLedgerList(keyLedgerTombstones, &tombstones); err != nil {
		return nil, err
	}
	return tombstones, nil
}

func (s *Storage) saveLedgerList(key []byte, list any) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger list: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLedger)
		if bucket == nil {
			return fmt.Errorf("ledger bucket not found")
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save ledger list: %w", err)
		}

		return nil
	})
}

func (s *Storage) loadLedgerList(key []byte, out any) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLedger)
		if bucket == nil {
			return nil
		}

		data := bucket.Get(key)
		if data == nil {
			return nil
		}

		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal ledger list: %w", err)
		}

		return nil
	})
}
