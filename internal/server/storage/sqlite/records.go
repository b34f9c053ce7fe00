package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anti-elegant/Delphi-sub000/internal/server/storage"
)

// EnsureZone creates the zone if it does not exist and returns it.
func (s *Storage) EnsureZone(ctx context.Context, userID, name string) (*storage.Zone, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO zones (user_id, name, epoch, change_seq, pruned_seq)
		VALUES (?, ?, ?, 0, 0)
		ON CONFLICT (user_id, name) DO NOTHING
	`, userID, name, uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("failed to ensure zone: %w", err)
	}

	return s.GetZone(ctx, userID, name)
}

// GetZone retrieves a zone.
func (s *Storage) GetZone(ctx context.Context, userID, name string) (*storage.Zone, error) {
	zone := &storage.Zone{UserID: userID, Name: name}

	err := s.db.QueryRowContext(ctx, `
		SELECT epoch, change_seq, pruned_seq FROM zones WHERE user_id = ? AND name = ?
	`, userID, name).Scan(&zone.Epoch, &zone.ChangeSeq, &zone.PrunedSeq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to query zone: %w", err)
	}

	return zone, nil
}

// nextSeqTx advances the zone change sequence inside tx and returns the
// newly issued value.
func nextSeqTx(ctx context.Context, tx *sql.Tx, userID, zone string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE zones SET change_seq = change_seq + 1 WHERE user_id = ? AND name = ?
	`, userID, zone)
	if err != nil {
		return 0, fmt.Errorf("failed to advance change sequence: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return 0, storage.ErrZoneNotFound
	}

	var seq int64
	err = tx.QueryRowContext(ctx, `
		SELECT change_seq FROM zones WHERE user_id = ? AND name = ?
	`, userID, zone).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to read change sequence: %w", err)
	}

	return seq, nil
}

// SaveRecord writes a record if expectedVersion matches the stored
// version. A record that does not exist yet accepts any expected
// version; a deleted row is overwritten unconditionally (resurrection
// is the conflict resolver's call, not the store's).
func (s *Storage) SaveRecord(ctx context.Context, userID, zone string, rec *storage.StoredRecord, expectedVersion int64) (*storage.StoredRecord, error) {
	return s.writeRecord(ctx, userID, zone, rec, &expectedVersion)
}

// UpsertRecord writes a record unconditionally, bypassing the version check.
func (s *Storage) UpsertRecord(ctx context.Context, userID, zone string, rec *storage.StoredRecord) (*storage.StoredRecord, error) {
	return s.writeRecord(ctx, userID, zone, rec, nil)
}

func (s *Storage) writeRecord(ctx context.Context, userID, zone string, rec *storage.StoredRecord, expectedVersion *int64) (*storage.StoredRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var stored int64
	var deleted int
	err = tx.QueryRowContext(ctx, `
		SELECT version, deleted FROM records
		WHERE user_id = ? AND zone = ? AND record_type = ? AND record_id = ?
	`, userID, zone, rec.RecordType, rec.RecordID).Scan(&stored, &deleted)

	exists := true
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to check existing record: %w", err)
		}
		exists = false
	}

	if exists && deleted == 0 && expectedVersion != nil && *expectedVersion != stored {
		return nil, storage.ErrVersionMismatch
	}

	seq, err := nextSeqTx(ctx, tx, userID, zone)
	if err != nil {
		return nil, err
	}

	saved := *rec
	saved.Seq = seq
	saved.Deleted = false
	if exists {
		saved.Version = stored + 1
	} else {
		saved.Version = 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (user_id, zone, record_type, record_id, fields, node_id, last_modified, version, seq, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (user_id, zone, record_type, record_id) DO UPDATE SET
			fields = excluded.fields,
			node_id = excluded.node_id,
			last_modified = excluded.last_modified,
			version = excluded.version,
			seq = excluded.seq,
			deleted = 0
	`, userID, zone, saved.RecordType, saved.RecordID, saved.Fields, saved.NodeID,
		saved.LastModified.UnixNano(), saved.Version, saved.Seq)
	if err != nil {
		return nil, fmt.Errorf("failed to write record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return &saved, nil
}

// GetRecord retrieves a single live record.
func (s *Storage) GetRecord(ctx context.Context, userID, zone, recordType, id string) (*storage.StoredRecord, error) {
	rec, err := s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT record_type, record_id, fields, node_id, last_modified, version, seq, deleted
		FROM records
		WHERE user_id = ? AND zone = ? AND record_type = ? AND record_id = ?
	`, userID, zone, recordType, id))
	if err != nil {
		return nil, err
	}
	if rec.Deleted {
		return nil, storage.ErrRecordNotFound
	}
	return rec, nil
}

// ListRecords retrieves all live records of one type.
func (s *Storage) ListRecords(ctx context.Context, userID, zone, recordType string) ([]*storage.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record_type, record_id, fields, node_id, last_modified, version, seq, deleted
		FROM records
		WHERE user_id = ? AND zone = ? AND record_type = ? AND deleted = 0
		ORDER BY seq
	`, userID, zone, recordType)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

// DeleteRecords soft-deletes records by ID. Missing and already-deleted
// IDs still count as absent and are included in the result.
func (s *Storage) DeleteRecords(ctx context.Context, userID, zone, recordType string, ids []string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	absent := make([]string, 0, len(ids))
	now := time.Now().UnixNano()

	for _, id := range ids {
		var deleted int
		err := tx.QueryRowContext(ctx, `
			SELECT deleted FROM records
			WHERE user_id = ? AND zone = ? AND record_type = ? AND record_id = ?
		`, userID, zone, recordType, id).Scan(&deleted)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				absent = append(absent, id)
				continue
			}
			return nil, fmt.Errorf("failed to check record %s: %w", id, err)
		}
		if deleted == 1 {
			absent = append(absent, id)
			continue
		}

		seq, err := nextSeqTx(ctx, tx, userID, zone)
		if err != nil {
			return nil, err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE records SET deleted = 1, seq = ?, last_modified = ?, version = version + 1
			WHERE user_id = ? AND zone = ? AND record_type = ? AND record_id = ?
		`, seq, now, userID, zone, recordType, id)
		if err != nil {
			return nil, fmt.Errorf("failed to delete record %s: %w", id, err)
		}

		absent = append(absent, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return absent, nil
}

// ChangesSince returns live records changed after sinceSeq, IDs deleted
// after sinceSeq, and the zone's current sequence. Live changes written
// by excludeNode are suppressed so a device never downloads its own
// uploads.
func (s *Storage) ChangesSince(ctx context.Context, userID, zone string, sinceSeq int64, excludeNode string) ([]*storage.StoredRecord, []string, int64, error) {
	z, err := s.GetZone(ctx, userID, zone)
	if err != nil {
		return nil, nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT record_type, record_id, fields, node_id, last_modified, version, seq, deleted
		FROM records
		WHERE user_id = ? AND zone = ? AND seq > ?
		ORDER BY seq
	`, userID, zone, sinceSeq)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to query changes: %w", err)
	}
	defer rows.Close()

	all, err := scanAll(rows)
	if err != nil {
		return nil, nil, 0, err
	}

	var changed []*storage.StoredRecord
	var deletedIDs []string
	for _, rec := range all {
		switch {
		case rec.Deleted:
			deletedIDs = append(deletedIDs, rec.RecordID)
		case excludeNode == "" || rec.NodeID != excludeNode:
			changed = append(changed, rec)
		}
	}

	return changed, deletedIDs, z.ChangeSeq, nil
}

// CountRecords returns the number of live records a user holds across
// all zones.
func (s *Storage) CountRecords(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM records WHERE user_id = ? AND deleted = 0
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// PruneDeleted removes tombstoned rows older than the cutoff and records
// the highest pruned sequence per zone, expiring tokens that would still
// need those rows.
func (s *Storage) PruneDeleted(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		UPDATE zones SET pruned_seq = max(pruned_seq, COALESCE((
			SELECT MAX(seq) FROM records
			WHERE records.user_id = zones.user_id AND records.zone = zones.name
			  AND records.deleted = 1 AND records.last_modified < ?
		), 0))
	`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to advance pruned sequences: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM records WHERE deleted = 1 AND last_modified < ?
	`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune records: %w", err)
	}

	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return int(pruned), nil
}

func (s *Storage) scanOne(row *sql.Row) (*storage.StoredRecord, error) {
	rec := &storage.StoredRecord{}
	var lastModified int64
	var deleted int

	err := row.Scan(
		&rec.RecordType,
		&rec.RecordID,
		&rec.Fields,
		&rec.NodeID,
		&lastModified,
		&rec.Version,
		&rec.Seq,
		&deleted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	rec.LastModified = time.Unix(0, lastModified).UTC()
	rec.Deleted = deleted == 1

	return rec, nil
}

func scanAll(rows *sql.Rows) ([]*storage.StoredRecord, error) {
	var out []*storage.StoredRecord

	for rows.Next() {
		rec := &storage.StoredRecord{}
		var lastModified int64
		var deleted int

		err := rows.Scan(
			&rec.RecordType,
			&rec.RecordID,
			&rec.Fields,
			&rec.NodeID,
			&lastModified,
			&rec.Version,
			&rec.Seq,
			&deleted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec.LastModified = time.Unix(0, lastModified).UTC()
		rec.Deleted = deleted == 1
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return out, nil
}
