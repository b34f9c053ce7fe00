package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record types known to the sync engine. The engine itself only cares
// about (RecordType, RecordID) and LastModified; field semantics stay in
// the typed payloads below.
const (
	RecordTypePrediction = "prediction"
	RecordTypeSettings   = "settings"
	RecordTypeMetric     = "metric"
	RecordTypeTombstone  = "tombstone"
)

// SettingsRecordID is the fixed ID of the settings singleton record.
const SettingsRecordID = "settings"

// Record is the generic envelope every synced entity travels in.
// Fields holds the JSON-encoded typed payload (Prediction, Settings,
// Metric or Tombstone depending on RecordType).
type Record struct {
	LastModified time.Time       `json:"last_modified"`
	RecordID     string          `json:"record_id"`
	RecordType   string          `json:"record_type"`
	NodeID       string          `json:"node_id"`
	Fields       json.RawMessage `json:"fields"`
	Version      int64           `json:"version"`
	NeedsSync    bool            `json:"needs_sync,omitempty"` // local-only flag, never sent on the wire
}

// Key returns the addressing key of the record.
func (r *Record) Key() string {
	return r.RecordType + "/" + r.RecordID
}

// IsNewerThan reports whether r was modified strictly after other.
func (r *Record) IsNewerThan(other *Record) bool {
	return r.LastModified.After(other.LastModified)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	fields := make(json.RawMessage, len(r.Fields))
	copy(fields, r.Fields)

	return &Record{
		RecordID:     r.RecordID,
		RecordType:   r.RecordType,
		Fields:       fields,
		LastModified: r.LastModified,
		Version:      r.Version,
		NodeID:       r.NodeID,
		NeedsSync:    r.NeedsSync,
	}
}

// Outcome is the resolution state of a prediction.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Prediction is a single logged forecast.
type Prediction struct {
	Due        time.Time  `json:"due"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ID         string     `json:"id"`
	Statement  string     `json:"statement"`
	Outcome    Outcome    `json:"outcome"`
	Confidence float64    `json:"confidence"` // 0.0–1.0
}

// Settings is the singleton user settings record.
type Settings struct {
	ConflictStrategy string `json:"conflict_strategy"`
	SyncEnabled      bool   `json:"sync_enabled"`
	ReminderHour     int    `json:"reminder_hour"`
}

// Metric is a derived accuracy aggregate, one per metric name.
type Metric struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// EncodePrediction wraps a prediction into a record envelope.
func EncodePrediction(p *Prediction, lastModified time.Time, nodeID string) (*Record, error) {
	fields, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction: %w", err)
	}

	return &Record{
		RecordID:     p.ID,
		RecordType:   RecordTypePrediction,
		Fields:       fields,
		LastModified: lastModified,
		NodeID:       nodeID,
	}, nil
}

// DecodePrediction extracts the typed payload from a prediction record.
func DecodePrediction(r *Record) (*Prediction, error) {
	if r.RecordType != RecordTypePrediction {
		return nil, fmt.Errorf("record %s is not a prediction", r.Key())
	}

	var p Prediction
	if err := json.Unmarshal(r.Fields, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prediction %s: %w", r.RecordID, err)
	}

	return &p, nil
}

// EncodeSettings wraps the settings singleton into a record envelope.
func EncodeSettings(s *Settings, lastModified time.Time, nodeID string) (*Record, error) {
	fields, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	return &Record{
		RecordID:     SettingsRecordID,
		RecordType:   RecordTypeSettings,
		Fields:       fields,
		LastModified: lastModified,
		NodeID:       nodeID,
	}, nil
}

// DecodeSettings extracts the typed payload from the settings record.
func DecodeSettings(r *Record) (*Settings, error) {
	if r.RecordType != RecordTypeSettings {
		return nil, fmt.Errorf("record %s is not settings", r.Key())
	}

	var s Settings
	if err := json.Unmarshal(r.Fields, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &s, nil
}

// EncodeMetric wraps a metric into a record envelope.
func EncodeMetric(m *Metric, lastModified time.Time, nodeID string) (*Record, error) {
	fields, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metric: %w", err)
	}

	return &Record{
		RecordID:     m.ID,
		RecordType:   RecordTypeMetric,
		Fields:       fields,
		LastModified: lastModified,
		NodeID:       nodeID,
	}, nil
}

// DecodeMetric extracts the typed payload from a metric record.
func DecodeMetric(r *Record) (*Metric, error) {
	if r.RecordType != RecordTypeMetric {
		return nil, fmt.Errorf("record %s is not a metric", r.Key())
	}

	var m Metric
	if err := json.Unmarshal(r.Fields, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metric %s: %w", r.RecordID, err)
	}

	return &m, nil
}
