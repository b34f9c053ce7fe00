// Package data is the client-side CRUD layer over the local record
// store: predictions, the settings singleton, and the derived accuracy
// metrics. Every mutation lands in the change ledger and pokes the
// scheduler so the sync engine knows there is work.
package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/ledger"
	"github.com/anti-elegant/Delphi-sub000/internal/models"
)

// Metric record IDs maintained by the service.
const (
	MetricTotalResolved = "total_resolved"
	MetricCorrectCount  = "correct_count"
	MetricAccuracy      = "accuracy"
	MetricBrierScore    = "brier_score"
)

// ErrPredictionNotFound is returned for lookups of unknown IDs.
var ErrPredictionNotFound = errors.New("prediction not found")

// ErrAlreadyResolved rejects resolving the same prediction twice.
var ErrAlreadyResolved = errors.New("prediction already resolved")

// ChangeNotifier is poked after every local mutation; the scheduler's
// debounce timer sits behind it.
type ChangeNotifier interface {
	NotifyLocalChange()
}

// Service is the client data layer.
type Service interface {
	AddPrediction(ctx context.Context, p *models.Prediction) (*models.Prediction, error)
	GetPrediction(ctx context.Context, id string) (*models.Prediction, error)
	ListPredictions(ctx context.Context) ([]*models.Prediction, error)
	ResolvePrediction(ctx context.Context, id string, outcome models.Outcome) error
	DeletePrediction(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, s *models.Settings) error

	Metrics(ctx context.Context) (map[string]float64, error)
}

type service struct {
	records  storage.RecordStorage
	meta     storage.MetadataStorage
	ledger   *ledger.Ledger
	notifier ChangeNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates the data service. notifier may be nil when no
// scheduler is attached (one-shot CLI commands).
func NewService(
	records storage.RecordStorage,
	meta storage.MetadataStorage,
	led *ledger.Ledger,
	notifier ChangeNotifier,
	logger *slog.Logger,
) Service {
	return &service{
		records:  records,
		meta:     meta,
		ledger:   led,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// AddPrediction stores a new prediction and queues it for upload.
func (s *service) AddPrediction(ctx context.Context, p *models.Prediction) (*models.Prediction, error) {
	if p.Statement == "" {
		return nil, fmt.Errorf("prediction statement cannot be empty")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return nil, fmt.Errorf("confidence must be between 0 and 1, got %v", p.Confidence)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Outcome == "" {
		p.Outcome = models.OutcomePending
	}

	nodeID, err := s.meta.GetNodeID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load node ID: %w", err)
	}

	rec, err := models.EncodePrediction(p, s.now(), nodeID)
	if err != nil {
		return nil, err
	}
	if err := s.records.SaveRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	s.ledger.RecordChange(ctx, p.ID, models.RecordTypePrediction, models.ChangeCreated)
	s.changed()

	return p, nil
}

// GetPrediction returns one prediction by ID.
func (s *service) GetPrediction(ctx context.Context, id string) (*models.Prediction, error) {
	rec, err := s.records.GetRecord(ctx, models.RecordTypePrediction, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("failed to load prediction: %w", err)
	}
	return models.DecodePrediction(rec)
}

// ListPredictions returns all predictions, newest first.
func (s *service) ListPredictions(ctx context.Context) ([]*models.Prediction, error) {
	recs, err := s.records.GetRecordsByType(ctx, models.RecordTypePrediction)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].LastModified.After(recs[j].LastModified)
	})

	out := make([]*models.Prediction, 0, len(recs))
	for _, rec := range recs {
		p, err := models.DecodePrediction(rec)
		if err != nil {
			s.logger.Warn("skipping undecodable prediction", "id", rec.RecordID, "error", err)
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

// ResolvePrediction records the actual outcome and recomputes the
// derived accuracy metrics.
func (s *service) ResolvePrediction(ctx context.Context, id string, outcome models.Outcome) error {
	if outcome != models.OutcomeCorrect && outcome != models.OutcomeIncorrect {
		return fmt.Errorf("outcome must be %q or %q", models.OutcomeCorrect, models.OutcomeIncorrect)
	}

	p, err := s.GetPrediction(ctx, id)
	if err != nil {
		return err
	}
	if p.Outcome != models.OutcomePending {
		return ErrAlreadyResolved
	}

	now := s.now()
	p.Outcome = outcome
	p.ResolvedAt = &now

	nodeID, err := s.meta.GetNodeID(ctx)
	if err != nil {
		return fmt.Errorf("failed to load node ID: %w", err)
	}

	rec, err := models.EncodePrediction(p, now, nodeID)
	if err != nil {
		return err
	}
	if err := s.records.SaveRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}

	s.ledger.RecordChange(ctx, id, models.RecordTypePrediction, models.ChangeUpdated)

	if err := s.recomputeMetrics(ctx, nodeID); err != nil {
		// Metrics are derived; the resolution itself already stuck
		s.logger.Error("failed to recompute metrics", "error", err)
	}
	s.changed()

	return nil
}

// DeletePrediction removes a prediction and queues a tombstone so the
// deletion propagates to other devices.
func (s *service) DeletePrediction(ctx context.Context, id string) error {
	if _, err := s.GetPrediction(ctx, id); err != nil {
		return err
	}
	if err := s.records.DeleteRecord(ctx, models.RecordTypePrediction, id); err != nil {
		return fmt.Errorf("failed to delete prediction: %w", err)
	}

	s.ledger.RecordDeletion(ctx, id, models.RecordTypePrediction)

	nodeID, err := s.meta.GetNodeID(ctx)
	if err == nil {
		if merr := s.recomputeMetrics(ctx, nodeID); merr != nil {
			s.logger.Error("failed to recompute metrics", "error", merr)
		}
	}
	s.changed()

	return nil
}

// GetSettings returns the stored settings, or defaults if none exist.
func (s *service) GetSettings(ctx context.Context) (*models.Settings, error) {
	rec, err := s.records.GetRecord(ctx, models.RecordTypeSettings, models.SettingsRecordID)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return &models.Settings{
				ConflictStrategy: "newer_wins",
				SyncEnabled:      true,
				ReminderHour:     9,
			}, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return models.DecodeSettings(rec)
}

// SaveSettings stores the settings singleton and flags it for upload.
func (s *service) SaveSettings(ctx context.Context, settings *models.Settings) error {
	nodeID, err := s.meta.GetNodeID(ctx)
	if err != nil {
		return fmt.Errorf("failed to load node ID: %w", err)
	}

	rec, err := models.EncodeSettings(settings, s.now(), nodeID)
	if err != nil {
		return err
	}
	rec.NeedsSync = true
	if err := s.records.SaveRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.changed()

	return nil
}

// Metrics returns the derived accuracy aggregates by metric ID.
func (s *service) Metrics(ctx context.Context) (map[string]float64, error) {
	recs, err := s.records.GetRecordsByType(ctx, models.RecordTypeMetric)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}

	out := make(map[string]float64, len(recs))
	for _, rec := range recs {
		m, err := models.DecodeMetric(rec)
		if err != nil {
			s.logger.Warn("skipping undecodable metric", "id", rec.RecordID, "error", err)
			continue
		}
		out[m.ID] = m.Value
	}

	return out, nil
}

// recomputeMetrics rebuilds the accuracy aggregates from scratch and
// flags them for upload. Metrics travel on needs-sync flags, not the
// change ledger; they are derived data reconciled last-write-wins.
func (s *service) recomputeMetrics(ctx context.Context, nodeID string) error {
	preds, err := s.ListPredictions(ctx)
	if err != nil {
		return err
	}

	var resolved, correct int
	var brierSum float64
	for _, p := range preds {
		switch p.Outcome {
		case models.OutcomeCorrect:
			resolved++
			correct++
			brierSum += (1 - p.Confidence) * (1 - p.Confidence)
		case models.OutcomeIncorrect:
			resolved++
			brierSum += p.Confidence * p.Confidence
		}
	}

	values := map[string]struct {
		name  string
		value float64
	}{
		MetricTotalResolved: {"Resolved predictions", float64(resolved)},
		MetricCorrectCount:  {"Correct predictions", float64(correct)},
	}
	if resolved > 0 {
		values[MetricAccuracy] = struct {
			name  string
			value float64
		}{"Accuracy", float64(correct) / float64(resolved)}
		values[MetricBrierScore] = struct {
			name  string
			value float64
		}{"Brier score", brierSum / float64(resolved)}
	}

	now := s.now()
	for id, v := range values {
		rec, err := models.EncodeMetric(&models.Metric{
			ID:    id,
			Name:  v.name,
			Value: v.value,
		}, now, nodeID)
		if err != nil {
			return err
		}
		rec.NeedsSync = true
		if err := s.records.SaveRecord(ctx, rec); err != nil {
			return fmt.Errorf("failed to save metric %s: %w", id, err)
		}
	}

	return nil
}

func (s *service) changed() {
	if s.notifier != nil {
		s.notifier.NotifyLocalChange()
	}
}
