package sync

import (
	"context"
	"errors"
	"log/slog"
	stdsync "sync"
	"time"
)

// passRunner is the slice of the engine the scheduler drives.
type passRunner interface {
	Sync(ctx context.Context) error
	Enabled() bool
}

// Scheduler decides when a sync pass runs: it debounces bursts of local
// changes, enforces a minimum inter-attempt interval, fires on
// connectivity restore and app foreground, and ticks periodically in
// the background. It never runs two passes itself; the engine's lane
// guard makes an overlapping request a no-op anyway.
type Scheduler struct {
	runner passRunner
	logger *slog.Logger
	cfg    Config
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu         stdsync.Mutex
	debounce   *time.Timer
	bgTimer    *time.Timer
	dirty      bool
	foreground bool
	lastAttempt time.Time
}

// NewScheduler creates a scheduler in the foreground state.
func NewScheduler(runner passRunner, cfg Config, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner:     runner,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
		foreground: true,
	}
}

// SetClock overrides the scheduler clock for deterministic tests.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Close cancels all pending timers. An in-flight pass is not
// interrupted; passes run to completion.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	if s.bgTimer != nil {
		s.bgTimer.Stop()
		s.bgTimer = nil
	}
}

// NotifyLocalChange marks the state dirty and (re)starts the debounce
// timer: a burst of N changes collapses into one pass fired one
// debounce delay after the last change.
func (s *Scheduler) NotifyLocalChange() {
	if !s.runner.Enabled() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true
	if s.foreground {
		s.armDebounceLocked(s.cfg.DebounceDelay)
	}
}

// RequestSync asks for an incremental pass now, fire-and-forget,
// subject to the rate limit.
func (s *Scheduler) RequestSync() {
	s.attempt()
}

// OnConnectivityRestored fires when the network monitor observes an
// Unavailable to Available transition.
func (s *Scheduler) OnConnectivityRestored() {
	s.logger.Info("connectivity restored, requesting sync")
	s.attempt()
}

// OnForeground re-enters the foreground state and opportunistically
// requests a pass.
func (s *Scheduler) OnForeground() {
	s.mu.Lock()
	s.foreground = true
	if s.bgTimer != nil {
		s.bgTimer.Stop()
		s.bgTimer = nil
	}
	s.mu.Unlock()

	s.attempt()
}

// OnBackground cancels the foreground debounce timer and schedules one
// best-effort background execution opportunity.
func (s *Scheduler) OnBackground() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.foreground = false
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}

	if s.bgTimer != nil {
		s.bgTimer.Stop()
	}
	s.bgTimer = time.AfterFunc(s.cfg.BackgroundSyncInterval, s.attempt)
}

// Dirty reports whether local changes are waiting for a pass.
func (s *Scheduler) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// attempt runs the rate-limit guard and, if allowed, launches one pass.
// A throttled attempt is deferred, not dropped: the dirty flag stays
// set and the debounce timer is re-armed for the remaining interval.
func (s *Scheduler) attempt() {
	if !s.runner.Enabled() {
		return
	}

	s.mu.Lock()
	now := s.now()
	if wait := s.cfg.MinSyncInterval - now.Sub(s.lastAttempt); wait > 0 {
		s.dirty = true
		s.armDebounceLocked(wait)
		s.mu.Unlock()
		s.logger.Debug("sync attempt throttled", "retry_in", wait)
		return
	}
	s.lastAttempt = now
	s.dirty = false
	ctx := s.ctx
	s.mu.Unlock()

	go func() {
		if err := s.runner.Sync(ctx); err != nil && !errors.Is(err, ErrDisabled) {
			s.logger.Error("scheduled sync pass failed", "error", err)
		}
	}()
}

// armDebounceLocked resets the debounce timer. Caller holds s.mu.
func (s *Scheduler) armDebounceLocked(d time.Duration) {
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(d, s.attempt)
}
