package sync

import (
	"context"
	"io"
	"log/slog"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner stands in for the engine behind the scheduler.
type fakeRunner struct {
	mu      stdsync.Mutex
	calls   int
	enabled bool
	fired   chan struct{}
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{enabled: true, fired: make(chan struct{}, 16)}
}

func (r *fakeRunner) Sync(_ context.Context) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	r.fired <- struct{}{}
	return nil
}

func (r *fakeRunner) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

func (r *fakeRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newTestScheduler(runner *fakeRunner, cfg Config) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewScheduler(runner, cfg, logger)
}

func waitForSync(t *testing.T, runner *fakeRunner, timeout time.Duration) {
	t.Helper()
	select {
	case <-runner.fired:
	case <-time.After(timeout):
		t.Fatal("expected a sync pass, none fired")
	}
}

func assertNoSync(t *testing.T, runner *fakeRunner, within time.Duration) {
	t.Helper()
	select {
	case <-runner.fired:
		t.Fatal("unexpected sync pass")
	case <-time.After(within):
	}
}

func TestScheduler_DebounceCollapsesBurst(t *testing.T) {
	cfg := DefaultConfig("test-zone")
	cfg.DebounceDelay = 30 * time.Millisecond
	cfg.MinSyncInterval = 0

	runner := newFakeRunner()
	s := newTestScheduler(runner, cfg)
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.NotifyLocalChange()
		time.Sleep(2 * time.Millisecond)
	}

	waitForSync(t, runner, time.Second)
	assertNoSync(t, runner, 100*time.Millisecond)
	assert.Equal(t, 1, runner.callCount())
}

func TestScheduler_DebounceRestartsOnEachChange(t *testing.T) {
	cfg := DefaultConfig("test-zone")
	cfg.DebounceDelay = 50 * time.Millisecond
	cfg.MinSyncInterval = 0

	runner := newFakeRunner()
	s := newTestScheduler(runner, cfg)
	defer s.Close()

	s.NotifyLocalChange()
	time.Sleep(30 * time.Millisecond)
	// Still inside the quiet period: the timer restarts
	s.NotifyLocalChange()
	assertNoSync(t, runner, 30*time.Millisecond)

	waitForSync(t, runner, time.Second)
	assert.Equal(t, 1, runner.callCount())
}

func TestScheduler_RateLimitDefersNotDrops(t *testing.T) {
	cfg := DefaultConfig("test-zone")
	cfg.DebounceDelay = 5 * time.Millisecond
	cfg.MinSyncInterval = 80 * time.Millisecond

	runner := newFakeRunner()
	s := newTestScheduler(runner, cfg)
	defer s.Close()

	s.RequestSync()
	waitForSync(t, runner, time.Second)

	// Second request inside the interval is throttled but kept
	s.RequestSync()
	require.True(t, s.Dirty())
	assertNoSync(t, runner, 40*time.Millisecond)

	// It fires once the interval has passed
	waitForSync(t, runner, time.Second)
	assert.Equal(t, 2, runner.callCount())
	assert.False(t, s.Dirty())
}

func TestScheduler_DisabledRunnerIgnoresRequests(t *testing.T) {
	cfg := DefaultConfig("test-zone")
	cfg.DebounceDelay = 10 * time.Millisecond
	cfg.MinSyncInterval = 0

	runner := newFakeRunner()
	runner.enabled = false

	s := newTestScheduler(runner, cfg)
	defer s.Close()

	s.NotifyLocalChange()
	s.RequestSync()
	s.OnConnectivityRestored()

	assertNoSync(t, runner, 50*time.Millisecond)
	assert.Equal(t, 0, runner.callCount())
}

func TestScheduler_BackgroundCancelsDebounce(t *testing.T) {
	cfg := DefaultConfig("test-zone")
	cfg.DebounceDelay = 30 * time.Millisecond
	cfg.MinSyncInterval = 0
	cfg.BackgroundSyncInterval = time.Hour

	runner := newFakeRunner()
	s := newTestScheduler(runner, cfg)
	defer s.Close()

	s.NotifyLocalChange()
	s.OnBackground()

	assertNoSync(t, runner, 80*time.Millisecond)

	// Changes while backgrounded stay dirty but arm no timer
	s.NotifyLocalChange()
	assertNoSync(t, runner, 80*time.Millisecond)
	assert.True(t, s.Dirty())
}

func TestScheduler_ForegroundTriggersAttempt(t *testing.T) {
	cfg := DefaultConfig("test-zone")
	cfg.MinSyncInterval = 0

	runner := newFakeRunner()
	s := newTestScheduler(runner, cfg)
	defer s.Close()

	s.OnBackground()
	s.OnForeground()

	waitForSync(t, runner, time.Second)
	assert.Equal(t, 1, runner.callCount())
}

func TestScheduler_ConnectivityRestoreTriggersAttempt(t *testing.T) {
	cfg := DefaultConfig("test-zone")
	cfg.MinSyncInterval = 0

	runner := newFakeRunner()
	s := newTestScheduler(runner, cfg)
	defer s.Close()

	s.OnConnectivityRestored()

	waitForSync(t, runner, time.Second)
	assert.Equal(t, 1, runner.callCount())
}

func TestScheduler_CloseStopsPendingTimers(t *testing.T) {
	cfg := DefaultConfig("test-zone")
	cfg.DebounceDelay = 20 * time.Millisecond
	cfg.MinSyncInterval = 0

	runner := newFakeRunner()
	s := newTestScheduler(runner, cfg)

	s.NotifyLocalChange()
	s.Close()

	assertNoSync(t, runner, 60*time.Millisecond)
}
