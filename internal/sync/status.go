package sync

import (
	stdsync "sync"
	"time"
)

// Phase is the observable lifecycle phase of the sync engine.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePreparing Phase = "preparing"
	PhaseSyncing   Phase = "syncing"
	PhaseSuccess   Phase = "success"
	PhaseError     Phase = "error"
)

// State is one read-only snapshot of the sync status.
// Progress is only meaningful while Syncing: it is monotonically
// non-decreasing within one pass and reset to zero at pass start.
type State struct {
	UpdatedAt time.Time
	Reason    string // set only for PhaseError
	Phase     Phase
	Progress  float64
}

// Status is the single mutable status cell. It is written only by the
// sync engine and read by everything else, either as a snapshot or via
// change-notification channels.
type Status struct {
	mu          stdsync.RWMutex
	current     State
	subscribers map[int]chan State
	nextSubID   int
	now         func() time.Time
}

// NewStatus creates an idle status cell.
func NewStatus() *Status {
	return &Status{
		current:     State{Phase: PhaseIdle},
		subscribers: make(map[int]chan State),
		now:         time.Now,
	}
}

// Current returns the latest snapshot.
func (s *Status) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe returns a channel of state snapshots and a cancel function.
// Notifications are best-effort: a subscriber that stops draining its
// channel misses intermediate states, never blocks the engine.
func (s *Status) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan State, 16)
	s.subscribers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
	}
}

// set replaces the current state and fans it out to subscribers.
func (s *Status) set(state State) {
	state.UpdatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = state
	for _, ch := range s.subscribers {
		select {
		case ch <- state:
		default:
		}
	}
}

func (s *Status) setPhase(phase Phase) {
	s.set(State{Phase: phase})
}

// setProgress reports download/upload progress within a syncing pass,
// clamped to never move backwards.
func (s *Status) setProgress(progress float64) {
	s.mu.RLock()
	prev := s.current
	s.mu.RUnlock()

	if prev.Phase == PhaseSyncing && progress < prev.Progress {
		progress = prev.Progress
	}
	s.set(State{Phase: PhaseSyncing, Progress: progress})
}

func (s *Status) setError(reason string) {
	s.set(State{Phase: PhaseError, Reason: reason})
}
