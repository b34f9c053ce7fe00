package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_InitiallyIdle(t *testing.T) {
	s := NewStatus()
	assert.Equal(t, PhaseIdle, s.Current().Phase)
}

func TestStatus_Subscribe(t *testing.T) {
	s := NewStatus()

	ch, cancel := s.Subscribe()
	defer cancel()

	s.setPhase(PhasePreparing)
	s.setProgress(0.5)

	state := <-ch
	assert.Equal(t, PhasePreparing, state.Phase)

	state = <-ch
	assert.Equal(t, PhaseSyncing, state.Phase)
	assert.InDelta(t, 0.5, state.Progress, 0.001)
}

func TestStatus_ProgressNeverMovesBackwards(t *testing.T) {
	s := NewStatus()

	s.setProgress(0.8)
	s.setProgress(0.3)

	assert.InDelta(t, 0.8, s.Current().Progress, 0.001)
}

func TestStatus_ProgressResetsOnNewPass(t *testing.T) {
	s := NewStatus()

	s.setProgress(0.9)
	s.setPhase(PhaseSuccess)

	// Next pass starts from zero
	s.setPhase(PhasePreparing)
	s.setProgress(0.1)

	assert.InDelta(t, 0.1, s.Current().Progress, 0.001)
}

func TestStatus_SlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewStatus()

	_, cancel := s.Subscribe()
	defer cancel()

	// More updates than the channel buffers; must not deadlock
	for i := 0; i < 100; i++ {
		s.setProgress(float64(i) / 100)
	}

	assert.Equal(t, PhaseSyncing, s.Current().Phase)
}

func TestStatus_Unsubscribe(t *testing.T) {
	s := NewStatus()

	ch, cancel := s.Subscribe()
	cancel()
	cancel() // double cancel is safe

	_, open := <-ch
	require.False(t, open)
}

func TestStatus_ErrorCarriesReason(t *testing.T) {
	s := NewStatus()

	s.setError("network unavailable")

	state := s.Current()
	assert.Equal(t, PhaseError, state.Phase)
	assert.Equal(t, "network unavailable", state.Reason)
}
