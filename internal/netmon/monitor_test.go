package netmon

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMonitor_AssumesAvailableBeforeFirstProbe(t *testing.T) {
	m := New(func(_ context.Context) bool { return false }, time.Hour, testLogger())
	assert.True(t, m.IsAvailable())
}

func TestMonitor_DetectsTransitions(t *testing.T) {
	var online atomic.Bool
	online.Store(false)

	transitions := make(chan bool, 16)

	m := New(func(_ context.Context) bool { return online.Load() },
		5*time.Millisecond, testLogger())
	m.OnTransition(func(available bool) {
		transitions <- available
	})

	m.Start(context.Background())
	defer m.Stop()

	// First probe flips the optimistic initial state to offline
	select {
	case got := <-transitions:
		assert.False(t, got)
	case <-time.After(time.Second):
		t.Fatal("expected an offline transition")
	}
	assert.False(t, m.IsAvailable())

	online.Store(true)
	select {
	case got := <-transitions:
		assert.True(t, got)
	case <-time.After(time.Second):
		t.Fatal("expected an online transition")
	}
	assert.True(t, m.IsAvailable())
}

func TestMonitor_NoEventWithoutTransition(t *testing.T) {
	transitions := make(chan bool, 16)

	m := New(func(_ context.Context) bool { return true },
		5*time.Millisecond, testLogger())
	m.OnTransition(func(available bool) {
		transitions <- available
	})

	m.Start(context.Background())
	defer m.Stop()

	select {
	case <-transitions:
		t.Fatal("steady state must not emit transitions")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitor_StopEndsPolling(t *testing.T) {
	var probes atomic.Int32

	m := New(func(_ context.Context) bool {
		probes.Add(1)
		return true
	}, 5*time.Millisecond, testLogger())

	m.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	m.Stop()

	after := probes.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, probes.Load())
}

func TestHTTPProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Any answer at all counts as reachable
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	probe := HTTPProbe(server.URL, time.Second)
	require.True(t, probe(context.Background()))

	server.Close()
	assert.False(t, probe(context.Background()))
}
