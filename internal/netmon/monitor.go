// Package netmon observes connectivity to the sync server and emits
// transition events. No business logic lives here; the scheduler
// decides what a transition means.
package netmon

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Probe checks reachability once. It must return quickly; the monitor
// calls it on every poll tick.
type Probe func(ctx context.Context) bool

// Monitor polls a connectivity probe and notifies listeners on
// Available/Unavailable transitions.
type Monitor struct {
	probe     Probe
	logger    *slog.Logger
	interval  time.Duration
	available atomic.Bool

	mu        sync.Mutex
	listeners []func(available bool)

	cancel context.CancelFunc
	done   chan struct{}
}

// HTTPProbe builds a probe that considers the network available when
// the given URL answers at all. Any HTTP status counts as reachable;
// only transport failures mean offline.
func HTTPProbe(url string, timeout time.Duration) Probe {
	client := &http.Client{Timeout: timeout}

	return func(ctx context.Context) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}
}

// New creates a monitor that assumes the network is available until the
// first probe says otherwise.
func New(probe Probe, interval time.Duration, logger *slog.Logger) *Monitor {
	m := &Monitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
	}
	m.available.Store(true)

	return m
}

// IsAvailable returns the last observed connectivity state.
func (m *Monitor) IsAvailable() bool {
	return m.available.Load()
}

// OnTransition registers a listener invoked on every state change with
// the new state. Register before Start.
func (m *Monitor) OnTransition(fn func(available bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Start begins polling until Stop is called or ctx is done.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.loop(ctx)
}

// Stop ends polling and waits for the poll loop to exit.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check runs one probe and fans out a transition if the state flipped.
func (m *Monitor) check(ctx context.Context) {
	available := m.probe(ctx)
	if !m.available.CompareAndSwap(!available, available) {
		return
	}

	m.logger.Info("connectivity changed", "available", available)

	m.mu.Lock()
	listeners := make([]func(bool), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(available)
	}
}
