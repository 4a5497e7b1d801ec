// Package health owns the runtime reachability state, fed by a polling
// loop that is independent of any per-thread event stream.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/user/lookout/internal/types"
)

// Checker performs one health probe. The API client satisfies it.
type Checker interface {
	Health(ctx context.Context) (*types.Health, error)
}

// DefaultInterval between probes.
const DefaultInterval = 10 * time.Second

// probeTimeout bounds a single probe so one hung request cannot stall
// the loop past its interval.
const probeTimeout = 5 * time.Second

// Monitor polls the runtime and derives a ConnectionState:
//
//	checking      until the first probe resolves
//	online        on any successful probe
//	reconnecting  on the first failure after being online
//	offline       after two consecutive failures (or a failed first probe)
type Monitor struct {
	checker  Checker
	interval time.Duration

	mu       sync.Mutex
	state    types.ConnectionState
	failures int

	updates chan types.ConnectionState
}

// New creates a Monitor in the checking state.
func New(checker Checker, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
		state:    types.ConnChecking,
		updates:  make(chan types.ConnectionState, 8),
	}
}

// State returns the current connection state.
func (m *Monitor) State() types.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Updates emits state transitions. Never closed; stop reading when the
// monitor's context is cancelled.
func (m *Monitor) Updates() <-chan types.ConnectionState { return m.updates }

// Run polls until the context is cancelled. The first probe fires
// immediately.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	_, err := m.checker.Health(probeCtx)
	cancel()
	if ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	prev := m.state
	if err == nil {
		m.failures = 0
		m.state = types.ConnOnline
	} else {
		m.failures++
		switch {
		case prev == types.ConnChecking:
			m.state = types.ConnOffline
		case m.failures == 1:
			m.state = types.ConnReconnecting
		default:
			m.state = types.ConnOffline
		}
	}
	changed := m.state != prev
	state := m.state
	m.mu.Unlock()

	if changed {
		select {
		case m.updates <- state:
		default:
		}
	}
}
