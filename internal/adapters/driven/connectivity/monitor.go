// Package connectivity implements the ConnectivityMonitor port with a
// periodic reachability probe. Connectivity is injected into the UI as
// an event source with an explicit lifecycle instead of being read from
// ambient global state, so tests can simulate transitions.
package connectivity

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/ghexplore/ghexplore-cli/internal/core/ports/driven"
	"github.com/ghexplore/ghexplore-cli/internal/logger"
)

// Ensure Monitor implements the interface.
var _ driven.ConnectivityMonitor = (*Monitor)(nil)

const (
	// DefaultInterval is how often the probe runs.
	DefaultInterval = 5 * time.Second

	// DefaultProbeTimeout bounds a single probe.
	DefaultProbeTimeout = 3 * time.Second

	// probeHost is resolved to decide reachability. Resolving the API
	// host ties "online" to the one service this app talks to.
	probeHost = "api.github.com"
)

// Probe reports whether the network is currently reachable.
type Probe func(ctx context.Context) bool

// Monitor polls a Probe and emits transitions on a channel.
type Monitor struct {
	probe    Probe
	interval time.Duration

	mu     sync.Mutex
	online bool
	events chan bool
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a monitor with the default DNS probe.
func NewMonitor() *Monitor {
	return NewMonitorWithProbe(dnsProbe, DefaultInterval)
}

// NewMonitorWithProbe creates a monitor with a custom probe and
// interval. Used by tests to drive transitions deterministically.
func NewMonitorWithProbe(probe Probe, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		probe:    probe,
		interval: interval,
		online:   true, // Assume online until a probe says otherwise
		events:   make(chan bool, 1),
		done:     make(chan struct{}),
	}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Events emits state transitions (true = online).
func (m *Monitor) Events() <-chan bool {
	return m.events
}

// Start begins the probe loop. It returns immediately; probing happens
// in the background until ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	go m.loop(ctx)
}

// Stop tears the monitor down and closes Events.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-m.done
	}
	close(m.events)
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check runs one probe and emits an event on transition.
func (m *Monitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	online := m.probe(probeCtx)
	cancel()

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	m.mu.Unlock()

	if !changed {
		return
	}

	logger.Info("Connectivity changed: online=%t", online)
	select {
	case m.events <- online:
	case <-ctx.Done():
	}
}

// dnsProbe resolves the GitHub API host.
func dnsProbe(ctx context.Context) bool {
	var resolver net.Resolver
	_, err := resolver.LookupHost(ctx, probeHost)
	return err == nil
}
