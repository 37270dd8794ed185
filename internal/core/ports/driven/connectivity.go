package driven

import "context"

// ConnectivityMonitor is an injected source of online/offline
// transitions. Modelling connectivity as a port keeps ambient global
// state out of the UI and lets tests simulate transitions.
type ConnectivityMonitor interface {
	// Online reports the last observed connectivity state.
	Online() bool

	// Events emits state transitions (true = online). Only changes are
	// delivered, never repeats of the current state.
	Events() <-chan bool

	// Start begins monitoring. It must be called before Events delivers
	// anything and stops when ctx is cancelled.
	Start(ctx context.Context)

	// Stop tears the monitor down and closes Events.
	Stop()
}
