package connectivity

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonitor_StartsOnline(t *testing.T) {
	m := NewMonitor()

	assert.True(t, m.Online())
}

func TestMonitor_EmitsOfflineTransition(t *testing.T) {
	var online atomic.Bool
	online.Store(true)
	probe := func(_ context.Context) bool { return online.Load() }

	m := NewMonitorWithProbe(probe, 10*time.Millisecond)
	m.Start(context.Background())
	defer m.Stop()

	online.Store(false)

	select {
	case got := <-m.Events():
		assert.False(t, got)
	case <-time.After(time.Second):
		t.Fatal("no offline event received")
	}
	assert.False(t, m.Online())
}

func TestMonitor_EmitsTransitionsOnly(t *testing.T) {
	var online atomic.Bool
	online.Store(false)
	probe := func(_ context.Context) bool { return online.Load() }

	m := NewMonitorWithProbe(probe, 10*time.Millisecond)
	m.Start(context.Background())
	defer m.Stop()

	// First probe flips online->offline; subsequent probes agree and
	// must not emit again.
	select {
	case got := <-m.Events():
		assert.False(t, got)
	case <-time.After(time.Second):
		t.Fatal("no offline event received")
	}

	select {
	case got, ok := <-m.Events():
		if ok {
			t.Fatalf("unexpected repeat event: %v", got)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMonitor_RecoversOnline(t *testing.T) {
	var online atomic.Bool
	online.Store(false)
	probe := func(_ context.Context) bool { return online.Load() }

	m := NewMonitorWithProbe(probe, 10*time.Millisecond)
	m.Start(context.Background())
	defer m.Stop()

	select {
	case <-m.Events():
	case <-time.After(time.Second):
		t.Fatal("no offline event received")
	}

	online.Store(true)

	select {
	case got := <-m.Events():
		assert.True(t, got)
	case <-time.After(time.Second):
		t.Fatal("no online event received")
	}
	assert.True(t, m.Online())
}

func TestMonitor_StopClosesEvents(t *testing.T) {
	m := NewMonitorWithProbe(func(_ context.Context) bool { return true }, 10*time.Millisecond)
	m.Start(context.Background())

	m.Stop()

	_, ok := <-m.Events()
	assert.False(t, ok)
}

func TestMonitor_DefaultIntervalApplied(t *testing.T) {
	m := NewMonitorWithProbe(func(_ context.Context) bool { return true }, 0)

	require.NotNil(t, m)
	assert.Equal(t, DefaultInterval, m.interval)
}
