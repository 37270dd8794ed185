package tui

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghexplore/ghexplore-cli/internal/logger"
)

func TestMain(m *testing.M) {
	// Fault logging is unconditional; keep it out of test output noise.
	logger.SetOutput(os.Stderr)
	os.Exit(m.Run())
}

// crashPane is a Pane that can be armed to panic.
type crashPane struct {
	panicOnUpdate bool
	panicOnView   bool
	updates       int
	views         int
}

func (p *crashPane) Init() tea.Cmd { return nil }

func (p *crashPane) Update(_ tea.Msg) tea.Cmd {
	p.updates++
	if p.panicOnUpdate {
		panic("update exploded")
	}
	return nil
}

func (p *crashPane) View() string {
	p.views++
	if p.panicOnView {
		panic("view exploded")
	}
	return "child content"
}

func (p *crashPane) SetDimensions(_, _ int) {}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoundary_PassesThroughWhenHealthy(t *testing.T) {
	pane := &crashPane{}
	b := NewBoundary(func() Pane { return pane }, nil, nil)

	b.Update(key("x"))

	assert.False(t, b.Tripped())
	assert.Equal(t, 1, pane.updates)
	assert.Equal(t, "child content", b.View())
}

func TestBoundary_TripsOnUpdatePanic(t *testing.T) {
	pane := &crashPane{panicOnUpdate: true}
	b := NewBoundary(func() Pane { return pane }, nil, nil)

	cmd := b.Update(key("x"))

	assert.Nil(t, cmd)
	require.True(t, b.Tripped())
	require.NotNil(t, b.Fault())
	assert.Contains(t, b.Fault().Message, "update exploded")
}

func TestBoundary_TripsOnViewPanic(t *testing.T) {
	pane := &crashPane{panicOnView: true}
	b := NewBoundary(func() Pane { return pane }, nil, nil)

	out := b.View()

	assert.True(t, b.Tripped())
	assert.Contains(t, out, "Something went wrong")
}

func TestBoundary_FallbackShowsReloadAffordance(t *testing.T) {
	pane := &crashPane{panicOnUpdate: true}
	b := NewBoundary(func() Pane { return pane }, nil, nil)
	b.Update(key("x"))

	out := b.View()

	assert.Contains(t, out, "Something went wrong")
	assert.Contains(t, out, "Reload Page")
}

func TestBoundary_TripIsSticky(t *testing.T) {
	pane := &crashPane{panicOnUpdate: true}
	b := NewBoundary(func() Pane { return pane }, nil, nil)
	b.Update(key("x"))
	require.True(t, b.Tripped())

	// The panic condition clears, but the boundary stays tripped and
	// the child receives nothing.
	pane.panicOnUpdate = false
	before := pane.updates
	b.Update(key("y"))

	assert.True(t, b.Tripped())
	assert.Equal(t, before, pane.updates)
	assert.Contains(t, b.View(), "Something went wrong")
}

func TestBoundary_FirstFaultWins(t *testing.T) {
	pane := &crashPane{panicOnUpdate: true, panicOnView: true}
	b := NewBoundary(func() Pane { return pane }, nil, nil)

	b.Update(key("x"))
	first := b.Fault()
	b.View()

	assert.Same(t, first, b.Fault())
}

func TestBoundary_DetailToggle(t *testing.T) {
	pane := &crashPane{panicOnUpdate: true}
	b := NewBoundary(func() Pane { return pane }, nil, nil)
	b.Update(key("x"))

	require.NotContains(t, b.View(), "update exploded")

	b.Update(key("d"))
	assert.Contains(t, b.View(), "update exploded")

	b.Update(key("d"))
	assert.NotContains(t, b.View(), "update exploded")
}

func TestBoundary_ReloadRebuildsChild(t *testing.T) {
	built := 0
	b := NewBoundary(func() Pane {
		built++
		return &crashPane{panicOnUpdate: built == 1}
	}, nil, nil)
	b.Update(key("x"))
	require.True(t, b.Tripped())

	b.Update(key("R"))

	assert.False(t, b.Tripped())
	assert.Nil(t, b.Fault())
	assert.Equal(t, 2, built)
	assert.Equal(t, "child content", b.View())

	// The rebuilt child receives messages again.
	b.Update(key("y"))
	assert.False(t, b.Tripped())
}
