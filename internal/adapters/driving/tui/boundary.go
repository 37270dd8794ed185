package tui

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/keymap"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/styles"
	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
	"github.com/ghexplore/ghexplore-cli/internal/logger"
)

// Pane is the surface the fault boundary guards.
type Pane interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetDimensions(width, height int)
}

// Boundary contains rendering faults in a child pane. A panic during
// the child's Update or View trips the boundary: the child is replaced
// by a fallback card and receives no further messages until the user
// reloads, which rebuilds the child from the factory. The trip is
// sticky so a crashed pane can never half-recover into inconsistent
// state.
type Boundary struct {
	child   Pane
	factory func() Pane
	styles  *styles.Styles
	keymap  *keymap.KeyMap

	fault      *domain.RenderFault
	stack      string
	showDetail bool

	width  int
	height int
}

// NewBoundary builds a boundary around the pane the factory produces.
func NewBoundary(factory func() Pane, s *styles.Styles, km *keymap.KeyMap) *Boundary {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Boundary{
		child:   factory(),
		factory: factory,
		styles:  s,
		keymap:  km,
		width:   80,
		height:  24,
	}
}

// Init initialises the child.
func (b *Boundary) Init() tea.Cmd {
	return b.child.Init()
}

// Update routes a message to the child under panic protection. A
// tripped boundary handles only the detail toggle and the reload key.
func (b *Boundary) Update(msg tea.Msg) tea.Cmd {
	if b.fault != nil {
		keyMsg, ok := msg.(tea.KeyMsg)
		if !ok {
			return nil
		}
		switch {
		case keymap.Matches(keyMsg.String(), b.keymap.Details):
			b.showDetail = !b.showDetail
		case keymap.Matches(keyMsg.String(), b.keymap.Reload):
			return b.reload()
		}
		return nil
	}

	return b.safeUpdate(msg)
}

// safeUpdate delivers the message, converting a child panic into a
// tripped boundary instead of crashing the program.
func (b *Boundary) safeUpdate(msg tea.Msg) (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			b.trip(r)
			cmd = nil
		}
	}()
	return b.child.Update(msg)
}

// View renders the child, or the fallback card once tripped.
func (b *Boundary) View() string {
	if b.fault != nil {
		return b.renderFallback()
	}
	return b.safeView()
}

func (b *Boundary) safeView() (out string) {
	defer func() {
		if r := recover(); r != nil {
			b.trip(r)
			out = b.renderFallback()
		}
	}()
	return b.child.View()
}

// trip records the first fault. Later panics never overwrite it.
func (b *Boundary) trip(r any) {
	if b.fault != nil {
		return
	}
	stack := string(debug.Stack())
	logger.Error("view crashed: %v\n%s", r, stack)
	b.fault = &domain.RenderFault{Message: fmt.Sprintf("%v", r)}
	b.stack = stack
}

// reload rebuilds the child from the factory, discarding all state the
// crashed pane held.
func (b *Boundary) reload() tea.Cmd {
	b.child = b.factory()
	b.child.SetDimensions(b.width, b.height)
	b.fault = nil
	b.stack = ""
	b.showDetail = false
	return b.child.Init()
}

// renderFallback renders the fault card.
func (b *Boundary) renderFallback() string {
	lines := []string{
		b.styles.Error.Render("Something went wrong"),
		b.styles.Normal.Render("An unexpected error occurred while displaying this section."),
		"",
		b.styles.Muted.Render("[d] Details  [R] Reload Page"),
	}

	if b.showDetail {
		detail := b.fault.Message + "\n" + b.stack
		lines = append(lines, "", b.styles.Muted.Render(truncateLines(detail, 12)))
	}

	card := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return b.styles.Border.Width(b.width - 2).Render(card)
}

// Tripped reports whether the boundary is showing the fallback.
func (b *Boundary) Tripped() bool {
	return b.fault != nil
}

// Fault returns the recorded fault, nil when not tripped.
func (b *Boundary) Fault() *domain.RenderFault {
	return b.fault
}

// Child returns the current child pane.
func (b *Boundary) Child() Pane {
	return b.child
}

// SetDimensions sets the boundary dimensions and forwards them to the
// child.
func (b *Boundary) SetDimensions(width, height int) {
	b.width = width
	b.height = height
	b.child.SetDimensions(width, height)
}

// truncateLines keeps at most max lines of s.
func truncateLines(s string, max int) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n == max {
				return s[:i]
			}
		}
	}
	return s
}
