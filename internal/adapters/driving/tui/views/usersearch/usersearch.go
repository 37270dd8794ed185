// Package usersearch provides the incremental user search view.
//
// The view owns the debounce window, the in-flight request lifecycle,
// the suggestion list and the error/offline state. Debounce and request
// staleness are both handled with generation counters: every query
// change bumps the debounce generation (cancelling any pending window)
// and every issued search bumps the request generation, so a completion
// for a superseded request can never overwrite newer state.
package usersearch

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/components/input"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/components/userlist"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/keymap"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/messages"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/styles"
	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
	"github.com/ghexplore/ghexplore-cli/internal/core/ports/driving"
)

// DefaultDebounce is the debounce window for keystrokes.
const DefaultDebounce = 300 * time.Millisecond

// View is the incremental search widget.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.SearchInput
	list   *userlist.UserList

	searchService driving.UserSearchService
	ctx           context.Context

	debounce    time.Duration
	debounceGen int
	searchGen   int

	query   string
	loading bool
	err     error
	online  bool

	width     int
	topOffset int
	height    int
	ready     bool
}

// NewView creates a new user search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.UserSearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          userlist.NewUserList(s),
		searchService: searchService,
		ctx:           context.Background(),
		debounce:      DefaultDebounce,
		online:        true,
		width:         80,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDebounce overrides the debounce window. Non-positive values are ignored.
func (v *View) SetDebounce(d time.Duration) {
	if d > 0 {
		v.debounce = d
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		v.handleMouse(msg)
		return v, nil

	case messages.SearchDebounced:
		// A newer keystroke supersedes this window.
		if msg.Gen != v.debounceGen {
			return v, nil
		}
		return v, v.startSearch(msg.Query)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ConnectivityChanged:
		v.SetOnline(msg.Online)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Navigation is active only while the suggestion list is open and
	// non-empty.
	if v.list.IsOpen() && v.list.Count() > 0 {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyDown:
			v.list.MoveDown()
			return v, nil
		case tea.KeyUp:
			v.list.MoveUp()
			return v, nil
		case tea.KeyEnter:
			if user := v.list.HighlightedUser(); user != nil {
				return v, v.selectUser(*user)
			}
			return v, nil
		case tea.KeyEsc:
			v.list.Close()
			v.input.Blur()
			return v, nil
		}
	}

	if msg.String() == "ctrl+r" {
		return v, v.Retry()
	}

	if !v.input.Focused() {
		return v, nil
	}

	// Everything else types into the input; a changed value restarts
	// the debounce window.
	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.input.Value() != before {
		debounceCmd := v.onQueryChange(v.input.Value())
		return v, tea.Batch(cmd, debounceCmd)
	}
	return v, cmd
}

// onQueryChange stores the query verbatim and (re)starts the debounce
// window. Empty or whitespace-only queries clear the results and close
// the list synchronously without issuing a request; the generation bump
// cancels any pending window either way.
func (v *View) onQueryChange(text string) tea.Cmd {
	v.query = text
	v.debounceGen++

	if strings.TrimSpace(text) == "" {
		v.list.SetUsers(nil)
		v.list.Close()
		return nil
	}

	gen := v.debounceGen
	return tea.Tick(v.debounce, func(time.Time) tea.Msg {
		return messages.SearchDebounced{Gen: gen, Query: text}
	})
}

// startSearch issues the search for a debounced query. Offline state
// yields the offline error without a network call.
func (v *View) startSearch(query string) tea.Cmd {
	if !v.online {
		v.err = domain.ErrOffline
		v.loading = false
		return nil
	}

	v.loading = true
	v.err = nil
	v.searchGen++
	gen := v.searchGen

	ctx := v.ctx
	svc := v.searchService
	return func() tea.Msg {
		if svc == nil {
			return messages.SearchCompleted{Gen: gen, Err: ErrNoSearchService}
		}
		users, err := svc.Search(ctx, query)
		return messages.SearchCompleted{Gen: gen, Users: users, Err: err}
	}
}

// handleSearchCompleted applies results, dropping stale completions.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Gen != v.searchGen {
		return
	}

	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		v.list.SetUsers(nil)
		v.list.Close()
		return
	}

	v.err = nil
	v.list.SetUsers(msg.Users)
	v.list.Open()
}

// selectUser emits the selection, mirrors the login into the input and
// closes the list.
func (v *View) selectUser(user domain.User) tea.Cmd {
	v.input.SetValue(user.Login)
	v.query = user.Login
	v.list.Close()
	v.err = nil

	return func() tea.Msg {
		return messages.UserSelected{User: user}
	}
}

// Retry re-issues the search with the current query. Meaningful only
// when an error is present.
func (v *View) Retry() tea.Cmd {
	if v.err == nil || strings.TrimSpace(v.query) == "" {
		return nil
	}
	return v.startSearch(v.query)
}

// SetOnline applies a connectivity transition. Going offline disables
// the input; coming back online re-enables it without auto-retrying.
func (v *View) SetOnline(online bool) {
	v.online = online
	v.input.SetDisabled(!online)
	if online && errorIs(v.err, domain.ErrOffline) {
		v.err = nil
	}
}

// handleMouse closes the suggestion list on a press outside the
// widget's bounds, preserving query text and error.
func (v *View) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || !v.list.IsOpen() {
		return
	}
	if msg.Y < v.topOffset || msg.Y >= v.topOffset+v.height {
		v.list.Close()
	}
}

// View renders the search widget.
func (v *View) View() string {
	sections := make([]string, 0, 8)

	sections = append(sections, v.input.View())

	if v.loading {
		sections = append(sections, v.styles.Muted.Render("Searching..."))
	}

	if !v.online {
		sections = append(sections, v.styles.Error.Render("No internet connection"))
	}

	if v.err != nil {
		sections = append(sections,
			v.styles.Error.Render(UserMessage(v.err)),
			v.styles.Muted.Render("[ctrl+r] Retry"),
		)
	}

	if list := v.list.View(); list != "" {
		sections = append(sections, list)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, sections...)
	v.height = lipgloss.Height(out)
	return out
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	v.width = width
	v.ready = true
	v.input.SetWidth(width)
	v.list.SetWidth(width)
}

// SetTopOffset records how many rows sit above the widget, for
// outside-click hit testing.
func (v *View) SetTopOffset(rows int) {
	v.topOffset = rows
}

// Focus focuses the search input.
func (v *View) Focus() tea.Cmd {
	return v.input.Focus()
}

// Blur removes focus from the search input.
func (v *View) Blur() {
	v.input.Blur()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.input.Focused()
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.query
}

// SetQuery stores text verbatim as the query, as if typed, returning
// the debounce command. Used by the composition root and tests.
func (v *View) SetQuery(text string) tea.Cmd {
	v.input.SetValue(text)
	return v.onQueryChange(text)
}

// Users returns the current suggestions.
func (v *View) Users() []domain.User {
	return v.list.Users()
}

// Highlighted returns the highlighted suggestion index, -1 when none.
func (v *View) Highlighted() int {
	return v.list.Highlighted()
}

// ListOpen reports whether the suggestion list is visible.
func (v *View) ListOpen() bool {
	return v.list.IsOpen()
}

// Loading reports whether a search is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Online reports the connectivity flag.
func (v *View) Online() bool {
	return v.online
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset restores the initial state.
func (v *View) Reset() {
	v.input.SetValue("")
	v.input.Focus()
	v.query = ""
	v.loading = false
	v.err = nil
	v.list.SetUsers(nil)
	v.list.Close()
	v.debounceGen++
	v.searchGen++
}
