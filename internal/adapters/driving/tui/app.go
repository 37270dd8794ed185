// Package tui implements the terminal user interface using the Elm
// architecture via Bubbletea.
//
// The App is the composition root: it owns the search view, the
// fault-contained repository browser and the repository loading state
// machine. The machine has four states: no selection, loading, loaded
// and failed. Selecting a user always moves to loading and discards
// the previous user's data; responses for superseded selections are
// dropped by generation token.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/components/status"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/keymap"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/messages"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/styles"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/views/repobrowser"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/views/usersearch"
	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
	"github.com/ghexplore/ghexplore-cli/internal/logger"
)

// repoState is the repository loading state machine.
type repoState int

const (
	stateNoSelection repoState = iota
	stateLoadingRepos
	stateLoaded
	stateFailed
)

// browserPane adapts the repository browser to the boundary's Pane
// interface.
type browserPane struct {
	view *repobrowser.View
}

func (p *browserPane) Init() tea.Cmd { return p.view.Init() }

func (p *browserPane) Update(msg tea.Msg) tea.Cmd {
	_, cmd := p.view.Update(msg)
	return cmd
}

func (p *browserPane) View() string { return p.view.View() }

func (p *browserPane) SetDimensions(width, height int) {
	p.view.SetDimensions(width, height)
}

// App is the root Bubbletea model.
type App struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	ports  *Ports
	ctx    context.Context

	search   *usersearch.View
	boundary *Boundary
	browser  *repobrowser.View
	status   *status.Bar

	defaultSort domain.SortKey
	defaultMode domain.ViewMode

	state    repoState
	selected *domain.User
	repoGen  int
	repoErr  error

	width  int
	height int
	ready  bool
}

// NewApp creates the root model wired to the given ports.
func NewApp(ports *Ports) *App {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		styles:      s,
		keymap:      km,
		ports:       ports,
		ctx:         context.Background(),
		status:      status.NewBar(s, km),
		defaultSort: domain.SortUpdated,
		defaultMode: domain.ViewGrid,
		state:       stateNoSelection,
		width:       80,
		height:      24,
	}

	a.search = usersearch.NewView(s, km, ports.Search)
	a.boundary = NewBoundary(a.newBrowserPane, s, km)

	return a
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.search = a.search.WithContext(ctx)
	return a
}

// SetDefaults applies the configured sort key and view mode.
func (a *App) SetDefaults(sort domain.SortKey, mode domain.ViewMode) {
	a.defaultSort = sort
	a.defaultMode = mode
	a.browser.SetDefaults(sort, mode)
}

// SetDebounce overrides the search debounce window.
func (a *App) SetDebounce(d time.Duration) {
	a.search.SetDebounce(d)
}

// newBrowserPane is the boundary's child factory. Reload after a fault
// rebuilds the browser from scratch through this.
func (a *App) newBrowserPane() Pane {
	v := repobrowser.NewView(a.styles, a.keymap)
	v.SetDefaults(a.defaultSort, a.defaultMode)
	a.browser = v
	return &browserPane{view: v}
}

// Init starts the initial commands.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.search.Init(), a.boundary.Init()}
	if listen := a.listenConnectivity(); listen != nil {
		cmds = append(cmds, listen)
	}
	return tea.Batch(cmds...)
}

// listenConnectivity waits for the next online/offline transition.
func (a *App) listenConnectivity() tea.Cmd {
	if a.ports.Connectivity == nil {
		return nil
	}
	events := a.ports.Connectivity.Events()
	return func() tea.Msg {
		online, ok := <-events
		if !ok {
			return nil
		}
		return messages.ConnectivityChanged{Online: online}
	}
}

// Update routes messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd

	case messages.SearchDebounced, messages.SearchCompleted:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		a.syncStatus()
		return a, cmd

	case messages.UserSelected:
		return a, a.selectUser(msg.User)

	case messages.ReposLoaded:
		a.handleReposLoaded(msg)
		return a, nil

	case messages.ConnectivityChanged:
		logger.Debug("Connectivity changed: online=%v", msg.Online)
		a.search.SetOnline(msg.Online)
		a.syncStatus()
		return a, a.listenConnectivity()

	case messages.ErrorOccurred:
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	return a, cmd
}

// handleKeyMsg routes keystrokes by focus: quit first, then a tripped
// boundary, then the search widget while it has focus or an open list,
// then the browser area.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keymap.Matches(msg.String(), a.keymap.Quit) {
		return a, tea.Quit
	}

	if a.boundary.Tripped() {
		reloading := keymap.Matches(msg.String(), a.keymap.Reload)
		cmd := a.boundary.Update(msg)
		if reloading && a.selected != nil {
			// Reloading the section restarts the repository fetch for
			// the selected user.
			return a, tea.Batch(cmd, a.selectUser(*a.selected))
		}
		return a, cmd
	}

	if a.search.InputFocused() || a.search.ListOpen() {
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		a.syncStatus()
		return a, cmd
	}

	switch {
	case msg.String() == "tab":
		return a, a.search.Focus()
	case keymap.Matches(msg.String(), a.keymap.Retry) && a.state == stateFailed:
		if a.selected != nil {
			return a, a.selectUser(*a.selected)
		}
		return a, nil
	}

	if a.state == stateLoaded || a.state == stateLoadingRepos {
		return a, a.boundary.Update(msg)
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	return a, cmd
}

// selectUser moves the machine to loading and issues the fetch. Any
// in-flight fetch for a previous selection becomes stale.
func (a *App) selectUser(user domain.User) tea.Cmd {
	logger.Debug("User selected: %s", user.Login)

	a.selected = &user
	a.state = stateLoadingRepos
	a.repoErr = nil
	a.repoGen++

	a.browser.SetUser(user)
	a.browser.SetLoading(true)
	a.search.Blur()
	a.syncStatus()

	gen := a.repoGen
	login := user.Login
	svc := a.ports.Repos
	ctx := a.ctx
	return func() tea.Msg {
		repos, err := svc.ListForUser(ctx, login)
		return messages.ReposLoaded{Gen: gen, Login: login, Repos: repos, Err: err}
	}
}

// handleReposLoaded applies a fetch result, dropping stale responses.
func (a *App) handleReposLoaded(msg messages.ReposLoaded) {
	if msg.Gen != a.repoGen {
		logger.Debug("Dropping stale repository response for %s", msg.Login)
		return
	}

	a.browser.SetLoading(false)
	if msg.Err != nil {
		logger.Warn("Failed to load repositories for %s: %v", msg.Login, msg.Err)
		a.state = stateFailed
		a.repoErr = msg.Err
	} else {
		a.state = stateLoaded
		a.repoErr = nil
		a.browser.SetRepositories(msg.Repos)
	}
	a.syncStatus()
}

// syncStatus derives the status bar state from the model.
func (a *App) syncStatus() {
	switch {
	case !a.search.Online():
		a.status.SetState(status.StateOffline)
	case a.search.Loading():
		a.status.SetState(status.StateSearching)
	case a.state == stateLoadingRepos:
		a.status.SetState(status.StateLoading)
	case a.state == stateFailed:
		a.status.SetState(status.StateError)
		a.status.SetMessage(repoUserMessage(a.repoErr))
	case a.search.Err() != nil:
		a.status.SetState(status.StateError)
		a.status.SetMessage(usersearch.UserMessage(a.search.Err()))
	case a.state == stateLoaded:
		a.status.SetState(status.StateBrowsing)
		a.status.SetResultCount(len(a.browser.Visible()))
	default:
		a.status.SetState(status.StateReady)
	}
}

// View renders the application.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	header := a.styles.Title.Render("GitHub User Search")
	searchArea := a.search.View()

	var main string
	switch a.state {
	case stateNoSelection:
		main = a.renderPrompt()
	case stateFailed:
		main = a.renderRepoError()
	default:
		main = a.boundary.View()
	}

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", searchArea, "", main)

	bodyHeight := a.height - 1
	if lipgloss.Height(body) < bodyHeight {
		body += "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Height(bodyHeight).Render(body),
		a.status.View(),
	)
}

// renderPrompt renders the no-selection placeholder.
func (a *App) renderPrompt() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Subtitle.Render("Search for a GitHub user"),
		a.styles.Muted.Render("Start typing to find users, then select one to browse their repositories."),
	)
}

// renderRepoError renders the failed state card.
func (a *App) renderRepoError() string {
	return a.styles.Border.Width(a.width-2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.styles.Error.Render("Failed to load repositories"),
			a.styles.Normal.Render(repoUserMessage(a.repoErr)),
			"",
			a.styles.Muted.Render("[r] Try Again"),
		),
	)
}

// repoUserMessage maps a repository fetch error to the text shown in
// the failed state card.
func repoUserMessage(err error) string {
	if err == nil {
		return ""
	}

	var rateErr *domain.RateLimitError
	var apiErr *domain.APIError
	var netErr *domain.NetworkError

	switch {
	case errors.Is(err, domain.ErrOffline):
		return "No internet connection. Please check your network and try again."
	case errors.Is(err, domain.ErrTimeout):
		return "Request timed out. Please try again."
	case errors.As(err, &rateErr):
		return "GitHub API rate limit exceeded. Please try again later."
	case errors.Is(err, domain.ErrNotFound):
		return "User repositories not found."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Failed to fetch repositories: %d %s", apiErr.StatusCode, apiErr.Status)
	case errors.As(err, &netErr):
		// Surface the underlying failure when one is available.
		if netErr.Err != nil {
			return netErr.Err.Error()
		}
		return "Failed to load repositories. Please try again."
	default:
		return "Failed to load repositories. Please try again."
	}
}

// setDimensions propagates a terminal resize.
func (a *App) setDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.search.SetDimensions(width, height)
	a.search.SetTopOffset(2)
	a.boundary.SetDimensions(width, height-8)
	a.status.SetWidth(width)
}

// State accessors for tests.

// Selected returns the currently selected user, nil when none.
func (a *App) Selected() *domain.User {
	return a.selected
}

// Browser returns the current repository browser view.
func (a *App) Browser() *repobrowser.View {
	return a.browser
}

// SearchView returns the search view.
func (a *App) SearchView() *usersearch.View {
	return a.search
}

// FaultBoundary returns the boundary guarding the browser.
func (a *App) FaultBoundary() *Boundary {
	return a.boundary
}

// RepoErr returns the current repository fetch error, nil when none.
func (a *App) RepoErr() error {
	return a.repoErr
}

// LoadingRepos reports whether a repository fetch is in flight.
func (a *App) LoadingRepos() bool {
	return a.state == stateLoadingRepos
}

// Loaded reports whether repositories are shown.
func (a *App) Loaded() bool {
	return a.state == stateLoaded
}

// Failed reports whether the last repository fetch failed.
func (a *App) Failed() bool {
	return a.state == stateFailed
}
