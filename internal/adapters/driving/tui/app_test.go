package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/messages"
	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
)

// MockUserSearch implements driving.UserSearchService for testing.
type MockUserSearch struct {
	SearchFunc func(ctx context.Context, query string) ([]domain.User, error)
}

func (m *MockUserSearch) Search(ctx context.Context, query string) ([]domain.User, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return []domain.User{}, nil
}

// MockRepoService implements driving.RepositoryService for testing.
type MockRepoService struct {
	ListForUserFunc func(ctx context.Context, login string) ([]domain.Repository, error)
	calls           int
}

func (m *MockRepoService) ListForUser(ctx context.Context, login string) ([]domain.Repository, error) {
	m.calls++
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, login)
	}
	return []domain.Repository{}, nil
}

func octocat() domain.User {
	return domain.User{ID: 583231, Login: "octocat", Name: "The Octocat"}
}

func octoRepos() []domain.Repository {
	return []domain.Repository{
		{Name: "hello-world", Language: "Go", Stars: 3, UpdatedAt: "2026-08-30T12:00:00Z"},
		{Name: "spoon-knife", Language: "JavaScript", Stars: 12, UpdatedAt: "2026-08-01T12:00:00Z"},
	}
}

func newTestApp(repos *MockRepoService) *App {
	if repos == nil {
		repos = &MockRepoService{}
	}
	app := NewApp(&Ports{Search: &MockUserSearch{}, Repos: repos})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

// loadUser drives the app through selection and fetch completion.
func loadUser(t *testing.T, app *App, user domain.User) {
	t.Helper()
	_, cmd := app.Update(messages.UserSelected{User: user})
	require.NotNil(t, cmd)
	loaded, ok := cmd().(messages.ReposLoaded)
	require.True(t, ok)
	app.Update(loaded)
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrNoSearchService)
	assert.ErrorIs(t, (&Ports{Search: &MockUserSearch{}}).Validate(), ErrNoRepositoryService)
	assert.NoError(t, (&Ports{Search: &MockUserSearch{}, Repos: &MockRepoService{}}).Validate())
}

func TestApp_InitialState(t *testing.T) {
	app := newTestApp(nil)

	assert.Nil(t, app.Selected())
	assert.False(t, app.Loaded())
	assert.False(t, app.Failed())
	assert.Contains(t, app.View(), "Search for a GitHub user")
}

func TestApp_SelectionLoadsRepositories(t *testing.T) {
	repos := &MockRepoService{
		ListForUserFunc: func(_ context.Context, login string) ([]domain.Repository, error) {
			assert.Equal(t, "octocat", login)
			return octoRepos(), nil
		},
	}
	app := newTestApp(repos)

	_, cmd := app.Update(messages.UserSelected{User: octocat()})

	assert.True(t, app.LoadingRepos())
	require.NotNil(t, app.Selected())
	assert.Equal(t, "octocat", app.Selected().Login)

	loaded, ok := cmd().(messages.ReposLoaded)
	require.True(t, ok)
	app.Update(loaded)

	assert.True(t, app.Loaded())
	assert.Len(t, app.Browser().Repositories(), 2)
	assert.Contains(t, app.View(), "hello-world")
}

func TestApp_NotFoundShowsFailedCard(t *testing.T) {
	repos := &MockRepoService{
		ListForUserFunc: func(_ context.Context, _ string) ([]domain.Repository, error) {
			return nil, domain.ErrNotFound
		},
	}
	app := newTestApp(repos)

	loadUser(t, app, octocat())

	require.True(t, app.Failed())
	out := app.View()
	assert.Contains(t, out, "Failed to load repositories")
	assert.Contains(t, out, "User repositories not found.")
	assert.Contains(t, out, "Try Again")
}

func TestApp_RetryAfterFailure(t *testing.T) {
	fail := true
	repos := &MockRepoService{
		ListForUserFunc: func(_ context.Context, _ string) ([]domain.Repository, error) {
			if fail {
				return nil, &domain.APIError{StatusCode: 500, Status: "Internal Server Error"}
			}
			return octoRepos(), nil
		},
	}
	app := newTestApp(repos)
	loadUser(t, app, octocat())
	require.True(t, app.Failed())
	assert.Contains(t, app.View(), "Failed to fetch repositories: 500 Internal Server Error")

	fail = false
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	assert.True(t, app.LoadingRepos())

	loaded, ok := cmd().(messages.ReposLoaded)
	require.True(t, ok)
	app.Update(loaded)

	assert.True(t, app.Loaded())
	assert.Equal(t, 2, repos.calls)
}

func TestApp_RetryWithEmptyResultShowsEmptyState(t *testing.T) {
	repos := &MockRepoService{
		ListForUserFunc: func(_ context.Context, _ string) ([]domain.Repository, error) {
			return []domain.Repository{}, nil
		},
	}
	app := newTestApp(repos)

	loadUser(t, app, octocat())

	require.True(t, app.Loaded())
	out := app.View()
	assert.Contains(t, out, "No repositories found")
	assert.Contains(t, out, "This user has no public repositories.")
}

func TestApp_StaleResponseDropped(t *testing.T) {
	app := newTestApp(&MockRepoService{
		ListForUserFunc: func(_ context.Context, login string) ([]domain.Repository, error) {
			if login == "octocat" {
				return octoRepos(), nil
			}
			return []domain.Repository{{Name: "newer-repo"}}, nil
		},
	})

	// First selection starts a fetch that will arrive late.
	_, cmd1 := app.Update(messages.UserSelected{User: octocat()})
	// Second selection supersedes it.
	_, cmd2 := app.Update(messages.UserSelected{User: domain.User{Login: "other"}})

	stale, ok := cmd1().(messages.ReposLoaded)
	require.True(t, ok)
	app.Update(stale)

	// Still loading: the stale response for octocat was discarded.
	assert.True(t, app.LoadingRepos())
	assert.Empty(t, app.Browser().Repositories())

	fresh, ok := cmd2().(messages.ReposLoaded)
	require.True(t, ok)
	app.Update(fresh)

	require.True(t, app.Loaded())
	require.Len(t, app.Browser().Repositories(), 1)
	assert.Equal(t, "newer-repo", app.Browser().Repositories()[0].Name)
}

func TestApp_NewSelectionDiscardsPreviousData(t *testing.T) {
	app := newTestApp(&MockRepoService{
		ListForUserFunc: func(_ context.Context, _ string) ([]domain.Repository, error) {
			return octoRepos(), nil
		},
	})
	loadUser(t, app, octocat())
	require.True(t, app.Loaded())

	_, cmd := app.Update(messages.UserSelected{User: domain.User{Login: "other"}})

	assert.True(t, app.LoadingRepos())
	assert.Empty(t, app.Browser().Repositories())
	require.NotNil(t, app.Browser().User())
	assert.Equal(t, "other", app.Browser().User().Login)
	require.NotNil(t, cmd)
}

func TestApp_ConnectivityForwarded(t *testing.T) {
	app := newTestApp(nil)

	app.Update(messages.ConnectivityChanged{Online: false})

	assert.False(t, app.SearchView().Online())
	assert.Contains(t, app.View(), "No internet connection")

	app.Update(messages.ConnectivityChanged{Online: true})
	assert.True(t, app.SearchView().Online())
}

func TestApp_QuitOnCtrlC(t *testing.T) {
	app := newTestApp(nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_BrowseKeysReachBrowserWhenLoaded(t *testing.T) {
	app := newTestApp(&MockRepoService{
		ListForUserFunc: func(_ context.Context, _ string) ([]domain.Repository, error) {
			return octoRepos(), nil
		},
	})
	loadUser(t, app, octocat())
	require.True(t, app.Loaded())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})

	assert.Equal(t, domain.SortStars, app.Browser().SortKey())
}

func TestRepoUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", &domain.RateLimitError{}, "GitHub API rate limit exceeded. Please try again later."},
		{"not found", domain.ErrNotFound, "User repositories not found."},
		{"offline", domain.ErrOffline, "No internet connection. Please check your network and try again."},
		{"timeout", domain.ErrTimeout, "Request timed out. Please try again."},
		{"api error", &domain.APIError{StatusCode: 502, Status: "Bad Gateway"}, "Failed to fetch repositories: 502 Bad Gateway"},
		{"network surfaces cause", &domain.NetworkError{Err: errors.New("connection refused by proxy")}, "connection refused by proxy"},
		{"network without cause", &domain.NetworkError{}, "Failed to load repositories. Please try again."},
		{"unknown", errors.New("mystery"), "Failed to load repositories. Please try again."},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repoUserMessage(tt.err))
		})
	}
}
