package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
)

// MockGateway implements driven.GitHubGateway for testing.
type MockGateway struct {
	SearchUsersFunc          func(ctx context.Context, query string, limit int) (*domain.UserSearchResult, error)
	GetUserFunc              func(ctx context.Context, login string) (*domain.User, error)
	ListUserRepositoriesFunc func(ctx context.Context, login string, limit int) ([]domain.Repository, error)
}

func (m *MockGateway) SearchUsers(ctx context.Context, query string, limit int) (*domain.UserSearchResult, error) {
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, query, limit)
	}
	return &domain.UserSearchResult{Users: []domain.User{}}, nil
}

func (m *MockGateway) GetUser(ctx context.Context, login string) (*domain.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, login)
	}
	return &domain.User{Login: login}, nil
}

func (m *MockGateway) ListUserRepositories(ctx context.Context, login string, limit int) ([]domain.Repository, error) {
	if m.ListUserRepositoriesFunc != nil {
		return m.ListUserRepositoriesFunc(ctx, login, limit)
	}
	return []domain.Repository{}, nil
}

func summaryHits(logins ...string) *domain.UserSearchResult {
	users := make([]domain.User, len(logins))
	for i, l := range logins {
		users[i] = domain.User{ID: int64(i + 1), Login: l}
	}
	return &domain.UserSearchResult{TotalCount: len(logins), Users: users}
}

func TestSearchService_EmptyQuery_NoRequest(t *testing.T) {
	var called atomic.Bool
	gateway := &MockGateway{
		SearchUsersFunc: func(_ context.Context, _ string, _ int) (*domain.UserSearchResult, error) {
			called.Store(true)
			return summaryHits(), nil
		},
	}
	svc := NewSearchService(gateway)

	for _, q := range []string{"", "   ", "\t"} {
		users, err := svc.Search(context.Background(), q)

		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	}
	assert.False(t, called.Load())
}

func TestSearchService_EnrichesAllHits(t *testing.T) {
	gateway := &MockGateway{
		SearchUsersFunc: func(_ context.Context, query string, limit int) (*domain.UserSearchResult, error) {
			assert.Equal(t, "octo", query)
			assert.Equal(t, DefaultSearchLimit, limit)
			return summaryHits("alice", "bob", "carol"), nil
		},
		GetUserFunc: func(_ context.Context, login string) (*domain.User, error) {
			return &domain.User{Login: login, Name: "Full " + login, Followers: 42}, nil
		},
	}
	svc := NewSearchService(gateway)

	users, err := svc.Search(context.Background(), "octo")

	require.NoError(t, err)
	require.Len(t, users, 3)
	// API rank order is preserved and every hit is enriched.
	assert.Equal(t, "alice", users[0].Login)
	assert.Equal(t, "bob", users[1].Login)
	assert.Equal(t, "carol", users[2].Login)
	for _, u := range users {
		assert.True(t, u.Enriched())
		assert.Equal(t, 42, u.Followers)
	}
}

func TestSearchService_DetailFailureKeepsSummary(t *testing.T) {
	gateway := &MockGateway{
		SearchUsersFunc: func(_ context.Context, _ string, _ int) (*domain.UserSearchResult, error) {
			return summaryHits("alice", "bob"), nil
		},
		GetUserFunc: func(_ context.Context, login string) (*domain.User, error) {
			if login == "bob" {
				return nil, &domain.APIError{StatusCode: 500, Status: "Internal Server Error"}
			}
			return &domain.User{Login: login, Bio: "enriched"}, nil
		},
	}
	svc := NewSearchService(gateway)

	users, err := svc.Search(context.Background(), "octo")

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, users[0].Enriched())
	// The failed detail fetch leaves the summary record in place.
	assert.Equal(t, "bob", users[1].Login)
	assert.False(t, users[1].Enriched())
}

func TestSearchService_SearchFailure(t *testing.T) {
	wantErr := &domain.APIError{StatusCode: 500, Status: "Internal Server Error"}
	gateway := &MockGateway{
		SearchUsersFunc: func(_ context.Context, _ string, _ int) (*domain.UserSearchResult, error) {
			return nil, wantErr
		},
	}
	svc := NewSearchService(gateway)

	users, err := svc.Search(context.Background(), "octo")

	assert.Nil(t, users)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
}

func TestSearchService_TimeoutMapped(t *testing.T) {
	gateway := &MockGateway{
		SearchUsersFunc: func(ctx context.Context, _ string, _ int) (*domain.UserSearchResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	svc := NewSearchService(gateway)
	svc.SetTimeout(10 * time.Millisecond)

	_, err := svc.Search(context.Background(), "octo")

	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestSearchService_SharedDeadlineCoversEnrichment(t *testing.T) {
	gateway := &MockGateway{
		SearchUsersFunc: func(_ context.Context, _ string, _ int) (*domain.UserSearchResult, error) {
			return summaryHits("alice"), nil
		},
		GetUserFunc: func(ctx context.Context, _ string) (*domain.User, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil, errors.New("slow")
		},
	}
	svc := NewSearchService(gateway)

	users, err := svc.Search(context.Background(), "octo")

	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestSearchService_SetLimit(t *testing.T) {
	var gotLimit int
	gateway := &MockGateway{
		SearchUsersFunc: func(_ context.Context, _ string, limit int) (*domain.UserSearchResult, error) {
			gotLimit = limit
			return summaryHits(), nil
		},
	}
	svc := NewSearchService(gateway)

	svc.SetLimit(25)
	_, err := svc.Search(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, 25, gotLimit)

	// Non-positive overrides are ignored.
	svc.SetLimit(0)
	_, err = svc.Search(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, 25, gotLimit)
}
