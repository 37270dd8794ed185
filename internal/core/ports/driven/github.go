// Package driven defines the ports the core services depend on.
package driven

import (
	"context"

	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
)

// GitHubGateway is the outbound port to the GitHub REST API.
// Implementations map transport failures into the domain error
// taxonomy (rate limit, not found, invalid query, API, network).
type GitHubGateway interface {
	// SearchUsers returns one page of user search results, capped at limit.
	SearchUsers(ctx context.Context, query string, limit int) (*domain.UserSearchResult, error)

	// GetUser fetches the full profile for a login.
	GetUser(ctx context.Context, login string) (*domain.User, error)

	// ListUserRepositories returns the user's repositories sorted by
	// update time, capped at limit.
	ListUserRepositories(ctx context.Context, login string, limit int) ([]domain.Repository, error)
}
