// Package driving defines the ports through which external actors
// (CLI, TUI) drive the core services.
package driving

import (
	"context"

	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
)

// UserSearchService searches GitHub users and enriches each hit with
// profile details.
type UserSearchService interface {
	// Search returns up to the configured cap of detail-enriched users
	// for the query, in API rank order. An empty or whitespace-only
	// query returns no users and issues no request.
	Search(ctx context.Context, query string) ([]domain.User, error)
}

// RepositoryService lists the public repositories of a user.
type RepositoryService interface {
	// ListForUser returns the user's repositories sorted by update
	// time, capped at the configured page size.
	ListForUser(ctx context.Context, login string) ([]domain.Repository, error)
}
