// Package services implements the core application services behind the
// driving ports.
package services

import (
	"context"

	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
	"github.com/ghexplore/ghexplore-cli/internal/core/ports/driven"
	"github.com/ghexplore/ghexplore-cli/internal/core/ports/driving"
	"github.com/ghexplore/ghexplore-cli/internal/logger"
)

// Ensure RepositoryService implements the interface.
var _ driving.RepositoryService = (*RepositoryService)(nil)

// DefaultRepoLimit caps one page of a user's repositories.
const DefaultRepoLimit = 100

// RepositoryService lists a user's public repositories.
type RepositoryService struct {
	gateway driven.GitHubGateway
	limit   int
}

// NewRepositoryService creates a repository service over the gateway.
func NewRepositoryService(gateway driven.GitHubGateway) *RepositoryService {
	return &RepositoryService{
		gateway: gateway,
		limit:   DefaultRepoLimit,
	}
}

// SetLimit overrides the page cap. Non-positive values are ignored.
func (s *RepositoryService) SetLimit(limit int) {
	if limit > 0 {
		s.limit = limit
	}
}

// ListForUser returns the user's repositories sorted by update time.
// The returned slice is the complete unfiltered set for the user;
// filtering and sorting for display happen downstream on copies.
func (s *RepositoryService) ListForUser(ctx context.Context, login string) ([]domain.Repository, error) {
	logger.Section("Repository Fetch")
	logger.Debug("User: %q, limit: %d", login, s.limit)

	repos, err := s.gateway.ListUserRepositories(ctx, login, s.limit)
	if err != nil {
		logger.Warn("Repository fetch for %q failed: %v", login, err)
		return nil, err
	}

	logger.Debug("Fetched %d repositories", len(repos))
	return repos, nil
}
