package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
	"github.com/ghexplore/ghexplore-cli/internal/core/ports/driven"
	"github.com/ghexplore/ghexplore-cli/internal/core/ports/driving"
	"github.com/ghexplore/ghexplore-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.UserSearchService = (*SearchService)(nil)

const (
	// DefaultSearchLimit caps one page of user search results.
	DefaultSearchLimit = 5

	// DefaultSearchTimeout is the wall-clock budget for a search and
	// all of its detail-enrichment children.
	DefaultSearchTimeout = 10 * time.Second
)

// SearchService searches GitHub users and enriches each summary hit
// with a per-user profile fetch.
type SearchService struct {
	gateway driven.GitHubGateway
	limit   int
	timeout time.Duration
}

// NewSearchService creates a search service over the gateway.
func NewSearchService(gateway driven.GitHubGateway) *SearchService {
	return &SearchService{
		gateway: gateway,
		limit:   DefaultSearchLimit,
		timeout: DefaultSearchTimeout,
	}
}

// SetLimit overrides the per-page result cap. Non-positive values are ignored.
func (s *SearchService) SetLimit(limit int) {
	if limit > 0 {
		s.limit = limit
	}
}

// SetTimeout overrides the search deadline. Non-positive values are ignored.
func (s *SearchService) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Search returns up to the configured cap of enriched users for the
// query. The search request and all enrichment requests share one
// deadline-bound context; cancelling it cancels the whole batch.
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.User, error) {
	logger.Section("User Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.User{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page, err := s.gateway.SearchUsers(ctx, query, s.limit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrTimeout
		}
		logger.Warn("Search failed: %v", err)
		return nil, err
	}
	logger.Debug("Search: %d of %d total hits", len(page.Users), page.TotalCount)

	return s.enrich(ctx, page.Users), nil
}

// enrich fetches profile details for every summary hit concurrently
// and waits for all fetches to settle. A failed detail fetch keeps the
// summary record; individual failures never fail the batch.
func (s *SearchService) enrich(ctx context.Context, users []domain.User) []domain.User {
	enriched := make([]domain.User, len(users))
	copy(enriched, users)

	var wg sync.WaitGroup
	wg.Add(len(users))

	for i := range users {
		go func(i int) {
			defer wg.Done()
			detail, err := s.gateway.GetUser(ctx, users[i].Login)
			if err != nil {
				logger.Warn("Detail fetch for %q failed, keeping summary: %v", users[i].Login, err)
				return
			}
			enriched[i] = *detail
		}(i)
	}

	wg.Wait()
	return enriched
}
