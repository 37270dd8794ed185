// Package github wraps the go-github client behind the GitHubGateway
// port, mapping API failures into the domain error taxonomy.
package github

import (
	"context"
	"errors"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
	"github.com/ghexplore/ghexplore-cli/internal/core/ports/driven"
)

// DefaultTimeout is the HTTP request timeout. Operation-level deadlines
// (the search wall clock) come from the caller's context on top of this.
const DefaultTimeout = 30 * time.Second

// Ensure Client implements the gateway port.
var _ driven.GitHubGateway = (*Client)(nil)

// Client wraps the go-github client with rate limiting and error mapping.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates an unauthenticated GitHub API client.
func NewClient() *Client {
	hc := &http.Client{Timeout: DefaultTimeout}
	return &Client{
		gh:          gh.NewClient(hc),
		rateLimiter: NewRateLimiter(),
	}
}

// NewClientWithToken creates a GitHub client authenticated with a
// static access token. Works for both PAT and OAuth access tokens.
func NewClientWithToken(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(tc),
		rateLimiter: NewRateLimiter(),
	}
}

// NewClientWithHTTPClient creates a GitHub client with a custom
// http.Client. Useful for tests pointing at a local server.
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(),
	}
}

// WithBaseURL redirects API requests, for tests. The URL must end in a
// trailing slash.
func (c *Client) WithBaseURL(baseURL string) *Client {
	client, err := c.gh.WithEnterpriseURLs(baseURL, baseURL)
	if err == nil {
		c.gh = client
	}
	return c
}

// SearchUsers returns one page of user search results capped at limit.
func (c *Client) SearchUsers(ctx context.Context, query string, limit int) (*domain.UserSearchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, c.wrapError(ctx, err)
	}

	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: limit},
	}
	result, resp, err := c.gh.Search.Users(ctx, query, opts)
	if err != nil {
		return nil, c.wrapError(ctx, err)
	}
	c.updateRateLimitFromResponse(resp)

	users := make([]domain.User, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, toUser(u))
	}

	return &domain.UserSearchResult{
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
		Users:             users,
	}, nil
}

// GetUser fetches the full profile for a login.
func (c *Client) GetUser(ctx context.Context, login string) (*domain.User, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, c.wrapError(ctx, err)
	}

	u, resp, err := c.gh.Users.Get(ctx, login)
	if err != nil {
		return nil, c.wrapError(ctx, err)
	}
	c.updateRateLimitFromResponse(resp)

	user := toUser(u)
	return &user, nil
}

// ListUserRepositories returns the user's repositories sorted by update
// time, capped at limit. A single page only; pagination beyond the cap
// is out of scope.
func (c *Client) ListUserRepositories(ctx context.Context, login string, limit int) ([]domain.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, c.wrapError(ctx, err)
	}

	opts := &gh.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: limit},
	}
	repos, resp, err := c.gh.Repositories.ListByUser(ctx, login, opts)
	if err != nil {
		return nil, c.wrapError(ctx, err)
	}
	c.updateRateLimitFromResponse(resp)

	out := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRepository(r))
	}
	return out, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub
// response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors into the domain taxonomy.
func (c *Client) wrapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &domain.RateLimitError{ResetAt: rateErr.Rate.Reset.Time}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		reset := time.Time{}
		if abuseErr.RetryAfter != nil {
			reset = time.Now().Add(*abuseErr.RetryAfter)
		}
		return &domain.RateLimitError{ResetAt: reset}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusForbidden:
			return &domain.RateLimitError{ResetAt: resetFromHeaders(ghErr.Response)}
		case http.StatusNotFound:
			return domain.ErrNotFound
		case http.StatusUnprocessableEntity:
			return domain.ErrInvalidQuery
		default:
			return &domain.APIError{
				StatusCode: ghErr.Response.StatusCode,
				Status:     http.StatusText(ghErr.Response.StatusCode),
			}
		}
	}

	return &domain.NetworkError{Err: err}
}

// toUser converts a go-github user to the domain type.
func toUser(u *gh.User) domain.User {
	return domain.User{
		ID:          u.GetID(),
		Login:       u.GetLogin(),
		AvatarURL:   u.GetAvatarURL(),
		HTMLURL:     u.GetHTMLURL(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		Location:    u.GetLocation(),
		Company:     u.GetCompany(),
		Blog:        u.GetBlog(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
	}
}

// toRepository converts a go-github repository to the domain type.
// Topic order from the API is preserved.
func toRepository(r *gh.Repository) domain.Repository {
	updated := ""
	if !r.GetUpdatedAt().IsZero() {
		updated = r.GetUpdatedAt().UTC().Format(time.RFC3339)
	}

	return domain.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		HTMLURL:     r.GetHTMLURL(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		UpdatedAt:   updated,
		Topics:      r.Topics,
		Private:     r.GetPrivate(),
		Fork:        r.GetFork(),
	}
}
