package usersearch

import (
	"errors"
	"fmt"

	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
)

// ErrNoSearchService is returned when the view was built without a
// search service.
var ErrNoSearchService = errors.New("no search service configured")

// UserMessage maps an error to the text shown in the error panel.
func UserMessage(err error) string {
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
		return fmt.Sprintf("GitHub API rate limit exceeded. Try again at %s.", rateErr.ResetHint())
	case errors.Is(err, domain.ErrInvalidQuery):
		return "Invalid search query. Please try a different search term."
	case errors.Is(err, domain.ErrNotFound):
		return "No users found. Please try a different search term."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("GitHub API error: %d %s", apiErr.StatusCode, apiErr.Status)
	case errors.As(err, &netErr):
		// Surface the underlying failure when one is available.
		if netErr.Err != nil {
			return netErr.Err.Error()
		}
		return "Failed to search users. Please try again."
	default:
		return "Failed to search users. Please try again."
	}
}

func errorIs(err, target error) bool {
	return err != nil && errors.Is(err, target)
}
