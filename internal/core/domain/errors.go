package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent the typed failure taxonomy surfaced to the UI.
// These are distinct from raw transport errors, which the GitHub
// connector maps into this set.
var (
	// ErrOffline indicates no network connectivity; raised before any
	// request is made.
	ErrOffline = errors.New("no internet connection")

	// ErrTimeout indicates the request wall-clock deadline fired.
	ErrTimeout = errors.New("request timed out")

	// ErrInvalidQuery indicates the API rejected the search query (422).
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrNotFound indicates a requested entity does not exist (404).
	ErrNotFound = errors.New("not found")
)

// RateLimitError indicates the API rate limit was exceeded (403).
// ResetAt is derived from the X-RateLimit-Reset header; the zero time
// means the header was absent.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetHint())
}

// ResetHint renders the reset instant as a local time string, or
// "later" when the reset time is unknown.
func (e *RateLimitError) ResetHint() string {
	if e.ResetAt.IsZero() {
		return "later"
	}
	return e.ResetAt.Local().Format("3:04:05 PM")
}

// APIError is any other non-2xx API response.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d %s", e.StatusCode, e.Status)
}

// NetworkError is a transport-level failure that never reached an HTTP
// status, wrapping the underlying cause.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "network request failed"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RenderFault is a synchronous rendering failure caught by the fault
// containment boundary. It is terminal for the view instance that
// raised it; recovery requires a full reload.
type RenderFault struct {
	Message string
}

func (e *RenderFault) Error() string {
	return "render fault: " + e.Message
}

// IsRateLimited reports whether err is a rate limit error.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// IsNotFound reports whether err indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
