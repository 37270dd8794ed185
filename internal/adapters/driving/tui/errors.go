package tui

import "errors"

var (
	// ErrNoSearchService indicates the TUI was built without a user
	// search service.
	ErrNoSearchService = errors.New("no search service configured")

	// ErrNoRepositoryService indicates the TUI was built without a
	// repository service.
	ErrNoRepositoryService = errors.New("no repository service configured")
)
