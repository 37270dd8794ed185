// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm
// architecture. Async results carry a generation token so that a
// response belonging to a superseded request can never overwrite state
// set by a more recent one.
package messages

import (
	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
)

// SearchDebounced fires when the debounce window elapses. Gen is the
// debounce generation at scheduling time; a stale generation means the
// query changed again within the window and the tick is discarded
// (last-write-wins, never queued).
type SearchDebounced struct {
	Gen   int
	Query string
}

// SearchCompleted carries user search results back to the model.
type SearchCompleted struct {
	Gen   int
	Users []domain.User
	Err   error
}

// UserSelected is sent when a user is chosen from the suggestion list.
type UserSelected struct {
	User domain.User
}

// ReposLoaded carries the repository list for a selected user.
type ReposLoaded struct {
	Gen   int
	Login string
	Repos []domain.Repository
	Err   error
}

// ConnectivityChanged signals an online/offline transition.
type ConnectivityChanged struct {
	Online bool
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
