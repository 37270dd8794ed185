package tui

import (
	"github.com/ghexplore/ghexplore-cli/internal/core/ports/driven"
	"github.com/ghexplore/ghexplore-cli/internal/core/ports/driving"
)

// Ports bundles the services the TUI drives.
type Ports struct {
	// Search performs debounced user searches.
	Search driving.UserSearchService

	// Repos lists repositories for a selected user.
	Repos driving.RepositoryService

	// Connectivity reports online/offline transitions. Optional; a nil
	// monitor means the TUI assumes it is always online.
	Connectivity driven.ConnectivityMonitor
}

// Validate checks that the required ports are present.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrNoSearchService
	}
	if p.Repos == nil {
		return ErrNoRepositoryService
	}
	return nil
}
