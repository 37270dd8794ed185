package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortKey selects the ordering applied to a filtered repository list.
type SortKey string

const (
	// SortUpdated orders by most recently updated first. Default.
	SortUpdated SortKey = "updated"
	// SortStars orders by stargazer count, descending.
	SortStars SortKey = "stars"
	// SortName orders lexicographically by name, ascending.
	SortName SortKey = "name"
)

// ParseSortKey returns the sort key for s, defaulting to SortUpdated.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortStars:
		return SortStars
	case SortName:
		return SortName
	default:
		return SortUpdated
	}
}

// Label returns the human-readable name of the sort key.
func (k SortKey) Label() string {
	switch k {
	case SortStars:
		return "Most stars"
	case SortName:
		return "Name"
	default:
		return "Recently updated"
	}
}

// Next cycles to the following sort key.
func (k SortKey) Next() SortKey {
	switch k {
	case SortUpdated:
		return SortStars
	case SortStars:
		return SortName
	default:
		return SortUpdated
	}
}

// ViewMode selects how the repository browser lays out results.
// It is presentational only and never affects data derivation.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// ParseViewMode returns the view mode for s, defaulting to ViewGrid.
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewList {
		return ViewList
	}
	return ViewGrid
}

// Toggle switches between grid and list.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewGrid {
		return ViewList
	}
	return ViewGrid
}

// TopicBadgeLimit returns how many topic badges the mode reveals before
// truncating with a "+K" overflow badge.
func (m ViewMode) TopicBadgeLimit() int {
	if m == ViewList {
		return 5
	}
	return 3
}

// AllLanguages is the implicit filter option matching every repository.
const AllLanguages = "all"

// Languages returns the distinct non-empty languages present in repos,
// sorted lexicographically.
func Languages(repos []Repository) []string {
	seen := make(map[string]struct{}, len(repos))
	langs := make([]string, 0, len(repos))
	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		if _, ok := seen[r.Language]; ok {
			continue
		}
		seen[r.Language] = struct{}{}
		langs = append(langs, r.Language)
	}
	sort.Strings(langs)
	return langs
}

// FilterRepositories returns the repositories matching the query and
// language filter, preserving relative order. A repository matches the
// query when its name or description contains it case-insensitively.
// A language filter of AllLanguages (or empty) matches everything.
func FilterRepositories(repos []Repository, query, language string) []Repository {
	q := strings.ToLower(query)
	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		matchesQuery := strings.Contains(strings.ToLower(r.Name), q) ||
			(r.Description != "" && strings.Contains(strings.ToLower(r.Description), q))
		matchesLanguage := language == "" || language == AllLanguages || r.Language == language
		if matchesQuery && matchesLanguage {
			out = append(out, r)
		}
	}
	return out
}

// SortRepositories returns a new slice ordered by key. The sort is
// stable: ties preserve prior relative order.
func SortRepositories(repos []Repository, key SortKey) []Repository {
	out := make([]Repository, len(repos))
	copy(out, repos)

	switch key {
	case SortStars:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Stars > out[j].Stars
		})
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedTime().After(out[j].UpdatedTime())
		})
	}
	return out
}

// RelativeAge formats t relative to now: "Today", "Yesterday",
// "N days ago", "N months ago" (30-day months), "N years ago"
// (365-day years).
func RelativeAge(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}
