// Package userlist provides the search suggestion list for the TUI.
package userlist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/styles"
	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
)

// linesPerUser is how many terminal rows one suggestion occupies.
const linesPerUser = 2

// UserList displays user search hits in a navigable suggestion list.
// The highlight starts at -1, meaning no suggestion is highlighted.
type UserList struct {
	users       []domain.User
	highlighted int
	open        bool
	styles      *styles.Styles
	width       int
}

// NewUserList creates a new suggestion list component.
func NewUserList(s *styles.Styles) *UserList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &UserList{
		users:       nil,
		highlighted: -1,
		styles:      s,
		width:       80,
	}
}

// Init initialises the list.
func (u *UserList) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the search view drives the list through its
// methods so that navigation stays active only while the list is open.
func (u *UserList) Update(msg tea.Msg) (*UserList, tea.Cmd) {
	return u, nil
}

// View renders the suggestion list. A closed or empty list renders
// nothing.
func (u *UserList) View() string {
	if !u.open || len(u.users) == 0 {
		return ""
	}

	lines := make([]string, 0, len(u.users)*linesPerUser)
	for i := range u.users {
		lines = append(lines, u.renderUser(i, &u.users[i]))
	}

	return u.styles.Border.Render(strings.Join(lines, "\n"))
}

// renderUser formats a single suggestion with its detail line.
func (u *UserList) renderUser(index int, user *domain.User) string {
	indicator := "  "
	if index == u.highlighted {
		indicator = "> "
	}

	title := user.Display()
	if user.Name != "" {
		title += "  @" + user.Login
	}
	title = truncate(title, u.width-24)

	counts := fmt.Sprintf("%d repos · %d followers", user.PublicRepos, user.Followers)

	var titleLine string
	if index == u.highlighted {
		titleLine = u.styles.Selected.Render(indicator + title)
	} else {
		titleLine = u.styles.Normal.Render(indicator + title)
	}
	titleLine += "  " + u.styles.Muted.Render(counts)

	detail := user.Bio
	if detail == "" {
		var parts []string
		if user.Location != "" {
			parts = append(parts, user.Location)
		}
		if user.Company != "" {
			parts = append(parts, user.Company)
		}
		detail = strings.Join(parts, " · ")
	}
	detailLine := u.styles.Muted.Render("    " + truncate(detail, u.width-8))

	return titleLine + "\n" + detailLine
}

// SetUsers replaces the list contents and resets the highlight to -1.
func (u *UserList) SetUsers(users []domain.User) {
	u.users = users
	u.highlighted = -1
}

// Users returns the current suggestions.
func (u *UserList) Users() []domain.User {
	return u.users
}

// Count returns the number of suggestions.
func (u *UserList) Count() int {
	return len(u.users)
}

// Open shows the list.
func (u *UserList) Open() {
	u.open = true
}

// Close hides the list and resets the highlight.
func (u *UserList) Close() {
	u.open = false
	u.highlighted = -1
}

// IsOpen reports whether the list is visible.
func (u *UserList) IsOpen() bool {
	return u.open
}

// Highlighted returns the highlighted index, -1 when none.
func (u *UserList) Highlighted() int {
	return u.highlighted
}

// HighlightedUser returns the highlighted user, or nil when the
// highlight is -1.
func (u *UserList) HighlightedUser() *domain.User {
	if u.highlighted < 0 || u.highlighted >= len(u.users) {
		return nil
	}
	return &u.users[u.highlighted]
}

// MoveDown advances the highlight, clamped to the last index.
func (u *UserList) MoveDown() {
	if u.highlighted < len(u.users)-1 {
		u.highlighted++
	}
}

// MoveUp retreats the highlight, clamped to -1 (no selection).
func (u *UserList) MoveUp() {
	if u.highlighted > -1 {
		u.highlighted--
	}
}

// RowCount returns how many terminal rows the open list occupies,
// excluding its border. Used for outside-click hit testing.
func (u *UserList) RowCount() int {
	if !u.open {
		return 0
	}
	return len(u.users) * linesPerUser
}

// SetWidth sets the component width.
func (u *UserList) SetWidth(width int) {
	u.width = width
}

// Width returns the current width.
func (u *UserList) Width() int {
	return u.width
}

// truncate shortens s to max runes, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
