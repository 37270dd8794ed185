// Package repobrowser provides the repository browsing view for a
// selected user: profile header, filter/sort/language controls and the
// repository grid or list.
//
// Filtering, sorting and language derivation are pure functions in the
// domain package; the view only holds the control state and re-derives
// the visible set on every render. The view mode is presentational and
// never changes which repositories are shown.
package repobrowser

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/keymap"
	"github.com/ghexplore/ghexplore-cli/internal/adapters/driving/tui/styles"
	"github.com/ghexplore/ghexplore-cli/internal/core/domain"
)

// skeletonCards is how many placeholder cards the loading state shows.
const skeletonCards = 4

// View is the repository browser.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	user    *domain.User
	repos   []domain.Repository
	loading bool

	filter   textinput.Model
	sortKey  domain.SortKey
	language string
	viewMode domain.ViewMode

	now    func() time.Time
	width  int
	height int
}

// NewView creates a new repository browser view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	fi := textinput.New()
	fi.Placeholder = "Search repositories..."
	fi.CharLimit = 256
	fi.Width = 40

	return &View{
		styles:   s,
		keymap:   km,
		filter:   fi,
		sortKey:  domain.SortUpdated,
		language: domain.AllLanguages,
		viewMode: domain.ViewGrid,
		now:      time.Now,
		width:    80,
		height:   24,
	}
}

// SetDefaults applies the configured initial sort key and view mode.
func (v *View) SetDefaults(sort domain.SortKey, mode domain.ViewMode) {
	v.sortKey = sort
	v.viewMode = mode
}

// SetNow overrides the clock used for relative dates. Tests only.
func (v *View) SetNow(now func() time.Time) {
	if now != nil {
		v.now = now
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetUser sets the user whose repositories are shown. Control state is
// reset so a new selection never inherits the previous user's filter.
func (v *View) SetUser(user domain.User) {
	v.user = &user
	v.repos = nil
	v.filter.Reset()
	v.filter.Blur()
	v.language = domain.AllLanguages
}

// SetRepositories sets the repository list and ends the loading state.
func (v *View) SetRepositories(repos []domain.Repository) {
	v.repos = repos
	v.loading = false
}

// SetLoading toggles the skeleton loading state.
func (v *View) SetLoading(loading bool) {
	v.loading = loading
}

// Update handles messages for the browser.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.filter.Focused() {
		if keyMsg.Type == tea.KeyEsc || keyMsg.Type == tea.KeyEnter {
			v.filter.Blur()
			return v, nil
		}
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(keyMsg)
		return v, cmd
	}

	keyStr := keyMsg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Filter):
		return v, v.filter.Focus()
	case keymap.Matches(keyStr, v.keymap.CycleSort):
		v.sortKey = v.sortKey.Next()
	case keymap.Matches(keyStr, v.keymap.CycleLanguage):
		v.cycleLanguage()
	case keymap.Matches(keyStr, v.keymap.ToggleView):
		v.viewMode = v.viewMode.Toggle()
	}
	return v, nil
}

// cycleLanguage advances through "all" plus the languages present in
// the current repository set.
func (v *View) cycleLanguage() {
	options := append([]string{domain.AllLanguages}, domain.Languages(v.repos)...)
	for i, lang := range options {
		if lang == v.language {
			v.language = options[(i+1)%len(options)]
			return
		}
	}
	v.language = domain.AllLanguages
}

// Visible returns the repositories after filtering and sorting.
func (v *View) Visible() []domain.Repository {
	filtered := domain.FilterRepositories(v.repos, v.filter.Value(), v.language)
	return domain.SortRepositories(filtered, v.sortKey)
}

// View renders the browser.
func (v *View) View() string {
	if v.user == nil {
		return ""
	}

	sections := []string{v.renderProfile()}

	if v.loading {
		sections = append(sections, v.renderSkeleton())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, v.renderControls())

	visible := v.Visible()
	if len(visible) == 0 {
		sections = append(sections, v.renderEmpty())
	} else {
		sections = append(sections, v.renderRepos(visible))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderProfile renders the selected user's header.
func (v *View) renderProfile() string {
	u := v.user

	title := v.styles.Title.Render(u.Display())
	if u.Name != "" {
		title += "  " + v.styles.Muted.Render("@"+u.Login)
	}

	lines := []string{title}
	if u.Bio != "" {
		lines = append(lines, v.styles.Normal.Render(truncate(u.Bio, v.width-4)))
	}

	var meta []string
	if u.Location != "" {
		meta = append(meta, u.Location)
	}
	if u.Company != "" {
		meta = append(meta, u.Company)
	}
	meta = append(meta,
		fmt.Sprintf("%d repositories", u.PublicRepos),
		fmt.Sprintf("%d followers", u.Followers),
		fmt.Sprintf("%d following", u.Following),
	)
	lines = append(lines, v.styles.Muted.Render(strings.Join(meta, " · ")))

	return strings.Join(lines, "\n") + "\n"
}

// renderControls renders the filter input and the sort, language and
// layout indicators.
func (v *View) renderControls() string {
	filterField := v.styles.InputField.Render(v.filter.View())

	indicators := v.styles.Muted.Render(strings.Join([]string{
		"[s] " + v.sortKey.Label(),
		"[l] " + v.languageLabel(),
		"[v] " + string(v.viewMode),
	}, "  "))

	return filterField + "\n" + indicators + "\n"
}

func (v *View) languageLabel() string {
	if v.language == domain.AllLanguages {
		return "All languages"
	}
	return v.language
}

// renderEmpty renders the empty state. The hint distinguishes a user
// with no public repositories from an active filter matching nothing.
func (v *View) renderEmpty() string {
	header := v.styles.Subtitle.Render("No repositories found")

	hint := "Try adjusting your search or filter criteria."
	if len(v.repos) == 0 {
		hint = "This user has no public repositories."
	}

	return "\n" + header + "\n" + v.styles.Muted.Render(hint) + "\n"
}

// renderSkeleton renders placeholder cards while repositories load.
func (v *View) renderSkeleton() string {
	card := v.styles.Border.Width(v.cardWidth()).Render(
		v.styles.Skeleton.Render("████████████\n██████████████████████\n████████"),
	)

	cards := make([]string, skeletonCards)
	for i := range cards {
		cards[i] = card
	}
	return v.joinCards(cards)
}

// renderRepos renders the visible repositories in the active layout.
func (v *View) renderRepos(repos []domain.Repository) string {
	cards := make([]string, len(repos))
	for i := range repos {
		cards[i] = v.renderCard(&repos[i])
	}
	return v.joinCards(cards)
}

// joinCards lays cards out in two columns for grid mode, one per row
// for list mode.
func (v *View) joinCards(cards []string) string {
	if v.viewMode == domain.ViewList {
		return strings.Join(cards, "\n")
	}

	rows := make([]string, 0, (len(cards)+1)/2)
	for i := 0; i < len(cards); i += 2 {
		if i+1 < len(cards) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i], cards[i+1]))
		} else {
			rows = append(rows, cards[i])
		}
	}
	return strings.Join(rows, "\n")
}

func (v *View) cardWidth() int {
	if v.viewMode == domain.ViewList {
		return v.width - 2
	}
	w := v.width/2 - 2
	if w < 30 {
		w = 30
	}
	return w
}

// renderCard renders one repository.
func (v *View) renderCard(r *domain.Repository) string {
	width := v.cardWidth()
	inner := width - 4

	name := v.styles.Title.Render(truncate(r.Name, inner))
	var flags []string
	if r.Private {
		flags = append(flags, "private")
	}
	if r.Fork {
		flags = append(flags, "fork")
	}
	if len(flags) > 0 {
		name += "  " + v.styles.Muted.Render("("+strings.Join(flags, ", ")+")")
	}

	lines := []string{name}

	if r.Description != "" {
		lines = append(lines, v.styles.Normal.Render(truncate(r.Description, inner)))
	}

	var meta []string
	if r.Language != "" {
		meta = append(meta, r.Language)
	}
	meta = append(meta,
		fmt.Sprintf("★ %d", r.Stars),
		fmt.Sprintf("⑂ %d", r.Forks),
	)
	if t := r.UpdatedTime(); !t.IsZero() {
		meta = append(meta, "Updated "+domain.RelativeAge(t, v.now()))
	}
	lines = append(lines, v.styles.Muted.Render(strings.Join(meta, " · ")))

	if badges := v.renderTopics(r.Topics); badges != "" {
		lines = append(lines, badges)
	}

	return v.styles.Border.Width(width).Render(strings.Join(lines, "\n"))
}

// renderTopics renders topic badges up to the mode's limit, with a
// "+K" overflow badge for the remainder.
func (v *View) renderTopics(topics []string) string {
	if len(topics) == 0 {
		return ""
	}

	limit := v.viewMode.TopicBadgeLimit()
	shown := topics
	if len(shown) > limit {
		shown = shown[:limit]
	}

	badges := make([]string, 0, len(shown)+1)
	for _, t := range shown {
		badges = append(badges, v.styles.Badge.Render(t))
	}
	if rest := len(topics) - limit; rest > 0 {
		badges = append(badges, v.styles.Badge.Render(fmt.Sprintf("+%d", rest)))
	}
	return strings.Join(badges, " ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// User returns the current user, nil when none is set.
func (v *View) User() *domain.User {
	return v.user
}

// Repositories returns the unfiltered repository list.
func (v *View) Repositories() []domain.Repository {
	return v.repos
}

// Loading reports whether the skeleton state is active.
func (v *View) Loading() bool {
	return v.loading
}

// FilterQuery returns the current filter text.
func (v *View) FilterQuery() string {
	return v.filter.Value()
}

// FilterFocused reports whether the filter input captures keystrokes.
func (v *View) FilterFocused() bool {
	return v.filter.Focused()
}

// SortKey returns the active sort key.
func (v *View) SortKey() domain.SortKey {
	return v.sortKey
}

// Language returns the active language filter.
func (v *View) Language() string {
	return v.language
}

// ViewMode returns the active layout mode.
func (v *View) ViewMode() domain.ViewMode {
	return v.viewMode
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
