package domain

// User is a GitHub user profile as returned by the API.
// Values are immutable snapshots; id and login uniquely identify a user
// for the lifetime of a session.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`

	// Profile fields below are absent from search summaries and only
	// populated by a per-user detail fetch.
	Name     string `json:"name,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Location string `json:"location,omitempty"`
	Company  string `json:"company,omitempty"`
	Blog     string `json:"blog,omitempty"`

	PublicRepos int `json:"public_repos"`
	Followers   int `json:"followers"`
	Following   int `json:"following"`
}

// Display returns the user's name, falling back to the login.
func (u User) Display() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// Enriched reports whether the detail-only profile fields are populated.
func (u User) Enriched() bool {
	return u.Name != "" || u.Bio != "" || u.Location != "" || u.Company != "" || u.Blog != ""
}

// UserSearchResult is one page of a user search.
type UserSearchResult struct {
	TotalCount        int    `json:"total_count"`
	IncompleteResults bool   `json:"incomplete_results"`
	Users             []User `json:"items"`
}
