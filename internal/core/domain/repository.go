package domain

import "time"

// Repository is a GitHub repository as returned by the API.
// It is an immutable snapshot; filtering and sorting always derive new
// slices rather than mutating a fetched list.
type Repository struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description,omitempty"`
	HTMLURL     string   `json:"html_url"`
	Language    string   `json:"language,omitempty"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	UpdatedAt   string   `json:"updated_at"`
	Topics      []string `json:"topics"`
	Private     bool     `json:"private"`
	Fork        bool     `json:"fork"`
}

// UpdatedTime parses the updated_at timestamp.
// Returns the zero time when the timestamp is missing or malformed.
func (r Repository) UpdatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
