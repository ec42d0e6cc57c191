package model

import "time"

// PullRequest is a fully aggregated snapshot of a pull request: its metadata
// plus the discussion, inline review comments, formal reviews, and any issues
// referenced from the body. Built fresh per request and never persisted.
type PullRequest struct {
	Number    int        `json:"number"`
	State     string     `json:"state"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Author    string     `json:"author"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`

	Comments       []Comment       `json:"comments"`
	ReviewComments []ReviewComment `json:"review_comments"`
	Reviews        []Review        `json:"reviews"`
	Issues         []Issue         `json:"issues"`

	// File is the change entry for the target path, set only when a path was
	// requested and the PR actually touched it.
	File *FileChange `json:"file,omitempty"`
}

// Merged reports whether a closed PR was specifically merged rather than
// abandoned. GitHub reports both as state "closed"; merged_at disambiguates.
func (pr PullRequest) Merged() bool {
	return pr.MergedAt != nil
}

// PullRequestRef is the minimal identity of a PR associated with a commit,
// as returned during discovery. Author is kept for bot filtering.
type PullRequestRef struct {
	Number int
	Author string
}
