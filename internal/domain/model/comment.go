package model

import "time"

// Comment represents a PR-level general comment (from the GitHub Issues API,
// not the Pull Requests review comments API).
type Comment struct {
	Body string `json:"body"`
	// Author is empty for actors without a resolvable login (e.g. deleted
	// accounts); the field is omitted from JSON in that case.
	Author    string    `json:"author,omitempty"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewComment represents an inline code comment attached to a diff position
// within a pull request review.
type ReviewComment struct {
	Body      string    `json:"body"`
	Author    string    `json:"author,omitempty"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
