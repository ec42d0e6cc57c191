package model

import "time"

// IssueRef is a reference to an issue parsed from free text in a PR body.
// It is purely a lookup key; resolution happens against the GitHub API.
type IssueRef struct {
	Owner  string
	Repo   string
	Number int
}

// Issue is a resolved issue referenced from a PR body.
type Issue struct {
	Owner     string     `json:"owner"`
	Repo      string     `json:"repo"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Author    string     `json:"author"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}
