package model

import "time"

// Review represents a formal review submitted on a pull request
// (approve, request changes, or comment events).
type Review struct {
	// Body may be empty: GitHub allows approvals with no text.
	Body        string    `json:"body,omitempty"`
	State       string    `json:"state"`
	Author      string    `json:"author"`
	URL         string    `json:"url"`
	SubmittedAt time.Time `json:"submitted_at"`
}
