package model

// FileChange is one entry from a pull request's changed-file list.
type FileChange struct {
	Filename string `json:"filename"`
	// Patch is the diff hunk text; binary files have none.
	Patch     string `json:"patch,omitempty"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	RawURL    string `json:"raw_url"`
}
