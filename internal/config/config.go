// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults for the two page-size knobs. Both upstream commit pages and the
// per-call PR detail batch are capped at 20 items.
const (
	DefaultCommitPageSize = 20
	DefaultMaxPRsPerCall  = 20
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken    string
	CommitPageSize int
	MaxPRsPerCall  int
}

// HasGitHubToken returns true when a token was found in the environment.
// An absent token is not a startup error: it surfaces as an authorization
// failure on the first upstream fetch instead.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. PRCONTEXT_GITHUB_TOKEN is preferred, with GITHUB_TOKEN as a fallback
// since that is what most tool hosts export. Optional variables with defaults:
// PRCONTEXT_COMMIT_PAGE_SIZE (20, range 1..100 per the GitHub API),
// PRCONTEXT_MAX_PRS_PER_CALL (20, minimum 1).
func Load() (*Config, error) {
	token := os.Getenv("PRCONTEXT_GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	commitPageSize := DefaultCommitPageSize
	if v, ok := os.LookupEnv("PRCONTEXT_COMMIT_PAGE_SIZE"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PRCONTEXT_COMMIT_PAGE_SIZE has invalid value %q: %w", v, err)
		}
		if parsed < 1 || parsed > 100 {
			return nil, fmt.Errorf("PRCONTEXT_COMMIT_PAGE_SIZE must be between 1 and 100, got %d", parsed)
		}
		commitPageSize = parsed
	}

	maxPRsPerCall := DefaultMaxPRsPerCall
	if v, ok := os.LookupEnv("PRCONTEXT_MAX_PRS_PER_CALL"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PRCONTEXT_MAX_PRS_PER_CALL has invalid value %q: %w", v, err)
		}
		if parsed < 1 {
			return nil, fmt.Errorf("PRCONTEXT_MAX_PRS_PER_CALL must be at least 1, got %d", parsed)
		}
		maxPRsPerCall = parsed
	}

	return &Config{
		GitHubToken:    token,
		CommitPageSize: commitPageSize,
		MaxPRsPerCall:  maxPRsPerCall,
	}, nil
}
