package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/prcontext/internal/domain/port/driven"
)

// dependabotLogin is the author login of GitHub's dependency update bot.
const dependabotLogin = "dependabot[bot]"

// DiscoveryResult is the output of one commit-history discovery page:
// the deduplicated PR numbers found on that page and a continuation flag.
type DiscoveryResult struct {
	PRNumbers []int `json:"pr_numbers"`
	HasMore   bool  `json:"has_more"`
	Page      int   `json:"page"`
}

// DiscoveryService maps a file path to the pull requests that touched it,
// one commit-history page at a time. It keeps no state across calls: the
// caller owns the page counter and the accumulated PR number set.
type DiscoveryService struct {
	client         driven.GitHubClient
	commitPageSize int
}

// NewDiscoveryService creates a DiscoveryService fetching commit pages of the
// given size.
func NewDiscoveryService(client driven.GitHubClient, commitPageSize int) *DiscoveryService {
	return &DiscoveryService{
		client:         client,
		commitPageSize: commitPageSize,
	}
}

// ListPRsForFile fetches one page of commits touching path, then unions the
// PR numbers associated with each commit, preserving first-seen order.
//
// HasMore is a heuristic: true iff the commit page came back exactly full.
// A history whose last page happens to be full yields a false positive, so
// callers must treat HasMore=true as "try the next page, it may be empty"
// and HasMore=false as authoritative. Any upstream failure aborts the whole
// page; no partial results are returned, so a retry of the same page is safe.
func (s *DiscoveryService) ListPRsForFile(ctx context.Context, owner, repo, path string, page int, since, until *time.Time, ignoreDependabot bool) (*DiscoveryResult, error) {
	shas, err := s.client.ListCommitsForPath(ctx, owner, repo, path, page, s.commitPageSize, since, until)
	if err != nil {
		return nil, err
	}

	numbers := make([]int, 0)
	seen := make(map[int]bool)

	// Sequential on purpose: the upstream rate budget is shared process-wide,
	// and serializing per-commit lookups avoids bursts that trigger throttling.
	for _, sha := range shas {
		prs, err := s.client.ListPullRequestsWithCommit(ctx, owner, repo, sha)
		if err != nil {
			return nil, err
		}

		for _, pr := range prs {
			if ignoreDependabot && pr.Author == dependabotLogin {
				continue
			}
			if seen[pr.Number] {
				continue
			}
			seen[pr.Number] = true
			numbers = append(numbers, pr.Number)
		}
	}

	result := &DiscoveryResult{
		PRNumbers: numbers,
		HasMore:   len(shas) == s.commitPageSize,
		Page:      page,
	}

	slog.Debug("discovery page complete",
		"owner", owner,
		"repo", repo,
		"path", path,
		"page", page,
		"commits", len(shas),
		"pr_numbers", len(numbers),
		"has_more", result.HasMore,
	)

	return result, nil
}
