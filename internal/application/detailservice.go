package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/prcontext/internal/domain/model"
	"github.com/ericfisherdev/prcontext/internal/domain/port/driven"
)

// DetailResult is the output of one detail batch: the fully aggregated PR
// records processed on this call and the numbers left for a follow-up call.
type DetailResult struct {
	PullRequests       []model.PullRequest `json:"pullRequests"`
	RemainingPRNumbers []int               `json:"remaining_pr_numbers"`
}

// DetailService aggregates full review context for pull requests, batching
// the work so one call never details more than maxPerCall PRs. The batching
// is stateless pseudo-pagination: the caller resubmits RemainingPRNumbers
// until it comes back empty.
type DetailService struct {
	client     driven.GitHubClient
	maxPerCall int
}

// NewDetailService creates a DetailService processing at most maxPerCall
// PRs per invocation.
func NewDetailService(client driven.GitHubClient, maxPerCall int) *DetailService {
	return &DetailService{
		client:     client,
		maxPerCall: maxPerCall,
	}
}

// GetPRDetails deduplicates numbers (first-seen order), aggregates the first
// maxPerCall of them sequentially, and returns the rest untouched in their
// original relative order. One failed aggregation fails the whole call; the
// work is read-only, so retrying the same batch is safe.
func (s *DetailService) GetPRDetails(ctx context.Context, owner, repo string, numbers []int, path string) (*DetailResult, error) {
	unique := dedupeNumbers(numbers)

	batch := unique
	remaining := []int{}
	if len(unique) > s.maxPerCall {
		batch = unique[:s.maxPerCall]
		remaining = unique[s.maxPerCall:]
	}

	records := make([]model.PullRequest, 0, len(batch))
	for _, number := range batch {
		pr, err := s.aggregatePR(ctx, owner, repo, number, path)
		if err != nil {
			return nil, err
		}
		records = append(records, *pr)
	}

	slog.Debug("detail batch complete",
		"owner", owner,
		"repo", repo,
		"processed", len(records),
		"remaining", len(remaining),
	)

	return &DetailResult{
		PullRequests:       records,
		RemainingPRNumbers: remaining,
	}, nil
}

// aggregatePR assembles one PR record from five independent fetches plus the
// best-effort issue-reference resolution. Metadata, files, comments, review
// comments, and reviews are each fatal on failure; reference resolution never is.
func (s *DetailService) aggregatePR(ctx context.Context, owner, repo string, number int, path string) (*model.PullRequest, error) {
	pr, err := s.client.FetchPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	if path != "" {
		files, err := s.client.FetchPullRequestFiles(ctx, owner, repo, number)
		if err != nil {
			return nil, err
		}
		for i := range files {
			if files[i].Filename == path {
				file := files[i]
				pr.File = &file
				break
			}
		}
	}

	if pr.Comments, err = s.client.FetchIssueComments(ctx, owner, repo, number); err != nil {
		return nil, err
	}
	if pr.ReviewComments, err = s.client.FetchReviewComments(ctx, owner, repo, number); err != nil {
		return nil, err
	}
	if pr.Reviews, err = s.client.FetchReviews(ctx, owner, repo, number); err != nil {
		return nil, err
	}

	pr.Issues = s.resolveIssueRefs(ctx, pr.Body)

	return pr, nil
}

// resolveIssueRefs extracts issue URLs from a PR body and resolves each one.
// A reference that fails to resolve (deleted issue, access denied, transient
// error) is skipped rather than failing the enclosing PR record.
func (s *DetailService) resolveIssueRefs(ctx context.Context, body string) []model.Issue {
	refs := extractIssueRefs(body)

	issues := make([]model.Issue, 0, len(refs))
	for _, ref := range refs {
		issue, err := s.client.FetchIssue(ctx, ref.Owner, ref.Repo, ref.Number)
		if err != nil {
			slog.Debug("skipping unresolvable issue reference",
				"owner", ref.Owner,
				"repo", ref.Repo,
				"number", ref.Number,
				"error", err,
			)
			continue
		}
		issues = append(issues, *issue)
	}

	return issues
}

// dedupeNumbers removes duplicates while preserving first-seen order.
func dedupeNumbers(numbers []int) []int {
	unique := make([]int, 0, len(numbers))
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}
	return unique
}
