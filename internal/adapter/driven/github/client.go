// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/prcontext/internal/domain/model"
	"github.com/ericfisherdev/prcontext/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// An empty token yields an unauthenticated client; authorization failures then
// surface on the first fetch, not here.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// ListCommitsForPath retrieves exactly one page of the commit history touching
// path. Unlike the other list methods it does not follow NextPage: paging is
// the caller's pagination surface, so one call maps to one upstream page.
func (c *Client) ListCommitsForPath(ctx context.Context, owner, repo, path string, page, perPage int, since, until *time.Time) ([]string, error) {
	opts := &gh.CommitsListOptions{
		Path: path,
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}
	if since != nil {
		opts.Since = *since
	}
	if until != nil {
		opts.Until = *until
	}

	commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing commits for %s/%s path %q (page %d): %w", owner, repo, path, page, err)
	}

	logRateLimit(resp, owner+"/"+repo+"/commits", page, len(commits))

	shas := make([]string, 0, len(commits))
	for _, commit := range commits {
		shas = append(shas, commit.GetSHA())
	}

	return shas, nil
}

// ListPullRequestsWithCommit retrieves all PRs associated with a commit.
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) ListPullRequestsWithCommit(ctx context.Context, owner, repo, sha string) ([]model.PullRequestRef, error) {
	opts := &gh.ListOptions{PerPage: 100}
	refs := make([]model.PullRequestRef, 0)

	for {
		prs, resp, err := c.gh.PullRequests.ListPullRequestsWithCommit(ctx, owner, repo, sha, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for commit %s/%s@%s (page %d): %w", owner, repo, sha, opts.Page, err)
		}

		for _, pr := range prs {
			refs = append(refs, model.PullRequestRef{
				Number: pr.GetNumber(),
				Author: pr.GetUser().GetLogin(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return refs, nil
}

// FetchPullRequest retrieves the metadata for a single pull request. Child
// collections are initialized empty; the aggregation service fills them.
func (c *Client) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*model.PullRequest, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	logRateLimit(resp, fmt.Sprintf("%s/%s/pull", owner, repo), 0, 1)

	return mapPullRequest(pr), nil
}

// FetchPullRequestFiles retrieves the PR's full changed-file list.
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) FetchPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]model.FileChange, error) {
	opts := &gh.ListOptions{PerPage: 100}
	files := make([]model.FileChange, 0)

	for {
		commitFiles, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing files for %s/%s#%d (page %d): %w", owner, repo, number, opts.Page, err)
		}

		for _, f := range commitFiles {
			files = append(files, mapFileChange(f))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

// FetchIssueComments retrieves all general PR-level comments (from the Issues API)
// for a pull request, in API return order.
func (c *Client) FetchIssueComments(ctx context.Context, owner, repo string, number int) ([]model.Comment, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	comments := make([]model.Comment, 0)

	for {
		raw, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issue comments for %s/%s#%d (page %d): %w", owner, repo, number, opts.Page, err)
		}

		for _, comment := range raw {
			comments = append(comments, model.Comment{
				Body:      comment.GetBody(),
				Author:    comment.GetUser().GetLogin(),
				URL:       comment.GetHTMLURL(),
				CreatedAt: comment.GetCreatedAt().Time,
				UpdatedAt: comment.GetUpdatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

// FetchReviewComments retrieves all review comments (inline code comments) for
// a pull request, in API return order.
func (c *Client) FetchReviewComments(ctx context.Context, owner, repo string, number int) ([]model.ReviewComment, error) {
	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	comments := make([]model.ReviewComment, 0)

	for {
		raw, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing review comments for %s/%s#%d (page %d): %w", owner, repo, number, opts.Page, err)
		}

		for _, comment := range raw {
			comments = append(comments, model.ReviewComment{
				Body:      comment.GetBody(),
				Author:    comment.GetUser().GetLogin(),
				URL:       comment.GetHTMLURL(),
				CreatedAt: comment.GetCreatedAt().Time,
				UpdatedAt: comment.GetUpdatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}

// FetchReviews retrieves all formal reviews for a pull request, in API return order.
func (c *Client) FetchReviews(ctx context.Context, owner, repo string, number int) ([]model.Review, error) {
	opts := &gh.ListOptions{PerPage: 100}
	reviews := make([]model.Review, 0)

	for {
		raw, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing reviews for %s/%s#%d (page %d): %w", owner, repo, number, opts.Page, err)
		}

		for _, r := range raw {
			reviews = append(reviews, model.Review{
				Body:        r.GetBody(),
				State:       strings.ToLower(r.GetState()),
				Author:      r.GetUser().GetLogin(),
				URL:         r.GetHTMLURL(),
				SubmittedAt: r.GetSubmittedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return reviews, nil
}

// FetchIssue resolves a single issue by number.
func (c *Client) FetchIssue(ctx context.Context, owner, repo string, number int) (*model.Issue, error) {
	issue, resp, err := c.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s/%s#%d: %w", owner, repo, number, err)
	}

	logRateLimit(resp, fmt.Sprintf("%s/%s/issue", owner, repo), 0, 1)

	return &model.Issue{
		Owner:     owner,
		Repo:      repo,
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		Author:    issue.GetUser().GetLogin(),
		URL:       issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
		ClosedAt:  optionalTime(issue.ClosedAt),
	}, nil
}

// mapPullRequest converts a go-github PullRequest to a domain model PullRequest.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
// State is reported as returned by the provider; MergedAt being non-nil is the
// signal that a closed PR was specifically merged rather than abandoned.
func mapPullRequest(pr *gh.PullRequest) *model.PullRequest {
	return &model.PullRequest{
		Number:         pr.GetNumber(),
		State:          pr.GetState(),
		Title:          pr.GetTitle(),
		Body:           pr.GetBody(),
		Author:         pr.GetUser().GetLogin(),
		URL:            pr.GetHTMLURL(),
		CreatedAt:      pr.GetCreatedAt().Time,
		UpdatedAt:      pr.GetUpdatedAt().Time,
		ClosedAt:       optionalTime(pr.ClosedAt),
		MergedAt:       optionalTime(pr.MergedAt),
		Comments:       []model.Comment{},
		ReviewComments: []model.ReviewComment{},
		Reviews:        []model.Review{},
		Issues:         []model.Issue{},
	}
}

// mapFileChange converts a go-github CommitFile to a domain model FileChange.
func mapFileChange(f *gh.CommitFile) model.FileChange {
	return model.FileChange{
		Filename:  f.GetFilename(),
		Patch:     f.GetPatch(),
		Additions: f.GetAdditions(),
		Deletions: f.GetDeletions(),
		Changes:   f.GetChanges(),
		RawURL:    f.GetRawURL(),
	}
}

// optionalTime converts GitHub's nullable timestamps to *time.Time, preserving
// the absent-vs-set distinction required by the output shape.
func optionalTime(ts *gh.Timestamp) *time.Time {
	if ts == nil || ts.Time.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
