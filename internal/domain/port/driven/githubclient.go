package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/prcontext/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull request history and
// review context from the GitHub API. All methods are read-only; there is no
// write path in this system.
type GitHubClient interface {
	// ListCommitsForPath returns the commit SHAs of exactly one page of the
	// history touching path, in the order the API returns them. since/until
	// bound the commit date when non-nil.
	ListCommitsForPath(ctx context.Context, owner, repo, path string, page, perPage int, since, until *time.Time) ([]string, error)
	// ListPullRequestsWithCommit returns the PRs associated with a commit.
	// A commit may belong to zero, one, or several PRs (rebase, squash).
	ListPullRequestsWithCommit(ctx context.Context, owner, repo, sha string) ([]model.PullRequestRef, error)

	// FetchPullRequest returns PR metadata. Child collections are left empty;
	// the aggregation service fills them from the methods below.
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*model.PullRequest, error)
	// FetchPullRequestFiles returns the PR's full changed-file list.
	FetchPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]model.FileChange, error)
	FetchIssueComments(ctx context.Context, owner, repo string, number int) ([]model.Comment, error)
	FetchReviewComments(ctx context.Context, owner, repo string, number int) ([]model.ReviewComment, error)
	FetchReviews(ctx context.Context, owner, repo string, number int) ([]model.Review, error)

	// FetchIssue resolves a single issue by number. Used best-effort for
	// references extracted from PR bodies.
	FetchIssue(ctx context.Context, owner, repo string, number int) (*model.Issue, error)
}
