package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prcontext/internal/domain/model"
)

// --- Fake GitHub client for DetailService tests ---

type fakeClientForDetails struct {
	prs            map[int]model.PullRequest
	files          map[int][]model.FileChange
	comments       map[int][]model.Comment
	reviewComments map[int][]model.ReviewComment
	reviews        map[int][]model.Review
	issues         map[model.IssueRef]model.Issue
	issueErrs      map[model.IssueRef]error

	prErr       error
	filesErr    error
	commentsErr error

	fetchedPRs    []int
	fetchedIssues []model.IssueRef
}

func (f *fakeClientForDetails) ListCommitsForPath(_ context.Context, _, _, _ string, _, _ int, _, _ *time.Time) ([]string, error) {
	return nil, errors.New("not used in details")
}

func (f *fakeClientForDetails) ListPullRequestsWithCommit(_ context.Context, _, _, _ string) ([]model.PullRequestRef, error) {
	return nil, errors.New("not used in details")
}

func (f *fakeClientForDetails) FetchPullRequest(_ context.Context, _, _ string, number int) (*model.PullRequest, error) {
	f.fetchedPRs = append(f.fetchedPRs, number)
	if f.prErr != nil {
		return nil, f.prErr
	}
	pr, ok := f.prs[number]
	if !ok {
		return nil, fmt.Errorf("pull request #%d not found", number)
	}
	pr.Comments = []model.Comment{}
	pr.ReviewComments = []model.ReviewComment{}
	pr.Reviews = []model.Review{}
	pr.Issues = []model.Issue{}
	return &pr, nil
}

func (f *fakeClientForDetails) FetchPullRequestFiles(_ context.Context, _, _ string, number int) ([]model.FileChange, error) {
	if f.filesErr != nil {
		return nil, f.filesErr
	}
	return f.files[number], nil
}

func (f *fakeClientForDetails) FetchIssueComments(_ context.Context, _, _ string, number int) ([]model.Comment, error) {
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	if c, ok := f.comments[number]; ok {
		return c, nil
	}
	return []model.Comment{}, nil
}

func (f *fakeClientForDetails) FetchReviewComments(_ context.Context, _, _ string, number int) ([]model.ReviewComment, error) {
	if c, ok := f.reviewComments[number]; ok {
		return c, nil
	}
	return []model.ReviewComment{}, nil
}

func (f *fakeClientForDetails) FetchReviews(_ context.Context, _, _ string, number int) ([]model.Review, error) {
	if r, ok := f.reviews[number]; ok {
		return r, nil
	}
	return []model.Review{}, nil
}

func (f *fakeClientForDetails) FetchIssue(_ context.Context, owner, repo string, number int) (*model.Issue, error) {
	ref := model.IssueRef{Owner: owner, Repo: repo, Number: number}
	f.fetchedIssues = append(f.fetchedIssues, ref)
	if err, ok := f.issueErrs[ref]; ok {
		return nil, err
	}
	issue, ok := f.issues[ref]
	if !ok {
		return nil, fmt.Errorf("issue %s/%s#%d not found", owner, repo, number)
	}
	return &issue, nil
}

// newDetailsFake seeds a fake with bare PR metadata for each given number.
func newDetailsFake(numbers ...int) *fakeClientForDetails {
	fake := &fakeClientForDetails{
		prs:            make(map[int]model.PullRequest),
		files:          make(map[int][]model.FileChange),
		comments:       make(map[int][]model.Comment),
		reviewComments: make(map[int][]model.ReviewComment),
		reviews:        make(map[int][]model.Review),
		issues:         make(map[model.IssueRef]model.Issue),
		issueErrs:      make(map[model.IssueRef]error),
	}
	for _, n := range numbers {
		fake.prs[n] = model.PullRequest{
			Number: n,
			State:  "open",
			Title:  fmt.Sprintf("PR %d", n),
		}
	}
	return fake
}

func TestGetPRDetails_BatchSplit(t *testing.T) {
	numbers := make([]int, 0, 25)
	for i := 1; i <= 25; i++ {
		numbers = append(numbers, i)
	}
	fake := newDetailsFake(numbers...)
	svc := NewDetailService(fake, 20)

	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", numbers, "")

	require.NoError(t, err)
	assert.Len(t, result.PullRequests, 20)
	assert.Equal(t, []int{21, 22, 23, 24, 25}, result.RemainingPRNumbers)
	for i, record := range result.PullRequests {
		assert.Equal(t, i+1, record.Number)
	}
}

func TestGetPRDetails_DeduplicatesInput(t *testing.T) {
	fake := newDetailsFake(5, 7)
	svc := NewDetailService(fake, 20)

	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", []int{5, 5, 7}, "")

	require.NoError(t, err)
	require.Len(t, result.PullRequests, 2)
	assert.Equal(t, 5, result.PullRequests[0].Number)
	assert.Equal(t, 7, result.PullRequests[1].Number)
	assert.Equal(t, []int{5, 7}, fake.fetchedPRs)
	assert.Empty(t, result.RemainingPRNumbers)
}

func TestGetPRDetails_FileAttachedOnExactPathMatch(t *testing.T) {
	fake := newDetailsFake(101)
	fake.files[101] = []model.FileChange{
		{Filename: "src/other.ts", Additions: 1},
		{Filename: "src/app.ts", Patch: "@@ -1 +1 @@", Additions: 3, Deletions: 1, Changes: 4},
	}
	svc := NewDetailService(fake, 20)

	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", []int{101}, "src/app.ts")

	require.NoError(t, err)
	require.Len(t, result.PullRequests, 1)
	file := result.PullRequests[0].File
	require.NotNil(t, file)
	assert.Equal(t, "src/app.ts", file.Filename)
	assert.Equal(t, 3, file.Additions)
}

func TestGetPRDetails_FileOmittedWhenPathNotTouched(t *testing.T) {
	fake := newDetailsFake(101)
	fake.files[101] = []model.FileChange{{Filename: "src/other.ts"}}
	svc := NewDetailService(fake, 20)

	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", []int{101}, "src/app.ts")

	require.NoError(t, err)
	require.Len(t, result.PullRequests, 1)
	assert.Nil(t, result.PullRequests[0].File)

	// The field must be absent from the serialized record, not null-filled.
	out, err := json.Marshal(result.PullRequests[0])
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"file"`)
}

func TestGetPRDetails_NoFileFetchWithoutPath(t *testing.T) {
	fake := newDetailsFake(101)
	fake.filesErr = errors.New("should not be called")
	svc := NewDetailService(fake, 20)

	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", []int{101}, "")

	require.NoError(t, err)
	assert.Nil(t, result.PullRequests[0].File)
}

func TestGetPRDetails_ResolvesReferencedIssuesOnce(t *testing.T) {
	fake := newDetailsFake(101)
	pr := fake.prs[101]
	pr.Body = "Fixes https://github.com/acme/widgets/issues/42 and again https://github.com/acme/widgets/issues/42"
	fake.prs[101] = pr
	fake.issues[model.IssueRef{Owner: "acme", Repo: "widgets", Number: 42}] = model.Issue{
		Owner: "acme", Repo: "widgets", Number: 42, Title: "Crash on save",
	}
	svc := NewDetailService(fake, 20)

	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", []int{101}, "")

	require.NoError(t, err)
	require.Len(t, result.PullRequests[0].Issues, 1)
	assert.Equal(t, 42, result.PullRequests[0].Issues[0].Number)
	assert.Len(t, fake.fetchedIssues, 1)
}

func TestGetPRDetails_UnresolvableIssueReferenceIsSkipped(t *testing.T) {
	fake := newDetailsFake(101)
	pr := fake.prs[101]
	pr.Body = "See https://github.com/acme/widgets/issues/1 and https://github.com/gone/repo/issues/2"
	fake.prs[101] = pr
	fake.issues[model.IssueRef{Owner: "acme", Repo: "widgets", Number: 1}] = model.Issue{
		Owner: "acme", Repo: "widgets", Number: 1, Title: "Known bug",
	}
	fake.issueErrs[model.IssueRef{Owner: "gone", Repo: "repo", Number: 2}] = errors.New("404 not found")
	svc := NewDetailService(fake, 20)

	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", []int{101}, "")

	require.NoError(t, err)
	require.Len(t, result.PullRequests[0].Issues, 1)
	assert.Equal(t, 1, result.PullRequests[0].Issues[0].Number)
}

func TestGetPRDetails_ChildCollectionsPreserveOrder(t *testing.T) {
	fake := newDetailsFake(101)
	now := time.Now().Truncate(time.Second)
	fake.comments[101] = []model.Comment{
		{Body: "second thoughts", Author: "bob", CreatedAt: now},
		{Body: "first!", Author: "alice", CreatedAt: now.Add(-time.Hour)},
	}
	fake.reviews[101] = []model.Review{
		{State: "changes_requested", Author: "carol", SubmittedAt: now.Add(-2 * time.Hour)},
		{State: "approved", Author: "carol", SubmittedAt: now},
	}
	svc := NewDetailService(fake, 20)

	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", []int{101}, "")

	require.NoError(t, err)
	record := result.PullRequests[0]
	// API return order is preserved, no re-sorting.
	assert.Equal(t, "second thoughts", record.Comments[0].Body)
	assert.Equal(t, "changes_requested", record.Reviews[0].State)
}

func TestGetPRDetails_OneFailureFailsTheBatch(t *testing.T) {
	fake := newDetailsFake(1, 3)
	svc := NewDetailService(fake, 20)

	// PR 2 is unknown to the fake, so its metadata fetch fails.
	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", []int{1, 2, 3}, "")

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestGetPRDetails_FatalCommentFailure(t *testing.T) {
	fake := newDetailsFake(101)
	fake.commentsErr = errors.New("forbidden")
	svc := NewDetailService(fake, 20)

	result, err := svc.GetPRDetails(context.Background(), "acme", "widgets", []int{101}, "")

	assert.Error(t, err)
	assert.Nil(t, result)
}
