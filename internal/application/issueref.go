// Package application contains the core services driving PR history discovery
// and detail aggregation. Services depend only on port interfaces.
package application

import (
	"regexp"
	"strconv"

	"github.com/ericfisherdev/prcontext/internal/domain/model"
)

// issueURLPattern matches full issue URLs like
// https://github.com/owner/repo/issues/123 inside free text.
var issueURLPattern = regexp.MustCompile(`https://github\.com/([^/\s]+)/([^/\s]+)/issues/(\d+)`)

// extractIssueRefs scans body text for issue URLs and returns the referenced
// issues in first-seen order, deduplicated by (owner, repo, number). An empty
// body yields an empty result. Pure text processing, no I/O.
func extractIssueRefs(body string) []model.IssueRef {
	refs := make([]model.IssueRef, 0)
	seen := make(map[model.IssueRef]bool)

	for _, match := range issueURLPattern.FindAllStringSubmatch(body, -1) {
		number, err := strconv.Atoi(match[3])
		if err != nil || number <= 0 {
			continue
		}

		ref := model.IssueRef{Owner: match[1], Repo: match[2], Number: number}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}

	return refs
}
