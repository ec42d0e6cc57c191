// Package mcp exposes the discovery and detail services as Model Context
// Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ericfisherdev/prcontext/internal/application"
)

// Handler wires the application services into MCP tool handlers.
type Handler struct {
	discovery *application.DiscoveryService
	details   *application.DetailService
}

// NewHandler creates a Handler backed by the given services.
func NewHandler(discovery *application.DiscoveryService, details *application.DetailService) *Handler {
	return &Handler{
		discovery: discovery,
		details:   details,
	}
}

// ListPRsForFileTool returns the list_prs_for_file tool definition and handler.
// The tool walks one page of a file's commit history and reports the PR numbers
// that touched the file on that page, for the caller to accumulate across pages.
func (h *Handler) ListPRsForFileTool() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.NewTool("list_prs_for_file",
			mcp.WithDescription(`List the pull request numbers that touched a file, one commit-history page per call. Returns identifiers only; feed them to get_pr_details for full review context. Call again with page+1 while has_more is true and accumulate the numbers yourself - no state is kept between calls.`),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "List PRs that touched a file",
				ReadOnlyHint: mcp.ToBoolPtr(true),
			}),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Repository owner"),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("File path within the repository"),
			),
			mcp.WithNumber("page",
				mcp.Description("1-based commit history page"),
				mcp.DefaultNumber(1),
			),
			mcp.WithString("since",
				mcp.Description("Only consider commits after this ISO-8601 timestamp"),
			),
			mcp.WithString("until",
				mcp.Description("Only consider commits before this ISO-8601 timestamp"),
			),
			mcp.WithBoolean("ignore_dependabot",
				mcp.Description("Exclude PRs authored by dependabot"),
				mcp.DefaultBool(true),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			owner, err := requiredParam[string](request, "owner")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("list_prs_for_file: %s", err)), nil
			}
			repo, err := requiredParam[string](request, "repo")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("list_prs_for_file: %s", err)), nil
			}
			path, err := requiredParam[string](request, "path")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("list_prs_for_file: %s", err)), nil
			}
			page, err := optionalIntParam(request, "page", 1)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("list_prs_for_file: %s", err)), nil
			}
			if page < 1 {
				return mcp.NewToolResultError("list_prs_for_file: page must be at least 1"), nil
			}
			since, err := optionalTimeParam(request, "since")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("list_prs_for_file: %s", err)), nil
			}
			until, err := optionalTimeParam(request, "until")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("list_prs_for_file: %s", err)), nil
			}
			ignoreDependabot, err := optionalBoolParam(request, "ignore_dependabot", true)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("list_prs_for_file: %s", err)), nil
			}

			result, err := h.discovery.ListPRsForFile(ctx, owner, repo, path, page, since, until, ignoreDependabot)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("list_prs_for_file: %s", err)), nil
			}

			return marshalResult("list_prs_for_file", result)
		}
}

// GetPRDetailsTool returns the get_pr_details tool definition and handler.
// At most the configured batch size of PR numbers is detailed per call; the
// rest come back in remaining_pr_numbers for a follow-up call with the same
// owner, repo, and path.
func (h *Handler) GetPRDetailsTool() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.NewTool("get_pr_details",
			mcp.WithDescription(`Fetch the full review context for pull requests: metadata, discussion comments, inline review comments, formal reviews, and issues referenced from the PR body. If path is given, each record also carries that file's diff entry when the PR touched it. Resubmit remaining_pr_numbers until it comes back empty.`),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        "Get PR review context",
				ReadOnlyHint: mcp.ToBoolPtr(true),
			}),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Repository owner"),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name"),
			),
			mcp.WithArray("pr_numbers",
				mcp.Required(),
				mcp.Description("Pull request numbers to detail"),
				mcp.Items(map[string]any{"type": "number"}),
			),
			mcp.WithString("path",
				mcp.Description("File path whose diff entry should be attached to each record"),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			owner, err := requiredParam[string](request, "owner")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("get_pr_details: %s", err)), nil
			}
			repo, err := requiredParam[string](request, "repo")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("get_pr_details: %s", err)), nil
			}
			numbers, err := requiredIntSliceParam(request, "pr_numbers")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("get_pr_details: %s", err)), nil
			}
			path, _, err := optionalParam[string](request, "path")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("get_pr_details: %s", err)), nil
			}

			result, err := h.details.GetPRDetails(ctx, owner, repo, numbers, path)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("get_pr_details: %s", err)), nil
			}

			return marshalResult("get_pr_details", result)
		}
}

// optionalTimeParam extracts an optional ISO-8601 timestamp argument.
func optionalTimeParam(request mcp.CallToolRequest, name string) (*time.Time, error) {
	raw, present, err := optionalParam[string](request, name)
	if err != nil {
		return nil, err
	}
	if !present || raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("parameter %s is not a valid ISO-8601 timestamp: %s", name, raw)
	}
	return &parsed, nil
}

// marshalResult serializes a tool result to JSON text.
func marshalResult(tool string, result any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: marshaling result: %s", tool, err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
