package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/sow"
)

// SOWTransitionTool handles the sow_transition MCP tool.
type SOWTransitionTool struct {
	store sow.Store
}

// NewSOWTransitionTool creates a SOWTransitionTool.
func NewSOWTransitionTool(store sow.Store) *SOWTransitionTool {
	return &SOWTransitionTool{store: store}
}

// Definition returns the MCP tool definition for sow_transition.
func (t *SOWTransitionTool) Definition() mcp.Tool {
	return mcp.NewTool("sow_transition",
		mcp.WithDescription(
			"Move a statement of work through review: submit (draft → review), approve "+
				"(review → approved), reopen (review → draft) or archive (from any active state).",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("SOW id"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("Workflow step"),
			mcp.Enum("submit", "approve", "reopen", "archive"),
		),
	)
}

// Handle processes the sow_transition tool call.
func (t *SOWTransitionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	action, err := sow.ParseAction(req.GetString("action", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := t.store.Load(id)
	if err != nil {
		if errors.Is(err, sow.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("SOW %q not found", id)), nil
		}
		return nil, fmt.Errorf("loading SOW: %w", err)
	}

	from := record.Status
	if err := sow.Apply(record, action); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.store.Save(record); err != nil {
		return nil, fmt.Errorf("saving SOW: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("SOW `%s`: %s → %s", record.ID, from, record.Status)), nil
}
