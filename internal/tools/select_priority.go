package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/diagnostic"
	"github.com/HendryAvila/sowkit/internal/engagement"
)

// SelectPriorityTool handles the sow_select_priority MCP tool.
type SelectPriorityTool struct{}

// NewSelectPriorityTool creates a SelectPriorityTool.
func NewSelectPriorityTool() *SelectPriorityTool {
	return &SelectPriorityTool{}
}

// Definition returns the MCP tool definition for sow_select_priority.
func (t *SelectPriorityTool) Definition() mcp.Tool {
	return mcp.NewTool("sow_select_priority",
		mcp.WithDescription(
			"Return the diagnostic items that belong in an engagement: every item whose status "+
				"is warning or unable, plus any item flagged addToEngagement. Order is preserved.",
		),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description(itemsDescription),
		),
	)
}

// Handle processes the sow_select_priority tool call.
func (t *SelectPriorityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := itemsArg(req, "items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	selected := engagement.SelectPriorityItems(items)
	return jsonResult(struct {
		Total    int               `json:"total"`
		Selected int               `json:"selected"`
		Items    []diagnostic.Item `json:"items"`
	}{len(items), len(selected), selected})
}
