package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/diagnostic"
	"github.com/HendryAvila/sowkit/internal/engagement"
)

// GroupItemsTool handles the sow_group_items MCP tool.
type GroupItemsTool struct{}

// NewGroupItemsTool creates a GroupItemsTool.
func NewGroupItemsTool() *GroupItemsTool {
	return &GroupItemsTool{}
}

// Definition returns the MCP tool definition for sow_group_items.
func (t *GroupItemsTool) Definition() mcp.Tool {
	return mcp.NewTool("sow_group_items",
		mcp.WithDescription(
			"Group diagnostic items by function or by status. Groups appear in the order their "+
				"key is first seen; items without a function land in \"Other\".",
		),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description(itemsDescription),
		),
		mcp.WithString("by",
			mcp.Description("Grouping key: function (default) or status"),
			mcp.Enum("function", "status"),
		),
	)
}

// Handle processes the sow_group_items tool call.
func (t *GroupItemsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := itemsArg(req, "items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var key func(diagnostic.Item) string
	switch by := strings.ToLower(strings.TrimSpace(req.GetString("by", "function"))); by {
	case "function", "":
		key = engagement.ByFunction
	case "status":
		key = engagement.ByStatus
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'by' value %q: must be function or status", by)), nil
	}

	return jsonResult(engagement.GroupItems(items, key))
}
