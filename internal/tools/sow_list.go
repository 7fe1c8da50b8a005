package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/sow"
	"github.com/HendryAvila/sowkit/internal/templates"
)

// SOWListTool handles the sow_list MCP tool.
type SOWListTool struct {
	store    sow.Store
	renderer templates.Renderer
}

// NewSOWListTool creates a SOWListTool.
func NewSOWListTool(store sow.Store, renderer templates.Renderer) *SOWListTool {
	return &SOWListTool{store: store, renderer: renderer}
}

// Definition returns the MCP tool definition for sow_list.
func (t *SOWListTool) Definition() mcp.Tool {
	return mcp.NewTool("sow_list",
		mcp.WithDescription("List statements of work, newest first."),
		mcp.WithString("customer",
			mcp.Description("Only this customer (case-insensitive)"),
		),
		mcp.WithString("status",
			mcp.Description("Only this status"),
			mcp.Enum("draft", "review", "approved", "archived"),
		),
		formatOption(),
	)
}

// Handle processes the sow_list tool call.
func (t *SOWListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := sow.ListFilter{
		Customer: req.GetString("customer", ""),
		Status:   sow.Status(req.GetString("status", "")),
	}
	if filter.Status != "" {
		if err := sow.ValidateStatus(filter.Status); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	format, err := formatArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, err := t.store.List(filter)
	if err != nil {
		return nil, fmt.Errorf("listing SOWs: %w", err)
	}

	if format == "json" {
		return jsonResult(records)
	}
	out, err := t.renderer.Render(templates.SOWList, records)
	if err != nil {
		return nil, fmt.Errorf("rendering SOW list: %w", err)
	}
	return mcp.NewToolResultText(out), nil
}
