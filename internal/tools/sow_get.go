package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/sow"
	"github.com/HendryAvila/sowkit/internal/templates"
)

// SOWGetTool handles the sow_get MCP tool.
type SOWGetTool struct {
	store    sow.Store
	renderer templates.Renderer
}

// NewSOWGetTool creates a SOWGetTool.
func NewSOWGetTool(store sow.Store, renderer templates.Renderer) *SOWGetTool {
	return &SOWGetTool{store: store, renderer: renderer}
}

// Definition returns the MCP tool definition for sow_get.
func (t *SOWGetTool) Definition() mcp.Tool {
	return mcp.NewTool("sow_get",
		mcp.WithDescription("Show a statement of work with its sections, line items and section ids."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("SOW id, as returned by sow_create or sow_list"),
		),
		formatOption(),
	)
}

// Handle processes the sow_get tool call.
func (t *SOWGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	format, err := formatArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	record, err := t.store.Load(id)
	if err != nil {
		if errors.Is(err, sow.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("SOW %q not found. Use sow_list to see existing ids.", id)), nil
		}
		return nil, fmt.Errorf("loading SOW: %w", err)
	}

	if format == "json" {
		return jsonResult(record)
	}
	out, err := t.renderer.Render(templates.SOW, record)
	if err != nil {
		return nil, fmt.Errorf("rendering SOW: %w", err)
	}
	return mcp.NewToolResultText(out), nil
}
