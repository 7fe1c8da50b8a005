package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/engagement"
	"github.com/HendryAvila/sowkit/internal/sow"
	"github.com/HendryAvila/sowkit/internal/templates"
)

// SOWEditSectionTool handles the sow_edit_section MCP tool.
type SOWEditSectionTool struct {
	store    sow.Store
	opts     engagement.Options
	renderer templates.Renderer
}

// NewSOWEditSectionTool creates a SOWEditSectionTool.
func NewSOWEditSectionTool(store sow.Store, opts engagement.Options, renderer templates.Renderer) *SOWEditSectionTool {
	return &SOWEditSectionTool{store: store, opts: opts, renderer: renderer}
}

// Definition returns the MCP tool definition for sow_edit_section.
func (t *SOWEditSectionTool) Definition() mcp.Tool {
	return mcp.NewTool("sow_edit_section",
		mcp.WithDescription(
			"Reorder or remove a section of a draft SOW. Removing a section recomputes the totals "+
				"and the recommended tier. Only drafts can be edited; reopen a SOW under review first.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("SOW id"),
		),
		mcp.WithString("section_id",
			mcp.Required(),
			mcp.Description("Section id, as shown by sow_get"),
		),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("move or remove"),
			mcp.Enum("move", "remove"),
		),
		mcp.WithNumber("position",
			mcp.Description("New 1-based position (required for move)"),
		),
	)
}

// Handle processes the sow_edit_section tool call.
func (t *SOWEditSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	sectionID := req.GetString("section_id", "")
	if id == "" || sectionID == "" {
		return mcp.NewToolResultError("'id' and 'section_id' are required"), nil
	}

	record, err := t.store.Load(id)
	if err != nil {
		if errors.Is(err, sow.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("SOW %q not found", id)), nil
		}
		return nil, fmt.Errorf("loading SOW: %w", err)
	}

	switch op := strings.ToLower(strings.TrimSpace(req.GetString("operation", ""))); op {
	case "move":
		position := intArg(req, "position", 0)
		if position < 1 {
			return mcp.NewToolResultError("'position' must be 1 or greater for move"), nil
		}
		err = sow.MoveSection(record, sectionID, position-1)
	case "remove":
		if err = sow.RemoveSection(record, sectionID); err == nil {
			sow.Resummarize(record, t.opts.Tiers)
		}
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid operation %q: must be move or remove", op)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.store.Save(record); err != nil {
		return nil, fmt.Errorf("saving SOW: %w", err)
	}

	out, err := t.renderer.Render(templates.SOW, record)
	if err != nil {
		return nil, fmt.Errorf("rendering SOW: %w", err)
	}
	return mcp.NewToolResultText(out), nil
}
