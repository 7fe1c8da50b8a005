package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/engagement"
	"github.com/HendryAvila/sowkit/internal/templates"
)

// PreviewTool handles the sow_preview MCP tool: the full recommendation
// for one diagnostic run.
type PreviewTool struct {
	catalog  CatalogSource
	opts     engagement.Options
	renderer templates.Renderer
}

// NewPreviewTool creates a PreviewTool.
func NewPreviewTool(catalog CatalogSource, opts engagement.Options, renderer templates.Renderer) *PreviewTool {
	return &PreviewTool{catalog: catalog, opts: opts, renderer: renderer}
}

// Definition returns the MCP tool definition for sow_preview.
func (t *PreviewTool) Definition() mcp.Tool {
	return mcp.NewTool("sow_preview",
		mcp.WithDescription(
			"Compute the engagement preview for a diagnostic run: priority items, effort and "+
				"investment ranges, proposal sections and the recommended monthly-hours tier. "+
				"Read-only; call sow_create to save the result as a statement of work.",
		),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description(itemsDescription),
		),
		formatOption(),
	)
}

// Handle processes the sow_preview tool call.
func (t *PreviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := itemsArg(req, "items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := formatArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap := t.catalog.Snapshot(ctx)
	result := engagement.ComputePreview(items, snap.Entries, t.opts)

	if format == "json" {
		return jsonResult(struct {
			engagement.PreviewResult
			CatalogOrigin string `json:"catalogOrigin"`
		}{result, string(snap.Origin)})
	}

	out, err := t.renderer.Render(templates.Preview, result)
	if err != nil {
		return nil, fmt.Errorf("rendering preview: %w", err)
	}
	out += fmt.Sprintf("\n\n_Priced against the %s catalog (%d services)._\n", snap.Origin, len(snap.Entries))
	return mcp.NewToolResultText(out), nil
}
