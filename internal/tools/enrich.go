package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/engagement"
)

// EnrichTool handles the sow_enrich MCP tool.
type EnrichTool struct {
	catalog CatalogSource
	opts    engagement.Options
}

// NewEnrichTool creates an EnrichTool.
func NewEnrichTool(catalog CatalogSource, opts engagement.Options) *EnrichTool {
	return &EnrichTool{catalog: catalog, opts: opts}
}

// Definition returns the MCP tool definition for sow_enrich.
func (t *EnrichTool) Definition() mcp.Tool {
	return mcp.NewTool("sow_enrich",
		mcp.WithDescription(
			"Attach effort hours and an hourly rate to diagnostic items from the service catalog. "+
				"Items linked by serviceId/serviceType use that service; others are matched by name "+
				"within their function; anything unmatched gets the default estimates.",
		),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description(itemsDescription),
		),
		mcp.WithBoolean("priority_only",
			mcp.Description("Enrich only the priority items (default: false, enrich everything given)"),
		),
	)
}

// Handle processes the sow_enrich tool call.
func (t *EnrichTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := itemsArg(req, "items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if boolArg(req, "priority_only", false) {
		items = engagement.SelectPriorityItems(items)
	}

	snap := t.catalog.Snapshot(ctx)
	enriched := engagement.EnrichWithCatalog(items, snap.Entries, t.opts.Defaults)
	return jsonResult(struct {
		CatalogOrigin string                    `json:"catalogOrigin"`
		Items         []engagement.EnrichedItem `json:"items"`
	}{string(snap.Origin), enriched})
}
