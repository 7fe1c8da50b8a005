package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/catalog"
)

// CatalogListTool handles the catalog_list MCP tool. It lists whatever
// catalog the engine is currently pricing against, live or fallback.
type CatalogListTool struct {
	catalog CatalogSource
}

// NewCatalogListTool creates a CatalogListTool.
func NewCatalogListTool(catalog CatalogSource) *CatalogListTool {
	return &CatalogListTool{catalog: catalog}
}

// Definition returns the MCP tool definition for catalog_list.
func (t *CatalogListTool) Definition() mcp.Tool {
	return mcp.NewTool("catalog_list",
		mcp.WithDescription(
			"List the service catalog used for pricing. Reports whether it is the live catalog "+
				"or the built-in fallback.",
		),
		mcp.WithString("function",
			mcp.Description("Only list services whose primary function matches (case-insensitive)"),
		),
	)
}

// Handle processes the catalog_list tool call.
func (t *CatalogListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	function := strings.TrimSpace(req.GetString("function", ""))

	snap := t.catalog.Snapshot(ctx)
	entries := snap.Entries
	if function != "" {
		entries = make([]catalog.Entry, 0, len(snap.Entries))
		for _, e := range snap.Entries {
			if strings.EqualFold(e.PrimaryFunction, function) {
				entries = append(entries, e)
			}
		}
	}

	return jsonResult(struct {
		Origin  catalog.Origin  `json:"origin"`
		Count   int             `json:"count"`
		Entries []catalog.Entry `json:"entries"`
	}{snap.Origin, len(entries), entries})
}
