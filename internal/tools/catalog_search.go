package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CatalogSearchTool handles the catalog_search MCP tool.
type CatalogSearchTool struct {
	store CatalogStore
}

// NewCatalogSearchTool creates a CatalogSearchTool.
func NewCatalogSearchTool(store CatalogStore) *CatalogSearchTool {
	return &CatalogSearchTool{store: store}
}

// Definition returns the MCP tool definition for catalog_search.
func (t *CatalogSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("catalog_search",
		mcp.WithDescription(
			"Full-text search of the live service catalog by name, description or function. "+
				"Use it to find a serviceId to link a diagnostic item to.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keywords"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10)"),
		),
	)
}

// Handle processes the catalog_search tool call.
func (t *CatalogSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}
	limit := intArg(req, "limit", 10)

	results, err := t.store.Search(query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No services found matching your query."), nil
	}
	return jsonResult(results)
}
