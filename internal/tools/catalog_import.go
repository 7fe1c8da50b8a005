package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/catalog"
)

// CatalogImportTool handles the catalog_import MCP tool.
type CatalogImportTool struct {
	store       CatalogStore
	invalidator Invalidator
}

// NewCatalogImportTool creates a CatalogImportTool. invalidator may be nil.
func NewCatalogImportTool(store CatalogStore, invalidator Invalidator) *CatalogImportTool {
	return &CatalogImportTool{store: store, invalidator: invalidator}
}

// Definition returns the MCP tool definition for catalog_import.
func (t *CatalogImportTool) Definition() mcp.Tool {
	return mcp.NewTool("catalog_import",
		mcp.WithDescription(
			"Bulk create or update services in the live catalog from a YAML or JSON document: "+
				"either a list of entries, or a mapping with an 'entries' list or a 'services' list "+
				"in the static table layout. Runs in one transaction.",
		),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("YAML or JSON catalog document"),
		),
	)
}

// Handle processes the catalog_import tool call.
func (t *CatalogImportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := req.GetString("document", "")
	if doc == "" {
		return mcp.NewToolResultError("'document' is required"), nil
	}

	entries, err := catalog.DecodeEntries([]byte(doc))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultError("document contains no usable services"), nil
	}

	res, err := t.store.Import(entries)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}
	if t.invalidator != nil {
		t.invalidator.Invalidate()
	}
	return jsonResult(res)
}
