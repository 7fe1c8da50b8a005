package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/catalog"
)

// CatalogUpsertTool handles the catalog_upsert MCP tool.
type CatalogUpsertTool struct {
	store       CatalogStore
	invalidator Invalidator
}

// NewCatalogUpsertTool creates a CatalogUpsertTool. invalidator may be nil.
func NewCatalogUpsertTool(store CatalogStore, invalidator Invalidator) *CatalogUpsertTool {
	return &CatalogUpsertTool{store: store, invalidator: invalidator}
}

// Definition returns the MCP tool definition for catalog_upsert.
func (t *CatalogUpsertTool) Definition() mcp.Tool {
	return mcp.NewTool("catalog_upsert",
		mcp.WithDescription(
			"Create or update a service in the live catalog. The id defaults to a slug of the name. "+
				"Numbers may be given as numbers or text (\"$1,200\"); missing or unusable numbers "+
				"are priced with the defaults.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Service name, e.g. 'Attribution Audit'"),
		),
		mcp.WithString("id",
			mcp.Description("Stable service id; defaults to a slug of the name"),
		),
		mcp.WithString("slug",
			mcp.Description("Alternate link key items may reference"),
		),
		mcp.WithString("primary_function",
			mcp.Description("GTM function: Marketing, Sales, Customer Success, RevOps, Finance, ..."),
		),
		mcp.WithString("description",
			mcp.Description("What the service delivers"),
		),
		mcp.WithNumber("hours_low",
			mcp.Description("Low effort estimate in hours"),
		),
		mcp.WithNumber("hours_high",
			mcp.Description("High effort estimate in hours"),
		),
		mcp.WithNumber("default_rate",
			mcp.Description("Hourly rate in dollars"),
		),
	)
}

// Handle processes the catalog_upsert tool call.
func (t *CatalogUpsertTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	e := catalog.Entry{
		ID:              req.GetString("id", ""),
		Slug:            req.GetString("slug", ""),
		Name:            name,
		Description:     req.GetString("description", ""),
		PrimaryFunction: req.GetString("primary_function", ""),
		HoursLow:        numberArg(req, "hours_low"),
		HoursHigh:       numberArg(req, "hours_high"),
		DefaultRate:     numberArg(req, "default_rate"),
	}

	id, err := t.store.Upsert(e)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("upsert failed: %v", err)), nil
	}
	if t.invalidator != nil {
		t.invalidator.Invalidate()
	}

	saved, err := t.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading back %q: %v", id, err)), nil
	}
	return jsonResult(saved)
}
