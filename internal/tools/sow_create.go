package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/diagnostic"
	"github.com/HendryAvila/sowkit/internal/engagement"
	"github.com/HendryAvila/sowkit/internal/sow"
	"github.com/HendryAvila/sowkit/internal/templates"
)

// SOWCreateTool handles the sow_create MCP tool: it computes a preview
// and saves it as a draft statement of work.
type SOWCreateTool struct {
	store    sow.Store
	catalog  CatalogSource
	opts     engagement.Options
	renderer templates.Renderer
}

// NewSOWCreateTool creates a SOWCreateTool.
func NewSOWCreateTool(store sow.Store, catalog CatalogSource, opts engagement.Options, renderer templates.Renderer) *SOWCreateTool {
	return &SOWCreateTool{store: store, catalog: catalog, opts: opts, renderer: renderer}
}

// Definition returns the MCP tool definition for sow_create.
func (t *SOWCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("sow_create",
		mcp.WithDescription(
			"Create a draft statement of work for a customer from a diagnostic run. The preview is "+
				"computed and frozen into the record; later catalog changes do not alter it.",
		),
		mcp.WithString("customer",
			mcp.Required(),
			mcp.Description("Customer name"),
		),
		mcp.WithString("title",
			mcp.Description("SOW title (default: '<customer> engagement')"),
		),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description(itemsDescription),
		),
	)
}

// Handle processes the sow_create tool call.
func (t *SOWCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	customer := req.GetString("customer", "")
	if customer == "" {
		return mcp.NewToolResultError("'customer' is required"), nil
	}
	items, err := itemsArg(req, "items")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := diagnostic.Validate(items); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	preview, plans := engagement.Plan(items, t.catalog.Snapshot(ctx).Entries, t.opts)
	record, err := sow.NewRecord(customer, req.GetString("title", ""), preview, plans)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.store.Create(record); err != nil {
		return nil, fmt.Errorf("saving SOW: %w", err)
	}

	out, err := t.renderer.Render(templates.SOW, record)
	if err != nil {
		return nil, fmt.Errorf("rendering SOW: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created draft SOW `%s`.\n\n%s", record.ID, out)), nil
}
