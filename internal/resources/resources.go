// Package resources implements MCP resource handlers for sowkit.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (sow://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/catalog"
	"github.com/HendryAvila/sowkit/internal/engagement"
)

// Resource URIs.
const (
	TiersURI   = "sow://engagement/tiers"
	CatalogURI = "sow://catalog/current"
)

// CatalogSource hands out the current catalog. *catalog.Provider
// satisfies it.
type CatalogSource interface {
	Snapshot(ctx context.Context) catalog.Snapshot
}

// Handler manages sowkit resource endpoints.
type Handler struct {
	catalog CatalogSource
	opts    engagement.Options
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(catalog CatalogSource, opts engagement.Options) *Handler {
	return &Handler{catalog: catalog, opts: opts}
}

// TiersResource returns the MCP resource definition for the engagement
// configuration.
func (h *Handler) TiersResource() mcp.Resource {
	return mcp.NewResource(
		TiersURI,
		"Engagement Tiers",
		mcp.WithResourceDescription("Monthly-hours tiers, delivery horizon, section threshold, function order and default estimates"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTiers returns the engagement configuration as JSON.
func (h *Handler) HandleTiers(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, struct {
		Tiers                []engagement.Tier   `json:"tiers"`
		MaxDeliveryMonths    int                 `json:"maxDeliveryMonths"`
		ItemSectionThreshold int                 `json:"itemSectionThreshold"`
		FunctionOrder        []string            `json:"functionOrder"`
		Defaults             engagement.Defaults `json:"defaults"`
	}{
		Tiers:                h.opts.Tiers,
		MaxDeliveryMonths:    engagement.MaxDeliveryMonths,
		ItemSectionThreshold: h.opts.ItemSectionThreshold,
		FunctionOrder:        h.opts.FunctionOrder,
		Defaults:             h.opts.Defaults,
	})
}

// CatalogResource returns the MCP resource definition for the catalog
// currently used for pricing.
func (h *Handler) CatalogResource() mcp.Resource {
	return mcp.NewResource(
		CatalogURI,
		"Service Catalog",
		mcp.WithResourceDescription("The service catalog used for pricing and whether it is live or the built-in fallback"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCatalog returns the current catalog snapshot as JSON.
func (h *Handler) HandleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, h.catalog.Snapshot(ctx))
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
