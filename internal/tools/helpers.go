// Package tools implements the MCP tool handlers for sowkit.
//
// Each tool is a struct holding its dependencies, with Definition()
// returning the mcp.Tool schema and Handle() processing a call.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on small interfaces (catalog snapshots, sow.Store,
//   templates.Renderer), not on concrete stores
// - Failures a caller can fix are returned as tool errors, never Go errors
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/catalog"
	"github.com/HendryAvila/sowkit/internal/diagnostic"
)

// --- Dependencies ---

// CatalogSource hands out the current catalog. *catalog.Provider
// satisfies it.
type CatalogSource interface {
	Snapshot(ctx context.Context) catalog.Snapshot
}

// CatalogStore is the live catalog. *catalog.Store satisfies it.
type CatalogStore interface {
	Get(id string) (*catalog.Entry, error)
	Search(query string, limit int) ([]catalog.Entry, error)
	Upsert(e catalog.Entry) (string, error)
	Import(entries []catalog.Entry) (*catalog.ImportResult, error)
}

// Invalidator drops cached catalog snapshots after a write.
type Invalidator interface {
	Invalidate()
}

// --- Argument helpers ---

const itemsDescription = "Diagnostic items as a JSON array of objects with name, function, " +
	"status (healthy|careful|warning|unable), addToEngagement, and optional outcome, serviceId, serviceType"

// itemsArg decodes the JSON array passed under key.
func itemsArg(req mcp.CallToolRequest, key string) ([]diagnostic.Item, error) {
	raw := strings.TrimSpace(req.GetString(key, ""))
	if raw == "" {
		return nil, fmt.Errorf("'%s' is required", key)
	}
	items, err := diagnostic.Decode(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", key, err)
	}
	return items, nil
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// numberArg reads a catalog number that may arrive as a JSON number or
// as text such as "$1,200".
func numberArg(req mcp.CallToolRequest, key string) catalog.Number {
	switch v := req.GetArguments()[key].(type) {
	case float64:
		return catalog.NumberOf(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return catalog.Number{}
		}
		return catalog.ParseNumber(v)
	default:
		return catalog.Number{}
	}
}

// formatArg returns "json" or "markdown" (the default).
func formatArg(req mcp.CallToolRequest) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(req.GetString("format", "markdown"))); f {
	case "markdown", "md", "":
		return "markdown", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("invalid format %q: must be markdown or json", f)
	}
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func formatOption() mcp.ToolOption {
	return mcp.WithString("format",
		mcp.Description("Output format: markdown (default) or json"),
		mcp.Enum("markdown", "json"),
	)
}
