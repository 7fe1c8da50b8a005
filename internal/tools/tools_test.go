package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/sowkit/internal/catalog"
	"github.com/HendryAvila/sowkit/internal/engagement"
	"github.com/HendryAvila/sowkit/internal/sow"
	"github.com/HendryAvila/sowkit/internal/templates"
)

// --- Test helpers ---

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// call runs a handler and fails the test on a Go error.
func call(t *testing.T, handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	res, err := handle(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("handler returned Go error: %v", err)
	}
	if res == nil {
		t.Fatal("handler returned nil result")
	}
	return res
}

func mustOK(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}
	return resultText(res)
}

func mustError(t *testing.T, res *mcp.CallToolResult, contains string) {
	t.Helper()
	if !res.IsError {
		t.Fatalf("expected tool error, got: %s", resultText(res))
	}
	if contains != "" && !strings.Contains(resultText(res), contains) {
		t.Errorf("error %q does not mention %q", resultText(res), contains)
	}
}

func decodeJSON(t *testing.T, text string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("result is not valid JSON: %v\n%s", err, text)
	}
}

// staticCatalog is a CatalogSource over a fixed entry list.
type staticCatalog struct {
	entries []catalog.Entry
	origin  catalog.Origin
}

func (c staticCatalog) Snapshot(ctx context.Context) catalog.Snapshot {
	return catalog.Snapshot{Entries: c.entries, Origin: c.origin}
}

func testCatalog() staticCatalog {
	return staticCatalog{
		origin: catalog.OriginStatic,
		entries: []catalog.Entry{
			{
				ID: "attribution-audit", Name: "Attribution Audit", PrimaryFunction: "Marketing",
				HoursLow: catalog.NumberOf(20), HoursHigh: catalog.NumberOf(40), DefaultRate: catalog.NumberOf(180),
			},
			{
				ID: "lead-routing", Name: "Lead Routing Rebuild", PrimaryFunction: "Sales",
				HoursLow: catalog.NumberOf(15), HoursHigh: catalog.NumberOf(30), DefaultRate: catalog.NumberOf(220),
			},
		},
	}
}

func newRenderer(t *testing.T) *templates.EmbedRenderer {
	t.Helper()
	r, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func newCatalogStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.New(catalog.Config{
		Path:             filepath.Join(t.TempDir(), "catalog.db"),
		MaxSearchResults: 20,
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

const threeItems = `[
	{"name": "Attribution", "function": "Marketing", "status": "warning"},
	{"name": "Lead Routing", "function": "Sales", "status": "unable", "serviceId": "lead-routing"},
	{"name": "Forecasting", "function": "Finance", "status": "healthy"},
	{"name": "Renewals", "function": "Customer Success", "status": "careful", "addToEngagement": true}
]`

// --- Definitions ---

func TestDefinitions(t *testing.T) {
	cat := testCatalog()
	opts := engagement.DefaultOptions()
	r := newRenderer(t)
	store := sow.NewFileStore(t.TempDir())

	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewPreviewTool(cat, opts, r).Definition(), "sow_preview", []string{"items"}},
		{NewSelectPriorityTool().Definition(), "sow_select_priority", []string{"items"}},
		{NewEnrichTool(cat, opts).Definition(), "sow_enrich", []string{"items"}},
		{NewGroupItemsTool().Definition(), "sow_group_items", []string{"items"}},
		{NewCatalogListTool(cat).Definition(), "catalog_list", nil},
		{NewCatalogSearchTool(nil).Definition(), "catalog_search", []string{"query"}},
		{NewCatalogUpsertTool(nil, nil).Definition(), "catalog_upsert", []string{"name"}},
		{NewCatalogImportTool(nil, nil).Definition(), "catalog_import", []string{"document"}},
		{NewSOWCreateTool(store, cat, opts, r).Definition(), "sow_create", []string{"customer", "items"}},
		{NewSOWGetTool(store, r).Definition(), "sow_get", []string{"id"}},
		{NewSOWListTool(store, r).Definition(), "sow_list", nil},
		{NewSOWTransitionTool(store).Definition(), "sow_transition", []string{"id", "action"}},
		{NewSOWEditSectionTool(store, opts, r).Definition(), "sow_edit_section", []string{"id", "section_id", "operation"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.def.Name != tt.name {
				t.Errorf("Name = %q, want %q", tt.def.Name, tt.name)
			}
			if tt.def.Description == "" {
				t.Error("missing description")
			}
			for _, req := range tt.required {
				if _, ok := tt.def.InputSchema.Properties[req]; !ok {
					t.Errorf("missing %q parameter", req)
				}
				found := false
				for _, r := range tt.def.InputSchema.Required {
					if r == req {
						found = true
					}
				}
				if !found {
					t.Errorf("%q should be required", req)
				}
			}
		})
	}
}

// --- sow_preview ---

func TestPreviewTool_Markdown(t *testing.T) {
	tool := NewPreviewTool(testCatalog(), engagement.DefaultOptions(), newRenderer(t))

	text := mustOK(t, call(t, tool.Handle, map[string]interface{}{"items": threeItems}))

	for _, want := range []string{
		"# Engagement Preview",
		"| Priority items | 3 |",
		"| Lead Routing | Sales | unable | 15–30 hrs | $220 | service_id (lead-routing) |",
		"| Attribution | Marketing | warning | 20–40 hrs | $180 | name (attribution-audit) |",
		"static catalog (2 services)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q\n%s", want, text)
		}
	}
}

func TestPreviewTool_JSON(t *testing.T) {
	tool := NewPreviewTool(testCatalog(), engagement.DefaultOptions(), newRenderer(t))

	text := mustOK(t, call(t, tool.Handle, map[string]interface{}{"items": threeItems, "format": "json"}))

	var got struct {
		ItemCount       int             `json:"itemCount"`
		TotalHoursLow   float64         `json:"totalHoursLow"`
		TotalHoursHigh  float64         `json:"totalHoursHigh"`
		RecommendedTier engagement.Tier `json:"recommendedTier"`
		CatalogOrigin   string          `json:"catalogOrigin"`
	}
	decodeJSON(t, text, &got)

	if got.ItemCount != 3 {
		t.Errorf("itemCount = %d, want 3", got.ItemCount)
	}
	// 20-40 + 15-30 + defaults 30-60
	if got.TotalHoursLow != 65 || got.TotalHoursHigh != 130 {
		t.Errorf("hours = %v-%v, want 65-130", got.TotalHoursLow, got.TotalHoursHigh)
	}
	if got.RecommendedTier.ID != "foundation" || got.CatalogOrigin != "static" {
		t.Errorf("tier/origin = %q/%q", got.RecommendedTier.ID, got.CatalogOrigin)
	}
}

func TestPreviewTool_Errors(t *testing.T) {
	tool := NewPreviewTool(testCatalog(), engagement.DefaultOptions(), newRenderer(t))

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing items", map[string]interface{}{}, "'items' is required"},
		{"bad json", map[string]interface{}{"items": "[{"}, "items"},
		{"not an array", map[string]interface{}{"items": `{"name":"x"}`}, "JSON array"},
		{"bad format", map[string]interface{}{"items": "[]", "format": "pdf"}, "invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustError(t, call(t, tool.Handle, tt.args), tt.want)
		})
	}
}

// --- sow_select_priority / sow_enrich / sow_group_items ---

func TestSelectPriorityTool(t *testing.T) {
	text := mustOK(t, call(t, NewSelectPriorityTool().Handle, map[string]interface{}{"items": threeItems}))

	var got struct {
		Total    int `json:"total"`
		Selected int `json:"selected"`
		Items    []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	decodeJSON(t, text, &got)

	if got.Total != 4 || got.Selected != 3 {
		t.Errorf("total/selected = %d/%d, want 4/3", got.Total, got.Selected)
	}
	if got.Items[2].Name != "Renewals" {
		t.Errorf("third item = %q, want Renewals", got.Items[2].Name)
	}
}

func TestEnrichTool(t *testing.T) {
	tool := NewEnrichTool(testCatalog(), engagement.DefaultOptions())

	type result struct {
		CatalogOrigin string `json:"catalogOrigin"`
		Items         []struct {
			Name      string  `json:"name"`
			HoursLow  float64 `json:"hoursLow"`
			Rate      float64 `json:"rate"`
			MatchedID string  `json:"matchedServiceId"`
			Match     string  `json:"match"`
		} `json:"items"`
	}

	var all result
	decodeJSON(t, mustOK(t, call(t, tool.Handle, map[string]interface{}{"items": threeItems})), &all)
	if len(all.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(all.Items))
	}
	if all.Items[1].MatchedID != "lead-routing" || all.Items[1].Match != "service_id" || all.Items[1].Rate != 220 {
		t.Errorf("Lead Routing = %+v", all.Items[1])
	}
	if all.Items[2].Match != "default" || all.Items[2].HoursLow != 30 {
		t.Errorf("Forecasting = %+v", all.Items[2])
	}

	var priority result
	decodeJSON(t, mustOK(t, call(t, tool.Handle, map[string]interface{}{
		"items": threeItems, "priority_only": true,
	})), &priority)
	if len(priority.Items) != 3 {
		t.Errorf("priority items = %d, want 3", len(priority.Items))
	}
}

func TestGroupItemsTool(t *testing.T) {
	tool := NewGroupItemsTool()

	var groups []struct {
		Key   string            `json:"key"`
		Items []json.RawMessage `json:"items"`
	}
	decodeJSON(t, mustOK(t, call(t, tool.Handle, map[string]interface{}{"items": threeItems, "by": "status"})), &groups)

	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	if strings.Join(keys, ",") != "warning,unable,healthy,careful" {
		t.Errorf("keys = %v", keys)
	}

	mustError(t, call(t, tool.Handle, map[string]interface{}{"items": threeItems, "by": "size"}), "invalid 'by'")
}

// --- catalog_* ---

func TestCatalogListTool(t *testing.T) {
	tool := NewCatalogListTool(testCatalog())

	var got struct {
		Origin  string          `json:"origin"`
		Count   int             `json:"count"`
		Entries []catalog.Entry `json:"entries"`
	}
	decodeJSON(t, mustOK(t, call(t, tool.Handle, map[string]interface{}{"function": "sales"})), &got)

	if got.Origin != "static" || got.Count != 1 || got.Entries[0].ID != "lead-routing" {
		t.Errorf("got %+v", got)
	}
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

func TestCatalogUpsertTool(t *testing.T) {
	store := newCatalogStore(t)
	inv := &countingInvalidator{}
	tool := NewCatalogUpsertTool(store, inv)

	text := mustOK(t, call(t, tool.Handle, map[string]interface{}{
		"name":             "Churn Signals Setup",
		"primary_function": "Customer Success",
		"hours_low":        12.0,
		"hours_high":       "24",
		"default_rate":     "$1,200",
	}))

	var saved catalog.Entry
	decodeJSON(t, text, &saved)
	if saved.ID != "churn-signals-setup" {
		t.Errorf("ID = %q", saved.ID)
	}
	if f, ok := saved.DefaultRate.Float(); !ok || f != 1200 {
		t.Errorf("DefaultRate = %v", saved.DefaultRate)
	}
	if inv.n != 1 {
		t.Errorf("Invalidate called %d times, want 1", inv.n)
	}

	mustError(t, call(t, tool.Handle, map[string]interface{}{}), "'name' is required")
}

func TestCatalogImportAndSearchTools(t *testing.T) {
	store := newCatalogStore(t)
	inv := &countingInvalidator{}
	importTool := NewCatalogImportTool(store, inv)
	searchTool := NewCatalogSearchTool(store)

	doc := `
services:
  - slug: pipeline-hygiene
    title: Pipeline Hygiene Sprint
    function: RevOps
    summary: Clean stages and required fields
    effort: {low: 10, high: 25}
    rate: 210
entries:
  - id: board-reporting
    name: Board Reporting Pack
    primary_function: Finance
`
	var res catalog.ImportResult
	decodeJSON(t, mustOK(t, call(t, importTool.Handle, map[string]interface{}{"document": doc})), &res)
	if res.Inserted != 2 || inv.n != 1 {
		t.Errorf("result = %+v, invalidations = %d", res, inv.n)
	}

	var found []catalog.Entry
	decodeJSON(t, mustOK(t, call(t, searchTool.Handle, map[string]interface{}{"query": "hygiene"})), &found)
	if len(found) != 1 || found[0].ID != "pipeline-hygiene" {
		t.Errorf("search = %+v", found)
	}

	text := mustOK(t, call(t, searchTool.Handle, map[string]interface{}{"query": "nonexistentword"}))
	if !strings.Contains(text, "No services found") {
		t.Errorf("unexpected: %s", text)
	}

	mustError(t, call(t, importTool.Handle, map[string]interface{}{"document": "[]"}), "no usable services")
	mustError(t, call(t, importTool.Handle, map[string]interface{}{"document": "42"}), "")
	mustError(t, call(t, searchTool.Handle, map[string]interface{}{}), "'query' is required")
}

// --- sow_* ---

func TestSOWLifecycle(t *testing.T) {
	store := sow.NewFileStore(t.TempDir())
	cat := testCatalog()
	opts := engagement.DefaultOptions()
	r := newRenderer(t)

	create := NewSOWCreateTool(store, cat, opts, r)
	get := NewSOWGetTool(store, r)
	list := NewSOWListTool(store, r)
	transition := NewSOWTransitionTool(store)
	edit := NewSOWEditSectionTool(store, opts, r)

	text := mustOK(t, call(t, create.Handle, map[string]interface{}{
		"customer": "Acme",
		"title":    "Q3 cleanup",
		"items":    threeItems,
	}))
	if !strings.Contains(text, "Created draft SOW `acme-q3-cleanup`") {
		t.Fatalf("unexpected create output: %s", text)
	}

	var rec sow.Record
	decodeJSON(t, mustOK(t, call(t, get.Handle, map[string]interface{}{"id": "acme-q3-cleanup", "format": "json"})), &rec)
	if len(rec.Sections) != 3 || rec.Status != sow.StatusDraft {
		t.Fatalf("record = %+v", rec)
	}

	listText := mustOK(t, call(t, list.Handle, map[string]interface{}{"status": "draft"}))
	if !strings.Contains(listText, "`acme-q3-cleanup`") {
		t.Errorf("list missing record: %s", listText)
	}
	mustError(t, call(t, list.Handle, map[string]interface{}{"status": "sent"}), "invalid status")

	// Move the last section to the front.
	last := rec.Sections[2]
	mustOK(t, call(t, edit.Handle, map[string]interface{}{
		"id": rec.ID, "section_id": last.ID, "operation": "move", "position": 1.0,
	}))
	// Remove the (now) second section.
	decodeJSON(t, mustOK(t, call(t, get.Handle, map[string]interface{}{"id": rec.ID, "format": "json"})), &rec)
	if rec.Sections[0].ID != last.ID {
		t.Fatalf("section order = %+v", rec.Sections)
	}
	mustOK(t, call(t, edit.Handle, map[string]interface{}{
		"id": rec.ID, "section_id": rec.Sections[1].ID, "operation": "remove",
	}))
	decodeJSON(t, mustOK(t, call(t, get.Handle, map[string]interface{}{"id": rec.ID, "format": "json"})), &rec)
	if rec.Summary.SectionCount != 2 || rec.Summary.ItemCount != 2 {
		t.Errorf("summary after remove = %+v", rec.Summary)
	}

	// Submit, then edits are refused until reopened.
	text = mustOK(t, call(t, transition.Handle, map[string]interface{}{"id": rec.ID, "action": "submit"}))
	if !strings.Contains(text, "draft → review") {
		t.Errorf("transition output = %s", text)
	}
	mustError(t, call(t, edit.Handle, map[string]interface{}{
		"id": rec.ID, "section_id": rec.Sections[0].ID, "operation": "remove",
	}), "only drafts")
	mustError(t, call(t, transition.Handle, map[string]interface{}{"id": rec.ID, "action": "submit"}), "cannot submit")
	mustOK(t, call(t, transition.Handle, map[string]interface{}{"id": rec.ID, "action": "approve"}))

	decodeJSON(t, mustOK(t, call(t, get.Handle, map[string]interface{}{"id": rec.ID, "format": "json"})), &rec)
	if rec.Status != sow.StatusApproved {
		t.Errorf("status = %s, want approved", rec.Status)
	}
}

func TestSOWTools_Errors(t *testing.T) {
	store := sow.NewFileStore(t.TempDir())
	r := newRenderer(t)
	opts := engagement.DefaultOptions()

	create := NewSOWCreateTool(store, testCatalog(), opts, r)
	mustError(t, call(t, create.Handle, map[string]interface{}{"items": threeItems}), "'customer' is required")
	mustError(t, call(t, create.Handle, map[string]interface{}{
		"customer": "Acme", "items": `[{"name":"Fine","status":"healthy"}]`,
	}), "nothing to propose")
	mustError(t, call(t, create.Handle, map[string]interface{}{
		"customer": "Acme", "items": `[{"name":"A","status":"warning"},{"name":"A","status":"unable"}]`,
	}), "duplicate name")

	mustError(t, call(t, NewSOWGetTool(store, r).Handle, map[string]interface{}{"id": "missing"}), "not found")
	mustError(t, call(t, NewSOWTransitionTool(store).Handle, map[string]interface{}{"id": "x", "action": "ship"}), "invalid action")
	mustError(t, call(t, NewSOWEditSectionTool(store, opts, r).Handle, map[string]interface{}{
		"id": "missing", "section_id": "s", "operation": "move", "position": 1.0,
	}), "not found")
}
