package diagnostic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- Status ---

func TestParseStatus_Normalizes(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"healthy", StatusHealthy},
		{"  Careful ", StatusCareful},
		{"WARNING", StatusWarning},
		{"unable", StatusUnable},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if err != nil {
				t.Fatalf("ParseStatus(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseStatus_RejectsUnknown(t *testing.T) {
	if _, err := ParseStatus("banana"); err == nil {
		t.Error("ParseStatus(banana) should fail")
	}
}

func TestStatus_NeedsAttention(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusHealthy, false},
		{StatusCareful, false},
		{StatusWarning, true},
		{StatusUnable, true},
		{Status("Warning"), true},
		{Status(""), false},
		{Status("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.NeedsAttention(); got != tt.want {
				t.Errorf("%q.NeedsAttention() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestStatus_SeverityOrdering(t *testing.T) {
	order := []Status{StatusHealthy, StatusCareful, StatusWarning, StatusUnable}
	for i := 1; i < len(order); i++ {
		if order[i].Severity() <= order[i-1].Severity() {
			t.Errorf("%s should be more severe than %s", order[i], order[i-1])
		}
	}
}

// --- Item ---

func TestFunctionOr(t *testing.T) {
	if got := (Item{Function: " Sales "}).FunctionOr(OtherFunction); got != "Sales" {
		t.Errorf("FunctionOr = %q, want Sales", got)
	}
	if got := (Item{}).FunctionOr(OtherFunction); got != OtherFunction {
		t.Errorf("FunctionOr(empty) = %q, want %q", got, OtherFunction)
	}
}

// --- Decode ---

func TestDecode_ReadsCamelCaseFields(t *testing.T) {
	doc := `[{"name":"Lead routing","function":"Sales","status":"warning","addToEngagement":true,"outcome":"Faster handoff","serviceId":"svc-1","serviceType":"lead-routing"}]`

	items, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	it := items[0]
	if it.Name != "Lead routing" || it.Function != "Sales" || it.Status != StatusWarning {
		t.Errorf("unexpected item: %+v", it)
	}
	if !it.AddToEngagement {
		t.Error("AddToEngagement should be true")
	}
	if it.ServiceID != "svc-1" || it.ServiceType != "lead-routing" {
		t.Errorf("service link = %q/%q", it.ServiceID, it.ServiceType)
	}
}

func TestDecode_EmptyArray(t *testing.T) {
	items, err := Decode(strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("Decode([]) = %#v, want empty non-nil slice", items)
	}
}

func TestDecode_RejectsNonArray(t *testing.T) {
	for _, doc := range []string{`{"name":"x"}`, `"items"`, `42`, `null`} {
		if _, err := Decode(strings.NewReader(doc)); err == nil {
			t.Errorf("Decode(%s) should fail", doc)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostic.json")
	if err := os.WriteFile(path, []byte(`[{"name":"A","status":"unable"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if len(items) != 1 || items[0].Status != StatusUnable {
		t.Errorf("LoadFile = %+v", items)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadFile(missing) should fail")
	}
}

// --- Validate ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		items   []Item
		wantErr string
	}{
		{"empty", nil, ""},
		{"unique", []Item{{Name: "A"}, {Name: "B"}}, ""},
		{"duplicate", []Item{{Name: "A"}, {Name: "A"}}, "duplicate name"},
		{"unnamed", []Item{{Name: " "}}, "missing name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.items)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
