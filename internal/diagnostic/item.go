// Package diagnostic defines the shape of a diagnostic run as the
// recommendation engine receives it.
//
// A diagnostic run is a list of GTM processes, each assessed with a
// health status. The diagnostic subsystem owns these records; everything
// downstream treats them as read-only input.
package diagnostic

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// --- Status enum ---

// Status is the health state assigned to a process during a diagnostic.
type Status string

const (
	StatusHealthy Status = "healthy"
	StatusCareful Status = "careful"
	StatusWarning Status = "warning"
	StatusUnable  Status = "unable"
)

// severity orders statuses from least to most severe. Unknown statuses
// are absent and rank below healthy.
var severity = map[Status]int{
	StatusHealthy: 1,
	StatusCareful: 2,
	StatusWarning: 3,
	StatusUnable:  4,
}

// ParseStatus normalizes case and surrounding whitespace. It returns an
// error for values outside the known set.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := severity[st]; !ok {
		return st, fmt.Errorf("invalid status %q: must be one of: healthy, careful, warning, unable", s)
	}
	return st, nil
}

// Severity returns the rank of the status (1 = healthy, 4 = unable),
// or 0 when the status is not recognized.
func (s Status) Severity() int {
	return severity[Status(strings.ToLower(strings.TrimSpace(string(s))))]
}

// NeedsAttention reports whether the status is one of the two most
// severe health states.
func (s Status) NeedsAttention() bool {
	return s.Severity() >= severity[StatusWarning]
}

// --- Item ---

// Item is a single assessed process. JSON tags follow the data API's
// camelCase field names.
type Item struct {
	Name            string `json:"name"`
	Function        string `json:"function"`
	Status          Status `json:"status"`
	AddToEngagement bool   `json:"addToEngagement"`
	Outcome         string `json:"outcome,omitempty"`
	ServiceID       string `json:"serviceId,omitempty"`
	ServiceType     string `json:"serviceType,omitempty"`
}

// OtherFunction is the bucket for items that carry no function.
const OtherFunction = "Other"

// FunctionOr returns the trimmed function, or fallback when it is blank.
func (it Item) FunctionOr(fallback string) string {
	if f := strings.TrimSpace(it.Function); f != "" {
		return f
	}
	return fallback
}

// --- Loading ---

// Decode reads a JSON array of items. Any other top-level JSON value is
// rejected: it means the caller handed over the wrong document.
func Decode(r io.Reader) ([]Item, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding diagnostic items: %w", err)
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("decoding diagnostic items: expected a JSON array")
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding diagnostic items: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// LoadFile reads a diagnostic export from disk.
func LoadFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	items, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Validate checks the invariants callers are expected to uphold before
// handing a list to the engine: every item is named and names are
// unique. Unknown statuses are allowed; they simply never need attention.
func Validate(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return fmt.Errorf("item %d: missing name", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("item %d: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
