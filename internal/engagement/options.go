// Package engagement is the recommendation engine behind the SOW preview.
//
// Given a diagnostic run, it selects the priority items, prices them
// against the service catalog, lays them out as proposal sections and
// recommends a monthly-hours tier. Everything here is a pure function of
// its arguments: no I/O, no clocks, no logging, and inputs are never
// mutated. Callers own fetching the catalog and debouncing recomputation.
package engagement

import (
	"fmt"
	"strings"
)

// MaxDeliveryMonths is the horizon a tier must absorb the estimated
// backlog within.
const MaxDeliveryMonths = 6

// DefaultItemSectionThreshold is the largest priority list that still
// gets one section per item.
const DefaultItemSectionThreshold = 5

// Tier is a monthly-hours commitment level.
type Tier struct {
	ID    string  `json:"id" yaml:"id"`
	Label string  `json:"label" yaml:"label"`
	Hours float64 `json:"hours" yaml:"hours"`
}

// DefaultTiers returns the standard commitment levels, smallest first.
func DefaultTiers() []Tier {
	return []Tier{
		{ID: "foundation", Label: "Foundation (50 hrs/mo)", Hours: 50},
		{ID: "growth", Label: "Growth (100 hrs/mo)", Hours: 100},
		{ID: "scale", Label: "Scale (225 hrs/mo)", Hours: 225},
	}
}

// DefaultFunctionOrder is the order function sections appear in.
func DefaultFunctionOrder() []string {
	return []string{"Marketing", "Sales", "Customer Success", "RevOps", "Finance"}
}

// Options carries the business constants the engine is configured with.
type Options struct {
	Tiers                []Tier
	FunctionOrder        []string
	ItemSectionThreshold int
	Defaults             Defaults
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		Tiers:                DefaultTiers(),
		FunctionOrder:        DefaultFunctionOrder(),
		ItemSectionThreshold: DefaultItemSectionThreshold,
		Defaults:             StandardDefaults(),
	}
}

// Validate reports configuration the engine cannot work with.
func (o Options) Validate() error {
	if len(o.Tiers) == 0 {
		return fmt.Errorf("at least one tier is required")
	}
	seen := make(map[string]bool, len(o.Tiers))
	for i, t := range o.Tiers {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("tier %d: missing id", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("tier %d: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = true
		if t.Hours <= 0 {
			return fmt.Errorf("tier %q: hours must be positive, got %v", t.ID, t.Hours)
		}
		if i > 0 && t.Hours <= o.Tiers[i-1].Hours {
			return fmt.Errorf("tier %q: tiers must be ordered by ascending hours", t.ID)
		}
	}
	if o.ItemSectionThreshold < 0 {
		return fmt.Errorf("item section threshold must not be negative, got %d", o.ItemSectionThreshold)
	}
	return o.Defaults.Validate()
}
