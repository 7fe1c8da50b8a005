package engagement

import (
	"fmt"

	"github.com/HendryAvila/sowkit/internal/catalog"
)

// Defaults is the substitution table for catalog numbers that are
// missing or unusable.
//
//	field       default
//	hours_low   30
//	hours_high  60
//	rate        200 (per hour)
type Defaults struct {
	HoursLow  float64 `json:"hours_low" yaml:"hours_low"`
	HoursHigh float64 `json:"hours_high" yaml:"hours_high"`
	Rate      float64 `json:"rate" yaml:"rate"`
}

// StandardDefaults returns the documented default table.
func StandardDefaults() Defaults {
	return Defaults{HoursLow: 30, HoursHigh: 60, Rate: 200}
}

// Validate requires every default to be usable on its own.
func (d Defaults) Validate() error {
	if d.HoursLow <= 0 || d.HoursHigh <= 0 || d.Rate <= 0 {
		return fmt.Errorf("defaults must be positive, got hours %v-%v rate %v", d.HoursLow, d.HoursHigh, d.Rate)
	}
	if d.HoursHigh < d.HoursLow {
		return fmt.Errorf("default hours_high (%v) is below hours_low (%v)", d.HoursHigh, d.HoursLow)
	}
	return nil
}

// ParseOr returns the catalog number, or def when it is absent,
// non-numeric, non-finite, zero or negative. Zero counts as missing: a
// zero rate or effort would silently zero out the investment estimate.
func ParseOr(n catalog.Number, def float64) float64 {
	f, ok := n.Float()
	if !ok || f <= 0 {
		return def
	}
	return f
}
