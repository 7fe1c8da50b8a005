package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a catalog numeric field as it arrives from upstream: it may
// be missing, a number, a numeric string, or garbage. It keeps the raw
// text so a malformed value survives a round trip unchanged.
type Number struct {
	raw     string
	present bool
}

// NumberOf wraps a known float.
func NumberOf(f float64) Number {
	return Number{raw: strconv.FormatFloat(f, 'f', -1, 64), present: true}
}

// ParseNumber wraps raw text without validating it.
func ParseNumber(s string) Number {
	return Number{raw: s, present: true}
}

// Present reports whether the field was supplied at all.
func (n Number) Present() bool { return n.present }

// Float returns the value and whether it is a usable finite number.
func (n Number) Float() (float64, bool) {
	if !n.present {
		return 0, false
	}
	s := strings.TrimSpace(n.raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String returns the raw text, or "" when absent.
func (n Number) String() string { return n.raw }

// MarshalJSON writes usable values as numbers, absent values as null and
// malformed values as their original string.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.present {
		return []byte("null"), nil
	}
	if f, ok := n.Float(); ok {
		return json.Marshal(f)
	}
	return json.Marshal(n.raw)
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = Number{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*n = ParseNumber(str)
		return nil
	}
	*n = ParseNumber(s)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (n Number) MarshalYAML() (any, error) {
	if !n.present {
		return nil, nil
	}
	if f, ok := n.Float(); ok {
		return f, nil
	}
	return n.raw, nil
}

// UnmarshalYAML accepts any scalar; collections are kept as present but
// unusable so the enricher falls back to defaults.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		*n = Number{present: true}
		return nil
	}
	if value.Tag == "!!null" {
		*n = Number{}
		return nil
	}
	*n = ParseNumber(value.Value)
	return nil
}
