// Package catalog normalizes the service catalog the enrichment step
// matches diagnostic items against.
//
// The catalog has two origins: the live table kept in SQLite (Store) and
// the static fallback table shipped with the binary (static/services.yaml).
// Both are adapted into the same Entry shape so the engine never cares
// where an entry came from. Provider picks whichever is available.
package catalog

import (
	"database/sql"
	"strings"
)

// Entry is one sellable service offering.
type Entry struct {
	ID              string `json:"id" yaml:"id"`
	Slug            string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	PrimaryFunction string `json:"primary_function" yaml:"primary_function"`
	HoursLow        Number `json:"hours_low" yaml:"hours_low"`
	HoursHigh       Number `json:"hours_high" yaml:"hours_high"`
	DefaultRate     Number `json:"default_rate" yaml:"default_rate"`
}

// Key returns the identifier used for persistence: the id when set,
// otherwise the slug.
func (e Entry) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Slug
}

// --- Live catalog rows ---

// Record is a row of the live catalog as the data store returns it.
type Record struct {
	ID              string
	Slug            sql.NullString
	Name            string
	Description     sql.NullString
	PrimaryFunction sql.NullString
	HoursLow        sql.NullFloat64
	HoursHigh       sql.NullFloat64
	DefaultRate     sql.NullFloat64
}

// FromRecords adapts live catalog rows into entries.
func FromRecords(rows []Record) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e := Entry{
			ID:              strings.TrimSpace(r.ID),
			Slug:            strings.TrimSpace(r.Slug.String),
			Name:            strings.TrimSpace(r.Name),
			Description:     strings.TrimSpace(r.Description.String),
			PrimaryFunction: strings.TrimSpace(r.PrimaryFunction.String),
			HoursLow:        nullNumber(r.HoursLow),
			HoursHigh:       nullNumber(r.HoursHigh),
			DefaultRate:     nullNumber(r.DefaultRate),
		}
		if !identifiable(e) {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func nullNumber(v sql.NullFloat64) Number {
	if !v.Valid {
		return Number{}
	}
	return NumberOf(v.Float64)
}

// --- Static marketing content ---

// StaticService is a service as written in the marketing content table.
type StaticService struct {
	Slug     string `yaml:"slug"`
	Title    string `yaml:"title"`
	Function string `yaml:"function"`
	Summary  string `yaml:"summary"`
	Effort   struct {
		Low  Number `yaml:"low"`
		High Number `yaml:"high"`
	} `yaml:"effort"`
	Rate Number `yaml:"rate"`
}

// FromStatic adapts the static content table into entries. The slug
// doubles as the id.
func FromStatic(services []StaticService) []Entry {
	entries := make([]Entry, 0, len(services))
	for _, s := range services {
		slug := strings.TrimSpace(s.Slug)
		e := Entry{
			ID:              slug,
			Slug:            slug,
			Name:            strings.TrimSpace(s.Title),
			Description:     strings.TrimSpace(s.Summary),
			PrimaryFunction: strings.TrimSpace(s.Function),
			HoursLow:        s.Effort.Low,
			HoursHigh:       s.Effort.High,
			DefaultRate:     s.Rate,
		}
		if !identifiable(e) {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Normalize trims an entry set that arrived already in Entry shape (for
// example through an import document) and drops unusable rows.
func Normalize(in []Entry) []Entry {
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		e.ID = strings.TrimSpace(e.ID)
		e.Slug = strings.TrimSpace(e.Slug)
		e.Name = strings.TrimSpace(e.Name)
		e.Description = strings.TrimSpace(e.Description)
		e.PrimaryFunction = strings.TrimSpace(e.PrimaryFunction)
		if !identifiable(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// identifiable reports whether an entry can ever be matched: by link
// (id/slug) or by name.
func identifiable(e Entry) bool {
	return e.ID != "" || e.Slug != "" || e.Name != ""
}
