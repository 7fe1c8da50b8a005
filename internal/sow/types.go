// Package sow holds statements of work built from an engagement preview.
//
// A SOW is a snapshot: once created it no longer follows the catalog or
// the diagnostic it came from. It moves through a small review workflow
// and its sections can be reordered or dropped while it is a draft.
//
// Types, the status workflow, section editing and the store live in
// separate files; tools depend on the Store interface.
package sow

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/HendryAvila/sowkit/internal/diagnostic"
	"github.com/HendryAvila/sowkit/internal/engagement"
)

// --- Status enum ---

// Status tracks where a SOW is in the review workflow.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusReview   Status = "review"
	StatusApproved Status = "approved"
	StatusArchived Status = "archived"
)

var validStatuses = map[Status]bool{
	StatusDraft:    true,
	StatusReview:   true,
	StatusApproved: true,
	StatusArchived: true,
}

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return fmt.Errorf("invalid status %q: must be one of: draft, review, approved, archived", s)
	}
	return nil
}

// --- Core data structures ---

// LineItem is one priced process inside a section.
type LineItem struct {
	Name      string            `json:"name"`
	Function  string            `json:"function"`
	Status    diagnostic.Status `json:"status"`
	Outcome   string            `json:"outcome,omitempty"`
	HoursLow  float64           `json:"hours_low"`
	HoursHigh float64           `json:"hours_high"`
	Rate      float64           `json:"rate"`
	ServiceID string            `json:"service_id,omitempty"`
	Match     string            `json:"match"`
}

// Section is one block of the statement of work.
type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Function  string     `json:"function"`
	Position  int        `json:"position"`
	HoursLow  float64    `json:"hours_low"`
	HoursHigh float64    `json:"hours_high"`
	Items     []LineItem `json:"items"`
}

// Summary mirrors the preview totals at the time of the last edit.
type Summary struct {
	TotalHoursLow   float64         `json:"total_hours_low"`
	TotalHoursHigh  float64         `json:"total_hours_high"`
	InvestmentLow   float64         `json:"investment_low"`
	InvestmentHigh  float64         `json:"investment_high"`
	AverageRate     float64         `json:"average_rate"`
	RecommendedTier engagement.Tier `json:"recommended_tier"`
	ItemCount       int             `json:"item_count"`
	SectionCount    int             `json:"section_count"`
}

// Record is a persisted statement of work, stored as <id>.json.
type Record struct {
	ID        string    `json:"id"`
	Customer  string    `json:"customer"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Sections  []Section `json:"sections"`
	Summary   Summary   `json:"summary"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// NewRecord builds a draft from a computed preview and its section plans.
// The title defaults to "<customer> engagement".
func NewRecord(customer, title string, preview engagement.PreviewResult, plans []engagement.SectionPlan) (*Record, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, fmt.Errorf("customer is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = customer + " engagement"
	}
	if preview.ItemCount == 0 {
		return nil, fmt.Errorf("nothing to propose: no diagnostic item needs attention or was added to the engagement")
	}

	sections := make([]Section, 0, len(plans))
	for i, p := range plans {
		s := Section{
			ID:        uuid.NewString(),
			Title:     p.Title,
			Function:  p.Function,
			Position:  i + 1,
			HoursLow:  p.HoursLow,
			HoursHigh: p.HoursHigh,
			Items:     make([]LineItem, 0, len(p.Items)),
		}
		for _, it := range p.Items {
			s.Items = append(s.Items, LineItem{
				Name:      it.Name,
				Function:  it.FunctionOr(diagnostic.OtherFunction),
				Status:    it.Status,
				Outcome:   it.Outcome,
				HoursLow:  it.HoursLow,
				HoursHigh: it.HoursHigh,
				Rate:      it.Rate,
				ServiceID: it.MatchedID,
				Match:     string(it.Match),
			})
		}
		sections = append(sections, s)
	}

	now := timeNow().UTC().Format(timeLayout)
	return &Record{
		ID:       Slugify(customer + " " + title),
		Customer: customer,
		Title:    title,
		Status:   StatusDraft,
		Sections: sections,
		Summary: Summary{
			TotalHoursLow:   preview.TotalHoursLow,
			TotalHoursHigh:  preview.TotalHoursHigh,
			InvestmentLow:   preview.EstimatedInvestmentLow,
			InvestmentHigh:  preview.EstimatedInvestmentHigh,
			AverageRate:     preview.AverageRate,
			RecommendedTier: preview.RecommendedTier,
			ItemCount:       preview.ItemCount,
			SectionCount:    preview.SectionCount,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Resummarize recomputes the totals from the remaining sections and picks
// the tier again. It is called after sections are removed.
func Resummarize(r *Record, tiers []engagement.Tier) {
	var s Summary
	var rateSum float64
	for _, sec := range r.Sections {
		s.TotalHoursLow += sec.HoursLow
		s.TotalHoursHigh += sec.HoursHigh
		for _, it := range sec.Items {
			rateSum += it.Rate
			s.ItemCount++
		}
	}
	s.SectionCount = len(r.Sections)
	if s.ItemCount > 0 {
		s.AverageRate = rateSum / float64(s.ItemCount)
	}
	s.InvestmentLow = math.Round(s.TotalHoursLow * s.AverageRate)
	s.InvestmentHigh = math.Round(s.TotalHoursHigh * s.AverageRate)
	if len(tiers) > 0 {
		s.RecommendedTier = engagement.RecommendTier((s.TotalHoursLow+s.TotalHoursHigh)/2, tiers)
	} else {
		s.RecommendedTier = r.Summary.RecommendedTier
	}
	r.Summary = s
}

// --- Slug generation ---

const maxSlugLen = 60

// Slugify converts free text into a filesystem-safe record id.
// Example: "Acme Corp Q3 RevOps cleanup" → "acme-corp-q3-revops-cleanup"
//
// Letters and digits are kept lowercase, runs of anything else become a
// single hyphen, and long slugs are cut at a word boundary when one is
// close enough. Empty input returns "untitled-sow".
func Slugify(text string) string {
	var b strings.Builder
	prevHyphen := true
	for _, r := range strings.ToLower(text) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case !prevHyphen:
			b.WriteByte('-')
			prevHyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "untitled-sow"
	}
	if len(slug) <= maxSlugLen {
		return slug
	}

	truncated := slug[:maxSlugLen]
	if lastHyphen := strings.LastIndex(truncated, "-"); lastHyphen > maxSlugLen/2 {
		truncated = truncated[:lastHyphen]
	}
	return strings.TrimRight(truncated, "-")
}

// validID reports whether id could have come from Slugify, possibly with
// a collision suffix. Anything else is rejected before touching the disk.
func validID(id string) bool {
	if id == "" || strings.HasPrefix(id, "-") || strings.HasSuffix(id, "-") {
		return false
	}
	for _, r := range id {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}
