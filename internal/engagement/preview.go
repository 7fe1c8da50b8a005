package engagement

import (
	"math"

	"github.com/HendryAvila/sowkit/internal/catalog"
	"github.com/HendryAvila/sowkit/internal/diagnostic"
)

// PreviewResult is the priced, structured recommendation for one
// diagnostic run.
type PreviewResult struct {
	Sections                []Section      `json:"sections"`
	TotalHoursLow           float64        `json:"totalHoursLow"`
	TotalHoursHigh          float64        `json:"totalHoursHigh"`
	EstimatedInvestmentLow  float64        `json:"estimatedInvestmentLow"`
	EstimatedInvestmentHigh float64        `json:"estimatedInvestmentHigh"`
	RecommendedTier         Tier           `json:"recommendedTier"`
	ItemCount               int            `json:"itemCount"`
	SectionCount            int            `json:"sectionCount"`
	AverageRate             float64        `json:"averageRate"`
	Items                   []EnrichedItem `json:"items"`
}

// AverageHours is the midpoint of the hour range, the figure tiers are
// recommended from.
func (r PreviewResult) AverageHours() float64 {
	return (r.TotalHoursLow + r.TotalHoursHigh) / 2
}

// ComputePreview runs the whole recommendation: select, enrich, total,
// section and recommend a tier. entries may be nil, in which case every
// item is priced with the defaults. opts must pass Validate; an empty
// tier table panics.
func ComputePreview(items []diagnostic.Item, entries []catalog.Entry, opts Options) PreviewResult {
	result, _ := Plan(items, entries, opts)
	return result
}

// Plan is ComputePreview that also returns the section plans (sections
// with their items), which the SOW builder persists.
func Plan(items []diagnostic.Item, entries []catalog.Entry, opts Options) (PreviewResult, []SectionPlan) {
	if len(opts.Tiers) == 0 {
		panic("engagement: ComputePreview called without tiers")
	}

	priority := SelectPriorityItems(items)
	if len(priority) == 0 {
		return emptyResult(opts), []SectionPlan{}
	}

	enriched := EnrichWithCatalog(priority, entries, opts.Defaults)

	var totalLow, totalHigh, rateSum float64
	for _, e := range enriched {
		totalLow += e.HoursLow
		totalHigh += e.HoursHigh
		rateSum += e.Rate
	}
	avgRate := rateSum / float64(len(enriched))

	plans := BuildSections(enriched, opts)
	sections := make([]Section, len(plans))
	for i, p := range plans {
		sections[i] = p.Section
	}

	result := PreviewResult{
		Sections:                sections,
		TotalHoursLow:           totalLow,
		TotalHoursHigh:          totalHigh,
		EstimatedInvestmentLow:  math.Round(totalLow * avgRate),
		EstimatedInvestmentHigh: math.Round(totalHigh * avgRate),
		ItemCount:               len(enriched),
		SectionCount:            len(sections),
		AverageRate:             avgRate,
		Items:                   enriched,
	}
	result.RecommendedTier = RecommendTier(result.AverageHours(), opts.Tiers)
	return result, plans
}

// emptyResult is the canonical zero preview: nothing selected, smallest
// tier recommended.
func emptyResult(opts Options) PreviewResult {
	return PreviewResult{
		Sections:        []Section{},
		Items:           []EnrichedItem{},
		RecommendedTier: opts.Tiers[0],
	}
}
