package engagement

import (
	"strings"
	"unicode"

	"github.com/HendryAvila/sowkit/internal/catalog"
	"github.com/HendryAvila/sowkit/internal/diagnostic"
)

// MatchKind records how an item was priced.
type MatchKind string

const (
	MatchServiceID MatchKind = "service_id" // explicit serviceId/serviceType link
	MatchName      MatchKind = "name"       // name similarity within the same function
	MatchDefault   MatchKind = "default"    // no catalog entry, defaults applied
)

// minNameScore is the token overlap a name match must reach.
const minNameScore = 0.5

// EnrichedItem is a diagnostic item with effort and rate estimates.
type EnrichedItem struct {
	diagnostic.Item
	HoursLow  float64   `json:"hoursLow"`
	HoursHigh float64   `json:"hoursHigh"`
	Rate      float64   `json:"rate"`
	MatchedID string    `json:"matchedServiceId,omitempty"`
	Match     MatchKind `json:"match"`
}

// EnrichWithCatalog attaches hours and rate to every item. An explicit
// service link wins; otherwise the best name match among entries of the
// same function is used; otherwise the defaults apply. Every returned
// item has usable numbers.
func EnrichWithCatalog(items []diagnostic.Item, entries []catalog.Entry, d Defaults) []EnrichedItem {
	enriched := make([]EnrichedItem, 0, len(items))
	for _, it := range items {
		e := EnrichedItem{
			Item:      it,
			HoursLow:  d.HoursLow,
			HoursHigh: d.HoursHigh,
			Rate:      d.Rate,
			Match:     MatchDefault,
		}

		entry, kind := matchEntry(it, entries)
		if entry != nil {
			e.HoursLow = ParseOr(entry.HoursLow, d.HoursLow)
			e.HoursHigh = ParseOr(entry.HoursHigh, d.HoursHigh)
			e.Rate = ParseOr(entry.DefaultRate, d.Rate)
			e.MatchedID = entry.Key()
			e.Match = kind
			if e.HoursHigh < e.HoursLow {
				e.HoursLow, e.HoursHigh = e.HoursHigh, e.HoursLow
			}
		}
		enriched = append(enriched, e)
	}
	return enriched
}

func matchEntry(it diagnostic.Item, entries []catalog.Entry) (*catalog.Entry, MatchKind) {
	for _, link := range []string{it.ServiceID, it.ServiceType} {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		for i := range entries {
			if strings.EqualFold(entries[i].ID, link) || strings.EqualFold(entries[i].Slug, link) {
				return &entries[i], MatchServiceID
			}
		}
	}

	function := it.FunctionOr("")
	if function == "" {
		return nil, MatchDefault
	}

	var best *catalog.Entry
	bestScore := 0.0
	for i := range entries {
		if !strings.EqualFold(strings.TrimSpace(entries[i].PrimaryFunction), function) {
			continue
		}
		if score := nameScore(it.Name, entries[i].Name); score > bestScore {
			best, bestScore = &entries[i], score
		}
	}
	if best == nil || bestScore < minNameScore {
		return nil, MatchDefault
	}
	return best, MatchName
}

// nameScore rates how alike two service names are, from 0 to 1.
// Identical or contained names score 1; otherwise the share of the
// shorter name's tokens found in the other.
func nameScore(a, b string) float64 {
	ta, tb := nameTokens(a), nameTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	ja, jb := strings.Join(ta, " "), strings.Join(tb, " ")
	if ja == jb || strings.Contains(" "+ja+" ", " "+jb+" ") || strings.Contains(" "+jb+" ", " "+ja+" ") {
		return 1
	}

	inB := make(map[string]bool, len(tb))
	for _, t := range tb {
		inB[t] = true
	}
	common := 0
	seen := make(map[string]bool, len(ta))
	for _, t := range ta {
		if inB[t] && !seen[t] {
			common++
		}
		seen[t] = true
	}

	shorter := len(seen)
	if len(inB) < shorter {
		shorter = len(inB)
	}
	return float64(common) / float64(shorter)
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true, "for": true, "to": true, "in": true,
}

func nameTokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if !stopwords[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
