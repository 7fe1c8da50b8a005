package engagement

import (
	"sort"
	"strings"

	"github.com/HendryAvila/sowkit/internal/diagnostic"
)

// Group is one bucket of GroupItems, in first-appearance order.
type Group[T any] struct {
	Key   string `json:"key"`
	Items []T    `json:"items"`
}

// GroupItems buckets items by key, keeping buckets in the order their key
// first appears and items in input order. A blank key lands in "Other".
func GroupItems[T any](items []T, key func(T) string) []Group[T] {
	var groups []Group[T]
	index := make(map[string]int)
	for _, it := range items {
		k := strings.TrimSpace(key(it))
		if k == "" {
			k = diagnostic.OtherFunction
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	if groups == nil {
		groups = []Group[T]{}
	}
	return groups
}

// ByFunction keys a diagnostic item by its GTM function.
func ByFunction(it diagnostic.Item) string { return it.Function }

// ByStatus keys a diagnostic item by its health status.
func ByStatus(it diagnostic.Item) string { return string(it.Status) }

// ShouldUseItemSections reports whether a list of n priority items is
// short enough to give each item its own section.
func ShouldUseItemSections(n, threshold int) bool {
	return n <= threshold
}

// Section is one row of the proposal outline.
type Section struct {
	Title     string `json:"title"`
	ItemCount int    `json:"itemCount"`
	Function  string `json:"function"`
}

// SectionPlan is a Section together with the items it covers.
type SectionPlan struct {
	Section
	Items     []EnrichedItem `json:"items"`
	HoursLow  float64        `json:"hoursLow"`
	HoursHigh float64        `json:"hoursHigh"`
}

// FunctionSectionTitle is the title of a grouped function section.
func FunctionSectionTitle(function string) string {
	return function + " — GTM Operations"
}

// BuildSections lays enriched items out as proposal sections: one per
// item for short lists, one per function otherwise. Function sections
// follow opts.FunctionOrder, then unlisted functions in order of first
// appearance, with "Other" last.
func BuildSections(items []EnrichedItem, opts Options) []SectionPlan {
	if ShouldUseItemSections(len(items), opts.ItemSectionThreshold) {
		plans := make([]SectionPlan, 0, len(items))
		for _, it := range items {
			plans = append(plans, newPlan(it.Name, it.FunctionOr(diagnostic.OtherFunction), []EnrichedItem{it}))
		}
		return plans
	}

	groups := GroupItems(items, func(it EnrichedItem) string { return it.Function })
	groups = orderGroups(groups, opts.FunctionOrder)

	plans := make([]SectionPlan, 0, len(groups))
	for _, g := range groups {
		plans = append(plans, newPlan(FunctionSectionTitle(g.Key), g.Key, g.Items))
	}
	return plans
}

func newPlan(title, function string, items []EnrichedItem) SectionPlan {
	p := SectionPlan{
		Section: Section{Title: title, ItemCount: len(items), Function: function},
		Items:   items,
	}
	for _, it := range items {
		p.HoursLow += it.HoursLow
		p.HoursHigh += it.HoursHigh
	}
	return p
}

// orderGroups returns a reordered copy; groups is not modified.
func orderGroups[T any](groups []Group[T], order []string) []Group[T] {
	rank := make(map[string]int, len(order))
	for i, f := range order {
		key := strings.ToLower(strings.TrimSpace(f))
		if _, dup := rank[key]; !dup {
			rank[key] = i
		}
	}

	var listed, unlisted []Group[T]
	var other *Group[T]
	for i := range groups {
		g := groups[i]
		if _, ok := rank[strings.ToLower(g.Key)]; ok {
			listed = append(listed, g)
			continue
		}
		if g.Key == diagnostic.OtherFunction {
			other = &groups[i]
			continue
		}
		unlisted = append(unlisted, g)
	}

	sort.SliceStable(listed, func(i, j int) bool {
		return rank[strings.ToLower(listed[i].Key)] < rank[strings.ToLower(listed[j].Key)]
	})

	out := make([]Group[T], 0, len(groups))
	out = append(out, listed...)
	out = append(out, unlisted...)
	if other != nil {
		out = append(out, *other)
	}
	return out
}
