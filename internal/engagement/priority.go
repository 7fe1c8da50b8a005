package engagement

import "github.com/HendryAvila/sowkit/internal/diagnostic"

// SelectPriorityItems keeps the items that belong in a proposal: those
// whose status needs attention, plus anything the user flagged with
// AddToEngagement regardless of status. Input order is preserved.
func SelectPriorityItems(items []diagnostic.Item) []diagnostic.Item {
	selected := make([]diagnostic.Item, 0, len(items))
	for _, it := range items {
		if it.AddToEngagement || it.Status.NeedsAttention() {
			selected = append(selected, it)
		}
	}
	return selected
}
