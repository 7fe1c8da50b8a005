package engagement

// RecommendTier picks the first tier, smallest first, that can deliver
// avgHours within MaxDeliveryMonths. When none can, the largest tier is
// returned. tiers must be non-empty and ordered by ascending hours; an
// empty table is a programming error and panics.
func RecommendTier(avgHours float64, tiers []Tier) Tier {
	if len(tiers) == 0 {
		panic("engagement: RecommendTier called with an empty tier table")
	}
	for _, t := range tiers {
		if t.Hours > 0 && avgHours/t.Hours <= MaxDeliveryMonths {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// DeliveryMonths is how many months a tier needs to burn down avgHours.
func DeliveryMonths(avgHours float64, t Tier) float64 {
	if t.Hours <= 0 {
		return 0
	}
	return avgHours / t.Hours
}
