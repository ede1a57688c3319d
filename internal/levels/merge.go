package levels

// mergeLevels folds a price-sorted level list left to right, merging each
// level into the previous one when its low edge reaches the previous zone
// plus the proximity threshold of that zone. The merge is transitive within
// the single pass and the list is not re-sorted afterwards; the left-to-right
// order is the deterministic tie-break. The input is not mutated.
func mergeLevels(sorted []Level, proximityPct float64) []Level {
	if len(sorted) == 0 {
		return nil
	}

	out := make([]Level, 0, len(sorted))
	out = append(out, sorted[0])

	for _, lv := range sorted[1:] {
		prev := &out[len(out)-1]
		threshold := prev.PriceMid * proximityPct / 100

		if lv.PriceLow <= prev.PriceHigh+threshold {
			*prev = mergePair(*prev, lv)
			continue
		}
		out = append(out, lv)
	}
	return out
}

// mergePair folds b into a: the zone expands to cover both, touches add up,
// and the stronger strength tag and more specific type win.
func mergePair(a, b Level) Level {
	merged := a
	if b.PriceLow < merged.PriceLow {
		merged.PriceLow = b.PriceLow
	}
	if b.PriceHigh > merged.PriceHigh {
		merged.PriceHigh = b.PriceHigh
	}
	merged.PriceMid = (merged.PriceLow + merged.PriceHigh) / 2
	merged.Touches = a.Touches + b.Touches

	if b.Strength > merged.Strength {
		merged.Strength = b.Strength
	}
	// A pre-tagged type survives a merge with a generic zone.
	if !merged.Type.pretagged() && b.Type.pretagged() {
		merged.Type = b.Type
	}

	merged.ID = levelID(merged.PriceMid, merged.Type, merged.Timeframe)
	return merged
}
