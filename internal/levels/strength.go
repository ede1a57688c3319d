package levels

import (
	"sort"

	"github.com/tradekit/structurebot/pkg/types"
)

// countTouches counts the bars whose high or low lands inside the zone.
func countTouches(data []types.OHLCV, lv Level) int {
	n := 0
	for _, c := range data {
		if (c.High >= lv.PriceLow && c.High <= lv.PriceHigh) ||
			(c.Low >= lv.PriceLow && c.Low <= lv.PriceHigh) {
			n++
		}
	}
	return n
}

// gradeStrength recounts touches across the whole window and assigns the
// strength tag. The stored touch count never decreases: recounting can only
// confirm or raise what merging accumulated.
func gradeStrength(data []types.OHLCV, ls []Level, keyThreshold, strongThreshold int) []Level {
	out := make([]Level, len(ls))
	for i, lv := range ls {
		if n := countTouches(data, lv); n > lv.Touches {
			lv.Touches = n
		}
		lv.Strength = strengthForTouches(lv.Touches, keyThreshold, strongThreshold)
		out[i] = lv
	}
	return out
}

func strengthForTouches(touches, keyThreshold, strongThreshold int) Strength {
	switch {
	case touches >= keyThreshold:
		return StrengthKey
	case touches >= strongThreshold:
		return StrengthStrong
	case touches >= 2:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// classify reassigns generic levels to SUPPORT below the current price and
// RESISTANCE above it. Pre-tagged levels (pivots, daily/weekly extremes,
// VWAP) keep their tags.
func classify(ls []Level, currentPrice float64) []Level {
	out := make([]Level, len(ls))
	for i, lv := range ls {
		if !lv.Type.pretagged() {
			if lv.PriceMid < currentPrice {
				lv.Type = LevelSupport
			} else {
				lv.Type = LevelResistance
			}
			lv.ID = levelID(lv.PriceMid, lv.Type, lv.Timeframe)
		}
		out[i] = lv
	}
	return out
}

// selectTop caps the list at maxLevels, keeping the strongest and closest
// half on each side of the current price. Levels that are neither SUPPORT
// nor RESISTANCE compete on the side their mid price falls on.
func selectTop(ls []Level, currentPrice float64, maxLevels int) []Level {
	if len(ls) <= maxLevels {
		return ls
	}

	var below, above []Level
	for _, lv := range ls {
		if lv.PriceMid < currentPrice {
			below = append(below, lv)
		} else {
			above = append(above, lv)
		}
	}

	rank := func(side []Level) {
		sort.Slice(side, func(i, j int) bool {
			if side[i].Strength != side[j].Strength {
				return side[i].Strength > side[j].Strength
			}
			di := abs(side[i].PriceMid - currentPrice)
			dj := abs(side[j].PriceMid - currentPrice)
			if di != dj {
				return di < dj
			}
			return side[i].ID < side[j].ID
		})
	}
	rank(below)
	rank(above)

	half := maxLevels / 2
	if len(below) > half {
		below = below[:half]
	}
	if len(above) > half {
		above = above[:half]
	}

	out := append(append([]Level{}, below...), above...)
	sortByMid(out)
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
