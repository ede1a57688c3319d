package levels

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// LevelType tags how a price zone was produced or what role it plays.
type LevelType int

const (
	LevelSupport LevelType = iota
	LevelResistance
	LevelPivot
	LevelSwingHigh
	LevelSwingLow
	LevelDailyHigh
	LevelDailyLow
	LevelWeeklyHigh
	LevelWeeklyLow
	LevelVWAP
)

func (t LevelType) String() string {
	switch t {
	case LevelSupport:
		return "SUPPORT"
	case LevelResistance:
		return "RESISTANCE"
	case LevelPivot:
		return "PIVOT"
	case LevelSwingHigh:
		return "SWING_HIGH"
	case LevelSwingLow:
		return "SWING_LOW"
	case LevelDailyHigh:
		return "DAILY_HIGH"
	case LevelDailyLow:
		return "DAILY_LOW"
	case LevelWeeklyHigh:
		return "WEEKLY_HIGH"
	case LevelWeeklyLow:
		return "WEEKLY_LOW"
	case LevelVWAP:
		return "VWAP"
	default:
		return "UNKNOWN"
	}
}

// pretagged types keep their tag through classification; everything else is
// reclassified as SUPPORT or RESISTANCE relative to current price.
func (t LevelType) pretagged() bool {
	switch t {
	case LevelPivot, LevelDailyHigh, LevelDailyLow, LevelWeeklyHigh, LevelWeeklyLow, LevelVWAP:
		return true
	default:
		return false
	}
}

// Strength grades a level by how often price has respected it.
type Strength int

const (
	StrengthWeak Strength = iota
	StrengthModerate
	StrengthStrong
	StrengthKey
)

func (s Strength) String() string {
	switch s {
	case StrengthKey:
		return "KEY"
	case StrengthStrong:
		return "STRONG"
	case StrengthModerate:
		return "MODERATE"
	default:
		return "WEAK"
	}
}

// Level is one detected support/resistance zone. Levels are mutated only
// inside a single DetectLevels pass and are frozen once the result is built.
type Level struct {
	ID        string    `json:"id"`
	PriceLow  float64   `json:"price_low"`
	PriceHigh float64   `json:"price_high"`
	PriceMid  float64   `json:"price_mid"`
	Type      LevelType `json:"level_type"`
	Strength  Strength  `json:"strength"`
	Touches   int       `json:"touches"`
	Timeframe string    `json:"timeframe"`
}

// levelID derives a stable identifier from price, type and timeframe.
func levelID(priceMid float64, t LevelType, timeframe string) string {
	h := xxhash.Sum64String(fmt.Sprintf("%.8f|%s|%s", priceMid, t, timeframe))
	return fmt.Sprintf("%016x", h)
}

// Result is the ordered set of levels detected on one window.
type Result struct {
	Symbol       string  `json:"symbol"`
	Timeframe    string  `json:"timeframe"`
	CurrentPrice float64 `json:"current_price"`
	Levels       []Level `json:"levels"`
}

// NearestSupport returns the SUPPORT level whose mid price is closest below
// the reference price. A zero reference falls back to the result's current
// price.
func (r *Result) NearestSupport(price float64) (Level, bool) {
	if price == 0 {
		price = r.CurrentPrice
	}
	best := -1
	for i, lv := range r.Levels {
		if lv.Type != LevelSupport || lv.PriceMid >= price {
			continue
		}
		if best < 0 || lv.PriceMid > r.Levels[best].PriceMid {
			best = i
		}
	}
	if best < 0 {
		return Level{}, false
	}
	return r.Levels[best], true
}

// NearestResistance returns the RESISTANCE level whose mid price is closest
// above the reference price.
func (r *Result) NearestResistance(price float64) (Level, bool) {
	if price == 0 {
		price = r.CurrentPrice
	}
	best := -1
	for i, lv := range r.Levels {
		if lv.Type != LevelResistance || lv.PriceMid <= price {
			continue
		}
		if best < 0 || lv.PriceMid < r.Levels[best].PriceMid {
			best = i
		}
	}
	if best < 0 {
		return Level{}, false
	}
	return r.Levels[best], true
}

// sortByMid orders levels ascending by mid price, with ID as a deterministic
// tie-break.
func sortByMid(ls []Level) {
	sort.Slice(ls, func(i, j int) bool {
		if ls[i].PriceMid != ls[j].PriceMid {
			return ls[i].PriceMid < ls[j].PriceMid
		}
		return ls[i].ID < ls[j].ID
	})
}
