package levels

import (
	"time"

	"github.com/tradekit/structurebot/pkg/types"
)

// detectPeriodExtremes produces daily and weekly high/low levels from the
// window: the extremes of the trailing day and trailing week of bars.
func detectPeriodExtremes(data []types.OHLCV, halfWidth float64, timeframe string) []Level {
	var out []Level

	if hi, lo, ok := extremesSince(data, 24*time.Hour); ok {
		out = append(out,
			pointLevel(hi, LevelDailyHigh, halfWidth, timeframe),
			pointLevel(lo, LevelDailyLow, halfWidth, timeframe))
	}
	if hi, lo, ok := extremesSince(data, 7*24*time.Hour); ok {
		out = append(out,
			pointLevel(hi, LevelWeeklyHigh, halfWidth, timeframe),
			pointLevel(lo, LevelWeeklyLow, halfWidth, timeframe))
	}
	return out
}

// extremesSince scans the bars inside the trailing duration. It reports ok
// only when the window actually spans the duration, so a two-hour window
// never fabricates a "daily" extreme.
func extremesSince(data []types.OHLCV, d time.Duration) (high, low float64, ok bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	end := data[len(data)-1].Timestamp
	cutoff := end.Add(-d)
	if data[0].Timestamp.After(cutoff) {
		return 0, 0, false
	}

	found := false
	for _, c := range data {
		if c.Timestamp.Before(cutoff) {
			continue
		}
		if !found {
			high, low, found = c.High, c.Low, true
			continue
		}
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low, found
}

// vwapLevel computes the volume-weighted average price over the window.
func vwapLevel(data []types.OHLCV, halfWidth float64, timeframe string) (Level, bool) {
	var pv, vol float64
	for _, c := range data {
		typical := (c.High + c.Low + c.Close) / 3
		pv += typical * c.Volume
		vol += c.Volume
	}
	if vol == 0 {
		return Level{}, false
	}
	return pointLevel(pv/vol, LevelVWAP, halfWidth, timeframe), true
}
