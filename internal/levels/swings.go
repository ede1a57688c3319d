package levels

import "github.com/tradekit/structurebot/pkg/types"

// detectSwings finds local extrema: a swing high is a bar whose high
// dominates the lookback bars on both sides, a swing low the mirror. The
// zone around each swing point is sized from ATR.
func detectSwings(data []types.OHLCV, lookback int, halfWidth float64, timeframe string) []Level {
	var out []Level
	if len(data) < 2*lookback+1 {
		return out
	}

	for i := lookback; i < len(data)-lookback; i++ {
		isHigh, isLow := true, true
		for j := i - lookback; j <= i+lookback; j++ {
			if j == i {
				continue
			}
			if data[j].High >= data[i].High {
				isHigh = false
			}
			if data[j].Low <= data[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}

		if isHigh {
			out = append(out, pointLevel(data[i].High, LevelSwingHigh, halfWidth, timeframe))
		}
		if isLow {
			out = append(out, pointLevel(data[i].Low, LevelSwingLow, halfWidth, timeframe))
		}
	}
	return out
}

// pointLevel builds a zone of the given half width around a single price.
func pointLevel(price float64, t LevelType, halfWidth float64, timeframe string) Level {
	low := price - halfWidth
	high := price + halfWidth
	return Level{
		ID:        levelID(price, t, timeframe),
		PriceLow:  low,
		PriceHigh: high,
		PriceMid:  price,
		Type:      t,
		Strength:  StrengthWeak,
		Touches:   1,
		Timeframe: timeframe,
	}
}
