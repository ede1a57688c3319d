package levels

import "github.com/tradekit/structurebot/pkg/types"

// pivotPrices computes pivot levels from the prior period's high, low and
// close. The period is the whole window minus the last bar, which matches
// recomputing pivots once per window on rolling data.
func pivotPrices(data []types.OHLCV, variant PivotType) []float64 {
	if len(data) < 2 {
		return nil
	}

	prior := data[:len(data)-1]
	high, low := prior[0].High, prior[0].Low
	for _, c := range prior[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	closePrice := prior[len(prior)-1].Close

	p := (high + low + closePrice) / 3
	rng := high - low

	switch variant {
	case PivotFibonacci:
		return []float64{
			p,
			p + 0.382*rng, p - 0.382*rng,
			p + 0.618*rng, p - 0.618*rng,
			p + rng, p - rng,
		}
	case PivotCamarilla:
		return []float64{
			p,
			closePrice + rng*1.1/12, closePrice - rng*1.1/12,
			closePrice + rng*1.1/6, closePrice - rng*1.1/6,
			closePrice + rng*1.1/4, closePrice - rng*1.1/4,
			closePrice + rng*1.1/2, closePrice - rng*1.1/2,
		}
	default: // standard
		return []float64{
			p,
			2*p - low, 2*p - high,
			p + rng, p - rng,
		}
	}
}

// detectPivots wraps the pivot prices into levels.
func detectPivots(data []types.OHLCV, variant PivotType, halfWidth float64, timeframe string) []Level {
	prices := pivotPrices(data, variant)
	out := make([]Level, 0, len(prices))
	for _, price := range prices {
		if price <= 0 {
			continue
		}
		out = append(out, pointLevel(price, LevelPivot, halfWidth, timeframe))
	}
	return out
}
