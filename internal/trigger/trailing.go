package trigger

import (
	"github.com/tradekit/structurebot/pkg/types"
)

// CalculateTrailingStop proposes a new stop for the open position. It
// returns false when trailing has not activated, when the proposed stop
// would loosen the current one, or when the improvement is below the step
// threshold (debounce against noise). The stop only ever moves in the
// trade's favor.
func (e *Engine) CalculateTrailingStop(pos *Position, currentPrice, atr float64) (float64, bool) {
	if pos == nil || pos.Direction == types.DirectionNeutral || currentPrice <= 0 {
		return 0, false
	}

	if pos.UnrealizedPnLPercent(currentPrice) < e.cfg.TrailingActivationProfitPct {
		return 0, false
	}

	var dist float64
	if e.cfg.UseATRTrailing && atr > 0 {
		dist = atr * e.cfg.TrailingATRMult
	} else {
		dist = currentPrice * e.cfg.TrailingPercent / 100
	}

	minStep := currentPrice * e.cfg.TrailingStepPercent / 100

	switch pos.Direction {
	case types.DirectionLong:
		newSL := currentPrice - dist
		if newSL <= pos.StopLoss {
			return 0, false
		}
		if newSL-pos.StopLoss < minStep {
			return 0, false
		}
		return newSL, true
	case types.DirectionShort:
		newSL := currentPrice + dist
		if newSL >= pos.StopLoss {
			return 0, false
		}
		if pos.StopLoss-newSL < minStep {
			return 0, false
		}
		return newSL, true
	}
	return 0, false
}
