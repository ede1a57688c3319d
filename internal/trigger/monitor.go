package trigger

import (
	"fmt"
	"time"

	"github.com/tradekit/structurebot/pkg/types"
)

// CheckExitConditions evaluates the open position against the exit rules in
// strict priority order: stop loss, take profit, partial take profit, time
// stop, signal reversal. The first match wins regardless of how many
// conditions hold at once. opposingScore is the entry score of the opposite
// direction on the current context; pass 0 when unknown.
func (e *Engine) CheckExitConditions(pos *Position, currentPrice float64, now time.Time, opposingScore float64) ExitSignal {
	if pos == nil || pos.Direction == types.DirectionNeutral {
		return ExitSignal{}
	}

	long := pos.Direction == types.DirectionLong

	// 1. Stop loss.
	if (long && currentPrice <= pos.StopLoss) || (!long && currentPrice >= pos.StopLoss) {
		return ExitSignal{
			ShouldExit:         true,
			ExitType:           ExitSLHit,
			Reason:             fmt.Sprintf("price %.4f hit stop loss %.4f", currentPrice, pos.StopLoss),
			SuggestedExitPrice: pos.StopLoss,
		}
	}

	// 2. Take profit.
	if (long && currentPrice >= pos.TakeProfit) || (!long && currentPrice <= pos.TakeProfit) {
		return ExitSignal{
			ShouldExit:         true,
			ExitType:           ExitTPHit,
			Reason:             fmt.Sprintf("price %.4f hit take profit %.4f", currentPrice, pos.TakeProfit),
			SuggestedExitPrice: pos.TakeProfit,
		}
	}

	// 3. Partial take profit, optionally moving the stop to breakeven.
	if e.cfg.EnablePartialTP && !pos.PartialTaken && pos.Exits != nil && pos.Exits.PartialTP1 != nil {
		partial := *pos.Exits.PartialTP1
		if (long && currentPrice >= partial) || (!long && currentPrice <= partial) {
			sig := ExitSignal{
				ShouldExit:         true,
				ExitType:           ExitPartial,
				Reason:             fmt.Sprintf("price %.4f reached partial take profit %.4f", currentPrice, partial),
				SuggestedExitPrice: partial,
				PartialClosePct:    e.cfg.PartialClosePct,
			}
			if e.cfg.MoveSLToBreakeven {
				sig.NewSL = types.Float(pos.Exits.BreakevenPrice)
			}
			return sig
		}
	}

	// 4. Time stop.
	if e.cfg.MaxHoldingDuration > 0 && now.Sub(pos.OpenedAt) >= e.cfg.MaxHoldingDuration {
		return ExitSignal{
			ShouldExit:         true,
			ExitType:           ExitTimeStop,
			Reason:             fmt.Sprintf("held %s, max %s", now.Sub(pos.OpenedAt), e.cfg.MaxHoldingDuration),
			SuggestedExitPrice: currentPrice,
		}
	}

	// 5. Signal reversal.
	if opposingScore >= e.cfg.ReversalScoreThreshold {
		return ExitSignal{
			ShouldExit:         true,
			ExitType:           ExitSignalReversal,
			Reason:             fmt.Sprintf("opposing entry score %.2f above %.2f", opposingScore, e.cfg.ReversalScoreThreshold),
			SuggestedExitPrice: currentPrice,
		}
	}

	return ExitSignal{}
}
