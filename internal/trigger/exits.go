package trigger

import (
	"errors"
	"fmt"
	"math"

	"github.com/tradekit/structurebot/internal/levels"
	"github.com/tradekit/structurebot/pkg/types"
)

var ErrInvalidEntry = errors.New("trigger: invalid entry price or direction")

// CalculateExitLevels derives the full exit plan for an entry. A missing or
// invalid ATR falls back to 1% of the entry price. The minimum risk:reward
// is enforced by extending the take profit, never by tightening the stop. A
// structure stop can only tighten the stop, never loosen it.
func (e *Engine) CalculateExitLevels(entry float64, direction types.Direction, atr float64, lvls *levels.Result) (*ExitLevels, error) {
	if entry <= 0 || direction == types.DirectionNeutral {
		return nil, ErrInvalidEntry
	}
	if atr <= 0 || math.IsNaN(atr) || math.IsInf(atr, 0) {
		atr = entry * 0.01
	}

	var slDistance, tpDistance float64
	slMethod, tpMethod := "percent", "percent"
	if e.cfg.UseATRExits {
		slDistance = atr * e.cfg.SLATRMult
		tpDistance = atr * e.cfg.TPATRMult
		slMethod, tpMethod = "atr", "atr"
	} else {
		slDistance = entry * e.cfg.SLPercent / 100
		tpDistance = entry * e.cfg.TPPercent / 100
	}

	// Enforce the minimum risk:reward by extending TP only.
	if tpDistance/slDistance < e.cfg.MinRiskReward {
		tpDistance = slDistance * e.cfg.MinRiskReward
		tpMethod = "rr_extended"
	}

	out := &ExitLevels{
		EntryPrice:     entry,
		Direction:      direction,
		BreakevenPrice: entry,
		SLDistance:     slDistance,
		TPDistance:     tpDistance,
		SLMethod:       slMethod,
		TPMethod:       tpMethod,
	}

	switch direction {
	case types.DirectionLong:
		out.StopLoss = entry - slDistance
		out.TakeProfit = entry + tpDistance
		if e.cfg.TrailingActivationProfitPct > 0 {
			out.TrailingActivation = types.Float(entry * (1 + e.cfg.TrailingActivationProfitPct/100))
		}
		if e.cfg.EnablePartialTP {
			out.PartialTP1 = types.Float(entry + tpDistance*e.cfg.PartialTPFraction)
		}
	case types.DirectionShort:
		out.StopLoss = entry + slDistance
		out.TakeProfit = entry - tpDistance
		if e.cfg.TrailingActivationProfitPct > 0 {
			out.TrailingActivation = types.Float(entry * (1 - e.cfg.TrailingActivationProfitPct/100))
		}
		if e.cfg.EnablePartialTP {
			out.PartialTP1 = types.Float(entry - tpDistance*e.cfg.PartialTPFraction)
		}
	}

	e.applyStructureStop(out, entry, atr, lvls)

	out.SLDistance = abs(entry - out.StopLoss)
	out.TPDistance = abs(out.TakeProfit - entry)
	out.RiskReward = out.TPDistance / out.SLDistance
	out.SLPercent = out.SLDistance / entry * 100
	out.TPPercent = out.TPDistance / entry * 100

	if err := out.validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// applyStructureStop overrides the stop with a level-derived one when a
// nearer support (long) or resistance (short) exists and the padded stop is
// tighter than the computed one.
func (e *Engine) applyStructureStop(out *ExitLevels, entry, atr float64, lvls *levels.Result) {
	if !e.cfg.EnableStructureStop || lvls == nil {
		return
	}
	pad := atr * e.cfg.StructureStopATRPad

	switch out.Direction {
	case types.DirectionLong:
		sup, ok := lvls.NearestSupport(entry)
		if !ok {
			return
		}
		candidate := sup.PriceLow - pad
		if candidate > out.StopLoss && candidate < entry {
			out.StopLoss = candidate
			out.StructureStop = types.Float(candidate)
			out.SLMethod = "structure"
		}
	case types.DirectionShort:
		res, ok := lvls.NearestResistance(entry)
		if !ok {
			return
		}
		candidate := res.PriceHigh + pad
		if candidate < out.StopLoss && candidate > entry {
			out.StopLoss = candidate
			out.StructureStop = types.Float(candidate)
			out.SLMethod = "structure"
		}
	}
}

// validate checks the directional ordering invariant.
func (x *ExitLevels) validate() error {
	switch x.Direction {
	case types.DirectionLong:
		if !(x.StopLoss < x.EntryPrice && x.EntryPrice < x.TakeProfit) {
			return fmt.Errorf("long exit ordering violated: sl %.4f entry %.4f tp %.4f",
				x.StopLoss, x.EntryPrice, x.TakeProfit)
		}
	case types.DirectionShort:
		if !(x.TakeProfit < x.EntryPrice && x.EntryPrice < x.StopLoss) {
			return fmt.Errorf("short exit ordering violated: tp %.4f entry %.4f sl %.4f",
				x.TakeProfit, x.EntryPrice, x.StopLoss)
		}
	}
	return nil
}
