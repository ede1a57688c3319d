package trigger

import (
	"fmt"

	"github.com/tradekit/structurebot/internal/indicators"
	"github.com/tradekit/structurebot/internal/levels"
	"github.com/tradekit/structurebot/internal/market"
	"github.com/tradekit/structurebot/pkg/types"
)

// FindBestTrigger evaluates breakout, pullback and SFP patterns against
// every level within reach of the current price and returns the
// highest-confidence match. The regime gate is enforced here: chop and
// neutral regimes skip trend-following patterns (breakout, pullback) and
// only SFP entries stay eligible.
func (e *Engine) FindBestTrigger(ctx *market.Context, window []types.OHLCV, direction types.Direction) Result {
	if len(window) < 3 || direction == types.DirectionNeutral {
		return Result{
			Status:    StatusPending,
			Direction: direction,
			Reason:    "not enough bars or no direction to evaluate",
		}
	}

	atr := ctx.ATR()
	reach := atr * e.cfg.LevelReachATRMult
	marketEntryAllowed := ctx.Regime.Regime.AllowsMarketEntry()

	var best Result
	best.Status = StatusPending
	best.Direction = direction

	candidates := 0
	for i := range ctx.Levels.Levels {
		lv := &ctx.Levels.Levels[i]
		if abs(lv.PriceMid-ctx.CurrentPrice) > reach {
			continue
		}
		candidates++

		if marketEntryAllowed {
			if r, ok := e.checkBreakout(lv, window, direction); ok && r.Confidence > best.Confidence {
				best = r
			}
			if r, ok := e.checkPullback(lv, window, atr, direction); ok && r.Confidence > best.Confidence {
				best = r
			}
		}
		if r, ok := e.checkSFP(lv, window, direction); ok && r.Confidence > best.Confidence {
			best = r
		}
	}

	switch {
	case best.Status == StatusTriggered && best.Confidence >= e.cfg.MinTriggerConfidence:
		exit, err := e.CalculateExitLevels(ctx.CurrentPrice, direction, atr, &ctx.Levels)
		if err != nil {
			e.log.Warn().Err(err).Msg("trigger matched but exit computation failed")
			best.Status = StatusRejected
			best.Reason = fmt.Sprintf("exit levels rejected: %v", err)
			best.Exit = nil
			return best
		}
		best.Exit = exit
		e.log.Info().
			Str("type", best.Type.String()).
			Str("direction", direction.String()).
			Float64("confidence", best.Confidence).
			Msg("entry trigger matched")
		return best
	case best.Status == StatusTriggered:
		// Matched a pattern but below the confidence floor.
		return Result{
			Status:    StatusRejected,
			Type:      best.Type,
			Direction: direction,
			Reason: fmt.Sprintf("%s confidence %.2f below floor %.2f",
				best.Type, best.Confidence, e.cfg.MinTriggerConfidence),
		}
	case candidates > 0 && !marketEntryAllowed:
		return Result{
			Status:    StatusRejected,
			Direction: direction,
			Reason:    fmt.Sprintf("regime %s blocks market entries, no SFP found", ctx.Regime.Regime),
		}
	case candidates > 0:
		return Result{
			Status:    StatusPending,
			Direction: direction,
			Reason:    fmt.Sprintf("%d levels in reach, no pattern matched", candidates),
		}
	default:
		return Result{
			Status:    StatusPending,
			Direction: direction,
			Reason:    "no levels within reach of price",
		}
	}
}

// checkBreakout matches a close beyond the level zone on the last bar with
// volume confirmation; the prior bar must still be inside so the break is
// fresh.
func (e *Engine) checkBreakout(lv *levels.Level, window []types.OHLCV, dir types.Direction) (Result, bool) {
	last := window[len(window)-1]
	prev := window[len(window)-2]

	broke := false
	switch dir {
	case types.DirectionLong:
		broke = last.Close > lv.PriceHigh && prev.Close <= lv.PriceHigh
	case types.DirectionShort:
		broke = last.Close < lv.PriceLow && prev.Close >= lv.PriceLow
	}
	if !broke {
		return Result{}, false
	}

	volRatio, ok := e.volumeRatio(window)
	if !ok || volRatio < e.cfg.BreakoutVolumeRatio {
		return Result{}, false
	}

	conf := 0.6 + strengthBonus(lv.Strength)
	if volRatio >= e.cfg.BreakoutVolumeRatio*1.5 {
		conf += 0.1
	}
	return Result{
		Status:     StatusTriggered,
		Type:       TypeBreakout,
		Direction:  dir,
		Level:      lv,
		Confidence: clamp01(conf),
		Reason: fmt.Sprintf("close %.4f broke %s zone on %.1fx volume",
			last.Close, lv.Type, volRatio),
	}, true
}

// checkPullback matches price returning into a level zone after a
// directional move away from it of at least the ATR gate.
func (e *Engine) checkPullback(lv *levels.Level, window []types.OHLCV, atr float64, dir types.Direction) (Result, bool) {
	last := window[len(window)-1]

	// The last bar must be testing the zone while the close holds the
	// right side of it.
	inZone := false
	switch dir {
	case types.DirectionLong:
		inZone = last.Low <= lv.PriceHigh && last.Close >= lv.PriceLow
	case types.DirectionShort:
		inZone = last.High >= lv.PriceLow && last.Close <= lv.PriceHigh
	}
	if !inZone {
		return Result{}, false
	}

	// Look for the preceding directional move away from the zone.
	gate := atr * e.cfg.PullbackATRGate
	lookback := len(window) - 1
	if lookback > 10 {
		lookback = 10
	}
	moved := false
	for i := len(window) - 1 - lookback; i < len(window)-1; i++ {
		switch dir {
		case types.DirectionLong:
			if window[i].Close >= lv.PriceHigh+gate {
				moved = true
			}
		case types.DirectionShort:
			if window[i].Close <= lv.PriceLow-gate {
				moved = true
			}
		}
	}
	if !moved {
		return Result{}, false
	}

	return Result{
		Status:     StatusTriggered,
		Type:       TypePullback,
		Direction:  dir,
		Level:      lv,
		Confidence: clamp01(0.55 + strengthBonus(lv.Strength)),
		Reason: fmt.Sprintf("pullback into %s zone %.4f-%.4f after directional move",
			lv.Type, lv.PriceLow, lv.PriceHigh),
	}, true
}

// checkSFP matches a swing failure: the last bar's wick pierces beyond the
// level but the body closes back inside it. Long SFPs sweep the zone's low
// side, short SFPs the high side.
func (e *Engine) checkSFP(lv *levels.Level, window []types.OHLCV, dir types.Direction) (Result, bool) {
	last := window[len(window)-1]
	body := last.Body()
	if body == 0 {
		body = last.Close * 0.0001
	}

	matched := false
	var wick float64
	switch dir {
	case types.DirectionLong:
		wick = last.LowerWick()
		matched = last.Low < lv.PriceLow &&
			min(last.Open, last.Close) > lv.PriceLow &&
			wick >= body*e.cfg.SFPMinWickRatio
	case types.DirectionShort:
		wick = last.UpperWick()
		matched = last.High > lv.PriceHigh &&
			max(last.Open, last.Close) < lv.PriceHigh &&
			wick >= body*e.cfg.SFPMinWickRatio
	}
	if !matched {
		return Result{}, false
	}

	return Result{
		Status:     StatusTriggered,
		Type:       TypeSFP,
		Direction:  dir,
		Level:      lv,
		Confidence: clamp01(0.65 + strengthBonus(lv.Strength)),
		Reason: fmt.Sprintf("wick swept %s at %.4f, body closed back inside",
			lv.Type, lv.PriceMid),
	}, true
}

func strengthBonus(s levels.Strength) float64 {
	switch s {
	case levels.StrengthKey:
		return 0.2
	case levels.StrengthStrong:
		return 0.15
	case levels.StrengthModerate:
		return 0.1
	default:
		return 0
	}
}

// volumeRatio measures last-bar participation over the configured lookback,
// clamped to the available history.
func (e *Engine) volumeRatio(window []types.OHLCV) (float64, bool) {
	lookback := min(e.cfg.VolumeLookback, len(window)-1)
	if lookback < 1 {
		return 0, false
	}
	v, err := indicators.NewVolumeRatio(lookback).Calculate(window)
	if err != nil {
		return 0, false
	}
	return v, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
