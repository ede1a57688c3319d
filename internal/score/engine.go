package score

import (
	"github.com/rs/zerolog"

	"github.com/tradekit/structurebot/internal/market"
	"github.com/tradekit/structurebot/internal/regime"
	"github.com/tradekit/structurebot/pkg/types"
)

// Engine computes a normalized entry score for one trade direction from a
// market context. It never fails: any internal panic degrades to the neutral
// default so a bad data point cannot take the pipeline down.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		log: log.With().Str("component", "entry_score").Logger(),
	}
}

// Calculate scores the context for the given direction. The final score is
// the weighted mean of the available components; components whose indicator
// is missing are reported with a neutral 0.5 but excluded from the mean.
func (e *Engine) Calculate(ctx *market.Context, direction types.Direction) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("context_id", ctx.ContextID).
				Msg("entry score degraded after panic")
			res = neutralResult(direction, "internal error during scoring")
		}
	}()

	var components []Component
	if len(e.cfg.Rules) > 0 {
		components = evaluateRules(e.cfg.Rules, ctx, direction)
	} else {
		components = e.builtinComponents(ctx, direction)
	}

	final, any := aggregate(components)
	if !any {
		res = neutralResult(direction, "no indicator available for scoring")
		res.Components = components
		return res
	}

	return Result{
		FinalScore: final,
		Quality:    e.cfg.quality(final),
		Direction:  direction,
		Components: components,
	}
}

// aggregate computes the weighted mean over available components. The second
// return is false when nothing was available.
func aggregate(components []Component) (float64, bool) {
	var sum, weights float64
	for _, c := range components {
		if !c.Available {
			continue
		}
		sum += c.Score * c.Weight
		weights += c.Weight
	}
	if weights == 0 {
		return 0.5, false
	}
	score := sum / weights
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, true
}

func neutralResult(direction types.Direction, reason string) Result {
	return Result{
		FinalScore:     0.5,
		Quality:        QualityAcceptable,
		Direction:      direction,
		DegradedReason: reason,
	}
}

func (e *Engine) builtinComponents(ctx *market.Context, dir types.Direction) []Component {
	snap := ctx.Indicators
	// Insertion order is meaningful: audit and UI list components this way.
	return []Component{
		trendComponent(snap, ctx.CurrentPrice, dir, e.cfg.TrendWeight),
		rsiComponent(snap.RSI14, dir, e.cfg.RSIWeight),
		macdComponent(snap, dir, e.cfg.MACDWeight),
		adxComponent(snap.ADX14, e.cfg.ADXWeight),
		meanReversionComponent(snap.BollingerPercentB, dir, e.cfg.MeanReversionWeight),
		volumeComponent(snap.VolumeRatio, e.cfg.VolumeWeight),
		regimeComponent(ctx.Regime.Regime, dir, e.cfg.RegimeWeight),
	}
}

// trendComponent grades EMA stacking. Each ordered pair in the stack
// contributes an equal share; a missing EMA200 shortens the stack rather
// than zeroing the component.
func trendComponent(snap types.IndicatorSnapshot, price float64, dir types.Direction, weight float64) Component {
	c := Component{Name: "trend_alignment", Score: 0.5, Weight: weight}
	if snap.EMA20 == nil || snap.EMA50 == nil {
		return c
	}
	c.Available = true

	type pair struct{ a, b float64 }
	pairs := []pair{
		{price, *snap.EMA20},
		{*snap.EMA20, *snap.EMA50},
	}
	if snap.EMA200 != nil {
		pairs = append(pairs, pair{*snap.EMA50, *snap.EMA200})
	}

	hits := 0
	for _, p := range pairs {
		if (dir == types.DirectionLong && p.a > p.b) ||
			(dir == types.DirectionShort && p.a < p.b) {
			hits++
		}
	}
	c.Score = float64(hits) / float64(len(pairs))
	return c
}

// rsiComponent applies the documented RSI breakpoints for the direction:
// oversold readings favor longs, overbought favor shorts, the 40-60 band is
// neutral.
func rsiComponent(rsi *float64, dir types.Direction, weight float64) Component {
	c := Component{Name: "rsi_momentum", Score: 0.5, Weight: weight}
	if rsi == nil {
		return c
	}
	c.Available = true

	v := *rsi
	long := func() float64 {
		switch {
		case v < 30:
			return 1.0
		case v < 40:
			return 0.8
		case v <= 60:
			return 0.6
		case v <= 70:
			return 0.4
		default:
			return 0.2
		}
	}

	switch dir {
	case types.DirectionLong:
		c.Score = long()
	case types.DirectionShort:
		// Mirror of the long breakpoints around RSI 50.
		v = 100 - v
		c.Score = long()
	}
	return c
}

// macdComponent scores histogram sign agreement with the direction, with a
// bonus when the histogram is expanding in that direction.
func macdComponent(snap types.IndicatorSnapshot, dir types.Direction, weight float64) Component {
	c := Component{Name: "macd_momentum", Score: 0.5, Weight: weight}
	if snap.MACDHistogram == nil {
		return c
	}
	c.Available = true

	hist := *snap.MACDHistogram
	sign := 1.0
	if dir == types.DirectionShort {
		sign = -1.0
	}

	switch {
	case hist*sign > 0:
		c.Score = 0.75
		if snap.PrevMACDHistogram != nil && (hist-*snap.PrevMACDHistogram)*sign > 0 {
			c.Score = 1.0
		}
	case hist == 0:
		c.Score = 0.5
	default:
		c.Score = 0.25
	}
	return c
}

func adxComponent(adx *float64, weight float64) Component {
	c := Component{Name: "adx_strength", Score: 0.5, Weight: weight}
	if adx == nil {
		return c
	}
	c.Available = true

	v := *adx
	switch {
	case v >= 30:
		c.Score = 1.0
	case v >= 25:
		c.Score = 0.8
	case v >= 20:
		c.Score = 0.6
	case v >= 15:
		c.Score = 0.4
	default:
		c.Score = 0.2
	}
	return c
}

// meanReversionComponent favors entries stretched against the direction:
// price near or below the lower band scores high for longs.
func meanReversionComponent(percentB *float64, dir types.Direction, weight float64) Component {
	c := Component{Name: "mean_reversion", Score: 0.5, Weight: weight}
	if percentB == nil {
		return c
	}
	c.Available = true

	v := *percentB
	if dir == types.DirectionShort {
		v = 1 - v
	}
	switch {
	case v < 0:
		c.Score = 1.0
	case v < 0.2:
		c.Score = 0.8
	case v < 0.5:
		c.Score = 0.6
	case v < 0.8:
		c.Score = 0.4
	default:
		c.Score = 0.2
	}
	return c
}

func volumeComponent(ratio *float64, weight float64) Component {
	c := Component{Name: "volume_ratio", Score: 0.5, Weight: weight}
	if ratio == nil {
		return c
	}
	c.Available = true

	v := *ratio
	switch {
	case v >= 2.0:
		c.Score = 1.0
	case v >= 1.5:
		c.Score = 0.8
	case v >= 1.0:
		c.Score = 0.6
	case v >= 0.7:
		c.Score = 0.4
	default:
		c.Score = 0.2
	}
	return c
}

// regimeComponent rewards direction/regime agreement and punishes fighting a
// strong opposing trend.
func regimeComponent(r regime.Regime, dir types.Direction, weight float64) Component {
	c := Component{Name: "regime_match", Weight: weight, Available: true}

	bull := dir == types.DirectionLong
	switch r {
	case regime.RegimeStrongTrendBull:
		c.Score = pick(bull, 1.0, 0.0)
	case regime.RegimeWeakTrendBull:
		c.Score = pick(bull, 0.7, 0.2)
	case regime.RegimeStrongTrendBear:
		c.Score = pick(bull, 0.0, 1.0)
	case regime.RegimeWeakTrendBear:
		c.Score = pick(bull, 0.2, 0.7)
	case regime.RegimeChopRange:
		c.Score = 0.3
	case regime.RegimeVolatilityExplosive:
		c.Score = 0.3
	default:
		c.Score = 0.5
	}
	return c
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
