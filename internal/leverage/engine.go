package leverage

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tradekit/structurebot/internal/regime"
)

// Engine maps asset tier and regime into a bounded leverage figure. It is
// stateless aside from its config and safe for concurrent use.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		log: log.With().Str("component", "leverage_rules").Logger(),
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Calculate returns the leverage decision for a symbol under the given
// regime. The tier ceiling is the hard bound: regime boosts can never push
// the final figure above it, and the floor is MinLeverage.
func (e *Engine) Calculate(symbol string, reg regime.Regime) Result {
	tier := e.tierFor(symbol)
	base := e.tierMax(tier)
	mult := e.regimeMultiplier(reg)

	final := base * mult
	action := ActionKept
	switch {
	case mult < 1:
		action = ActionReduced
	case mult > 1:
		action = ActionBoosted
	}

	if ceiling := e.tierMax(tier); final > ceiling {
		final = ceiling
		action = ActionCapped
	}
	if final < e.cfg.MinLeverage {
		final = e.cfg.MinLeverage
	}

	res := Result{
		Symbol:           symbol,
		Tier:             tier,
		BaseLeverage:     base,
		RegimeMultiplier: mult,
		FinalLeverage:    final,
		Action:           action,
		Reason: fmt.Sprintf("%s tier base %.1fx, %s multiplier %.2f",
			tier, base, reg, mult),
	}
	e.log.Debug().
		Str("symbol", symbol).
		Str("tier", tier.String()).
		Float64("final", final).
		Msg("leverage computed")
	return res
}

func (e *Engine) tierFor(symbol string) Tier {
	s := strings.ToUpper(symbol)
	for _, b := range e.cfg.BlueChipSymbols {
		if strings.EqualFold(b, s) {
			return TierBlueChip
		}
	}
	for _, m := range e.cfg.MidCapSymbols {
		if strings.EqualFold(m, s) {
			return TierMidCap
		}
	}
	return TierSmallCap
}

func (e *Engine) tierMax(t Tier) float64 {
	switch t {
	case TierBlueChip:
		return e.cfg.BlueChipMax
	case TierMidCap:
		return e.cfg.MidCapMax
	default:
		return e.cfg.SmallCapMax
	}
}

func (e *Engine) regimeMultiplier(r regime.Regime) float64 {
	switch r {
	case regime.RegimeStrongTrendBull, regime.RegimeStrongTrendBear:
		return e.cfg.StrongTrendMultiplier
	case regime.RegimeWeakTrendBull, regime.RegimeWeakTrendBear:
		return e.cfg.WeakTrendMultiplier
	case regime.RegimeChopRange:
		return e.cfg.ChopMultiplier
	case regime.RegimeVolatilityExplosive:
		return e.cfg.VolatileMultiplier
	default:
		return e.cfg.NeutralMultiplier
	}
}
