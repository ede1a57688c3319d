package regime

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tradekit/structurebot/internal/indicators"
	"github.com/tradekit/structurebot/pkg/types"
)

// Detector classifies the current market regime from trend, momentum and
// volatility indicators. It is a pure function of the price window plus its
// config and never returns an error: degraded inputs produce a NEUTRAL
// result with confidence 0 and a reason.
type Detector struct {
	cfg Config
	log zerolog.Logger
}

func NewDetector(cfg Config, log zerolog.Logger) *Detector {
	return &Detector{
		cfg: cfg,
		log: log.With().Str("component", "regime_detector").Logger(),
	}
}

// Detect classifies the regime of the given window.
//
// Priority order, first match wins:
//  1. extreme ATR% -> VOLATILITY_EXPLOSIVE
//  2. EMA alignment x ADX strength -> trend regimes
//  3. no alignment and ADX below the weak threshold -> CHOP_RANGE
//  4. otherwise NEUTRAL
func (d *Detector) Detect(data []types.OHLCV) Result {
	if len(data) < d.cfg.MinBars {
		reason := fmt.Sprintf("window has %d bars, need %d", len(data), d.cfg.MinBars)
		d.log.Warn().Int("bars", len(data)).Msg("regime detection degraded: short window")
		return Result{
			Regime:         RegimeNeutral,
			Confidence:     0,
			Reasoning:      "insufficient data for regime classification",
			DegradedReason: reason,
		}
	}

	lastClose := data[len(data)-1].Close

	ema20, err20 := indicators.NewEMA(20).Calculate(data)
	ema50, err50 := indicators.NewEMA(50).Calculate(data)
	adx, errADX := indicators.NewADX(14).Calculate(data)
	atrPct, errATR := indicators.NewATR(14).CalculatePercent(data)
	rsi, errRSI := indicators.NewRSI(14).Calculate(data)

	if err20 != nil || err50 != nil {
		return Result{
			Regime:         RegimeNeutral,
			Confidence:     0,
			Reasoning:      "insufficient data for EMA alignment",
			Close:          lastClose,
			DegradedReason: "ema_unavailable",
		}
	}

	res := Result{
		Close: lastClose,
		EMA20: ema20,
		EMA50: ema50,
	}
	if errADX == nil {
		res.ADX = adx
	}
	if errATR == nil {
		res.ATRPercent = atrPct
	}
	if errRSI == nil {
		res.RSI = rsi
		res.MomentumState = d.momentumState(rsi)
	}

	// Volatility check trumps everything else.
	if errATR == nil && atrPct > d.cfg.VolatilityExtremeThreshold {
		res.Regime = RegimeVolatilityExplosive
		res.Confidence = 0.9
		res.VolatilityState = VolatilityExplosive
		res.Reasoning = fmt.Sprintf("ATR %.2f%% above extreme threshold %.2f%%",
			atrPct, d.cfg.VolatilityExtremeThreshold)
		return res
	}

	res.EMAAlignment = d.classifyAlignment(lastClose, ema20, ema50)
	if errADX == nil {
		res.ADXStrength = d.classifyADX(adx)
	}

	res.Regime, res.Confidence, res.Reasoning = d.combine(res.EMAAlignment, res.ADXStrength, adx)
	return res
}

// classifyAlignment buckets the close/EMA20/EMA50 stacking with a tolerance
// band around each comparison.
func (d *Detector) classifyAlignment(lastClose, ema20, ema50 float64) EMAAlignment {
	tol := lastClose * d.cfg.EMAAlignmentTolerancePct
	switch {
	// The inner comparisons get tolerance slack, but close must clear the
	// slow EMA by more than the tolerance for the stack to count.
	case lastClose > ema20-tol && ema20 > ema50-tol && lastClose > ema50+tol:
		return AlignmentBull
	case lastClose < ema20+tol && ema20 < ema50+tol && lastClose < ema50-tol:
		return AlignmentBear
	default:
		return AlignmentNeutral
	}
}

func (d *Detector) classifyADX(adx float64) ADXStrength {
	switch {
	case adx >= d.cfg.ADXStrongThreshold:
		return ADXStrong
	case adx >= d.cfg.ADXWeakThreshold:
		return ADXWeak
	default:
		return ADXNone
	}
}

func (d *Detector) momentumState(rsi float64) MomentumState {
	switch {
	case rsi >= d.cfg.RSIBullThreshold:
		return MomentumBullish
	case rsi <= d.cfg.RSIBearThreshold:
		return MomentumBearish
	default:
		return MomentumFlat
	}
}

func (d *Detector) combine(alignment EMAAlignment, strength ADXStrength, adx float64) (Regime, float64, string) {
	switch {
	case alignment == AlignmentBull && strength == ADXStrong:
		return RegimeStrongTrendBull, 0.8,
			fmt.Sprintf("bullish EMA stack with strong trend (ADX %.1f)", adx)
	case alignment == AlignmentBull && strength == ADXWeak:
		return RegimeWeakTrendBull, 0.6,
			fmt.Sprintf("bullish EMA stack with weak trend (ADX %.1f)", adx)
	case alignment == AlignmentBear && strength == ADXStrong:
		return RegimeStrongTrendBear, 0.8,
			fmt.Sprintf("bearish EMA stack with strong trend (ADX %.1f)", adx)
	case alignment == AlignmentBear && strength == ADXWeak:
		return RegimeWeakTrendBear, 0.6,
			fmt.Sprintf("bearish EMA stack with weak trend (ADX %.1f)", adx)
	case alignment == AlignmentNeutral && strength == ADXNone:
		return RegimeChopRange, 0.55,
			fmt.Sprintf("no EMA alignment and ADX %.1f below chop threshold", adx)
	default:
		return RegimeNeutral, 0.4, "mixed alignment and trend strength"
	}
}
