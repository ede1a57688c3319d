package regime

// Regime classifies current market behavior.
type Regime int

const (
	RegimeNeutral Regime = iota
	RegimeStrongTrendBull
	RegimeWeakTrendBull
	RegimeStrongTrendBear
	RegimeWeakTrendBear
	RegimeChopRange
	RegimeVolatilityExplosive
)

func (r Regime) String() string {
	switch r {
	case RegimeStrongTrendBull:
		return "STRONG_TREND_BULL"
	case RegimeWeakTrendBull:
		return "WEAK_TREND_BULL"
	case RegimeStrongTrendBear:
		return "STRONG_TREND_BEAR"
	case RegimeWeakTrendBear:
		return "WEAK_TREND_BEAR"
	case RegimeChopRange:
		return "CHOP_RANGE"
	case RegimeVolatilityExplosive:
		return "VOLATILITY_EXPLOSIVE"
	default:
		return "NEUTRAL"
	}
}

// AllowsMarketEntry reports whether trend-following entries (breakout,
// pullback) are sanctioned in this regime. Chop and neutral conditions only
// permit SFP-style entries.
func (r Regime) AllowsMarketEntry() bool {
	switch r {
	case RegimeChopRange, RegimeNeutral:
		return false
	default:
		return true
	}
}

// IsBullish reports whether the regime is a bull trend.
func (r Regime) IsBullish() bool {
	return r == RegimeStrongTrendBull || r == RegimeWeakTrendBull
}

// IsBearish reports whether the regime is a bear trend.
func (r Regime) IsBearish() bool {
	return r == RegimeStrongTrendBear || r == RegimeWeakTrendBear
}

// EMAAlignment describes the close/EMA20/EMA50 stacking.
type EMAAlignment int

const (
	AlignmentNeutral EMAAlignment = iota
	AlignmentBull
	AlignmentBear
)

func (a EMAAlignment) String() string {
	switch a {
	case AlignmentBull:
		return "BULL"
	case AlignmentBear:
		return "BEAR"
	default:
		return "NEUTRAL"
	}
}

// ADXStrength buckets the trend-strength reading.
type ADXStrength int

const (
	ADXNone ADXStrength = iota
	ADXWeak
	ADXStrong
)

func (s ADXStrength) String() string {
	switch s {
	case ADXStrong:
		return "STRONG"
	case ADXWeak:
		return "WEAK"
	default:
		return "NONE"
	}
}

// VolatilityState flags abnormal ATR expansion.
type VolatilityState int

const (
	VolatilityNormal VolatilityState = iota
	VolatilityExplosive
)

func (v VolatilityState) String() string {
	if v == VolatilityExplosive {
		return "EXPLOSIVE"
	}
	return "NORMAL"
}

// MomentumState summarizes the RSI reading.
type MomentumState int

const (
	MomentumFlat MomentumState = iota
	MomentumBullish
	MomentumBearish
)

func (m MomentumState) String() string {
	switch m {
	case MomentumBullish:
		return "BULLISH"
	case MomentumBearish:
		return "BEARISH"
	default:
		return "FLAT"
	}
}

// Result is the immutable output of one regime detection pass.
type Result struct {
	Regime     Regime  `json:"regime"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`

	EMAAlignment    EMAAlignment    `json:"ema_alignment"`
	ADXStrength     ADXStrength     `json:"adx_strength"`
	VolatilityState VolatilityState `json:"volatility_state"`
	MomentumState   MomentumState   `json:"momentum_state"`

	// Raw indicator values backing the classification.
	ADX        float64 `json:"adx"`
	ATRPercent float64 `json:"atr_percent"`
	RSI        float64 `json:"rsi"`
	EMA20      float64 `json:"ema_20"`
	EMA50      float64 `json:"ema_50"`
	Close      float64 `json:"close"`

	// DegradedReason is set when the detector fell back to a neutral
	// result instead of classifying, e.g. on a short window.
	DegradedReason string `json:"degraded_reason,omitempty"`
}
