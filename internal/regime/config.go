package regime

import "fmt"

// Config holds the regime classification thresholds.
type Config struct {
	// MinBars is the minimum window length for a classification; shorter
	// windows degrade to NEUTRAL with confidence 0.
	MinBars int `json:"min_bars"`

	// VolatilityExtremeThreshold is the ATR% above which the market is
	// tagged VOLATILITY_EXPLOSIVE regardless of trend.
	VolatilityExtremeThreshold float64 `json:"volatility_extreme_threshold"`

	// EMAAlignmentTolerancePct is the slack, as a fraction of price, allowed
	// when comparing close/EMA20/EMA50 ordering.
	EMAAlignmentTolerancePct float64 `json:"ema_alignment_tolerance_pct"`

	ADXStrongThreshold float64 `json:"adx_strong_threshold"`
	ADXWeakThreshold   float64 `json:"adx_weak_threshold"`

	// RSI bounds for the momentum component state.
	RSIBullThreshold float64 `json:"rsi_bull_threshold"`
	RSIBearThreshold float64 `json:"rsi_bear_threshold"`
}

func DefaultConfig() Config {
	return Config{
		MinBars:                    50,
		VolatilityExtremeThreshold: 5.0,
		EMAAlignmentTolerancePct:   0.001,
		ADXStrongThreshold:         30,
		ADXWeakThreshold:           20,
		RSIBullThreshold:           55,
		RSIBearThreshold:           45,
	}
}

func (c Config) Validate() error {
	if c.MinBars <= 0 {
		return fmt.Errorf("min_bars must be positive, got %d", c.MinBars)
	}
	if c.ADXWeakThreshold >= c.ADXStrongThreshold {
		return fmt.Errorf("adx_weak_threshold (%.1f) must be below adx_strong_threshold (%.1f)",
			c.ADXWeakThreshold, c.ADXStrongThreshold)
	}
	if c.VolatilityExtremeThreshold <= 0 {
		return fmt.Errorf("volatility_extreme_threshold must be positive, got %.2f",
			c.VolatilityExtremeThreshold)
	}
	return nil
}
