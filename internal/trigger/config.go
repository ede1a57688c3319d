package trigger

import (
	"fmt"
	"time"
)

// Config holds trigger matching and exit management parameters.
type Config struct {
	// Trigger evaluation.
	LevelReachATRMult    float64 `json:"level_reach_atr_mult"`
	BreakoutVolumeRatio  float64 `json:"breakout_volume_ratio"`
	VolumeLookback       int     `json:"volume_lookback"`
	PullbackATRGate      float64 `json:"pullback_atr_gate"`
	SFPMinWickRatio      float64 `json:"sfp_min_wick_ratio"`
	MinTriggerConfidence float64 `json:"min_trigger_confidence"`

	// Stop loss / take profit sizing.
	UseATRExits   bool    `json:"use_atr_exits"`
	SLATRMult     float64 `json:"sl_atr_mult"`
	TPATRMult     float64 `json:"tp_atr_mult"`
	SLPercent     float64 `json:"sl_percent"`
	TPPercent     float64 `json:"tp_percent"`
	MinRiskReward float64 `json:"min_risk_reward"`

	// Structure stop.
	EnableStructureStop bool    `json:"enable_structure_stop"`
	StructureStopATRPad float64 `json:"structure_stop_atr_pad"`

	// Partial take profit.
	EnablePartialTP   bool    `json:"enable_partial_tp"`
	PartialTPFraction float64 `json:"partial_tp_fraction"`
	PartialClosePct   float64 `json:"partial_close_pct"`
	MoveSLToBreakeven bool    `json:"move_sl_to_breakeven"`

	// Trailing stop.
	TrailingActivationProfitPct float64 `json:"trailing_activation_profit_pct"`
	TrailingATRMult             float64 `json:"trailing_atr_mult"`
	TrailingPercent             float64 `json:"trailing_percent"`
	TrailingStepPercent         float64 `json:"trailing_step_percent"`
	UseATRTrailing              bool    `json:"use_atr_trailing"`

	// Time stop.
	MaxHoldingDuration time.Duration `json:"max_holding_duration"`

	// Signal reversal.
	ReversalScoreThreshold float64 `json:"reversal_score_threshold"`
}

func DefaultConfig() Config {
	return Config{
		LevelReachATRMult:    3.0,
		BreakoutVolumeRatio:  1.2,
		VolumeLookback:       20,
		PullbackATRGate:      1.0,
		SFPMinWickRatio:      1.0,
		MinTriggerConfidence: 0.5,

		UseATRExits:   true,
		SLATRMult:     2.0,
		TPATRMult:     3.0,
		SLPercent:     1.5,
		TPPercent:     3.0,
		MinRiskReward: 1.0,

		EnableStructureStop: true,
		StructureStopATRPad: 0.5,

		EnablePartialTP:   true,
		PartialTPFraction: 0.5,
		PartialClosePct:   50,
		MoveSLToBreakeven: true,

		TrailingActivationProfitPct: 1.0,
		TrailingATRMult:             1.5,
		TrailingPercent:             1.0,
		TrailingStepPercent:         0.1,
		UseATRTrailing:              true,

		MaxHoldingDuration: 48 * time.Hour,

		ReversalScoreThreshold: 0.6,
	}
}

func (c Config) Validate() error {
	if c.VolumeLookback < 1 {
		return fmt.Errorf("volume_lookback must be at least 1, got %d", c.VolumeLookback)
	}
	if c.MinRiskReward <= 0 {
		return fmt.Errorf("min_risk_reward must be positive, got %.2f", c.MinRiskReward)
	}
	if c.UseATRExits && (c.SLATRMult <= 0 || c.TPATRMult <= 0) {
		return fmt.Errorf("ATR exit multipliers must be positive (sl %.2f, tp %.2f)",
			c.SLATRMult, c.TPATRMult)
	}
	if !c.UseATRExits && (c.SLPercent <= 0 || c.TPPercent <= 0) {
		return fmt.Errorf("percent exits must be positive (sl %.2f, tp %.2f)",
			c.SLPercent, c.TPPercent)
	}
	if c.PartialTPFraction <= 0 || c.PartialTPFraction >= 1 {
		return fmt.Errorf("partial_tp_fraction must be in (0,1), got %.2f", c.PartialTPFraction)
	}
	return nil
}
