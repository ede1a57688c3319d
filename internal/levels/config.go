package levels

import "fmt"

// PivotType selects the pivot-point formula.
type PivotType string

const (
	PivotStandard  PivotType = "standard"
	PivotFibonacci PivotType = "fibonacci"
	PivotCamarilla PivotType = "camarilla"
)

// Config holds the level-detection parameters.
type Config struct {
	// SwingLookback is the number of bars on each side a local extremum
	// must dominate to count as a swing point.
	SwingLookback int `json:"swing_lookback"`

	// ProximityMergePct is the zone-merge threshold as a percentage of the
	// level's mid price. It also bounds cluster bucketing.
	ProximityMergePct float64 `json:"proximity_merge_pct"`

	// ZoneWidthATRFactor sizes point-level zones as a fraction of ATR.
	ZoneWidthATRFactor float64 `json:"zone_width_atr_factor"`

	EnablePivots      bool      `json:"enable_pivots"`
	PivotVariant      PivotType `json:"pivot_variant"`
	EnableDailyWeekly bool      `json:"enable_daily_weekly"`
	EnableVWAP        bool      `json:"enable_vwap"`

	// Touch thresholds for strength grading.
	KeyTouchThreshold    int `json:"key_touch_threshold"`
	StrongTouchThreshold int `json:"strong_touch_threshold"`

	// MaxLevels caps the final list; supports and resistances are kept in
	// equal halves sorted by strength then proximity.
	MaxLevels int `json:"max_levels"`

	ATRPeriod int `json:"atr_period"`
}

func DefaultConfig() Config {
	return Config{
		SwingLookback:        5,
		ProximityMergePct:    0.3,
		ZoneWidthATRFactor:   0.25,
		EnablePivots:         true,
		PivotVariant:         PivotStandard,
		EnableDailyWeekly:    true,
		EnableVWAP:           true,
		KeyTouchThreshold:    5,
		StrongTouchThreshold: 3,
		MaxLevels:            12,
		ATRPeriod:            14,
	}
}

func (c Config) Validate() error {
	switch c.PivotVariant {
	case PivotStandard, PivotFibonacci, PivotCamarilla:
	default:
		return fmt.Errorf("unsupported pivot variant %q", c.PivotVariant)
	}
	if c.SwingLookback < 1 {
		return fmt.Errorf("swing_lookback must be at least 1, got %d", c.SwingLookback)
	}
	if c.ProximityMergePct <= 0 {
		return fmt.Errorf("proximity_merge_pct must be positive, got %.3f", c.ProximityMergePct)
	}
	if c.MaxLevels < 2 {
		return fmt.Errorf("max_levels must be at least 2, got %d", c.MaxLevels)
	}
	if c.StrongTouchThreshold > c.KeyTouchThreshold {
		return fmt.Errorf("strong_touch_threshold (%d) above key_touch_threshold (%d)",
			c.StrongTouchThreshold, c.KeyTouchThreshold)
	}
	return nil
}
