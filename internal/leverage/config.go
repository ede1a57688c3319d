package leverage

import "fmt"

// Config maps asset tiers to leverage ceilings and regimes to multipliers.
type Config struct {
	// Tier ceilings, also used as the base leverage per tier.
	BlueChipMax float64 `json:"blue_chip_max"`
	MidCapMax   float64 `json:"mid_cap_max"`
	SmallCapMax float64 `json:"small_cap_max"`

	// Symbols assigned to the upper tiers. Anything unlisted is small cap.
	BlueChipSymbols []string `json:"blue_chip_symbols"`
	MidCapSymbols   []string `json:"mid_cap_symbols"`

	// Regime multipliers applied to the tier base.
	StrongTrendMultiplier float64 `json:"strong_trend_multiplier"`
	WeakTrendMultiplier   float64 `json:"weak_trend_multiplier"`
	ChopMultiplier        float64 `json:"chop_multiplier"`
	VolatileMultiplier    float64 `json:"volatile_multiplier"`
	NeutralMultiplier     float64 `json:"neutral_multiplier"`

	MinLeverage float64 `json:"min_leverage"`
}

func DefaultConfig() Config {
	return Config{
		BlueChipMax: 20,
		MidCapMax:   10,
		SmallCapMax: 5,

		BlueChipSymbols: []string{"BTCUSDT", "ETHUSDT"},
		MidCapSymbols:   []string{"SOLUSDT", "BNBUSDT", "XRPUSDT", "ADAUSDT"},

		StrongTrendMultiplier: 1.0,
		WeakTrendMultiplier:   0.75,
		ChopMultiplier:        0.5,
		VolatileMultiplier:    0.25,
		NeutralMultiplier:     0.5,

		MinLeverage: 1,
	}
}

func (c Config) Validate() error {
	if c.BlueChipMax <= 0 || c.MidCapMax <= 0 || c.SmallCapMax <= 0 {
		return fmt.Errorf("tier maxima must be positive (blue %.1f, mid %.1f, small %.1f)",
			c.BlueChipMax, c.MidCapMax, c.SmallCapMax)
	}
	if c.MinLeverage < 1 {
		return fmt.Errorf("min_leverage must be at least 1, got %.1f", c.MinLeverage)
	}
	for _, m := range []float64{
		c.StrongTrendMultiplier, c.WeakTrendMultiplier,
		c.ChopMultiplier, c.VolatileMultiplier, c.NeutralMultiplier,
	} {
		if m <= 0 {
			return fmt.Errorf("regime multipliers must be positive, got %.2f", m)
		}
	}
	return nil
}
