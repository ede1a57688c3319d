package score

import "fmt"

// Config holds component weights and quality thresholds.
type Config struct {
	TrendWeight         float64 `json:"trend_weight"`
	RSIWeight           float64 `json:"rsi_weight"`
	MACDWeight          float64 `json:"macd_weight"`
	ADXWeight           float64 `json:"adx_weight"`
	MeanReversionWeight float64 `json:"mean_reversion_weight"`
	VolumeWeight        float64 `json:"volume_weight"`
	RegimeWeight        float64 `json:"regime_weight"`

	ExcellentThreshold  float64 `json:"excellent_threshold"`
	GoodThreshold       float64 `json:"good_threshold"`
	AcceptableThreshold float64 `json:"acceptable_threshold"`

	// Rules, when non-empty, replaces the built-in components with a
	// strategy-specific rule set evaluated against the indicator snapshot.
	Rules []Rule `json:"rules,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		TrendWeight:         0.25,
		RSIWeight:           0.15,
		MACDWeight:          0.15,
		ADXWeight:           0.15,
		MeanReversionWeight: 0.10,
		VolumeWeight:        0.10,
		RegimeWeight:        0.10,
		ExcellentThreshold:  0.80,
		GoodThreshold:       0.65,
		AcceptableThreshold: 0.50,
	}
}

func (c Config) Validate() error {
	if c.AcceptableThreshold >= c.GoodThreshold || c.GoodThreshold >= c.ExcellentThreshold {
		return fmt.Errorf("quality thresholds must be strictly increasing: %.2f/%.2f/%.2f",
			c.AcceptableThreshold, c.GoodThreshold, c.ExcellentThreshold)
	}
	for _, r := range c.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %q: %w", r.Indicator, err)
		}
	}
	return nil
}

// quality maps a final score onto its bucket.
func (c Config) quality(score float64) Quality {
	switch {
	case score >= c.ExcellentThreshold:
		return QualityExcellent
	case score >= c.GoodThreshold:
		return QualityGood
	case score >= c.AcceptableThreshold:
		return QualityAcceptable
	default:
		return QualityWeak
	}
}
