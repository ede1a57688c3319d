package score

import (
	"fmt"

	"github.com/tradekit/structurebot/internal/market"
	"github.com/tradekit/structurebot/pkg/types"
)

// Condition is the comparison a rule applies to its indicator.
type Condition string

const (
	CondAbove          Condition = "above"
	CondBelow          Condition = "below"
	CondBetween        Condition = "between"
	CondExtreme        Condition = "extreme"
	CondAligned        Condition = "aligned"
	CondDirectionMatch Condition = "direction_match"
	CondCrosses        Condition = "crosses"
)

// Rule is one strategy-specific scoring rule: a condition evaluated against
// a mapped indicator value, weighted like a built-in component. A satisfied
// rule scores 1, an unsatisfied one 0; rules whose indicator is missing are
// excluded from the mean like any unavailable component.
type Rule struct {
	Indicator string    `json:"indicator"`
	Condition Condition `json:"condition"`
	Value     float64   `json:"value"`
	Value2    float64   `json:"value2,omitempty"`
	Weight    float64   `json:"weight"`
}

func (r Rule) Validate() error {
	switch r.Condition {
	case CondAbove, CondBelow, CondBetween, CondExtreme, CondAligned, CondDirectionMatch, CondCrosses:
	default:
		return fmt.Errorf("unsupported condition %q", r.Condition)
	}
	if r.Weight <= 0 {
		return fmt.Errorf("weight must be positive, got %.3f", r.Weight)
	}
	if r.Condition == CondBetween && r.Value2 <= r.Value {
		return fmt.Errorf("between requires value2 > value (%.3f, %.3f)", r.Value, r.Value2)
	}
	return nil
}

// evaluateRules maps every rule onto a component, preserving rule order.
func evaluateRules(rules []Rule, ctx *market.Context, dir types.Direction) []Component {
	out := make([]Component, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.evaluate(ctx, dir))
	}
	return out
}

func (r Rule) evaluate(ctx *market.Context, dir types.Direction) Component {
	name := fmt.Sprintf("%s_%s", r.Indicator, r.Condition)
	c := Component{Name: name, Score: 0.5, Weight: r.Weight}

	switch r.Condition {
	case CondAligned:
		// Alignment works on the EMA stack, not a single value.
		tc := trendComponent(ctx.Indicators, ctx.CurrentPrice, dir, r.Weight)
		tc.Name = name
		return tc
	case CondDirectionMatch:
		mc := macdComponent(ctx.Indicators, dir, r.Weight)
		mc.Name = name
		if mc.Available {
			mc.Score = boolScore(mc.Score > 0.5)
		}
		return mc
	}

	value, prev, ok := indicatorValue(ctx, r.Indicator)
	if !ok {
		return c
	}
	c.Available = true

	switch r.Condition {
	case CondAbove:
		c.Score = boolScore(value > r.Value)
	case CondBelow:
		c.Score = boolScore(value < r.Value)
	case CondBetween:
		c.Score = boolScore(value >= r.Value && value <= r.Value2)
	case CondExtreme:
		c.Score = boolScore(value < r.Value || value > r.Value2)
	case CondCrosses:
		if prev == nil {
			c.Available = false
			c.Score = 0.5
			return c
		}
		c.Score = boolScore((*prev < r.Value && value >= r.Value) ||
			(*prev > r.Value && value <= r.Value))
	}
	return c
}

// indicatorValue maps a rule's indicator name onto the snapshot. The second
// return is the previous-bar value where one is tracked (for crosses).
func indicatorValue(ctx *market.Context, name string) (float64, *float64, bool) {
	snap := ctx.Indicators
	deref := func(p *float64) (float64, *float64, bool) {
		if p == nil {
			return 0, nil, false
		}
		return *p, nil, true
	}

	switch name {
	case "close", "price":
		return ctx.CurrentPrice, snap.PrevClose, true
	case "rsi_14", "rsi":
		return deref(snap.RSI14)
	case "adx_14", "adx":
		return deref(snap.ADX14)
	case "atr_percent":
		return deref(snap.ATRPercent)
	case "macd":
		return deref(snap.MACD)
	case "macd_histogram":
		if snap.MACDHistogram == nil {
			return 0, nil, false
		}
		return *snap.MACDHistogram, snap.PrevMACDHistogram, true
	case "percent_b", "bollinger_percent_b":
		return deref(snap.BollingerPercentB)
	case "volume_ratio":
		return deref(snap.VolumeRatio)
	case "ema_20":
		return deref(snap.EMA20)
	case "ema_50":
		return deref(snap.EMA50)
	case "ema_200":
		return deref(snap.EMA200)
	default:
		return 0, nil, false
	}
}

func boolScore(ok bool) float64 {
	if ok {
		return 1.0
	}
	return 0.0
}
