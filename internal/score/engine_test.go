package score

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradekit/structurebot/internal/market"
	"github.com/tradekit/structurebot/internal/regime"
	"github.com/tradekit/structurebot/pkg/types"
)

func testEngine() *Engine {
	return NewEngine(DefaultConfig(), zerolog.Nop())
}

// bullishContext returns a context with every indicator favoring a long.
func bullishContext() *market.Context {
	return &market.Context{
		ContextID:    "test",
		Symbol:       "BTCUSDT",
		CurrentPrice: 110,
		Regime:       regime.Result{Regime: regime.RegimeStrongTrendBull},
		Indicators: types.IndicatorSnapshot{
			EMA20:             types.Float(108),
			EMA50:             types.Float(105),
			EMA200:            types.Float(100),
			RSI14:             types.Float(35),
			ADX14:             types.Float(35),
			MACDHistogram:     types.Float(0.5),
			PrevMACDHistogram: types.Float(0.3),
			BollingerPercentB: types.Float(0.3),
			VolumeRatio:       types.Float(1.8),
		},
	}
}

func TestCalculate_BullishContextScoresHighForLong(t *testing.T) {
	res := testEngine().Calculate(bullishContext(), types.DirectionLong)

	assert.GreaterOrEqual(t, res.FinalScore, 0.7)
	assert.LessOrEqual(t, res.FinalScore, 1.0)
	assert.Equal(t, types.DirectionLong, res.Direction)
	assert.Empty(t, res.DegradedReason)

	// Same context scored for a short is materially worse.
	short := testEngine().Calculate(bullishContext(), types.DirectionShort)
	assert.Less(t, short.FinalScore, res.FinalScore)
}

func TestCalculate_ScoreAlwaysInRange(t *testing.T) {
	contexts := []*market.Context{
		bullishContext(),
		{CurrentPrice: 100}, // empty snapshot
		{CurrentPrice: 100, Indicators: types.IndicatorSnapshot{RSI14: types.Float(99)}},
	}
	for _, ctx := range contexts {
		for _, dir := range []types.Direction{types.DirectionLong, types.DirectionShort} {
			res := testEngine().Calculate(ctx, dir)
			assert.GreaterOrEqual(t, res.FinalScore, 0.0)
			assert.LessOrEqual(t, res.FinalScore, 1.0)
		}
	}
}

func TestCalculate_EmptySnapshotIsNeutralDefault(t *testing.T) {
	ctx := &market.Context{CurrentPrice: 100}
	res := testEngine().Calculate(ctx, types.DirectionLong)

	// Only the regime component is available on an empty snapshot; with an
	// unclassified (neutral) regime it scores 0.5.
	assert.Equal(t, 0.5, res.FinalScore)
	assert.Equal(t, QualityAcceptable, res.Quality)
}

func TestAggregate_AllNeutralIsHalf(t *testing.T) {
	components := []Component{
		{Name: "a", Score: 0.5, Weight: 0.3, Available: true},
		{Name: "b", Score: 0.5, Weight: 0.2, Available: true},
		{Name: "c", Score: 0.5, Weight: 0.5, Available: true},
	}
	v, ok := aggregate(components)
	require.True(t, ok)
	assert.Equal(t, 0.5, v)
}

func TestAggregate_SkipsUnavailable(t *testing.T) {
	components := []Component{
		{Name: "a", Score: 1.0, Weight: 0.5, Available: true},
		{Name: "b", Score: 0.0, Weight: 10, Available: false},
	}
	v, ok := aggregate(components)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = aggregate([]Component{{Name: "b", Weight: 1}})
	assert.False(t, ok)
}

func TestRSIComponent_Breakpoints(t *testing.T) {
	cases := []struct {
		rsi  float64
		long float64
	}{
		{25, 1.0},
		{35, 0.8},
		{50, 0.6},
		{65, 0.4},
		{75, 0.2},
	}
	for _, tc := range cases {
		c := rsiComponent(types.Float(tc.rsi), types.DirectionLong, 1)
		assert.Equal(t, tc.long, c.Score, "RSI %.0f long", tc.rsi)

		// Short mirrors around 50.
		c = rsiComponent(types.Float(100-tc.rsi), types.DirectionShort, 1)
		assert.Equal(t, tc.long, c.Score, "RSI %.0f short", 100-tc.rsi)
	}

	c := rsiComponent(nil, types.DirectionLong, 1)
	assert.False(t, c.Available)
	assert.Equal(t, 0.5, c.Score)
}

func TestTrendComponent_Stacking(t *testing.T) {
	snap := types.IndicatorSnapshot{
		EMA20:  types.Float(108),
		EMA50:  types.Float(105),
		EMA200: types.Float(100),
	}

	c := trendComponent(snap, 110, types.DirectionLong, 1)
	assert.Equal(t, 1.0, c.Score)

	c = trendComponent(snap, 110, types.DirectionShort, 1)
	assert.Equal(t, 0.0, c.Score)

	// Missing EMA200 shortens the stack instead of disabling it.
	snap.EMA200 = nil
	c = trendComponent(snap, 110, types.DirectionLong, 1)
	assert.True(t, c.Available)
	assert.Equal(t, 1.0, c.Score)
}

func TestMACDComponent(t *testing.T) {
	snap := types.IndicatorSnapshot{
		MACDHistogram:     types.Float(0.4),
		PrevMACDHistogram: types.Float(0.2),
	}
	c := macdComponent(snap, types.DirectionLong, 1)
	assert.Equal(t, 1.0, c.Score) // positive and expanding

	snap.PrevMACDHistogram = types.Float(0.6)
	c = macdComponent(snap, types.DirectionLong, 1)
	assert.Equal(t, 0.75, c.Score) // positive but contracting

	c = macdComponent(snap, types.DirectionShort, 1)
	assert.Equal(t, 0.25, c.Score) // fighting the histogram
}

func TestRegimeComponent(t *testing.T) {
	c := regimeComponent(regime.RegimeStrongTrendBull, types.DirectionLong, 1)
	assert.Equal(t, 1.0, c.Score)

	c = regimeComponent(regime.RegimeStrongTrendBull, types.DirectionShort, 1)
	assert.Equal(t, 0.0, c.Score)

	c = regimeComponent(regime.RegimeChopRange, types.DirectionLong, 1)
	assert.Equal(t, 0.3, c.Score)
}

func TestComponentOrderIsStable(t *testing.T) {
	res := testEngine().Calculate(bullishContext(), types.DirectionLong)

	names := make([]string, len(res.Components))
	for i, c := range res.Components {
		names[i] = c.Name
	}
	assert.Equal(t, []string{
		"trend_alignment", "rsi_momentum", "macd_momentum", "adx_strength",
		"mean_reversion", "volume_ratio", "regime_match",
	}, names)
}

func TestRules_Evaluation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []Rule{
		{Indicator: "rsi_14", Condition: CondBelow, Value: 40, Weight: 1},
		{Indicator: "adx_14", Condition: CondAbove, Value: 30, Weight: 1},
		{Indicator: "percent_b", Condition: CondBetween, Value: 0.2, Value2: 0.5, Weight: 1},
		{Indicator: "ema_20", Condition: CondAligned, Weight: 1},
	}
	e := NewEngine(cfg, zerolog.Nop())

	res := e.Calculate(bullishContext(), types.DirectionLong)
	require.Len(t, res.Components, 4)
	// rsi 35 < 40, adx 35 > 30, %B 0.3 in [0.2,0.5], stack aligned.
	assert.Equal(t, 1.0, res.FinalScore)
}

func TestRules_MissingIndicatorExcluded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []Rule{
		{Indicator: "rsi_14", Condition: CondBelow, Value: 40, Weight: 1},
		{Indicator: "volume_ratio", Condition: CondAbove, Value: 1, Weight: 5},
	}
	e := NewEngine(cfg, zerolog.Nop())

	ctx := &market.Context{
		CurrentPrice: 100,
		Indicators:   types.IndicatorSnapshot{RSI14: types.Float(35)},
	}
	res := e.Calculate(ctx, types.DirectionLong)
	assert.Equal(t, 1.0, res.FinalScore) // missing volume rule carries no weight
	assert.False(t, res.Components[1].Available)
}

func TestRules_Crosses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []Rule{
		{Indicator: "macd_histogram", Condition: CondCrosses, Value: 0, Weight: 1},
	}
	e := NewEngine(cfg, zerolog.Nop())

	ctx := &market.Context{
		CurrentPrice: 100,
		Indicators: types.IndicatorSnapshot{
			MACDHistogram:     types.Float(0.1),
			PrevMACDHistogram: types.Float(-0.1),
		},
	}
	res := e.Calculate(ctx, types.DirectionLong)
	assert.Equal(t, 1.0, res.FinalScore)

	ctx.Indicators.PrevMACDHistogram = types.Float(0.05)
	res = e.Calculate(ctx, types.DirectionLong)
	assert.Equal(t, 0.0, res.FinalScore)
}

func TestRuleValidate(t *testing.T) {
	assert.NoError(t, Rule{Indicator: "rsi_14", Condition: CondAbove, Value: 50, Weight: 1}.Validate())
	assert.Error(t, Rule{Indicator: "rsi_14", Condition: "over", Weight: 1}.Validate())
	assert.Error(t, Rule{Indicator: "rsi_14", Condition: CondAbove, Weight: 0}.Validate())
	assert.Error(t, Rule{Indicator: "rsi_14", Condition: CondBetween, Value: 5, Value2: 1, Weight: 1}.Validate())
}
