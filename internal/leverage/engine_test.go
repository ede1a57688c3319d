package leverage

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tradekit/structurebot/internal/regime"
)

func newTestEngine(cfg Config) *Engine {
	return NewEngine(cfg, zerolog.Nop())
}

func TestCalculate_TierLookup(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	assert.Equal(t, TierBlueChip, e.Calculate("BTCUSDT", regime.RegimeStrongTrendBull).Tier)
	assert.Equal(t, TierBlueChip, e.Calculate("btcusdt", regime.RegimeStrongTrendBull).Tier)
	assert.Equal(t, TierMidCap, e.Calculate("SOLUSDT", regime.RegimeStrongTrendBull).Tier)
	assert.Equal(t, TierSmallCap, e.Calculate("DOGEUSDT", regime.RegimeStrongTrendBull).Tier)
}

func TestCalculate_RegimeMultipliers(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	tests := []struct {
		name   string
		regime regime.Regime
		want   float64
		action Action
	}{
		{"strong trend keeps full tier leverage", regime.RegimeStrongTrendBull, 20, ActionKept},
		{"strong bear same as strong bull", regime.RegimeStrongTrendBear, 20, ActionKept},
		{"weak trend reduced", regime.RegimeWeakTrendBull, 15, ActionReduced},
		{"chop halved", regime.RegimeChopRange, 10, ActionReduced},
		{"explosive volatility cut to a quarter", regime.RegimeVolatilityExplosive, 5, ActionReduced},
		{"neutral halved", regime.RegimeNeutral, 10, ActionReduced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Calculate("BTCUSDT", tt.regime)
			assert.Equal(t, tt.want, res.FinalLeverage)
			assert.Equal(t, tt.action, res.Action)
		})
	}
}

func TestCalculate_BoostCappedAtTierMax(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrongTrendMultiplier = 1.5
	e := newTestEngine(cfg)

	res := e.Calculate("SOLUSDT", regime.RegimeStrongTrendBull)
	assert.Equal(t, cfg.MidCapMax, res.FinalLeverage)
	assert.Equal(t, ActionCapped, res.Action)
}

func TestCalculate_FloorAtMinLeverage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VolatileMultiplier = 0.1
	e := newTestEngine(cfg)

	res := e.Calculate("DOGEUSDT", regime.RegimeVolatilityExplosive)
	assert.Equal(t, cfg.MinLeverage, res.FinalLeverage)
}

func TestCalculate_Deterministic(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	a := e.Calculate("ETHUSDT", regime.RegimeWeakTrendBear)
	b := e.Calculate("ETHUSDT", regime.RegimeWeakTrendBear)
	assert.Equal(t, a, b)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	bad := DefaultConfig()
	bad.MidCapMax = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MinLeverage = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.ChopMultiplier = -1
	assert.Error(t, bad.Validate())
}
