package pipeline

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradekit/structurebot/internal/config"
	"github.com/tradekit/structurebot/internal/trigger"
	"github.com/tradekit/structurebot/pkg/types"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(config.Default(), zerolog.Nop())
	require.NoError(t, err)
	return p
}

// uptrendWindow generates a steady climb with mild candle bodies.
func uptrendWindow(n int) []types.OHLCV {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	data := make([]types.OHLCV, n)
	price := 100.0
	for i := range data {
		open := price
		price += 0.5
		data[i] = types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      open,
			High:      price + 0.3,
			Low:       open - 0.3,
			Close:     price,
			Volume:    1000,
		}
	}
	return data
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Symbol = ""
	_, err := New(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestEvaluate_EmptyWindow(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Evaluate(nil, time.Now())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestEvaluate_FullCycleOnNewBar(t *testing.T) {
	p := newTestPipeline(t)
	window := uptrendWindow(120)

	dec, err := p.Evaluate(window, time.Now())
	require.NoError(t, err)

	assert.True(t, dec.FullCycle)
	require.NotNil(t, dec.Context)
	assert.Equal(t, "BTCUSDT", dec.Context.Symbol)
	assert.Equal(t, types.DirectionLong, dec.Direction)
	assert.Greater(t, dec.LongScore.FinalScore, dec.ShortScore.FinalScore)
	assert.GreaterOrEqual(t, dec.Leverage.FinalLeverage, 1.0)
	assert.NotEqual(t, trigger.StatusExpired, dec.Trigger.Status)
}

func TestEvaluate_RefreshBetweenBars(t *testing.T) {
	p := newTestPipeline(t)
	window := uptrendWindow(120)

	dec, err := p.Evaluate(window, time.Now())
	require.NoError(t, err)
	assert.True(t, dec.FullCycle)

	// Same bar timestamp: only the cheap refresh runs.
	dec, err = p.Evaluate(window, time.Now())
	require.NoError(t, err)
	assert.False(t, dec.FullCycle)
	assert.Nil(t, dec.Context)

	// A new bar closes: full cycle again.
	next := window[len(window)-1]
	next.Timestamp = next.Timestamp.Add(time.Hour)
	dec, err = p.Evaluate(append(window[1:], next), time.Now())
	require.NoError(t, err)
	assert.True(t, dec.FullCycle)
}

func TestEvaluate_PositionMonitoring(t *testing.T) {
	p := newTestPipeline(t)
	window := uptrendWindow(120)

	_, err := p.Evaluate(window, time.Now())
	require.NoError(t, err)

	entry := window[len(window)-1].Close
	p.OpenPosition(&trigger.Position{
		Symbol:     "BTCUSDT",
		Direction:  types.DirectionLong,
		EntryPrice: entry,
		StopLoss:   entry - 2,
		TakeProfit: entry + 6,
		OpenedAt:   time.Now(),
	})

	// Same bar, price dives through the stop.
	crashed := window
	crashed[len(crashed)-1].Close = entry - 3
	dec, err := p.Evaluate(crashed, time.Now())
	require.NoError(t, err)

	assert.False(t, dec.FullCycle)
	require.NotNil(t, dec.PositionPnLPct)
	assert.Negative(t, *dec.PositionPnLPct)
	require.NotNil(t, dec.Exit)
	assert.Equal(t, trigger.ExitSLHit, dec.Exit.ExitType)

	p.ClosePosition()
	assert.Nil(t, p.Position())
}

func TestReload(t *testing.T) {
	p := newTestPipeline(t)

	bad := config.Default()
	bad.Trigger.MinRiskReward = -1
	assert.Error(t, p.Reload(bad))
	assert.Equal(t, "BTCUSDT", p.Config().Symbol)

	good := config.Default()
	good.Symbol = "ETHUSDT"
	require.NoError(t, p.Reload(good))
	assert.Equal(t, "ETHUSDT", p.Config().Symbol)
}

func TestHealthTracksCycles(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Evaluate(uptrendWindow(120), time.Now())
	require.NoError(t, err)

	snap := p.Health().Snapshot()
	assert.Equal(t, "healthy", snap.Status)
	assert.Equal(t, int64(1), snap.CyclesTotal)
}
