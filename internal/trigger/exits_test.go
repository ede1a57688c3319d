package trigger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradekit/structurebot/internal/levels"
	"github.com/tradekit/structurebot/pkg/types"
)

func engineWith(cfg Config) *Engine {
	return NewEngine(cfg, zerolog.Nop())
}

func TestCalculateExitLevels_LongATR(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseATRExits = true
	cfg.SLATRMult = 2
	cfg.TPATRMult = 3
	cfg.MinRiskReward = 1.0
	cfg.EnableStructureStop = false
	e := engineWith(cfg)

	out, err := e.CalculateExitLevels(100, types.DirectionLong, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, 96.0, out.StopLoss)
	assert.Equal(t, 106.0, out.TakeProfit)
	assert.InDelta(t, 1.5, out.RiskReward, 1e-9)
	assert.Equal(t, 4.0, out.SLDistance)
	assert.Equal(t, 6.0, out.TPDistance)
	assert.Equal(t, "atr", out.SLMethod)
	assert.Equal(t, "atr", out.TPMethod)
	assert.Equal(t, 100.0, out.BreakevenPrice)
}

func TestCalculateExitLevels_ShortRRExtension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseATRExits = true
	cfg.SLATRMult = 1.5
	cfg.TPATRMult = 1.0
	cfg.MinRiskReward = 2.0
	cfg.EnableStructureStop = false
	e := engineWith(cfg)

	out, err := e.CalculateExitLevels(100, types.DirectionShort, 1, nil)
	require.NoError(t, err)

	// SL keeps its 1.5 distance; TP is forced out to 1.5 x 2.0 = 3.0.
	assert.Equal(t, 101.5, out.StopLoss)
	assert.Equal(t, 97.0, out.TakeProfit)
	assert.InDelta(t, 2.0, out.RiskReward, 1e-9)
	assert.Equal(t, "rr_extended", out.TPMethod)
}

func TestCalculateExitLevels_ATRFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableStructureStop = false
	e := engineWith(cfg)

	// Invalid ATR falls back to 1% of entry: slDist = 2 x 1.0 = 2.
	out, err := e.CalculateExitLevels(100, types.DirectionLong, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 98.0, out.StopLoss)

	out2, err := e.CalculateExitLevels(100, types.DirectionLong, -5, nil)
	require.NoError(t, err)
	assert.Equal(t, out.StopLoss, out2.StopLoss)
}

func TestCalculateExitLevels_OrderingInvariant(t *testing.T) {
	e := engineWith(DefaultConfig())

	long, err := e.CalculateExitLevels(250, types.DirectionLong, 3, nil)
	require.NoError(t, err)
	assert.Less(t, long.StopLoss, long.EntryPrice)
	assert.Greater(t, long.TakeProfit, long.EntryPrice)

	short, err := e.CalculateExitLevels(250, types.DirectionShort, 3, nil)
	require.NoError(t, err)
	assert.Greater(t, short.StopLoss, short.EntryPrice)
	assert.Less(t, short.TakeProfit, short.EntryPrice)
}

func TestCalculateExitLevels_InvalidInput(t *testing.T) {
	e := engineWith(DefaultConfig())

	_, err := e.CalculateExitLevels(0, types.DirectionLong, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = e.CalculateExitLevels(100, types.DirectionNeutral, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestStructureStop_TightensOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseATRExits = true
	cfg.SLATRMult = 2
	cfg.StructureStopATRPad = 0.5
	e := engineWith(cfg)

	// ATR 2 puts the computed SL at 96. A support at 98 with pad 1 gives a
	// structure stop of 97: tighter, so it overrides.
	lvls := &levels.Result{
		CurrentPrice: 100,
		Levels: []levels.Level{
			{PriceLow: 98, PriceMid: 98.5, PriceHigh: 99, Type: levels.LevelSupport},
		},
	}
	out, err := e.CalculateExitLevels(100, types.DirectionLong, 2, lvls)
	require.NoError(t, err)
	assert.Equal(t, 97.0, out.StopLoss)
	assert.Equal(t, "structure", out.SLMethod)
	require.NotNil(t, out.StructureStop)
	assert.Equal(t, 97.0, *out.StructureStop)

	// A support far below the computed SL must never loosen it.
	lvls.Levels[0] = levels.Level{PriceLow: 80, PriceMid: 80.5, PriceHigh: 81, Type: levels.LevelSupport}
	out, err = e.CalculateExitLevels(100, types.DirectionLong, 2, lvls)
	require.NoError(t, err)
	assert.Equal(t, 96.0, out.StopLoss)
	assert.Nil(t, out.StructureStop)
}

func TestStructureStop_Short(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseATRExits = true
	cfg.SLATRMult = 2
	cfg.StructureStopATRPad = 0.5
	e := engineWith(cfg)

	lvls := &levels.Result{
		CurrentPrice: 100,
		Levels: []levels.Level{
			{PriceLow: 101, PriceMid: 101.5, PriceHigh: 102, Type: levels.LevelResistance},
		},
	}
	out, err := e.CalculateExitLevels(100, types.DirectionShort, 2, lvls)
	require.NoError(t, err)
	// Computed SL 104; resistance high 102 + pad 1 = 103, tighter.
	assert.Equal(t, 103.0, out.StopLoss)
	assert.Equal(t, "structure", out.SLMethod)
}

func TestCheckExitConditions_PriorityOrder(t *testing.T) {
	e := engineWith(DefaultConfig())
	now := time.Now()

	// Degenerate position where SL and TP sit on the same price: the stop
	// loss wins by priority, not magnitude.
	pos := &Position{
		Direction:  types.DirectionLong,
		EntryPrice: 100,
		StopLoss:   100,
		TakeProfit: 100,
		OpenedAt:   now,
	}
	sig := e.CheckExitConditions(pos, 100, now, 1.0)
	require.True(t, sig.ShouldExit)
	assert.Equal(t, ExitSLHit, sig.ExitType)
}

func TestCheckExitConditions_Cases(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHoldingDuration = 4 * time.Hour
	e := engineWith(cfg)
	now := time.Now()

	exits, err := e.CalculateExitLevels(100, types.DirectionLong, 2, nil)
	require.NoError(t, err)
	pos := &Position{
		Direction:  types.DirectionLong,
		EntryPrice: 100,
		StopLoss:   exits.StopLoss,
		TakeProfit: exits.TakeProfit,
		OpenedAt:   now,
		Exits:      exits,
	}

	// No condition met.
	sig := e.CheckExitConditions(pos, 100.5, now, 0)
	assert.False(t, sig.ShouldExit)

	// Stop loss.
	sig = e.CheckExitConditions(pos, 95.9, now, 0)
	assert.Equal(t, ExitSLHit, sig.ExitType)
	assert.Equal(t, exits.StopLoss, sig.SuggestedExitPrice)

	// Take profit.
	sig = e.CheckExitConditions(pos, 106.1, now, 0)
	assert.Equal(t, ExitTPHit, sig.ExitType)

	// Partial TP moves SL to breakeven.
	require.NotNil(t, exits.PartialTP1)
	sig = e.CheckExitConditions(pos, *exits.PartialTP1, now, 0)
	assert.Equal(t, ExitPartial, sig.ExitType)
	assert.Equal(t, cfg.PartialClosePct, sig.PartialClosePct)
	require.NotNil(t, sig.NewSL)
	assert.Equal(t, 100.0, *sig.NewSL)

	// Once taken, the partial no longer fires.
	pos.PartialTaken = true
	sig = e.CheckExitConditions(pos, *exits.PartialTP1, now, 0)
	assert.False(t, sig.ShouldExit)
	pos.PartialTaken = false

	// Time stop.
	sig = e.CheckExitConditions(pos, 100.5, now.Add(5*time.Hour), 0)
	assert.Equal(t, ExitTimeStop, sig.ExitType)

	// Signal reversal.
	sig = e.CheckExitConditions(pos, 100.5, now, 0.65)
	assert.Equal(t, ExitSignalReversal, sig.ExitType)
	sig = e.CheckExitConditions(pos, 100.5, now, 0.55)
	assert.False(t, sig.ShouldExit)
}

func TestCheckExitConditions_NilPosition(t *testing.T) {
	e := engineWith(DefaultConfig())
	sig := e.CheckExitConditions(nil, 100, time.Now(), 0)
	assert.False(t, sig.ShouldExit)
}
