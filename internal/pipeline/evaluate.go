package pipeline

import (
	"time"

	"github.com/tradekit/structurebot/internal/leverage"
	"github.com/tradekit/structurebot/internal/market"
	"github.com/tradekit/structurebot/internal/monitoring"
	"github.com/tradekit/structurebot/internal/score"
	"github.com/tradekit/structurebot/internal/trigger"
	"github.com/tradekit/structurebot/pkg/types"
)

// Decision is the aggregate output of one evaluation. FullCycle reports
// whether the detection engines ran; between bar closes only the position
// fields are refreshed.
type Decision struct {
	FullCycle bool      `json:"full_cycle"`
	BarTime   time.Time `json:"bar_time"`

	Context    *market.Context `json:"context,omitempty"`
	LongScore  score.Result    `json:"long_score"`
	ShortScore score.Result    `json:"short_score"`
	Direction  types.Direction `json:"direction"`
	Score      score.Result    `json:"score"`
	Trigger    trigger.Result  `json:"trigger"`
	Leverage   leverage.Result `json:"leverage"`

	PositionPnLPct *float64            `json:"position_pnl_pct,omitempty"`
	Exit           *trigger.ExitSignal `json:"exit,omitempty"`
}

// Evaluate runs one cycle over the window. The full pipeline executes only
// when the last bar's timestamp is newer than the previously seen one;
// otherwise only the open position's PnL and exit conditions are checked
// against the latest price.
func (p *Pipeline) Evaluate(window []types.OHLCV, now time.Time) (*Decision, error) {
	if len(window) == 0 {
		return nil, ErrNoData
	}
	eng := p.eng.Load()
	last := window[len(window)-1]

	p.mu.Lock()
	newBar := last.Timestamp.After(p.lastBar)
	if newBar {
		p.lastBar = last.Timestamp
	}
	p.mu.Unlock()

	monitoring.UpdatePrice(eng.cfg.Symbol, last.Close)

	if !newBar {
		return p.refreshPosition(eng, last, now), nil
	}
	return p.fullCycle(eng, window, last, now)
}

func (p *Pipeline) fullCycle(eng *engines, window []types.OHLCV, last types.OHLCV, now time.Time) (*Decision, error) {
	cfg := eng.cfg

	ctx, err := eng.builder.Build(window, cfg.Symbol, cfg.Timeframe)
	if err != nil {
		return nil, err
	}

	longScore := eng.scorer.Calculate(ctx, types.DirectionLong)
	shortScore := eng.scorer.Calculate(ctx, types.DirectionShort)
	direction, best := pickDirection(ctx, longScore, shortScore)

	trig := eng.triggers.FindBestTrigger(ctx, window, direction)
	lev := eng.leverage.Calculate(cfg.Symbol, ctx.Regime.Regime)

	dec := &Decision{
		FullCycle:  true,
		BarTime:    last.Timestamp,
		Context:    ctx,
		LongScore:  longScore,
		ShortScore: shortScore,
		Direction:  direction,
		Score:      best,
		Trigger:    trig,
		Leverage:   lev,
	}
	p.monitorPosition(eng, dec, last.Close, now, longScore, shortScore)

	p.recordMetrics(eng, dec)
	p.health.RecordCycle(last.Timestamp, last.Close, ctx.Regime.Regime.String())

	p.log.Info().
		Str("context_id", ctx.ContextID).
		Str("regime", ctx.Regime.Regime.String()).
		Str("direction", direction.String()).
		Float64("score", best.FinalScore).
		Str("trigger", trig.Status.String()).
		Float64("leverage", lev.FinalLeverage).
		Msg("evaluation cycle complete")
	return dec, nil
}

// refreshPosition is the cheap between-bars path: no detection engines run.
func (p *Pipeline) refreshPosition(eng *engines, last types.OHLCV, now time.Time) *Decision {
	dec := &Decision{BarTime: last.Timestamp}
	p.monitorPosition(eng, dec, last.Close, now, score.Result{}, score.Result{})
	return dec
}

// monitorPosition refreshes PnL and checks exit conditions for the open
// position, if any. The opposing score is taken from the side opposite the
// position when available.
func (p *Pipeline) monitorPosition(eng *engines, dec *Decision, price float64, now time.Time, longScore, shortScore score.Result) {
	p.mu.Lock()
	pos := p.position
	p.mu.Unlock()
	if pos == nil {
		return
	}

	pnl := pos.UnrealizedPnLPercent(price)
	dec.PositionPnLPct = types.Float(pnl)

	opposing := 0.0
	switch pos.Direction {
	case types.DirectionLong:
		opposing = shortScore.FinalScore
	case types.DirectionShort:
		opposing = longScore.FinalScore
	}

	sig := eng.triggers.CheckExitConditions(pos, price, now, opposing)
	if sig.ShouldExit {
		dec.Exit = &sig
		monitoring.RecordExit(eng.cfg.Symbol, sig.ExitType.String())
		return
	}

	if newSL, ok := eng.triggers.CalculateTrailingStop(pos, price, trailingATR(dec)); ok {
		p.mu.Lock()
		pos.StopLoss = newSL
		p.mu.Unlock()
		p.log.Info().Float64("new_sl", newSL).Msg("trailing stop advanced")
	}
}

func trailingATR(dec *Decision) float64 {
	if dec.Context == nil {
		return 0
	}
	return dec.Context.ATR()
}

// pickDirection chooses the side with the higher score; ties follow the
// regime's bias.
func pickDirection(ctx *market.Context, long, short score.Result) (types.Direction, score.Result) {
	switch {
	case long.FinalScore > short.FinalScore:
		return types.DirectionLong, long
	case short.FinalScore > long.FinalScore:
		return types.DirectionShort, short
	}
	if ctx.Regime.Regime.IsBearish() {
		return types.DirectionShort, short
	}
	return types.DirectionLong, long
}

func (p *Pipeline) recordMetrics(eng *engines, dec *Decision) {
	symbol := eng.cfg.Symbol
	monitoring.RecordEvaluation(symbol)
	monitoring.UpdateRegime(symbol, int(dec.Context.Regime.Regime), dec.Context.Regime.Confidence)
	monitoring.UpdateEntryScore(symbol, types.DirectionLong.String(), dec.LongScore.FinalScore)
	monitoring.UpdateEntryScore(symbol, types.DirectionShort.String(), dec.ShortScore.FinalScore)
	monitoring.UpdateLeverage(symbol, dec.Leverage.FinalLeverage)

	if dec.Trigger.Status == trigger.StatusTriggered {
		monitoring.RecordTrigger(symbol, dec.Trigger.Type.String())
	}
	if dec.Context.Regime.DegradedReason != "" {
		monitoring.RecordDegraded("regime", dec.Context.Regime.DegradedReason)
	}
	if dec.Score.DegradedReason != "" {
		monitoring.RecordDegraded("score", dec.Score.DegradedReason)
	}
}
