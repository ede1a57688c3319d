package levels

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/tradekit/structurebot/internal/indicators"
	"github.com/tradekit/structurebot/pkg/types"
)

// Engine detects, merges, scores and classifies support/resistance zones.
// All calls are serialized behind a single mutex; aside from that, detection
// is a pure function of the window and config.
type Engine struct {
	mu  sync.Mutex
	cfg Config
	log zerolog.Logger
}

func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		log: log.With().Str("component", "level_engine").Logger(),
	}
}

// DetectLevels runs the full detection pipeline on the window. A zero
// currentPrice defaults to the last close. The pipeline never fails: a
// window too short for any detector yields an empty result.
func (e *Engine) DetectLevels(data []types.OHLCV, symbol, timeframe string, currentPrice float64) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := &Result{
		Symbol:       symbol,
		Timeframe:    timeframe,
		CurrentPrice: currentPrice,
	}
	if len(data) == 0 {
		e.log.Warn().Str("symbol", symbol).Msg("level detection on empty window")
		return res
	}
	if currentPrice == 0 {
		res.CurrentPrice = data[len(data)-1].Close
	}

	halfWidth := e.zoneHalfWidth(data, res.CurrentPrice)

	var raw []Level
	raw = append(raw, detectSwings(data, e.cfg.SwingLookback, halfWidth, timeframe)...)
	if e.cfg.EnablePivots {
		raw = append(raw, detectPivots(data, e.cfg.PivotVariant, halfWidth, timeframe)...)
	}
	raw = append(raw, detectClusters(data, e.cfg.ProximityMergePct, halfWidth, timeframe)...)
	if e.cfg.EnableDailyWeekly {
		raw = append(raw, detectPeriodExtremes(data, halfWidth, timeframe)...)
	}
	if e.cfg.EnableVWAP {
		if lv, ok := vwapLevel(data, halfWidth, timeframe); ok {
			raw = append(raw, lv)
		}
	}

	sortByMid(raw)
	merged := mergeLevels(raw, e.cfg.ProximityMergePct)
	graded := gradeStrength(data, merged, e.cfg.KeyTouchThreshold, e.cfg.StrongTouchThreshold)
	classified := classify(graded, res.CurrentPrice)
	selected := selectTop(classified, res.CurrentPrice, e.cfg.MaxLevels)
	sortByMid(selected)

	res.Levels = selected
	e.log.Debug().
		Str("symbol", symbol).
		Int("raw", len(raw)).
		Int("final", len(selected)).
		Msg("levels detected")
	return res
}

// zoneHalfWidth sizes point-level zones from ATR, falling back to a fraction
// of price when the window is too short for an ATR reading.
func (e *Engine) zoneHalfWidth(data []types.OHLCV, currentPrice float64) float64 {
	atr, err := indicators.NewATR(e.cfg.ATRPeriod).Calculate(data)
	if err != nil || atr <= 0 {
		return currentPrice * 0.001
	}
	return atr * e.cfg.ZoneWidthATRFactor
}
