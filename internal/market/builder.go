package market

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradekit/structurebot/internal/indicators"
	"github.com/tradekit/structurebot/internal/levels"
	"github.com/tradekit/structurebot/internal/regime"
	"github.com/tradekit/structurebot/pkg/types"
)

var ErrEmptyWindow = errors.New("market: empty price window")

// Builder assembles regime classification, level detection and the indicator
// snapshot into one immutable context per cycle.
type Builder struct {
	regimes  *regime.Detector
	levels   *levels.Engine
	snapshot indicators.SnapshotConfig
	cache    *Cache
	log      zerolog.Logger
	now      func() time.Time
}

// NewBuilder wires the builder. cache may be nil to disable caching.
func NewBuilder(rd *regime.Detector, le *levels.Engine, snapCfg indicators.SnapshotConfig, cache *Cache, log zerolog.Logger) *Builder {
	return &Builder{
		regimes:  rd,
		levels:   le,
		snapshot: snapCfg,
		cache:    cache,
		log:      log.With().Str("component", "context_builder").Logger(),
		now:      time.Now,
	}
}

// Build produces the market context for the window. Identical windows reuse
// the cached context when a cache is configured.
func (b *Builder) Build(data []types.OHLCV, symbol, timeframe string) (*Context, error) {
	if len(data) == 0 {
		return nil, ErrEmptyWindow
	}

	id := contextID(symbol, timeframe, data)
	if b.cache != nil {
		if ctx, ok := b.cache.Get(id); ok {
			b.log.Debug().Str("context_id", id).Msg("context cache hit")
			return ctx, nil
		}
	}

	currentPrice := data[len(data)-1].Close

	ctx := &Context{
		ContextID:    id,
		Symbol:       symbol,
		Timeframe:    timeframe,
		CurrentPrice: currentPrice,
		Regime:       b.regimes.Detect(data),
		Levels:       *b.levels.DetectLevels(data, symbol, timeframe, currentPrice),
		Indicators:   indicators.Snapshot(data, b.snapshot),
		BuiltAt:      b.now(),
	}

	if b.cache != nil {
		b.cache.Put(ctx)
	}
	return ctx, nil
}
