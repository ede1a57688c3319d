package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradekit/structurebot/internal/config"
	"github.com/tradekit/structurebot/internal/indicators"
	"github.com/tradekit/structurebot/internal/leverage"
	"github.com/tradekit/structurebot/internal/levels"
	"github.com/tradekit/structurebot/internal/market"
	"github.com/tradekit/structurebot/internal/monitoring"
	"github.com/tradekit/structurebot/internal/regime"
	"github.com/tradekit/structurebot/internal/score"
	"github.com/tradekit/structurebot/internal/trigger"
)

var ErrNoData = errors.New("pipeline: empty price window")

// engines bundles every detection engine built from one config. The bundle
// is immutable once constructed; config reload builds a fresh bundle and
// swaps the pointer, so in-flight cycles always see a consistent config.
type engines struct {
	cfg      *config.Config
	regimes  *regime.Detector
	levels   *levels.Engine
	builder  *market.Builder
	scorer   *score.Engine
	triggers *trigger.Engine
	leverage *leverage.Engine
}

func buildEngines(cfg *config.Config, log zerolog.Logger) (*engines, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rd := regime.NewDetector(cfg.Regime, log)
	le := levels.NewEngine(cfg.Levels, log)
	cache := market.NewCache(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	return &engines{
		cfg:      cfg,
		regimes:  rd,
		levels:   le,
		builder:  market.NewBuilder(rd, le, indicators.DefaultSnapshotConfig(), cache, log),
		scorer:   score.NewEngine(cfg.Score, log),
		triggers: trigger.NewEngine(cfg.Trigger, log),
		leverage: leverage.NewEngine(cfg.Leverage, log),
	}, nil
}

// Pipeline runs the evaluation cycle: regime and levels feed the market
// context, scoring picks a direction, triggers and leverage complete the
// decision. A full cycle runs only when a new bar closes; between bars only
// the open position's PnL and exit conditions are refreshed.
type Pipeline struct {
	eng    atomic.Pointer[engines]
	log    zerolog.Logger
	health *monitoring.HealthChecker

	mu       sync.Mutex
	lastBar  time.Time
	position *trigger.Position
}

func New(cfg *config.Config, log zerolog.Logger) (*Pipeline, error) {
	eng, err := buildEngines(cfg, log)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		log:    log.With().Str("component", "pipeline").Logger(),
		health: monitoring.NewHealthChecker(0),
	}
	p.eng.Store(eng)
	return p, nil
}

// Reload swaps in engines built from the new config. The old bundle keeps
// serving any cycle already in flight.
func (p *Pipeline) Reload(cfg *config.Config) error {
	eng, err := buildEngines(cfg, p.log)
	if err != nil {
		return fmt.Errorf("config reload rejected: %w", err)
	}
	p.eng.Store(eng)
	p.log.Info().Str("symbol", cfg.Symbol).Msg("config reloaded")
	return nil
}

func (p *Pipeline) Config() *config.Config {
	return p.eng.Load().cfg
}

// Health exposes the liveness tracker for the embedding app to mount.
func (p *Pipeline) Health() *monitoring.HealthChecker {
	return p.health
}

// Position returns the single open-position record, or nil.
func (p *Pipeline) Position() *trigger.Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// OpenPosition installs the open-position record. Only one position is
// tracked at a time; opening while one exists replaces it.
func (p *Pipeline) OpenPosition(pos *trigger.Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = pos
}

// ClosePosition drops the open-position record.
func (p *Pipeline) ClosePosition() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = nil
}
