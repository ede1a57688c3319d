package trigger

import (
	"github.com/rs/zerolog"
)

// Engine evaluates entry-trigger patterns against detected levels and
// manages the exit plan of the open position. Detection methods are pure
// functions of their inputs plus config; the engine holds no position state
// itself.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		log: log.With().Str("component", "trigger_exit").Logger(),
	}
}

// Config returns the engine's active configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
