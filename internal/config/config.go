package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tradekit/structurebot/internal/leverage"
	"github.com/tradekit/structurebot/internal/levels"
	"github.com/tradekit/structurebot/internal/regime"
	"github.com/tradekit/structurebot/internal/score"
	"github.com/tradekit/structurebot/internal/trigger"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config aggregates every engine config plus the pipeline settings. It is
// loaded once at startup and swapped wholesale on reload, never patched in
// place.
type Config struct {
	Symbol     string `json:"symbol"`
	Timeframe  string `json:"timeframe"`
	WindowSize int    `json:"window_size"`

	Regime   regime.Config   `json:"regime"`
	Levels   levels.Config   `json:"levels"`
	Score    score.Config    `json:"score"`
	Trigger  trigger.Config  `json:"trigger"`
	Leverage leverage.Config `json:"leverage"`

	Cache CacheConfig `json:"cache"`

	LogLevel string `json:"log_level"`
}

// CacheConfig bounds the market-context cache.
type CacheConfig struct {
	TTL        time.Duration `json:"ttl"`
	MaxEntries int           `json:"max_entries"`
}

func Default() *Config {
	return &Config{
		Symbol:     getEnv("TRADING_SYMBOL", "BTCUSDT"),
		Timeframe:  getEnv("TRADING_TIMEFRAME", "1h"),
		WindowSize: getEnvInt("WINDOW_SIZE", 200),

		Regime:   regime.DefaultConfig(),
		Levels:   levels.DefaultConfig(),
		Score:    score.DefaultConfig(),
		Trigger:  trigger.DefaultConfig(),
		Leverage: leverage.DefaultConfig(),

		Cache: CacheConfig{
			TTL:        5 * time.Minute,
			MaxEntries: 64,
		},

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// LoadFromFile reads a JSON config, layered over defaults so a partial file
// only overrides what it names. Validation failures surface as
// ErrInvalidConfig: a bad config is a programming error, not a market
// condition.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidConfig)
	}
	if c.WindowSize < c.Regime.MinBars {
		return fmt.Errorf("%w: window_size %d below regime minimum %d",
			ErrInvalidConfig, c.WindowSize, c.Regime.MinBars)
	}
	if err := c.Regime.Validate(); err != nil {
		return fmt.Errorf("%w: regime: %v", ErrInvalidConfig, err)
	}
	if err := c.Levels.Validate(); err != nil {
		return fmt.Errorf("%w: levels: %v", ErrInvalidConfig, err)
	}
	if err := c.Score.Validate(); err != nil {
		return fmt.Errorf("%w: score: %v", ErrInvalidConfig, err)
	}
	if err := c.Trigger.Validate(); err != nil {
		return fmt.Errorf("%w: trigger: %v", ErrInvalidConfig, err)
	}
	if err := c.Leverage.Validate(); err != nil {
		return fmt.Errorf("%w: leverage: %v", ErrInvalidConfig, err)
	}
	if c.Cache.TTL <= 0 || c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("%w: cache ttl and max_entries must be positive", ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
