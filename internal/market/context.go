package market

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/tradekit/structurebot/internal/levels"
	"github.com/tradekit/structurebot/internal/regime"
	"github.com/tradekit/structurebot/pkg/types"
)

// Context is the immutable snapshot one evaluation cycle works from. It is
// rebuilt every cycle and identified by a content hash, so downstream
// consumers (scoring, triggers, audit logs) can correlate results that came
// from the same window.
type Context struct {
	ContextID    string                  `json:"context_id"`
	Symbol       string                  `json:"symbol"`
	Timeframe    string                  `json:"timeframe"`
	CurrentPrice float64                 `json:"current_price"`
	Regime       regime.Result           `json:"regime"`
	Levels       levels.Result           `json:"levels"`
	Indicators   types.IndicatorSnapshot `json:"indicators"`
	BuiltAt      time.Time               `json:"built_at"`
}

// ATR returns the snapshot ATR, or a 1% proxy of the current price when the
// reading is missing or invalid. Exit sizing relies on this fallback.
func (c *Context) ATR() float64 {
	if c.Indicators.ATR != nil && *c.Indicators.ATR > 0 {
		return *c.Indicators.ATR
	}
	return c.CurrentPrice * 0.01
}

// contextID hashes the identity of the window: symbol, timeframe, span and
// last bar. Two builds over identical input yield identical IDs.
func contextID(symbol, timeframe string, data []types.OHLCV) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%s|%s|%d", symbol, timeframe, len(data))
	if len(data) > 0 {
		first, last := data[0], data[len(data)-1]
		fmt.Fprintf(h, "|%d|%d|%.8f|%.8f",
			first.Timestamp.UnixNano(), last.Timestamp.UnixNano(), last.Close, last.Volume)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
