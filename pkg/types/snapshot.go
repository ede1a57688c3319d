package types

// IndicatorSnapshot holds the derived indicator values attached to a market
// context. Absent indicators are nil pointers, never zero values, so callers
// can distinguish "not computable on this window" from a real reading.
type IndicatorSnapshot struct {
	EMA20  *float64 `json:"ema_20,omitempty"`
	EMA50  *float64 `json:"ema_50,omitempty"`
	EMA200 *float64 `json:"ema_200,omitempty"`

	ADX14      *float64 `json:"adx_14,omitempty"`
	RSI14      *float64 `json:"rsi_14,omitempty"`
	ATR        *float64 `json:"atr,omitempty"`
	ATRPercent *float64 `json:"atr_percent,omitempty"`

	MACD          *float64 `json:"macd,omitempty"`
	MACDSignal    *float64 `json:"macd_signal,omitempty"`
	MACDHistogram *float64 `json:"macd_histogram,omitempty"`

	// %B position within the Bollinger bands, 0 at the lower band, 1 at the
	// upper band.
	BollingerPercentB *float64 `json:"bollinger_percent_b,omitempty"`

	// Last volume relative to its moving average.
	VolumeRatio *float64 `json:"volume_ratio,omitempty"`

	// Previous-bar values kept for cross conditions in rule sets.
	PrevClose         *float64 `json:"prev_close,omitempty"`
	PrevMACDHistogram *float64 `json:"prev_macd_histogram,omitempty"`
}

// Float returns a pointer to a copy of v. Convenience for building snapshots
// in tests and adapters.
func Float(v float64) *float64 {
	return &v
}
