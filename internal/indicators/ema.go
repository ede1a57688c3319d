package indicators

import (
	"errors"

	"github.com/tradekit/structurebot/pkg/types"
)

var ErrInsufficientData = errors.New("insufficient data")

// EMA computes an exponential moving average over closing prices.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with the given period.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

// Calculate returns the EMA of the closes, seeded with an SMA of the first
// period values and smoothed across the rest of the window.
func (e *EMA) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < e.period {
		return 0, ErrInsufficientData
	}

	sum := 0.0
	for i := 0; i < e.period; i++ {
		sum += data[i].Close
	}
	ema := sum / float64(e.period)

	multiplier := 2.0 / float64(e.period+1)
	for i := e.period; i < len(data); i++ {
		ema = (data[i].Close-ema)*multiplier + ema
	}

	return ema, nil
}

// RequiredPeriods returns the minimum window length for a valid reading.
func (e *EMA) RequiredPeriods() int {
	return e.period
}
