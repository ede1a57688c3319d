package indicators

import (
	"math"

	"github.com/tradekit/structurebot/pkg/types"
)

// ATR computes the Average True Range using Wilder's smoothing.
type ATR struct {
	period int
}

func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < a.period+1 {
		return 0, ErrInsufficientData
	}

	// Seed with a simple average of the first period true ranges.
	atr := 0.0
	for i := 1; i <= a.period; i++ {
		atr += trueRange(data[i], data[i-1])
	}
	atr /= float64(a.period)

	for i := a.period + 1; i < len(data); i++ {
		tr := trueRange(data[i], data[i-1])
		atr = (atr*float64(a.period-1) + tr) / float64(a.period)
	}

	return atr, nil
}

// CalculatePercent returns the ATR as a percentage of the last close.
func (a *ATR) CalculatePercent(data []types.OHLCV) (float64, error) {
	atr, err := a.Calculate(data)
	if err != nil {
		return 0, err
	}
	last := data[len(data)-1].Close
	if last <= 0 {
		return 0, ErrInsufficientData
	}
	return atr / last * 100, nil
}

func trueRange(current, previous types.OHLCV) float64 {
	return math.Max(current.High-current.Low,
		math.Max(math.Abs(current.High-previous.Close),
			math.Abs(current.Low-previous.Close)))
}
