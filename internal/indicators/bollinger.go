package indicators

import (
	"math"

	"github.com/tradekit/structurebot/pkg/types"
)

// BollingerBands computes the classic volatility bands around an SMA.
type BollingerBands struct {
	period int
	stdDev float64
}

func NewBollingerBands(period int, stdDev float64) *BollingerBands {
	return &BollingerBands{period: period, stdDev: stdDev}
}

// Bands returns the upper, middle and lower band at the last bar.
func (b *BollingerBands) Bands(data []types.OHLCV) (upper, middle, lower float64, err error) {
	if len(data) < b.period {
		return 0, 0, 0, ErrInsufficientData
	}

	window := data[len(data)-b.period:]
	sum := 0.0
	for _, c := range window {
		sum += c.Close
	}
	middle = sum / float64(b.period)

	variance := 0.0
	for _, c := range window {
		d := c.Close - middle
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(b.period))

	upper = middle + b.stdDev*sd
	lower = middle - b.stdDev*sd
	return upper, middle, lower, nil
}

// PercentB returns the position of the last close within the bands: 0 at the
// lower band, 1 at the upper band. Values outside [0,1] mean price is outside
// the bands.
func (b *BollingerBands) PercentB(data []types.OHLCV) (float64, error) {
	upper, _, lower, err := b.Bands(data)
	if err != nil {
		return 0, err
	}
	width := upper - lower
	if width == 0 {
		return 0.5, nil
	}
	return (data[len(data)-1].Close - lower) / width, nil
}
