package indicators

import "github.com/tradekit/structurebot/pkg/types"

// MACDResult holds the three MACD series values at the last bar.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD computes the Moving Average Convergence Divergence.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
	}
}

// Calculate returns the MACD line, signal line and histogram at the last bar.
// The signal line is an EMA of the MACD line over the window past the slow
// period.
func (m *MACD) Calculate(data []types.OHLCV) (MACDResult, error) {
	if len(data) < m.slowPeriod+m.signalPeriod {
		return MACDResult{}, ErrInsufficientData
	}

	macdSeries := m.macdSeries(data)
	if len(macdSeries) < m.signalPeriod {
		return MACDResult{}, ErrInsufficientData
	}

	// Seed the signal line with an SMA of the first signalPeriod MACD values.
	signal := 0.0
	for i := 0; i < m.signalPeriod; i++ {
		signal += macdSeries[i]
	}
	signal /= float64(m.signalPeriod)

	multiplier := 2.0 / float64(m.signalPeriod+1)
	for i := m.signalPeriod; i < len(macdSeries); i++ {
		signal = (macdSeries[i]-signal)*multiplier + signal
	}

	macd := macdSeries[len(macdSeries)-1]
	return MACDResult{
		MACD:      macd,
		Signal:    signal,
		Histogram: macd - signal,
	}, nil
}

// macdSeries computes the MACD line for every bar from the slow period on.
func (m *MACD) macdSeries(data []types.OHLCV) []float64 {
	fastMult := 2.0 / float64(m.fastPeriod+1)
	slowMult := 2.0 / float64(m.slowPeriod+1)

	seed := func(period int) float64 {
		sum := 0.0
		for i := 0; i < period; i++ {
			sum += data[i].Close
		}
		return sum / float64(period)
	}

	fast := seed(m.fastPeriod)
	for i := m.fastPeriod; i < m.slowPeriod; i++ {
		fast = (data[i].Close-fast)*fastMult + fast
	}
	slow := seed(m.slowPeriod)

	series := make([]float64, 0, len(data)-m.slowPeriod+1)
	series = append(series, fast-slow)
	for i := m.slowPeriod; i < len(data); i++ {
		fast = (data[i].Close-fast)*fastMult + fast
		slow = (data[i].Close-slow)*slowMult + slow
		series = append(series, fast-slow)
	}
	return series
}
