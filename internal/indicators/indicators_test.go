package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradekit/structurebot/pkg/types"
)

// generateTestData produces a gently rising series with fixed volume.
func generateTestData(count int) []types.OHLCV {
	data := make([]types.OHLCV, count)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < count; i++ {
		price += 0.5
		data[i] = types.OHLCV{
			Open:      price - 0.3,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
			Volume:    1000,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return data
}

func TestEMA_InsufficientData(t *testing.T) {
	ema := NewEMA(20)
	_, err := ema.Calculate(generateTestData(10))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEMA_TracksRisingPrices(t *testing.T) {
	data := generateTestData(100)

	fast, err := NewEMA(10).Calculate(data)
	require.NoError(t, err)
	slow, err := NewEMA(50).Calculate(data)
	require.NoError(t, err)

	// On a monotonic uptrend the faster EMA sits above the slower one and
	// both stay below the last close.
	last := data[len(data)-1].Close
	assert.Greater(t, fast, slow)
	assert.Less(t, fast, last)
}

func TestSMA_Flat(t *testing.T) {
	data := make([]types.OHLCV, 30)
	for i := range data {
		data[i] = types.OHLCV{Close: 50}
	}
	v, err := NewSMA(20).Calculate(data)
	require.NoError(t, err)
	assert.Equal(t, 50.0, v)
}

func TestRSI_Extremes(t *testing.T) {
	// All gains: RSI pegs at 100.
	up := generateTestData(40)
	v, err := NewRSI(14).Calculate(up)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	// All losses: RSI collapses toward 0.
	down := make([]types.OHLCV, 40)
	price := 100.0
	for i := range down {
		price -= 0.5
		down[i] = types.OHLCV{Close: price}
	}
	v, err = NewRSI(14).Calculate(down)
	require.NoError(t, err)
	assert.Less(t, v, 1.0)
}

func TestRSI_InsufficientData(t *testing.T) {
	_, err := NewRSI(14).Calculate(generateTestData(10))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestATR_ConstantRange(t *testing.T) {
	// Identical bars with a fixed 2.0 high-low range and no gaps: ATR is
	// exactly that range.
	data := make([]types.OHLCV, 30)
	for i := range data {
		data[i] = types.OHLCV{Open: 100, High: 101, Low: 99, Close: 100}
	}
	v, err := NewATR(14).Calculate(data)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-9)

	pct, err := NewATR(14).CalculatePercent(data)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, pct, 1e-9)
}

func TestADX_StrongOnMonotonicTrend(t *testing.T) {
	v, err := NewADX(14).Calculate(generateTestData(100))
	require.NoError(t, err)
	// A strictly one-directional series has no -DM at all, so DX is pinned
	// at 100 and ADX converges there.
	assert.Greater(t, v, 90.0)
}

func TestADX_InsufficientData(t *testing.T) {
	_, err := NewADX(14).Calculate(generateTestData(20))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMACD_PositiveInUptrend(t *testing.T) {
	res, err := NewMACD(12, 26, 9).Calculate(generateTestData(120))
	require.NoError(t, err)
	assert.Greater(t, res.MACD, 0.0)
}

func TestBollinger_FlatSeries(t *testing.T) {
	data := make([]types.OHLCV, 30)
	for i := range data {
		data[i] = types.OHLCV{Close: 100}
	}
	upper, middle, lower, err := NewBollingerBands(20, 2.0).Bands(data)
	require.NoError(t, err)
	assert.Equal(t, 100.0, middle)
	assert.Equal(t, upper, lower) // zero variance, bands collapse

	pb, err := NewBollingerBands(20, 2.0).PercentB(data)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pb)
}

func TestVolumeRatio(t *testing.T) {
	data := generateTestData(40)
	data[len(data)-1].Volume = 2000 // double the average

	v, err := NewVolumeRatio(20).Calculate(data)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-9)
}

func TestSnapshot_FullWindow(t *testing.T) {
	snap := Snapshot(generateTestData(250), DefaultSnapshotConfig())

	require.NotNil(t, snap.EMA20)
	require.NotNil(t, snap.EMA50)
	require.NotNil(t, snap.EMA200)
	require.NotNil(t, snap.ADX14)
	require.NotNil(t, snap.RSI14)
	require.NotNil(t, snap.ATR)
	require.NotNil(t, snap.ATRPercent)
	require.NotNil(t, snap.MACD)
	require.NotNil(t, snap.BollingerPercentB)
	require.NotNil(t, snap.VolumeRatio)
	require.NotNil(t, snap.PrevClose)

	assert.False(t, math.IsNaN(*snap.ADX14))
}

func TestSnapshot_ShortWindow(t *testing.T) {
	snap := Snapshot(generateTestData(30), DefaultSnapshotConfig())

	// Long-period indicators are absent, short-period ones still present.
	assert.Nil(t, snap.EMA200)
	assert.Nil(t, snap.ADX14)
	assert.NotNil(t, snap.EMA20)
	assert.NotNil(t, snap.RSI14)
}

func TestSnapshot_Empty(t *testing.T) {
	snap := Snapshot(nil, DefaultSnapshotConfig())
	assert.Nil(t, snap.EMA20)
	assert.Nil(t, snap.ATR)
}
