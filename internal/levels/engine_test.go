package levels

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradekit/structurebot/pkg/types"
)

func testEngine() *Engine {
	return NewEngine(DefaultConfig(), zerolog.Nop())
}

// rangeData oscillates between a floor and a ceiling so swing detection has
// repeated extremes to find.
func rangeData(count int) []types.OHLCV {
	data := make([]types.OHLCV, count)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		phase := math.Sin(float64(i) / 8 * math.Pi)
		price := 100 + 5*phase
		data[i] = types.OHLCV{
			Open:      price,
			High:      price + 0.4,
			Low:       price - 0.4,
			Close:     price,
			Volume:    1000,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return data
}

func TestDetectLevels_ZoneInvariant(t *testing.T) {
	res := testEngine().DetectLevels(rangeData(200), "BTCUSDT", "1h", 0)
	require.NotEmpty(t, res.Levels)

	for _, lv := range res.Levels {
		assert.LessOrEqual(t, lv.PriceLow, lv.PriceMid, "level %s", lv.ID)
		assert.LessOrEqual(t, lv.PriceMid, lv.PriceHigh, "level %s", lv.ID)
		assert.NotEmpty(t, lv.ID)
	}
}

func TestDetectLevels_SortedAndCapped(t *testing.T) {
	e := testEngine()
	res := e.DetectLevels(rangeData(400), "BTCUSDT", "1h", 0)

	assert.LessOrEqual(t, len(res.Levels), e.cfg.MaxLevels)
	for i := 1; i < len(res.Levels); i++ {
		assert.LessOrEqual(t, res.Levels[i-1].PriceMid, res.Levels[i].PriceMid)
	}
}

func TestDetectLevels_EmptyWindow(t *testing.T) {
	res := testEngine().DetectLevels(nil, "BTCUSDT", "1h", 0)
	assert.Empty(t, res.Levels)
	assert.Equal(t, "BTCUSDT", res.Symbol)
}

func TestDetectLevels_Deterministic(t *testing.T) {
	data := rangeData(200)
	a := testEngine().DetectLevels(data, "BTCUSDT", "1h", 0)
	b := testEngine().DetectLevels(data, "BTCUSDT", "1h", 0)
	assert.Equal(t, a, b)
}

func TestMergeLevels_Idempotent(t *testing.T) {
	raw := []Level{
		pointLevel(100, LevelSwingLow, 0.5, "1h"),
		pointLevel(100.2, LevelSwingLow, 0.5, "1h"),
		pointLevel(105, LevelSwingHigh, 0.5, "1h"),
		pointLevel(112, LevelSwingHigh, 0.5, "1h"),
	}
	sortByMid(raw)

	once := mergeLevels(raw, 0.3)
	twice := mergeLevels(once, 0.3)
	assert.Equal(t, once, twice)
}

func TestMergeLevels_ExpandsZoneAndSumsTouches(t *testing.T) {
	a := pointLevel(100, LevelSwingLow, 0.5, "1h")
	a.Touches = 2
	b := pointLevel(100.4, LevelSwingLow, 0.5, "1h")
	b.Touches = 3
	b.Strength = StrengthStrong

	merged := mergeLevels([]Level{a, b}, 0.3)
	require.Len(t, merged, 1)

	assert.Equal(t, 99.5, merged[0].PriceLow)
	assert.Equal(t, 100.9, merged[0].PriceHigh)
	assert.Equal(t, 5, merged[0].Touches)
	assert.Equal(t, StrengthStrong, merged[0].Strength)
}

func TestMergeLevels_KeepsDistantLevelsApart(t *testing.T) {
	a := pointLevel(100, LevelSwingLow, 0.2, "1h")
	b := pointLevel(110, LevelSwingHigh, 0.2, "1h")

	merged := mergeLevels([]Level{a, b}, 0.3)
	assert.Len(t, merged, 2)
}

func TestStrengthForTouches(t *testing.T) {
	assert.Equal(t, StrengthKey, strengthForTouches(5, 5, 3))
	assert.Equal(t, StrengthStrong, strengthForTouches(3, 5, 3))
	assert.Equal(t, StrengthStrong, strengthForTouches(4, 5, 3))
	assert.Equal(t, StrengthModerate, strengthForTouches(2, 5, 3))
	assert.Equal(t, StrengthWeak, strengthForTouches(1, 5, 3))
	assert.Equal(t, StrengthWeak, strengthForTouches(0, 5, 3))
}

func TestGradeStrength_NeverLowersTouches(t *testing.T) {
	lv := pointLevel(100, LevelSwingLow, 0.5, "1h")
	lv.Touches = 7

	// Window that never touches the zone.
	data := []types.OHLCV{{Open: 200, High: 201, Low: 199, Close: 200}}
	graded := gradeStrength(data, []Level{lv}, 5, 3)

	require.Len(t, graded, 1)
	assert.Equal(t, 7, graded[0].Touches)
	assert.Equal(t, StrengthKey, graded[0].Strength)
}

func TestClassify_SupportBelowResistanceAbove(t *testing.T) {
	ls := []Level{
		pointLevel(90, LevelSwingLow, 0.5, "1h"),
		pointLevel(110, LevelSwingHigh, 0.5, "1h"),
		pointLevel(120, LevelPivot, 0.5, "1h"),
	}

	out := classify(ls, 100)
	assert.Equal(t, LevelSupport, out[0].Type)
	assert.Equal(t, LevelResistance, out[1].Type)
	// Pre-tagged types are untouched.
	assert.Equal(t, LevelPivot, out[2].Type)
}

func TestNearestSupportAndResistance(t *testing.T) {
	res := &Result{
		CurrentPrice: 101,
		Levels: []Level{
			{PriceMid: 90, Type: LevelSupport},
			{PriceMid: 95, Type: LevelSupport},
			{PriceMid: 105, Type: LevelResistance},
		},
	}

	sup, ok := res.NearestSupport(101)
	require.True(t, ok)
	assert.Equal(t, 95.0, sup.PriceMid)

	resi, ok := res.NearestResistance(101)
	require.True(t, ok)
	assert.Equal(t, 105.0, resi.PriceMid)

	// Zero reference falls back to current price.
	sup, ok = res.NearestSupport(0)
	require.True(t, ok)
	assert.Equal(t, 95.0, sup.PriceMid)

	_, ok = res.NearestSupport(80)
	assert.False(t, ok)
}

func TestSelectTop_KeepsStrongestPerSide(t *testing.T) {
	var ls []Level
	for i := 0; i < 10; i++ {
		lv := pointLevel(90+float64(i), LevelSupport, 0.1, "1h")
		lv.Type = LevelSupport
		ls = append(ls, lv)
	}
	key := pointLevel(85, LevelSupport, 0.1, "1h")
	key.Type = LevelSupport
	key.Strength = StrengthKey
	ls = append(ls, key)
	for i := 0; i < 8; i++ {
		lv := pointLevel(105+float64(i), LevelResistance, 0.1, "1h")
		lv.Type = LevelResistance
		ls = append(ls, lv)
	}

	out := selectTop(ls, 102, 6)
	assert.LessOrEqual(t, len(out), 6)

	// The KEY level survives despite being the farthest support.
	found := false
	for _, lv := range out {
		if lv.PriceMid == 85 {
			found = true
		}
	}
	assert.True(t, found, "KEY level should be retained")
}

func TestPivotPrices_Variants(t *testing.T) {
	data := []types.OHLCV{
		{High: 110, Low: 90, Close: 100},
		{High: 105, Low: 95, Close: 100}, // last bar excluded from the prior period
	}

	std := pivotPrices(data, PivotStandard)
	require.NotEmpty(t, std)
	assert.InDelta(t, 100.0, std[0], 1e-9) // (110+90+100)/3

	fib := pivotPrices(data, PivotFibonacci)
	assert.InDelta(t, 100+0.382*20, fib[1], 1e-9)

	cam := pivotPrices(data, PivotCamarilla)
	assert.InDelta(t, 100+20*1.1/12, cam[1], 1e-9)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.PivotVariant = "woodie"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxLevels = 1
	assert.Error(t, cfg.Validate())
}
