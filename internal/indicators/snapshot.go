package indicators

import "github.com/tradekit/structurebot/pkg/types"

// SnapshotConfig fixes the periods used when deriving an indicator snapshot.
type SnapshotConfig struct {
	EMAFast      int `json:"ema_fast"`
	EMAMid       int `json:"ema_mid"`
	EMASlow      int `json:"ema_slow"`
	ADXPeriod    int `json:"adx_period"`
	RSIPeriod    int `json:"rsi_period"`
	ATRPeriod    int `json:"atr_period"`
	MACDFast     int `json:"macd_fast"`
	MACDSlow     int `json:"macd_slow"`
	MACDSignal   int `json:"macd_signal"`
	BBPeriod     int `json:"bb_period"`
	BBStdDev     float64 `json:"bb_std_dev"`
	VolumePeriod int `json:"volume_period"`
}

// DefaultSnapshotConfig returns the conventional periods: EMA 20/50/200,
// 14-bar ADX/RSI/ATR, 12-26-9 MACD, 20-bar Bollinger and volume average.
func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		EMAFast:      20,
		EMAMid:       50,
		EMASlow:      200,
		ADXPeriod:    14,
		RSIPeriod:    14,
		ATRPeriod:    14,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		BBPeriod:     20,
		BBStdDev:     2.0,
		VolumePeriod: 20,
	}
}

// Snapshot derives every indicator the pipeline consumes from the window.
// Indicators that cannot be computed on the given window are left nil; the
// snapshot itself never fails.
func Snapshot(data []types.OHLCV, cfg SnapshotConfig) types.IndicatorSnapshot {
	var snap types.IndicatorSnapshot
	if len(data) == 0 {
		return snap
	}

	if v, err := NewEMA(cfg.EMAFast).Calculate(data); err == nil {
		snap.EMA20 = types.Float(v)
	}
	if v, err := NewEMA(cfg.EMAMid).Calculate(data); err == nil {
		snap.EMA50 = types.Float(v)
	}
	if v, err := NewEMA(cfg.EMASlow).Calculate(data); err == nil {
		snap.EMA200 = types.Float(v)
	}
	if v, err := NewADX(cfg.ADXPeriod).Calculate(data); err == nil {
		snap.ADX14 = types.Float(v)
	}
	if v, err := NewRSI(cfg.RSIPeriod).Calculate(data); err == nil {
		snap.RSI14 = types.Float(v)
	}

	atr := NewATR(cfg.ATRPeriod)
	if v, err := atr.Calculate(data); err == nil {
		snap.ATR = types.Float(v)
	}
	if v, err := atr.CalculatePercent(data); err == nil {
		snap.ATRPercent = types.Float(v)
	}

	macd := NewMACD(cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	if res, err := macd.Calculate(data); err == nil {
		snap.MACD = types.Float(res.MACD)
		snap.MACDSignal = types.Float(res.Signal)
		snap.MACDHistogram = types.Float(res.Histogram)
	}
	if len(data) > 1 {
		snap.PrevClose = types.Float(data[len(data)-2].Close)
		if res, err := macd.Calculate(data[:len(data)-1]); err == nil {
			snap.PrevMACDHistogram = types.Float(res.Histogram)
		}
	}

	if v, err := NewBollingerBands(cfg.BBPeriod, cfg.BBStdDev).PercentB(data); err == nil {
		snap.BollingerPercentB = types.Float(v)
	}
	if v, err := NewVolumeRatio(cfg.VolumePeriod).Calculate(data); err == nil {
		snap.VolumeRatio = types.Float(v)
	}

	return snap
}
