package indicators

import "github.com/tradekit/structurebot/pkg/types"

// ADX computes the Average Directional Index, a trend-strength measure on a
// 0-100 scale. Readings above 20 indicate a trending market, above 30 a
// strong trend.
type ADX struct {
	period int
}

func NewADX(period int) *ADX {
	return &ADX{period: period}
}

// Calculate returns the smoothed ADX over the window. Needs roughly three
// periods of data: one to seed the directional movement averages, one for the
// first DX, and one to smooth DX into ADX.
func (a *ADX) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < a.period*3 {
		return 0, ErrInsufficientData
	}

	n := float64(a.period)

	// Seed Wilder sums for TR, +DM and -DM.
	var trSum, plusDMSum, minusDMSum float64
	for i := 1; i <= a.period; i++ {
		tr, plusDM, minusDM := directionalMovement(data[i], data[i-1])
		trSum += tr
		plusDMSum += plusDM
		minusDMSum += minusDM
	}

	var adx float64
	dxCount := 0
	for i := a.period + 1; i < len(data); i++ {
		tr, plusDM, minusDM := directionalMovement(data[i], data[i-1])
		trSum = trSum - trSum/n + tr
		plusDMSum = plusDMSum - plusDMSum/n + plusDM
		minusDMSum = minusDMSum - minusDMSum/n + minusDM

		if trSum == 0 {
			continue
		}
		plusDI := plusDMSum / trSum * 100
		minusDI := minusDMSum / trSum * 100

		diSum := plusDI + minusDI
		if diSum == 0 {
			continue
		}
		dx := abs(plusDI-minusDI) / diSum * 100

		dxCount++
		if dxCount == 1 {
			adx = dx
		} else {
			adx = (adx*(n-1) + dx) / n
		}
	}

	if dxCount == 0 {
		return 0, ErrInsufficientData
	}
	return adx, nil
}

func directionalMovement(current, previous types.OHLCV) (tr, plusDM, minusDM float64) {
	tr = trueRange(current, previous)

	highDiff := current.High - previous.High
	lowDiff := previous.Low - current.Low

	if highDiff > lowDiff && highDiff > 0 {
		plusDM = highDiff
	}
	if lowDiff > highDiff && lowDiff > 0 {
		minusDM = lowDiff
	}
	return tr, plusDM, minusDM
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
