package indicators

import "github.com/tradekit/structurebot/pkg/types"

// VolumeRatio compares the last bar's volume to its simple moving average.
// A ratio above 1 means above-average participation.
type VolumeRatio struct {
	period int
}

func NewVolumeRatio(period int) *VolumeRatio {
	return &VolumeRatio{period: period}
}

func (v *VolumeRatio) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < v.period+1 {
		return 0, ErrInsufficientData
	}

	// Average over the bars preceding the last one.
	sum := 0.0
	for i := len(data) - v.period - 1; i < len(data)-1; i++ {
		sum += data[i].Volume
	}
	avg := sum / float64(v.period)
	if avg == 0 {
		return 0, ErrInsufficientData
	}

	return data[len(data)-1].Volume / avg, nil
}
