package levels

import (
	"sort"

	"github.com/tradekit/structurebot/pkg/types"
)

// detectClusters groups repeated wick touches that land within the proximity
// threshold of one another. Clusters with at least two touches become levels
// centered on the average touch price.
func detectClusters(data []types.OHLCV, proximityPct float64, halfWidth float64, timeframe string) []Level {
	if len(data) == 0 {
		return nil
	}

	touches := make([]float64, 0, len(data)*2)
	for _, c := range data {
		touches = append(touches, c.High, c.Low)
	}
	sort.Float64s(touches)

	var out []Level
	start := 0
	for i := 1; i <= len(touches); i++ {
		// A cluster ends when the next touch is farther than the proximity
		// threshold from the cluster's first touch.
		if i < len(touches) && touches[i]-touches[start] <= touches[start]*proximityPct/100 {
			continue
		}

		if count := i - start; count >= 2 {
			sum := 0.0
			for _, p := range touches[start:i] {
				sum += p
			}
			lv := pointLevel(sum/float64(count), LevelSupport, halfWidth, timeframe)
			lv.Touches = count
			out = append(out, lv)
		}
		start = i
	}
	return out
}
