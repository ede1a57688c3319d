package data

import (
	"time"

	"github.com/tradekit/structurebot/pkg/types"
)

// Provider loads historical OHLCV series from some source.
type Provider interface {
	// LoadData loads the series from the given source (file path, key).
	LoadData(source string) ([]types.OHLCV, error)

	// ValidateData checks the integrity of a loaded series.
	ValidateData(data []types.OHLCV) error

	// GetName identifies the provider in logs.
	GetName() string
}

// Cache stores loaded series keyed by source.
type Cache interface {
	Get(key string) ([]types.OHLCV, bool)
	Set(key string, data []types.OHLCV)
	Clear()
	Size() int
}

// FilterByPeriod trims the series to the trailing period relative to its
// last bar.
func FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV {
	if period <= 0 || len(data) == 0 {
		return data
	}
	cutoff := data[len(data)-1].Timestamp.Add(-period)
	for i, candle := range data {
		if !candle.Timestamp.Before(cutoff) {
			return data[i:]
		}
	}
	return data
}

// FilterByDateRange keeps bars with start <= timestamp <= end.
func FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV {
	var filtered []types.OHLCV
	for _, candle := range data {
		if !candle.Timestamp.Before(start) && !candle.Timestamp.After(end) {
			filtered = append(filtered, candle)
		}
	}
	return filtered
}

// LastWindow returns the trailing n bars, or the whole series when shorter.
func LastWindow(data []types.OHLCV, n int) []types.OHLCV {
	if n <= 0 || len(data) <= n {
		return data
	}
	return data[len(data)-n:]
}
