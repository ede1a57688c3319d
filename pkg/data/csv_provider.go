package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradekit/structurebot/pkg/types"
)

var (
	ErrUnorderedData = errors.New("data: timestamps out of order")
	ErrDuplicateBar  = errors.New("data: duplicate timestamp")
)

// ColumnMapping defines column positions in a CSV file. Timestamps may be
// unix seconds, unix milliseconds, or RFC3339 strings.
type ColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	HasHeader    bool
}

// DefaultCSVFormat matches the common "timestamp,open,high,low,close,volume"
// export layout.
var DefaultCSVFormat = ColumnMapping{
	TimestampCol: 0,
	OpenCol:      1,
	HighCol:      2,
	LowCol:       3,
	CloseCol:     4,
	VolumeCol:    5,
	MinColumns:   6,
	HasHeader:    true,
}

// CSVProvider loads OHLCV series from CSV files.
type CSVProvider struct {
	format ColumnMapping
	log    zerolog.Logger
}

func NewCSVProvider(log zerolog.Logger) *CSVProvider {
	return &CSVProvider{
		format: DefaultCSVFormat,
		log:    log.With().Str("component", "csv_provider").Logger(),
	}
}

func NewCSVProviderWithFormat(format ColumnMapping, log zerolog.Logger) *CSVProvider {
	p := NewCSVProvider(log)
	p.format = format
	return p
}

func (p *CSVProvider) GetName() string {
	return "csv"
}

// LoadData reads and validates the series at the given path.
func (p *CSVProvider) LoadData(source string) ([]types.OHLCV, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", source, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	line := 0
	if p.format.HasHeader {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("reading header of %s: %w", source, err)
		}
		line = 1
	}

	var data []types.OHLCV
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s line %d: %w", source, line+1, err)
		}
		line++

		if len(record) < p.format.MinColumns {
			p.log.Warn().Int("line", line).Int("columns", len(record)).
				Msg("skipping row with too few columns")
			continue
		}

		candle, err := p.parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", source, line, err)
		}
		data = append(data, candle)
	}

	if err := p.ValidateData(data); err != nil {
		return nil, err
	}
	p.log.Info().Str("source", source).Int("bars", len(data)).Msg("loaded series")
	return data, nil
}

// ValidateData checks ordering, uniqueness and basic candle sanity.
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	for i, candle := range data {
		if i > 0 {
			prev := data[i-1].Timestamp
			if candle.Timestamp.Equal(prev) {
				return fmt.Errorf("%w at %s (bar %d)", ErrDuplicateBar, candle.Timestamp, i)
			}
			if candle.Timestamp.Before(prev) {
				return fmt.Errorf("%w at bar %d: %s before %s",
					ErrUnorderedData, i, candle.Timestamp, prev)
			}
		}
		if candle.High < candle.Low {
			return fmt.Errorf("data: bar %d high %.8f below low %.8f", i, candle.High, candle.Low)
		}
		if candle.Open <= 0 || candle.Close <= 0 {
			return fmt.Errorf("data: bar %d has non-positive price", i)
		}
		if candle.Volume < 0 {
			return fmt.Errorf("data: bar %d has negative volume", i)
		}
	}
	return nil
}

func (p *CSVProvider) parseRow(record []string) (types.OHLCV, error) {
	ts, err := parseTimestamp(record[p.format.TimestampCol])
	if err != nil {
		return types.OHLCV{}, err
	}

	fields := [5]float64{}
	cols := [5]int{p.format.OpenCol, p.format.HighCol, p.format.LowCol, p.format.CloseCol, p.format.VolumeCol}
	for i, col := range cols {
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("column %d: %w", col, err)
		}
		fields[i] = v
	}

	return types.OHLCV{
		Timestamp: ts,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		// Millisecond stamps are 13 digits for any modern date.
		if unix > 1e12 {
			return time.UnixMilli(unix).UTC(), nil
		}
		return time.Unix(unix, 0).UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
