package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tradekit/structurebot/internal/config"
	"github.com/tradekit/structurebot/internal/pipeline"
	"github.com/tradekit/structurebot/pkg/data"
	"github.com/tradekit/structurebot/pkg/reporting"
	"github.com/tradekit/structurebot/pkg/types"
)

func main() {
	var (
		csvFile    = flag.String("csv", "", "Path to CSV file with OHLCV data")
		configFile = flag.String("config", "", "Path to JSON config (defaults apply when omitted)")
		symbol     = flag.String("symbol", "", "Trading symbol, overrides config")
		timeframe  = flag.String("timeframe", "", "Timeframe label, overrides config")
		window     = flag.Int("window", 0, "Evaluation window size, overrides config")
		outputDir  = flag.String("output", "", "Output directory for reports")
		exportXLSX = flag.Bool("xlsx", false, "Also export an Excel workbook")
		tableRows  = flag.Int("rows", 30, "Max decision rows printed to console")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	godotenv.Load()

	log := newLogger(*verbose)

	if *csvFile == "" {
		log.Fatal().Msg("CSV file path is required, use -csv")
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if *symbol != "" {
		cfg.Symbol = *symbol
	}
	if *timeframe != "" {
		cfg.Timeframe = *timeframe
	}
	if *window > 0 {
		cfg.WindowSize = *window
	}

	provider := data.NewCachedProvider(data.NewCSVProvider(log), data.NewMemoryCache())
	series, err := provider.LoadData(*csvFile)
	if err != nil {
		log.Fatal().Err(err).Msg("loading OHLCV data failed")
	}
	if len(series) < cfg.WindowSize {
		log.Fatal().Int("bars", len(series)).Int("window", cfg.WindowSize).
			Msg("not enough bars for one evaluation window")
	}

	p, err := pipeline.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline construction failed")
	}

	report := runAnalysis(p, cfg, series, log)

	reporting.PrintReport(os.Stdout, report, *tableRows)

	dir := *outputDir
	if dir == "" {
		dir = reporting.DefaultOutputDir(cfg.Symbol, cfg.Timeframe)
	}
	exportReports(report, dir, *exportXLSX, log)
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

// runAnalysis slides the evaluation window across the series bar by bar and
// collects every full-cycle decision.
func runAnalysis(p *pipeline.Pipeline, cfg *config.Config, series []types.OHLCV, log zerolog.Logger) *reporting.Report {
	report := reporting.NewReport(cfg.Symbol, cfg.Timeframe)
	started := time.Now()

	for i := cfg.WindowSize; i <= len(series); i++ {
		window := series[i-cfg.WindowSize : i]
		barTime := window[len(window)-1].Timestamp

		dec, err := p.Evaluate(window, barTime)
		if err != nil {
			log.Warn().Err(err).Time("bar", barTime).Msg("evaluation failed, skipping bar")
			continue
		}
		report.Add(dec)
	}

	report.Finalize()
	log.Info().
		Int("cycles", report.Summary.Cycles).
		Int("triggered", report.Summary.Triggered).
		Dur("took", time.Since(started)).
		Msg("analysis complete")
	return report
}

func exportReports(report *reporting.Report, dir string, xlsx bool, log zerolog.Logger) {
	jsonPath := filepath.Join(dir, "decisions.json")
	if err := reporting.WriteJSON(report, jsonPath); err != nil {
		log.Error().Err(err).Msg("JSON export failed")
	} else {
		log.Info().Str("path", jsonPath).Msg("wrote JSON report")
	}

	csvPath := filepath.Join(dir, "decisions.csv")
	if err := reporting.WriteCSV(report, csvPath); err != nil {
		log.Error().Err(err).Msg("CSV export failed")
	} else {
		log.Info().Str("path", csvPath).Msg("wrote CSV report")
	}

	if xlsx {
		xlsxPath := filepath.Join(dir, "decisions.xlsx")
		if err := reporting.WriteXLSX(report, xlsxPath); err != nil {
			log.Error().Err(err).Msg("Excel export failed")
		} else {
			log.Info().Str("path", xlsxPath).Msg("wrote Excel report")
		}
	}
}
