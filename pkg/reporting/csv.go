package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"Bar_Time",
	"Price",
	"Regime",
	"Regime_Confidence",
	"Levels",
	"Direction",
	"Score",
	"Quality",
	"Trigger_Status",
	"Trigger_Type",
	"Trigger_Confidence",
	"Stop_Loss",
	"Take_Profit",
	"Risk_Reward",
	"Leverage",
}

// WriteCSV writes the decision records as CSV. An .xlsx path delegates to
// the Excel writer.
func WriteCSV(r *Report, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WriteXLSX(r, path)
	}
	if err := EnsureDirectoryExists(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range r.Records {
		row := []string{
			rec.BarTime.Format(time.RFC3339),
			formatFloat(rec.Price),
			rec.Regime,
			formatFloat(rec.RegimeConfidence),
			strconv.Itoa(rec.LevelCount),
			rec.Direction,
			formatFloat(rec.Score),
			rec.Quality,
			rec.TriggerStatus,
			rec.TriggerType,
			formatFloat(rec.TriggerConfidence),
			formatFloat(rec.StopLoss),
			formatFloat(rec.TakeProfit),
			formatFloat(rec.RiskReward),
			formatFloat(rec.Leverage),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
