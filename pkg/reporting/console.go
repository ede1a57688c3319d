package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PrintReport renders the decision records and summary as console tables.
func PrintReport(w io.Writer, r *Report, maxRows int) {
	records := r.Records
	if maxRows > 0 && len(records) > maxRows {
		records = records[len(records)-maxRows:]
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("DECISIONS %s %s", r.Symbol, r.Timeframe))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Bar", "Price", "Regime", "Dir", "Score", "Quality", "Trigger", "Type", "RR", "Lev"})

	for _, rec := range records {
		t.AppendRow(table.Row{
			rec.BarTime.Format("01-02 15:04"),
			fmt.Sprintf("%.2f", rec.Price),
			rec.Regime,
			rec.Direction,
			fmt.Sprintf("%.2f", rec.Score),
			rec.Quality,
			rec.TriggerStatus,
			rec.TriggerType,
			formatRR(rec.RiskReward),
			fmt.Sprintf("%.0fx", rec.Leverage),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(w)

	PrintSummary(w, r)
}

// PrintSummary renders only the aggregate table.
func PrintSummary(w io.Writer, r *Report) {
	s := r.Summary

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("RUN SUMMARY")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Cycles", s.Cycles},
		{"Triggered", s.Triggered},
		{"Average score", fmt.Sprintf("%.3f", s.AverageScore)},
		{"Best score", fmt.Sprintf("%.3f", s.BestScore)},
	})
	for name, count := range s.TriggersByType {
		t.AppendRow(table.Row{"Trigger " + name, count})
	}
	for name, count := range s.RegimeCounts {
		t.AppendRow(table.Row{"Regime " + name, count})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
	fmt.Fprintln(w)
}

func formatRR(rr float64) string {
	if rr == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", rr)
}
