package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the report as a workbook with a Decisions sheet and a
// Summary sheet.
func WriteXLSX(r *Report, path string) error {
	if err := EnsureDirectoryExists(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const decisionsSheet = "Decisions"
	const summarySheet = "Summary"
	fx.SetSheetName(fx.GetSheetName(0), decisionsSheet)
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	numberStyle, err := fx.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	if err := writeDecisionsSheet(fx, decisionsSheet, r, headerStyle, numberStyle); err != nil {
		return err
	}
	if err := writeSummarySheet(fx, summarySheet, r, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func writeDecisionsSheet(fx *excelize.File, sheet string, r *Report, headerStyle, numberStyle int) error {
	for i, h := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, rec := range r.Records {
		row := i + 2
		values := []interface{}{
			rec.BarTime,
			rec.Price,
			rec.Regime,
			rec.RegimeConfidence,
			rec.LevelCount,
			rec.Direction,
			rec.Score,
			rec.Quality,
			rec.TriggerStatus,
			rec.TriggerType,
			rec.TriggerConfidence,
			rec.StopLoss,
			rec.TakeProfit,
			rec.RiskReward,
			rec.Leverage,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := fx.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		priceCell, _ := excelize.CoordinatesToCellName(2, row)
		levCell, _ := excelize.CoordinatesToCellName(len(values), row)
		fx.SetCellStyle(sheet, priceCell, levCell, numberStyle)
	}
	return nil
}

func writeSummarySheet(fx *excelize.File, sheet string, r *Report, headerStyle int) error {
	s := r.Summary
	rows := [][]interface{}{
		{"Symbol", r.Symbol},
		{"Timeframe", r.Timeframe},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Cycles", s.Cycles},
		{"Triggered", s.Triggered},
		{"Average score", s.AverageScore},
		{"Best score", s.BestScore},
	}
	for name, count := range s.TriggersByType {
		rows = append(rows, []interface{}{fmt.Sprintf("Trigger %s", name), count})
	}
	for name, count := range s.RegimeCounts {
		rows = append(rows, []interface{}{fmt.Sprintf("Regime %s", name), count})
	}

	for i, row := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := fx.SetCellValue(sheet, labelCell, row[0]); err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, valueCell, row[1]); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, labelCell, labelCell, headerStyle)
	}
	return fx.SetColWidth(sheet, "A", "A", 24)
}
