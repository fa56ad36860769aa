package internal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	subscribersSheet = "Subscribers"
	revenueSheet     = "Revenue"
)

// ExportXLSX writes the report to an Excel workbook with a Subscribers and a Revenue sheet
func ExportXLSX(path string, report *Report, cfg *Config) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", subscribersSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeSheetRows(f, subscribersSheet, subscriberRows(report.Categories, cfg)); err != nil {
		return err
	}

	if _, err := f.NewSheet(revenueSheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", revenueSheet, err)
	}
	if err := writeSheetRows(f, revenueSheet, revenueRows(report)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func subscriberRows(cats []Category, cfg *Config) [][]any {
	rows := [][]any{{"Subscription ID", "Type", "Count", "Unit", "Description"}}
	for _, cat := range cats {
		rows = append(rows, []any{cat.ID, cat.Cadence.String(), cat.Count, cat.Cadence.Unit(), cfg.GetDescription(cat.ID)})
	}
	return rows
}

func revenueRows(report *Report) [][]any {
	rows := [][]any{{"Year", "Revenue", "Change"}}
	for _, row := range report.Revenue {
		var change any
		if row.HasPrev {
			change = row.Change
		}
		rows = append(rows, []any{row.Year, row.Total, change})
	}

	rows = append(rows, []any{})
	rows = append(rows, []any{"Highest growth", extremaCell(report.Extrema.MaxGrowth, true), extremaCell(report.Extrema.MaxGrowth, false)})
	rows = append(rows, []any{"Highest loss", extremaCell(report.Extrema.MaxLoss, true), extremaCell(report.Extrema.MaxLoss, false)})
	if report.Forecast != nil {
		rows = append(rows, []any{"Projected", report.Forecast.Year, report.Forecast.Amount})
	} else {
		rows = append(rows, []any{"Projected", "N/A", "N/A"})
	}
	return rows
}

func extremaCell(d *YearDelta, year bool) any {
	if d == nil {
		return "N/A"
	}
	if year {
		return d.Year
	}
	return d.Delta
}

func writeSheetRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
