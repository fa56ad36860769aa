package internal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads a transaction log from the first sheet of an Excel workbook.
// Columns are the same as the CSV layout: Id, Subscription ID, Amount, Transaction Date.
// Rows above the header (if any) are skipped; fully empty rows are ignored.
func ParseXLSX(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	// Data starts after the header row if there is one, otherwise at the first non-empty row
	dataStartRow := 0
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if isHeader(row) {
			dataStartRow = i + 1
		} else {
			dataStartRow = i
		}
		break
	}

	var records []Record
	for i := dataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		rec, err := ParseRecordFields(normalizeDateCell(row))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// normalizeDateCell rewrites a date stored as an Excel serial number into MM/DD/YYYY
func normalizeDateCell(row []string) []string {
	if len(row) < 4 {
		return row
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return row
	}
	date, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return row
	}
	out := make([]string, len(row))
	copy(out, row)
	out[3] = date.Format(DateLayout)
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func init() {
	RegisterParser(SourceXLSX, ParserFunc(ParseXLSX))
}
