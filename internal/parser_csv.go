package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Source type names
const (
	SourceCSV        = "subscription-csv"
	SourceXLSX       = "subscription-xlsx"
	SourceSimpleJSON = "simple-json"
)

// ParseCSV reads a comma-delimited transaction log:
//
//	Id,Subscription ID,Amount (USD),Transaction Date
//	525082,40662,5340,05/21/1986
//
// The header line is optional.
func ParseCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ReadRecords(f)
}

// ReadRecords reads records from a CSV stream. A malformed row aborts the read.
func ReadRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var records []Record
	first := true
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}

		if first {
			first = false
			if isHeader(fields) {
				continue
			}
		}

		rec, err := ParseRecordFields(fields)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func init() {
	RegisterParser(SourceCSV, ParserFunc(ParseCSV))
}
