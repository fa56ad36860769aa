package internal

import (
	"errors"
	"log/slog"
)

// RevenueRow is one year of the revenue report
type RevenueRow struct {
	Year    int
	Total   int64
	Change  int64 // change from the previous year; zero when HasPrev is false
	HasPrev bool  // the previous calendar year is present in the ledger
}

// Report is the complete result of one pass over a transaction log
type Report struct {
	Records     int
	Categories  []Category
	Revenue     []RevenueRow
	Extrema     Extrema
	Forecast    *Forecast
	ForecastErr error
}

// Forecast is the projected revenue for the year after the latest observed year
type Forecast struct {
	Year   int
	Amount int64
	Basis  []int // the years the projection is based on, ascending
}

// Analyze runs a single pass over records and builds the report.
// An invalid record order aborts the pass; a missing forecast does not.
func Analyze(records []Record, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	agg := NewAggregator()
	if err := agg.IngestAll(records); err != nil {
		return nil, err
	}
	logger.Debug("ingested transaction log", "records", agg.Len(), "years", len(agg.revenue))

	return BuildReport(agg, logger)
}

// BuildReport collects every report view from an aggregator
func BuildReport(agg *Aggregator, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	categories, err := agg.Categories()
	if err != nil {
		return nil, err
	}

	revenue := agg.RevenueByYear()
	var rows []RevenueRow
	for _, year := range agg.Years() {
		row := RevenueRow{Year: year, Total: revenue[year]}
		if prev, ok := revenue[year-1]; ok {
			row.Change = row.Total - prev
			row.HasPrev = true
		}
		rows = append(rows, row)
	}

	report := &Report{
		Records:    agg.Len(),
		Categories: categories,
		Revenue:    rows,
		Extrema:    agg.RevenueExtrema(),
	}

	amount, err := agg.PredictNextYear()
	switch {
	case err == nil:
		basis := agg.RecentYears()
		report.Forecast = &Forecast{
			Year:   basis[len(basis)-1] + 1,
			Amount: amount,
			Basis:  basis,
		}
	case errors.Is(err, ErrInsufficientData):
		logger.Warn("skipping forecast", "error", err)
		report.ForecastErr = err
	default:
		return nil, err
	}

	return report, nil
}

// CadenceCounts returns the number of subscribers per cadence
func CadenceCounts(categories []Category) map[Cadence]int {
	counts := make(map[Cadence]int)
	for _, cat := range categories {
		counts[cat.Cadence]++
	}
	return counts
}

// TotalRevenue sums the revenue over all years
func (r *Report) TotalRevenue() int64 {
	var total int64
	for _, row := range r.Revenue {
		total += row.Total
	}
	return total
}
