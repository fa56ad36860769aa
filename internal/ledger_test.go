package internal

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(id int64, amount int64, d string) Record {
	return Record{SubscriberID: id, Amount: amount, Date: date(d)}
}

// recordsWithGaps builds records for one subscriber separated by the given day gaps
func recordsWithGaps(id int64, start string, gaps ...int) []Record {
	d := date(start)
	records := []Record{{SubscriberID: id, Amount: 1, Date: d}}
	for _, gap := range gaps {
		d = d.AddDate(0, 0, gap)
		records = append(records, Record{SubscriberID: id, Amount: 1, Date: d})
	}
	return records
}

func ingestAll(t *testing.T, records []Record) *Aggregator {
	t.Helper()
	agg := NewAggregator()
	if err := agg.IngestAll(records); err != nil {
		t.Fatalf("IngestAll: %v", err)
	}
	return agg
}

func categoryFor(t *testing.T, agg *Aggregator, id int64) Category {
	t.Helper()
	cats, err := agg.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	for _, c := range cats {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("subscriber %d not found", id)
	return Category{}
}

func TestAggregator_CadenceFromGaps(t *testing.T) {
	tests := []struct {
		name      string
		gaps      []int
		wantType  Cadence
		wantCount int
	}{
		{"single record", nil, CadenceOneOff, 1},
		{"daily then long gap stays daily", []int{10, 15, 40}, CadenceDaily, 4},
		{"monthly", []int{29, 29}, CadenceMonthly, 3},
		{"yearly", []int{365, 366}, CadenceYearly, 3},
		{"yearly refined to monthly", []int{365, 30}, CadenceMonthly, 3},
		{"monthly with skipped cycles", []int{31, 92, 30}, CadenceMonthly, 4},
		{"monthly refined to daily", []int{30, 7}, CadenceDaily, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := ingestAll(t, recordsWithGaps(1, "2010-01-01", tt.gaps...))
			got := categoryFor(t, agg, 1)
			if got.Cadence != tt.wantType {
				t.Errorf("cadence = %v, want %v", got.Cadence, tt.wantType)
			}
			if got.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", got.Count, tt.wantCount)
			}
		})
	}
}

func TestAggregator_DuplicateDateFails(t *testing.T) {
	agg := NewAggregator()
	if err := agg.Ingest(rec(7, 10, "2012-05-01")); err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	err := agg.Ingest(rec(7, 10, "2012-05-01"))
	if !errors.Is(err, ErrInvalidCadence) {
		t.Fatalf("expected ErrInvalidCadence, got %v", err)
	}

	var cadenceErr *InvalidCadenceError
	if !errors.As(err, &cadenceErr) {
		t.Fatalf("expected *InvalidCadenceError, got %T", err)
	}
	if cadenceErr.SubscriberID != 7 || cadenceErr.Delta != 0 {
		t.Errorf("unexpected error details: %+v", cadenceErr)
	}

	// The rejected record leaves no trace
	if got := agg.RevenueByYear()[2012]; got != 10 {
		t.Errorf("revenue 2012 = %d, want 10", got)
	}
	if got := categoryFor(t, agg, 7); got.Count != 1 {
		t.Errorf("count = %d, want 1", got.Count)
	}
}

func TestAggregator_OutOfOrderFails(t *testing.T) {
	agg := NewAggregator()
	err := agg.IngestAll([]Record{
		rec(1, 10, "2012-05-10"),
		rec(1, 10, "2012-05-01"),
	})
	if !errors.Is(err, ErrInvalidCadence) {
		t.Fatalf("expected ErrInvalidCadence, got %v", err)
	}
}

func TestAggregator_IndependentSubscribers(t *testing.T) {
	// Globally unsorted input is fine as long as each subscriber is chronological
	agg := ingestAll(t, []Record{
		rec(1, 10, "2013-01-01"),
		rec(2, 20, "2012-01-01"),
		rec(1, 10, "2013-01-31"),
		rec(2, 20, "2012-01-05"),
		rec(3, 30, "2011-06-01"),
	})

	cats, err := agg.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	wantOrder := []int64{1, 2, 3}
	var gotOrder []int64
	for _, c := range cats {
		gotOrder = append(gotOrder, c.ID)
	}
	if !slices.Equal(gotOrder, wantOrder) {
		t.Errorf("order = %v, want %v", gotOrder, wantOrder)
	}

	if got := categoryFor(t, agg, 1).Cadence; got != CadenceMonthly {
		t.Errorf("subscriber 1 = %v, want monthly", got)
	}
	if got := categoryFor(t, agg, 2).Cadence; got != CadenceDaily {
		t.Errorf("subscriber 2 = %v, want daily", got)
	}
	if got := categoryFor(t, agg, 3).Cadence; got != CadenceOneOff {
		t.Errorf("subscriber 3 = %v, want one-off", got)
	}
}

func TestAggregator_CategoriesBeforeIngest(t *testing.T) {
	_, err := NewAggregator().Categories()
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestAggregator_RevenueSumMatchesInput(t *testing.T) {
	records := []Record{
		rec(1, 5340, "1986-05-21"),
		rec(2, 100, "1986-12-31"),
		rec(1, 5340, "1986-06-20"),
		rec(3, 0, "1990-01-01"),
		rec(2, 250, "1987-01-01"),
		rec(4, 999, "2014-07-04"),
	}
	agg := ingestAll(t, records)

	var want int64
	for _, r := range records {
		want += r.Amount
	}
	var got int64
	for _, total := range agg.RevenueByYear() {
		got += total
	}
	if got != want {
		t.Errorf("sum of yearly revenue = %d, want %d", got, want)
	}

	if rev := agg.RevenueByYear(); rev[1986] != 10780 || rev[1987] != 250 || rev[1990] != 0 || rev[2014] != 999 {
		t.Errorf("unexpected ledger %v", rev)
	}
	if _, ok := agg.RevenueByYear()[1988]; ok {
		t.Error("years without transactions must not appear")
	}
	if agg.Len() != len(records) {
		t.Errorf("Len() = %d, want %d", agg.Len(), len(records))
	}
}

func TestRecentYears(t *testing.T) {
	tests := []struct {
		name  string
		years []int
		want  recentYears
	}{
		{"empty", nil, recentYears{0, 0, 0}},
		{"one year", []int{2010}, recentYears{0, 0, 2010}},
		{"ascending", []int{2010, 2011, 2012, 2013}, recentYears{2011, 2012, 2013}},
		{"descending", []int{2013, 2012, 2011, 2010}, recentYears{2011, 2012, 2013}},
		{"duplicates ignored", []int{2012, 2012, 2011, 2012, 2011}, recentYears{0, 2011, 2012}},
		{"mixed", []int{1990, 2014, 1966, 2001, 2014, 2013, 1999}, recentYears{2001, 2013, 2014}},
		{"middle insert", []int{2010, 2014, 2012}, recentYears{2010, 2012, 2014}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r recentYears
			for _, y := range tt.years {
				r.observe(y)
			}
			if r != tt.want {
				t.Errorf("recentYears = %v, want %v", r, tt.want)
			}
		})
	}
}

func ledgerAggregator(t *testing.T, revenue map[int]int64) *Aggregator {
	t.Helper()
	agg := NewAggregator()
	id := int64(1)
	for year, total := range revenue {
		if err := agg.Ingest(Record{SubscriberID: id, Amount: total, Date: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)}); err != nil {
			t.Fatalf("Ingest: %v", err)
		}
		id++
	}
	return agg
}

func TestPredictNextYear(t *testing.T) {
	agg := ledgerAggregator(t, map[int]int64{2012: 100, 2013: 150, 2014: 170})

	got, err := agg.PredictNextYear()
	if err != nil {
		t.Fatalf("PredictNextYear: %v", err)
	}
	if got != 160 {
		t.Errorf("PredictNextYear() = %d, want 160", got)
	}
}

func TestPredictNextYear_UsesMostRecentYears(t *testing.T) {
	// Older years are ignored; gaps between the recent years widen the span
	agg := ledgerAggregator(t, map[int]int64{1999: 5, 2000: 7, 2010: 100, 2012: 130, 2013: 110})

	got, err := agg.PredictNextYear()
	if err != nil {
		t.Fatalf("PredictNextYear: %v", err)
	}
	// (110 - 130) * (2013 - 2010 + 1) + 100
	if got != 20 {
		t.Errorf("PredictNextYear() = %d, want 20", got)
	}
	if years := agg.RecentYears(); !slices.Equal(years, []int{2010, 2012, 2013}) {
		t.Errorf("RecentYears() = %v", years)
	}
}

func TestPredictNextYear_InsufficientData(t *testing.T) {
	for _, revenue := range []map[int]int64{
		{},
		{2012: 100},
		{2012: 100, 2013: 150},
	} {
		agg := ledgerAggregator(t, revenue)
		_, err := agg.PredictNextYear()
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("%d years: expected ErrInsufficientData, got %v", len(revenue), err)
		}
	}

	// Many records in two years are still two years
	agg := ingestAll(t, []Record{
		rec(1, 10, "2012-01-01"), rec(1, 10, "2012-02-01"), rec(1, 10, "2013-01-01"),
	})
	if _, err := agg.PredictNextYear(); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestComputeExtrema(t *testing.T) {
	tests := []struct {
		name       string
		revenue    map[int]int64
		wantGrowth *YearDelta
		wantLoss   *YearDelta
	}{
		{
			name:       "growth then loss",
			revenue:    map[int]int64{2010: 100, 2011: 300, 2012: 250},
			wantGrowth: &YearDelta{Year: 2011, Delta: 200},
			wantLoss:   &YearDelta{Year: 2012, Delta: -50},
		},
		{
			name:       "only growth",
			revenue:    map[int]int64{2010: 100, 2011: 150, 2012: 400},
			wantGrowth: &YearDelta{Year: 2012, Delta: 250},
		},
		{
			name:     "only loss",
			revenue:  map[int]int64{2010: 500, 2011: 400, 2012: 100},
			wantLoss: &YearDelta{Year: 2012, Delta: -300},
		},
		{
			name:    "single year",
			revenue: map[int]int64{2010: 100},
		},
		{
			name:    "empty",
			revenue: map[int]int64{},
		},
		{
			name:    "non-consecutive years",
			revenue: map[int]int64{2010: 100, 2012: 500, 2014: 50},
		},
		{
			name:       "flat year counts as growth",
			revenue:    map[int]int64{2010: 100, 2011: 100},
			wantGrowth: &YearDelta{Year: 2011, Delta: 0},
		},
		{
			name:       "ties keep the earliest year",
			revenue:    map[int]int64{2010: 100, 2011: 200, 2012: 100, 2013: 200, 2014: 100},
			wantGrowth: &YearDelta{Year: 2011, Delta: 100},
			wantLoss:   &YearDelta{Year: 2012, Delta: -100},
		},
		{
			name:       "gap splits the pairs",
			revenue:    map[int]int64{2000: 10, 2001: 20, 2005: 1000, 2006: 900},
			wantGrowth: &YearDelta{Year: 2001, Delta: 10},
			wantLoss:   &YearDelta{Year: 2006, Delta: -100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeExtrema(tt.revenue)
			if !equalDelta(got.MaxGrowth, tt.wantGrowth) {
				t.Errorf("MaxGrowth = %v, want %v", got.MaxGrowth, tt.wantGrowth)
			}
			if !equalDelta(got.MaxLoss, tt.wantLoss) {
				t.Errorf("MaxLoss = %v, want %v", got.MaxLoss, tt.wantLoss)
			}
		})
	}
}

func equalDelta(a, b *YearDelta) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		prev, cur string
		want      int
	}{
		{"2012-01-01", "2012-01-02", 1},
		{"2012-02-28", "2012-03-01", 2}, // leap year
		{"2013-02-28", "2013-03-01", 1},
		{"2012-01-01", "2013-01-01", 366},
		{"2012-05-01", "2012-05-01", 0},
		{"2012-05-10", "2012-05-01", -9},
	}

	for _, tt := range tests {
		t.Run(tt.prev+"_"+tt.cur, func(t *testing.T) {
			if got := daysBetween(date(tt.prev), date(tt.cur)); got != tt.want {
				t.Errorf("daysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}
