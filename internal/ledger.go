package internal

import (
	"errors"
	"slices"
	"time"
)

// forecastYears is the number of most recent distinct years the forecast uses
const forecastYears = 3

// recentYears holds the three largest distinct years seen so far, ascending.
// Zero marks an empty slot.
type recentYears [forecastYears]int

func (r *recentYears) observe(year int) {
	if year == r[0] || year == r[1] || year == r[2] {
		return
	}
	switch {
	case year > r[2]:
		r[0], r[1], r[2] = r[1], r[2], year
	case year > r[1]:
		r[0], r[1] = r[1], year
	case year > r[0]:
		r[0] = year
	}
}

// Aggregator classifies subscribers and accumulates yearly revenue in a single pass
// over a transaction log. Records of one subscriber must arrive in chronological order.
// An Aggregator is not safe for concurrent use.
type Aggregator struct {
	subscribers map[int64]*subscriberState
	order       []int64 // subscriber ids in first-seen order
	revenue     map[int]int64
	recent      recentYears
	records     int
}

// NewAggregator returns an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		subscribers: make(map[int64]*subscriberState),
		revenue:     make(map[int]int64),
	}
}

// Ingest adds one record. On error the aggregator is left unchanged.
func (a *Aggregator) Ingest(rec Record) error {
	state, seen := a.subscribers[rec.SubscriberID]

	var next Cadence
	if seen {
		delta := daysBetween(state.lastSeen, rec.Date)
		var err error
		next, err = NextCadence(state.cadence, delta)
		var cadenceErr *InvalidCadenceError
		if errors.As(err, &cadenceErr) {
			cadenceErr.SubscriberID = rec.SubscriberID
			cadenceErr.Previous = state.lastSeen
			cadenceErr.Current = rec.Date
			return cadenceErr
		}
		if err != nil {
			return err
		}
	}

	year := rec.Date.Year()
	a.revenue[year] += rec.Amount
	a.recent.observe(year)
	a.records++

	if !seen {
		a.subscribers[rec.SubscriberID] = &subscriberState{
			cadence:  CadenceOneOff,
			count:    1,
			lastSeen: rec.Date,
		}
		a.order = append(a.order, rec.SubscriberID)
		return nil
	}

	state.count++
	state.cadence = next
	state.lastSeen = rec.Date
	return nil
}

// IngestAll ingests records in order, stopping at the first error
func (a *Aggregator) IngestAll(records []Record) error {
	for _, rec := range records {
		if err := a.Ingest(rec); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of ingested records
func (a *Aggregator) Len() int {
	return a.records
}

// Categories returns every subscriber's cadence and observation count in first-seen order
func (a *Aggregator) Categories() ([]Category, error) {
	if len(a.subscribers) == 0 {
		return nil, ErrNotReady
	}
	categories := make([]Category, 0, len(a.order))
	for _, id := range a.order {
		state := a.subscribers[id]
		categories = append(categories, Category{
			ID:      id,
			Cadence: state.cadence,
			Count:   state.count,
		})
	}
	return categories, nil
}

// RevenueByYear returns a copy of the yearly revenue ledger
func (a *Aggregator) RevenueByYear() map[int]int64 {
	result := make(map[int]int64, len(a.revenue))
	for year, total := range a.revenue {
		result[year] = total
	}
	return result
}

// Years returns the years present in the ledger, ascending
func (a *Aggregator) Years() []int {
	years := make([]int, 0, len(a.revenue))
	for year := range a.revenue {
		years = append(years, year)
	}
	slices.Sort(years)
	return years
}

// RevenueExtrema finds the largest growth and the largest loss between
// consecutive years present in the ledger. Ties keep the earliest year.
func (a *Aggregator) RevenueExtrema() Extrema {
	return ComputeExtrema(a.revenue)
}

// ComputeExtrema finds the largest growth and loss between consecutive years of a ledger
func ComputeExtrema(revenue map[int]int64) Extrema {
	years := make([]int, 0, len(revenue))
	for year := range revenue {
		years = append(years, year)
	}
	slices.Sort(years)

	var ext Extrema
	for _, year := range years {
		nextTotal, ok := revenue[year+1]
		if !ok {
			continue
		}
		delta := nextTotal - revenue[year]
		if delta >= 0 {
			if ext.MaxGrowth == nil || delta > ext.MaxGrowth.Delta {
				ext.MaxGrowth = &YearDelta{Year: year + 1, Delta: delta}
			}
		} else if ext.MaxLoss == nil || delta < ext.MaxLoss.Delta {
			ext.MaxLoss = &YearDelta{Year: year + 1, Delta: delta}
		}
	}
	return ext
}

// RecentYears returns the most recent distinct years (up to three), ascending
func (a *Aggregator) RecentYears() []int {
	var years []int
	for _, y := range a.recent {
		if y != 0 {
			years = append(years, y)
		}
	}
	return years
}

// PredictNextYear projects revenue for the year after the latest one.
// With y0 < y1 < y2 the three most recent years and r0, r1, r2 their revenue,
// the projection is (r2 - r1) * (y2 - y0 + 1) + r0.
func (a *Aggregator) PredictNextYear() (int64, error) {
	if len(a.revenue) < forecastYears {
		return 0, &InsufficientDataError{Have: len(a.revenue), Need: forecastYears}
	}
	y0, y1, y2 := a.recent[0], a.recent[1], a.recent[2]
	r0, r1, r2 := a.revenue[y0], a.revenue[y1], a.revenue[y2]
	return (r2-r1)*int64(y2-y0+1) + r0, nil
}

// daysBetween returns the number of calendar days from prev to cur
func daysBetween(prev, cur time.Time) int {
	p := time.Date(prev.Year(), prev.Month(), prev.Day(), 0, 0, 0, 0, time.UTC)
	c := time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, time.UTC)
	return int(c.Sub(p).Hours() / 24)
}
