package internal

import (
	"strconv"
	"time"
)

// DateLayout is the date format used in transaction logs (MM/DD/YYYY)
const DateLayout = "01/02/2006"

// Record is a single line of the transaction log
type Record struct {
	RowID        int64
	SubscriberID int64
	Amount       int64
	Date         time.Time
}

// Category is the final classification of one subscriber
type Category struct {
	ID      int64
	Cadence Cadence
	Count   int
}

// Duration renders the observation count with its unit, e.g. "85 months"
func (c Category) Duration() string {
	return strconv.Itoa(c.Count) + " " + c.Cadence.Unit()
}

// YearDelta is a revenue change into Year from the year before it
type YearDelta struct {
	Year  int
	Delta int64
}

// Extrema holds the largest year-over-year growth and loss.
// A nil field means no qualifying pair of consecutive years exists.
type Extrema struct {
	MaxGrowth *YearDelta
	MaxLoss   *YearDelta
}

type subscriberState struct {
	cadence  Cadence
	count    int
	lastSeen time.Time
}
