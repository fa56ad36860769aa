package internal

import (
	"fmt"
	"strings"
)

// Cadence is the inferred billing interval of a subscriber
type Cadence int

const (
	CadenceOneOff Cadence = iota
	CadenceYearly
	CadenceMonthly
	CadenceDaily
)

// Rank orders cadences by granularity: daily=3, monthly=2, yearly=1, one-off=0
func (c Cadence) Rank() int {
	return int(c)
}

func (c Cadence) String() string {
	switch c {
	case CadenceDaily:
		return "daily"
	case CadenceMonthly:
		return "monthly"
	case CadenceYearly:
		return "yearly"
	default:
		return "one-off"
	}
}

// Unit returns the unit used when rendering the observation count
func (c Cadence) Unit() string {
	switch c {
	case CadenceDaily:
		return "days"
	case CadenceMonthly:
		return "months"
	case CadenceYearly:
		return "years"
	default:
		return "time"
	}
}

// ParseCadence parses a cadence label (daily, monthly, yearly, one-off)
func ParseCadence(s string) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return CadenceDaily, nil
	case "monthly":
		return CadenceMonthly, nil
	case "yearly":
		return CadenceYearly, nil
	case "one-off", "oneoff":
		return CadenceOneOff, nil
	}
	return CadenceOneOff, fmt.Errorf("unknown cadence %q", s)
}

// gapClass buckets a positive day delta into the cadence it suggests
func gapClass(delta int) Cadence {
	switch {
	case delta < 28:
		return CadenceDaily
	case delta <= 31:
		return CadenceMonthly
	default:
		return CadenceYearly
	}
}

// cadenceTable maps (current cadence, gap class) to the next cadence.
// A gap only refines the cadence, it never moves it to a coarser one.
var cadenceTable = map[Cadence]map[Cadence]Cadence{
	CadenceOneOff: {
		CadenceDaily:   CadenceDaily,
		CadenceMonthly: CadenceMonthly,
		CadenceYearly:  CadenceYearly,
	},
	CadenceYearly: {
		CadenceDaily:   CadenceDaily,
		CadenceMonthly: CadenceMonthly,
		CadenceYearly:  CadenceYearly,
	},
	CadenceMonthly: {
		CadenceDaily:   CadenceDaily,
		CadenceMonthly: CadenceMonthly,
		CadenceYearly:  CadenceMonthly,
	},
	CadenceDaily: {
		CadenceDaily:   CadenceDaily,
		CadenceMonthly: CadenceDaily,
		CadenceYearly:  CadenceDaily,
	},
}

// NextCadence returns the cadence after observing a gap of delta days
// since the previous record of the same subscriber.
func NextCadence(current Cadence, delta int) (Cadence, error) {
	if delta <= 0 {
		return current, &InvalidCadenceError{Delta: delta}
	}
	next, ok := cadenceTable[current][gapClass(delta)]
	if !ok {
		return current, fmt.Errorf("no transition from cadence %d", int(current))
	}
	return next, nil
}
