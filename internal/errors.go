package internal

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCadence is returned when two consecutive records of a subscriber
	// are not in strictly increasing date order
	ErrInvalidCadence = errors.New("invalid cadence")

	// ErrNotReady is returned when a report is requested before any record was ingested
	ErrNotReady = errors.New("no records ingested")

	// ErrInsufficientData is returned when a forecast needs more distinct years than are present
	ErrInsufficientData = errors.New("insufficient data")
)

// InvalidCadenceError describes a non-positive day gap between two records of one subscriber
type InvalidCadenceError struct {
	SubscriberID int64
	Previous     time.Time
	Current      time.Time
	Delta        int
}

func (e *InvalidCadenceError) Error() string {
	if e.Previous.IsZero() {
		return fmt.Sprintf("invalid cadence: gap of %d days", e.Delta)
	}
	return fmt.Sprintf("invalid cadence for subscriber %d: %s follows %s (gap of %d days)",
		e.SubscriberID, e.Current.Format(DateLayout), e.Previous.Format(DateLayout), e.Delta)
}

func (e *InvalidCadenceError) Unwrap() error {
	return ErrInvalidCadence
}

// InsufficientDataError reports how many distinct years were available
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d distinct years, have %d", e.Need, e.Have)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}
