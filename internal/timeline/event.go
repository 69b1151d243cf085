// Package timeline lays out dated career events on a vertical, month-bucketed axis.
//
// The engine is pure and synchronous: callers hand it an already-loaded list of
// events and get back month ticks plus a placement for every event. Interaction
// state (selection, hover, hover history) lives in State and is owned by a single
// caller at a time.
package timeline

import (
	"errors"
	"time"
)

var (
	// ErrNoDate is reported for events with neither a date nor a start/end pair.
	ErrNoDate = errors.New("event has no date")

	// ErrInvalidRange is reported when end date precedes start date.
	ErrInvalidRange = errors.New("event end date is before start date")

	// ErrNoTitle is reported for events without a title.
	ErrNoTitle = errors.New("event has no title")
)

// Event is one career or performance milestone.
type Event struct {
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`

	// StartDate and EndDate describe ranged events. When Date is zero it is
	// derived as their midpoint.
	StartDate time.Time `json:"start_date,omitzero"`
	EndDate   time.Time `json:"end_date,omitzero"`
}

// Ranged reports whether the event carries a start/end pair.
func (e Event) Ranged() bool {
	return !e.StartDate.IsZero() && !e.EndDate.IsZero()
}

// Resolve returns the event with Date filled in. An explicit Date always wins
// over the start/end midpoint.
func (e Event) Resolve() (Event, error) {
	if e.Title == "" {
		return e, ErrNoTitle
	}
	if !e.Date.IsZero() {
		return e, nil
	}
	if !e.Ranged() {
		return e, ErrNoDate
	}
	if e.EndDate.Before(e.StartDate) {
		return e, ErrInvalidRange
	}
	e.Date = midpoint(e.StartDate, e.EndDate)
	return e, nil
}

// midpoint is halfway between a and b, a not after b. It works on Unix seconds
// because time.Duration saturates for spans over about 292 years.
func midpoint(a, b time.Time) time.Time {
	secs := b.Unix() - a.Unix()
	nanos := (secs%2)*int64(time.Second)/2 + (int64(b.Nanosecond())-int64(a.Nanosecond()))/2
	return time.Unix(a.Unix()+secs/2, int64(a.Nanosecond())+nanos).In(a.Location())
}

// month identifies a calendar month independent of day, time and location.
type month struct {
	year  int
	month time.Month
}

func monthOf(t time.Time) month {
	return month{year: t.Year(), month: t.Month()}
}

// ordinal numbers months consecutively so that month arithmetic is plain integer math.
func (m month) ordinal() int {
	return m.year*12 + int(m.month) - 1
}

func monthFromOrdinal(n int) month {
	return month{year: n / 12, month: time.Month(n%12 + 1)}
}
