package timeline

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the order in which ticks run down the axis.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown direction %q", s)
	}
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// monthPadding is the number of empty months added before the first and after
// the last event.
const monthPadding = 1

// MonthTick is one calendar-month marker on the axis.
type MonthTick struct {
	// Date is the first instant of the month in UTC.
	Date time.Time `json:"date"`

	// Populated is set by Layout when at least one placed event falls in this month.
	Populated bool `json:"populated"`

	// Height is the tick container height in TickSize units (vh by default).
	Height float64 `json:"height"`
}

func newTick(m month) MonthTick {
	return MonthTick{Date: time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)}
}

// Year returns the tick's calendar year.
func (t MonthTick) Year() int { return t.Date.Year() }

// Month returns the tick's calendar month.
func (t MonthTick) Month() time.Month { return t.Date.Month() }

// Label renders the tick as "Jan 2024".
func (t MonthTick) Label() string {
	return t.Date.Format("Jan 2006")
}

// Key renders the tick as "2024-01".
func (t MonthTick) Key() string {
	return t.Date.Format("2006-01")
}

// Matches reports whether ts falls in the tick's calendar month.
func (t MonthTick) Matches(ts time.Time) bool {
	return ts.Year() == t.Year() && ts.Month() == t.Month()
}

// Ticks returns one tick per calendar month spanning the events' dates padded by
// one month on each side, in the given direction. Events must already be
// resolved; events with a zero Date are ignored. An empty input yields no ticks.
func Ticks(events []Event, dir Direction) []MonthTick {
	var (
		minM, maxM int
		seen       bool
	)
	for _, e := range events {
		if e.Date.IsZero() {
			continue
		}
		n := monthOf(e.Date).ordinal()
		if !seen {
			minM, maxM, seen = n, n, true
			continue
		}
		minM = min(minM, n)
		maxM = max(maxM, n)
	}
	if !seen {
		return nil
	}

	first := minM - monthPadding
	last := maxM + monthPadding
	ticks := make([]MonthTick, 0, last-first+1)
	if dir == Descending {
		for n := last; n >= first; n-- {
			ticks = append(ticks, newTick(monthFromOrdinal(n)))
		}
		return ticks
	}
	for n := first; n <= last; n++ {
		ticks = append(ticks, newTick(monthFromOrdinal(n)))
	}
	return ticks
}

// tickIndex finds the tick whose month matches ts, or -1.
func tickIndex(ticks []MonthTick, ts time.Time) int {
	for i, t := range ticks {
		if t.Matches(ts) {
			return i
		}
	}
	return -1
}
