package timeline

import (
	"fmt"
	"strings"
)

// DisplayMode selects how nodes are rendered around the axis.
type DisplayMode string

const (
	// DisplayDefault centres the axis and places nodes in two columns.
	DisplayDefault DisplayMode = "default"
	// DisplayMinimal centres the axis and only shows content for hovered or selected nodes.
	DisplayMinimal DisplayMode = "minimal"
	// DisplayMinimalLeft is DisplayMinimal with the axis on the left edge.
	DisplayMinimalLeft DisplayMode = "minimal-left"
)

// ParseDisplayMode maps a mode name to a DisplayMode. The empty string is DisplayDefault.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch m := DisplayMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return DisplayDefault, nil
	case DisplayDefault, DisplayMinimal, DisplayMinimalLeft:
		return m, nil
	default:
		return DisplayDefault, fmt.Errorf("unknown display mode %q", s)
	}
}

// Minimal reports whether the mode hides node content until interaction.
func (m DisplayMode) Minimal() bool {
	return m == DisplayMinimal || m == DisplayMinimalLeft
}

// Side is the column a node is drawn in.
//
// Side comes from the node's position in the filtered list, not from the event
// itself, so the same event can switch columns when the filter changes.
type Side int

const (
	SideRight Side = iota
	SideLeft
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	DefaultVerticalUnit   = 0.5 // vh per stack ordinal
	DefaultHorizontalUnit = 30  // px per stack ordinal
	DefaultTickSize       = 25  // vh per populated month

	// emptyTickRatio shrinks months with no events.
	emptyTickRatio = 0.25
)

// Options configures a layout pass. Zero numeric fields take the defaults.
type Options struct {
	Direction      Direction
	DisplayMode    DisplayMode
	VerticalUnit   float64
	HorizontalUnit float64
	TickSize       float64
	Diagnostics    Diagnostics
}

// DefaultOptions lays out most recent first in the default two-column mode.
func DefaultOptions() Options {
	return Options{
		Direction:      Descending,
		DisplayMode:    DisplayDefault,
		VerticalUnit:   DefaultVerticalUnit,
		HorizontalUnit: DefaultHorizontalUnit,
		TickSize:       DefaultTickSize,
		Diagnostics:    Discard,
	}
}

func (o Options) withDefaults() Options {
	if o.DisplayMode == "" {
		o.DisplayMode = DisplayDefault
	}
	if o.VerticalUnit == 0 {
		o.VerticalUnit = DefaultVerticalUnit
	}
	if o.HorizontalUnit == 0 {
		o.HorizontalUnit = DefaultHorizontalUnit
	}
	if o.TickSize == 0 {
		o.TickSize = DefaultTickSize
	}
	if o.Diagnostics == nil {
		o.Diagnostics = Discard
	}
	return o
}

// Placement positions one event on the axis.
type Placement struct {
	// Index is the event's position in the resolved, filtered list. Interaction
	// state is keyed by it.
	Index int   `json:"index"`
	Event Event `json:"event"`

	MonthIndex   int  `json:"month_index"`
	Side         Side `json:"side"`
	StackOrdinal int  `json:"stack_ordinal"`

	VerticalOffset   float64 `json:"vertical_offset"`
	HorizontalOffset float64 `json:"horizontal_offset"`

	// Top is the distance from the top of the axis in TickSize units: the
	// heights of all preceding ticks plus VerticalOffset.
	Top float64 `json:"top"`
}

// Result is the output of one layout pass.
type Result struct {
	Ticks      []MonthTick `json:"ticks"`
	Placements []Placement `json:"placements"`

	// Events is the resolved list the placement indices refer to.
	Events []Event `json:"-"`

	// Height is the total axis height in TickSize units.
	Height float64 `json:"height"`
}

// Resolve fills in dates and drops events that cannot be placed, reporting each
// one to diag.
func Resolve(events []Event, diag Diagnostics) []Event {
	if diag == nil {
		diag = Discard
	}
	out := make([]Event, 0, len(events))
	for i, e := range events {
		r, err := e.Resolve()
		if err != nil {
			diag.InvalidEvent(i, e, err)
			continue
		}
		out = append(out, r)
	}
	return out
}

// Layout buckets events into month ticks and assigns every event a placement.
// Events sharing a month and side are fanned out by their stack ordinal, which
// counts the earlier events with the same month and side in list order.
func Layout(events []Event, opts Options) Result {
	opts = opts.withDefaults()

	resolved := Resolve(events, opts.Diagnostics)
	ticks := Ticks(resolved, opts.Direction)
	if ticks == nil {
		ticks = []MonthTick{}
	}

	counts := make(map[int]int)
	placements := make([]Placement, 0, len(resolved))
	for i, e := range resolved {
		mi := tickIndex(ticks, e.Date)
		if mi < 0 {
			opts.Diagnostics.TickMiss(i, e)
			continue
		}
		side := Side(i % 2)
		key := mi*2 + int(side)
		ordinal := counts[key]
		counts[key]++
		ticks[mi].Populated = true

		placements = append(placements, Placement{
			Index:            i,
			Event:            e,
			MonthIndex:       mi,
			Side:             side,
			StackOrdinal:     ordinal,
			VerticalOffset:   float64(ordinal) * opts.VerticalUnit,
			HorizontalOffset: float64(ordinal) * opts.HorizontalUnit,
		})
	}

	tops := make([]float64, len(ticks))
	var y float64
	for i := range ticks {
		h := opts.TickSize
		if !ticks[i].Populated {
			h *= emptyTickRatio
		}
		ticks[i].Height = h
		tops[i] = y
		y += h
	}
	for i := range placements {
		placements[i].Top = tops[placements[i].MonthIndex] + placements[i].VerticalOffset
	}

	return Result{
		Ticks:      ticks,
		Placements: placements,
		Events:     resolved,
		Height:     y,
	}
}

// Bucket returns the placements that fall in tick mi, in list order.
func (r Result) Bucket(mi int) []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.MonthIndex == mi {
			out = append(out, p)
		}
	}
	return out
}
