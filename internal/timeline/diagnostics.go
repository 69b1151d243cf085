package timeline

import "github.com/rs/zerolog"

// Diagnostics receives the non-fatal problems found while laying out events.
// A report never stops the remaining events from being placed.
type Diagnostics interface {
	// InvalidEvent is called for an event whose date cannot be resolved.
	// index is the event's position in the list handed to Layout.
	InvalidEvent(index int, e Event, err error)

	// TickMiss is called when a resolved event has no matching month tick.
	// index is the event's position in the resolved list.
	TickMiss(index int, e Event)
}

type discard struct{}

func (discard) InvalidEvent(int, Event, error) {}
func (discard) TickMiss(int, Event)            {}

// Discard drops every report.
var Discard Diagnostics = discard{}

type logDiagnostics struct {
	log   zerolog.Logger
	level zerolog.Level
}

// LogDiagnostics writes reports to log: invalid events at warn level, tick
// misses at error level since they mean the month padding invariant broke.
func LogDiagnostics(log zerolog.Logger) Diagnostics {
	return LogDiagnosticsAt(log, zerolog.WarnLevel)
}

// LogDiagnosticsAt is LogDiagnostics with invalid events logged at level.
// Tick misses stay at error level.
func LogDiagnosticsAt(log zerolog.Logger, level zerolog.Level) Diagnostics {
	return logDiagnostics{log: log, level: level}
}

func (d logDiagnostics) InvalidEvent(index int, e Event, err error) {
	d.log.WithLevel(d.level).
		Err(err).
		Int("index", index).
		Str("title", e.Title).
		Msg("skipping timeline event")
}

func (d logDiagnostics) TickMiss(index int, e Event) {
	d.log.Error().
		Int("index", index).
		Str("title", e.Title).
		Time("date", e.Date).
		Msg("no month tick for timeline event")
}

// multi fans reports out to several sinks.
type multi []Diagnostics

func (m multi) InvalidEvent(index int, e Event, err error) {
	for _, d := range m {
		d.InvalidEvent(index, e, err)
	}
}

func (m multi) TickMiss(index int, e Event) {
	for _, d := range m {
		d.TickMiss(index, e)
	}
}

// MultiDiagnostics forwards every report to each of ds. Nil entries are skipped.
func MultiDiagnostics(ds ...Diagnostics) Diagnostics {
	var out multi
	for _, d := range ds {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
