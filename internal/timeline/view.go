package timeline

// View ties an event list to an active filter and an interaction state. It is
// what a rendering layer keeps per visitor: every layout is recomputed from
// the current filtered list, nothing is cached between renders.
//
// View is not safe for concurrent use.
type View struct {
	events    []Event
	opts      Options
	filterKey string
	predicate Predicate
	state     *State
}

// NewView returns a view over events with no filter applied.
func NewView(events []Event, opts Options) *View {
	return &View{
		events:    events,
		opts:      opts,
		predicate: All,
		state:     NewState(),
	}
}

// State returns the view's interaction state.
func (v *View) State() *State { return v.state }

// Options returns the layout options.
func (v *View) Options() Options { return v.opts }

// SetOptions replaces the layout options. Interaction state is kept.
func (v *View) SetOptions(opts Options) { v.opts = opts }

// FilterKey names the active filter; empty means no filter.
func (v *View) FilterKey() string { return v.filterKey }

// SetFilter activates pred under key. Filters are compared by key since
// functions cannot be: a different key clears the selection, the same key is
// a no-op. It reports whether the filter changed.
func (v *View) SetFilter(key string, pred Predicate) bool {
	if key == v.filterKey {
		return false
	}
	if pred == nil {
		pred = All
	}
	v.filterKey = key
	v.predicate = pred
	v.state.FilterChanged()
	return true
}

// Filtered returns the events accepted by the active filter.
func (v *View) Filtered() []Event {
	return ApplyFilter(v.events, v.predicate)
}

// Categories lists the categories of all events, ignoring the filter.
func (v *View) Categories() []string {
	return Categories(v.events)
}

// Layout lays out the filtered events.
func (v *View) Layout() Result {
	return Layout(v.Filtered(), v.opts)
}

// Contains reports whether i addresses a node of the current layout.
func (v *View) Contains(i int) bool {
	if i < 0 {
		return false
	}
	opts := v.opts
	opts.Diagnostics = Discard
	for _, p := range Layout(v.Filtered(), opts).Placements {
		if p.Index == i {
			return true
		}
	}
	return false
}
