package timeline

import "slices"

const (
	// ZIndexDefault is the stacking order of a node that was never hovered.
	ZIndexDefault = 1
	// ZIndexHoverBase is the stacking order of the earliest hovered node; later
	// hovers stack above it.
	ZIndexHoverBase = 10
)

// Color is the dot colour of a node.
type Color string

const (
	ColorSelected Color = "green"
	ColorHovered  Color = "yellow"
	ColorDefault  Color = "blue"
)

// Hex returns the colour used when rendering outside the stylesheet.
func (c Color) Hex() string {
	switch c {
	case ColorSelected:
		return "#2ea043"
	case ColorHovered:
		return "#d4a72c"
	default:
		return "#388bfd"
	}
}

// CSSVar returns the stylesheet variable for the colour.
func (c Color) CSSVar() string {
	return "var(--" + string(c) + "-dot)"
}

type slot struct {
	index int
	set   bool
}

func (s slot) is(i int) bool { return s.set && s.index == i }

// State is the interaction state of one timeline view: the selected node, the
// node under the pointer, and the order in which nodes were hovered. The zero
// value has nothing selected or hovered.
//
// Indices refer to Placement.Index of the current layout. State is not safe for
// concurrent use.
type State struct {
	selected slot
	hovered  slot
	history  []int
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Click toggles the selection of node i.
func (s *State) Click(i int) {
	if s.selected.is(i) {
		s.selected = slot{}
		return
	}
	s.selected = slot{index: i, set: true}
}

// Enter marks node i as hovered and moves it to the end of the hover history.
func (s *State) Enter(i int) {
	s.hovered = slot{index: i, set: true}
	s.history = slices.DeleteFunc(s.history, func(h int) bool { return h == i })
	s.history = append(s.history, i)
}

// Leave clears the hovered node. The hover history is kept.
func (s *State) Leave(int) {
	s.hovered = slot{}
}

// FilterChanged clears the selection so that a node hidden by the new filter
// cannot stay selected. Hover state is left as is.
func (s *State) FilterChanged() {
	s.selected = slot{}
}

// Selected returns the selected node, if any.
func (s *State) Selected() (int, bool) {
	return s.selected.index, s.selected.set
}

// Hovered returns the node under the pointer, if any.
func (s *State) Hovered() (int, bool) {
	return s.hovered.index, s.hovered.set
}

// IsSelected reports whether node i is selected.
func (s *State) IsSelected(i int) bool { return s.selected.is(i) }

// IsHovered reports whether node i is under the pointer.
func (s *State) IsHovered(i int) bool { return s.hovered.is(i) }

// History returns a copy of the hover history, most recent last.
func (s *State) History() []int {
	return slices.Clone(s.history)
}

// ZIndex is the stacking order of node i: recently hovered nodes draw above
// nodes hovered earlier, which draw above nodes never hovered.
func (s *State) ZIndex(i int) int {
	pos := slices.Index(s.history, i)
	if pos < 0 {
		return ZIndexDefault
	}
	return ZIndexHoverBase + pos
}

// DotColor is the colour of node i's dot.
func (s *State) DotColor(i int) Color {
	switch {
	case s.selected.is(i):
		return ColorSelected
	case s.hovered.is(i):
		return ColorHovered
	default:
		return ColorDefault
	}
}

// ContentVisible reports whether node i's title box is rendered in mode.
func (s *State) ContentVisible(i int, mode DisplayMode) bool {
	if !mode.Minimal() {
		return true
	}
	return s.hovered.is(i) || s.selected.is(i)
}

// DescriptionVisible reports whether node i's description is shown.
func (s *State) DescriptionVisible(i int) bool {
	return s.selected.is(i)
}
