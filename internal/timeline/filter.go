package timeline

import "strings"

// Predicate decides whether an event stays in the filtered list.
type Predicate func(Event) bool

// All accepts every event.
func All(Event) bool { return true }

// ByCategory accepts events whose category matches name, ignoring case.
// An empty name accepts everything.
func ByCategory(name string) Predicate {
	name = strings.TrimSpace(name)
	if name == "" {
		return All
	}
	return func(e Event) bool {
		return strings.EqualFold(e.Category, name)
	}
}

// ApplyFilter returns the events accepted by pred, in their original order.
// The input slice is never modified. A nil predicate accepts all events.
func ApplyFilter(events []Event, pred Predicate) []Event {
	if pred == nil {
		pred = All
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Categories lists the distinct non-empty categories in first-seen order.
func Categories(events []Event) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range events {
		key := strings.ToLower(e.Category)
		if e.Category == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e.Category)
	}
	return out
}
