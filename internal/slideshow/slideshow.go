// Package slideshow holds carousel state for reels and photo galleries.
package slideshow

import "fmt"

// Kind says what an entry shows.
type Kind string

const (
	KindYouTube Kind = "youtube"
	KindImage   Kind = "image"
)

// Entry is one slide.
type Entry struct {
	Kind    Kind   `json:"type" yaml:"type"`
	VideoID string `json:"video_id,omitempty" yaml:"video_id"`
	Src     string `json:"src,omitempty" yaml:"src"`
	Title   string `json:"title,omitempty" yaml:"title"`
}

// EmbedURL is the URL the slide's frame or image loads.
func (e Entry) EmbedURL() string {
	if e.Kind == KindYouTube {
		return fmt.Sprintf("https://www.youtube.com/embed/%s", e.VideoID)
	}
	return e.Src
}

// Alt is the accessible label of the slide.
func (e Entry) Alt(position int) string {
	if e.Title != "" {
		return e.Title
	}
	return fmt.Sprintf("Slide %d", position+1)
}

// Show is a carousel position over a fixed list of entries. Neighbours wrap
// around at both ends. The zero value is an empty show.
type Show struct {
	entries []Entry
	current int
}

// New returns a show positioned on the first entry.
func New(entries []Entry) *Show {
	return &Show{entries: entries}
}

// At returns a show positioned on entry i, clamped to the valid range.
func At(entries []Entry, i int) *Show {
	s := New(entries)
	s.GoTo(i)
	return s
}

// Len is the number of entries.
func (s *Show) Len() int { return len(s.entries) }

// Index is the position of the current entry.
func (s *Show) Index() int { return s.current }

// Current returns the current entry; ok is false for an empty show.
func (s *Show) Current() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[s.current], true
}

// GoTo jumps to entry i, clamped to the valid range.
func (s *Show) GoTo(i int) {
	switch {
	case len(s.entries) == 0 || i < 0:
		s.current = 0
	case i >= len(s.entries):
		s.current = len(s.entries) - 1
	default:
		s.current = i
	}
}

// NextIndex and PrevIndex return the neighbours of the current entry without moving.
func (s *Show) NextIndex() int {
	if len(s.entries) == 0 {
		return 0
	}
	return (s.current + 1) % len(s.entries)
}

func (s *Show) PrevIndex() int {
	if len(s.entries) == 0 {
		return 0
	}
	return (s.current - 1 + len(s.entries)) % len(s.entries)
}
