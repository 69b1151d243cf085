// Package scene simulates the decorative background of the music page. The
// server steps a scene and hands its frames to a canvas on the client.
package scene

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Scene is anything that can be stepped, drawn and resized.
type Scene interface {
	// Update advances the scene by dt seconds.
	Update(dt float64)
	// Frame returns a snapshot of the scene.
	Frame() Frame
	// Resize fits the scene to a window of w by h pixels.
	Resize(w, h int)
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Note is one sphere in the scene.
type Note struct {
	Position Vec3    `json:"position"`
	Radius   float64 `json:"radius"`
	Color    string  `json:"color"`
}

type Camera struct {
	FOV  float64 `json:"fov"`
	Near float64 `json:"near"`
	Far  float64 `json:"far"`
	Z    float64 `json:"z"`
}

// Frame is what the client draws.
type Frame struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Aspect  float64 `json:"aspect"`
	Camera  Camera  `json:"camera"`
	Notes   []Note  `json:"notes"`
	Elapsed float64 `json:"elapsed"`
}

// Viewport sizes the render target as a fraction of the window.
type Viewport struct {
	WidthRatio  float64
	HeightRatio float64
	Width       int
	Height      int
}

// NewViewport returns a viewport for a window of w by h pixels.
func NewViewport(widthRatio, heightRatio float64, w, h int) Viewport {
	v := Viewport{WidthRatio: widthRatio, HeightRatio: heightRatio}
	return v.Resize(w, h)
}

// Resize recomputes the render size for a new window size.
func (v Viewport) Resize(w, h int) Viewport {
	v.Width = int(math.Round(float64(w) * v.WidthRatio))
	v.Height = int(math.Round(float64(h) * v.HeightRatio))
	return v
}

// Aspect is width over height, or 1 for a degenerate viewport.
func (v Viewport) Aspect() float64 {
	if v.Height <= 0 || v.Width <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// Options configure a scene variant.
type Options struct {
	Viewport Viewport
	Count    int
	Seed     uint64
}

func (o Options) withDefaults() Options {
	if o.Count <= 0 {
		o.Count = 24
	}
	if o.Viewport.WidthRatio == 0 && o.Viewport.HeightRatio == 0 {
		o.Viewport = NewViewport(1, 1, 1280, 720)
	}
	return o
}

// stage is the part every variant shares: camera, viewport and clock.
type stage struct {
	viewport Viewport
	camera   Camera
	elapsed  float64
}

func newStage(v Viewport) stage {
	return stage{
		viewport: v,
		camera:   Camera{FOV: 75, Near: 0.1, Far: 1000, Z: 5},
	}
}

func (s *stage) Resize(w, h int) { s.viewport = s.viewport.Resize(w, h) }

func (s *stage) frame(notes []Note) Frame {
	out := make([]Note, len(notes))
	copy(out, notes)
	return Frame{
		Width:   s.viewport.Width,
		Height:  s.viewport.Height,
		Aspect:  s.viewport.Aspect(),
		Camera:  s.camera,
		Notes:   out,
		Elapsed: s.elapsed,
	}
}

func randomColor(rng *rand.Rand) string {
	return fmt.Sprintf("#%06x", rng.IntN(0x1000000))
}

// New returns the named variant: "notes" or "orbit".
func New(kind string, opts Options) (Scene, error) {
	switch kind {
	case "", "notes":
		return NewMusicNotes(opts), nil
	case "orbit":
		return NewOrbit(opts), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", kind)
	}
}

// Simulate steps s n times by dt and returns every frame, the initial one first.
func Simulate(s Scene, n int, dt float64) []Frame {
	frames := make([]Frame, 0, n+1)
	frames = append(frames, s.Frame())
	for i := 0; i < n; i++ {
		s.Update(dt)
		frames = append(frames, s.Frame())
	}
	return frames
}
