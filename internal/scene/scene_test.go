package scene_test

import (
	"math"
	"testing"

	"github.com/adee/portfolio/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewport(t *testing.T) {
	v := scene.NewViewport(0.5, 0.8, 1000, 500)
	assert.Equal(t, 500, v.Width)
	assert.Equal(t, 400, v.Height)
	assert.InDelta(t, 1.25, v.Aspect(), 1e-9)

	v = v.Resize(2000, 1000)
	assert.Equal(t, 1000, v.Width)

	assert.Equal(t, 1.0, scene.Viewport{}.Aspect())
}

func TestMusicNotes_SeededAndBounded(t *testing.T) {
	opts := scene.Options{Count: 10, Seed: 42}
	a := scene.Simulate(scene.NewMusicNotes(opts), 30, 1.0/60)
	b := scene.Simulate(scene.NewMusicNotes(opts), 30, 1.0/60)
	require.Len(t, a, 31)
	assert.Equal(t, a, b, "same seed, same frames")

	first, last := a[0], a[30]
	require.Len(t, first.Notes, 10)
	for i, n := range last.Notes {
		assert.InDelta(t, first.Notes[i].Position.X, n.Position.X, 30*0.025+1e-9)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, n.Color)
	}
	assert.InDelta(t, 0.5, last.Elapsed, 1e-9)
}

func TestFrame_IsSnapshot(t *testing.T) {
	s := scene.NewMusicNotes(scene.Options{Count: 3, Seed: 1})
	f := s.Frame()
	before := f.Notes[0].Position

	s.Update(1)
	assert.Equal(t, before, f.Notes[0].Position)
}

func TestOrbit_KeepsRadius(t *testing.T) {
	s := scene.NewOrbit(scene.Options{Count: 5, Seed: 7})
	start := s.Frame()
	s.Update(2.5)
	end := s.Frame()

	for i := range start.Notes {
		r0 := math.Hypot(start.Notes[i].Position.X, start.Notes[i].Position.Y)
		r1 := math.Hypot(end.Notes[i].Position.X, end.Notes[i].Position.Y)
		assert.InDelta(t, r0, r1, 1e-9)
		assert.NotEqual(t, start.Notes[i].Position, end.Notes[i].Position)
	}
}

func TestScene_Resize(t *testing.T) {
	for _, kind := range []string{"notes", "orbit"} {
		s, err := scene.New(kind, scene.Options{Viewport: scene.NewViewport(1, 0.5, 800, 600)})
		require.NoError(t, err)

		s.Resize(1600, 1200)
		f := s.Frame()
		assert.Equal(t, 1600, f.Width, kind)
		assert.Equal(t, 600, f.Height, kind)
		assert.Len(t, f.Notes, 24, "default count")
	}

	_, err := scene.New("cubes", scene.Options{})
	assert.Error(t, err)
}
