package scene

import (
	"math"
	"math/rand/v2"
)

const (
	noteRadius = 0.2
	// spread is the half-width of the cube notes start in.
	spread = 2.0
	// jitter is the largest per-frame move at 60 frames per second.
	jitter = 0.05
)

// MusicNotes is a cloud of coloured notes, each taking a random walk.
type MusicNotes struct {
	stage
	rng   *rand.Rand
	notes []Note
}

func NewMusicNotes(opts Options) *MusicNotes {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	m := &MusicNotes{
		stage: newStage(opts.Viewport),
		rng:   rng,
		notes: make([]Note, opts.Count),
	}
	for i := range m.notes {
		m.notes[i] = Note{
			Position: Vec3{
				X: rng.Float64()*2*spread - spread,
				Y: rng.Float64()*2*spread - spread,
				Z: rng.Float64()*2*spread - spread,
			},
			Radius: noteRadius,
			Color:  randomColor(rng),
		}
	}
	return m
}

func (m *MusicNotes) Update(dt float64) {
	scale := jitter * dt * 60
	for i := range m.notes {
		p := &m.notes[i].Position
		p.X += (m.rng.Float64() - 0.5) * scale
		p.Y += (m.rng.Float64() - 0.5) * scale
		p.Z += (m.rng.Float64() - 0.5) * scale
	}
	m.elapsed += dt
}

func (m *MusicNotes) Frame() Frame { return m.frame(m.notes) }

// Orbit places notes on rings around the origin and turns them at a steady rate.
type Orbit struct {
	stage
	notes  []Note
	radii  []float64
	phases []float64
	speeds []float64
}

func NewOrbit(opts Options) *Orbit {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	o := &Orbit{
		stage:  newStage(opts.Viewport),
		notes:  make([]Note, opts.Count),
		radii:  make([]float64, opts.Count),
		phases: make([]float64, opts.Count),
		speeds: make([]float64, opts.Count),
	}
	for i := range o.notes {
		o.radii[i] = 0.5 + rng.Float64()*(spread-0.5)
		o.phases[i] = rng.Float64() * 2 * math.Pi
		// Inner rings turn faster.
		o.speeds[i] = 1.5 / o.radii[i]
		o.notes[i] = Note{
			Radius: noteRadius,
			Color:  randomColor(rng),
		}
		o.notes[i].Position.Z = rng.Float64()*2*spread - spread
	}
	o.place()
	return o
}

func (o *Orbit) Update(dt float64) {
	o.elapsed += dt
	o.place()
}

func (o *Orbit) place() {
	for i := range o.notes {
		angle := o.phases[i] + o.speeds[i]*o.elapsed
		o.notes[i].Position.X = o.radii[i] * math.Cos(angle)
		o.notes[i].Position.Y = o.radii[i] * math.Sin(angle)
	}
}

func (o *Orbit) Frame() Frame { return o.frame(o.notes) }
