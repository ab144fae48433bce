package physics

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/solarwind/internal/dynamo"
)

const (
	DriftScale = 0.15
	Deflection = 0.1
	ExitPlaneX = 30.0
	MaxAge     = 400
	SpinRate   = 0.002
)

// Outcome classifies what happened to a particle during one step.
type Outcome uint8

const (
	Drifted Outcome = iota
	Deflected
	Struck
	Escaped
	Expired
)

func (o Outcome) Respawned() bool { return o >= Struck }

// Engine advances every particle in a Store by one tick.
type Engine struct {
	geom Geometry
	rng  *rand.Rand
}

func NewEngine(g Geometry, rng *rand.Rand) *Engine {
	return &Engine{geom: g, rng: rng}
}

func (e *Engine) Geometry() Geometry { return e.geom }

// Report tallies step outcomes across the store.
type Report struct {
	Deflected int
	Struck    int
	Escaped   int
	Expired   int
}

func (r Report) Respawned() int { return r.Struck + r.Escaped + r.Expired }

// Step advances all particles once. The position buffer is up to date
// when Step returns.
func (e *Engine) Step(s *Store, ctrl dynamo.Control) Report {
	mult := ctrl.SpeedMultiplier()
	var r Report
	for i := range s.particles {
		p := &s.particles[i]
		switch Advance(p, mult, e.geom) {
		case Deflected:
			r.Deflected++
		case Struck:
			r.Struck++
		case Escaped:
			r.Escaped++
		case Expired:
			r.Expired++
		}
		if p.Age == 0 {
			p.Pos = SunShellPoint(e.rng, e.geom)
		}
		s.sync(i)
	}
	return r
}

// Advance applies drift, sheath deflection and the respawn rules to p.
// Deflection and the respawn test both use the post-drift distance. On
// respawn the age is zeroed and the caller redraws the position.
func Advance(p *Particle, mult float64, g Geometry) Outcome {
	p.Pos[0] += p.Drift * mult * DriftScale
	p.Age++

	dist := p.Pos.Len()
	out := Drifted
	if g.InMagnetosheath(dist) {
		p.Pos[1] += p.Pos[1] / dist * Deflection
		p.Pos[2] += p.Pos[2] / dist * Deflection
		out = Deflected
	}

	switch {
	case dist < g.StrikeRadius() || dist == 0 || math.IsNaN(dist):
		out = Struck
	case p.Pos[0] > ExitPlaneX:
		out = Escaped
	case p.Age > MaxAge:
		out = Expired
	}
	if out.Respawned() {
		p.Pos = mgl64.Vec3{}
		p.Age = 0
	}
	return out
}
