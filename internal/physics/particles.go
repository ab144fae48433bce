package physics

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/solarwind/internal/dynamo"
)

const (
	DefaultParticleCount = 3000
	DefaultDriftSpeed    = 0.4
	ProtonFraction       = 0.95
	initialAgeSpread     = 100
)

// Particle is the kinematic proxy of one solar wind ion.
type Particle struct {
	Pos     mgl64.Vec3
	Drift   float64
	Age     int
	Species dynamo.Species
}

// Store owns a fixed number of particles plus the flat position buffer
// handed to the render side. Particles are recycled, never added or removed.
type Store struct {
	particles []Particle
	positions []float32
	colors    []float32
}

// NewStore spawns n particles on the sun shell with staggered ages.
func NewStore(n int, drift float64, g Geometry, rng *rand.Rand) (*Store, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", dynamo.ErrInvalidParticleCount, n)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		particles: make([]Particle, n),
		positions: make([]float32, n*3),
		colors:    make([]float32, n*3),
	}
	for i := range s.particles {
		p := &s.particles[i]
		p.Pos = SunShellPoint(rng, g)
		p.Drift = drift
		p.Age = rng.Intn(initialAgeSpread)
		if drawSpeciesAlpha(rng) {
			p.Species = dynamo.Alpha
		}
		rgb := p.Species.RGB()
		copy(s.colors[i*3:i*3+3], rgb[:])
		s.sync(i)
	}
	return s, nil
}

func (s *Store) Len() int { return len(s.particles) }

// At returns a copy of particle i.
func (s *Store) At(i int) Particle { return s.particles[i] }

// Positions returns the flat xyz buffer in particle index order. The slice
// is reused every tick; readers must copy it if they keep it.
func (s *Store) Positions() []float32 { return s.positions }

// Colors returns the flat rgb buffer derived from each particle's species.
func (s *Store) Colors() []float32 { return s.colors }

// Place overwrites the kinematic state of particle i, keeping its species.
func (s *Store) Place(i int, pos mgl64.Vec3, age int) {
	s.particles[i].Pos = pos
	s.particles[i].Age = age
	s.sync(i)
}

// CountSpecies returns how many particles carry species sp.
func (s *Store) CountSpecies(sp dynamo.Species) int {
	n := 0
	for i := range s.particles {
		if s.particles[i].Species == sp {
			n++
		}
	}
	return n
}

func (s *Store) sync(i int) {
	p := s.particles[i].Pos
	s.positions[i*3] = float32(p[0])
	s.positions[i*3+1] = float32(p[1])
	s.positions[i*3+2] = float32(p[2])
}
