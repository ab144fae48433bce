// Package scene builds the static geometry drawn around the simulation:
// boundary shells, dipole field lines, cusp anchors and the starfield.
package scene

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/solarwind/internal/physics"
)

const (
	FieldLineCount  = 6
	FieldLinePoints = 40
	StarCount       = 1000
	StarSpread      = 500.0
	shellSegments   = 24
)

// Segment is a straight edge between two world points.
type Segment struct {
	A, B mgl64.Vec3
}

// Scene is the static part of the picture, built once per geometry.
type Scene struct {
	Geometry     physics.Geometry
	BowShock     []Segment
	Magnetopause []Segment
	FieldLines   [][]mgl64.Vec3
	NorthCusp    mgl64.Vec3
	SouthCusp    mgl64.Vec3
	Stars        []mgl64.Vec3
}

func New(g physics.Geometry, rng *rand.Rand) *Scene {
	return &Scene{
		Geometry:     g,
		BowShock:     Hemisphere(g.BowShock(), shellSegments),
		Magnetopause: Hemisphere(g.Magnetopause(), shellSegments),
		FieldLines:   FieldLines(g.PlanetRadius),
		NorthCusp:    mgl64.Vec3{0.8 * g.PlanetRadius, 0.8 * g.PlanetRadius, 0},
		SouthCusp:    mgl64.Vec3{0.8 * g.PlanetRadius, -0.8 * g.PlanetRadius, 0},
		Stars:        Starfield(rng, StarCount, StarSpread),
	}
}

// Hemisphere returns a lat/long wireframe of the sunward (x <= 0) half of a
// sphere of radius r centered on the planet.
func Hemisphere(r float64, segments int) []Segment {
	point := func(theta, phi float64) mgl64.Vec3 {
		return mgl64.Vec3{
			-r * math.Sin(theta) * math.Sin(phi),
			r * math.Cos(theta),
			r * math.Sin(theta) * math.Cos(phi),
		}
	}

	out := make([]Segment, 0, 2*segments*segments)
	rings := segments / 2
	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		for j := 0; j < segments; j++ {
			p0 := math.Pi * float64(j) / float64(segments)
			p1 := math.Pi * float64(j+1) / float64(segments)
			out = append(out, Segment{point(theta, p0), point(theta, p1)})
		}
	}
	for j := 0; j <= segments; j += 2 {
		phi := math.Pi * float64(j) / float64(segments)
		for i := 0; i < segments; i++ {
			t0 := math.Pi * float64(i) / float64(segments)
			t1 := math.Pi * float64(i+1) / float64(segments)
			out = append(out, Segment{point(t0, phi), point(t1, phi)})
		}
	}
	return out
}

// FieldLines traces FieldLineCount dipole-like loops around a planet of
// radius r, evenly spaced in azimuth.
func FieldLines(r float64) [][]mgl64.Vec3 {
	lines := make([][]mgl64.Vec3, FieldLineCount)
	for i := range lines {
		phi := float64(i) / FieldLineCount * 2 * math.Pi
		pts := make([]mgl64.Vec3, FieldLinePoints)
		for j := range pts {
			t := float64(j) / FieldLinePoints
			rad := r * (1 + 2*t*t)
			theta := 0.4 + t*(math.Pi-0.8)
			pts[j] = mgl64.Vec3{
				rad * math.Sin(theta) * math.Cos(phi),
				rad * math.Cos(theta),
				rad * math.Sin(theta) * math.Sin(phi),
			}
		}
		lines[i] = pts
	}
	return lines
}

// Starfield scatters n points uniformly in a cube of the given edge.
func Starfield(rng *rand.Rand, n int, spread float64) []mgl64.Vec3 {
	stars := make([]mgl64.Vec3, n)
	for i := range stars {
		stars[i] = mgl64.Vec3{
			(rng.Float64() - 0.5) * spread,
			(rng.Float64() - 0.5) * spread,
			(rng.Float64() - 0.5) * spread,
		}
	}
	return stars
}
