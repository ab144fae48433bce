package physics

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// SunShellPoint draws a point uniformly on the sphere of radius
// ShellRadius around the sun center.
func SunShellPoint(rng *rand.Rand, g Geometry) mgl64.Vec3 {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	s := math.Sqrt(1 - z*z)
	dir := mgl64.Vec3{s * math.Cos(phi), s * math.Sin(phi), z}
	return g.SunCenter().Add(dir.Mul(g.ShellRadius()))
}

// drawSpeciesAlpha is true for the 5% of spawns that become alphas.
func drawSpeciesAlpha(rng *rand.Rand) bool {
	return rng.Float64() >= ProtonFraction
}
