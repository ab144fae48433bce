package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/solarwind/internal/dynamo"
)

const (
	BowShockFactor     = 1.7
	MagnetopauseFactor = 1.45
	StrikeFactor       = 1.2
	SunShellFactor     = 1.5
)

// Geometry holds the fixed scene scale. The planet sits at the origin and
// the sun at (-SunDistance, 0, 0).
type Geometry struct {
	PlanetRadius float64 `yaml:"planet_radius"`
	SunRadius    float64 `yaml:"sun_radius"`
	SunDistance  float64 `yaml:"sun_distance"`
}

func DefaultGeometry() Geometry {
	return Geometry{PlanetRadius: 2.439, SunRadius: 8, SunDistance: 80}
}

func (g Geometry) Validate() error {
	if g.PlanetRadius <= 0 {
		return fmt.Errorf("%w: planet radius %g", dynamo.ErrInvalidGeometry, g.PlanetRadius)
	}
	if g.SunRadius <= 0 {
		return fmt.Errorf("%w: sun radius %g", dynamo.ErrInvalidGeometry, g.SunRadius)
	}
	if g.SunDistance <= 0 {
		return fmt.Errorf("%w: sun distance %g", dynamo.ErrInvalidGeometry, g.SunDistance)
	}
	return nil
}

func (g Geometry) BowShock() float64     { return BowShockFactor * g.PlanetRadius }
func (g Geometry) Magnetopause() float64 { return MagnetopauseFactor * g.PlanetRadius }
func (g Geometry) StrikeRadius() float64 { return StrikeFactor * g.PlanetRadius }
func (g Geometry) ShellRadius() float64  { return SunShellFactor * g.SunRadius }
func (g Geometry) SunCenter() mgl64.Vec3 { return mgl64.Vec3{-g.SunDistance, 0, 0} }

// InMagnetosheath reports whether dist lies strictly between the two boundaries.
func (g Geometry) InMagnetosheath(dist float64) bool {
	return dist > g.Magnetopause() && dist < g.BowShock()
}
