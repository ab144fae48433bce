package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/solarwind/internal/camera"
	"github.com/san-kum/solarwind/internal/scene"
	"github.com/san-kum/solarwind/internal/sim"
)

const cuspRadiusFactor = 0.2

// Projector maps world points to canvas dots for one camera pose.
type Projector struct {
	vp     mgl64.Mat4
	w, h   int
	focal  float64
	limitX int
	limitY int
}

func NewProjector(pose camera.Pose, w, h int) Projector {
	aspect := float64(w) / float64(h)
	return Projector{
		vp:     pose.ViewProjection(aspect),
		w:      w,
		h:      h,
		focal:  float64(h) / 2 / math.Tan(mgl64.DegToRad(camera.FOV)/2),
		limitX: 4 * w,
		limitY: 4 * h,
	}
}

// Project returns the dot position and eye depth of p. ok is false when p
// is behind the near plane or far enough off screen to skip.
func (pr Projector) Project(p mgl64.Vec3) (x, y int, depth float64, ok bool) {
	c := pr.vp.Mul4x1(p.Vec4(1))
	if c[3] <= camera.Near {
		return 0, 0, 0, false
	}
	nx, ny := c[0]/c[3], c[1]/c[3]
	x = int((nx + 1) / 2 * float64(pr.w))
	y = int((1 - ny) / 2 * float64(pr.h))
	if absInt(x) > pr.limitX || absInt(y) > pr.limitY {
		return 0, 0, 0, false
	}
	return x, y, c[3], true
}

// Radius converts a world radius at the given depth into dots.
func (pr Projector) Radius(r, depth float64) int {
	if depth <= 0 {
		return 0
	}
	return int(math.Round(r / depth * pr.focal))
}

func (pr Projector) segment(c *Canvas, a, b mgl64.Vec3, l Layer) {
	x0, y0, _, ok0 := pr.Project(a)
	x1, y1, _, ok1 := pr.Project(b)
	if ok0 && ok1 {
		c.DrawLine(x0, y0, x1, y1, l)
	}
}

func (pr Projector) polyline(c *Canvas, pts []mgl64.Vec3, l Layer) {
	for i := 1; i < len(pts); i++ {
		pr.segment(c, pts[i-1], pts[i], l)
	}
}

func (pr Projector) disc(c *Canvas, center mgl64.Vec3, r float64, l Layer, filled bool) {
	x, y, d, ok := pr.Project(center)
	if !ok {
		return
	}
	rr := pr.Radius(r, d)
	if filled {
		c.FillCircle(x, y, rr, l)
	} else {
		c.StrokeCircle(x, y, rr, l)
	}
}

// Draw renders the scene and one simulation frame onto the canvas.
// colors is the per-particle rgb buffer from the simulation.
func Draw(c *Canvas, sc *scene.Scene, f sim.Frame, colors []float32) {
	c.Clear()
	pr := NewProjector(f.Camera, c.SubWidth(), c.SubHeight())
	g := sc.Geometry

	for _, s := range sc.Stars {
		if x, y, _, ok := pr.Project(s); ok {
			c.Set(x, y, LayerStar)
		}
	}

	if f.Visibility.Magnetosphere {
		for _, s := range sc.BowShock {
			pr.segment(c, s.A, s.B, LayerBowShock)
		}
		for _, s := range sc.Magnetopause {
			pr.segment(c, s.A, s.B, LayerMagnetopause)
		}
		// field lines live inside the magnetosphere group
		if f.Visibility.FieldLines {
			for _, line := range sc.FieldLines {
				pr.polyline(c, line, LayerFieldLine)
			}
		}
	}

	pr.disc(c, g.SunCenter(), g.ShellRadius(), LayerSunGlow, false)
	pr.disc(c, g.SunCenter(), g.SunRadius, LayerSun, true)

	pos := f.Positions
	for i := 0; i+2 < len(pos); i += 3 {
		p := mgl64.Vec3{float64(pos[i]), float64(pos[i+1]), float64(pos[i+2])}
		x, y, _, ok := pr.Project(p)
		if !ok {
			continue
		}
		l := LayerProton
		if i < len(colors) && colors[i] > 0.5 {
			l = LayerAlpha
		}
		c.Set(x, y, l)
	}

	pr.disc(c, mgl64.Vec3{}, g.PlanetRadius, LayerPlanet, true)
	drawMeridians(c, pr, g.PlanetRadius, f.PlanetSpin)

	for _, cusp := range []struct {
		at      mgl64.Vec3
		opacity float64
	}{{sc.NorthCusp, f.CuspNorth}, {sc.SouthCusp, f.CuspSouth}} {
		// glow radius tracks opacity around its 0.4 mean
		r := cuspRadiusFactor * g.PlanetRadius * cusp.opacity / 0.4
		pr.disc(c, rotateY(cusp.at, f.PlanetSpin), r, LayerCusp, true)
	}
}

func drawMeridians(c *Canvas, pr Projector, r, spin float64) {
	const n, steps = 3, 16
	for k := 0; k < n; k++ {
		phi := spin + float64(k)*math.Pi/n
		pts := make([]mgl64.Vec3, steps+1)
		for j := range pts {
			theta := math.Pi * float64(j) / steps
			pts[j] = mgl64.Vec3{
				r * math.Sin(theta) * math.Cos(phi),
				r * math.Cos(theta),
				r * math.Sin(theta) * math.Sin(phi),
			}
		}
		pr.polyline(c, pts, LayerStar)
	}
}

func rotateY(v mgl64.Vec3, a float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(a).Mul3x1(v)
}
