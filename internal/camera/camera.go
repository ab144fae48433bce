// Package camera computes the camera pose for each trajectory mode.
//
// Every mode is a closed-form function of a scaled wall-clock time, so
// switching modes jumps straight to the new trajectory with no easing.
package camera

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/solarwind/internal/dynamo"
)

const (
	// DefaultSunDistance matches the default scene geometry.
	DefaultSunDistance = 80.0
	// sunViewOffset places the sun camera this far planetward of the sun.
	sunViewOffset = 20.0

	TimeScale = 0.00005
	FOV       = 60.0
	Near      = 0.1
	Far       = 1000.0
)

var (
	worldUp   = mgl64.Vec3{0, 1, 0}
	downUp    = mgl64.Vec3{0, 0, -1}
	orbitHub  = mgl64.Vec3{-20, 0, 0}
	sideEye   = mgl64.Vec3{0, 0, 50}
	topEye    = mgl64.Vec3{-30, 60, 0}
	topTarget = mgl64.Vec3{-30, 0, 0}
)

// Pose is a camera placement.
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
	Up       mgl64.Vec3 `json:"up"`
}

// Time converts a wall clock reading into trajectory time.
func Time(now time.Time) float64 {
	return float64(now.UnixMilli()) * TimeScale
}

var trajectories = [...]func(t, sunDistance float64) Pose{
	dynamo.CameraOrbit:   orbit,
	dynamo.CameraSide:    side,
	dynamo.CameraTop:     top,
	dynamo.CameraSun:     sun,
	dynamo.CameraMercury: mercury,
}

// Compute returns the pose for mode at trajectory time t in the default
// geometry. Unknown modes fall back to orbit.
func Compute(mode dynamo.CameraMode, t float64) Pose {
	return ComputeFor(DefaultSunDistance, mode, t)
}

// ComputeFor is Compute for a sun at (-sunDistance, 0, 0).
func ComputeFor(sunDistance float64, mode dynamo.CameraMode, t float64) Pose {
	if mode < 0 || int(mode) >= len(trajectories) {
		mode = dynamo.CameraOrbit
	}
	return trajectories[mode](t, sunDistance)
}

func orbit(t, _ float64) Pose {
	return Pose{
		Position: mgl64.Vec3{-20 + math.Cos(t)*40, 20 + math.Sin(t*0.7)*10, math.Sin(t) * 40},
		Target:   orbitHub,
		Up:       worldUp,
	}
}

func side(_, _ float64) Pose { return Pose{Position: sideEye, Target: orbitHub, Up: worldUp} }

// top looks straight down the y axis, so screen-up is -z.
func top(_, _ float64) Pose { return Pose{Position: topEye, Target: topTarget, Up: downUp} }

func sun(_, sunDistance float64) Pose {
	return Pose{Position: mgl64.Vec3{-sunDistance + sunViewOffset, 10, 0}, Up: worldUp}
}

func mercury(t, _ float64) Pose {
	return Pose{
		Position: mgl64.Vec3{15 * math.Cos(t*2), 8, 15 * math.Sin(t*2)},
		Up:       worldUp,
	}
}

// View is the world-to-camera transform.
func (p Pose) View() mgl64.Mat4 {
	return mgl64.LookAtV(p.Position, p.Target, p.Up)
}

// Projection is the perspective transform for the given viewport aspect.
func Projection(aspect float64) mgl64.Mat4 {
	if aspect <= 0 || math.IsNaN(aspect) {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(FOV), aspect, Near, Far)
}

// ViewProjection combines View and Projection.
func (p Pose) ViewProjection(aspect float64) mgl64.Mat4 {
	return Projection(aspect).Mul4(p.View())
}
