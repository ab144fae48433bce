package sim

import (
	"math"

	"github.com/san-kum/solarwind/internal/camera"
	"github.com/san-kum/solarwind/internal/dynamo"
)

// Visibility carries the per-group display toggles.
type Visibility struct {
	Magnetosphere bool `json:"magnetosphere"`
	FieldLines    bool `json:"fieldLines"`
	Sputtering    bool `json:"sputtering"`
}

// Frame is everything a renderer needs for one picture. Positions aliases
// the store's buffer and is overwritten by the next Tick.
type Frame struct {
	Tick       uint64      `json:"tick"`
	Number     uint64      `json:"frame"`
	Paused     bool        `json:"paused"`
	Positions  []float32   `json:"positions"`
	Visibility Visibility  `json:"visibility"`
	CuspNorth  float64     `json:"cuspNorth"`
	CuspSouth  float64     `json:"cuspSouth"`
	PlanetSpin float64     `json:"planetSpin"`
	Camera     camera.Pose `json:"camera"`
}

// CuspOpacity returns the north and south cusp glow for a frame counter.
func CuspOpacity(frame uint64) (north, south float64) {
	phase := float64(frame) * 0.1
	return 0.4 + 0.2*math.Sin(phase), 0.4 + 0.2*math.Cos(phase)
}

func (s *Simulation) Frame() Frame {
	north, south := CuspOpacity(s.frames)
	return Frame{
		Tick:      s.agg.Ticks(),
		Number:    s.frames,
		Paused:    s.ctrl.Paused,
		Positions: s.store.Positions(),
		Visibility: Visibility{
			Magnetosphere: s.ctrl.ShowMagnetosphere,
			FieldLines:    s.ctrl.ShowFieldLines,
			Sputtering:    s.ctrl.ShowSputtering,
		},
		CuspNorth:  north,
		CuspSouth:  south,
		PlanetSpin: s.spin,
		Camera:     s.pose,
	}
}

// Colors returns the per-particle rgb buffer. It never changes after New.
func (s *Simulation) Colors() []float32 { return s.store.Colors() }

// Applied returns the clamped control used by the last tick.
func (s *Simulation) Applied() dynamo.Control { return s.ctrl }
