package dynamo

import (
	"fmt"
	"math"
	"strings"
)

const (
	MinWindSpeed     = 250.0
	MaxWindSpeed     = 750.0
	DefaultWindSpeed = 400.0
)

// CameraMode selects one of the fixed camera trajectories.
type CameraMode int

const (
	CameraOrbit CameraMode = iota
	CameraSide
	CameraTop
	CameraSun
	CameraMercury
)

var cameraModeNames = [...]string{"orbit", "side", "top", "sun", "mercury"}

func (m CameraMode) String() string {
	if m < 0 || int(m) >= len(cameraModeNames) {
		return fmt.Sprintf("CameraMode(%d)", int(m))
	}
	return cameraModeNames[m]
}

// CameraModes lists every mode in selection order.
func CameraModes() []CameraMode {
	return []CameraMode{CameraOrbit, CameraSide, CameraTop, CameraSun, CameraMercury}
}

// ParseCameraMode maps a mode name to its CameraMode.
func ParseCameraMode(s string) (CameraMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range cameraModeNames {
		if n == name {
			return CameraMode(i), nil
		}
	}
	return CameraOrbit, fmt.Errorf("%w: %q", ErrUnknownCameraMode, s)
}

func (m CameraMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *CameraMode) UnmarshalText(b []byte) error {
	mode, err := ParseCameraMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Control is the externally owned control surface, read once per tick.
type Control struct {
	Paused            bool       `yaml:"paused" json:"paused"`
	ShowMagnetosphere bool       `yaml:"show_magnetosphere" json:"showMagnetosphere"`
	ShowFieldLines    bool       `yaml:"show_field_lines" json:"showFieldLines"`
	ShowSputtering    bool       `yaml:"show_sputtering" json:"showSputtering"`
	WindSpeed         float64    `yaml:"wind_speed" json:"windSpeed"`
	CME               bool       `yaml:"cme" json:"cme"`
	Camera            CameraMode `yaml:"camera" json:"camera"`
}

func DefaultControl() Control {
	return Control{
		ShowMagnetosphere: true,
		ShowFieldLines:    true,
		ShowSputtering:    true,
		WindSpeed:         DefaultWindSpeed,
		Camera:            CameraOrbit,
	}
}

// Clamp pulls out-of-range values back to the nearest valid bound.
// There is no error channel inside the tick, so bad input is corrected, not reported.
func (c Control) Clamp() Control {
	switch {
	case math.IsNaN(c.WindSpeed):
		c.WindSpeed = DefaultWindSpeed
	case c.WindSpeed < MinWindSpeed:
		c.WindSpeed = MinWindSpeed
	case c.WindSpeed > MaxWindSpeed:
		c.WindSpeed = MaxWindSpeed
	}
	if c.Camera < CameraOrbit || c.Camera > CameraMercury {
		c.Camera = CameraOrbit
	}
	return c
}

// SpeedMultiplier scales the bulk drift for the current wind and CME state.
func (c Control) SpeedMultiplier() float64 {
	mult := 1.0
	if c.CME {
		mult = 2.5
	}
	return mult * (c.WindSpeed / DefaultWindSpeed)
}

// Stats is a published statistics snapshot. Values are copied out, never shared.
type Stats struct {
	Tick             uint64  `json:"tick"`
	ParticlesHitting float64 `json:"particlesHitting"`
	SputteredAtoms   int     `json:"sputteredAtoms"`
	ReconnectionRate float64 `json:"reconnectionRate"`
}

// Species tags a particle for coloring only.
type Species uint8

const (
	Proton Species = iota
	Alpha
)

func (s Species) String() string {
	switch s {
	case Proton:
		return "proton"
	case Alpha:
		return "alpha"
	default:
		return fmt.Sprintf("Species(%d)", uint8(s))
	}
}

// RGB returns the display color of the species in [0,1] components.
func (s Species) RGB() [3]float32 {
	if s == Alpha {
		return [3]float32{1, 0x66 / 255.0, 0}
	}
	return [3]float32{0, 0xaa / 255.0, 1}
}
