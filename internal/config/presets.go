package config

import (
	"sort"

	"github.com/san-kum/solarwind/internal/dynamo"
)

// Presets override the control surface and run length of the defaults.
var Presets = map[string]*Config{
	"quiet": {
		Ticks:   1800,
		Control: dynamo.Control{ShowMagnetosphere: true, ShowFieldLines: true, ShowSputtering: true, WindSpeed: 350, Camera: dynamo.CameraOrbit},
	},
	"fast": {
		Ticks:   1800,
		Control: dynamo.Control{ShowMagnetosphere: true, ShowFieldLines: true, ShowSputtering: true, WindSpeed: 700, Camera: dynamo.CameraSide},
	},
	"storm": {
		Ticks:   3600,
		Control: dynamo.Control{ShowMagnetosphere: true, ShowFieldLines: true, ShowSputtering: true, WindSpeed: 750, CME: true, Camera: dynamo.CameraMercury},
	},
	"polar": {
		Ticks:   1200,
		Control: dynamo.Control{ShowMagnetosphere: false, ShowFieldLines: true, ShowSputtering: true, WindSpeed: 400, Camera: dynamo.CameraTop},
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Ticks = p.Ticks
	cfg.Control = p.Control.Clamp()
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
