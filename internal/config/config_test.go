package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/solarwind/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Particles != 3000 {
		t.Errorf("expected 3000 particles, got %d", cfg.Particles)
	}
	if cfg.Control.WindSpeed != 400 {
		t.Errorf("expected wind speed 400, got %v", cfg.Control.WindSpeed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_ClampsAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte(`seed: 9
particles: 120
control:
  wind_speed: 9000
  cme: true
  camera: mercury
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Seed != 9 || cfg.Particles != 120 {
		t.Errorf("unexpected seed/particles %d/%d", cfg.Seed, cfg.Particles)
	}
	if cfg.Control.WindSpeed != dynamo.MaxWindSpeed {
		t.Errorf("expected clamped wind speed, got %v", cfg.Control.WindSpeed)
	}
	if cfg.Control.Camera != dynamo.CameraMercury || !cfg.Control.CME {
		t.Errorf("unexpected control %+v", cfg.Control)
	}
	if cfg.Geometry.PlanetRadius != 2.439 {
		t.Errorf("expected default geometry, got %+v", cfg.Geometry)
	}
}

func TestLoad_BadCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	os.WriteFile(path, []byte("control:\n  camera: dolly\n"), 0644)

	_, err := Load(path)
	if !errors.Is(err, dynamo.ErrUnknownCameraMode) {
		t.Errorf("expected ErrUnknownCameraMode, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Control.Camera = dynamo.CameraTop
	cfg.Seed = 77

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Control.Camera != dynamo.CameraTop || got.Seed != 77 {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"particles", func(c *Config) { c.Particles = 0 }, dynamo.ErrInvalidParticleCount},
		{"planet", func(c *Config) { c.Geometry.PlanetRadius = -1 }, dynamo.ErrInvalidGeometry},
		{"sun", func(c *Config) { c.Geometry.SunDistance = 0 }, dynamo.ErrInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.FrameRate = 0
	if cfg.Validate() == nil {
		t.Error("expected error for zero frame rate")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("storm")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.Control.CME || cfg.Control.WindSpeed != 750 {
		t.Errorf("unexpected storm control %+v", cfg.Control)
	}
	if cfg.Particles != DefaultParticles {
		t.Errorf("preset lost defaults: %d particles", cfg.Particles)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestLoadOver_KeepsPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("particles: 500\ncontrol:\n  camera: side\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("storm")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Particles != 500 || cfg.Control.Camera != dynamo.CameraSide {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.Control.CME || cfg.Control.WindSpeed != 750 || cfg.Ticks != 3600 {
		t.Errorf("preset values lost: ticks %d, control %+v", cfg.Ticks, cfg.Control)
	}
	if base.Particles != DefaultParticles || base.Control.Camera != dynamo.CameraMercury {
		t.Errorf("base modified: %+v", base)
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}
