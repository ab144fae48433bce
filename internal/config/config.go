package config

import (
	"fmt"
	"os"

	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/physics"
	"github.com/san-kum/solarwind/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles = physics.DefaultParticleCount
	DefaultDrift     = physics.DefaultDriftSpeed
	DefaultFrameRate = 60
	DefaultTicks     = 1800
	DefaultSeed      = 1
	DefaultAddr      = ":8080"
)

type Config struct {
	Seed      int64            `yaml:"seed"`
	Particles int              `yaml:"particles"`
	Drift     float64          `yaml:"drift_speed"`
	FrameRate int              `yaml:"frame_rate"`
	Ticks     int              `yaml:"ticks"`
	Addr      string           `yaml:"addr"`
	Geometry  physics.Geometry `yaml:"geometry"`
	Control   dynamo.Control   `yaml:"control"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:      DefaultSeed,
		Particles: DefaultParticles,
		Drift:     DefaultDrift,
		FrameRate: DefaultFrameRate,
		Ticks:     DefaultTicks,
		Addr:      DefaultAddr,
		Geometry:  physics.DefaultGeometry(),
		Control:   dynamo.DefaultControl(),
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so keys missing from the
// file keep base's values. base itself is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Control = cfg.Control.Clamp()
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings that cannot produce a simulation. Control
// values are clamped rather than rejected.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("%w: got %d", dynamo.ErrInvalidParticleCount, c.Particles)
	}
	if err := c.Geometry.Validate(); err != nil {
		return err
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", c.Ticks)
	}
	return nil
}

// Options converts the config into simulation options.
func (c *Config) Options() sim.Options {
	return sim.Options{
		Particles: c.Particles,
		Drift:     c.Drift,
		Geometry:  c.Geometry,
		Seed:      c.Seed,
	}
}
