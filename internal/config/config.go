package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaosdp/internal/dynamo"
	"github.com/san-kum/chaosdp/internal/physics"
	"github.com/san-kum/chaosdp/internal/sim"
)

const (
	DefaultFPS         = 60
	DefaultDuration    = 10.0
	DefaultTrailLength = 400
	DefaultTheme       = "dark"
)

type Config struct {
	Gravity         float64     `yaml:"gravity"`
	Top             LinkConfig  `yaml:"top"`
	Bottom          LinkConfig  `yaml:"bottom"`
	InitialAngleDeg float64     `yaml:"initial_angle_deg"`
	Chaos           ChaosConfig `yaml:"chaos"`
	FixedStep       float64     `yaml:"fixed_step"`
	Mode            string      `yaml:"mode"`
	Population      string      `yaml:"population"`
	FPS             int         `yaml:"fps"`
	Duration        float64     `yaml:"duration"`
	Workers         int         `yaml:"workers"`
	Theme           string      `yaml:"theme"`
	TrailLength     int         `yaml:"trail_length"`
	ValidateState   bool        `yaml:"validate_state"`
}

type LinkConfig struct {
	Mass   float64 `yaml:"mass"`
	Length float64 `yaml:"length"`
}

type ChaosConfig struct {
	Count        int     `yaml:"count"`
	IncrementDeg float64 `yaml:"increment_deg"`
}

func DefaultConfig() *Config {
	m := physics.DefaultModel()
	return &Config{
		Gravity:         m.Gravity,
		Top:             LinkConfig{Mass: m.Top.Mass, Length: m.Top.Length},
		Bottom:          LinkConfig{Mass: m.Bottom.Mass, Length: m.Bottom.Length},
		InitialAngleDeg: sim.DefaultAngleDeg,
		Chaos: ChaosConfig{
			Count:        sim.DefaultChaosCount,
			IncrementDeg: sim.DefaultChaosIncrementDeg,
		},
		FixedStep:   sim.DefaultFixedStep,
		Mode:        sim.RealTime.String(),
		Population:  sim.PopulationDefault.String(),
		FPS:         DefaultFPS,
		Duration:    DefaultDuration,
		Workers:     1,
		Theme:       DefaultTheme,
		TrailLength: DefaultTrailLength,
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads path over a copy of base, so keys missing from the file
// keep base's values.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	dynamo.Logger().Info("config loaded", "path", path)
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first field outside its valid range.
func (c *Config) Validate() error {
	if err := c.Model().Validate(); err != nil {
		return err
	}
	checks := []struct {
		name string
		ok   bool
	}{
		{"initial_angle_deg", isFinite(c.InitialAngleDeg)},
		{"chaos.count", c.Chaos.Count > 0},
		{"chaos.increment_deg", isFinite(c.Chaos.IncrementDeg)},
		{"fixed_step", c.FixedStep > 0 && isFinite(c.FixedStep)},
		{"fps", c.FPS > 0},
		{"duration", c.Duration >= 0 && isFinite(c.Duration)},
		{"workers", c.Workers >= 1},
		{"trail_length", c.TrailLength >= 0},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%s: %w", chk.name, dynamo.ErrParameterBounds)
		}
	}
	if _, err := c.StepMode(); err != nil {
		return err
	}
	if _, err := c.StartPopulation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Model() physics.Model {
	return physics.Model{
		Gravity: c.Gravity,
		Top:     physics.Link{Mass: c.Top.Mass, Length: c.Top.Length},
		Bottom:  physics.Link{Mass: c.Bottom.Mass, Length: c.Bottom.Length},
	}
}

func (c *Config) SetOptions() sim.Options {
	return sim.Options{
		Model:             c.Model(),
		AngleDeg:          c.InitialAngleDeg,
		ChaosCount:        c.Chaos.Count,
		ChaosIncrementDeg: c.Chaos.IncrementDeg,
		Workers:           c.Workers,
	}
}

func (c *Config) StepMode() (sim.Mode, error) {
	switch c.Mode {
	case "", "realtime":
		return sim.RealTime, nil
	case "precision":
		return sim.Precision, nil
	default:
		return 0, fmt.Errorf("mode %q: %w", c.Mode, dynamo.ErrParameterBounds)
	}
}

func (c *Config) StartPopulation() (sim.Population, error) {
	switch c.Population {
	case "", "default":
		return sim.PopulationDefault, nil
	case "chaos":
		return sim.PopulationChaos, nil
	default:
		return 0, fmt.Errorf("population %q: %w", c.Population, dynamo.ErrParameterBounds)
	}
}

// NewDriver builds the set and scheduler described by c, starting in the
// configured population and step mode.
func (c *Config) NewDriver() (*sim.Driver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, _ := c.StepMode()
	pop, _ := c.StartPopulation()

	set := sim.NewSet(c.SetOptions())
	if pop == sim.PopulationChaos {
		set.SetChaos()
	}
	return sim.NewDriver(set, sim.NewScheduler(mode, c.FixedStep)), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
