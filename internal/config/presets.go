package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/chaosdp/internal/dynamo"
)

// Presets are applied as overrides on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"chaos": func(c *Config) {
		c.Population = "chaos"
	},
	"precision": func(c *Config) {
		c.Mode = "precision"
	},
	"wide-spread": func(c *Config) {
		c.Population = "chaos"
		c.Chaos.IncrementDeg = 1e-2
	},
	"gentle": func(c *Config) {
		c.InitialAngleDeg = 30
		c.Duration = 30
	},
}

func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q: %w", name, dynamo.ErrUnknownPreset)
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
