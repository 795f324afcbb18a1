package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/chaosdp/internal/dynamo"
)

// paramFields maps the numeric parameters a sweep may vary to their fields.
var paramFields = map[string]func(c *Config) *float64{
	"gravity":             func(c *Config) *float64 { return &c.Gravity },
	"top.mass":            func(c *Config) *float64 { return &c.Top.Mass },
	"top.length":          func(c *Config) *float64 { return &c.Top.Length },
	"bottom.mass":         func(c *Config) *float64 { return &c.Bottom.Mass },
	"bottom.length":       func(c *Config) *float64 { return &c.Bottom.Length },
	"initial_angle_deg":   func(c *Config) *float64 { return &c.InitialAngleDeg },
	"chaos.increment_deg": func(c *Config) *float64 { return &c.Chaos.IncrementDeg },
	"fixed_step":          func(c *Config) *float64 { return &c.FixedStep },
	"duration":            func(c *Config) *float64 { return &c.Duration },
}

func (c *Config) GetParams() map[string]float64 {
	out := make(map[string]float64, len(paramFields))
	for name, field := range paramFields {
		out[name] = *field(c)
	}
	return out
}

// SetParam sets a numeric parameter by its yaml path. The value is not
// range checked; call Validate afterwards.
func (c *Config) SetParam(name string, value float64) error {
	field, ok := paramFields[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q (available: %v): %w", name, ParamNames(), dynamo.ErrParameterBounds)
	}
	*field(c) = value
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(paramFields))
	for name := range paramFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
