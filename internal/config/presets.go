package config

import "sort"

func preset(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"dense": preset(func(c *Config) {
		c.Integration.ParticleCount = 120
		c.Run.Stepper = "parallel"
	}),
	"dipole": preset(func(c *Config) {
		c.Integration.ParticleCount = 2
		c.Force.BoundaryStrength = 0
		c.Force.VelocityDamping = 1
		c.Force.Softening = 0.05
		c.Run.Layout = "dipole"
	}),
	"ring": preset(func(c *Config) {
		c.Integration.ParticleCount = 12
		c.Run.Layout = "ring"
	}),
	"lattice": preset(func(c *Config) {
		c.Integration.ParticleCount = 25
		c.Force.BoundaryStrength = -1
		c.Run.Layout = "lattice"
	}),
	"outward": preset(func(c *Config) {
		c.Integration.ParticleCount = 8
		c.Force.BoundaryStrength = 0.5
		c.Run.Layout = "ring"
		c.Run.Frames = 300
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
