package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MaybeImHere/ElectricParticles1/internal/dynamo"
	"github.com/MaybeImHere/ElectricParticles1/internal/experiment"
	"github.com/MaybeImHere/ElectricParticles1/internal/sim"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeStep         = 0.001
	DefaultParticleCount    = 14
	DefaultSubStepsPerFrame = 5
	DefaultSoftening        = 0.005
	DefaultCoefficient      = 2.0
	DefaultBoundaryStrength = -2.0
	DefaultVelocityDamping  = 0.99991
	DefaultWindowSize       = 800
	DefaultWorldExtent      = 2.0
	DefaultFrames           = 600
)

type Config struct {
	Integration IntegrationConfig `yaml:"integration" json:"integration"`
	Force       ForceConfig       `yaml:"force" json:"force"`
	Viewport    ViewportConfig    `yaml:"viewport" json:"viewport"`
	Run         RunConfig         `yaml:"run" json:"run"`
}

type IntegrationConfig struct {
	TimeStep         float64 `yaml:"time_step" json:"time_step"`
	ParticleCount    int     `yaml:"particle_count" json:"particle_count"`
	SubStepsPerFrame int     `yaml:"sub_steps_per_frame" json:"sub_steps_per_frame"`
}

type ForceConfig struct {
	Softening        float64 `yaml:"softening" json:"softening"`
	Coefficient      float64 `yaml:"coefficient" json:"coefficient"`
	BoundaryStrength float64 `yaml:"boundary_strength" json:"boundary_strength"`
	VelocityDamping  float64 `yaml:"velocity_damping" json:"velocity_damping"`
}

type ViewportConfig struct {
	Width  int     `yaml:"width" json:"width"`
	Height int     `yaml:"height" json:"height"`
	MinX   float64 `yaml:"min_x" json:"min_x"`
	MaxX   float64 `yaml:"max_x" json:"max_x"`
	MinY   float64 `yaml:"min_y" json:"min_y"`
	MaxY   float64 `yaml:"max_y" json:"max_y"`
}

// RunConfig holds the optional run options. Missing fields keep their defaults.
type RunConfig struct {
	Layout  string `yaml:"layout" json:"layout"`
	Stepper string `yaml:"stepper" json:"stepper"`
	Workers int    `yaml:"workers" json:"workers"`
	Seed    int64  `yaml:"seed" json:"seed"`
	Frames  int    `yaml:"frames" json:"frames"`
}

// mandatory lists the fields a configuration file must set, per group.
var mandatory = []struct {
	group  string
	fields []string
}{
	{"integration", []string{"time_step", "particle_count", "sub_steps_per_frame"}},
	{"force", []string{"softening", "coefficient", "boundary_strength", "velocity_damping"}},
	{"viewport", []string{"width", "height", "min_x", "max_x", "min_y", "max_y"}},
}

func DefaultConfig() *Config {
	return &Config{
		Integration: IntegrationConfig{
			TimeStep:         DefaultTimeStep,
			ParticleCount:    DefaultParticleCount,
			SubStepsPerFrame: DefaultSubStepsPerFrame,
		},
		Force: ForceConfig{
			Softening:        DefaultSoftening,
			Coefficient:      DefaultCoefficient,
			BoundaryStrength: DefaultBoundaryStrength,
			VelocityDamping:  DefaultVelocityDamping,
		},
		Viewport: ViewportConfig{
			Width:  DefaultWindowSize,
			Height: DefaultWindowSize,
			MinX:   -DefaultWorldExtent,
			MaxX:   DefaultWorldExtent,
			MinY:   -DefaultWorldExtent,
			MaxY:   DefaultWorldExtent,
		},
		Run: RunConfig{
			Layout:  "random",
			Stepper: "serial",
			Seed:    1,
			Frames:  DefaultFrames,
		},
	}
}

// Load reads a YAML or JSON (by extension) configuration file. Every field of
// the integration, force and viewport groups must be present; unknown fields
// are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	isJSON := strings.EqualFold(filepath.Ext(path), ".json")

	cfg := DefaultConfig()
	var present map[string]any
	if isJSON {
		err = decodeJSON(data, cfg, &present)
	} else {
		err = decodeYAML(data, cfg, &present)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := checkMandatory(present); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config, present *map[string]any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return yaml.Unmarshal(data, present)
}

func decodeJSON(data []byte, cfg *Config, present *map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return json.Unmarshal(data, present)
}

func checkMandatory(present map[string]any) error {
	var errs []error
	for _, g := range mandatory {
		group, _ := present[g.group].(map[string]any)
		for _, f := range g.fields {
			if _, ok := group[f]; !ok {
				errs = append(errs, fmt.Errorf("missing field %s.%s", g.group, f))
			}
		}
	}
	return errors.Join(errs...)
}

// LoadOrDefault loads path and falls back to the defaults, with a warning,
// when the file cannot be used.
func LoadOrDefault(path string, logger *log.Logger) *Config {
	cfg, err := Load(path)
	if err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Warn("using default configuration", "path", path, "err", err)
		return DefaultConfig()
	}
	return cfg
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	errs := []error{
		c.IntegrationParams().Validate(),
		c.ForceParams().Validate(),
		c.ViewportParams().Validate(),
	}
	if c.Run.Frames < 0 {
		errs = append(errs, fmt.Errorf("run.frames must be non-negative, got %d", c.Run.Frames))
	}
	return errors.Join(errs...)
}

func (c *Config) IntegrationParams() dynamo.IntegrationParams {
	return dynamo.IntegrationParams{
		TimeStep:         c.Integration.TimeStep,
		ParticleCount:    c.Integration.ParticleCount,
		SubStepsPerFrame: c.Integration.SubStepsPerFrame,
	}
}

func (c *Config) ForceParams() dynamo.ForceParams {
	return dynamo.ForceParams{
		Softening:        c.Force.Softening,
		Coefficient:      c.Force.Coefficient,
		BoundaryStrength: c.Force.BoundaryStrength,
		VelocityDamping:  c.Force.VelocityDamping,
	}
}

func (c *Config) ViewportParams() dynamo.Viewport {
	v := c.Viewport
	return dynamo.Viewport{Width: v.Width, Height: v.Height, MinX: v.MinX, MaxX: v.MaxX, MinY: v.MinY, MaxY: v.MaxY}
}

func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Integration = c.IntegrationParams()
	cfg.Force = c.ForceParams()
	cfg.Frames = c.Run.Frames
	return cfg
}

func (c *Config) ExperimentConfig() experiment.Config {
	return experiment.Config{
		Layout:  c.Run.Layout,
		Stepper: c.Run.Stepper,
		Workers: c.Run.Workers,
		Seed:    c.Run.Seed,
		Sim:     c.SimConfig(),
	}
}
