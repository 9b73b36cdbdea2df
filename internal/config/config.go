package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/episim/internal/dynamo"
)

const (
	DefaultAlpha            = 0.27
	DefaultBeta             = 0.043
	DefaultSigma            = 0.2
	DefaultPopulation       = 15000.0
	DefaultInfectedFraction = 0.03
	DefaultHorizon          = 150.0
	DefaultStepSize         = 0.1
	DefaultSamplesPerUnit   = 10
	DefaultTitle            = "Epidemic Evolution"
	DefaultTickX            = 10.0
	DefaultTickY            = 1000.0
)

// Config is the full parameter surface of one simulation run.
type Config struct {
	Model                   string     `yaml:"model"`
	Integrator              string     `yaml:"integrator"`
	Alpha                   float64    `yaml:"alpha"`
	Beta                    float64    `yaml:"beta"`
	Sigma                   float64    `yaml:"sigma"`
	Population              float64    `yaml:"population"`
	InitialInfectedFraction float64    `yaml:"initial_infected_fraction"`
	Horizon                 float64    `yaml:"horizon"`
	StepSize                float64    `yaml:"step_size"`
	SamplesPerUnit          int        `yaml:"samples_per_unit_time"`
	Plot                    PlotConfig `yaml:"plot"`
}

type PlotConfig struct {
	Title string  `yaml:"title"`
	TickX float64 `yaml:"tick_x"`
	TickY float64 `yaml:"tick_y"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:                   "sir",
		Integrator:              "rk4",
		Alpha:                   DefaultAlpha,
		Beta:                    DefaultBeta,
		Sigma:                   DefaultSigma,
		Population:              DefaultPopulation,
		InitialInfectedFraction: DefaultInfectedFraction,
		Horizon:                 DefaultHorizon,
		StepSize:                DefaultStepSize,
		SamplesPerUnit:          DefaultSamplesPerUnit,
		Plot: PlotConfig{
			Title: DefaultTitle,
			TickX: DefaultTickX,
			TickY: DefaultTickY,
		},
	}
}

// Load reads a yaml file on top of the defaults, so a file only needs the
// keys it changes.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver is Load with base in place of the defaults. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate rejects every parameter combination that would make the run
// meaningless before any integration happens.
func (c *Config) Validate() error {
	checks := []struct {
		name   string
		value  float64
		ok     bool
		reason string
	}{
		{"population", c.Population, c.Population > 0 && !math.IsInf(c.Population, 0), "must be positive and finite"},
		{"alpha", c.Alpha, c.Alpha >= 0, "must be non-negative"},
		{"beta", c.Beta, c.Beta >= 0, "must be non-negative"},
		{"sigma", c.Sigma, c.Sigma >= 0, "must be non-negative"},
		{"initial_infected_fraction", c.InitialInfectedFraction, c.InitialInfectedFraction >= 0 && c.InitialInfectedFraction <= 1, "must be in [0, 1]"},
		{"horizon", c.Horizon, c.Horizon > 0 && !math.IsInf(c.Horizon, 0), "must be positive and finite"},
		{"step_size", c.StepSize, c.StepSize > 0 && !math.IsInf(c.StepSize, 0), "must be positive and finite"},
		{"samples_per_unit_time", float64(c.SamplesPerUnit), c.SamplesPerUnit > 0, "must be positive"},
		{"plot.tick_x", c.Plot.TickX, c.Plot.TickX > 0 && !math.IsInf(c.Plot.TickX, 0), "must be positive and finite"},
		{"plot.tick_y", c.Plot.TickY, c.Plot.TickY > 0 && !math.IsInf(c.Plot.TickY, 0), "must be positive and finite"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return &dynamo.ParameterError{Name: chk.name, Value: chk.value, Reason: chk.reason}
		}
	}
	return c.Grid().Validate()
}

// Grid is the sampling grid described by the config.
func (c *Config) Grid() dynamo.Grid {
	return dynamo.Grid{Horizon: c.Horizon, SamplesPerUnit: c.SamplesPerUnit}
}

// SweepableParams lists the names accepted by Set.
var SweepableParams = []string{"alpha", "beta", "sigma", "population", "initial_infected_fraction"}

// Set assigns a model parameter by its yaml name. Step size and grid
// settings are not settable.
func (c *Config) Set(name string, v float64) error {
	switch name {
	case "alpha":
		c.Alpha = v
	case "beta":
		c.Beta = v
	case "sigma":
		c.Sigma = v
	case "population":
		c.Population = v
	case "initial_infected_fraction":
		c.InitialInfectedFraction = v
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	return nil
}

// ModelParams is the parameter map consumed by the model registry.
func (c *Config) ModelParams() map[string]float64 {
	return map[string]float64{
		"alpha":      c.Alpha,
		"beta":       c.Beta,
		"sigma":      c.Sigma,
		"population": c.Population,
	}
}
