package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/sim"
)

const (
	DefaultSpanEndPi = 4.0
	DefaultPosition  = 0.0
	DefaultVelocity  = 1.0
	DefaultWorkers   = 4
)

// DefaultStepSizesPi is the reference sweep {0.1π, 0.01π, 0.001π} in
// multiples of π.
var DefaultStepSizesPi = []float64{0.1, 0.01, 0.001}

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the on-disk description of a sweep. Step sizes and the span
// end are written as multiples of π.
type Config struct {
	StepSizesPi []float64       `yaml:"step_sizes_pi"`
	Span        SpanConfig      `yaml:"span"`
	Initial     InitialConfig   `yaml:"initial"`
	Schemes     []dynamo.Scheme `yaml:"schemes"`
	Parallel    bool            `yaml:"parallel"`
	Workers     int             `yaml:"workers"`
}

type SpanConfig struct {
	Start float64 `yaml:"start"`
	EndPi float64 `yaml:"end_pi"`
}

type InitialConfig struct {
	Position float64 `yaml:"position"`
	Velocity float64 `yaml:"velocity"`
}

func DefaultConfig() *Config {
	steps := make([]float64, len(DefaultStepSizesPi))
	copy(steps, DefaultStepSizesPi)
	schemes := make([]dynamo.Scheme, len(dynamo.Schemes))
	copy(schemes, dynamo.Schemes)

	return &Config{
		StepSizesPi: steps,
		Span:        SpanConfig{Start: 0, EndPi: DefaultSpanEndPi},
		Initial:     InitialConfig{Position: DefaultPosition, Velocity: DefaultVelocity},
		Schemes:     schemes,
		Workers:     DefaultWorkers,
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base, e.g. a preset. base is
// not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) clone() *Config {
	out := *c
	out.StepSizesPi = append([]float64(nil), c.StepSizesPi...)
	out.Schemes = append([]dynamo.Scheme(nil), c.Schemes...)
	return &out
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if len(c.StepSizesPi) == 0 {
		return fmt.Errorf("%w: no step sizes", ErrInvalidConfig)
	}
	seen := make(map[float64]bool, len(c.StepSizesPi))
	for _, s := range c.StepSizesPi {
		if !(s > 0) || math.IsInf(s, 0) {
			return fmt.Errorf("%w: step size %gπ must be positive and finite", ErrInvalidConfig, s)
		}
		if seen[s] {
			return fmt.Errorf("%w: duplicate step size %gπ", ErrInvalidConfig, s)
		}
		seen[s] = true
	}
	if len(c.Schemes) == 0 {
		return fmt.Errorf("%w: no schemes", ErrInvalidConfig)
	}
	for _, s := range c.Schemes {
		if !s.Valid() {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, dynamo.ErrUnknownScheme)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	rc := c.RunConfig()
	for _, h := range c.StepSizes() {
		if err := rc.Validate(h); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// StepSizes returns the sweep in absolute time units.
func (c *Config) StepSizes() []float64 {
	out := make([]float64, len(c.StepSizesPi))
	for i, s := range c.StepSizesPi {
		out[i] = s * math.Pi
	}
	return out
}

func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		Initial: dynamo.Sample{Position: c.Initial.Position, Velocity: c.Initial.Velocity},
		Span:    dynamo.Span{Start: c.Span.Start, End: c.Span.EndPi * math.Pi},
	}
}

func (c *Config) SweepConfig() sim.SweepConfig {
	return sim.SweepConfig{
		Run:       c.RunConfig(),
		StepSizes: c.StepSizes(),
		Parallel:  c.Parallel,
		Workers:   c.Workers,
	}
}
