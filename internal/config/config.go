package config

import (
	"fmt"
	"os"

	"github.com/san-kum/vehsim/internal/control"
	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/scenario"
	"github.com/san-kum/vehsim/internal/vehicle"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScenario    = "ramp"
	DefaultDt          = vehicle.DefaultSampleTime
	DefaultDuration    = 20.0
	DefaultTargetSpeed = 12.0
	DefaultThrottle    = 0.5
)

type Config struct {
	Scenario      string         `yaml:"scenario"`
	Dt            float64        `yaml:"dt"`
	Duration      float64        `yaml:"duration"`
	Vehicle       vehicle.Params `yaml:"vehicle"`
	Controller    control.Gains  `yaml:"controller"`
	Profile       ProfileConfig  `yaml:"profile"`
	WaypointsFile string         `yaml:"waypoints_file,omitempty"`
	TargetSpeed   float64        `yaml:"target_speed"`
}

// ProfileConfig describes the open-loop inputs and the road. An empty Ramp
// falls back to the default ramp, an empty Grade to a flat road.
type ProfileConfig struct {
	Throttle float64               `yaml:"throttle"`
	Ramp     []scenario.Breakpoint `yaml:"ramp,omitempty"`
	Grade    scenario.Sections     `yaml:"grade,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:    DefaultScenario,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Vehicle:     vehicle.DefaultParams(),
		Controller:  control.DefaultGains(),
		TargetSpeed: DefaultTargetSpeed,
		Profile: ProfileConfig{
			Throttle: DefaultThrottle,
			Ramp:     scenario.DefaultRamp().Points,
			Grade:    scenario.DefaultHill(),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrParameterBounds, c.Duration)
	}
	if c.Controller.Wheelbase <= 0 {
		return fmt.Errorf("%w: wheelbase must be positive, got %g", dynamo.ErrParameterBounds, c.Controller.Wheelbase)
	}
	return c.VehicleParams().Validate()
}

// VehicleParams returns the plant parameters with the sample time taken from
// the run's dt so the plant and the harness share one step.
func (c *Config) VehicleParams() vehicle.Params {
	p := c.Vehicle
	p.SampleTime = c.Dt
	return p
}

func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		ValidateState: true,
	}
}

func (c *Config) ThrottleRamp() *scenario.Ramp {
	if len(c.Profile.Ramp) == 0 {
		return scenario.DefaultRamp()
	}
	return scenario.NewRamp(c.Profile.Ramp...)
}

// Road returns the configured grade profile; nil means flat.
func (c *Config) Road() scenario.GradeProfile {
	if len(c.Profile.Grade) == 0 {
		return nil
	}
	return c.Profile.Grade
}

func (c *Config) Clone() *Config {
	out := *c
	out.Profile.Ramp = append([]scenario.Breakpoint(nil), c.Profile.Ramp...)
	out.Profile.Grade = append(scenario.Sections(nil), c.Profile.Grade...)
	return &out
}

// settings maps the run and controller keys onto their fields. The
// plant's sample_time is the run's dt: VehicleParams copies Dt over it.
func (c *Config) settings() map[string]*float64 {
	return map[string]*float64{
		"dt":           &c.Dt,
		"sample_time":  &c.Dt,
		"duration":     &c.Duration,
		"target_speed": &c.TargetSpeed,
		"throttle":     &c.Profile.Throttle,
		"kp":           &c.Controller.Kp,
		"ki":           &c.Controller.Ki,
		"kd":           &c.Controller.Kd,
		"wheelbase":    &c.Controller.Wheelbase,
	}
}

// SetParam assigns a run, controller or vehicle setting by key. It backs the
// sweep, tuning and batch tools.
func (c *Config) SetParam(name string, value float64) error {
	if field, ok := c.settings()[name]; ok {
		*field = value
		return nil
	}
	return c.Vehicle.Set(name, value)
}

// GetParam reads a setting by any key SetParam accepts.
func (c *Config) GetParam(name string) (float64, error) {
	if field, ok := c.settings()[name]; ok {
		return *field, nil
	}
	v, ok := c.Vehicle.Map()[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return v, nil
}

// Params returns every setting keyed as SetParam expects.
func (c *Config) Params() map[string]float64 {
	out := c.Vehicle.Map()
	for name, field := range c.settings() {
		out[name] = *field
	}
	return out
}
