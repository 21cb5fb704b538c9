package vehicle

import (
	"fmt"

	"github.com/san-kum/vehsim/internal/dynamo"
)

const (
	DefaultGravity    = 9.81
	DefaultSampleTime = 0.01

	InitialPosition    = 0.0
	InitialVelocity    = 5.0
	InitialEngineSpeed = 100.0
)

// Params holds the physical constants of the longitudinal model.
type Params struct {
	// Engine torque map coefficients: Te = throttle*(A0 + A1*we + A2*we^2).
	A0 float64 `yaml:"a0"`
	A1 float64 `yaml:"a1"`
	A2 float64 `yaml:"a2"`

	GearRatio     float64 `yaml:"gear_ratio"`
	WheelRadius   float64 `yaml:"wheel_radius"`
	EngineInertia float64 `yaml:"engine_inertia"`
	Mass          float64 `yaml:"mass"`
	Gravity       float64 `yaml:"gravity"`

	DragCoeff     float64 `yaml:"drag_coeff"`
	RollingCoeff  float64 `yaml:"rolling_coeff"`
	TireStiffness float64 `yaml:"tire_stiffness"`
	MaxTireForce  float64 `yaml:"max_tire_force"`

	SampleTime float64 `yaml:"sample_time"`
}

func DefaultParams() Params {
	return Params{
		A0:            400,
		A1:            0.1,
		A2:            -0.0002,
		GearRatio:     0.35,
		WheelRadius:   0.3,
		EngineInertia: 10,
		Mass:          2000,
		Gravity:       DefaultGravity,
		DragCoeff:     1.36,
		RollingCoeff:  0.01,
		TireStiffness: 10000,
		MaxTireForce:  10000,
		SampleTime:    DefaultSampleTime,
	}
}

// Validate reports parameters the model cannot integrate with. Step itself
// never validates; this is for configuration loaders.
func (p Params) Validate() error {
	positive := map[string]float64{
		"gear_ratio":     p.GearRatio,
		"wheel_radius":   p.WheelRadius,
		"engine_inertia": p.EngineInertia,
		"mass":           p.Mass,
		"sample_time":    p.SampleTime,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", dynamo.ErrParameterBounds, name, v)
		}
	}
	nonNegative := map[string]float64{
		"gravity":        p.Gravity,
		"drag_coeff":     p.DragCoeff,
		"rolling_coeff":  p.RollingCoeff,
		"tire_stiffness": p.TireStiffness,
		"max_tire_force": p.MaxTireForce,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %g", dynamo.ErrParameterBounds, name, v)
		}
	}
	return nil
}

func (p Params) Map() map[string]float64 {
	return map[string]float64{
		"a0":             p.A0,
		"a1":             p.A1,
		"a2":             p.A2,
		"gear_ratio":     p.GearRatio,
		"wheel_radius":   p.WheelRadius,
		"engine_inertia": p.EngineInertia,
		"mass":           p.Mass,
		"gravity":        p.Gravity,
		"drag_coeff":     p.DragCoeff,
		"rolling_coeff":  p.RollingCoeff,
		"tire_stiffness": p.TireStiffness,
		"max_tire_force": p.MaxTireForce,
		"sample_time":    p.SampleTime,
	}
}

// Set assigns a parameter by its yaml key.
func (p *Params) Set(name string, value float64) error {
	switch name {
	case "a0":
		p.A0 = value
	case "a1":
		p.A1 = value
	case "a2":
		p.A2 = value
	case "gear_ratio":
		p.GearRatio = value
	case "wheel_radius":
		p.WheelRadius = value
	case "engine_inertia":
		p.EngineInertia = value
	case "mass":
		p.Mass = value
	case "gravity":
		p.Gravity = value
	case "drag_coeff":
		p.DragCoeff = value
	case "rolling_coeff":
		p.RollingCoeff = value
	case "tire_stiffness":
		p.TireStiffness = value
	case "max_tire_force":
		p.MaxTireForce = value
	case "sample_time":
		p.SampleTime = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
