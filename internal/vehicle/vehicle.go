package vehicle

import (
	"math"

	"github.com/san-kum/vehsim/internal/dynamo"
)

// State is the mutable longitudinal state. V must stay positive: the slip
// ratio divides by it.
type State struct {
	X     float64 // position, m
	V     float64 // velocity, m/s
	A     float64 // acceleration, m/s^2
	We    float64 // engine angular velocity, rad/s
	WeDot float64 // engine angular acceleration, rad/s^2
}

func InitialState() State {
	return State{
		X:  InitialPosition,
		V:  InitialVelocity,
		We: InitialEngineSpeed,
	}
}

type Vehicle struct {
	params Params
	state  State

	slip      float64
	loadForce float64
	tireForce float64
}

func New(p Params) *Vehicle {
	v := &Vehicle{params: p}
	v.Reset()
	return v
}

func NewDefault() *Vehicle {
	return New(DefaultParams())
}

// Reset restores the fixed initial condition.
func (v *Vehicle) Reset() {
	v.state = InitialState()
	v.slip = 0
	v.loadForce = 0
	v.tireForce = 0
}

// Step advances the model by one sample interval. throttle is expected in
// [0,1] and is not clamped; alpha is the road grade angle in radians.
//
// Position and velocity are integrated first with the acceleration of the
// previous tick, and only then are the forces recomputed from the updated
// velocity. Swapping the two halves gives a different scheme.
func (v *Vehicle) Step(throttle, alpha float64) {
	p := &v.params
	s := &v.state
	dt := p.SampleTime

	s.V += s.A * dt
	s.X += s.V * dt

	fAero := p.DragCoeff * s.V * s.V
	rx := p.RollingCoeff * s.V
	fg := p.Mass * p.Gravity * math.Sin(alpha)
	fLoad := fAero + rx + fg

	ww := p.GearRatio * s.We
	slip := (ww*p.WheelRadius - s.V) / s.V

	var fx float64
	if math.Abs(slip) < 1 {
		fx = p.TireStiffness * slip
	} else {
		fx = p.MaxTireForce
	}

	s.A = (fx - fLoad) / p.Mass

	te := throttle * (p.A0 + p.A1*s.We + p.A2*s.We*s.We)
	s.WeDot = (te - p.GearRatio*p.WheelRadius*fLoad) / p.EngineInertia
	s.We += s.WeDot * dt

	v.slip = slip
	v.loadForce = fLoad
	v.tireForce = fx
}

func (v *Vehicle) State() State          { return v.state }
func (v *Vehicle) Params() Params        { return v.params }
func (v *Vehicle) Position() float64     { return v.state.X }
func (v *Vehicle) Velocity() float64     { return v.state.V }
func (v *Vehicle) Acceleration() float64 { return v.state.A }
func (v *Vehicle) EngineSpeed() float64  { return v.state.We }
func (v *Vehicle) SampleTime() float64   { return v.params.SampleTime }
func (v *Vehicle) Slip() float64         { return v.slip }
func (v *Vehicle) LoadForce() float64    { return v.loadForce }
func (v *Vehicle) TireForce() float64    { return v.tireForce }

// Sample flattens the current state into a tick record.
func (v *Vehicle) Sample(t float64) dynamo.Sample {
	return dynamo.Sample{
		Time:         t,
		Position:     v.state.X,
		Velocity:     v.state.V,
		Acceleration: v.state.A,
		EngineSpeed:  v.state.We,
	}
}

func (v *Vehicle) GetParams() map[string]float64 {
	return v.params.Map()
}

func (v *Vehicle) SetParam(name string, value float64) error {
	return v.params.Set(name, value)
}
