package control

import (
	"fmt"
	"math"

	"github.com/san-kum/vehsim/internal/dynamo"
)

// PID is a longitudinal speed controller producing a desired acceleration.
// The integral is not clamped.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{
		Kp:    kp,
		Ki:    ki,
		Kd:    kd,
		first: true,
	}
}

// Seed fixes the time the first interval is measured from.
func (p *PID) Seed(t float64) {
	p.prevT = t
	p.first = false
}

// Update returns Kp*e + Ki*∫e + Kd*de/dt for error e sampled at t. While no
// time has elapsed since the previous sample only the proportional term is
// applied.
func (p *PID) Update(err, t float64) float64 {
	if p.first {
		p.Seed(t)
	}

	u := p.Kp * err
	dt := t - p.prevT
	if dt > 0 {
		p.integral += err * dt
		derivative := (err - p.prevErr) / dt
		u += p.Ki*p.integral + p.Kd*derivative
	}

	p.prevErr = err
	p.prevT = t
	return u
}

func (p *PID) Integral() float64  { return p.integral }
func (p *PID) PrevError() float64 { return p.prevErr }
func (p *PID) PrevTime() float64  { return p.prevT }

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp": p.Kp,
		"ki": p.Ki,
		"kd": p.Kd,
	}
}

// SetParam adjusts a PID gain
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

// Pedals maps a desired acceleration onto mutually exclusive throttle and
// brake positions through tanh.
func Pedals(acc float64) (throttle, brake float64) {
	if acc > 0 {
		return math.Tanh(acc), 0
	}
	return 0, math.Tanh(math.Abs(acc))
}
