package dynamo

import "math"

// Sample is one simulated tick: the plant state after the step plus the
// inputs that produced it.
type Sample struct {
	Time         float64
	Position     float64
	Velocity     float64
	Acceleration float64
	EngineSpeed  float64
	Throttle     float64
	Brake        float64
	Steer        float64
	Grade        float64
	DesiredSpeed float64
}

func (s Sample) IsValid() bool {
	for _, v := range []float64{s.Position, s.Velocity, s.Acceleration, s.EngineSpeed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      20.0,
		ValidateState: true,
	}
}

// Steps is the number of ticks a run of cfg performs.
func (c Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Time
	}
	return out
}

func (r *Result) Positions() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Position
	}
	return out
}

func (r *Result) Velocities() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Velocity
	}
	return out
}

// TickStarts returns one sample per simulated tick: the state each tick
// started from. The state after the last tick is left out.
func (r *Result) TickStarts() []Sample {
	n := min(r.StepsTaken, len(r.Samples))
	return r.Samples[:n]
}

// CrossingTime returns the first sample time at which the position reaches x.
func (r *Result) CrossingTime(x float64) (float64, bool) {
	for _, s := range r.Samples {
		if s.Position >= x {
			return s.Time, true
		}
	}
	return 0, false
}
