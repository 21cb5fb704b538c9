package analysis

import "math"

// DefaultBand is the settling band as a fraction of the step size.
const DefaultBand = 0.02

type StepResponse struct {
	Initial float64
	Target  float64

	// RiseTime is the 10% to 90% time; NaN if the trace never reaches 90%.
	RiseTime float64
	// Overshoot is the peak excursion past the target as a fraction of the
	// step size.
	Overshoot float64
	PeakTime  float64
	// SettlingTime is the first time after which the trace stays inside the
	// band; NaN if it does not settle.
	SettlingTime     float64
	Settled          bool
	SteadyStateError float64
}

// AnalyzeStep measures the response of values (sampled at times) to a step
// from values[0] to target. band is the settling band as a fraction of the
// step size.
func AnalyzeStep(times, values []float64, target, band float64) StepResponse {
	r := StepResponse{Target: target, RiseTime: math.NaN(), SettlingTime: math.NaN()}
	n := min(len(times), len(values))
	if n == 0 {
		return r
	}

	r.Initial = values[0]
	step := target - r.Initial
	r.SteadyStateError = target - values[n-1]
	if step == 0 {
		r.RiseTime, r.SettlingTime, r.Settled = 0, 0, true
		return r
	}

	// progress is the fraction of the step covered, positive toward target
	progress := func(v float64) float64 { return (v - r.Initial) / step }

	t10, t90 := math.NaN(), math.NaN()
	peak := math.Inf(-1)
	for i := 0; i < n; i++ {
		p := progress(values[i])
		if math.IsNaN(t10) && p >= 0.1 {
			t10 = times[i]
		}
		if math.IsNaN(t90) && p >= 0.9 {
			t90 = times[i]
		}
		if p > peak {
			peak = p
			r.PeakTime = times[i]
		}
	}
	if !math.IsNaN(t90) {
		r.RiseTime = t90 - t10
	}
	r.Overshoot = math.Max(0, peak-1)

	last := -1
	for i := 0; i < n; i++ {
		if math.Abs(values[i]-target) > band*math.Abs(step) {
			last = i
		}
	}
	switch {
	case last == -1:
		r.SettlingTime, r.Settled = times[0], true
	case last < n-1:
		r.SettlingTime, r.Settled = times[last+1], true
	}
	return r
}
