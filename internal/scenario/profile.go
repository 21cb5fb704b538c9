package scenario

import (
	"math"
	"sort"
)

// ThrottleProfile gives the open-loop throttle at time t.
type ThrottleProfile interface {
	Throttle(t float64) float64
}

// GradeProfile gives the road grade angle (rad) at position x.
type GradeProfile interface {
	Grade(x float64) float64
}

type Breakpoint struct {
	T     float64 `yaml:"t"`
	Value float64 `yaml:"value"`
}

// Ramp interpolates linearly between breakpoints and holds the end values
// outside them.
type Ramp struct {
	Points []Breakpoint
}

func NewRamp(points ...Breakpoint) *Ramp {
	pts := make([]Breakpoint, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].T < pts[j].T })
	return &Ramp{Points: pts}
}

// DefaultRamp rises from 0.2 to 0.5 over 5 s, holds 0.5 until 15 s and
// falls to 0 at 20 s.
func DefaultRamp() *Ramp {
	return NewRamp(
		Breakpoint{T: 0, Value: 0.2},
		Breakpoint{T: 5, Value: 0.5},
		Breakpoint{T: 15, Value: 0.5},
		Breakpoint{T: 20, Value: 0},
	)
}

func (r *Ramp) Throttle(t float64) float64 {
	n := len(r.Points)
	if n == 0 {
		return 0
	}
	if t <= r.Points[0].T {
		return r.Points[0].Value
	}
	if t >= r.Points[n-1].T {
		return r.Points[n-1].Value
	}
	i := sort.Search(n, func(i int) bool { return r.Points[i].T > t })
	a, b := r.Points[i-1], r.Points[i]
	if b.T == a.T {
		return b.Value
	}
	return a.Value + (b.Value-a.Value)*(t-a.T)/(b.T-a.T)
}

type Constant float64

func (c Constant) Throttle(float64) float64 { return float64(c) }
func (c Constant) Grade(float64) float64    { return float64(c) }

// Section is a road segment starting at Start with a rise over run slope.
type Section struct {
	Start float64 `yaml:"start"`
	Rise  float64 `yaml:"rise"`
	Run   float64 `yaml:"run"`
}

func (s Section) Angle() float64 {
	if s.Run == 0 {
		return 0
	}
	return math.Atan(s.Rise / s.Run)
}

// Sections is a piecewise-constant grade; each section applies from its
// Start to the next section's Start. Positions before the first section
// are flat.
type Sections []Section

// DefaultHill is atan(3/60) below 60 m, atan(9/90) up to 150 m and flat
// beyond.
func DefaultHill() Sections {
	return Sections{
		{Start: math.Inf(-1), Rise: 3, Run: 60},
		{Start: 60, Rise: 9, Run: 90},
		{Start: 150, Rise: 0, Run: 1},
	}
}

func (s Sections) Grade(x float64) float64 {
	angle := 0.0
	for _, sec := range s {
		if x < sec.Start {
			break
		}
		angle = sec.Angle()
	}
	return angle
}
