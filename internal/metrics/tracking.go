package metrics

import (
	"math"

	"github.com/san-kum/vehsim/internal/dynamo"
)

// SpeedTracking is the RMS error between desired and actual speed over the
// ticks that carry a desired speed.
type SpeedTracking struct {
	name    string
	sumSq   float64
	samples int
}

func NewSpeedTracking() *SpeedTracking {
	return &SpeedTracking{name: "speed_rms_error"}
}

func (s *SpeedTracking) Name() string { return s.name }

func (s *SpeedTracking) Observe(smp dynamo.Sample) {
	if smp.DesiredSpeed == 0 {
		return
	}
	e := smp.DesiredSpeed - smp.Velocity
	s.sumSq += e * e
	s.samples++
}

func (s *SpeedTracking) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return math.Sqrt(s.sumSq / float64(s.samples))
}

func (s *SpeedTracking) Reset() {
	s.sumSq = 0
	s.samples = 0
}

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(s dynamo.Sample) {
	m.max = math.Max(m.max, s.Velocity)
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// Distance is the last observed position.
type Distance struct {
	last float64
}

func NewDistance() *Distance { return &Distance{} }

func (d *Distance) Name() string            { return "distance" }
func (d *Distance) Observe(s dynamo.Sample) { d.last = s.Position }
func (d *Distance) Value() float64          { return d.last }
func (d *Distance) Reset()                  { d.last = 0 }

// Defaults is the metric set attached to every CLI run.
func Defaults() []dynamo.Metric {
	return []dynamo.Metric{
		NewControlEffort(),
		NewSpeedTracking(),
		NewMaxSpeed(),
		NewDistance(),
	}
}
