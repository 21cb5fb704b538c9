package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/vehsim/internal/dynamo"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(dynamo.Sample{Throttle: 0.5})
	m.Observe(dynamo.Sample{Brake: 0.3})

	if math.Abs(m.Value()-0.4) > 1e-12 {
		t.Errorf("expected 0.4, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestSpeedTracking(t *testing.T) {
	m := NewSpeedTracking()
	m.Observe(dynamo.Sample{DesiredSpeed: 10, Velocity: 7})
	m.Observe(dynamo.Sample{DesiredSpeed: 10, Velocity: 14})
	m.Observe(dynamo.Sample{Velocity: 100})

	expected := math.Sqrt((9.0 + 16.0) / 2)
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected %f, got %f", expected, m.Value())
	}
}

func TestMaxSpeedAndDistance(t *testing.T) {
	ms := NewMaxSpeed()
	d := NewDistance()
	for _, s := range []dynamo.Sample{
		{Position: 1, Velocity: 5},
		{Position: 2, Velocity: 9},
		{Position: 3, Velocity: 4},
	} {
		ms.Observe(s)
		d.Observe(s)
	}

	if ms.Value() != 9 {
		t.Errorf("expected max speed 9, got %f", ms.Value())
	}
	if d.Value() != 3 {
		t.Errorf("expected distance 3, got %f", d.Value())
	}
}

func TestDefaultsUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
