package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/vehsim/internal/control"
	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/path"
	"github.com/san-kum/vehsim/internal/scenario"
	"github.com/san-kum/vehsim/internal/vehicle"
)

type testDriver struct {
	throttle float64
}

func (d *testDriver) Reset() {}

func (d *testDriver) Drive(_ context.Context, _ float64, _ int, _ *vehicle.Vehicle) (Input, error) {
	return Input{Throttle: d.throttle}, nil
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s dynamo.Sample) {
	t.count++
	t.sum += s.Velocity
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type failingSink struct{}

func (failingSink) Send(context.Context, control.Command) error {
	return errors.New("bus off")
}

func TestSimulatorRun(t *testing.T) {
	sim := New(vehicle.NewDefault(), &testDriver{throttle: 0.3})

	cfg := dynamo.Config{Dt: 0.01, Duration: 1.0}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 101 {
		t.Errorf("expected 101 samples, got %d", len(result.Samples))
	}
	if result.StepsTaken != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsTaken)
	}

	first := result.Samples[0]
	if first.Time != 0 || first.Position != 0 || first.Velocity != vehicle.InitialVelocity {
		t.Errorf("unexpected initial sample %+v", first)
	}

	last := result.Samples[len(result.Samples)-1]
	if math.Abs(last.Time-1.0) > 1e-12 {
		t.Errorf("expected final time 1.0, got %f", last.Time)
	}
	if last.Throttle != 0.3 {
		t.Errorf("expected recorded throttle 0.3, got %f", last.Throttle)
	}

	ticks := result.TickStarts()
	if len(ticks) != 100 {
		t.Errorf("expected 100 tick rows, got %d", len(ticks))
	}
	if math.Abs(ticks[len(ticks)-1].Time-0.99) > 1e-12 {
		t.Errorf("expected last tick at 0.99, got %f", ticks[len(ticks)-1].Time)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(vehicle.NewDefault(), &testDriver{})

	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"zero dt", dynamo.Config{Dt: 0, Duration: 1.0}},
		{"negative dt", dynamo.Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", dynamo.Config{Dt: 0.01, Duration: 0}},
		{"negative duration", dynamo.Config{Dt: 0.01, Duration: -1.0}},
		{"dt mismatch", dynamo.Config{Dt: 0.1, Duration: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(vehicle.NewDefault(), &testDriver{throttle: 0.5})
	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), dynamo.Config{Dt: 0.01, Duration: 0.5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 50 {
		t.Errorf("expected 50 observations, got %d", metric.count)
	}
}

func TestSimulatorRepeatable(t *testing.T) {
	sim := New(vehicle.NewDefault(), NewOpenLoop(scenario.DefaultRamp(), scenario.DefaultHill()))
	cfg := dynamo.Config{Dt: 0.01, Duration: 5}

	a, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("runs differ at sample %d", i)
		}
	}
}

func TestSimulatorRepeatableClosedLoop(t *testing.T) {
	c := control.NewController(path.Straight(0, 300, 12, 31), control.DefaultGains())
	sim := New(vehicle.NewDefault(), NewClosedLoop(c, scenario.DefaultHill(), nil))
	cfg := dynamo.Config{Dt: 0.01, Duration: 10}

	a, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(a.Samples) != len(b.Samples) {
		t.Fatalf("expected %d samples, got %d", len(a.Samples), len(b.Samples))
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("runs differ at sample %d: %+v vs %+v", i, a.Samples[i], b.Samples[i])
		}
	}
}

func TestClosedLoopResetKeepsGains(t *testing.T) {
	c := control.NewController(path.Straight(0, 100, 10, 11), control.DefaultGains())
	if err := c.SetParam("kp", 3); err != nil {
		t.Fatalf("set kp failed: %v", err)
	}
	cl := NewClosedLoop(c, nil, nil)

	if _, err := cl.Drive(context.Background(), 0, 0, vehicle.NewDefault()); err != nil {
		t.Fatalf("drive failed: %v", err)
	}
	if !cl.Controller.Started() {
		t.Fatal("expected the controller to be started after a tick")
	}

	cl.Reset()
	if cl.Controller.Started() || cl.Controller.PID().Integral() != 0 {
		t.Error("expected a fresh controller after reset")
	}
	if cl.Controller.Gains().Kp != 3 {
		t.Errorf("expected kp 3 after reset, got %f", cl.Controller.Gains().Kp)
	}
	if len(cl.Controller.Waypoints()) != 11 {
		t.Errorf("expected 11 waypoints after reset, got %d", len(cl.Controller.Waypoints()))
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim := New(vehicle.NewDefault(), &testDriver{throttle: 0.5})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, dynamo.Config{Dt: 0.01, Duration: 1})
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Fatalf("expected ErrContextCanceled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
	if result == nil || len(result.Samples) != 1 {
		t.Errorf("expected partial result with the initial sample")
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	sim := New(vehicle.NewDefault(), &testDriver{throttle: math.NaN()})

	result, err := sim.Run(context.Background(), dynamo.Config{Dt: 0.01, Duration: 1, ValidateState: true})
	if err != nil {
		t.Fatalf("run should record the failure, got %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}

	var simErr *dynamo.SimulationError
	if !errors.As(result.Errors[0], &simErr) || !errors.Is(simErr, dynamo.ErrInvalidState) {
		t.Errorf("expected SimulationError wrapping ErrInvalidState, got %v", result.Errors[0])
	}
	if simErr.Step != 0 {
		t.Errorf("expected failure at step 0, got %d", simErr.Step)
	}
}

func TestClosedLoopSinkError(t *testing.T) {
	c := control.NewController(path.Straight(0, 100, 10, 11), control.DefaultGains())
	sim := New(vehicle.NewDefault(), NewClosedLoop(c, nil, failingSink{}))

	_, err := sim.Run(context.Background(), dynamo.Config{Dt: 0.01, Duration: 1})
	if err == nil {
		t.Fatal("expected sink error to abort the run")
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	sim := New(vehicle.NewDefault(), &testDriver{throttle: 0.5})

	n := 0
	err := sim.RunWithCallback(context.Background(), dynamo.Config{Dt: 0.01, Duration: 1}, func(dynamo.Sample) bool {
		n++
		return n < 10
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n != 10 {
		t.Errorf("expected 10 callbacks, got %d", n)
	}
}
