package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/vehicle"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "sim")

type Simulator struct {
	plant     *vehicle.Vehicle
	driver    Driver
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(plant *vehicle.Vehicle, driver Driver) *Simulator {
	return &Simulator{
		plant:     plant,
		driver:    driver,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Plant() *vehicle.Vehicle       { return s.plant }

// Run resets the plant and steps it for cfg.Duration. The returned result
// starts with the initial state at t=0 and holds one sample per tick after
// it. On cancellation the partial result is returned with the context error.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &dynamo.Result{
		Samples: make([]dynamo.Sample, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.plant.Reset()
	s.driver.Reset()
	result.Samples = append(result.Samples, s.plant.Sample(0))

	log.WithFields(logrus.Fields{"steps": steps, "dt": cfg.Dt}).Debug("run started")

	err := s.loop(ctx, cfg, steps, func(sample dynamo.Sample) bool {
		result.Samples = append(result.Samples, sample)
		result.StepsTaken++
		return true
	})
	if err != nil {
		var simErr *dynamo.SimulationError
		if !errors.As(err, &simErr) {
			return result, err
		}
		result.Errors = append(result.Errors, err)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.WithFields(logrus.Fields{"steps": result.StepsTaken, "errors": len(result.Errors)}).Debug("run finished")
	return result, nil
}

// RunWithCallback streams samples to callback until the run ends or the
// callback returns false. Metrics and observers are fed as in Run.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg dynamo.Config, callback func(dynamo.Sample) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	s.plant.Reset()
	s.driver.Reset()
	if !callback(s.plant.Sample(0)) {
		return nil
	}
	return s.loop(ctx, cfg, cfg.Steps(), callback)
}

func (s *Simulator) loop(ctx context.Context, cfg dynamo.Config, steps int, emit func(dynamo.Sample) bool) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		t := float64(i) * cfg.Dt
		in, err := s.driver.Drive(ctx, t, i, s.plant)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		s.plant.Step(in.Throttle, in.Grade)

		sample := s.plant.Sample(float64(i+1) * cfg.Dt)
		sample.Throttle = in.Throttle
		sample.Brake = in.Brake
		sample.Steer = in.Steer
		sample.Grade = in.Grade
		sample.DesiredSpeed = in.DesiredSpeed

		if cfg.ValidateState && !sample.IsValid() {
			log.WithField("step", i).Warn("plant state diverged")
			return &dynamo.SimulationError{Step: i, Time: t, Sample: sample, Wrapped: dynamo.ErrInvalidState}
		}

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}

		if !emit(sample) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) validateConfig(cfg dynamo.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if math.Abs(cfg.Dt-s.plant.SampleTime()) > 1e-12 {
		return fmt.Errorf("%w: dt %g differs from plant sample time %g",
			dynamo.ErrParameterBounds, cfg.Dt, s.plant.SampleTime())
	}
	return nil
}
