package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/vehsim/internal/config"
	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/sim"
	"github.com/san-kum/vehsim/internal/vehicle"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "experiment")

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the config and builds the plant, the scenario's driver and
// the default metrics. sink receives closed-loop commands and may be nil.
func (e *Experiment) Setup(r *Registry, sink sim.CommandSink) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	plant := vehicle.New(e.cfg.VehicleParams())
	driver, err := r.GetDriver(e.cfg, sink)
	if err != nil {
		return err
	}

	e.simulator = sim.New(plant, driver)
	for _, m := range r.DefaultMetrics(e.cfg.Scenario) {
		e.simulator.AddMetric(m)
	}

	log.WithFields(logrus.Fields{
		"scenario": e.cfg.Scenario,
		"dt":       e.cfg.Dt,
		"duration": e.cfg.Duration,
	}).Debug("experiment ready")
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

func (e *Experiment) Stream(ctx context.Context, callback func(dynamo.Sample) bool) error {
	if e.simulator == nil {
		return fmt.Errorf("experiment not setup")
	}
	return e.simulator.RunWithCallback(ctx, e.cfg.SimConfig(), callback)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
