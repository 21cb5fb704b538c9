package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/vehsim/internal/config"
	"github.com/san-kum/vehsim/internal/control"
	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/metrics"
	"github.com/san-kum/vehsim/internal/path"
	"github.com/san-kum/vehsim/internal/scenario"
	"github.com/san-kum/vehsim/internal/sim"
)

// waypointSpacing is the distance between generated waypoints when a track
// run has no waypoint file.
const waypointSpacing = 10.0

// DriverFactory builds a fresh driver for one run. sink may be nil.
type DriverFactory func(cfg *config.Config, sink sim.CommandSink) (sim.Driver, error)

type Registry struct {
	scenarios    map[string]DriverFactory
	descriptions map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios:    make(map[string]DriverFactory),
		descriptions: make(map[string]string),
	}

	r.Register("ramp", "open-loop throttle ramp over the road profile", func(cfg *config.Config, _ sim.CommandSink) (sim.Driver, error) {
		return sim.NewOpenLoop(cfg.ThrottleRamp(), cfg.Road()), nil
	})
	r.Register("coast", "zero throttle from the initial state", func(cfg *config.Config, _ sim.CommandSink) (sim.Driver, error) {
		return sim.NewOpenLoop(scenario.Constant(0), cfg.Road()), nil
	})
	r.Register("cruise", "constant throttle until terminal velocity", func(cfg *config.Config, _ sim.CommandSink) (sim.Driver, error) {
		return sim.NewOpenLoop(scenario.Constant(cfg.Profile.Throttle), cfg.Road()), nil
	})
	r.Register("track", "PID speed and pure pursuit along waypoints", func(cfg *config.Config, sink sim.CommandSink) (sim.Driver, error) {
		waypoints, err := Waypoints(cfg)
		if err != nil {
			return nil, err
		}
		c := control.NewController(waypoints, cfg.Controller)
		return sim.NewClosedLoop(c, cfg.Road(), sink), nil
	})

	return r
}

func (r *Registry) Register(name, description string, factory DriverFactory) {
	r.scenarios[name] = factory
	r.descriptions[name] = description
}

func (r *Registry) GetDriver(cfg *config.Config, sink sim.CommandSink) (sim.Driver, error) {
	fn, ok := r.scenarios[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownScenario, cfg.Scenario)
	}
	return fn(cfg, sink)
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Describe(name string) string {
	return r.descriptions[name]
}

// DefaultMetrics is the metric set attached to a run of scn. Speed tracking
// is part of every set and reads zero for open-loop scenarios.
func (r *Registry) DefaultMetrics(scn string) []dynamo.Metric {
	return metrics.Defaults()
}

// Waypoints loads the configured waypoint file, or lays a straight path at
// the target speed long enough for the whole run.
func Waypoints(cfg *config.Config) (path.Path, error) {
	if cfg.WaypointsFile != "" {
		wps, err := path.LoadFile(cfg.WaypointsFile)
		if err != nil {
			return nil, err
		}
		if len(wps) == 0 {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrNoWaypoints, cfg.WaypointsFile)
		}
		return wps, nil
	}
	if cfg.TargetSpeed <= 0 {
		return nil, fmt.Errorf("%w: target speed must be positive, got %g", dynamo.ErrParameterBounds, cfg.TargetSpeed)
	}
	length := 1.5*cfg.TargetSpeed*cfg.Duration + 100
	n := int(length/waypointSpacing) + 1
	return path.Straight(0, float64(n-1)*waypointSpacing, cfg.TargetSpeed, n), nil
}
