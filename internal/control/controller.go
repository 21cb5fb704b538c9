package control

import (
	"fmt"

	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/path"
)

const (
	DefaultKp = 1.0
	DefaultKi = 0.2
	DefaultKd = 0.01
)

type Gains struct {
	Kp        float64 `yaml:"kp"`
	Ki        float64 `yaml:"ki"`
	Kd        float64 `yaml:"kd"`
	Wheelbase float64 `yaml:"wheelbase"`
}

func DefaultGains() Gains {
	return Gains{
		Kp:        DefaultKp,
		Ki:        DefaultKi,
		Kd:        DefaultKd,
		Wheelbase: DefaultWheelbase,
	}
}

// Controller tracks a waypoint path with a PID on speed and pure pursuit on
// heading. It is driven one tick at a time: UpdateValues, then
// UpdateControls, then Commands.
type Controller struct {
	waypoints path.Path

	x, y, yaw float64
	speed     float64
	timestamp float64
	frame     int
	started   bool

	pid     *PID
	pursuit PurePursuit
	cmd     Command

	desiredSpeed float64
	nearest      int
	prevSpeed    float64
}

func NewController(waypoints path.Path, g Gains) *Controller {
	return &Controller{
		waypoints: waypoints.Clone(),
		pid:       NewPID(g.Kp, g.Ki, g.Kd),
		pursuit:   NewPurePursuit(g.Wheelbase),
		nearest:   -1,
	}
}

// UpdateWaypoints swaps in a new path. The previous slice is never mutated.
func (c *Controller) UpdateWaypoints(waypoints path.Path) {
	c.waypoints = waypoints.Clone()
}

func (c *Controller) Waypoints() path.Path { return c.waypoints }

// UpdateValues records the latest measurement. The first call seeds the
// PID clock and starts the control loop.
func (c *Controller) UpdateValues(x, y, yaw, speed, timestamp float64, frame int) {
	c.x, c.y, c.yaw = x, y, yaw
	c.speed = speed
	c.timestamp = timestamp
	c.frame = frame

	if !c.started {
		c.pid.Seed(timestamp)
		c.prevSpeed = speed
		c.started = true
	}
}

// UpdateControls runs the control law for the last recorded measurement.
// It does nothing before the first UpdateValues or without waypoints.
func (c *Controller) UpdateControls() {
	if !c.started || len(c.waypoints) == 0 {
		return
	}

	c.nearest = c.waypoints.Nearest(c.x, c.y)
	c.desiredSpeed = c.waypoints.DesiredSpeed(c.x, c.y)

	acc := c.pid.Update(c.desiredSpeed-c.speed, c.timestamp)
	throttle, brake := Pedals(acc)
	c.cmd.SetThrottle(throttle)
	c.cmd.SetBrake(brake)

	if target, ok := c.waypoints.Lookahead(c.x, c.y); ok {
		c.cmd.SetSteer(c.pursuit.Steer(c.x, c.y, c.yaw, target))
	}

	c.prevSpeed = c.speed
}

// Commands returns the last computed actuator triple.
func (c *Controller) Commands() Command { return c.cmd }

func (c *Controller) Started() bool         { return c.started }
func (c *Controller) DesiredSpeed() float64 { return c.desiredSpeed }
func (c *Controller) NearestIndex() int     { return c.nearest }
func (c *Controller) PrevSpeed() float64    { return c.prevSpeed }
func (c *Controller) Frame() int            { return c.frame }
func (c *Controller) PID() *PID             { return c.pid }

// Gains returns the current gains, including any applied with SetParam.
func (c *Controller) Gains() Gains {
	return Gains{
		Kp:        c.pid.Kp,
		Ki:        c.pid.Ki,
		Kd:        c.pid.Kd,
		Wheelbase: c.pursuit.Wheelbase,
	}
}

func (c *Controller) GetParams() map[string]float64 {
	params := c.pid.GetParams()
	params["wheelbase"] = c.pursuit.Wheelbase
	return params
}

func (c *Controller) SetParam(name string, value float64) error {
	if name == "wheelbase" {
		if value <= 0 {
			return fmt.Errorf("%w: wheelbase must be positive, got %g", dynamo.ErrParameterBounds, value)
		}
		c.pursuit.Wheelbase = value
		return nil
	}
	return c.pid.SetParam(name, value)
}
