package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/vehsim/internal/control"
	"github.com/san-kum/vehsim/internal/scenario"
	"github.com/san-kum/vehsim/internal/vehicle"
)

// OpenLoop replays a throttle schedule over a road profile.
type OpenLoop struct {
	Throttle scenario.ThrottleProfile
	Road     scenario.GradeProfile
}

func NewOpenLoop(throttle scenario.ThrottleProfile, road scenario.GradeProfile) *OpenLoop {
	return &OpenLoop{Throttle: throttle, Road: road}
}

func (o *OpenLoop) Reset() {}

func (o *OpenLoop) Drive(_ context.Context, t float64, _ int, plant *vehicle.Vehicle) (Input, error) {
	in := Input{Throttle: o.Throttle.Throttle(t)}
	if o.Road != nil {
		in.Grade = o.Road.Grade(plant.Position())
	}
	return in, nil
}

// ClosedLoop lets the tracking controller drive the plant along the x-axis.
// The plant has no brake input: a braking command coasts with zero
// throttle.
type ClosedLoop struct {
	Controller *control.Controller
	Road       scenario.GradeProfile
	Sink       CommandSink
}

func NewClosedLoop(c *control.Controller, road scenario.GradeProfile, sink CommandSink) *ClosedLoop {
	return &ClosedLoop{Controller: c, Road: road, Sink: sink}
}

// Reset replaces the controller with a fresh one on the same waypoints and
// gains, dropping the integral and the previous sample.
func (c *ClosedLoop) Reset() {
	c.Controller = control.NewController(c.Controller.Waypoints(), c.Controller.Gains())
}

func (c *ClosedLoop) Drive(ctx context.Context, t float64, frame int, plant *vehicle.Vehicle) (Input, error) {
	c.Controller.UpdateValues(plant.Position(), 0, 0, plant.Velocity(), t, frame)
	c.Controller.UpdateControls()
	cmd := c.Controller.Commands()

	if c.Sink != nil {
		if err := c.Sink.Send(ctx, cmd); err != nil {
			return Input{}, fmt.Errorf("send command: %w", err)
		}
	}

	in := Input{
		Throttle:     cmd.Throttle,
		Brake:        cmd.Brake,
		Steer:        cmd.Steer,
		DesiredSpeed: c.Controller.DesiredSpeed(),
	}
	if c.Road != nil {
		in.Grade = c.Road.Grade(plant.Position())
	}
	return in, nil
}
