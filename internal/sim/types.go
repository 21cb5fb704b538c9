package sim

import (
	"context"

	"github.com/san-kum/vehsim/internal/control"
	"github.com/san-kum/vehsim/internal/vehicle"
)

// Input is what a Driver applies to the plant for one tick.
type Input struct {
	Throttle     float64
	Brake        float64
	Steer        float64
	Grade        float64
	DesiredSpeed float64
}

// Driver decides the plant inputs for the tick starting at t from the
// plant state before the step. Reset is called at the start of every run.
type Driver interface {
	Drive(ctx context.Context, t float64, frame int, plant *vehicle.Vehicle) (Input, error)
	Reset()
}

// CommandSink receives every actuator command a closed-loop driver issues.
type CommandSink interface {
	Send(ctx context.Context, cmd control.Command) error
}
