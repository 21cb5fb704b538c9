package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a plant state holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrNoWaypoints indicates a closed-loop run without a path to track.
	ErrNoWaypoints = errors.New("dynamo: no waypoints to track")

	// ErrUnknownScenario indicates a scenario name missing from the registry.
	ErrUnknownScenario = errors.New("dynamo: unknown scenario")

	// ErrUnknownParam indicates a parameter name a Configurable does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Sample  Sample
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
