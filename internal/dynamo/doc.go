// Package dynamo provides the shared primitives of the vehicle simulator.
//
// The package defines the types exchanged between the plant, the
// controller and the simulation harness:
//
//   - [Sample]: one simulated tick (plant state plus applied inputs)
//   - [Metric]: scalar summary accumulated over a run
//   - [Observer]: per-tick callback (live views, recorders)
//   - [Configurable]: runtime parameter tuning
//   - [Result]: the recorded trajectory of a run
//
// # Errors
//
// The numeric core (plant and controller) never returns errors: callers
// own input validity. Errors only surface at the harness boundary, as the
// sentinels in this package, usually wrapped in a [SimulationError]:
//
//	var simErr *dynamo.SimulationError
//	if errors.As(err, &simErr) && errors.Is(err, dynamo.ErrInvalidState) {
//	    fmt.Println("diverged at step", simErr.Step)
//	}
package dynamo
