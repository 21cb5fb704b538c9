// Package vehicle implements a longitudinal vehicle dynamics model.
//
// The [Vehicle] couples engine rotation, a saturating slip-based tire force
// and aerodynamic, rolling and grade loads:
//
//	v := vehicle.NewDefault()
//	for i := 0; i < 2000; i++ {
//	    v.Step(0.5, 0) // throttle, road grade angle (rad)
//	}
//	fmt.Println(v.Position(), v.Velocity())
//
// # Integration Order
//
// Each [Vehicle.Step] first advances velocity and position with the
// acceleration of the previous tick and then recomputes forces from the new
// velocity. The one-tick lag is part of the model: trajectories are only
// reproducible if this order is kept.
//
// The model is forward-motion only. Velocity must stay positive, since the
// slip ratio divides by it, and throttle must be in [0,1]. Neither is
// checked.
package vehicle
