// Package control provides the trajectory-tracking controller.
//
// A [Controller] combines two laws evaluated once per tick:
//
//   - [PID]: longitudinal speed control; the desired acceleration is mapped
//     to throttle or brake through tanh ([Pedals])
//   - [PurePursuit]: lateral steering toward the waypoint after the nearest
//
// # Usage
//
//	c := control.NewController(waypoints, control.DefaultGains())
//	for each tick {
//	    c.UpdateValues(x, y, yaw, speed, t, frame)
//	    c.UpdateControls()
//	    cmd := c.Commands()
//	}
//
// Actuator outputs saturate ([Command] setters clamp) rather than fail.
// Controllers implement [dynamo.Configurable] for live tuning.
package control
