package control

import "github.com/samber/lo"

// Command is the actuator triple sent to the vehicle each tick.
type Command struct {
	Throttle float64 `json:"throttle"`
	Brake    float64 `json:"brake"`
	Steer    float64 `json:"steer"`
}

// Out-of-range values saturate instead of failing.
func (c *Command) SetThrottle(v float64) { c.Throttle = lo.Clamp(v, 0, 1) }
func (c *Command) SetBrake(v float64)    { c.Brake = lo.Clamp(v, 0, 1) }
func (c *Command) SetSteer(v float64)    { c.Steer = lo.Clamp(v, -1, 1) }
