package control

import (
	"math"

	"github.com/san-kum/vehsim/internal/path"
)

// RadToSteer converts a wheel angle to the normalized steer command, where
// ±1 corresponds to ±70 degrees.
const RadToSteer = 180.0 / 70.0 / math.Pi

const DefaultWheelbase = 3.0

type PurePursuit struct {
	Wheelbase float64
}

func NewPurePursuit(wheelbase float64) PurePursuit {
	return PurePursuit{Wheelbase: wheelbase}
}

// Angle returns the wheel angle (rad) steering from pose (x, y, yaw)
// toward target.
func (pp PurePursuit) Angle(x, y, yaw float64, target path.Waypoint) float64 {
	ld := target.DistanceTo(x, y)
	alpha := math.Atan2(target.Y-y, target.X-x) - yaw
	return math.Atan2(2*pp.Wheelbase*math.Sin(alpha), ld)
}

// Steer is Angle expressed in steer units, not yet clamped.
func (pp PurePursuit) Steer(x, y, yaw float64, target path.Waypoint) float64 {
	return pp.Angle(x, y, yaw, target) * RadToSteer
}
