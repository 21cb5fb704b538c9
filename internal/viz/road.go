package viz

import (
	"math"

	"github.com/san-kum/vehsim/internal/scenario"
)

// RoadView draws the road elevation between x0 and x1 on a w x h canvas and
// marks the vehicle at carX. A nil road is flat.
func RoadView(road scenario.GradeProfile, x0, x1, carX float64, w, h int) string {
	c := NewCanvas(w, h)
	if x1 <= x0 {
		return c.String()
	}

	cols := c.DotsX()
	dx := (x1 - x0) / float64(cols-1)
	elev := make([]float64, cols)
	for i := 1; i < cols; i++ {
		elev[i] = elev[i-1] + slope(road, x0+dx*float64(i-1))*dx
	}

	lo, hi := elev[0], elev[0]
	for _, e := range elev {
		lo = min(lo, e)
		hi = max(hi, e)
	}
	// leave three dot rows above the road for the vehicle
	top := 3
	rows := c.DotsY() - 1 - top
	toY := func(e float64) int {
		if hi == lo {
			return c.DotsY() - 1
		}
		return top + rows - int((e-lo)/(hi-lo)*float64(rows)+0.5)
	}

	for i := 1; i < cols; i++ {
		c.Line(i-1, toY(elev[i-1]), i, toY(elev[i]))
	}

	if carX >= x0 && carX <= x1 {
		i := int((carX-x0)/dx + 0.5)
		y := toY(elev[i])
		c.Fill(i-1, y-3, i+1, y-1)
	}
	return c.String()
}

func slope(road scenario.GradeProfile, x float64) float64 {
	if road == nil {
		return 0
	}
	return math.Tan(road.Grade(x))
}
