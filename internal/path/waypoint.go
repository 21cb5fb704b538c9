package path

import (
	"math"

	"github.com/samber/lo"
)

// Waypoint is a position on the path with the speed to hold there.
type Waypoint struct {
	X     float64 `yaml:"x" json:"x"`
	Y     float64 `yaml:"y" json:"y"`
	Speed float64 `yaml:"speed" json:"speed"`
}

func (w Waypoint) DistanceTo(x, y float64) float64 {
	return math.Hypot(w.X-x, w.Y-y)
}

// Path is an ordered, read-only waypoint sequence.
type Path []Waypoint

// Clone returns a copy that does not share storage with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Nearest scans every waypoint and returns the index closest to (x, y),
// or -1 for an empty path. Ties keep the lower index.
//
// The scan has no notion of progress along the path: on self-intersecting
// or densely sampled paths the index can move backward between calls.
func (p Path) Nearest(x, y float64) int {
	minIdx := -1
	minDist := math.Inf(1)
	for i, w := range p {
		if d := w.DistanceTo(x, y); d < minDist {
			minDist = d
			minIdx = i
		}
	}
	return minIdx
}

// DesiredSpeed is the target speed of the waypoint nearest to (x, y).
// An empty path yields 0.
func (p Path) DesiredSpeed(x, y float64) float64 {
	idx := p.Nearest(x, y)
	if idx < 0 {
		return 0
	}
	if idx < len(p)-1 {
		return p[idx].Speed
	}
	return p[len(p)-1].Speed
}

// Lookahead returns the waypoint following the nearest one, clamped to the
// last waypoint.
func (p Path) Lookahead(x, y float64) (Waypoint, bool) {
	idx := p.Nearest(x, y)
	if idx < 0 {
		return Waypoint{}, false
	}
	return p[lo.Clamp(idx+1, 0, len(p)-1)], true
}

// Length is the polyline length of the path.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i].DistanceTo(p[i-1].X, p[i-1].Y)
	}
	return total
}

func (p Path) Speeds() []float64 {
	return lo.Map(p, func(w Waypoint, _ int) float64 { return w.Speed })
}

// Straight builds n waypoints along the x-axis from x0 to x1 holding speed.
func Straight(x0, x1, speed float64, n int) Path {
	if n < 2 {
		return Path{{X: x0, Speed: speed}}
	}
	step := (x1 - x0) / float64(n-1)
	return lo.Times(n, func(i int) Waypoint {
		return Waypoint{X: x0 + step*float64(i), Speed: speed}
	})
}
