package analysis

import (
	"strings"

	"github.com/san-kum/vehsim/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds one trajectory projected onto two sample fields.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []Point
}

// FromSamples projects samples with fx and fy.
func FromSamples(samples []dynamo.Sample, xLabel, yLabel string, fx, fy func(dynamo.Sample) float64) *PhasePortrait2D {
	p := &PhasePortrait2D{XLabel: xLabel, YLabel: yLabel, Points: make([]Point, len(samples))}
	for i, s := range samples {
		p.Points[i] = Point{X: fx(s), Y: fy(s)}
	}
	return p
}

func VelocityAcceleration(samples []dynamo.Sample) *PhasePortrait2D {
	return FromSamples(samples, "v (m/s)", "a (m/s²)",
		func(s dynamo.Sample) float64 { return s.Velocity },
		func(s dynamo.Sample) float64 { return s.Acceleration },
	)
}

func bounds(points []Point) (minX, maxX, minY, maxY float64) {
	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return
}

// padded widens [lo, hi] by 10% on each side; a zero span becomes 1.
func padded(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}

// PhasePortraitToASCII plots the portrait on a width x height grid with the
// axes drawn where they cross the visible area.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := bounds(portrait.Points)
	minX, maxX = padded(minX, maxX)
	minY, maxY = padded(minY, maxY)
	rangeX, rangeY := maxX-minX, maxY-minY

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if grid[r][c] == ' ' {
				grid[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(portrait.YLabel + "\n")
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	sb.WriteString(strings.Repeat(" ", max(0, width-len(portrait.XLabel))) + portrait.XLabel + "\n")
	return sb.String()
}
