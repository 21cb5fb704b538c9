package export

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"
)

// Series is one polyline of a chart, sharing the chart's x values.
type Series struct {
	Name   string
	Color  string
	Values []float64
}

// DefaultColors cycles through series without an explicit color.
var DefaultColors = []string{"#00ff88", "#ffcc00", "#ff4444", "#00ccff"}

const margin = 40.0

// LineChartSVG writes an SVG chart of every series against xs with a legend
// and the value range on the y axis.
func LineChartSVG(w io.Writer, title string, xs []float64, series []Series, width, height int) error {
	if len(xs) < 2 {
		return fmt.Errorf("chart needs at least two points, got %d", len(xs))
	}

	minX, maxX := xs[0], xs[len(xs)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		if len(s.Values) != len(xs) {
			return fmt.Errorf("series %q has %d values for %d x points", s.Name, len(s.Values), len(xs))
		}
		for _, v := range s.Values {
			minY, maxY = math.Min(minY, v), math.Max(maxY, v)
		}
	}
	if math.IsInf(minY, 1) {
		minY, maxY = 0, 1
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	plotW, plotH := float64(width)-2*margin, float64(height)-2*margin
	px := func(x float64) float64 { return margin + (x-minX)/rangeX*plotW }
	py := func(y float64) float64 { return margin + plotH - (y-minY)/rangeY*plotH }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="%.1f" y="20" fill="#e0e0e0" font-family="monospace" font-size="14">%s</text>
<g stroke="#444466" stroke-width="1">
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
</g>
<g fill="#888899" font-family="monospace" font-size="10">
<text x="2" y="%.1f">%.3g</text>
<text x="2" y="%.1f">%.3g</text>
<text x="%.1f" y="%.1f">%.3g</text>
<text x="%.1f" y="%.1f" text-anchor="end">%.3g</text>
</g>
`,
		width, height, width, height,
		margin, html.EscapeString(title),
		margin, margin, margin, margin+plotH,
		margin, margin+plotH, margin+plotW, margin+plotH,
		margin+4, maxY,
		margin+plotH, minY,
		margin, margin+plotH+14, minX,
		margin+plotW, margin+plotH+14, maxX,
	)

	for i, s := range series {
		color := s.Color
		if color == "" {
			color = DefaultColors[i%len(DefaultColors)]
		}

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		for j, v := range s.Values {
			cmd := "L"
			if j == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, px(xs[j]), py(v))
		}
		sb.WriteString("\"/>\n")

		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>
`, margin+plotW-120, margin+14*float64(i+1), color, html.EscapeString(s.Name))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
