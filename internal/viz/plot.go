package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	DefaultPlotHeight = 10
	DefaultPlotWidth  = 80
)

// Plot draws one series; asciigraph resamples it to width.
func Plot(data []float64, caption string, height, width int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays series of equal length, each with a legend entry.
func PlotMany(series [][]float64, legends []string, caption string, height, width int) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Yellow, asciigraph.Red, asciigraph.Blue}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors[:min(len(series), len(colors))]...),
		asciigraph.SeriesLegends(legends...),
	)
}

// Tail returns the last n values of data.
func Tail(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	return data[len(data)-n:]
}

// Summary renders a titled panel listing fields in order followed by the
// metrics sorted by name.
func Summary(title string, fields [][2]string, metrics map[string]float64) string {
	var b strings.Builder
	b.WriteString(Title.Render(title) + "\n")
	for _, f := range fields {
		b.WriteString(Row(f[0], f[1]) + "\n")
	}

	if len(metrics) > 0 {
		names := make([]string, 0, len(metrics))
		for k := range metrics {
			names = append(names, k)
		}
		sort.Strings(names)

		b.WriteString(Separator(36) + "\n")
		for _, k := range names {
			b.WriteString(Row(k, formatMetric(metrics[k])) + "\n")
		}
	}
	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func formatMetric(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

// SideBySide joins rendered blocks horizontally, top aligned.
func SideBySide(blocks ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}
