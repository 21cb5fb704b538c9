package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel       lipgloss.Style
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
	KeyHint     lipgloss.Style

	StatusRunning lipgloss.Style
	StatusPaused  lipgloss.Style
	StatusDone    lipgloss.Style

	BarHigh lipgloss.Style
	BarMid  lipgloss.Style
	BarLow  lipgloss.Style
)

func init() { applyTheme(CurrentTheme) }

func applyTheme(t Theme) {
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)
	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Muted).Width(14)
	MetricValue = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	KeyHint = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)

	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(t.Good)
	StatusPaused = lipgloss.NewStyle().Bold(true).Foreground(t.Warn)
	StatusDone = lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	BarHigh = lipgloss.NewStyle().Foreground(t.Good)
	BarMid = lipgloss.NewStyle().Foreground(t.Warn)
	BarLow = lipgloss.NewStyle().Foreground(t.Bad)
}

// ProgressBar renders fraction in [0, 1] as a filled bar of the given width.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return BarMid.Render(bar)
}

// PedalBar shows a pedal position in [0, 1]; brake is drawn in the warning
// color.
func PedalBar(value float64, width int, brake bool) string {
	filled := int(value*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("■", filled) + strings.Repeat("·", width-filled)
	if brake {
		return BarLow.Render(bar)
	}
	return BarHigh.Render(bar)
}

// Row renders a label/value pair.
func Row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", width))
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
