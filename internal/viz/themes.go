package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Good      lipgloss.Color
	Warn      lipgloss.Color
	Bad       lipgloss.Color
}

var (
	ThemeDashboard = Theme{
		Name:      "dashboard",
		Primary:   lipgloss.Color("#00ccff"),
		Secondary: lipgloss.Color("#ffcc00"),
		Text:      lipgloss.Color("#e0e0e0"),
		Muted:     lipgloss.Color("#666688"),
		Good:      lipgloss.Color("#00ff88"),
		Warn:      lipgloss.Color("#ffaa00"),
		Bad:       lipgloss.Color("#ff4444"),
	}

	ThemeNight = Theme{
		Name:      "night",
		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#bb9af7"),
		Text:      lipgloss.Color("#c0caf5"),
		Muted:     lipgloss.Color("#565f89"),
		Good:      lipgloss.Color("#9ece6a"),
		Warn:      lipgloss.Color("#e0af68"),
		Bad:       lipgloss.Color("#f7768e"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Good:      lipgloss.Color("#ffffff"),
		Warn:      lipgloss.Color("#cccccc"),
		Bad:       lipgloss.Color("#888888"),
	}

	CurrentTheme = ThemeDashboard

	Themes = []Theme{ThemeDashboard, ThemeNight, ThemeMono}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDashboard
}

// SetTheme switches the active theme and rebuilds the shared styles.
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
	applyTheme(CurrentTheme)
}

// NextTheme cycles to the theme after the active one.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			SetTheme(Themes[(i+1)%len(Themes)].Name)
			break
		}
	}
	return CurrentTheme
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
