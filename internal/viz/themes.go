package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the live view.
type Theme struct {
	Name     string
	Positive lipgloss.Color
	Negative lipgloss.Color
	Trail    lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:     "classic",
		Positive: lipgloss.Color("#ff3030"), // Red
		Negative: lipgloss.Color("#3070ff"), // Blue
		Trail:    lipgloss.Color("#444444"),
		Accent:   lipgloss.Color("#00ffff"),
		Muted:    lipgloss.Color("#666666"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Positive: lipgloss.Color("#ff6b6b"),
		Negative: lipgloss.Color("#feca57"),
		Trail:    lipgloss.Color("#8b6b8c"),
		Accent:   lipgloss.Color("#ff9ff3"),
		Muted:    lipgloss.Color("#8b6b8c"),
	}

	ThemeMono = Theme{
		Name:     "mono",
		Positive: lipgloss.Color("#ffffff"),
		Negative: lipgloss.Color("#888888"),
		Trail:    lipgloss.Color("#333333"),
		Accent:   lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
	}

	// Default theme
	CurrentTheme = ThemeClassic

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeSunset,
		ThemeMono,
	}
)

func (t Theme) style(c CellColor) (lipgloss.Style, bool) {
	switch c {
	case ColorPositive:
		return lipgloss.NewStyle().Foreground(t.Positive), true
	case ColorNegative:
		return lipgloss.NewStyle().Foreground(t.Negative), true
	case ColorTrail:
		return lipgloss.NewStyle().Foreground(t.Trail), true
	}
	return lipgloss.Style{}, false
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeClassic
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
