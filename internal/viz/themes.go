package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Border  lipgloss.Color
	Rod     lipgloss.Color
	Trail   lipgloss.Color
}

var (
	ThemeDark = Theme{
		Name:    "dark",
		Primary: lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
		Border:  lipgloss.Color("#444466"),
		Rod:     lipgloss.Color("#aaaaaa"),
		Trail:   lipgloss.Color("#5577aa"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
		Border:  lipgloss.Color("#00aa00"),
		Rod:     lipgloss.Color("#00cc00"),
		Trail:   lipgloss.Color("#007700"),
	}

	ThemeLight = Theme{
		Name:    "light",
		Primary: lipgloss.Color("#0055aa"),
		Accent:  lipgloss.Color("#aa0055"),
		Text:    lipgloss.Color("#111111"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#cc6600"),
		Border:  lipgloss.Color("#bbbbbb"),
		Rod:     lipgloss.Color("#444444"),
		Trail:   lipgloss.Color("#88aadd"),
	}

	Themes = []Theme{ThemeDark, ThemeRetro, ThemeLight}
)

// GetTheme returns a theme by name, falling back to the dark theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
