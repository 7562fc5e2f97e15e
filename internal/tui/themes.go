package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the TUI
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var (
	ThemeLime = Theme{
		Name:       "lime",
		Primary:    lipgloss.Color("#84cc16"),
		Secondary:  lipgloss.Color("#10b981"),
		Accent:     lipgloss.Color("#facc15"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#f4f4f5"),
		Muted:      lipgloss.Color("#71717a"),
		Success:    lipgloss.Color("#4ade80"),
		Warning:    lipgloss.Color("#fbbf24"),
		Error:      lipgloss.Color("#f87171"),
	}

	ThemeMint = Theme{
		Name:       "mint",
		Primary:    lipgloss.Color("#10b981"),
		Secondary:  lipgloss.Color("#2dd4bf"),
		Accent:     lipgloss.Color("#a3e635"),
		Background: lipgloss.Color("#021a14"),
		Text:       lipgloss.Color("#ecfdf5"),
		Muted:      lipgloss.Color("#4b7f6f"),
		Success:    lipgloss.Color("#34d399"),
		Warning:    lipgloss.Color("#fcd34d"),
		Error:      lipgloss.Color("#fb7185"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Primary:    lipgloss.Color("#ffffff"),
		Secondary:  lipgloss.Color("#cccccc"),
		Accent:     lipgloss.Color("#84cc16"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff0000"),
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Primary:    lipgloss.Color("#ff6b6b"),
		Secondary:  lipgloss.Color("#feca57"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Background: lipgloss.Color("#2d1b2e"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Success:    lipgloss.Color("#5fd068"),
		Warning:    lipgloss.Color("#ffc048"),
		Error:      lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeLime,
		ThemeMint,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to lime.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLime
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

// ThemeNames lists the built-in themes in cycling order.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
