package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the terminal view. Synced and NotSynced match the page
// stylesheet in the default theme.
type Theme struct {
	Name      string
	Synced    lipgloss.Color
	NotSynced lipgloss.Color
	Link      lipgloss.Color
	Selected  lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:      "default",
		Synced:    lipgloss.Color("#2ca02c"),
		NotSynced: lipgloss.Color("#d62728"),
		Link:      lipgloss.Color("#999999"),
		Selected:  lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
	}

	// ThemeColorblind swaps green/red for blue/orange.
	ThemeColorblind = Theme{
		Name:      "colorblind",
		Synced:    lipgloss.Color("#1f77b4"),
		NotSynced: lipgloss.Color("#ff7f0e"),
		Link:      lipgloss.Color("#888888"),
		Selected:  lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Synced:    lipgloss.Color("#ffffff"),
		NotSynced: lipgloss.Color("#888888"),
		Link:      lipgloss.Color("#444444"),
		Selected:  lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
	}

	Themes = []Theme{
		ThemeDefault,
		ThemeColorblind,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, or the default theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// InkStyles maps canvas inks to the theme's colors.
func (t Theme) InkStyles() map[Ink]lipgloss.Style {
	return map[Ink]lipgloss.Style{
		InkLink:      lipgloss.NewStyle().Foreground(t.Link),
		InkNotSynced: lipgloss.NewStyle().Foreground(t.NotSynced),
		InkSynced:    lipgloss.NewStyle().Foreground(t.Synced),
		InkSelected:  lipgloss.NewStyle().Foreground(t.Selected).Bold(true),
	}
}
