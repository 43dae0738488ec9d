package tui

import "github.com/charmbracelet/lipgloss"

// Theme carries every style the review UI renders with. Two palettes exist,
// selected by the config theme key.
type Theme struct {
	Title       lipgloss.Style
	Pane        lipgloss.Style
	ActivePane  lipgloss.Style
	Selected    lipgloss.Style
	Dimmed      lipgloss.Style
	HunkHeader  lipgloss.Style
	Added       lipgloss.Style
	Removed     lipgloss.Style
	AddedEmph   lipgloss.Style
	RemovedEmph lipgloss.Style
	StatusBar   lipgloss.Style
	Help        lipgloss.Style
}

func darkTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		Pane: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1),
		ActivePane: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A3EA6")),
		Dimmed:      lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		HunkHeader:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00AFFF")),
		Added:       lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Removed:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94")),
		AddedEmph:   lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true).Underline(true),
		RemovedEmph: lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94")).Bold(true).Underline(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#333333")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

func lightTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5A3EA6")).
			Padding(0, 1),
		Pane: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#BBBBBB")).
			Padding(0, 1),
		ActivePane: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#5A3EA6")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")),
		Dimmed:      lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		HunkHeader:  lipgloss.NewStyle().Foreground(lipgloss.Color("#005FAF")),
		Added:       lipgloss.NewStyle().Foreground(lipgloss.Color("#00875F")),
		Removed:     lipgloss.NewStyle().Foreground(lipgloss.Color("#D7005F")),
		AddedEmph:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00875F")).Bold(true).Underline(true),
		RemovedEmph: lipgloss.NewStyle().Foreground(lipgloss.Color("#D7005F")).Bold(true).Underline(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#DDDDDD")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// themeFor maps a config theme name to a palette; unknown names get dark.
func themeFor(name string) Theme {
	if name == "light" {
		return lightTheme()
	}
	return darkTheme()
}
