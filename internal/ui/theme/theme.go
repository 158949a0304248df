package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the browser
type Theme struct {
	Name string

	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// Chrome
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Cursor        lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Card table
	TableHeader      lipgloss.Color
	TableRowEven     lipgloss.Color
	TableRowOdd      lipgloss.Color
	TableRowCursor   lipgloss.Color
	SelectionMark    lipgloss.Color
	CustomRecord     lipgloss.Color // Rows added by the user
	OverrideBanner   lipgloss.Color // Title bar while a raw query result is shown
	FilterChip       lipgloss.Color
	FilterChipActive lipgloss.Color
}

// Names lists the available themes
var Names = []string{"default", "catppuccin-mocha"}

// GetTheme returns a theme by name, falling back to the default theme
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
