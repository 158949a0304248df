package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of key bindings
type Section struct {
	Title string
	Keys  []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Ctrl+R", "Retry last browse query"},
		{":", "Open command line"},
	}
}

// GetBrowseKeys returns search, filter and paging key bindings
func GetBrowseKeys() []KeyBinding {
	return []KeyBinding{
		{"/", "Search names"},
		{"s", "Cycle sort key"},
		{"Shift+S", "Flip sort direction"},
		{"←/h, →/l", "Previous / next page"},
		{"↑/k, ↓/j", "Move cursor"},
		{"g, G", "First / last row"},
		{"Enter, Tab", "Toggle card detail"},
		{"o", "Open saved views"},
	}
}

// GetSelectionKeys returns selection key bindings
func GetSelectionKeys() []KeyBinding {
	return []KeyBinding{
		{"Space", "Toggle selection"},
		{"a", "Select all visible"},
		{"x", "Clear selection"},
		{"y", "Copy selected IDs"},
		{"e", "Export selection"},
	}
}

// GetQueryKeys returns raw query key bindings
func GetQueryKeys() []KeyBinding {
	return []KeyBinding{
		{"r", "Open raw query editor"},
		{"Ctrl+S", "Run query (in editor)"},
		{"Ctrl+P, Ctrl+N", "Recall history (in editor)"},
		{"Esc", "Leave query result"},
	}
}

// GetCommands returns the command line reference
func GetCommands() []KeyBinding {
	return []KeyBinding{
		{"filter k=v ...", "Set filters (empty value unsets)"},
		{"source <name>", "Switch source (no name = all)"},
		{"clear", "Reset filters"},
		{"page <n>", "Go to page"},
		{"sort <key> [dir]", "Sort results"},
		{"attr add|rm", "Manage attributes"},
		{"set <key>=<val>", "Set attribute on selection"},
		{"card add", "Add a custom record"},
		{"save|load <name>", "Saved views and queries (tags=a,b)"},
		{"export <path>", "Export selection"},
		{"history [text]", "Recent raw queries"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Browse", GetBrowseKeys()},
		{"Selection", GetSelectionKeys()},
		{"Raw Query", GetQueryKeys()},
		{"Commands", GetCommands()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("cardex - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range Sections() {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(max(width-4, 20)).
		Height(max(height-4, 10))

	return boxStyle.Render(b.String())
}
