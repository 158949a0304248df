package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/cardex/internal/models"
	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

// ApplySavedMsg is sent when a saved view or query should be applied
type ApplySavedMsg struct {
	Favorite models.Favorite
}

// DeleteSavedMsg is sent when a saved entry should be removed
type DeleteSavedMsg struct {
	Favorite models.Favorite
}

// CloseSavedDialogMsg is sent when the dialog should close
type CloseSavedDialogMsg struct{}

// SavedDialog lists saved views and raw queries
type SavedDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	favorites []models.Favorite
	selected  int
	offset    int
}

// NewSavedDialog creates a new saved dialog
func NewSavedDialog(th theme.Theme) *SavedDialog {
	return &SavedDialog{
		Width:  80,
		Height: 24,
		Theme:  th,
	}
}

// SetFavorites updates the list
func (d *SavedDialog) SetFavorites(favorites []models.Favorite) {
	d.favorites = favorites
	d.selected = min(d.selected, max(len(favorites)-1, 0))
	d.offset = min(d.offset, d.selected)
}

// Selected returns the highlighted entry
func (d *SavedDialog) Selected() (models.Favorite, bool) {
	if d.selected < 0 || d.selected >= len(d.favorites) {
		return models.Favorite{}, false
	}
	return d.favorites[d.selected], true
}

func (d *SavedDialog) visibleHeight() int {
	return max((d.Height-6)/2, 1)
}

// Update handles keyboard input
func (d *SavedDialog) Update(msg tea.KeyMsg) (*SavedDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return d, func() tea.Msg { return CloseSavedDialogMsg{} }
	case "up", "k":
		if d.selected > 0 {
			d.selected--
			if d.selected < d.offset {
				d.offset = d.selected
			}
		}
	case "down", "j":
		if d.selected < len(d.favorites)-1 {
			d.selected++
			if d.selected >= d.offset+d.visibleHeight() {
				d.offset = d.selected - d.visibleHeight() + 1
			}
		}
	case "enter":
		if fav, ok := d.Selected(); ok {
			return d, func() tea.Msg { return ApplySavedMsg{Favorite: fav} }
		}
	case "d", "x":
		if fav, ok := d.Selected(); ok {
			return d, func() tea.Msg { return DeleteSavedMsg{Favorite: fav} }
		}
	}
	return d, nil
}

// View renders the dialog
func (d *SavedDialog) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(d.Theme.Background).
		Background(d.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Saved Views & Queries"))

	instrStyle := lipgloss.NewStyle().
		Foreground(d.Theme.Muted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Apply  d: Delete  Esc: Close"))

	if len(d.favorites) == 0 {
		sections = append(sections, "\nNothing saved yet. Use :save <name> to save the current view.")
	} else {
		sections = append(sections, "")
		end := min(d.offset+d.visibleHeight(), len(d.favorites))
		width := max(d.Width-8, 20)

		for i := d.offset; i < end; i++ {
			fav := d.favorites[i]

			kind := "view"
			detail := describeFilters(fav.Search, fav.Filters)
			if fav.IsRawQuery() {
				kind = "query"
				detail = strings.Join(strings.Fields(fav.Query), " ")
			}

			line := fmt.Sprintf("%s (%s)\n  %s", fav.Name, kind, runewidth.Truncate(detail, width, "…"))
			if len(fav.Tags) > 0 {
				line += fmt.Sprintf(" [%s]", strings.Join(fav.Tags, ", "))
			}

			style := lipgloss.NewStyle().Padding(0, 1)
			if i == d.selected {
				style = style.Background(d.Theme.TableRowCursor).Foreground(d.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(d.Theme.Border).
		Width(d.Width).
		Height(d.Height).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}

// describeFilters renders search text and the non-empty filters as
// "search: pika  rarity=Rare  source=TCG"
func describeFilters(search string, filters models.FilterSet) string {
	var parts []string
	if search != "" {
		parts = append(parts, "search: "+search)
	}
	for _, key := range filters.SortedKeys() {
		parts = append(parts, key+"="+filters[key])
	}
	if len(parts) == 0 {
		return "all cards"
	}
	return strings.Join(parts, "  ")
}
