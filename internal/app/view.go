package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/cardex/internal/coordinator"
	"github.com/rebeliceyang/cardex/internal/models"
	"github.com/rebeliceyang/cardex/internal/ui/help"
)

// detailWidth is the width of the card detail panel when shown
const detailWidth = 42

// View implements tea.Model
func (a *App) View() string {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return ""
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		return help.Render(a.state.Width, a.state.Height, a.theme)
	case models.SavedMode:
		a.saved.Width = min(a.state.Width-4, 90)
		a.saved.Height = max(a.state.Height-6, 10)
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.saved.View(),
		)
	}

	return a.renderNormalView()
}

// renderNormalView renders the bars around the card table
func (a *App) renderNormalView() string {
	st := a.coord.State()

	topBar := a.renderTopBar(st)
	bottomBar := a.renderBottomBar(st)

	var sections []string
	sections = append(sections, topBar)

	// Top bar and bottom bar take a line each
	bodyHeight := max(a.state.Height-2, 3)

	switch a.state.ViewMode {
	case models.SearchMode:
		a.search.Width = a.state.Width
		box := a.search.View()
		sections = append(sections, box)
		bodyHeight -= lipgloss.Height(box)
	case models.RawQueryMode:
		a.editor.Width = a.state.Width
		a.editor.Height = max(bodyHeight/2, 6)
		box := a.editor.View()
		sections = append(sections, box)
		bodyHeight -= lipgloss.Height(box)
	}
	if chips := a.renderFilterChips(st); chips != "" {
		sections = append(sections, chips)
		bodyHeight--
	}

	sections = append(sections, a.renderBody(st, max(bodyHeight, 3)))
	sections = append(sections, bottomBar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderBody(st coordinator.State, height int) string {
	tableWidth := a.state.Width
	showDetail := a.state.ShowDetail && a.state.Width > detailWidth+40
	if showDetail {
		tableWidth -= detailWidth
	}

	a.tableView.Width = tableWidth
	a.tableView.Height = height
	a.tableView.Status = a.tableStatus(st)
	table := a.tableView.View()

	if !showDetail {
		return table
	}

	a.detailPanel.Width = detailWidth
	a.detailPanel.Height = height
	a.detailPanel.Content = "No card"
	if card, ok := a.tableView.Current(); ok {
		a.detailPanel.Content = renderCardDetail(card, st.Attributes)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, table, a.detailPanel.View())
}

func (a *App) renderTopBar(st coordinator.State) string {
	source := st.Filters.Source()
	if source == models.SourceAll {
		source = "All sources"
	}
	left := "cardex │ " + source

	var right string
	if st.InOverride() {
		right = "QUERY RESULT"
	} else {
		a.pager.PerPage = max(st.PageSize, 1)
		a.pager.SetTotalPages(st.Browse().Total)
		a.pager.Page = st.Page - 1
		right = fmt.Sprintf("%d cards │ page %s", st.Browse().Total, a.pager.View())
	}

	background := a.theme.BorderFocused
	if st.InOverride() {
		background = a.theme.OverrideBanner
	}
	return lipgloss.NewStyle().
		Width(a.state.Width).
		Background(background).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.formatStatusBar(left, right))
}

func (a *App) renderBottomBar(st coordinator.State) string {
	if a.state.ViewMode == models.CommandMode {
		a.command.Width = a.state.Width
		return a.command.View()
	}

	left := a.state.Status
	fg := a.theme.Foreground
	switch {
	case st.Err != "":
		left = "Error: " + st.Err + " (ctrl+r to retry)"
		fg = a.theme.Error
	case a.state.StatusErr:
		fg = a.theme.Error
	case left == "":
		left = "[/] Search │ [:] Command │ [r] Query │ [?] Help │ [q] Quit"
	}

	right := sortLabel(st.Filters)
	if n := st.Selection.Len(); n > 0 {
		right = fmt.Sprintf("%d selected │ %s", n, right)
	}

	return lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.TableRowCursor).
		Foreground(fg).
		Padding(0, 2).
		Render(a.formatStatusBar(left, right))
}

// renderFilterChips shows the active search and filters, sort excluded
func (a *App) renderFilterChips(st coordinator.State) string {
	chip := lipgloss.NewStyle().
		Background(a.theme.FilterChip).
		Foreground(a.theme.Foreground).
		Padding(0, 1).
		MarginRight(1)

	var chips []string
	if st.Search != "" {
		chips = append(chips, chip.Background(a.theme.FilterChipActive).Render("/"+st.Search))
	}
	for _, key := range st.Filters.SortedKeys() {
		if models.IsSortKey(key) || key == models.FilterSource {
			continue
		}
		chips = append(chips, chip.Render(key+"="+st.Filters[key]))
	}
	if len(chips) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (a *App) tableStatus(st coordinator.State) string {
	switch {
	case st.Loading && !st.InOverride():
		return "Loading..."
	case st.InOverride():
		return fmt.Sprintf("%d rows from raw query", len(st.EffectiveResultSet().Records()))
	}
	browse := st.Browse()
	if browse.Total == 0 {
		return "No matching cards"
	}
	first := (st.Page-1)*st.PageSize + 1
	last := first + len(browse.Cards) - 1
	return fmt.Sprintf("%d-%d of %d cards", first, last, browse.Total)
}

func sortLabel(filters models.FilterSet) string {
	arrow := "↑"
	if filters.SortDir() == models.SortDesc {
		arrow = "↓"
	}
	return "sort: " + filters.SortBy() + " " + arrow
}

// renderCardDetail lists every populated field of a card
func renderCardDetail(card models.Card, defs []models.AttributeDefinition) string {
	fields := []struct{ label, key string }{
		{"ID", "id"},
		{"Name", "name"},
		{"Source", "source"},
		{"Custom", "custom_source"},
		{"Supertype", "supertype"},
		{"Subtypes", "subtypes"},
		{"Types", "types"},
		{"Rarity", "rarity"},
		{"Set", "set_name"},
		{"Set ID", "set_id"},
		{"Number", "number"},
		{"HP", "hp"},
		{"Pokédex", "pokedex"},
		{"Region", "region"},
		{"Artist", "artist"},
	}

	var b strings.Builder
	for _, f := range fields {
		if v := card.Field(f.key); v != "" {
			fmt.Fprintf(&b, "%-10s %s\n", f.label, v)
		}
	}
	for _, def := range defs {
		if v, ok := card.Attributes[def.Key]; ok {
			fmt.Fprintf(&b, "%-10s %s\n", def.Label, v)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := max(a.state.Width-4, 0)

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)

	if leftLen+rightLen+1 > availableWidth {
		maxLeft := max(availableWidth-rightLen-1, 0)
		left = runewidth.Truncate(left, maxLeft, "…")
		leftLen = lipgloss.Width(left)
	}

	spacing := max(availableWidth-leftLen-rightLen, 1)
	return left + strings.Repeat(" ", spacing) + right
}
