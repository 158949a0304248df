package app

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/cardex/internal/coordinator"
	"github.com/rebeliceyang/cardex/internal/models"
)

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		switch msg.String() {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		}
		return a, nil
	case models.SearchMode, models.CommandMode, models.RawQueryMode:
		return a, a.forward(msg)
	case models.SavedMode:
		var cmd tea.Cmd
		a.saved, cmd = a.saved.Update(msg)
		return a, cmd
	}

	st := a.coord.State()

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "?":
		a.state.ViewMode = models.HelpMode
	case "/":
		a.state.ViewMode = models.SearchMode
		return a, a.search.Open(st.Search)
	case ":":
		a.state.ViewMode = models.CommandMode
		return a, a.command.Open()
	case "r":
		return a, a.openEditor(a.lastQuery)
	case "o":
		if a.favorites == nil {
			a.setStatus("Saved views are not available", true)
			return a, nil
		}
		a.saved.SetFavorites(a.favorites.GetRecent(0))
		a.state.ViewMode = models.SavedMode
	case "esc":
		if st.InOverride() {
			a.lastQuery = ""
			a.tableView.Reset()
			a.setStatus("Back to browsing", false)
			return a, a.dispatch(coordinator.ExitOverride{})
		}
		a.state.ShowDetail = false
	case "enter", "tab":
		a.state.ShowDetail = !a.state.ShowDetail

	case "s":
		return a, a.dispatch(coordinator.SetFilters{Partial: models.FilterSet{
			models.FilterSortBy: nextSortKey(st.Filters.SortBy()),
		}})
	case "S":
		dir := models.SortDesc
		if st.Filters.SortDir() == models.SortDesc {
			dir = models.SortAsc
		}
		return a, a.dispatch(coordinator.SetFilters{Partial: models.FilterSet{models.FilterSortDir: dir}})

	case "left", "h":
		if st.InOverride() || st.Page <= 1 {
			return a, nil
		}
		a.tableView.Reset()
		return a, a.dispatch(coordinator.SetPage{Page: st.Page - 1})
	case "right", "l":
		if st.InOverride() || st.Page >= st.TotalPages() {
			return a, nil
		}
		a.tableView.Reset()
		return a, a.dispatch(coordinator.SetPage{Page: st.Page + 1})

	case "up", "k":
		a.tableView.MoveCursor(-1)
	case "down", "j":
		a.tableView.MoveCursor(1)
	case "pgup", "ctrl+u":
		a.tableView.MoveCursor(-a.tableView.VisibleRows)
	case "pgdown", "ctrl+d":
		a.tableView.MoveCursor(a.tableView.VisibleRows)
	case "g", "home":
		a.tableView.JumpToStart()
	case "G", "end":
		a.tableView.JumpToEnd()

	case " ":
		if card, ok := a.tableView.Current(); ok {
			cmd := a.dispatch(coordinator.ToggleSelection{ID: card.ID})
			a.tableView.MoveCursor(1)
			return a, cmd
		}
	case "a":
		return a, a.dispatch(coordinator.SelectAllVisible{})
	case "x":
		return a, a.dispatch(coordinator.ClearSelection{})
	case "y":
		return a, a.yank()
	case "e":
		name := fmt.Sprintf("cardex-%s.csv", time.Now().Format("20060102-150405"))
		return a, a.export(filepath.Join(a.exportDir, name))

	case "ctrl+r":
		return a, a.retry()
	}

	return a, nil
}

// nextSortKey returns the sort key after current in the cycle
func nextSortKey(current string) string {
	i := slices.Index(models.SortKeys, current)
	return models.SortKeys[(i+1)%len(models.SortKeys)]
}

// openEditor switches to the raw query editor, loading recent queries for
// recall
func (a *App) openEditor(content string) tea.Cmd {
	if a.history != nil {
		entries, err := a.history.GetRecent(50)
		if err != nil {
			a.log.Warn().Err(err).Msg("Failed to load query history")
		}
		a.editor.SetHistory(queries(entries))
	}
	if content != "" {
		a.editor.SetContent(content)
	}
	a.state.ViewMode = models.RawQueryMode
	return a.editor.Focus()
}

// yank copies the selected IDs, one per line
func (a *App) yank() tea.Cmd {
	ids := a.coord.State().Selection.IDs()
	if len(ids) == 0 {
		a.setStatus("Nothing selected", true)
		return nil
	}
	write := a.clipboard
	return func() tea.Msg {
		if err := write(strings.Join(ids, "\n")); err != nil {
			return statusMsg{Text: fmt.Sprintf("Failed to copy: %v", err), Err: true}
		}
		return statusMsg{Text: fmt.Sprintf("Copied %d IDs", len(ids))}
	}
}

// retry re-issues the browse query and any auxiliary fetch that failed
func (a *App) retry() tea.Cmd {
	st := a.coord.State()
	cmds := []tea.Cmd{a.dispatch(coordinator.Refresh{})}
	if st.OptionsErr != "" {
		cmds = append(cmds, a.dispatch(coordinator.RefreshFilterOptions{}))
	}
	if st.AttributesErr != "" {
		cmds = append(cmds, a.dispatch(coordinator.RefreshAttributes{}))
	}
	a.setStatus("Retrying...", false)
	return tea.Batch(cmds...)
}
