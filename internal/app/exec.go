package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/cardex/internal/coordinator"
	"github.com/rebeliceyang/cardex/internal/export"
	"github.com/rebeliceyang/cardex/internal/history"
	"github.com/rebeliceyang/cardex/internal/models"
)

// run turns coordinator effects into commands. Each fetch is independent
// and reports back as a coordinator action.
func (a *App) run(eff coordinator.Effects) tea.Cmd {
	var cmds []tea.Cmd
	if eff.Browse != nil {
		cmds = append(cmds, a.fetchCards(*eff.Browse))
	}
	if eff.Options != nil {
		cmds = append(cmds, a.fetchOptions(*eff.Options))
	}
	if eff.Attributes != nil {
		cmds = append(cmds, a.fetchAttributes(*eff.Attributes))
	}
	if eff.CustomSources != nil {
		catalog := a.catalog
		gen := eff.CustomSources.Generation
		cmds = append(cmds, func() tea.Msg {
			return coordinator.CustomSourcesLoaded{Generation: gen, Names: catalog.CustomSourceNames()}
		})
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (a *App) fetchCards(req coordinator.FetchRequest) tea.Cmd {
	catalog := a.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		page, err := catalog.FetchCards(ctx, req.Query)
		return coordinator.BrowseLoaded{Generation: req.Generation, Page: page, Err: err}
	}
}

func (a *App) fetchOptions(req coordinator.OptionsRequest) tea.Cmd {
	catalog := a.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		opts, err := catalog.FetchFilterOptions(ctx, req.Source)
		return coordinator.OptionsLoaded{Generation: req.Generation, Options: opts, Err: err}
	}
}

func (a *App) fetchAttributes(req coordinator.AttributesRequest) tea.Cmd {
	catalog := a.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		defs, err := catalog.FetchAttributes(ctx)
		return coordinator.AttributesLoaded{Generation: req.Generation, Attributes: defs, Err: err}
	}
}

// executeRaw runs an ad-hoc statement
func (a *App) executeRaw(sql string) tea.Cmd {
	d := a.dispatcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		start := time.Now()
		result, err := d.ExecuteRaw(ctx, sql)
		return rawQueryDoneMsg{SQL: sql, Result: result, Err: err, Elapsed: time.Since(start)}
	}
}

func (a *App) handleRawQueryDone(msg rawQueryDoneMsg) tea.Cmd {
	a.recordHistory(msg)

	if msg.Err != nil {
		a.log.Warn().Err(msg.Err).Str("sql", msg.SQL).Msg("Raw query failed")
		a.setStatus(msg.Err.Error(), true)
		return nil
	}

	a.editor.Blur()
	a.state.ViewMode = models.NormalMode

	if msg.Result.ReadOnly {
		a.lastQuery = msg.SQL
		a.tableView.Reset()
		a.setStatus(fmt.Sprintf("%d rows in %s (esc to return)", len(msg.Result.Records), msg.Elapsed.Round(time.Millisecond)), false)
		return a.dispatch(coordinator.EnterOverride{Records: msg.Result.Records})
	}

	a.setStatus(fmt.Sprintf("%d rows affected", msg.Result.RowsAffected), false)
	return a.run(a.dispatcher.Apply(a.coord, msg.Result.Changes))
}

func (a *App) recordHistory(msg rawQueryDoneMsg) {
	if a.history == nil {
		return
	}
	entry := history.Entry{
		Query:        msg.SQL,
		DurationMs:   msg.Elapsed.Milliseconds(),
		RowsAffected: msg.Result.RowsAffected,
		ReadOnly:     msg.Result.ReadOnly,
		Success:      msg.Err == nil,
	}
	if msg.Result.ReadOnly {
		entry.RowsAffected = int64(len(msg.Result.Records))
	}
	if msg.Err != nil {
		entry.ErrorMessage = msg.Err.Error()
	}
	if err := a.history.Add(entry); err != nil {
		a.log.Warn().Err(err).Msg("Failed to record query history")
	}
}

func queries(entries []history.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Query)
	}
	return out
}

// mutate runs a catalog mutation off the update loop
func (a *App) mutate(done string, fn func(ctx context.Context) (models.ChangeSet, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		changes, err := fn(ctx)
		return mutationDoneMsg{Done: done, Changes: changes, Err: err}
	}
}

// runCommandLine parses and executes a ':' command
func (a *App) runCommandLine(line string) tea.Cmd {
	cmd, err := ParseCommand(line)
	if errors.Is(err, ErrEmptyCommand) {
		return nil
	}
	if err != nil {
		a.setStatus(err.Error(), true)
		return nil
	}
	return a.execute(cmd)
}

func (a *App) execute(cmd Command) tea.Cmd {
	st := a.coord.State()

	switch c := cmd.(type) {
	case FilterCommand:
		a.tableView.Reset()
		return a.dispatch(coordinator.SetFilters{Partial: c.Partial})

	case ClearCommand:
		a.tableView.Reset()
		return a.dispatch(coordinator.ClearFilters{})

	case PageCommand:
		if st.InOverride() {
			a.setStatus("Paging is disabled while a query result is shown", true)
			return nil
		}
		a.tableView.Reset()
		return a.dispatch(coordinator.SetPage{Page: min(c.Page, st.TotalPages())})

	case AttrAddCommand:
		def := c.Definition.Normalized()
		if err := def.Validate(); err != nil {
			a.setStatus(err.Error(), true)
			return nil
		}
		return a.mutate("Created attribute "+def.Key, func(ctx context.Context) (models.ChangeSet, error) {
			return a.dispatcher.CreateAttribute(ctx, def)
		})

	case AttrRemoveCommand:
		key := models.NormalizeAttributeKey(c.Key)
		if models.IsBuiltinAttribute(key) {
			a.setStatus(models.ErrBuiltinAttribute.Error(), true)
			return nil
		}
		return a.mutate("Deleted attribute "+key, func(ctx context.Context) (models.ChangeSet, error) {
			return a.dispatcher.DeleteAttribute(ctx, key)
		})

	case SetAttrCommand:
		ids := st.Selection.IDs()
		if len(ids) == 0 {
			card, ok := a.tableView.Current()
			if !ok {
				a.setStatus("Nothing selected", true)
				return nil
			}
			ids = []string{card.ID}
		}
		catalog := a.catalog
		done := fmt.Sprintf("Set %s on %d cards", c.Key, len(ids))
		return a.mutate(done, func(ctx context.Context) (models.ChangeSet, error) {
			return catalog.SetAttributeValue(ctx, ids, c.Key, c.Value)
		})

	case CardAddCommand:
		if err := c.Card.Validate(); err != nil {
			a.setStatus(err.Error(), true)
			return nil
		}
		return a.mutate("Added "+c.Card.ID, func(ctx context.Context) (models.ChangeSet, error) {
			return a.dispatcher.AddCustomRecord(ctx, c.Card)
		})

	case SaveCommand:
		return a.save(c)

	case LoadCommand:
		if a.favorites == nil {
			a.setStatus("Saved views are not available", true)
			return nil
		}
		fav, err := a.favorites.GetByName(c.Name)
		if err != nil {
			a.setStatus(err.Error(), true)
			return nil
		}
		return a.applySaved(*fav)

	case ExportCommand:
		return a.export(c.Path)

	case HistoryCommand:
		return a.showHistory(c.Text)

	case QuitCommand:
		return tea.Quit
	}
	return nil
}

// save stores the raw query on screen, or else the current view
func (a *App) save(c SaveCommand) tea.Cmd {
	if a.favorites == nil {
		a.setStatus("Saved views are not available", true)
		return nil
	}
	st := a.coord.State()

	var err error
	if st.InOverride() && a.lastQuery != "" {
		_, err = a.favorites.AddQuery(c.Name, c.Description, a.lastQuery, c.Tags)
	} else {
		_, err = a.favorites.AddView(c.Name, c.Description, st.Search, st.Filters, c.Tags)
	}
	if err != nil {
		a.setStatus(err.Error(), true)
		return nil
	}
	a.setStatus("Saved "+c.Name, false)
	return nil
}

// applySaved restores a saved view, or runs a saved query
func (a *App) applySaved(fav models.Favorite) tea.Cmd {
	if err := a.favorites.RecordUsage(fav.ID); err != nil {
		a.log.Warn().Err(err).Str("name", fav.Name).Msg("Failed to record favorite usage")
	}

	if fav.IsRawQuery() {
		a.setStatus("Running "+fav.Name+"...", false)
		return a.executeRaw(fav.Query)
	}

	// Later effects supersede earlier ones, so only the final browse fetch
	// is issued
	var eff coordinator.Effects
	if a.coord.State().InOverride() {
		a.lastQuery = ""
		eff = eff.Merge(a.coord.Dispatch(coordinator.ExitOverride{}))
	}

	source := fav.Filters.Source()
	if source != a.coord.State().Filters.Source() {
		eff = eff.Merge(a.coord.Dispatch(coordinator.SetFilters{Partial: models.FilterSet{models.FilterSource: source}}))
	}

	partial := fav.Filters.Clone()
	delete(partial, models.FilterSource)
	for key := range a.coord.State().Filters {
		if _, ok := partial[key]; !ok && key != models.FilterSource {
			partial[key] = ""
		}
	}
	if len(partial) > 0 {
		eff = eff.Merge(a.coord.Dispatch(coordinator.SetFilters{Partial: partial}))
	}
	eff = eff.Merge(a.coord.Dispatch(coordinator.SetSearch{Text: fav.Search}))

	a.tableView.Reset()
	a.syncTable()
	a.setStatus("Loaded "+fav.Name, false)
	return a.run(eff)
}

// export writes the selected cards to path. Selected cards off the current
// page are loaded from the catalog.
func (a *App) export(path string) tea.Cmd {
	st := a.coord.State()
	ids := st.Selection.IDs()
	if len(ids) == 0 {
		a.setStatus("Nothing selected", true)
		return nil
	}

	visible := make(map[string]models.Card)
	for _, c := range st.EffectiveResultSet().Records() {
		visible[c.ID] = c
	}
	catalog := a.catalog

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		cards := make([]models.Card, 0, len(ids))
		for _, id := range ids {
			if c, ok := visible[id]; ok {
				cards = append(cards, c)
				continue
			}
			c, err := catalog.GetCard(ctx, id)
			if err != nil {
				return statusMsg{Text: fmt.Sprintf("Failed to load %s: %v", id, err), Err: true}
			}
			cards = append(cards, c)
		}

		if err := export.Export(cards, path); err != nil {
			return statusMsg{Text: err.Error(), Err: true}
		}
		return statusMsg{Text: fmt.Sprintf("Exported %d cards to %s", len(cards), path)}
	}
}

// showHistory opens the editor with past queries matching text
func (a *App) showHistory(text string) tea.Cmd {
	if a.history == nil {
		a.setStatus("Query history is disabled", true)
		return nil
	}
	var (
		entries []history.Entry
		err     error
	)
	if strings.TrimSpace(text) == "" {
		entries, err = a.history.GetRecent(50)
	} else {
		entries, err = a.history.Search(text, 50)
	}
	if err != nil {
		a.setStatus(err.Error(), true)
		return nil
	}
	if len(entries) == 0 {
		a.setStatus("No matching queries", false)
		return nil
	}

	cmd := a.openEditor(entries[0].Query)
	a.editor.SetHistory(queries(entries))
	a.setStatus(fmt.Sprintf("%d queries (ctrl+p/ctrl+n to browse)", len(entries)), false)
	return cmd
}
