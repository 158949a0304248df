package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rebeliceyang/cardex/internal/config"
	"github.com/rebeliceyang/cardex/internal/coordinator"
	"github.com/rebeliceyang/cardex/internal/effects"
	"github.com/rebeliceyang/cardex/internal/favorites"
	"github.com/rebeliceyang/cardex/internal/history"
	"github.com/rebeliceyang/cardex/internal/models"
	"github.com/rebeliceyang/cardex/internal/ui/components"
	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

// queryTimeout bounds every data-layer call made from the UI
const queryTimeout = 30 * time.Second

// Catalog is the data layer the browser reads and mutates
type Catalog interface {
	FetchCards(ctx context.Context, q models.CardQuery) (models.CardPage, error)
	FetchFilterOptions(ctx context.Context, source string) (models.FilterOptions, error)
	FetchAttributes(ctx context.Context) ([]models.AttributeDefinition, error)
	GetCard(ctx context.Context, id string) (models.Card, error)
	CreateAttribute(ctx context.Context, def models.AttributeDefinition) error
	DeleteAttribute(ctx context.Context, key string) error
	AddCustomRecord(ctx context.Context, card models.Card) error
	SetAttributeValue(ctx context.Context, cardIDs []string, key, value string) (models.ChangeSet, error)
	CustomSourceNames() []string
	ExecuteRaw(ctx context.Context, sql string) (models.RawResult, error)
}

// QueryHistory records executed raw queries
type QueryHistory interface {
	Add(entry history.Entry) error
	GetRecent(limit int) ([]history.Entry, error)
	Search(text string, limit int) ([]history.Entry, error)
}

// Options wires the application to its collaborators
type Options struct {
	Config    *config.Config
	Catalog   Catalog
	History   QueryHistory       // Optional
	Favorites *favorites.Manager // Optional
	Logger    zerolog.Logger

	// Clipboard writes yanked text; defaults to the system clipboard
	Clipboard func(string) error
	// ExportDir receives files exported with 'e'; defaults to "."
	ExportDir string
}

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	log    zerolog.Logger

	catalog    Catalog
	coord      *coordinator.Coordinator
	dispatcher *effects.Dispatcher
	history    QueryHistory
	favorites  *favorites.Manager
	clipboard  func(string) error
	exportDir  string

	tableView   *components.TableView
	detailPanel components.Panel
	search      *components.SearchInput
	command     *components.CommandInput
	editor      *components.QueryEditor
	saved       *components.SavedDialog
	pager       paginator.Model

	// lastQuery is the raw query whose result is on screen
	lastQuery string
}

// rawQueryDoneMsg is sent when a raw query finishes
type rawQueryDoneMsg struct {
	SQL     string
	Result  models.RawResult
	Err     error
	Elapsed time.Duration
}

// mutationDoneMsg is sent when a catalog mutation finishes
type mutationDoneMsg struct {
	Done    string // Status text on success
	Changes models.ChangeSet
	Err     error
}

// statusMsg replaces the status line
type statusMsg struct {
	Text string
	Err  bool
}

// New creates a new App instance
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	th := theme.GetTheme(cfg.UI.Theme)

	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.PerPage = cfg.Browse.PageSize

	a := &App{
		state:      models.NewAppState(),
		config:     cfg,
		theme:      th,
		log:        opts.Logger,
		catalog:    opts.Catalog,
		coord:      coordinator.New(cfg.Browse.PageSize, cfg.Browse.DefaultSource, opts.Logger),
		dispatcher: effects.NewDispatcher(opts.Catalog, opts.Logger),
		history:    opts.History,
		favorites:  opts.Favorites,
		clipboard:  clip,
		exportDir:  exportDir,
		tableView:  components.NewTableView(th),
		detailPanel: components.Panel{
			Title: "Card",
			Theme: th,
		},
		search:  components.NewSearchInput(th, cfg.Browse.SearchDebounce()),
		command: components.NewCommandInput(th),
		editor:  components.NewQueryEditor(th),
		saved:   components.NewSavedDialog(th),
		pager:   pager,
	}
	a.tableView.Selected = func(id string) bool {
		return a.coord.State().Selection.Contains(id)
	}

	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.dispatch(coordinator.Init{})
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		if a.state.ViewMode == models.NormalMode {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				a.tableView.MoveCursor(-1)
			case tea.MouseButtonWheelDown:
				a.tableView.MoveCursor(1)
			}
		}
		return a, nil

	case coordinator.Action:
		// Data-layer completions are coordinator actions already
		return a, a.dispatch(msg)

	case components.SearchInputMsg:
		a.tableView.Reset()
		return a, a.dispatch(coordinator.SetSearch{Text: msg.Query})

	case components.CloseSearchMsg:
		a.search.Close()
		a.state.ViewMode = models.NormalMode
		return a, nil

	case components.CommandInputMsg:
		a.command.Close()
		a.state.ViewMode = models.NormalMode
		return a, a.runCommandLine(msg.Line)

	case components.CloseCommandMsg:
		a.command.Close()
		a.state.ViewMode = models.NormalMode
		return a, nil

	case components.RunQueryMsg:
		a.setStatus("Running query...", false)
		return a, a.executeRaw(msg.SQL)

	case components.CloseQueryEditorMsg:
		a.editor.Blur()
		a.state.ViewMode = models.NormalMode
		return a, nil

	case components.ApplySavedMsg:
		a.state.ViewMode = models.NormalMode
		return a, a.applySaved(msg.Favorite)

	case components.DeleteSavedMsg:
		if err := a.favorites.Delete(msg.Favorite.ID); err != nil {
			a.setStatus(err.Error(), true)
		} else {
			a.setStatus("Deleted "+msg.Favorite.Name, false)
		}
		a.saved.SetFavorites(a.favorites.GetAll())
		return a, nil

	case components.CloseSavedDialogMsg:
		a.state.ViewMode = models.NormalMode
		return a, nil

	case rawQueryDoneMsg:
		return a, a.handleRawQueryDone(msg)

	case mutationDoneMsg:
		if msg.Err != nil {
			a.log.Warn().Err(msg.Err).Msg("Mutation failed")
			a.setStatus(msg.Err.Error(), true)
			return a, nil
		}
		a.log.Info().
			Bool("attributes", msg.Changes.Attributes).
			Bool("cards", msg.Changes.Cards).
			Msg(msg.Done)
		a.setStatus(msg.Done, false)
		return a, a.run(a.dispatcher.Apply(a.coord, msg.Changes))

	case statusMsg:
		a.setStatus(msg.Text, msg.Err)
		return a, nil
	}

	return a, a.forward(msg)
}

// forward passes other messages to the focused input
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.state.ViewMode {
	case models.SearchMode:
		a.search, cmd = a.search.Update(msg)
	case models.CommandMode:
		a.command, cmd = a.command.Update(msg)
	case models.RawQueryMode:
		a.editor, cmd = a.editor.Update(msg)
	}
	return cmd
}

// dispatch feeds an action to the coordinator and starts the fetches it
// made due
func (a *App) dispatch(action coordinator.Action) tea.Cmd {
	cmd := a.run(a.coord.Dispatch(action))
	a.syncTable()
	return cmd
}

// syncTable pushes the effective result set into the table
func (a *App) syncTable() {
	st := a.coord.State()
	a.tableView.SetCards(st.EffectiveResultSet().Records(), st.Attributes)
}

// State returns a snapshot of the view state
func (a *App) State() coordinator.State {
	return a.coord.State()
}

func (a *App) setStatus(text string, isErr bool) {
	a.state.Status = text
	a.state.StatusErr = isErr
}
