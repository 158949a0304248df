package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

// RunQueryMsg is sent when the editor content should be executed
type RunQueryMsg struct {
	SQL string
}

// CloseQueryEditorMsg is sent when the editor should be closed
type CloseQueryEditorMsg struct{}

// QueryEditor is a multiline raw query editor with history recall
type QueryEditor struct {
	Area   textarea.Model
	Theme  theme.Theme
	Width  int
	Height int

	// Previous queries, newest first
	history    []string
	historyIdx int
}

// NewQueryEditor creates a new query editor
func NewQueryEditor(th theme.Theme) *QueryEditor {
	ta := textarea.New()
	ta.Placeholder = "SELECT * FROM cards WHERE ..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.Cursor.SetMode(cursor.CursorStatic)

	return &QueryEditor{
		Area:       ta,
		Theme:      th,
		historyIdx: -1,
	}
}

// SetHistory replaces the recallable queries, newest first
func (e *QueryEditor) SetHistory(queries []string) {
	e.history = queries
	e.historyIdx = -1
}

// SetContent replaces the editor text
func (e *QueryEditor) SetContent(sql string) {
	e.Area.SetValue(sql)
}

// Content returns the editor text
func (e *QueryEditor) Content() string {
	return e.Area.Value()
}

// Focus gives the editor keyboard focus
func (e *QueryEditor) Focus() tea.Cmd {
	return e.Area.Focus()
}

// Blur removes keyboard focus
func (e *QueryEditor) Blur() {
	e.Area.Blur()
}

// Update handles messages
func (e *QueryEditor) Update(msg tea.Msg) (*QueryEditor, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+s", "ctrl+enter":
			sql := strings.TrimSpace(e.Area.Value())
			if sql == "" {
				return e, nil
			}
			return e, func() tea.Msg { return RunQueryMsg{SQL: sql} }
		case "esc":
			return e, func() tea.Msg { return CloseQueryEditorMsg{} }
		case "ctrl+p":
			e.recall(1)
			return e, nil
		case "ctrl+n":
			e.recall(-1)
			return e, nil
		}
	}

	var cmd tea.Cmd
	e.Area, cmd = e.Area.Update(msg)
	return e, cmd
}

func (e *QueryEditor) recall(delta int) {
	if len(e.history) == 0 {
		return
	}
	e.historyIdx = min(max(e.historyIdx+delta, -1), len(e.history)-1)
	if e.historyIdx < 0 {
		e.Area.SetValue("")
		return
	}
	e.Area.SetValue(e.history[e.historyIdx])
}

// View renders the editor
func (e *QueryEditor) View() string {
	e.Area.SetWidth(max(e.Width-4, 20))
	e.Area.SetHeight(max(e.Height-4, 3))

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(e.Theme.Info)
	helpStyle := lipgloss.NewStyle().Foreground(e.Theme.Muted).Italic(true)

	content := titleStyle.Render("Raw Query") + "\n" +
		e.Area.View() + "\n" +
		helpStyle.Render("Ctrl+S: run │ Ctrl+P/N: history │ Esc: close")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.BorderFocused).
		Render(content)
}
