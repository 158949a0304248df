package components

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

// CommandInputMsg carries a submitted command line
type CommandInputMsg struct {
	Line string
}

// CloseCommandMsg is sent when the command line should be closed
type CloseCommandMsg struct{}

// CommandInput is the ':' command line with a session history
type CommandInput struct {
	Input textinput.Model
	Theme theme.Theme
	Width int

	history    []string
	historyIdx int
}

// NewCommandInput creates a new command line
func NewCommandInput(th theme.Theme) *CommandInput {
	ti := textinput.New()
	ti.Prompt = ":"
	ti.CharLimit = 512
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &CommandInput{
		Input:      ti,
		Theme:      th,
		historyIdx: -1,
	}
}

// Open focuses an empty command line
func (c *CommandInput) Open() tea.Cmd {
	c.Input.SetValue("")
	c.historyIdx = -1
	return c.Input.Focus()
}

// Close blurs the command line
func (c *CommandInput) Close() {
	c.Input.Blur()
}

// Update handles messages
func (c *CommandInput) Update(msg tea.Msg) (*CommandInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			line := c.Input.Value()
			if line != "" {
				c.history = append(c.history, line)
			}
			return c, func() tea.Msg { return CommandInputMsg{Line: line} }
		case "esc":
			return c, func() tea.Msg { return CloseCommandMsg{} }
		case "up":
			c.recall(1)
			return c, nil
		case "down":
			c.recall(-1)
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.Input, cmd = c.Input.Update(msg)
	return c, cmd
}

// recall steps through previous command lines, newest first
func (c *CommandInput) recall(delta int) {
	if len(c.history) == 0 {
		return
	}
	c.historyIdx = min(max(c.historyIdx+delta, -1), len(c.history)-1)
	if c.historyIdx < 0 {
		c.Input.SetValue("")
		return
	}
	c.Input.SetValue(c.history[len(c.history)-1-c.historyIdx])
	c.Input.CursorEnd()
}

// View renders the command line
func (c *CommandInput) View() string {
	c.Input.Width = max(c.Width-4, 10)
	return lipgloss.NewStyle().
		Foreground(c.Theme.Foreground).
		Width(c.Width).
		Render(c.Input.View())
}
