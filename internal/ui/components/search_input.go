package components

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

// SearchInputMsg is sent when the search text has settled
type SearchInputMsg struct {
	Query string
}

// CloseSearchMsg is sent when the search box should be closed
type CloseSearchMsg struct{}

// searchDebounceMsg fires after the debounce delay. Only the one carrying
// the latest sequence number is turned into a SearchInputMsg.
type searchDebounceMsg struct {
	seq int
}

// SearchInput is a search box that emits SearchInputMsg once typing pauses
// for Debounce
type SearchInput struct {
	Input    textinput.Model
	Theme    theme.Theme
	Width    int
	Debounce time.Duration

	seq       int
	submitted string
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme, debounce time.Duration) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Search names..."
	ti.Prompt = "/ "
	ti.CharLimit = 256
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &SearchInput{
		Input:    ti,
		Theme:    th,
		Debounce: debounce,
	}
}

// Open focuses the input, starting from the current search text
func (s *SearchInput) Open(current string) tea.Cmd {
	s.Input.SetValue(current)
	s.Input.CursorEnd()
	s.submitted = current
	return s.Input.Focus()
}

// Close blurs the input and drops any pending debounce
func (s *SearchInput) Close() {
	s.seq++
	s.Input.Blur()
}

// Value returns the current text
func (s *SearchInput) Value() string {
	return s.Input.Value()
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	switch msg := msg.(type) {
	case searchDebounceMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		return s, s.submit()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			s.seq++
			cmd := s.submit()
			return s, tea.Batch(cmd, func() tea.Msg { return CloseSearchMsg{} })
		case "esc":
			return s, func() tea.Msg { return CloseSearchMsg{} }
		}
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() == before {
		return s, cmd
	}

	s.seq++
	seq := s.seq
	tick := tea.Tick(s.Debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
	return s, tea.Batch(cmd, tick)
}

// submit emits the current text unless it was already submitted
func (s *SearchInput) submit() tea.Cmd {
	query := s.Input.Value()
	if query == s.submitted {
		return nil
	}
	s.submitted = query
	return func() tea.Msg {
		return SearchInputMsg{Query: query}
	}
}

// View renders the search input
func (s *SearchInput) View() string {
	s.Input.Width = max(s.Width-8, 20)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(max(s.Width-2, 24))

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Muted).
		Italic(true)

	helpText := helpStyle.Render("Enter: apply │ Esc: close")
	return boxStyle.Render(s.Input.View() + "\n" + helpText)
}
