package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

func TestQueryEditor_RunTrimsAndIgnoresEmpty(t *testing.T) {
	e := NewQueryEditor(theme.DefaultTheme())
	e.Focus()

	if _, cmd := e.Update(tea.KeyMsg{Type: tea.KeyCtrlS}); cmd != nil {
		t.Error("empty editor should not run")
	}

	e.SetContent("  SELECT * FROM cards  ")
	_, cmd := e.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected run command")
	}
	if msg := cmd().(RunQueryMsg); msg.SQL != "SELECT * FROM cards" {
		t.Errorf("unexpected SQL %q", msg.SQL)
	}
}

func TestQueryEditor_HistoryRecall(t *testing.T) {
	e := NewQueryEditor(theme.DefaultTheme())
	e.SetHistory([]string{"SELECT 2", "SELECT 1"})

	e.recall(1)
	if e.Content() != "SELECT 2" {
		t.Errorf("expected newest first, got %q", e.Content())
	}
	e.recall(1)
	e.recall(1)
	if e.Content() != "SELECT 1" {
		t.Errorf("expected recall to stop at oldest, got %q", e.Content())
	}
	e.recall(-1)
	e.recall(-1)
	if e.Content() != "" {
		t.Errorf("expected empty editor past newest, got %q", e.Content())
	}
}
