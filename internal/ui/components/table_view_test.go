package components

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/cardex/internal/models"
	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

func testCards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{ID: "base1-" + string(rune('a'+i)), Name: "Card"}
	}
	return cards
}

func TestTableView_SetCardsAddsAttributeColumns(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	cards := []models.Card{
		{ID: "a", Name: "Pikachu", Attributes: map[string]string{"condition": "mint"}},
		{ID: "b", Name: "Raichu"},
	}
	defs := []models.AttributeDefinition{
		{Key: "condition", Label: "Condition"},
		{Key: "notes", Label: "Notes"},
	}

	tv.SetCards(cards, defs)

	last := tv.Columns[len(tv.Columns)-1]
	if last.Key != "attr.condition" || last.Title != "Condition" {
		t.Errorf("expected condition column, got %+v", last)
	}
	if len(tv.Columns) != len(DefaultColumns)+1 {
		t.Errorf("notes has no values and should not get a column, got %d columns", len(tv.Columns))
	}
}

func TestTableView_CursorClampedOnSmallerPage(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.SetCards(testCards(10), nil)
	tv.Cursor = 9

	tv.SetCards(testCards(3), nil)

	if tv.Cursor != 2 {
		t.Errorf("expected cursor 2, got %d", tv.Cursor)
	}
}

func TestTableView_MoveCursorScrolls(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.SetCards(testCards(10), nil)
	tv.VisibleRows = 3

	tv.MoveCursor(5)
	if tv.Cursor != 5 || tv.TopRow != 3 {
		t.Errorf("expected cursor 5 top 3, got cursor %d top %d", tv.Cursor, tv.TopRow)
	}

	tv.MoveCursor(-100)
	if tv.Cursor != 0 || tv.TopRow != 0 {
		t.Errorf("expected cursor 0 top 0, got cursor %d top %d", tv.Cursor, tv.TopRow)
	}

	tv.JumpToEnd()
	if tv.Cursor != 9 {
		t.Errorf("expected cursor 9, got %d", tv.Cursor)
	}
}

func TestTableView_ViewMarksSelection(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.Width, tv.Height = 120, 10
	tv.SetCards([]models.Card{{ID: "a", Name: "Pikachu"}, {ID: "b", Name: "Raichu"}}, nil)
	tv.Selected = func(id string) bool { return id == "b" }

	out := tv.View()

	if strings.Count(out, selectedMark) != 1 {
		t.Errorf("expected exactly one selection mark in:\n%s", out)
	}
}

func TestTableView_EmptyPage(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.Width, tv.Height = 80, 6
	tv.SetCards(nil, nil)

	if _, ok := tv.Current(); ok {
		t.Error("expected no current card")
	}
	if !strings.Contains(tv.View(), "No cards") {
		t.Error("expected empty placeholder")
	}
}

func TestPad_WideRunes(t *testing.T) {
	got := pad("ピカチュウ", 6)
	if w := runewidth.StringWidth(got); w != 6 {
		t.Errorf("expected width 6, got %d (%q)", w, got)
	}
	if got := pad("Mew", 5); got != "Mew  " {
		t.Errorf("expected right fill, got %q", got)
	}
}
