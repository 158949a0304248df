package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/cardex/internal/models"
	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

// Column is a card field shown in the table
type Column struct {
	Key   string // Argument to models.Card.Field
	Title string
}

// DefaultColumns are shown for every result set
var DefaultColumns = []Column{
	{Key: "id", Title: "ID"},
	{Key: "name", Title: "Name"},
	{Key: "set_name", Title: "Set"},
	{Key: "number", Title: "No."},
	{Key: "rarity", Title: "Rarity"},
	{Key: "types", Title: "Types"},
	{Key: "hp", Title: "HP"},
	{Key: "pokedex", Title: "Dex"},
	{Key: "source", Title: "Source"},
}

const (
	selectedMark = "●"
	minColWidth  = 3
	maxColWidth  = 32
)

// TableView displays a page of cards with a cursor and selection marks
type TableView struct {
	Columns []Column
	Cards   []models.Card
	Width   int
	Height  int
	Theme   theme.Theme

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	Cursor      int

	// Selected reports whether a card is in the selection
	Selected func(id string) bool

	// Status is shown under the rows
	Status string

	// Column widths (calculated)
	ColumnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Columns:  DefaultColumns,
		Theme:    th,
		Selected: func(string) bool { return false },
	}
}

// SetCards replaces the displayed cards. Attribute columns are appended for
// every user attribute present in the page. The cursor stays in range.
func (tv *TableView) SetCards(cards []models.Card, attributes []models.AttributeDefinition) {
	tv.Cards = cards
	tv.Columns = append([]Column(nil), DefaultColumns...)
	for _, def := range attributes {
		if hasAttribute(cards, def.Key) {
			tv.Columns = append(tv.Columns, Column{
				Key:   models.AttributeFilterPrefix + def.Key,
				Title: def.Label,
			})
		}
	}
	if tv.Cursor >= len(cards) {
		tv.Cursor = max(len(cards)-1, 0)
	}
	if tv.TopRow > tv.Cursor {
		tv.TopRow = tv.Cursor
	}
	tv.calculateColumnWidths()
}

// Reset moves the cursor back to the first row
func (tv *TableView) Reset() {
	tv.Cursor = 0
	tv.TopRow = 0
}

// Current returns the card under the cursor
func (tv *TableView) Current() (models.Card, bool) {
	if tv.Cursor < 0 || tv.Cursor >= len(tv.Cards) {
		return models.Card{}, false
	}
	return tv.Cards[tv.Cursor], true
}

func hasAttribute(cards []models.Card, key string) bool {
	for _, c := range cards {
		if _, ok := c.Attributes[key]; ok {
			return true
		}
	}
	return false
}

// calculateColumnWidths sizes each column to its widest cell in display cells
func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))

	for i, col := range tv.Columns {
		tv.ColumnWidths[i] = runewidth.StringWidth(col.Title)
	}

	for _, card := range tv.Cards {
		for i, col := range tv.Columns {
			if w := runewidth.StringWidth(card.Field(col.Key)); w > tv.ColumnWidths[i] {
				tv.ColumnWidths[i] = w
			}
		}
	}

	for i := range tv.ColumnWidths {
		tv.ColumnWidths[i] = min(max(tv.ColumnWidths[i], minColWidth), maxColWidth)
	}
}

// View renders the table
func (tv *TableView) View() string {
	var b strings.Builder

	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	// Header + separator + status
	tv.VisibleRows = max(tv.Height-3, 1)

	if len(tv.Cards) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.Muted).Render("  No cards"))
	}

	endRow := min(tv.TopRow+tv.VisibleRows, len(tv.Cards))
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(i))
		if i < endRow-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tv.renderStatus())

	return lipgloss.NewStyle().Width(tv.Width).Height(tv.Height).Render(b.String())
}

func (tv *TableView) renderHeader() string {
	parts := make([]string, len(tv.Columns))
	for i, col := range tv.Columns {
		parts[i] = pad(col.Title, tv.ColumnWidths[i])
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader).
		Background(tv.Theme.TableRowOdd)
	return headerStyle.Render("   " + strings.Join(parts, " │ ") + " ")
}

func (tv *TableView) renderSeparator() string {
	parts := make([]string, len(tv.ColumnWidths))
	for i, width := range tv.ColumnWidths {
		parts[i] = strings.Repeat("─", width)
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("───" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(index int) string {
	card := tv.Cards[index]
	parts := make([]string, len(tv.Columns))
	for i, col := range tv.Columns {
		parts[i] = pad(card.Field(col.Key), tv.ColumnWidths[i])
	}

	mark := "  "
	if tv.Selected(card.ID) {
		mark = lipgloss.NewStyle().Foreground(tv.Theme.SelectionMark).Render(selectedMark) + " "
	}

	line := " " + strings.Join(parts, " │ ") + " "

	style := lipgloss.NewStyle()
	if card.IsCustom() {
		style = style.Foreground(tv.Theme.CustomRecord)
	}
	if index == tv.Cursor {
		style = style.Background(tv.Theme.TableRowCursor).Bold(true)
	} else if index%2 == 1 {
		style = style.Background(tv.Theme.TableRowOdd)
	}
	return mark + style.Render(line)
}

func (tv *TableView) renderStatus() string {
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Muted).
		Italic(true).
		Render(" " + tv.Status)
}

// pad truncates or right-fills s to exactly width display cells
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// MoveCursor moves the cursor up or down
func (tv *TableView) MoveCursor(delta int) {
	tv.Cursor += delta

	if tv.Cursor >= len(tv.Cards) {
		tv.Cursor = len(tv.Cards) - 1
	}
	if tv.Cursor < 0 {
		tv.Cursor = 0
	}

	visible := max(tv.VisibleRows, 1)
	if tv.Cursor < tv.TopRow {
		tv.TopRow = tv.Cursor
	}
	if tv.Cursor >= tv.TopRow+visible {
		tv.TopRow = tv.Cursor - visible + 1
	}
}

// JumpToStart moves the cursor to the first row
func (tv *TableView) JumpToStart() {
	tv.Reset()
}

// JumpToEnd moves the cursor to the last row
func (tv *TableView) JumpToEnd() {
	tv.MoveCursor(len(tv.Cards))
}
