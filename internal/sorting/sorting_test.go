package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rebeliceyang/cardex/internal/models"
)

func ids(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestRecords_Pokedex_MissingLastBothDirections(t *testing.T) {
	cards := []models.Card{
		{ID: "none-1"},
		{ID: "bulbasaur", Pokedex: []int{1}},
		{ID: "none-2"},
		{ID: "charmander", Pokedex: []int{4, 5}},
		{ID: "pikachu", Pokedex: []int{25}},
	}

	asc := Records(cards, "pokedex", models.SortAsc)
	assert.Equal(t, []string{"bulbasaur", "charmander", "pikachu", "none-1", "none-2"}, ids(asc))

	desc := Records(cards, "pokedex", models.SortDesc)
	assert.Equal(t, []string{"pikachu", "charmander", "bulbasaur", "none-1", "none-2"}, ids(desc))
}

func TestRecords_Number_UnparsableIsZero(t *testing.T) {
	cards := []models.Card{
		{ID: "a", Number: "10"},
		{ID: "b", Number: "TG05"},
		{ID: "c", Number: "2"},
		{ID: "d", Number: "25a"},
	}

	got := Records(cards, "number", models.SortAsc)
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(got))
}

func TestRecords_HP_NonNumericIsZero(t *testing.T) {
	cards := []models.Card{
		{ID: "a", HP: "120"},
		{ID: "b", HP: ""},
		{ID: "c", HP: "60"},
		{ID: "d", HP: "60+"},
	}

	got := Records(cards, "hp", models.SortDesc)
	assert.Equal(t, []string{"a", "c", "b", "d"}, ids(got))
}

func TestRecords_String_CaseInsensitive(t *testing.T) {
	cards := []models.Card{
		{ID: "1", Name: "charizard"},
		{ID: "2", Name: "Blastoise"},
		{ID: "3", Name: "alakazam"},
		{ID: "4"},
	}

	got := Records(cards, "name", models.SortAsc)
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(got))
}

func TestRecords_String_AttributeField(t *testing.T) {
	cards := []models.Card{
		{ID: "1", Attributes: map[string]string{"condition": "poor"}},
		{ID: "2", Attributes: map[string]string{"condition": "Mint"}},
		{ID: "3"},
	}

	got := Records(cards, "condition", models.SortAsc)
	assert.Equal(t, []string{"3", "2", "1"}, ids(got))
}

func TestRecords_StableForEqualKeys(t *testing.T) {
	cards := []models.Card{
		{ID: "x1", HP: "60"},
		{ID: "y", HP: "90"},
		{ID: "x2", HP: "60"},
		{ID: "x3", HP: "60"},
	}

	asc := Records(cards, "hp", models.SortAsc)
	assert.Equal(t, []string{"x1", "x2", "x3", "y"}, ids(asc))

	desc := Records(cards, "hp", models.SortDesc)
	assert.Equal(t, []string{"y", "x1", "x2", "x3"}, ids(desc))
}

func TestRecords_Idempotent(t *testing.T) {
	cards := []models.Card{
		{ID: "a", Number: "3"}, {ID: "b", Number: "1"}, {ID: "c", Number: "1"}, {ID: "d", Number: "x"},
	}
	for _, dir := range []string{models.SortAsc, models.SortDesc} {
		once := Records(cards, "number", dir)
		twice := Records(once, "number", dir)
		assert.Equal(t, ids(once), ids(twice), dir)
	}
}

func TestRecords_DoesNotMutateInput(t *testing.T) {
	cards := []models.Card{{ID: "b", Name: "b"}, {ID: "a", Name: "a"}}
	_ = Records(cards, "name", models.SortAsc)
	assert.Equal(t, []string{"b", "a"}, ids(cards))
}

func TestParseLeadingFloat(t *testing.T) {
	tests := map[string]float64{
		"":      0,
		"12":    12,
		" 7.5 ": 7.5,
		"25a":   25,
		"SV001": 0,
		"-3":    -3,
		".5":    0.5,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLeadingFloat(in), in)
	}
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, 0.0, ToNumber(""))
	assert.Equal(t, 70.0, ToNumber(" 70 "))
	assert.Equal(t, 0.0, ToNumber("70+"))
	assert.Equal(t, 0.0, ToNumber("NaN"))
}
