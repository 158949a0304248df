package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rebeliceyang/cardex/internal/models"
)

func TestBuildQueryWhere(t *testing.T) {
	tests := []struct {
		name        string
		placeholder Placeholder
		query       models.CardQuery
		wantSQL     string
		wantArgs    []interface{}
	}{
		{
			name:        "no constraints",
			placeholder: Question,
			query:       models.CardQuery{Filters: models.FilterSet{"sort_by": "name"}},
			wantSQL:     "",
			wantArgs:    nil,
		},
		{
			name:        "search and source",
			placeholder: Question,
			query: models.CardQuery{
				Search:  " Char ",
				Filters: models.FilterSet{"source": "TCG", "set_id": "base1", "sort_by": "pokedex"},
			},
			wantSQL:  "WHERE source = ? AND set_id = ? AND (LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(id) LIKE ? ESCAPE '\\')",
			wantArgs: []interface{}{"TCG", "base1", "%char%", "%char%"},
		},
		{
			name:        "dollar placeholders keep counting through groups",
			placeholder: Dollar,
			query: models.CardQuery{
				Search:  "mew",
				Filters: models.FilterSet{"rarity": "Rare", "type": "Psychic", "attr.condition": "mint"},
			},
			wantSQL: "WHERE (',' || types || ',') LIKE $1 ESCAPE '\\' AND rarity = $2 AND " +
				"EXISTS (SELECT 1 FROM card_attributes ca WHERE ca.card_id = cards.id AND ca.attr_key = $3 AND ca.value = $4) AND " +
				"(LOWER(name) LIKE $5 ESCAPE '\\' OR LOWER(id) LIKE $6 ESCAPE '\\')",
			wantArgs: []interface{}{"%,Psychic,%", "Rare", "condition", "mint", "%mew%", "%mew%"},
		},
		{
			name:        "custom source matches reserved prefix",
			placeholder: Question,
			query:       models.CardQuery{Filters: models.FilterSet{"source": "Custom"}},
			wantSQL:     "WHERE id LIKE ? ESCAPE '\\'",
			wantArgs:    []interface{}{"custom-%"},
		},
		{
			name:        "search wildcards match literally",
			placeholder: Question,
			query:       models.CardQuery{Search: `50%_off\`},
			wantSQL:     "WHERE (LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(id) LIKE ? ESCAPE '\\')",
			wantArgs:    []interface{}{`%50\%\_off\\%`, `%50\%\_off\\%`},
		},
		{
			name:        "hp range ignores unparsable bounds",
			placeholder: Question,
			query:       models.CardQuery{Filters: models.FilterSet{"hp_min": "60", "hp_max": "lots"}},
			wantSQL:     "WHERE hp_value >= ?",
			wantArgs:    []interface{}{60.0},
		},
		{
			name:        "unknown keys add nothing",
			placeholder: Question,
			query:       models.CardQuery{Filters: models.FilterSet{"flavor": "sweet", "region": ""}},
			wantSQL:     "",
			wantArgs:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := NewBuilder(tt.placeholder).BuildQueryWhere(tt.query)
			if err != nil {
				t.Fatalf("BuildQueryWhere failed: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\n got: %s", tt.wantSQL, sql)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildWhere_UnsupportedOperator(t *testing.T) {
	for _, op := range []models.FilterOperator{"~", "!=", "IS NULL"} {
		group := models.FilterGroup{Conditions: []models.FilterCondition{{Column: "name", Operator: op}}}
		if _, _, err := NewBuilder(Question).BuildWhere(group); err == nil {
			t.Errorf("expected an error for operator %q", op)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"char":     "char",
		"_":        `\_`,
		"100%":     `100\%`,
		`a\b`:      `a\\b`,
		"mr._mime": `mr.\_mime`,
	}
	for in, want := range tests {
		if got := EscapeLike(in); got != want {
			t.Errorf("EscapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOrderBy(t *testing.T) {
	b := NewBuilder(Question)
	tests := map[string]struct {
		filters models.FilterSet
		want    string
	}{
		"all sources default": {models.FilterSet{}, "ORDER BY pokedex_first IS NULL, pokedex_first ASC, id ASC"},
		"pokedex desc":        {models.FilterSet{"sort_by": "pokedex", "sort_dir": "desc"}, "ORDER BY pokedex_first IS NULL, pokedex_first DESC, id ASC"},
		"source default":      {models.FilterSet{"source": "TCG"}, "ORDER BY COALESCE(number_value, 0) ASC, id ASC"},
		"hp":                  {models.FilterSet{"sort_by": "hp", "sort_dir": "desc"}, "ORDER BY COALESCE(hp_value, 0) DESC, id ASC"},
		"text column":         {models.FilterSet{"sort_by": "rarity"}, "ORDER BY LOWER(COALESCE(rarity, '')) ASC, id ASC"},
		"unknown key":         {models.FilterSet{"sort_by": "name; DROP TABLE cards"}, "ORDER BY LOWER(name) ASC, id ASC"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := b.OrderBy(tt.filters); got != tt.want {
				t.Errorf("OrderBy() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildRequest_CopiesFilters(t *testing.T) {
	filters := models.FilterSet{"source": "TCG"}
	q := BuildRequest("char", filters, 1, 40)
	filters["source"] = "Pocket"

	if q.Filters.Source() != "TCG" {
		t.Errorf("request shares the filter map with the caller")
	}
	if q.Page != 1 || q.PageSize != 40 || q.Search != "char" {
		t.Errorf("unexpected request: %+v", q)
	}
}
