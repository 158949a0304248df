package app

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rebeliceyang/cardex/internal/models"
)

func ptr(f float64) *float64 { return &f }

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{
			name: "filter pairs",
			line: "filter rarity=Rare hp_min=100",
			want: FilterCommand{Partial: models.FilterSet{"rarity": "Rare", "hp_min": "100"}},
		},
		{
			name: "filter empty value unsets",
			line: "f region=",
			want: FilterCommand{Partial: models.FilterSet{"region": ""}},
		},
		{
			name: "filter attribute",
			line: `filter attr.condition=near_mint artist="Ken Sugimori"`,
			want: FilterCommand{Partial: models.FilterSet{"attr.condition": "near_mint", "artist": "Ken Sugimori"}},
		},
		{
			name: "source concrete",
			line: "source Pocket",
			want: FilterCommand{Partial: models.FilterSet{"source": "Pocket"}},
		},
		{
			name: "source all",
			line: "source all",
			want: FilterCommand{Partial: models.FilterSet{"source": ""}},
		},
		{
			name: "bare source means all",
			line: "source",
			want: FilterCommand{Partial: models.FilterSet{"source": ""}},
		},
		{
			name: "custom source with spaces",
			line: `source "My Proxies"`,
			want: FilterCommand{Partial: models.FilterSet{"source": "My Proxies"}},
		},
		{
			name: "sort with direction",
			line: "sort hp desc",
			want: FilterCommand{Partial: models.FilterSet{"sort_by": "hp", "sort_dir": "desc"}},
		},
		{name: "clear", line: "clear", want: ClearCommand{}},
		{name: "page", line: "page 3", want: PageCommand{Page: 3}},
		{
			name: "attr add select",
			line: "attr add grade select label=Grade options=psa10,psa9",
			want: AttrAddCommand{Definition: models.AttributeDefinition{
				Key: "grade", Label: "Grade", Type: models.AttributeSelect, Options: []string{"psa10", "psa9"},
			}},
		},
		{
			name: "attr add number bounds",
			line: "attr add price number min=0 max=500",
			want: AttrAddCommand{Definition: models.AttributeDefinition{
				Key: "price", Label: "price", Type: models.AttributeNumber,
				Bounds: &models.NumberBounds{Min: ptr(0), Max: ptr(500)},
			}},
		},
		{name: "attr rm", line: "attr rm grade", want: AttrRemoveCommand{Key: "grade"}},
		{name: "set", line: "set condition=mint", want: SetAttrCommand{Key: "condition", Value: "mint"}},
		{name: "set with prefix", line: "set attr.notes=", want: SetAttrCommand{Key: "notes", Value: ""}},
		{
			name: "card add",
			line: `card add id=custom-1 name="Fake Pikachu" source="My Proxies" types=Lightning pokedex=25`,
			want: CardAddCommand{Card: models.Card{
				ID: "custom-1", Name: "Fake Pikachu", Source: "Custom", CustomSource: "My Proxies",
				Types: []string{"Lightning"}, Pokedex: []int{25},
			}},
		},
		{name: "save", line: "save rares only holos", want: SaveCommand{Name: "rares", Description: "only holos"}},
		{name: "save with tags", line: "save rares tags=binder,holo only holos", want: SaveCommand{Name: "rares", Description: "only holos", Tags: []string{"binder", "holo"}}},
		{name: "load", line: "load rares", want: LoadCommand{Name: "rares"}},
		{name: "export", line: "export out.json", want: ExportCommand{Path: "out.json"}},
		{name: "history", line: "history hp_value", want: HistoryCommand{Text: "hp_value"}},
		{name: "quit", line: "q", want: QuitCommand{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if err != nil {
				t.Fatalf("ParseCommand(%q) error: %v", tt.line, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseCommand(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []struct {
		line    string
		wantErr error
	}{
		{line: "   ", wantErr: ErrEmptyCommand},
		{line: "frobnicate", wantErr: ErrUnknownCommand},
		{line: "page", wantErr: ErrUsage},
		{line: "filter", wantErr: ErrUsage},
		{line: "attr add x", wantErr: ErrUsage},
		{line: "set condition", wantErr: ErrUsage},
		{line: "card", wantErr: ErrUsage},
	}
	for _, tt := range tests {
		_, err := ParseCommand(tt.line)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseCommand(%q) = %v, want %v", tt.line, err, tt.wantErr)
		}
	}

	for _, line := range []string{
		"filter color=red",
		"filter rarity",
		"page 0",
		"page two",
		"sort weight",
		"sort hp sideways",
		`filter artist="unterminated`,
		"attr add price number min=cheap",
		"card add id=custom-1 colour=red",
	} {
		if _, err := ParseCommand(line); err == nil {
			t.Errorf("ParseCommand(%q) expected error", line)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	got, err := splitArgs(`card add name="Dark Charizard"  source=""  x`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"card", "add", "name=Dark Charizard", "source=", "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("splitArgs mismatch (-want +got):\n%s", diff)
	}
}
