// Package selection tracks the multi-select set of card IDs. The set is
// independent of which result set is on screen.
package selection

import (
	"slices"

	"github.com/rebeliceyang/cardex/internal/models"
)

// Set is an unordered set of record identifiers. The zero value is empty and
// ready to use; all operations return a new Set and leave the receiver
// untouched.
type Set struct {
	ids map[string]struct{}
}

// New creates a set holding ids
func New(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle adds id if absent and removes it if present
func (s Set) Toggle(id string) Set {
	out := s.clone()
	if _, ok := out.ids[id]; ok {
		delete(out.ids, id)
	} else {
		out.ids[id] = struct{}{}
	}
	return out
}

// SelectAllVisible replaces the set with exactly the IDs of records
func (s Set) SelectAllVisible(records []models.Card) Set {
	out := Set{ids: make(map[string]struct{}, len(records))}
	for _, r := range records {
		out.ids[r.ID] = struct{}{}
	}
	return out
}

// Clear returns an empty set
func (s Set) Clear() Set {
	return Set{}
}

// Contains reports whether id is selected
func (s Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected IDs
func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected IDs in sorted order
func (s Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Filter returns the records whose ID is selected, in their given order
func (s Set) Filter(records []models.Card) []models.Card {
	var out []models.Card
	for _, r := range records {
		if s.Contains(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

func (s Set) clone() Set {
	out := Set{ids: make(map[string]struct{}, len(s.ids)+1)}
	for id := range s.ids {
		out.ids[id] = struct{}{}
	}
	return out
}
