// Package sorting re-orders an already materialised result set on the
// client, without going back to the database.
package sorting

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rebeliceyang/cardex/internal/models"
)

// Records returns a new slice ordered by key and direction. The sort is
// stable: records with equal keys keep their original relative order.
func Records(records []models.Card, key, dir string) []models.Card {
	out := slices.Clone(records)
	slices.SortStableFunc(out, Comparator(key, dir))
	return out
}

// Comparator returns the comparison used by Records
func Comparator(key, dir string) func(a, b models.Card) int {
	sign := 1
	if strings.EqualFold(dir, models.SortDesc) {
		sign = -1
	}

	switch key {
	case "pokedex":
		return func(a, b models.Card) int {
			// Missing numbers go last regardless of direction
			switch {
			case len(a.Pokedex) == 0 && len(b.Pokedex) == 0:
				return 0
			case len(a.Pokedex) == 0:
				return 1
			case len(b.Pokedex) == 0:
				return -1
			}
			return sign * cmp.Compare(a.Pokedex[0], b.Pokedex[0])
		}
	case "number":
		return func(a, b models.Card) int {
			return sign * cmp.Compare(ParseLeadingFloat(a.Number), ParseLeadingFloat(b.Number))
		}
	case "hp":
		return func(a, b models.Card) int {
			return sign * cmp.Compare(ToNumber(a.HP), ToNumber(b.HP))
		}
	default:
		return func(a, b models.Card) int {
			return sign * strings.Compare(strings.ToLower(a.Field(key)), strings.ToLower(b.Field(key)))
		}
	}
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseLeadingFloat parses the numeric prefix of s: "25a" is 25, "TG05" is 0
func ParseLeadingFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ToNumber converts the whole of s to a number; anything non-numeric is 0
func ToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
