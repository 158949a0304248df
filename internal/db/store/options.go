package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/rebeliceyang/cardex/internal/models"
)

// FetchFilterOptions returns the distinct values of every filterable column
// within a source. Sources are always listed across the whole catalog.
func (s *Store) FetchFilterOptions(ctx context.Context, source string) (models.FilterOptions, error) {
	where, args, err := s.builder.BuildQueryWhere(models.CardQuery{
		Filters: models.FilterSet{models.FilterSource: source},
	})
	if err != nil {
		return models.FilterOptions{}, fmt.Errorf("failed to build query: %w", err)
	}

	var opts models.FilterOptions
	if opts.Sources, err = s.distinct(ctx, "source", "", nil); err != nil {
		return opts, err
	}

	scalar := []struct {
		column string
		dest   *[]string
	}{
		{"supertype", &opts.Supertypes},
		{"rarity", &opts.Rarities},
		{"region", &opts.Regions},
		{"artist", &opts.Artists},
	}
	for _, c := range scalar {
		if *c.dest, err = s.distinct(ctx, c.column, where, args); err != nil {
			return opts, err
		}
	}

	lists := []struct {
		column string
		dest   *[]string
	}{
		{"subtypes", &opts.Subtypes},
		{"types", &opts.Types},
	}
	for _, c := range lists {
		raw, err := s.distinct(ctx, c.column, where, args)
		if err != nil {
			return opts, err
		}
		*c.dest = splitDistinct(raw)
	}

	err = s.db.SelectContext(ctx, &opts.Sets,
		"SELECT DISTINCT set_id, set_name FROM cards "+and(where, "set_id <> ''")+" ORDER BY set_id", args...)
	if err != nil {
		return opts, fmt.Errorf("failed to load sets: %w", err)
	}

	return opts, nil
}

func (s *Store) distinct(ctx context.Context, column, where string, args []interface{}) ([]string, error) {
	var values []string
	query := fmt.Sprintf("SELECT DISTINCT %[1]s FROM cards %[2]s ORDER BY %[1]s", column, and(where, column+" <> ''"))
	if err := s.db.SelectContext(ctx, &values, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load %s values: %w", column, err)
	}
	return values, nil
}

// and appends a condition to an optional WHERE clause
func and(where, cond string) string {
	if where == "" {
		return "WHERE " + cond
	}
	return where + " AND " + cond
}

// splitDistinct flattens comma separated lists into sorted unique values
func splitDistinct(lists []string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, models.SplitList(l)...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
