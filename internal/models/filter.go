package models

import (
	"maps"
	"slices"
	"strings"
)

// FilterSet maps filter keys to values. An empty value means the key is
// unset, never an error.
type FilterSet map[string]string

// Recognised filter keys
const (
	FilterSource    = "source"
	FilterSupertype = "supertype"
	FilterSubtype   = "subtype"
	FilterType      = "type"
	FilterRarity    = "rarity"
	FilterSetID     = "set_id"
	FilterRegion    = "region"
	FilterArtist    = "artist"
	FilterHPMin     = "hp_min"
	FilterHPMax     = "hp_max"
	FilterSortBy    = "sort_by"
	FilterSortDir   = "sort_dir"

	// AttributeFilterPrefix marks an equality filter on a user attribute,
	// e.g. "attr.condition" = "mint".
	AttributeFilterPrefix = "attr."
)

// Data sources. SourceAll is the "all sources" sentinel.
const (
	SourceAll    = ""
	SourceTCG    = "TCG"
	SourcePocket = "Pocket"
	SourceCustom = "Custom"
)

// Sort controls
const (
	SortAsc  = "asc"
	SortDesc = "desc"

	// DefaultSortBy is used when a concrete source is selected.
	DefaultSortBy = "number"
	// AllSourcesSortBy is the source-agnostic sort used for SourceAll.
	AllSourcesSortBy = "pokedex"
	DefaultSortDir   = SortAsc
)

// SortKeys lists the sort keys offered by the UI, in cycle order.
var SortKeys = []string{"pokedex", "number", "name", "hp", "rarity", "set_id"}

// FilterKeys lists every recognised non-attribute filter key.
var FilterKeys = []string{
	FilterSource, FilterSupertype, FilterSubtype, FilterType, FilterRarity,
	FilterSetID, FilterRegion, FilterArtist, FilterHPMin, FilterHPMax,
	FilterSortBy, FilterSortDir,
}

// DefaultFilters returns the filter set for a freshly selected source. Both
// "switch source" and "clear filters" reset to exactly this key set.
func DefaultFilters(source string) FilterSet {
	sortBy := DefaultSortBy
	if source == SourceAll {
		sortBy = AllSourcesSortBy
	}
	fs := FilterSet{
		FilterSortBy:  sortBy,
		FilterSortDir: DefaultSortDir,
	}
	if source != SourceAll {
		fs[FilterSource] = source
	}
	return fs
}

// Get returns the value for key, or "" when unset
func (f FilterSet) Get(key string) string {
	if f == nil {
		return ""
	}
	return f[key]
}

// Source returns the active data-source selector
func (f FilterSet) Source() string {
	return f.Get(FilterSource)
}

// SortBy returns the sort key, falling back to the source default
func (f FilterSet) SortBy() string {
	if v := f.Get(FilterSortBy); v != "" {
		return v
	}
	if f.Source() == SourceAll {
		return AllSourcesSortBy
	}
	return DefaultSortBy
}

// SortDir returns "asc" or "desc"
func (f FilterSet) SortDir() string {
	if strings.EqualFold(f.Get(FilterSortDir), SortDesc) {
		return SortDesc
	}
	return SortAsc
}

// Clone returns an independent copy
func (f FilterSet) Clone() FilterSet {
	out := make(FilterSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge returns a new set with partial applied on top of f. Empty values in
// partial unset the key.
func (f FilterSet) Merge(partial FilterSet) FilterSet {
	out := f.Clone()
	for k, v := range partial {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// IsSortKey reports whether key is one of the sort controls
func IsSortKey(key string) bool {
	return key == FilterSortBy || key == FilterSortDir
}

// OnlySortKeys reports whether every key in f is a sort control
func (f FilterSet) OnlySortKeys() bool {
	for k := range f {
		if !IsSortKey(k) {
			return false
		}
	}
	return true
}

// AttributeFilters returns the attr.<key> constraints with the prefix removed
func (f FilterSet) AttributeFilters() map[string]string {
	out := make(map[string]string)
	for k, v := range f {
		if v == "" || !strings.HasPrefix(k, AttributeFilterPrefix) {
			continue
		}
		out[strings.TrimPrefix(k, AttributeFilterPrefix)] = v
	}
	return out
}

// SortedKeys returns the keys with a non-empty value in lexical order
func (f FilterSet) SortedKeys() []string {
	keys := slices.Sorted(maps.Keys(f))
	return slices.DeleteFunc(keys, func(k string) bool { return f[k] == "" })
}
