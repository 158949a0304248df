package models

import "time"

// CardQuery is the request the query builder hands to the data layer
type CardQuery struct {
	Search   string
	Filters  FilterSet
	Page     int
	PageSize int
}

// Offset returns the row offset of the requested page
func (q CardQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// CardPage is one page of browse results
type CardPage struct {
	Records []Card
	Total   int
}

// SetOption is a selectable set in the filter options
type SetOption struct {
	ID   string `db:"set_id"`
	Name string `db:"set_name"`
}

// FilterOptions holds the distinct values offered for each filter
type FilterOptions struct {
	Sources    []string
	Supertypes []string
	Subtypes   []string
	Types      []string
	Rarities   []string
	Sets       []SetOption
	Regions    []string
	Artists    []string
}

// ChangeSet describes what a mutation touched
type ChangeSet struct {
	Attributes bool `json:"attributes"`
	Cards      bool `json:"cards"`
}

// Any reports whether anything changed
func (c ChangeSet) Any() bool {
	return c.Attributes || c.Cards
}

// Union merges two change sets
func (c ChangeSet) Union(other ChangeSet) ChangeSet {
	return ChangeSet{
		Attributes: c.Attributes || other.Attributes,
		Cards:      c.Cards || other.Cards,
	}
}

// RawResult is the outcome of an ad-hoc query
type RawResult struct {
	Columns      []string
	Records      []Card
	Changes      ChangeSet
	ReadOnly     bool
	RowsAffected int64
	Duration     time.Duration
}
