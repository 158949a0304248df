// Package coordinator owns the catalog view state: search text, filters,
// pagination, the raw-query override and the selection. Every transition is
// a pure function from (State, Action) to (State, Effects); fetching is left
// to the caller, which executes the returned Effects.
package coordinator

import (
	"github.com/rebeliceyang/cardex/internal/filter"
	"github.com/rebeliceyang/cardex/internal/models"
	"github.com/rebeliceyang/cardex/internal/selection"
)

// ResultSet is the result currently on screen: either a BrowseResult or an
// OverrideResult, never both.
type ResultSet interface {
	Records() []models.Card
	isResultSet()
}

// BrowseResult is one page of the paginated catalog query
type BrowseResult struct {
	Cards []models.Card
	Total int
}

// Records implements ResultSet
func (b BrowseResult) Records() []models.Card { return b.Cards }

func (BrowseResult) isResultSet() {}

// OverrideResult is the complete, unpaginated output of a raw query. The
// browse page it replaced is kept in Suspended and comes back on exit.
type OverrideResult struct {
	Cards     []models.Card
	Suspended BrowseResult
}

// Records implements ResultSet
func (o OverrideResult) Records() []models.Card { return o.Cards }

func (OverrideResult) isResultSet() {}

// State is the complete view state. Treat it as a value: transitions return
// a new State and never modify the one they were given.
type State struct {
	Search    string
	Filters   models.FilterSet
	Page      int
	PageSize  int
	Results   ResultSet
	Selection selection.Set

	Loading bool
	Err     string // Last browse fetch failure

	Options       models.FilterOptions
	OptionsErr    string
	Attributes    []models.AttributeDefinition
	AttributesErr string
	CustomSources []string

	// Generations of the latest issued request per request class. A
	// completion carrying any other generation is stale.
	BrowseGen     uint64
	OptionsGen    uint64
	AttributesGen uint64
	SourcesGen    uint64
}

// Initial returns the state before anything has been fetched
func Initial(pageSize int, source string) State {
	return State{
		Filters:  models.DefaultFilters(source),
		Page:     1,
		PageSize: pageSize,
		Results:  BrowseResult{},
	}
}

// InOverride reports whether a raw-query result is on screen
func (s State) InOverride() bool {
	_, ok := s.Results.(OverrideResult)
	return ok
}

// EffectiveResultSet returns the result set to display: the override
// sequence when one is live, otherwise the last browse page.
func (s State) EffectiveResultSet() ResultSet {
	if s.Results == nil {
		return BrowseResult{}
	}
	return s.Results
}

// Browse returns the latest browse page, including a suspended one
func (s State) Browse() BrowseResult {
	switch r := s.Results.(type) {
	case BrowseResult:
		return r
	case OverrideResult:
		return r.Suspended
	}
	return BrowseResult{}
}

// Request builds the browse request for the current parameters
func (s State) Request() models.CardQuery {
	return filter.BuildRequest(s.Search, s.Filters, s.Page, s.PageSize)
}

// TotalPages returns the page count of the browse result
func (s State) TotalPages() int {
	total := s.Browse().Total
	if s.PageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + s.PageSize - 1) / s.PageSize
}

// FetchRequest asks the caller to load a browse page
type FetchRequest struct {
	Generation uint64
	Query      models.CardQuery
}

// OptionsRequest asks the caller to load filter options for a source
type OptionsRequest struct {
	Generation uint64
	Source     string
}

// AttributesRequest asks the caller to load attribute definitions
type AttributesRequest struct {
	Generation uint64
}

// CustomSourcesRequest asks the caller to recompute the custom source names
type CustomSourcesRequest struct {
	Generation uint64
}

// Effects lists the data-layer calls a transition made due. A nil field
// means nothing to do for that request class.
type Effects struct {
	Browse        *FetchRequest
	Options       *OptionsRequest
	Attributes    *AttributesRequest
	CustomSources *CustomSourcesRequest
}

// IsZero reports whether there is nothing to do
func (e Effects) IsZero() bool {
	return e.Browse == nil && e.Options == nil && e.Attributes == nil && e.CustomSources == nil
}

// Merge combines two effect lists; later requests win
func (e Effects) Merge(other Effects) Effects {
	if other.Browse != nil {
		e.Browse = other.Browse
	}
	if other.Options != nil {
		e.Options = other.Options
	}
	if other.Attributes != nil {
		e.Attributes = other.Attributes
	}
	if other.CustomSources != nil {
		e.CustomSources = other.CustomSources
	}
	return e
}
