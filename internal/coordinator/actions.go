package coordinator

import "github.com/rebeliceyang/cardex/internal/models"

// Action is a user action or a data-layer completion fed into Reduce
type Action interface {
	isAction()
}

// Init issues the first browse fetch and every auxiliary refresh
type Init struct{}

// SetSearch replaces the free-text search. The UI debounces keystrokes
// before sending it.
type SetSearch struct {
	Text string
}

// SetFilters merges Partial into the filter set
type SetFilters struct {
	Partial models.FilterSet
}

// ClearFilters resets every filter except the source
type ClearFilters struct{}

// SetPage moves to a browse page. Ignored while an override is live.
type SetPage struct {
	Page int
}

// EnterOverride displays a raw-query result instead of the browse page
type EnterOverride struct {
	Records []models.Card
}

// ExitOverride returns to browse mode and clears the selection
type ExitOverride struct{}

// Refresh re-issues the current browse query without resetting the page
type Refresh struct{}

// RefreshFilterOptions reloads the filter options for the current source
type RefreshFilterOptions struct{}

// RefreshAttributes reloads the attribute definitions
type RefreshAttributes struct{}

// RefreshCustomSources recomputes the custom source names
type RefreshCustomSources struct{}

// ToggleSelection adds or removes one record from the selection
type ToggleSelection struct {
	ID string
}

// SelectAllVisible replaces the selection with the displayed records
type SelectAllVisible struct{}

// ClearSelection empties the selection
type ClearSelection struct{}

// BrowseLoaded delivers the outcome of a browse fetch
type BrowseLoaded struct {
	Generation uint64
	Page       models.CardPage
	Err        error
}

// OptionsLoaded delivers the outcome of a filter options fetch
type OptionsLoaded struct {
	Generation uint64
	Options    models.FilterOptions
	Err        error
}

// AttributesLoaded delivers the outcome of an attribute definitions fetch
type AttributesLoaded struct {
	Generation uint64
	Attributes []models.AttributeDefinition
	Err        error
}

// CustomSourcesLoaded delivers the recomputed custom source names
type CustomSourcesLoaded struct {
	Generation uint64
	Names      []string
}

func (Init) isAction()                 {}
func (SetSearch) isAction()            {}
func (SetFilters) isAction()           {}
func (ClearFilters) isAction()         {}
func (SetPage) isAction()              {}
func (EnterOverride) isAction()        {}
func (ExitOverride) isAction()         {}
func (Refresh) isAction()              {}
func (RefreshFilterOptions) isAction() {}
func (RefreshAttributes) isAction()    {}
func (RefreshCustomSources) isAction() {}
func (ToggleSelection) isAction()      {}
func (SelectAllVisible) isAction()     {}
func (ClearSelection) isAction()       {}
func (BrowseLoaded) isAction()         {}
func (OptionsLoaded) isAction()        {}
func (AttributesLoaded) isAction()     {}
func (CustomSourcesLoaded) isAction()  {}
