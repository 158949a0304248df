package coordinator

import (
	"slices"

	"github.com/rebeliceyang/cardex/internal/models"
	"github.com/rebeliceyang/cardex/internal/sorting"
)

// Reduce applies an action to a state. It is total: every action is valid
// in every state, and unknown actions leave the state unchanged.
func Reduce(s State, a Action) (State, Effects) {
	switch a := a.(type) {
	case Init:
		var browse, opts, attrs, sources Effects
		s, browse = s.fetchBrowse()
		s, opts = s.fetchOptions()
		s, attrs = s.fetchAttributes()
		s, sources = s.fetchCustomSources()
		return s, browse.Merge(opts).Merge(attrs).Merge(sources)

	case SetSearch:
		s.Search = a.Text
		return s.invalidate()

	case SetFilters:
		return s.setFilters(a.Partial)

	case ClearFilters:
		s.Filters = models.DefaultFilters(s.Filters.Source())
		return s.invalidate()

	case SetPage:
		if s.InOverride() {
			return s, Effects{}
		}
		s.Page = a.Page
		return s.fetchBrowse()

	case EnterOverride:
		s.Results = OverrideResult{Cards: slices.Clone(a.Records), Suspended: s.Browse()}
		return s, Effects{}

	case ExitOverride:
		s.Results = s.Browse()
		s.Selection = s.Selection.Clear()
		return s, Effects{}

	case Refresh:
		return s.fetchBrowse()

	case RefreshFilterOptions:
		return s.fetchOptions()

	case RefreshAttributes:
		return s.fetchAttributes()

	case RefreshCustomSources:
		return s.fetchCustomSources()

	case ToggleSelection:
		s.Selection = s.Selection.Toggle(a.ID)
		return s, Effects{}

	case SelectAllVisible:
		s.Selection = s.Selection.SelectAllVisible(s.EffectiveResultSet().Records())
		return s, Effects{}

	case ClearSelection:
		s.Selection = s.Selection.Clear()
		return s, Effects{}

	case BrowseLoaded:
		return s.browseLoaded(a), Effects{}

	case OptionsLoaded:
		if a.Generation != s.OptionsGen {
			return s, Effects{}
		}
		if a.Err != nil {
			s.OptionsErr = a.Err.Error()
			s.Options = models.FilterOptions{}
			return s, Effects{}
		}
		s.OptionsErr = ""
		s.Options = a.Options
		return s, Effects{}

	case AttributesLoaded:
		if a.Generation != s.AttributesGen {
			return s, Effects{}
		}
		if a.Err != nil {
			s.AttributesErr = a.Err.Error()
			s.Attributes = nil
			return s, Effects{}
		}
		s.AttributesErr = ""
		s.Attributes = a.Attributes
		return s, Effects{}

	case CustomSourcesLoaded:
		if a.Generation != s.SourcesGen {
			return s, Effects{}
		}
		s.CustomSources = slices.Clone(a.Names)
		return s, Effects{}
	}
	return s, Effects{}
}

// setFilters implements the three ordered cases of a filter merge
func (s State) setFilters(partial models.FilterSet) (State, Effects) {
	newSource, hasSource := partial[models.FilterSource]
	sourceChanged := hasSource && newSource != s.Filters.Source()
	var browse, opts Effects

	switch {
	case sourceChanged && newSource == models.SourceAll:
		// Widening to all sources keeps every other constraint
		merged := s.Filters.Merge(partial)
		delete(merged, models.FilterSource)
		merged[models.FilterSortBy] = models.AllSourcesSortBy
		s.Filters = merged
		s, browse = s.invalidate()
		s, opts = s.fetchOptions()
		return s, browse.Merge(opts)

	case sourceChanged:
		// A concrete source starts from a clean slate
		s.Filters = models.DefaultFilters(newSource)
		s.Search = ""
		s, browse = s.invalidate()
		s, opts = s.fetchOptions()
		return s, browse.Merge(opts)

	case partial.OnlySortKeys() && s.InOverride():
		// Re-sort the materialised override rows; no page reset, no fetch
		s.Filters = s.Filters.Merge(partial)
		o := s.Results.(OverrideResult)
		o.Cards = sorting.Records(o.Cards, s.Filters.SortBy(), s.Filters.SortDir())
		s.Results = o
		return s, Effects{}

	default:
		s.Filters = s.Filters.Merge(partial)
		return s.invalidate()
	}
}

// invalidate handles a change of the effective query: back to page 1, leave
// any override (dropping the selection with it) and fetch.
func (s State) invalidate() (State, Effects) {
	s.Page = 1
	if s.InOverride() {
		s.Results = s.Browse()
		s.Selection = s.Selection.Clear()
	}
	return s.fetchBrowse()
}

func (s State) fetchBrowse() (State, Effects) {
	s.BrowseGen++
	s.Loading = true
	return s, Effects{Browse: &FetchRequest{Generation: s.BrowseGen, Query: s.Request()}}
}

func (s State) fetchOptions() (State, Effects) {
	s.OptionsGen++
	return s, Effects{Options: &OptionsRequest{Generation: s.OptionsGen, Source: s.Filters.Source()}}
}

func (s State) fetchAttributes() (State, Effects) {
	s.AttributesGen++
	return s, Effects{Attributes: &AttributesRequest{Generation: s.AttributesGen}}
}

func (s State) fetchCustomSources() (State, Effects) {
	s.SourcesGen++
	return s, Effects{CustomSources: &CustomSourcesRequest{Generation: s.SourcesGen}}
}

// browseLoaded applies a browse completion unless a newer fetch has been
// issued since. Failures empty the page.
func (s State) browseLoaded(a BrowseLoaded) State {
	if a.Generation != s.BrowseGen {
		return s
	}
	s.Loading = false

	page := BrowseResult{}
	if a.Err != nil {
		s.Err = a.Err.Error()
	} else {
		s.Err = ""
		page = BrowseResult{Cards: a.Page.Records, Total: a.Page.Total}
	}

	if o, ok := s.Results.(OverrideResult); ok {
		o.Suspended = page
		s.Results = o
		return s
	}
	s.Results = page
	return s
}
