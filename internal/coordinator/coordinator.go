package coordinator

import (
	"github.com/rs/zerolog"

	"github.com/rebeliceyang/cardex/internal/models"
)

// Coordinator owns the view state and is its only writer
type Coordinator struct {
	state State
	log   zerolog.Logger
}

// New creates a coordinator for the given page size and starting source
func New(pageSize int, source string, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		state: Initial(pageSize, source),
		log:   log,
	}
}

// State returns a snapshot of the current state
func (c *Coordinator) State() State {
	return c.state
}

// Dispatch applies an action and returns the fetches it made due
func (c *Coordinator) Dispatch(a Action) Effects {
	before := c.state
	var eff Effects
	c.state, eff = Reduce(c.state, a)

	if loaded, ok := a.(BrowseLoaded); ok && loaded.Generation != before.BrowseGen {
		c.log.Debug().
			Uint64("generation", loaded.Generation).
			Uint64("current", before.BrowseGen).
			Msg("Discarded stale browse result")
	}
	if eff.Browse != nil {
		c.log.Debug().
			Uint64("generation", eff.Browse.Generation).
			Str("search", eff.Browse.Query.Search).
			Int("page", eff.Browse.Query.Page).
			Interface("filters", eff.Browse.Query.Filters).
			Msg("Browse fetch due")
	}
	return eff
}

// SetSearch replaces the search text
func (c *Coordinator) SetSearch(text string) Effects {
	return c.Dispatch(SetSearch{Text: text})
}

// SetFilters merges a partial filter set
func (c *Coordinator) SetFilters(partial models.FilterSet) Effects {
	return c.Dispatch(SetFilters{Partial: partial})
}

// SetPage moves to a browse page
func (c *Coordinator) SetPage(page int) Effects {
	return c.Dispatch(SetPage{Page: page})
}

// EnterOverride shows a raw-query result
func (c *Coordinator) EnterOverride(records []models.Card) Effects {
	return c.Dispatch(EnterOverride{Records: records})
}

// ExitOverride returns to browse mode
func (c *Coordinator) ExitOverride() Effects {
	return c.Dispatch(ExitOverride{})
}

// EffectiveResultSet returns what should be displayed
func (c *Coordinator) EffectiveResultSet() ResultSet {
	return c.state.EffectiveResultSet()
}
