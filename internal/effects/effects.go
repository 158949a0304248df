// Package effects decides which cached views must be reloaded after a
// mutation of the catalog.
package effects

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rebeliceyang/cardex/internal/coordinator"
	"github.com/rebeliceyang/cardex/internal/models"
)

// Plan lists the refreshes owed after a mutation
type Plan struct {
	RefreshAttributes    bool
	RefetchBrowse        bool
	RefreshFilterOptions bool
	RefreshCustomSources bool
}

// For maps a change set to its refresh plan. The two flags are independent.
func For(changes models.ChangeSet) Plan {
	return Plan{
		RefreshAttributes:    changes.Attributes,
		RefetchBrowse:        changes.Cards,
		RefreshFilterOptions: changes.Cards,
		RefreshCustomSources: changes.Cards,
	}
}

// IsZero reports whether the plan has nothing to refresh
func (p Plan) IsZero() bool {
	return p == Plan{}
}

// Actions converts the plan into coordinator actions, in a fixed order
func (p Plan) Actions() []coordinator.Action {
	var actions []coordinator.Action
	if p.RefreshAttributes {
		actions = append(actions, coordinator.RefreshAttributes{})
	}
	if p.RefetchBrowse {
		actions = append(actions, coordinator.Refresh{})
	}
	if p.RefreshFilterOptions {
		actions = append(actions, coordinator.RefreshFilterOptions{})
	}
	if p.RefreshCustomSources {
		actions = append(actions, coordinator.RefreshCustomSources{})
	}
	return actions
}

// Mutator is the part of the catalog that can change data
type Mutator interface {
	CreateAttribute(ctx context.Context, def models.AttributeDefinition) error
	DeleteAttribute(ctx context.Context, key string) error
	AddCustomRecord(ctx context.Context, card models.Card) error
	ExecuteRaw(ctx context.Context, sql string) (models.RawResult, error)
}

// Dispatcher runs mutations and feeds the resulting refreshes to a
// coordinator
type Dispatcher struct {
	catalog Mutator
	log     zerolog.Logger
}

// NewDispatcher creates a dispatcher over catalog
func NewDispatcher(catalog Mutator, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{catalog: catalog, log: log}
}

// CreateAttribute adds a user attribute definition
func (d *Dispatcher) CreateAttribute(ctx context.Context, def models.AttributeDefinition) (models.ChangeSet, error) {
	if err := d.catalog.CreateAttribute(ctx, def); err != nil {
		return models.ChangeSet{}, fmt.Errorf("failed to create attribute %q: %w", def.Key, err)
	}
	return models.ChangeSet{Attributes: true}, nil
}

// DeleteAttribute removes a user attribute definition
func (d *Dispatcher) DeleteAttribute(ctx context.Context, key string) (models.ChangeSet, error) {
	if err := d.catalog.DeleteAttribute(ctx, key); err != nil {
		return models.ChangeSet{}, fmt.Errorf("failed to delete attribute %q: %w", key, err)
	}
	// Values of the attribute go with it, so visible rows may change too
	return models.ChangeSet{Attributes: true, Cards: true}, nil
}

// AddCustomRecord stores a user-added card
func (d *Dispatcher) AddCustomRecord(ctx context.Context, card models.Card) (models.ChangeSet, error) {
	if err := d.catalog.AddCustomRecord(ctx, card); err != nil {
		return models.ChangeSet{}, fmt.Errorf("failed to add record %q: %w", card.ID, err)
	}
	return models.ChangeSet{Cards: true}, nil
}

// ExecuteRaw runs an ad-hoc statement and reports what it changed
func (d *Dispatcher) ExecuteRaw(ctx context.Context, sql string) (models.RawResult, error) {
	result, err := d.catalog.ExecuteRaw(ctx, sql)
	if err != nil {
		return models.RawResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return result, nil
}

// Apply dispatches the refreshes owed for changes and returns the fetches
// they made due
func (d *Dispatcher) Apply(c *coordinator.Coordinator, changes models.ChangeSet) coordinator.Effects {
	plan := For(changes)
	if plan.IsZero() {
		return coordinator.Effects{}
	}

	d.log.Debug().
		Bool("attributes", changes.Attributes).
		Bool("cards", changes.Cards).
		Msg("Refreshing after mutation")

	var eff coordinator.Effects
	for _, a := range plan.Actions() {
		eff = eff.Merge(c.Dispatch(a))
	}
	return eff
}
