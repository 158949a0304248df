package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rebeliceyang/cardex/internal/models"
)

// attributeRow is the stored shape of a definition; options and bounds are
// kept as JSON text
type attributeRow struct {
	Key     string `db:"key"`
	Label   string `db:"label"`
	Type    string `db:"value_type"`
	Options string `db:"options"`
	Bounds  string `db:"bounds"`
	Builtin bool   `db:"builtin"`
}

func toAttributeRow(def models.AttributeDefinition) (attributeRow, error) {
	row := attributeRow{Key: def.Key, Label: def.Label, Type: string(def.Type), Builtin: def.Builtin}
	if len(def.Options) > 0 {
		b, err := json.Marshal(def.Options)
		if err != nil {
			return row, fmt.Errorf("failed to encode options: %w", err)
		}
		row.Options = string(b)
	}
	if def.Bounds != nil {
		b, err := json.Marshal(def.Bounds)
		if err != nil {
			return row, fmt.Errorf("failed to encode bounds: %w", err)
		}
		row.Bounds = string(b)
	}
	return row, nil
}

func (r attributeRow) definition() (models.AttributeDefinition, error) {
	def := models.AttributeDefinition{
		Key:     r.Key,
		Label:   r.Label,
		Type:    models.AttributeType(r.Type),
		Builtin: r.Builtin,
	}
	if r.Options != "" {
		if err := json.Unmarshal([]byte(r.Options), &def.Options); err != nil {
			return def, fmt.Errorf("attribute %s has malformed options: %w", r.Key, err)
		}
	}
	if r.Bounds != "" {
		def.Bounds = &models.NumberBounds{}
		if err := json.Unmarshal([]byte(r.Bounds), def.Bounds); err != nil {
			return def, fmt.Errorf("attribute %s has malformed bounds: %w", r.Key, err)
		}
	}
	return def, nil
}

const attributeColumns = "key, label, value_type, options, bounds, builtin"

// FetchAttributes returns every definition, built-ins first
func (s *Store) FetchAttributes(ctx context.Context) ([]models.AttributeDefinition, error) {
	var rows []attributeRow
	err := s.db.SelectContext(ctx, &rows, "SELECT "+attributeColumns+" FROM attribute_definitions ORDER BY builtin DESC, key")
	if err != nil {
		return nil, fmt.Errorf("failed to load attributes: %w", err)
	}

	defs := make([]models.AttributeDefinition, 0, len(rows))
	for _, r := range rows {
		def, err := r.definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (s *Store) attribute(ctx context.Context, key string) (attributeRow, error) {
	var row attributeRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind("SELECT "+attributeColumns+" FROM attribute_definitions WHERE key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return row, models.ErrAttributeNotFound
	}
	if err != nil {
		return row, fmt.Errorf("failed to load attribute %s: %w", key, err)
	}
	return row, nil
}

// CreateAttribute validates and stores a user-defined attribute. Nothing is
// written when validation fails.
func (s *Store) CreateAttribute(ctx context.Context, def models.AttributeDefinition) error {
	def = def.Normalized()
	def.Builtin = false
	if err := def.Validate(); err != nil {
		return err
	}
	if def.Type != models.AttributeSelect {
		def.Options = nil
	}
	if def.Type != models.AttributeNumber {
		def.Bounds = nil
	}

	if _, err := s.attribute(ctx, def.Key); err == nil {
		return models.ErrAttributeExists
	} else if !errors.Is(err, models.ErrAttributeNotFound) {
		return err
	}

	row, err := toAttributeRow(def)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO attribute_definitions (`+attributeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`),
		row.Key, row.Label, row.Type, row.Options, row.Bounds, false)
	if err != nil {
		return fmt.Errorf("failed to create attribute: %w", err)
	}

	s.log.Debug().Str("key", def.Key).Str("type", string(def.Type)).Msg("Attribute created")
	return nil
}

// DeleteAttribute removes a user-defined attribute and its values. Built-in
// attributes are refused.
func (s *Store) DeleteAttribute(ctx context.Context, key string) error {
	key = models.NormalizeAttributeKey(key)
	row, err := s.attribute(ctx, key)
	if err != nil {
		return err
	}
	if row.Builtin || models.IsBuiltinAttribute(key) {
		return models.ErrBuiltinAttribute
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM card_attributes WHERE attr_key = ?"), key); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM attribute_definitions WHERE key = ?"), key)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete attribute: %w", err)
	}

	s.log.Debug().Str("key", key).Msg("Attribute deleted")
	return nil
}
