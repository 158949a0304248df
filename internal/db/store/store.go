// Package store is the SQL-backed card catalog. It runs on SQLite by
// default and on PostgreSQL through the pgx driver.
package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/rebeliceyang/cardex/internal/db/connection"
	"github.com/rebeliceyang/cardex/internal/db/query"
	"github.com/rebeliceyang/cardex/internal/filter"
	"github.com/rebeliceyang/cardex/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Store implements the catalog on top of a connection pool
type Store struct {
	db      *sqlx.DB
	builder *filter.Builder
	log     zerolog.Logger

	mu            sync.RWMutex
	customSources []string
}

// Open prepares the schema, seeds the built-in attributes and loads the
// custom source list
func Open(ctx context.Context, pool *connection.Pool, log zerolog.Logger) (*Store, error) {
	s := &Store{
		db:      pool.DB(),
		builder: filter.NewBuilder(pool.Placeholder()),
		log:     log,
	}

	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	if err := s.seedBuiltins(ctx); err != nil {
		return nil, err
	}
	if err := s.refreshCustomSources(ctx); err != nil {
		return nil, err
	}

	log.Debug().Str("driver", pool.Driver()).Msg("Catalog opened")
	return s, nil
}

// migrate creates missing tables. Statements run one by one since not every
// driver accepts several in a single Exec.
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) seedBuiltins(ctx context.Context) error {
	query := s.db.Rebind(`
		INSERT INTO attribute_definitions (key, label, value_type, options, bounds, builtin)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO NOTHING`)

	for _, def := range models.BuiltinAttributes {
		row, err := toAttributeRow(def)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, query, row.Key, row.Label, row.Type, row.Options, row.Bounds, true); err != nil {
			return fmt.Errorf("failed to seed attribute %s: %w", def.Key, err)
		}
	}
	return nil
}

// CustomSourceNames returns the labels of user-added record batches
func (s *Store) CustomSourceNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.customSources))
	copy(out, s.customSources)
	return out
}

func (s *Store) refreshCustomSources(ctx context.Context) error {
	var names []string
	err := s.db.SelectContext(ctx, &names, s.db.Rebind(`
		SELECT DISTINCT custom_source FROM cards
		WHERE id LIKE ? AND custom_source <> ''
		ORDER BY custom_source`), models.CustomIDPrefix+"%")
	if err != nil {
		return fmt.Errorf("failed to load custom sources: %w", err)
	}

	s.mu.Lock()
	s.customSources = names
	s.mu.Unlock()
	return nil
}

// ExecuteRaw runs an ad-hoc statement against the catalog
func (s *Store) ExecuteRaw(ctx context.Context, sql string) (models.RawResult, error) {
	result, err := query.Execute(ctx, s.db, sql)
	if err != nil {
		return models.RawResult{}, err
	}
	if result.Changes.Cards {
		if err := s.refreshCustomSources(ctx); err != nil {
			s.log.Warn().Err(err).Msg("Custom sources may be stale")
		}
	}
	s.log.Debug().
		Bool("read_only", result.ReadOnly).
		Int64("rows", result.RowsAffected).
		Dur("duration", result.Duration).
		Msg("Raw query executed")
	return result, nil
}
