package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rebeliceyang/cardex/internal/models"
	"github.com/rebeliceyang/cardex/internal/sorting"
)

const cardColumns = `id, name, source, custom_source, supertype, subtypes, types, rarity,
	set_id, set_name, number, hp, pokedex, region, artist, image_url`

type cardRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Source       string `db:"source"`
	CustomSource string `db:"custom_source"`
	Supertype    string `db:"supertype"`
	Subtypes     string `db:"subtypes"`
	Types        string `db:"types"`
	Rarity       string `db:"rarity"`
	SetID        string `db:"set_id"`
	SetName      string `db:"set_name"`
	Number       string `db:"number"`
	HP           string `db:"hp"`
	Pokedex      string `db:"pokedex"`
	Region       string `db:"region"`
	Artist       string `db:"artist"`
	ImageURL     string `db:"image_url"`
}

func (r cardRow) card() models.Card {
	return models.Card{
		ID:           r.ID,
		Name:         r.Name,
		Source:       r.Source,
		CustomSource: r.CustomSource,
		Supertype:    r.Supertype,
		Subtypes:     models.SplitList(r.Subtypes),
		Types:        models.SplitList(r.Types),
		Rarity:       r.Rarity,
		SetID:        r.SetID,
		SetName:      r.SetName,
		Number:       r.Number,
		HP:           r.HP,
		Pokedex:      models.SplitInts(r.Pokedex),
		Region:       r.Region,
		Artist:       r.Artist,
		ImageURL:     r.ImageURL,
	}
}

// FetchCards returns one page of cards plus the total match count
func (s *Store) FetchCards(ctx context.Context, q models.CardQuery) (models.CardPage, error) {
	where, args, err := s.builder.BuildQueryWhere(q)
	if err != nil {
		return models.CardPage{}, fmt.Errorf("failed to build query: %w", err)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM cards "+where, args...); err != nil {
		return models.CardPage{}, fmt.Errorf("failed to count cards: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM cards %s %s", cardColumns, where, s.builder.OrderBy(q.Filters))
	if q.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", q.PageSize, q.Offset())
	}

	var rows []cardRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return models.CardPage{}, fmt.Errorf("failed to query cards: %w", err)
	}

	cards := make([]models.Card, len(rows))
	for i, r := range rows {
		cards[i] = r.card()
	}
	if err := s.loadAttributes(ctx, cards); err != nil {
		return models.CardPage{}, err
	}

	return models.CardPage{Records: cards, Total: total}, nil
}

// GetCard returns a single card, or sql.ErrNoRows
func (s *Store) GetCard(ctx context.Context, id string) (models.Card, error) {
	var row cardRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind("SELECT "+cardColumns+" FROM cards WHERE id = ?"), id)
	if err != nil {
		return models.Card{}, err
	}
	cards := []models.Card{row.card()}
	if err := s.loadAttributes(ctx, cards); err != nil {
		return models.Card{}, err
	}
	return cards[0], nil
}

// loadAttributes fills the attribute values of cards in place
func (s *Store) loadAttributes(ctx context.Context, cards []models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	ids := make([]string, len(cards))
	index := make(map[string]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
		index[c.ID] = i
	}

	query, args, err := sqlx.In("SELECT card_id, attr_key, value FROM card_attributes WHERE card_id IN (?)", ids)
	if err != nil {
		return fmt.Errorf("failed to build attribute query: %w", err)
	}

	var values []struct {
		CardID string `db:"card_id"`
		Key    string `db:"attr_key"`
		Value  string `db:"value"`
	}
	if err := s.db.SelectContext(ctx, &values, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load attribute values: %w", err)
	}

	for _, v := range values {
		c := &cards[index[v.CardID]]
		if c.Attributes == nil {
			c.Attributes = make(map[string]string)
		}
		c.Attributes[v.Key] = v.Value
	}
	return nil
}

// AddCustomRecord validates and stores a user-added card, then recomputes
// the custom source list
func (s *Store) AddCustomRecord(ctx context.Context, card models.Card) error {
	card.ID = strings.TrimSpace(card.ID)
	if err := card.Validate(); err != nil {
		return err
	}
	card.Source = models.SourceCustom

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n, tx.Rebind("SELECT COUNT(*) FROM cards WHERE id = ?"), card.ID); err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("card %q: %w", card.ID, models.ErrRecordExists)
		}
		return s.upsertCard(ctx, tx, card)
	})
	if err != nil {
		return fmt.Errorf("failed to save custom record: %w", err)
	}

	s.log.Debug().Str("id", card.ID).Str("custom_source", card.CustomSource).Msg("Custom record added")
	return s.refreshCustomSources(ctx)
}

// UpsertCards stores ingested cards in one transaction. IDs carrying the
// custom prefix are refused before anything is written.
func (s *Store) UpsertCards(ctx context.Context, cards []models.Card) (int, error) {
	for _, c := range cards {
		if c.IsCustom() {
			return 0, fmt.Errorf("card %q: %w", c.ID, models.ErrReservedID)
		}
		if strings.TrimSpace(c.ID) == "" {
			return 0, fmt.Errorf("card %q has no id", c.Name)
		}
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, c := range cards {
			if err := s.upsertCard(ctx, tx, c); err != nil {
				return fmt.Errorf("card %q: %w", c.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert cards: %w", err)
	}
	return len(cards), nil
}

func (s *Store) upsertCard(ctx context.Context, tx *sqlx.Tx, c models.Card) error {
	var pokedexFirst sql.NullInt64
	if len(c.Pokedex) > 0 {
		pokedexFirst = sql.NullInt64{Int64: int64(c.Pokedex[0]), Valid: true}
	}

	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO cards (`+cardColumns+`, hp_value, number_value, pokedex_first)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, source = excluded.source, custom_source = excluded.custom_source,
			supertype = excluded.supertype, subtypes = excluded.subtypes, types = excluded.types,
			rarity = excluded.rarity, set_id = excluded.set_id, set_name = excluded.set_name,
			number = excluded.number, hp = excluded.hp, pokedex = excluded.pokedex,
			region = excluded.region, artist = excluded.artist, image_url = excluded.image_url,
			hp_value = excluded.hp_value, number_value = excluded.number_value,
			pokedex_first = excluded.pokedex_first`),
		c.ID, c.Name, c.Source, c.CustomSource, c.Supertype,
		strings.Join(c.Subtypes, ","), strings.Join(c.Types, ","),
		c.Rarity, c.SetID, c.SetName, c.Number, c.HP, models.JoinInts(c.Pokedex),
		c.Region, c.Artist, c.ImageURL,
		hpValue(c.HP), sorting.ParseLeadingFloat(c.Number), pokedexFirst,
	)
	if err != nil {
		return err
	}

	for key, value := range c.Attributes {
		if err := setAttributeValue(ctx, tx, c.ID, key, value); err != nil {
			return err
		}
	}
	return nil
}

// hpValue is the numeric HP used by range filters. Cards without a numeric
// HP store NULL so no bound matches them.
func hpValue(hp string) sql.NullFloat64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(hp), 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: n, Valid: true}
}

// SetAttributeValue sets (or, with an empty value, clears) an attribute on
// a set of cards
func (s *Store) SetAttributeValue(ctx context.Context, cardIDs []string, key, value string) (models.ChangeSet, error) {
	key = models.NormalizeAttributeKey(key)
	row, err := s.attribute(ctx, key)
	if err != nil {
		return models.ChangeSet{}, err
	}
	def, err := row.definition()
	if err != nil {
		return models.ChangeSet{}, err
	}
	if err := def.ValidateValue(value); err != nil {
		return models.ChangeSet{}, err
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, id := range cardIDs {
			if err := setAttributeValue(ctx, tx, id, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.ChangeSet{}, fmt.Errorf("failed to set %s: %w", key, err)
	}
	return models.ChangeSet{Cards: true}, nil
}

func setAttributeValue(ctx context.Context, tx *sqlx.Tx, cardID, key, value string) error {
	if value == "" {
		_, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM card_attributes WHERE card_id = ? AND attr_key = ?"), cardID, key)
		return err
	}
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO card_attributes (card_id, attr_key, value) VALUES (?, ?, ?)
		ON CONFLICT (card_id, attr_key) DO UPDATE SET value = excluded.value`), cardID, key, value)
	return err
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
