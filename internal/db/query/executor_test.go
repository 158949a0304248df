package query

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/cardex/internal/models"
)

func TestIsReadOnly(t *testing.T) {
	tests := map[string]bool{
		"SELECT * FROM cards":                               true,
		"  select id from cards":                            true,
		"-- newest first\nSELECT * FROM cards":              true,
		"/* hi */ SELECT 1":                                 true,
		"WITH x AS (SELECT 1) SELECT * FROM x":              true,
		"WITH d AS (DELETE FROM cards RETURNING id) SELECT": false,
		"PRAGMA table_info(cards)":                          true,
		"UPDATE cards SET rarity = 'Rare'":                  false,
		"INSERT INTO cards (id, name) VALUES ('a', 'b')":    false,
		"":                                                  false,
	}
	for sql, want := range tests {
		assert.Equal(t, want, IsReadOnly(sql), sql)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want models.ChangeSet
	}{
		{"UPDATE cards SET rarity = 'Rare' WHERE id = 'x'", models.ChangeSet{Cards: true}},
		{"insert or replace into cards (id) values ('a')", models.ChangeSet{Cards: true}},
		{"DELETE FROM \"cards\" WHERE source = 'Pocket'", models.ChangeSet{Cards: true}},
		{"INSERT INTO card_attributes (card_id, attr_key, value) VALUES ('a', 'favorite', 'true')", models.ChangeSet{Attributes: true, Cards: true}},
		{"DELETE FROM attribute_definitions WHERE key = 'grader'", models.ChangeSet{Attributes: true}},
		{"UPDATE attribute_definitions SET label = 'x'; INSERT INTO cards (id) VALUES ('b')", models.ChangeSet{Attributes: true, Cards: true}},
		{"CREATE TABLE scratch (id INTEGER)", models.ChangeSet{}},
		{"UPDATE scratch SET id = 1", models.ChangeSet{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.sql), tt.sql)
	}
}

func TestCardFromRow(t *testing.T) {
	card := CardFromRow(map[string]interface{}{
		"id":      []byte("base1-4"),
		"name":    "Charizard",
		"types":   "Fire",
		"pokedex": "6",
		"hp":      int64(120),
		"total":   float64(2.5),
		"note":    nil,
	}, 0)

	assert.Equal(t, "base1-4", card.ID)
	assert.Equal(t, "Charizard", card.Name)
	assert.Equal(t, []string{"Fire"}, card.Types)
	assert.Equal(t, []int{6}, card.Pokedex)
	assert.Equal(t, "120", card.HP)
	assert.Equal(t, map[string]string{"total": "2.5"}, card.Attributes)

	anonymous := CardFromRow(map[string]interface{}{"count": int64(3)}, 4)
	assert.Equal(t, "#5", anonymous.ID)
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`CREATE TABLE cards (id TEXT PRIMARY KEY, name TEXT, hp TEXT)`)
	require.NoError(t, err)

	res, err := Execute(ctx, db, "INSERT INTO cards (id, name, hp) VALUES ('a', 'Abra', '30'), ('b', 'Bulbasaur', '40')")
	require.NoError(t, err)
	assert.False(t, res.ReadOnly)
	assert.Equal(t, int64(2), res.RowsAffected)
	assert.Equal(t, models.ChangeSet{Cards: true}, res.Changes)

	res, err = Execute(ctx, db, "SELECT id, name, hp FROM cards ORDER BY id")
	require.NoError(t, err)
	assert.True(t, res.ReadOnly)
	assert.False(t, res.Changes.Any())
	assert.Equal(t, []string{"id", "name", "hp"}, res.Columns)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Bulbasaur", res.Records[1].Name)
	assert.Equal(t, "40", res.Records[1].HP)

	_, err = Execute(ctx, db, "SELECT * FROM missing")
	assert.Error(t, err)
}
