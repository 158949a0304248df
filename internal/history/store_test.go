package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"), maxEntries)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_AddAndGetRecent(t *testing.T) {
	s := newTestStore(t, 0)

	require.NoError(t, s.Add(Entry{Query: "SELECT 1", DurationMs: 3, ReadOnly: true, Success: true}))
	require.NoError(t, s.Add(Entry{Query: "UPDATE cards SET rarity = 'x'", RowsAffected: 2, Success: true}))
	require.NoError(t, s.Add(Entry{Query: "SELEC", ErrorMessage: "syntax error"}))

	entries, err := s.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "SELEC", entries[0].Query)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "syntax error", entries[0].ErrorMessage)
	assert.Equal(t, int64(2), entries[1].RowsAffected)
	assert.Equal(t, 3*time.Millisecond, entries[2].Duration())
	assert.True(t, entries[2].ReadOnly)
	assert.WithinDuration(t, time.Now(), entries[2].ExecutedAt, time.Minute)
}

func TestStore_Prunes(t *testing.T) {
	s := newTestStore(t, 2)

	for _, q := range []string{"SELECT 1", "SELECT 2", "SELECT 3"} {
		require.NoError(t, s.Add(Entry{Query: q, Success: true}))
	}

	entries, err := s.GetRecent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "SELECT 3", entries[0].Query)
	assert.Equal(t, "SELECT 2", entries[1].Query)
}

func TestStore_Search(t *testing.T) {
	s := newTestStore(t, 0)
	require.NoError(t, s.Add(Entry{Query: "SELECT * FROM cards WHERE name LIKE 'Char%'"}))
	require.NoError(t, s.Add(Entry{Query: "SELECT COUNT(*) FROM card_attributes"}))

	entries, err := s.Search("card_attributes", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Query, "COUNT")
}
