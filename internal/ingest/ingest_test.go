package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rebeliceyang/cardex/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingWriter struct {
	mu    sync.Mutex
	calls int
	cards []models.Card
}

func (w *recordingWriter) UpsertCards(_ context.Context, cards []models.Card) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	w.cards = append(w.cards, cards...)
	return len(cards), nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDecode_Formats(t *testing.T) {
	flat := `[{"id": "base1-4", "name": "Charizard", "hp": "120", "pokedex": [6], "set_id": "base1"}]`
	nested := `{"data": [{"id": "base1-4", "name": "Charizard", "hp": "120", "nationalPokedexNumbers": [6],
		"set": {"id": "base1", "name": "Base"}, "types": ["Fire"]}]}`

	a, err := Decode([]byte(flat), "TCG")
	require.NoError(t, err)
	b, err := Decode([]byte(nested), "TCG")
	require.NoError(t, err)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, "TCG", a[0].Source)
	assert.Equal(t, []int{6}, b[0].Pokedex)
	assert.Equal(t, "base1", b[0].SetID)
	assert.Equal(t, "Base", b[0].SetName)
	assert.Equal(t, []string{"Fire"}, b[0].Types)
}

func TestDecode_KeepsExplicitSource(t *testing.T) {
	cards, err := Decode([]byte(`[{"id": "a1-1", "name": "Bulbasaur", "source": "Pocket"}]`), "TCG")
	require.NoError(t, err)
	assert.Equal(t, "Pocket", cards[0].Source)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte(`[{"id": "custom-1", "name": "Nope"}]`), "TCG")
	assert.ErrorIs(t, err, models.ErrReservedID)

	_, err = Decode([]byte(`[{"name": "No ID"}]`), "TCG")
	assert.ErrorContains(t, err, "has no id")

	_, err = Decode([]byte(`not json`), "TCG")
	assert.Error(t, err)
}

func TestImportFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, body := range []string{
		`[{"id": "base1-1", "name": "Alakazam"}, {"id": "base1-2", "name": "Blastoise"}]`,
		`[{"id": "base1-3", "name": "Chansey"}]`,
		`{"data": [{"id": "base1-4", "name": "Charizard"}]}`,
	} {
		paths = append(paths, writeFile(t, dir, string(rune('a'+i))+".json", body))
	}

	w := &recordingWriter{}
	summary, err := NewImporter(w, zerolog.Nop()).ImportFiles(context.Background(), "TCG", paths)

	require.NoError(t, err)
	assert.Equal(t, Summary{Files: 3, Cards: 4}, summary)
	assert.Equal(t, 1, w.calls, "cards are written in a single batch")
	assert.Len(t, w.cards, 4)
}

func TestImportFiles_NothingWrittenOnError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `[{"id": "base1-1", "name": "Alakazam"}]`)
	bad := writeFile(t, dir, "bad.json", `[{"id": "custom-7", "name": "Reserved"}]`)

	w := &recordingWriter{}
	_, err := NewImporter(w, zerolog.Nop()).ImportFiles(context.Background(), "TCG", []string{good, bad, filepath.Join(dir, "missing.json")})

	assert.Error(t, err)
	assert.Zero(t, w.calls)
}
