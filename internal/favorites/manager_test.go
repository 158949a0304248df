package favorites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/cardex/internal/models"
)

func TestManager_AddAndReload(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	q, err := m.AddQuery("Holo rares", "every holo", "SELECT * FROM cards WHERE rarity = 'Rare Holo'", []string{"rarity"})
	require.NoError(t, err)
	assert.True(t, q.IsRawQuery())
	assert.NotEmpty(t, q.ID)

	filters := models.FilterSet{"source": "TCG", "region": "Kanto"}
	v, err := m.AddView("Kanto", "", "char", filters, nil)
	require.NoError(t, err)
	assert.False(t, v.IsRawQuery())
	filters["region"] = "Johto"
	assert.Equal(t, "Kanto", v.Filters["region"], "saved view must not share the caller's map")

	reloaded, err := NewManager(dir)
	require.NoError(t, err)
	require.Len(t, reloaded.GetAll(), 2)

	got, err := reloaded.GetByName("kanto")
	require.NoError(t, err)
	assert.Equal(t, "char", got.Search)
	assert.Equal(t, models.FilterSet{"source": "TCG", "region": "Kanto"}, got.Filters)
}

func TestManager_Validation(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	_, err = m.AddQuery(" ", "", "SELECT 1", nil)
	assert.Error(t, err)
	_, err = m.AddQuery("empty", "", "  ", nil)
	assert.Error(t, err)

	_, err = m.AddQuery("Mine", "", "SELECT 1", nil)
	require.NoError(t, err)
	_, err = m.AddView("MINE", "", "", models.FilterSet{}, nil)
	assert.ErrorContains(t, err, "already exists")
}

func TestManager_SearchUsageDelete(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	a, err := m.AddQuery("Fire", "", "SELECT 1", []string{"types"})
	require.NoError(t, err)
	b, err := m.AddQuery("Water", "wet ones", "SELECT 2", nil)
	require.NoError(t, err)

	assert.Len(t, m.Search("TYPES"), 1)
	assert.Len(t, m.Search("wet"), 1)
	assert.Len(t, m.Search(""), 2)

	require.NoError(t, m.RecordUsage(b.ID))
	recent := m.GetRecent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "Water", recent[0].Name)

	require.NoError(t, m.Delete(a.ID))
	assert.Len(t, m.GetAll(), 1)
	assert.Error(t, m.Delete(a.ID))
}
