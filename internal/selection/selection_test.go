package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rebeliceyang/cardex/internal/models"
)

func TestToggle(t *testing.T) {
	var s Set
	s = s.Toggle("base1-4")
	assert.True(t, s.Contains("base1-4"))
	assert.Equal(t, 1, s.Len())

	s = s.Toggle("base1-4")
	assert.False(t, s.Contains("base1-4"))
	assert.Equal(t, 0, s.Len())
}

func TestToggle_LeavesReceiverUntouched(t *testing.T) {
	s := New("a")
	_ = s.Toggle("b")
	assert.Equal(t, []string{"a"}, s.IDs())
}

func TestSelectAllVisible_ReplacesSet(t *testing.T) {
	s := New("stale-1", "stale-2")
	visible := []models.Card{{ID: "c"}, {ID: "a"}, {ID: "b"}}

	s = s.SelectAllVisible(visible)
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
	assert.False(t, s.Contains("stale-1"))
}

func TestSelectAllVisibleThenClear_IsEmpty(t *testing.T) {
	for _, prior := range []Set{{}, New("x"), New("a", "b", "c")} {
		s := prior.SelectAllVisible([]models.Card{{ID: "a"}, {ID: "z"}}).Clear()
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.IDs())
	}
}

func TestFilter_KeepsRecordOrder(t *testing.T) {
	s := New("b", "d")
	records := []models.Card{{ID: "d"}, {ID: "a"}, {ID: "b"}}
	got := s.Filter(records)
	assert.Equal(t, []models.Card{{ID: "d"}, {ID: "b"}}, got)
}
