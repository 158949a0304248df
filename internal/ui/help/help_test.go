package help

import (
	"strings"
	"testing"

	"github.com/rebeliceyang/cardex/internal/ui/theme"
)

func TestRender_ListsEverySection(t *testing.T) {
	out := Render(100, 60, theme.DefaultTheme())

	for _, section := range Sections() {
		if !strings.Contains(out, section.Title) {
			t.Errorf("help view is missing section %q", section.Title)
		}
	}
}

func TestSections_NoDuplicateKeys(t *testing.T) {
	seen := map[string]string{}
	for _, section := range Sections() {
		for _, kb := range section.Keys {
			if prev, ok := seen[kb.Key]; ok {
				t.Errorf("key %q listed in both %s and %s", kb.Key, prev, section.Title)
			}
			seen[kb.Key] = section.Title
		}
	}
}
