package theme

import "testing"

func TestGetTheme_Known(t *testing.T) {
	for _, name := range Names {
		if got := GetTheme(name).Name; got != name {
			t.Errorf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestGetTheme_UnknownFallsBack(t *testing.T) {
	if got := GetTheme("solarized").Name; got != "default" {
		t.Errorf("expected default theme, got %q", got)
	}
}
