package models

// AppState holds the UI-only state of the application
type AppState struct {
	Width      int
	Height     int
	ViewMode   ViewMode
	Status     string // Transient status line message
	StatusErr  bool
	ShowDetail bool // Card detail panel beside the table
}

// ViewMode identifies the current input mode
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
	SearchMode
	CommandMode
	RawQueryMode
	SavedMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:    80,
		Height:   24,
		ViewMode: NormalMode,
	}
}
