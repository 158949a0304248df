package models

import "time"

// Favorite is a saved lookup: either a raw query, or a browse view made of
// search text and filters
type Favorite struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Query       string    `yaml:"query,omitempty" json:"query,omitempty"`
	Search      string    `yaml:"search,omitempty" json:"search,omitempty"`
	Filters     FilterSet `yaml:"filters,omitempty" json:"filters,omitempty"`
	Tags        []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
	LastUsed    time.Time `yaml:"last_used,omitempty" json:"last_used,omitempty"`
	UsageCount  int       `yaml:"usage_count" json:"usage_count"`
}

// IsRawQuery reports whether the favorite replays a raw query rather than
// a browse view
func (f Favorite) IsRawQuery() bool {
	return f.Query != ""
}
