package models

import (
	"strconv"
	"strings"
)

// CustomIDPrefix is reserved for user-added records. Ingested data must
// never use it.
const CustomIDPrefix = "custom-"

// Card is a single collectible-card record
type Card struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Source       string            `json:"source" yaml:"source"`
	CustomSource string            `json:"custom_source,omitempty" yaml:"custom_source,omitempty"` // Label of a user-added batch
	Supertype    string            `json:"supertype,omitempty" yaml:"supertype,omitempty"`
	Subtypes     []string          `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`
	Types        []string          `json:"types,omitempty" yaml:"types,omitempty"`
	Rarity       string            `json:"rarity,omitempty" yaml:"rarity,omitempty"`
	SetID        string            `json:"set_id,omitempty" yaml:"set_id,omitempty"`
	SetName      string            `json:"set_name,omitempty" yaml:"set_name,omitempty"`
	Number       string            `json:"number,omitempty" yaml:"number,omitempty"` // Display number within the set, e.g. "4", "25a", "TG05"
	HP           string            `json:"hp,omitempty" yaml:"hp,omitempty"`
	Pokedex      []int             `json:"pokedex,omitempty" yaml:"pokedex,omitempty"`
	Region       string            `json:"region,omitempty" yaml:"region,omitempty"`
	Artist       string            `json:"artist,omitempty" yaml:"artist,omitempty"`
	ImageURL     string            `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// IsCustom reports whether the card was added by the user
func (c Card) IsCustom() bool {
	return strings.HasPrefix(c.ID, CustomIDPrefix)
}

// Field returns the string value of a named field. Unknown names are looked
// up in Attributes; a missing field yields "".
func (c Card) Field(key string) string {
	switch key {
	case "id":
		return c.ID
	case "name":
		return c.Name
	case "source":
		return c.Source
	case "custom_source":
		return c.CustomSource
	case "supertype":
		return c.Supertype
	case "subtype", "subtypes":
		return strings.Join(c.Subtypes, ",")
	case "type", "types":
		return strings.Join(c.Types, ",")
	case "rarity":
		return c.Rarity
	case "set_id":
		return c.SetID
	case "set_name":
		return c.SetName
	case "number":
		return c.Number
	case "hp":
		return c.HP
	case "pokedex":
		return JoinInts(c.Pokedex)
	case "region":
		return c.Region
	case "artist":
		return c.Artist
	case "image_url":
		return c.ImageURL
	}
	if c.Attributes == nil {
		return ""
	}
	return c.Attributes[strings.TrimPrefix(key, AttributeFilterPrefix)]
}

// Validate checks a user-added record before it is stored
func (c Card) Validate() error {
	if !strings.HasPrefix(c.ID, CustomIDPrefix) || len(c.ID) == len(CustomIDPrefix) {
		return ErrCustomIDPrefix
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(c.CustomSource) == "" {
		return ErrMissingSourceName
	}
	return nil
}

// JoinInts renders a list of ints as "1,2,3"
func JoinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// SplitInts parses "1,2,3", skipping anything that is not an integer
func SplitInts(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// SplitList parses a comma separated list, dropping empty entries
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
