package models

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// AttributeType is the value type of a user attribute
type AttributeType string

const (
	AttributeText    AttributeType = "text"
	AttributeNumber  AttributeType = "number"
	AttributeBoolean AttributeType = "boolean"
	AttributeSelect  AttributeType = "select"
)

// NumberBounds is the optional range of a number attribute
type NumberBounds struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// AttributeDefinition describes an annotation field that can be attached to
// cards. Definitions are never mutated in place; to change one, delete and
// recreate it.
type AttributeDefinition struct {
	Key     string        `json:"key" db:"key"`
	Label   string        `json:"label" db:"label"`
	Type    AttributeType `json:"type" db:"value_type"`
	Options []string      `json:"options,omitempty"`
	Bounds  *NumberBounds `json:"bounds,omitempty"`
	Builtin bool          `json:"builtin" db:"builtin"`
}

var attributeKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// BuiltinAttributes are seeded into every catalog and cannot be deleted
var BuiltinAttributes = []AttributeDefinition{
	{Key: "favorite", Label: "Favorite", Type: AttributeBoolean, Builtin: true},
	{Key: "condition", Label: "Condition", Type: AttributeSelect, Builtin: true,
		Options: []string{"mint", "near_mint", "excellent", "good", "played", "poor"}},
	{Key: "quantity", Label: "Quantity", Type: AttributeNumber, Builtin: true,
		Bounds: &NumberBounds{Min: floatPtr(0)}},
	{Key: "notes", Label: "Notes", Type: AttributeText, Builtin: true},
}

// IsBuiltinAttribute reports whether key names a built-in attribute
func IsBuiltinAttribute(key string) bool {
	for _, def := range BuiltinAttributes {
		if def.Key == key {
			return true
		}
	}
	return false
}

// NormalizeAttributeKey lowercases a key and replaces spaces and dashes with
// underscores: "Grading Company" -> "grading_company"
func NormalizeAttributeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	return key
}

// Normalized returns a copy with the key normalised and options trimmed
func (d AttributeDefinition) Normalized() AttributeDefinition {
	d.Key = NormalizeAttributeKey(d.Key)
	d.Label = strings.TrimSpace(d.Label)
	d.Type = AttributeType(strings.ToLower(string(d.Type)))
	if len(d.Options) > 0 {
		opts := make([]string, 0, len(d.Options))
		for _, o := range d.Options {
			if o = strings.TrimSpace(o); o != "" {
				opts = append(opts, o)
			}
		}
		d.Options = opts
	}
	return d
}

// Validate checks a (normalised) definition
func (d AttributeDefinition) Validate() error {
	if !attributeKeyPattern.MatchString(d.Key) {
		return ErrInvalidAttributeKey
	}
	if d.Label == "" {
		return ErrMissingLabel
	}
	switch d.Type {
	case AttributeText, AttributeBoolean:
	case AttributeSelect:
		if len(d.Options) < 2 {
			return ErrTooFewOptions
		}
	case AttributeNumber:
		if d.Bounds != nil && d.Bounds.Min != nil && d.Bounds.Max != nil && *d.Bounds.Min > *d.Bounds.Max {
			return ErrInvalidBounds
		}
	default:
		return ErrUnknownAttributeType
	}
	return nil
}

// ValidateValue checks a value before it is stored on a card. The empty
// value always passes; it clears the attribute.
func (d AttributeDefinition) ValidateValue(value string) error {
	if value == "" {
		return nil
	}
	switch d.Type {
	case AttributeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%w: %s expects true or false", ErrInvalidValue, d.Key)
		}
	case AttributeSelect:
		if !slices.Contains(d.Options, value) {
			return fmt.Errorf("%w: %s expects one of %s", ErrInvalidValue, d.Key, strings.Join(d.Options, ", "))
		}
	case AttributeNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number", ErrInvalidValue, d.Key)
		}
		if d.Bounds != nil && d.Bounds.Min != nil && n < *d.Bounds.Min {
			return fmt.Errorf("%w: %s must be at least %g", ErrInvalidValue, d.Key, *d.Bounds.Min)
		}
		if d.Bounds != nil && d.Bounds.Max != nil && n > *d.Bounds.Max {
			return fmt.Errorf("%w: %s must be at most %g", ErrInvalidValue, d.Key, *d.Bounds.Max)
		}
	}
	return nil
}

func floatPtr(f float64) *float64 {
	return &f
}
