package models

import "errors"

// Validation errors. They are returned before any state is mutated.
var (
	ErrInvalidAttributeKey  = errors.New("attribute key must start with a letter and contain only lowercase letters, digits and underscores")
	ErrMissingLabel         = errors.New("attribute label cannot be empty")
	ErrUnknownAttributeType = errors.New("attribute type must be one of text, number, boolean, select")
	ErrTooFewOptions        = errors.New("select attributes need at least 2 options")
	ErrInvalidBounds        = errors.New("number attribute minimum must not exceed maximum")
	ErrBuiltinAttribute     = errors.New("built-in attributes cannot be deleted")
	ErrAttributeExists      = errors.New("an attribute with this key already exists")
	ErrAttributeNotFound    = errors.New("attribute not found")
	ErrCustomIDPrefix       = errors.New("custom record IDs must start with \"" + CustomIDPrefix + "\"")
	ErrReservedID           = errors.New("IDs starting with \"" + CustomIDPrefix + "\" are reserved for custom records")
	ErrRecordExists         = errors.New("a record with this ID already exists")
	ErrMissingName          = errors.New("record name cannot be empty")
	ErrMissingSourceName    = errors.New("custom source name cannot be empty")
	ErrInvalidValue         = errors.New("value does not match the attribute type")
)
