package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches any *ConfigurationError via errors.Is
	ErrConfiguration = errors.New("invalid work week configuration")
	// ErrEntryNotFound is returned when no file exists for a date in any known layout
	ErrEntryNotFound = errors.New("entry not found")
	// ErrMalformedName is returned for entry-looking names whose date cannot be parsed
	ErrMalformedName = errors.New("malformed entry name")
	// ErrUnknownLayout is returned when an entry's parent directory is not a recognized bucket
	ErrUnknownLayout = errors.New("unrecognized bucket directory")
)

// ConfigurationError is a work-week definition that could not be repaired
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("work week %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
