package models

import "fmt"

// ValidationError reports a malformed input row: an unparseable timestamp,
// a missing required field, or a value outside its domain. It always
// surfaces to the caller rather than being repaired silently.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
