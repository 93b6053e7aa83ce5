package language

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no language exists for an identifier
	ErrNotFound = errors.New("language does not exist")
	// ErrConflict is returned when a language name is already taken
	ErrConflict = errors.New("language already exists")
)

// ValidationError reports a language name that does not satisfy the naming rules
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%q is not a valid language: %s", e.Name, e.Reason)
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
