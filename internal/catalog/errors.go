package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is matched by every validation failure.
	ErrInvalid = errors.New("invalid request")
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// ValidationError is a rejected request. It matches ErrInvalid.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrInvalid) report true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Invalid returns a ValidationError with a formatted message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFound wraps ErrNotFound with the kind of record that is missing.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
