package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is the only error kind the engine produces. Every
// validation failure wraps it, so callers can test with errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError names the offending field.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidParameter, e.Field, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// invalid builds a ParameterError with a formatted reason.
func invalid(field, format string, args ...any) error {
	return &ParameterError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvalidParameter is the exported form of invalid for other packages.
func InvalidParameter(field, format string, args ...any) error {
	return invalid(field, format, args...)
}
