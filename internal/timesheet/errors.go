package timesheet

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArgument is returned when the required start time is not supplied.
	ErrMissingArgument = errors.New("missing required argument: start time")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a supplied field that does not match its format.
type ValidationError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) succeed for any field.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
