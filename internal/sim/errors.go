package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every input validation error from this package.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a caller-supplied value the engine refuses to score.
type InvalidInputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnsupportedOrganizationTypeError reports an organization type outside the closed set.
type UnsupportedOrganizationTypeError struct {
	Value string
}

func (e *UnsupportedOrganizationTypeError) Error() string {
	return fmt.Sprintf("unsupported organization type %q", e.Value)
}

func (e *UnsupportedOrganizationTypeError) Is(target error) bool {
	return target == ErrInvalidInput
}
