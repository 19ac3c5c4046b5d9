package initiatives

import "errors"

var (
	ErrNotFound             = errors.New("initiative not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvalidInput         = errors.New("invalid initiative")
)
