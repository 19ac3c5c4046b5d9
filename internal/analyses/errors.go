package analyses

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrSnapshotNotReady     = errors.New("snapshot not ready")
)

const (
	ErrorCodeValidation   = "VALIDATION_ERROR"
	ErrorCodeOrganization = "ORGANIZATION_NOT_FOUND"
	ErrorCodeStorage      = "STORAGE_ERROR"
	ErrorCodeQueue        = "QUEUE_ERROR"
	ErrorCodeInternal     = "INTERNAL_ERROR"
)
