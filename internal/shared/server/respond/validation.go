package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/sim"
)

// InvalidInput writes a 400 for engine validation errors and reports whether
// err was one. Unsupported organization types get their own code.
func InvalidInput(c *gin.Context, err error) bool {
	var unsupported *sim.UnsupportedOrganizationTypeError
	if errors.As(err, &unsupported) {
		Error(c, http.StatusBadRequest, "unsupported_organization_type", unsupported.Error(),
			FieldDetails{Field: "type", Value: unsupported.Value, Reason: "must be Independent, Regional, Specialty or Critical Access"})
		return true
	}
	var invalid *sim.InvalidInputError
	if errors.As(err, &invalid) {
		Error(c, http.StatusBadRequest, "validation_error", invalid.Error(),
			FieldDetails{Field: invalid.Field, Value: invalid.Value, Reason: invalid.Reason})
		return true
	}
	if errors.Is(err, sim.ErrInvalidInput) {
		Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return true
	}
	return false
}
