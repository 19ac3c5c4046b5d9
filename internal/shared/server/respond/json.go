package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// List wraps items in the {"items": [...]} envelope used by collection endpoints.
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	OK(c, gin.H{"items": items})
}
