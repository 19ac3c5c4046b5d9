package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/shared/telemetry"
)

// Context keys handlers set so the request log can correlate records.
const (
	OrganizationIDKey   = "organizationId"
	AnalysisIDKey       = "analysisId"
	StatusTransitionKey = "statusTransition"
)

// Logging emits one structured log line per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		isGuest, _ := c.Get(isGuestKey)
		telemetry.Info("request.complete", map[string]any{
			"request_id":        RequestIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            c.Writer.Status(),
			"status_transition": c.GetString(StatusTransitionKey),
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"user_id":           UserIDFromContext(c),
			"role":              RoleFromContext(c),
			"organization_id":   c.GetString(OrganizationIDKey),
			"analysis_id":       c.GetString(AnalysisIDKey),
			"is_guest":          isGuest,
			"client_ip":         c.ClientIP(),
		})
	}
}
