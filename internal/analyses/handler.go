package analyses

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/shared/server/middleware"
	"sim-backend/internal/shared/server/respond"
	"sim-backend/internal/sim"
	"sim-backend/internal/usage"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc  *Service
	poll *pollLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, poll: newPollLimiter(pollLimitWindow, nil)}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/organizations/:id/analyses", h.startAnalysis)
	rg.GET("/organizations/:id/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.GET("/analyses/:id/snapshot", h.downloadSnapshot)
	rg.GET("/portfolio/summary", h.portfolioSummary)
}

func (h *Handler) startAnalysis(c *gin.Context) {
	orgID := c.Param("id")
	c.Set(middleware.OrganizationIDKey, orgID)
	ctx := WithTrace(c.Request.Context(), Trace{RequestID: middleware.RequestIDFromContext(c), Source: SourceAPI})

	analysis, err := h.Svc.Start(ctx, orgID, middleware.UserIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, usage.ErrLimitReached):
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "You've reached your analysis limit for this period.", []map[string]string{
				{"field": "usage", "issue": "limit_reached"},
			})
		default:
			writeError(c, err, "failed to start analysis")
		}
		return
	}

	c.Set(middleware.AnalysisIDKey, analysis.ID)
	c.Set(middleware.StatusTransitionKey, "->"+analysis.Status)
	respond.JSON(c, http.StatusAccepted, gin.H{
		"analysisId": analysis.ID,
		"status":     analysis.Status,
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set(middleware.AnalysisIDKey, analysisID)

	var role sim.Role
	if raw := c.Query("role"); raw != "" {
		parsed, err := sim.ParseRole(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), respond.FieldDetails{Field: "role", Value: raw})
			return
		}
		role = parsed
	}

	if wait := h.poll.Wait(middleware.UserIDFromContext(c), analysisID); wait > 0 {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "polling too frequently", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		writeError(c, err, "failed to fetch analysis")
		return
	}
	c.Set(middleware.OrganizationIDKey, analysis.OrganizationID)
	respond.OK(c, toResponse(analysis, role))
}

// downloadSnapshot streams the archived result exactly as it was stored.
func (h *Handler) downloadSnapshot(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set(middleware.AnalysisIDKey, analysisID)

	analysis, rc, err := h.Svc.Snapshot(c.Request.Context(), analysisID)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotReady) {
			respond.Error(c, http.StatusConflict, "snapshot_not_ready", "analysis has not completed", []respond.FieldDetails{
				{Field: "status", Value: analysis.Status, Reason: "must be completed"},
			})
			return
		}
		writeError(c, err, "failed to read snapshot")
		return
	}
	defer rc.Close()

	c.Set(middleware.OrganizationIDKey, analysis.OrganizationID)
	c.DataFromReader(http.StatusOK, -1, "application/json", rc, map[string]string{
		"Content-Disposition": `attachment; filename="analysis-` + analysis.ID + `.json"`,
	})
}

func (h *Handler) listAnalyses(c *gin.Context) {
	orgID := c.Param("id")
	c.Set(middleware.OrganizationIDKey, orgID)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	analyses, err := h.Svc.ListByOrganization(c.Request.Context(), orgID, limit, offset)
	if err != nil {
		writeError(c, err, "failed to list analyses")
		return
	}
	items := make([]AnalysisListItem, 0, len(analyses))
	for _, a := range analyses {
		items = append(items, toListItem(a))
	}
	respond.List(c, items)
}

func (h *Handler) portfolioSummary(c *gin.Context) {
	orgID := c.Query("organizationId")
	if orgID != "" {
		c.Set(middleware.OrganizationIDKey, orgID)
	}
	summary, err := h.Svc.Summary(c.Request.Context(), orgID)
	if err != nil {
		writeError(c, err, "failed to summarize portfolio")
		return
	}
	respond.OK(c, summary)
}

func writeError(c *gin.Context, err error, fallback string) {
	if respond.InvalidInput(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
	case errors.Is(err, ErrOrganizationNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "organization not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
