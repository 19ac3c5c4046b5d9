package organizations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/shared/server/middleware"
	"sim-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches organization routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/organizations", h.create)
	rg.GET("/organizations", h.list)
	rg.GET("/organizations/:id", h.get)
	rg.PUT("/organizations/:id", h.update)
	rg.DELETE("/organizations/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	org, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req.input())
	if err != nil {
		writeError(c, err, "failed to create organization")
		return
	}
	c.Set(middleware.OrganizationIDKey, org.ID)
	respond.JSON(c, http.StatusCreated, toResponse(org))
}

func (h *Handler) list(c *gin.Context) {
	orgs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list organizations")
		return
	}
	resp := make([]OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		resp = append(resp, toResponse(org))
	}
	respond.List(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.OrganizationIDKey, id)
	org, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to fetch organization")
		return
	}
	respond.OK(c, toResponse(org))
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.OrganizationIDKey, id)
	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	org, err := h.Svc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, err, "failed to update organization")
		return
	}
	respond.OK(c, toResponse(org))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.OrganizationIDKey, id)
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to delete organization")
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error, fallback string) {
	if respond.InvalidInput(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "organization not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
