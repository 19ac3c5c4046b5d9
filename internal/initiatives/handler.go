package initiatives

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

// RegisterRoutes attaches initiative routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/organizations/:id/initiatives", h.create)
	rg.GET("/organizations/:id/initiatives", h.listByOrganization)
	rg.GET("/initiatives/:id", h.get)
	rg.PUT("/initiatives/:id", h.update)
	rg.DELETE("/initiatives/:id", h.delete)
	rg.POST("/initiatives/:id/move", h.move)
}

func (h *Handler) create(c *gin.Context) {
	orgID := c.Param("id")
	c.Set(middleware.OrganizationIDKey, orgID)
	var req initiativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	i, err := h.Svc.Create(c.Request.Context(), orgID, req.input())
	if err != nil {
		writeError(c, err, "failed to create initiative")
		return
	}
	respond.JSON(c, http.StatusCreated, h.Svc.toResponse(i))
}

func (h *Handler) listByOrganization(c *gin.Context) {
	orgID := c.Param("id")
	c.Set(middleware.OrganizationIDKey, orgID)
	list, err := h.Svc.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		writeError(c, err, "failed to list initiatives")
		return
	}
	resp := make([]InitiativeResponse, 0, len(list))
	for _, i := range list {
		resp = append(resp, h.Svc.toResponse(i))
	}
	respond.List(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	i, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch initiative")
		return
	}
	c.Set(middleware.OrganizationIDKey, i.OrganizationID)
	respond.OK(c, h.Svc.toResponse(i))
}

func (h *Handler) update(c *gin.Context) {
	var req initiativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	i, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		writeError(c, err, "failed to update initiative")
		return
	}
	c.Set(middleware.OrganizationIDKey, i.OrganizationID)
	respond.OK(c, h.Svc.toResponse(i))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete initiative")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	i, from, err := h.Svc.Move(c.Request.Context(), c.Param("id"), req.Quadrant, req.Justification)
	if err != nil {
		writeError(c, err, "failed to move initiative")
		return
	}
	resp := h.Svc.toResponse(i)
	c.Set(middleware.OrganizationIDKey, i.OrganizationID)
	c.Set(middleware.StatusTransitionKey, string(from)+"->"+string(resp.Quadrant))
	respond.OK(c, gin.H{"initiative": resp, "previousQuadrant": from})
}

func writeError(c *gin.Context, err error, fallback string) {
	if respond.InvalidInput(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "initiative not found", nil)
	case errors.Is(err, ErrOrganizationNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "organization not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
