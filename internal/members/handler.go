package members

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	sharedauth "sim-backend/internal/shared/auth"
	"sim-backend/internal/shared/server/middleware"
	"sim-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PUT("/me/role", h.setRole)
}

// me returns the stored member when one exists and otherwise echoes the
// identity carried by the request, which covers guests.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	response := gin.H{
		"userId":  userID,
		"isGuest": middleware.IsGuest(c),
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}
	if name := middleware.UserNameFromContext(c); name != "" {
		response["name"] = name
	}
	if picture := middleware.UserPictureFromContext(c); picture != "" {
		response["picture"] = picture
	}
	if role := middleware.RoleFromContext(c); role != "" {
		response["role"] = role
	}

	if !middleware.IsGuest(c) && h.Svc != nil {
		member, err := h.Svc.GetByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			mergeMember(response, member)
		case errors.Is(err, ErrNotFound):
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load member", nil)
			return
		}
	}

	respond.OK(c, response)
}

type roleRequest struct {
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId"`
}

func (h *Handler) setRole(c *gin.Context) {
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to save a role", nil)
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	member, err := h.Svc.SetRole(c.Request.Context(), middleware.UserIDFromContext(c), req.Role, req.OrganizationID)
	if err != nil {
		if respond.InvalidInput(c, err) {
			return
		}
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "member not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save role", nil)
		}
		return
	}

	token, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:            member.ID,
		Email:          member.Email,
		Name:           member.Name,
		Picture:        member.PictureURL,
		Role:           string(member.Role),
		OrganizationID: member.OrganizationID,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	response := gin.H{"userId": member.ID, "token": token}
	mergeMember(response, member)
	respond.OK(c, response)
}

func mergeMember(response gin.H, member Member) {
	response["email"] = member.Email
	response["name"] = member.Name
	if member.PictureURL != "" {
		response["picture"] = member.PictureURL
	}
	if member.Role != "" {
		response["role"] = member.Role
	}
	if member.OrganizationID != "" {
		response["organizationId"] = member.OrganizationID
	}
}
