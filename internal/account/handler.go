package account

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sim-backend/internal/shared/server/middleware"
	"sim-backend/internal/shared/server/respond"
	"sim-backend/internal/shared/telemetry"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/account/claim-guest", h.claimGuest)
}

func (h *Handler) claimGuest(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := strings.TrimSpace(middleware.UserIDFromContext(c))
	if middleware.IsGuest(c) || userID == "" {
		respond.Error(c, http.StatusUnauthorized, "login_required", "sign in to claim guest analyses", nil)
		return
	}

	guestID := strings.TrimSpace(c.GetHeader(middleware.GuestHeader))
	if guestID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "missing X-Guest-Id header", []respond.FieldDetails{
			{Field: middleware.GuestHeader, Reason: "required"},
		})
		return
	}
	if _, err := uuid.Parse(guestID); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid guest id", []respond.FieldDetails{
			{Field: middleware.GuestHeader, Value: guestID, Reason: "must be a UUID"},
		})
		return
	}

	result, err := h.Svc.ClaimGuest(c.Request.Context(), "guest:"+guestID, userID)
	if err != nil {
		telemetry.Error("account.claim_guest.failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to claim guest analyses", nil)
		return
	}
	telemetry.Info("account.claim_guest", map[string]any{
		"user_id":           userID,
		"migrated_analyses": result.MigratedAnalyses,
	})
	respond.JSON(c, http.StatusOK, result)
}
