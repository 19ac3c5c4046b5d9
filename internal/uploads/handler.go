package uploads

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/shared/server/middleware"
	"sim-backend/internal/shared/server/respond"
	"sim-backend/internal/shared/telemetry"
)

const maxUploadBytes = 1 << 20

var allowedContentTypes = map[string]struct{}{
	"application/yaml":         {},
	"application/x-yaml":       {},
	"text/yaml":                {},
	"text/x-yaml":              {},
	"text/plain":               {},
	"application/octet-stream": {},
}

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/portfolio", h.uploadPortfolio)
}

// uploadPortfolio accepts a multipart "file" field holding a YAML dataset.
func (h *Handler) uploadPortfolio(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+4096)

	header, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", []respond.FieldDetails{
			{Field: "file", Reason: "required"},
		})
		return
	}
	if header.Size <= 0 || header.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file size exceeds limit", []respond.FieldDetails{
			{Field: "file", Value: header.Size, Reason: "must be between 1 byte and 1 MiB"},
		})
		return
	}
	contentType := strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0])
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "contentType is not allowed", []respond.FieldDetails{
			{Field: "file", Value: contentType, Reason: "must be a YAML document"},
		})
		return
	}

	f, err := header.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable file", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable file", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	res, err := h.Svc.ImportPortfolio(c.Request.Context(), userID, header.Filename, data)
	if err != nil {
		if errors.Is(err, ErrInvalidDataset) {
			respond.Error(c, http.StatusBadRequest, "invalid_dataset", err.Error(), nil)
			return
		}
		telemetry.Error("uploads.portfolio.failed", map[string]any{
			"user_id":    userID,
			"file_name":  header.Filename,
			"size_bytes": header.Size,
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import portfolio", nil)
		return
	}

	telemetry.Info("uploads.portfolio.imported", map[string]any{
		"user_id":       userID,
		"upload_id":     res.UploadID,
		"organizations": len(res.Organizations),
		"initiatives":   res.InitiativeCount,
	})
	respond.JSON(c, http.StatusCreated, res)
}
