package health

import (
	"context"
	"database/sql"
	"time"

	"sim-backend/internal/shared/storage/db"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. database may be nil when the
// app runs on in-memory repositories.
func NewService(database *sql.DB) *Service {
	return &Service{DB: database}
}

// Status reports overall health and the storage backend in use.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	status := map[string]any{"ok": true, "storage": "memory"}
	if s == nil || s.DB == nil {
		return status, true
	}
	status["storage"] = "postgres"
	if err := db.Ping(ctx, s.DB, pingTimeout); err != nil {
		status["ok"] = false
		status["database"] = err.Error()
		return status, false
	}
	status["database"] = "ok"
	return status, true
}
