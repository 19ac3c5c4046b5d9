package analyses

import (
	"time"

	"sim-backend/internal/sim"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis is one Strategic Impact Matrix run for an organization.
type Analysis struct {
	ID             string
	OrganizationID string
	UserID         string
	Status         string
	SnapshotKey    string
	Result         *sim.AnalysisResult
	ErrorCode      *string
	ErrorMessage   *string
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// Terminal reports whether the analysis will not change status again.
func (a Analysis) Terminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusFailed
}

// StatusUpdate is a partial update applied by UpdateStatus. Nil fields are left as is.
type StatusUpdate struct {
	Status       string
	Result       *sim.AnalysisResult
	SnapshotKey  *string
	ErrorCode    *string
	ErrorMessage *string
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

func (u StatusUpdate) apply(a *Analysis) {
	a.Status = u.Status
	if u.Result != nil {
		a.Result = u.Result
	}
	if u.SnapshotKey != nil {
		a.SnapshotKey = *u.SnapshotKey
	}
	if u.ErrorCode != nil {
		a.ErrorCode = u.ErrorCode
	}
	if u.ErrorMessage != nil {
		a.ErrorMessage = u.ErrorMessage
	}
	if u.StartedAt != nil {
		a.StartedAt = u.StartedAt
	}
	if u.CompletedAt != nil {
		a.CompletedAt = u.CompletedAt
	}
}
