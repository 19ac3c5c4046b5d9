package analyses

import (
	"time"

	"sim-backend/internal/sim"
)

// AnalysisResponse is the JSON shape of an analysis.
type AnalysisResponse struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organizationId"`
	Status         string              `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	StartedAt      *time.Time          `json:"startedAt,omitempty"`
	CompletedAt    *time.Time          `json:"completedAt,omitempty"`
	SnapshotKey    string              `json:"snapshotKey,omitempty"`
	ErrorCode      *string             `json:"errorCode,omitempty"`
	ErrorMessage   *string             `json:"errorMessage,omitempty"`
	Result         *sim.AnalysisResult `json:"result,omitempty"`
}

// AnalysisListItem is a history entry without the full result.
type AnalysisListItem struct {
	ID               string              `json:"id"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"createdAt"`
	CompletedAt      *time.Time          `json:"completedAt,omitempty"`
	QuadrantCounts   *sim.QuadrantCounts `json:"quadrantCounts,omitempty"`
	ExecutiveSummary string              `json:"executiveSummary,omitempty"`
}

func toResponse(a Analysis, role sim.Role) AnalysisResponse {
	resp := AnalysisResponse{
		ID:             a.ID,
		OrganizationID: a.OrganizationID,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		StartedAt:      a.StartedAt,
		CompletedAt:    a.CompletedAt,
		SnapshotKey:    a.SnapshotKey,
		ErrorCode:      a.ErrorCode,
		ErrorMessage:   a.ErrorMessage,
	}
	if a.Status == StatusCompleted && a.Result != nil {
		result := *a.Result
		if role != "" {
			result = result.ForRole(role)
		}
		resp.Result = &result
	}
	return resp
}

func toListItem(a Analysis) AnalysisListItem {
	item := AnalysisListItem{
		ID:          a.ID,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
		CompletedAt: a.CompletedAt,
	}
	if a.Status == StatusCompleted && a.Result != nil {
		counts := a.Result.QuadrantCounts
		item.QuadrantCounts = &counts
		item.ExecutiveSummary = a.Result.ExecutiveSummary
	}
	return item
}
