package initiatives

import (
	"time"

	"sim-backend/internal/sim"
)

// InitiativeResponse is the outward-facing representation of an initiative.
type InitiativeResponse struct {
	ID                    string       `json:"id"`
	OrganizationID        string       `json:"organizationId"`
	Name                  string       `json:"name"`
	Description           string       `json:"description"`
	FinancialImpact       float64      `json:"financialImpact"`
	OperationalComplexity float64      `json:"operationalComplexity"`
	CompetitiveDisruption float64      `json:"competitiveDisruption"`
	TimeUrgency           float64      `json:"timeUrgency"`
	PriorityScore         float64      `json:"priorityScore"`
	Quadrant              sim.Quadrant `json:"quadrant"`
	CreatedAt             time.Time    `json:"createdAt"`
	UpdatedAt             time.Time    `json:"updatedAt"`
}

type initiativeRequest struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	FinancialImpact       *float64 `json:"financialImpact"`
	OperationalComplexity *float64 `json:"operationalComplexity"`
	CompetitiveDisruption *float64 `json:"competitiveDisruption"`
	TimeUrgency           *float64 `json:"timeUrgency"`
}

// input maps missing dimensions to zero so validation reports them.
func (r initiativeRequest) input() Input {
	deref := func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	}
	return Input{
		Name:                  r.Name,
		Description:           r.Description,
		FinancialImpact:       deref(r.FinancialImpact),
		OperationalComplexity: deref(r.OperationalComplexity),
		CompetitiveDisruption: deref(r.CompetitiveDisruption),
		TimeUrgency:           deref(r.TimeUrgency),
	}
}

type moveRequest struct {
	Quadrant      string `json:"quadrant"`
	Justification string `json:"justification"`
}

func (s *Service) toResponse(i Initiative) InitiativeResponse {
	score, q := s.Score(i)
	return InitiativeResponse{
		ID:                    i.ID,
		OrganizationID:        i.OrganizationID,
		Name:                  i.Name,
		Description:           i.Description,
		FinancialImpact:       i.FinancialImpact,
		OperationalComplexity: i.OperationalComplexity,
		CompetitiveDisruption: i.CompetitiveDisruption,
		TimeUrgency:           i.TimeUrgency,
		PriorityScore:         score,
		Quadrant:              q,
		CreatedAt:             i.CreatedAt,
		UpdatedAt:             i.UpdatedAt,
	}
}
