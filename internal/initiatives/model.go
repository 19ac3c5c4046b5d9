package initiatives

import (
	"time"

	"sim-backend/internal/sim"
)

// Initiative is a stored strategic initiative.
type Initiative struct {
	ID                    string
	OrganizationID        string
	Name                  string
	Description           string
	FinancialImpact       float64
	OperationalComplexity float64
	CompetitiveDisruption float64
	TimeUrgency           float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Record returns the scoring view of the initiative.
func (i Initiative) Record() sim.Initiative {
	return sim.Initiative{
		ID:                    i.ID,
		Name:                  i.Name,
		Description:           i.Description,
		FinancialImpact:       i.FinancialImpact,
		OperationalComplexity: i.OperationalComplexity,
		CompetitiveDisruption: i.CompetitiveDisruption,
		TimeUrgency:           i.TimeUrgency,
		OrganizationID:        i.OrganizationID,
		CreatedAt:             i.CreatedAt,
	}
}

// Records converts stored initiatives for the engine.
func Records(list []Initiative) []sim.Initiative {
	out := make([]sim.Initiative, 0, len(list))
	for _, i := range list {
		out = append(out, i.Record())
	}
	return out
}

func fromRecord(r sim.Initiative) Initiative {
	return Initiative{
		ID:                    r.ID,
		OrganizationID:        r.OrganizationID,
		Name:                  r.Name,
		Description:           r.Description,
		FinancialImpact:       r.FinancialImpact,
		OperationalComplexity: r.OperationalComplexity,
		CompetitiveDisruption: r.CompetitiveDisruption,
		TimeUrgency:           r.TimeUrgency,
		CreatedAt:             r.CreatedAt,
	}
}
