package organizations

import (
	"time"

	"sim-backend/internal/sim"
)

// Organization is a stored healthcare organization.
type Organization struct {
	ID                  string
	Name                string
	Type                sim.OrganizationType
	Beds                int
	Revenue             float64
	Market              string
	StrategicPriorities []string
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Profile returns the scoring view of the organization.
func (o Organization) Profile() sim.OrganizationProfile {
	return sim.OrganizationProfile{
		ID:                  o.ID,
		Name:                o.Name,
		Type:                o.Type,
		Beds:                o.Beds,
		Revenue:             o.Revenue,
		Market:              o.Market,
		StrategicPriorities: append([]string(nil), o.StrategicPriorities...),
	}
}
