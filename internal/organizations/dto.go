package organizations

import "time"

// OrganizationResponse is the outward-facing representation of an organization.
type OrganizationResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Type                string    `json:"type"`
	Beds                int       `json:"beds"`
	Revenue             float64   `json:"revenue"`
	Market              string    `json:"market"`
	StrategicPriorities []string  `json:"strategicPriorities"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type organizationRequest struct {
	Name                string   `json:"name"`
	Type                string   `json:"type"`
	Beds                int      `json:"beds"`
	Revenue             float64  `json:"revenue"`
	Market              string   `json:"market"`
	StrategicPriorities []string `json:"strategicPriorities"`
}

func (r organizationRequest) input() Input {
	return Input{
		Name:                r.Name,
		Type:                r.Type,
		Beds:                r.Beds,
		Revenue:             r.Revenue,
		Market:              r.Market,
		StrategicPriorities: r.StrategicPriorities,
	}
}

func toResponse(org Organization) OrganizationResponse {
	priorities := org.StrategicPriorities
	if priorities == nil {
		priorities = []string{}
	}
	return OrganizationResponse{
		ID:                  org.ID,
		Name:                org.Name,
		Type:                string(org.Type),
		Beds:                org.Beds,
		Revenue:             org.Revenue,
		Market:              org.Market,
		StrategicPriorities: priorities,
		CreatedAt:           org.CreatedAt,
		UpdatedAt:           org.UpdatedAt,
	}
}
