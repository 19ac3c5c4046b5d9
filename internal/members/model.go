package members

import (
	"time"

	"sim-backend/internal/sim"
)

// Member is a signed-in executive. Role and OrganizationID stay empty until
// the member picks them.
type Member struct {
	ID             string
	Email          string
	Name           string
	PictureURL     string
	AuthProvider   string
	ProviderUserID string
	Role           sim.Role
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
