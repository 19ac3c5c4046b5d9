package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// GuestClaimer moves records created under a guest identity to a signed-in user.
type GuestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error)
}

// Service claims guest-owned analyses for a member after sign-in.
type Service struct {
	Analyses GuestClaimer
}

// ClaimResult reports how many records moved.
type ClaimResult struct {
	MigratedAnalyses int `json:"migratedAnalyses"`
}

// ErrInvalidClaim is returned when either identity is missing or the target is a guest.
var ErrInvalidClaim = errors.New("invalid claim")

func NewService(analyses GuestClaimer) *Service {
	return &Service{Analyses: analyses}
}

// ClaimGuest is idempotent: a second call finds nothing left to move.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, userID string) (ClaimResult, error) {
	guestUserID = strings.TrimSpace(guestUserID)
	userID = strings.TrimSpace(userID)
	if guestUserID == "" || userID == "" {
		return ClaimResult{}, fmt.Errorf("%w: guest and user ids are required", ErrInvalidClaim)
	}
	if strings.HasPrefix(userID, "guest:") {
		return ClaimResult{}, fmt.Errorf("%w: target must be a signed-in user", ErrInvalidClaim)
	}
	if s.Analyses == nil {
		return ClaimResult{}, errors.New("analyses repo not configured")
	}

	n, err := s.Analyses.ClaimGuest(ctx, guestUserID, userID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedAnalyses: n}, nil
}
