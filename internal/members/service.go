package members

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sim-backend/internal/organizations"
	"sim-backend/internal/sim"
)

// ErrInvalidInput marks a rejected role or organization choice.
var ErrInvalidInput = errors.New("invalid input")

// OrganizationLookup confirms an organization exists.
type OrganizationLookup interface {
	Get(ctx context.Context, id string) (organizations.Organization, error)
}

type Service struct {
	Repo Repo
	Orgs OrganizationLookup
}

func NewService(repo Repo, orgs OrganizationLookup) *Service {
	return &Service{Repo: repo, Orgs: orgs}
}

// UpsertFromAuth persists the identity returned by the OAuth provider and
// returns the stored member, including any role chosen earlier.
func (s *Service) UpsertFromAuth(ctx context.Context, member Member) (Member, error) {
	if s == nil || s.Repo == nil {
		return Member{}, errors.New("members service not configured")
	}
	if strings.TrimSpace(member.ID) == "" || strings.TrimSpace(member.Email) == "" {
		return Member{}, fmt.Errorf("%w: member id and email are required", ErrInvalidInput)
	}
	if err := s.Repo.Upsert(ctx, member); err != nil {
		return Member{}, err
	}
	return s.Repo.GetByID(ctx, member.ID)
}

func (s *Service) GetByID(ctx context.Context, memberID string) (Member, error) {
	if s == nil || s.Repo == nil {
		return Member{}, errors.New("members service not configured")
	}
	if strings.TrimSpace(memberID) == "" {
		return Member{}, fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, memberID)
}

// SetRole records the executive role the member views analyses as, and
// optionally the organization they belong to.
func (s *Service) SetRole(ctx context.Context, memberID, rawRole, organizationID string) (Member, error) {
	role, err := sim.ParseRole(rawRole)
	if err != nil {
		return Member{}, err
	}
	organizationID = strings.TrimSpace(organizationID)
	if organizationID != "" && s.Orgs != nil {
		if _, err := s.Orgs.Get(ctx, organizationID); err != nil {
			if errors.Is(err, organizations.ErrNotFound) {
				return Member{}, fmt.Errorf("%w: unknown organization %q", ErrInvalidInput, organizationID)
			}
			return Member{}, err
		}
	}
	if err := s.Repo.SetRole(ctx, memberID, role, organizationID); err != nil {
		return Member{}, err
	}
	return s.Repo.GetByID(ctx, memberID)
}
