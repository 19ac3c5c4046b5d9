package organizations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sim-backend/internal/sim"
)

// Input carries the caller-editable organization fields.
type Input struct {
	Name                string
	Type                string
	Beds                int
	Revenue             float64
	Market              string
	StrategicPriorities []string
}

// Service contains business logic for organizations.
type Service struct {
	Repo Repo
	Now  func() time.Time
	// OnDelete runs after a successful delete, for stores without FK cascades.
	OnDelete func(ctx context.Context, id string) error
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create validates and stores a new organization.
func (s *Service) Create(ctx context.Context, userID string, in Input) (Organization, error) {
	org, err := fromInput(in)
	if err != nil {
		return Organization{}, err
	}
	now := s.now()
	org.ID = uuid.NewString()
	org.CreatedBy = userID
	org.CreatedAt = now
	org.UpdatedAt = now
	if err := s.Repo.Create(ctx, org); err != nil {
		return Organization{}, fmt.Errorf("create organization: %w", err)
	}
	return org, nil
}

// Import stores a profile under its own id, used to seed demo data.
func (s *Service) Import(ctx context.Context, profile sim.OrganizationProfile) (Organization, error) {
	if err := sim.ValidateOrganization(profile); err != nil {
		return Organization{}, err
	}
	now := s.now()
	org := Organization{
		ID:                  profile.ID,
		Name:                profile.Name,
		Type:                profile.Type,
		Beds:                profile.Beds,
		Revenue:             profile.Revenue,
		Market:              profile.Market,
		StrategicPriorities: profile.StrategicPriorities,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	if err := s.Repo.Create(ctx, org); err != nil {
		return Organization{}, fmt.Errorf("import organization: %w", err)
	}
	return org, nil
}

// Get returns one organization.
func (s *Service) Get(ctx context.Context, id string) (Organization, error) {
	if strings.TrimSpace(id) == "" {
		return Organization{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns all organizations.
func (s *Service) List(ctx context.Context) ([]Organization, error) {
	return s.Repo.List(ctx)
}

// Update replaces the editable fields of an existing organization.
func (s *Service) Update(ctx context.Context, id string, in Input) (Organization, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Organization{}, err
	}
	org, err := fromInput(in)
	if err != nil {
		return Organization{}, err
	}
	org.ID = existing.ID
	org.CreatedBy = existing.CreatedBy
	org.CreatedAt = existing.CreatedAt
	org.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, org); err != nil {
		return Organization{}, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

// Delete removes an organization.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.OnDelete != nil {
		if err := s.OnDelete(ctx, id); err != nil {
			return fmt.Errorf("delete organization dependents: %w", err)
		}
	}
	return nil
}

func fromInput(in Input) (Organization, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Organization{}, &sim.InvalidInputError{Field: "name", Value: in.Name, Reason: "is required"}
	}
	typ, err := sim.ParseOrganizationType(in.Type)
	if err != nil {
		return Organization{}, err
	}
	org := Organization{
		Name:    name,
		Type:    typ,
		Beds:    in.Beds,
		Revenue: in.Revenue,
		Market:  strings.TrimSpace(in.Market),
	}
	for _, p := range in.StrategicPriorities {
		if p = strings.TrimSpace(p); p != "" {
			org.StrategicPriorities = append(org.StrategicPriorities, p)
		}
	}
	if err := sim.ValidateOrganization(org.Profile()); err != nil {
		return Organization{}, err
	}
	return org, nil
}
