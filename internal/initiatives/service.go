package initiatives

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"sim-backend/internal/organizations"
	"sim-backend/internal/sim"
)

// OrganizationLookup is the subset of the organizations service initiatives need.
type OrganizationLookup interface {
	Get(ctx context.Context, id string) (organizations.Organization, error)
}

// Input carries the caller-editable initiative fields.
type Input struct {
	Name                  string
	Description           string
	FinancialImpact       float64
	OperationalComplexity float64
	CompetitiveDisruption float64
	TimeUrgency           float64
}

// Service contains business logic for initiatives.
type Service struct {
	Repo   Repo
	Orgs   OrganizationLookup
	Engine *sim.Engine
	Now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, orgs OrganizationLookup, engine *sim.Engine) *Service {
	return &Service{Repo: repo, Orgs: orgs, Engine: engine}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create validates and stores a new initiative for an organization. Out-of-range
// dimensions are rejected, never clamped.
func (s *Service) Create(ctx context.Context, orgID string, in Input) (Initiative, error) {
	if err := s.requireOrganization(ctx, orgID); err != nil {
		return Initiative{}, err
	}
	i, err := fromInput(in)
	if err != nil {
		return Initiative{}, err
	}
	now := s.now()
	i.ID = uuid.NewString()
	i.OrganizationID = orgID
	i.CreatedAt = now
	i.UpdatedAt = now
	if err := s.Repo.Create(ctx, i); err != nil {
		return Initiative{}, fmt.Errorf("create initiative: %w", err)
	}
	return i, nil
}

// Import stores a record under its own id and timestamps, used to seed demo data.
func (s *Service) Import(ctx context.Context, r sim.Initiative) (Initiative, error) {
	if err := sim.ValidateInitiative(r); err != nil {
		return Initiative{}, err
	}
	if err := s.requireOrganization(ctx, r.OrganizationID); err != nil {
		return Initiative{}, err
	}
	i := fromRecord(r)
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = s.now()
	}
	i.UpdatedAt = i.CreatedAt
	if err := s.Repo.Create(ctx, i); err != nil {
		return Initiative{}, fmt.Errorf("import initiative: %w", err)
	}
	return i, nil
}

// Get returns one initiative.
func (s *Service) Get(ctx context.Context, id string) (Initiative, error) {
	if strings.TrimSpace(id) == "" {
		return Initiative{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// ListByOrganization returns an organization's initiatives.
func (s *Service) ListByOrganization(ctx context.Context, orgID string) ([]Initiative, error) {
	if err := s.requireOrganization(ctx, orgID); err != nil {
		return nil, err
	}
	return s.Repo.ListByOrganization(ctx, orgID)
}

// ListAll returns initiatives across every organization.
func (s *Service) ListAll(ctx context.Context) ([]Initiative, error) {
	return s.Repo.ListAll(ctx)
}

// Update replaces the editable fields of an initiative.
func (s *Service) Update(ctx context.Context, id string, in Input) (Initiative, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Initiative{}, err
	}
	i, err := fromInput(in)
	if err != nil {
		return Initiative{}, err
	}
	i.ID = existing.ID
	i.OrganizationID = existing.OrganizationID
	i.CreatedAt = existing.CreatedAt
	i.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, i); err != nil {
		return Initiative{}, fmt.Errorf("update initiative: %w", err)
	}
	return i, nil
}

// Delete removes an initiative.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.Repo.Delete(ctx, id)
}

// Move repositions an initiative into target and records why.
func (s *Service) Move(ctx context.Context, id, target, justification string) (Initiative, sim.Quadrant, error) {
	q, err := sim.ParseQuadrant(target)
	if err != nil {
		return Initiative{}, "", err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Initiative{}, "", err
	}
	from := s.Engine.Classify(existing.Record())
	moved, err := s.Engine.MoveToQuadrant(existing.Record(), q, justification)
	if err != nil {
		return Initiative{}, "", err
	}
	out := fromRecord(moved)
	out.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, out); err != nil {
		return Initiative{}, "", fmt.Errorf("move initiative: %w", err)
	}
	return out, from, nil
}

// Score derives the simple priority score, rounded to one decimal, and the
// quadrant for display.
func (s *Service) Score(i Initiative) (float64, sim.Quadrant) {
	r := i.Record()
	return math.Round(sim.SimplePriorityScore(r)*10) / 10, s.Engine.Classify(r)
}

func (s *Service) requireOrganization(ctx context.Context, orgID string) error {
	if strings.TrimSpace(orgID) == "" {
		return ErrInvalidInput
	}
	if _, err := s.Orgs.Get(ctx, orgID); err != nil {
		if errors.Is(err, organizations.ErrNotFound) {
			return ErrOrganizationNotFound
		}
		return err
	}
	return nil
}

func fromInput(in Input) (Initiative, error) {
	i := Initiative{
		Name:                  strings.TrimSpace(in.Name),
		Description:           strings.TrimSpace(in.Description),
		FinancialImpact:       in.FinancialImpact,
		OperationalComplexity: in.OperationalComplexity,
		CompetitiveDisruption: in.CompetitiveDisruption,
		TimeUrgency:           in.TimeUrgency,
	}
	if err := sim.ValidateInitiative(i.Record()); err != nil {
		return Initiative{}, err
	}
	return i, nil
}
