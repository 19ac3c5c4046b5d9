package members

import (
	"context"
	"errors"
	"testing"

	"sim-backend/internal/organizations"
	"sim-backend/internal/sim"
)

func TestUpsertKeepsChosenRole(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo(), nil)

	member := Member{ID: "google:1", Email: "ceo@example.org", Name: "Dana", AuthProvider: "google", ProviderUserID: "1"}
	if _, err := svc.UpsertFromAuth(ctx, member); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	if _, err := svc.SetRole(ctx, "google:1", "cfo", ""); err != nil {
		t.Fatalf("SetRole: %v", err)
	}

	member.Name = "Dana R."
	got, err := svc.UpsertFromAuth(ctx, member)
	if err != nil {
		t.Fatalf("second UpsertFromAuth: %v", err)
	}
	if got.Role != sim.RoleCFO || got.Name != "Dana R." {
		t.Fatalf("unexpected member %+v", got)
	}
}

func TestUpsertRequiresEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	_, err := svc.UpsertFromAuth(context.Background(), Member{ID: "google:1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetRoleValidation(t *testing.T) {
	ctx := context.Background()
	orgs := organizations.NewService(organizations.NewMemoryRepo())
	org, err := orgs.Create(ctx, "google:1", organizations.Input{Name: "Community Health System", Type: "Independent", Beds: 150, Revenue: 95_000_000})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	svc := NewService(NewMemoryRepo(), orgs)
	if _, err := svc.UpsertFromAuth(ctx, Member{ID: "google:1", Email: "coo@example.org"}); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}

	if _, err := svc.SetRole(ctx, "google:1", "CTO", ""); !errors.Is(err, sim.ErrInvalidInput) {
		t.Fatalf("expected role rejection, got %v", err)
	}
	if _, err := svc.SetRole(ctx, "google:1", "COO", "missing"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown organization rejection, got %v", err)
	}
	if _, err := svc.SetRole(ctx, "google:2", "COO", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := svc.SetRole(ctx, "google:1", " coo ", org.ID)
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if got.Role != sim.RoleCOO || got.OrganizationID != org.ID {
		t.Fatalf("unexpected member %+v", got)
	}
}
