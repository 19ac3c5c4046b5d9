package organizations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"sim-backend/internal/sim"
)

var pgColumns = []string{"id", "name", "type", "beds", "revenue", "market", "strategic_priorities", "created_by", "created_at", "updated_at"}

func TestPGRepoCreateEncodesPriorities(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	org := Organization{
		ID:                  "org-1",
		Name:                "Regional Medical Center",
		Type:                sim.Regional,
		Beds:                275,
		Revenue:             185_000_000,
		Market:              "Metro Area",
		StrategicPriorities: []string{"Cost Reduction"},
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	mock.ExpectExec("INSERT INTO healthcare_organizations").
		WithArgs("org-1", "Regional Medical Center", "Regional", 275, 185_000_000.0, "Metro Area",
			`["Cost Reduction"]`, nil, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), org); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, name, type, beds, revenue, market, strategic_priorities, created_by, created_at, updated_at FROM healthcare_organizations WHERE id").
		WithArgs("org-2").
		WillReturnRows(sqlmock.NewRows(pgColumns).
			AddRow("org-2", "Community Health System", "Independent", 150, 95_000_000.0, "Rural Community",
				[]byte(`["Rural Access","Telehealth"]`), "user-1", now, now))

	org, err := repo.GetByID(context.Background(), "org-2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if org.Type != sim.Independent || len(org.StrategicPriorities) != 2 || org.CreatedBy != "user-1" {
		t.Fatalf("unexpected organization: %+v", org)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("FROM healthcare_organizations WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(pgColumns))
	mock.ExpectExec("DELETE FROM healthcare_organizations").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from GetByID, got %v", err)
	}
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Delete, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
