package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	status, ok := NewService(nil).Status(context.Background())
	if !ok || status["storage"] != "memory" {
		t.Fatalf("unexpected status %v", status)
	}
}

func TestStatusPingsDatabase(t *testing.T) {
	database, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	mock.ExpectPing()
	status, ok := NewService(database).Status(context.Background())
	if !ok || status["database"] != "ok" {
		t.Fatalf("unexpected status %v", status)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	status, ok = NewService(database).Status(context.Background())
	if ok || status["ok"] != false {
		t.Fatalf("expected unhealthy status, got %v", status)
	}
}
