package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"sim-backend/internal/shared/storage/object"
)

func TestPutAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.Put(ctx, "analyses/org/a1.json", "application/json", strings.NewReader(`{"ok":true}`))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 11 {
		t.Fatalf("expected 11 bytes written, got %d", n)
	}
	if _, err := store.Put(ctx, "analyses/org/a1.json", "application/json", strings.NewReader(`{}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	rc, err := store.Open(ctx, "analyses/org/a1.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != `{}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../escape.json", "/abs.json", ""} {
		if _, err := store.Put(context.Background(), key, "", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestOpenMissingIsNotFound(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "analyses/org/none.json"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
