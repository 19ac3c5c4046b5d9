package object

import (
	"strings"
	"testing"
)

func TestSnapshotKey(t *testing.T) {
	key, err := SnapshotKey("org-1", "analysis-1")
	if err != nil {
		t.Fatalf("SnapshotKey: %v", err)
	}
	if !strings.HasPrefix(key, "analyses/") || !strings.HasSuffix(key, "/analysis-1.json") {
		t.Fatalf("unexpected key %q", key)
	}
	if strings.Contains(key, "org-1") {
		t.Fatalf("organization id should be hashed, got %q", key)
	}
	if _, err := SnapshotKey("org-1", "../x"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}
