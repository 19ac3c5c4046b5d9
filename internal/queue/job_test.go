package queue

import (
	"strings"
	"testing"
	"time"
)

func TestNewJobStampsVersionAndTime(t *testing.T) {
	at := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	job := NewJob("analysis-123", "org-1", "request-456", at)

	if job.Version != JobVersion || job.EnqueuedAt != "2026-03-01T17:00:00Z" {
		t.Fatalf("unexpected job %+v", job)
	}

	payload, err := EncodeJob(job)
	if err != nil {
		t.Fatalf("encode job: %v", err)
	}
	if !strings.Contains(string(payload), `"organizationId":"org-1"`) {
		t.Fatalf("payload missing organization id: %s", payload)
	}
	got, err := DecodeJob(payload)
	if err != nil || got != job {
		t.Fatalf("decode mismatch: got %+v err %v", got, err)
	}
}

func TestDecodeJobRejectsGarbage(t *testing.T) {
	if _, err := DecodeJob([]byte("{bad")); err == nil {
		t.Fatalf("expected decode error")
	}
}
