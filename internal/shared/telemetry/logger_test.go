package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestWriteStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	Warn("analysis.failed", map[string]any{
		"analysis_id": "a-1",
		"error":       errors.New("boom"),
		"msg":         "overridden",
	})

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["level"] != "warn" || payload["msg"] != "analysis.failed" {
		t.Fatalf("unexpected header fields: %v", payload)
	}
	if payload["error"] != "boom" {
		t.Fatalf("expected error text, got %v", payload["error"])
	}
	if payload["analysis_id"] != "a-1" {
		t.Fatalf("expected analysis_id, got %v", payload["analysis_id"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts")
	}
}
