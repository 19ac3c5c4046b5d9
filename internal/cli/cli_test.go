package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"sim-backend/internal/sim"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeText(t *testing.T) {
	out, err := run(t, "analyze", "org-1")
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Strategic Impact Matrix: Regional Medical Center") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestAnalyzeJSONForRole(t *testing.T) {
	out, err := run(t, "analyze", "org-2", "--format", "json", "--role", "coo")
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	var res sim.AnalysisResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(res.ScoredInitiatives) != sim.MinWorkingSet {
		t.Fatalf("expected %d initiatives, got %d", sim.MinWorkingSet, len(res.ScoredInitiatives))
	}
	if len(res.RoleInsights) != 1 || res.RoleInsights[0].Role != sim.RoleCOO {
		t.Fatalf("expected only the COO insight, got %+v", res.RoleInsights)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	cases := map[string][]string{
		"unknown organization": {"analyze", "org-404"},
		"bad role":             {"analyze", "org-1", "--role", "CTO"},
		"bad format":           {"analyze", "org-1", "--format", "xml"},
		"bad threshold":        {"analyze", "org-1", "--threshold", "0.5"},
		"missing argument":     {"analyze"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := run(t, args...); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestSummarizeYAMLFromEnv(t *testing.T) {
	t.Setenv("SIM_FORMAT", "yaml")
	out, err := run(t, "summarize")
	if err != nil {
		t.Fatalf("summarize: %v\n%s", err, out)
	}
	var summary struct {
		TotalInitiatives int `yaml:"totalInitiatives"`
	}
	if err := yaml.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if summary.TotalInitiatives != 6 {
		t.Fatalf("expected 6 initiatives, got %d", summary.TotalInitiatives)
	}
}

func TestSummarizeOrganization(t *testing.T) {
	out, err := run(t, "summarize", "org-2")
	if err != nil {
		t.Fatalf("summarize: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Portfolio: Community Health System") || !strings.Contains(out, "Initiatives: 2") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCatalogAndOrganizations(t *testing.T) {
	out, err := run(t, "catalog", "--format", "json")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	var entries []sim.CatalogEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(entries) != len(sim.Catalog()) {
		t.Fatalf("expected %d entries, got %d", len(sim.Catalog()), len(entries))
	}

	out, err = run(t, "orgs")
	if err != nil {
		t.Fatalf("organizations: %v", err)
	}
	if !strings.Contains(out, "org-1") || !strings.Contains(out, "org-2") {
		t.Fatalf("unexpected organizations:\n%s", out)
	}
}

func TestMove(t *testing.T) {
	out, err := run(t, "move", "init-2", "--to", "money_pits", "--why", "vendor costs doubled", "--format", "json")
	if err != nil {
		t.Fatalf("move: %v\n%s", err, out)
	}
	var moved sim.Initiative
	if err := json.Unmarshal([]byte(out), &moved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := sim.DefaultEngine().Classify(moved); got != sim.MoneyPits {
		t.Fatalf("expected Money Pits, got %s", got)
	}
	if !strings.Contains(moved.Description, "vendor costs doubled") {
		t.Fatalf("justification not recorded: %q", moved.Description)
	}

	if _, err := run(t, "move", "init-2", "--to", "Money Pits"); err == nil {
		t.Fatalf("expected error without justification")
	}
	if _, err := run(t, "move", "init-2", "--why", "x"); err == nil {
		t.Fatalf("expected error without target")
	}
	if _, err := run(t, "move", "init-404", "--to", "Fill-ins", "--why", "x"); err == nil {
		t.Fatalf("expected error for unknown initiative")
	}
}

func TestCompare(t *testing.T) {
	out, err := run(t, "compare", "org-1", "org-2")
	if err != nil {
		t.Fatalf("compare: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "--- org-1\n+++ org-2\n") {
		t.Fatalf("expected unified diff header, got:\n%s", out)
	}
	if !strings.Contains(out, "-") || !strings.Contains(out, "+") {
		t.Fatalf("expected changes in diff")
	}

	same, err := run(t, "compare", "org-1", "org-1")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if strings.TrimSpace(same) != "analyses are identical" {
		t.Fatalf("unexpected output for identical analyses:\n%s", same)
	}
}

func TestFixturesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	data := `organizations:
  - id: cah-1
    name: Valley Critical Access
    type: Critical Access
    beds: 25
    revenue: 40000000
    market: Rural
initiatives: []
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write fixtures: %v", err)
	}
	out, err := run(t, "analyze", "cah-1", "--fixtures", path, "--format", "json")
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	var res sim.AnalysisResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, s := range res.ScoredInitiatives {
		if !s.AutoGenerated {
			t.Fatalf("expected only generated initiatives, got %q", s.Name)
		}
	}

	if _, err := run(t, "analyze", "cah-1", "--fixtures", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing fixtures file")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "simctl ") {
		t.Fatalf("unexpected version output %q", out)
	}
}
