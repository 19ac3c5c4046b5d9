package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"sim-backend/internal/fixtures"
	"sim-backend/internal/sim"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func demoAnalysis(t *testing.T) *sim.AnalysisResult {
	t.Helper()
	data := fixtures.Demo()
	org, err := data.Organization("org-1")
	if err != nil {
		t.Fatalf("organization: %v", err)
	}
	engine := &sim.Engine{Threshold: sim.DefaultThreshold, Now: func() time.Time { return fixedNow }}
	res, err := engine.GenerateAnalysis(org, data.Initiatives("org-1"))
	if err != nil {
		t.Fatalf("GenerateAnalysis: %v", err)
	}
	return res
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "yml": FormatYAML, " yaml ": FormatYAML}
	for raw, want := range cases {
		got, err := ParseFormat(raw)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestRendererAnalysis(t *testing.T) {
	var buf bytes.Buffer
	res := demoAnalysis(t)
	out := New(&buf).Analysis(res)

	for _, want := range []string{
		"Strategic Impact Matrix: Regional Medical Center",
		"AI Diagnostic Platform",
		"(generated)",
		"Executive insights",
		"CFO:",
		"Action items",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected plain output for non-terminal writer")
	}
}

func TestRendererAnalysisNarrowedToRole(t *testing.T) {
	var buf bytes.Buffer
	res := demoAnalysis(t).ForRole(sim.RoleCFO)
	out := New(&buf).Analysis(&res)
	if !strings.Contains(out, "CFO:") {
		t.Fatalf("expected CFO insight")
	}
	if strings.Contains(out, "CEO:") || strings.Contains(out, "COO:") {
		t.Fatalf("expected only the CFO insight:\n%s", out)
	}
}

func TestRendererSummary(t *testing.T) {
	var buf bytes.Buffer
	engine := &sim.Engine{Threshold: sim.DefaultThreshold, Now: func() time.Time { return fixedNow }}
	summary := engine.SummarizePortfolio(fixtures.Demo().Initiatives("org-1"))

	out := New(&buf).Summary("org-1", summary)
	if !strings.Contains(out, "Portfolio: org-1") || !strings.Contains(out, "Initiatives: 4") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "Urgent") {
		t.Fatalf("expected urgent section:\n%s", out)
	}

	empty := New(&buf).Summary("none", engine.SummarizePortfolio(nil))
	if !strings.Contains(empty, "Average priority: n/a") || !strings.Contains(empty, "No urgent initiatives") {
		t.Fatalf("unexpected empty summary:\n%s", empty)
	}
}

func TestRendererCatalogAndOrganizations(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	entries := sim.Catalog()
	out := r.Catalog(entries)
	if !strings.Contains(out, "Initiative catalog") || !strings.Contains(out, "Electronic Health Record") {
		t.Fatalf("unexpected catalog:\n%s", out)
	}

	orgs := r.Organizations(fixtures.Demo().Organizations())
	if !strings.Contains(orgs, "org-2") || !strings.Contains(orgs, "$95.0M") {
		t.Fatalf("unexpected organizations:\n%s", orgs)
	}
}

func TestWriteFormats(t *testing.T) {
	summary := &sim.PortfolioSummary{TotalInitiatives: 2, QuadrantCounts: sim.QuadrantCounts{QuickWins: 2}}

	var jsonBuf bytes.Buffer
	if err := Write(&jsonBuf, FormatJSON, summary, nil); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(jsonBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded["totalInitiatives"].(float64) != 2 {
		t.Fatalf("unexpected json: %s", jsonBuf.String())
	}

	var yamlBuf bytes.Buffer
	if err := Write(&yamlBuf, FormatYAML, summary, nil); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if strings.Contains(yamlBuf.String(), "{") {
		t.Fatalf("expected block style yaml:\n%s", yamlBuf.String())
	}
	var fromYAML struct {
		TotalInitiatives int `yaml:"totalInitiatives"`
		QuadrantCounts   struct {
			QuickWins int `yaml:"quickWins"`
		} `yaml:"quadrantCounts"`
	}
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if fromYAML.TotalInitiatives != 2 || fromYAML.QuadrantCounts.QuickWins != 2 {
		t.Fatalf("unexpected yaml:\n%s", yamlBuf.String())
	}

	var textBuf bytes.Buffer
	if err := Write(&textBuf, FormatText, summary, func() string { return "hello" }); err != nil {
		t.Fatalf("text: %v", err)
	}
	if textBuf.String() != "hello\n" {
		t.Fatalf("unexpected text %q", textBuf.String())
	}
}
