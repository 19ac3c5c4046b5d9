// Package report renders engine results for terminals and machine consumers.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"sim-backend/internal/sim"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json or yaml (case-insensitive). Empty means text.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q: must be one of text, json, yaml", raw)
	}
}

// Write encodes v in the requested format. text is called only for FormatText.
func Write(w io.Writer, format Format, v any, text func() string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		out, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		s := text()
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		_, err := io.WriteString(w, s)
		return err
	}
}

// toYAML reuses the JSON field names and order by decoding the JSON encoding
// into a yaml.Node, which is a superset parser.
func toYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("decode json as yaml: %w", err)
	}
	blockStyle(&node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Renderer draws styled text. Colors follow the capabilities of the writer
// passed to New; a non-terminal writer gets plain text.
type Renderer struct {
	title    lipgloss.Style
	header   lipgloss.Style
	panel    lipgloss.Style
	muted    lipgloss.Style
	alert    lipgloss.Style
	quadrant map[sim.Quadrant]lipgloss.Style
}

// New builds a Renderer for output written to w.
func New(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1),
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		panel: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		muted: r.NewStyle().Foreground(lipgloss.Color("241")),
		alert: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		quadrant: map[sim.Quadrant]lipgloss.Style{
			sim.QuickWins:     r.NewStyle().Foreground(lipgloss.Color("46")),
			sim.StrategicBets: r.NewStyle().Foreground(lipgloss.Color("69")),
			sim.FillIns:       r.NewStyle().Foreground(lipgloss.Color("245")),
			sim.MoneyPits:     r.NewStyle().Foreground(lipgloss.Color("196")),
		},
	}
}

func (r *Renderer) styleQuadrant(q sim.Quadrant) string {
	if s, ok := r.quadrant[q]; ok {
		return s.Render(string(q))
	}
	return string(q)
}

// Analysis renders a full analysis: summary, matrix, insights and action items.
func (r *Renderer) Analysis(res *sim.AnalysisResult) string {
	if res == nil {
		return ""
	}
	org := res.OrganizationProfile
	var b strings.Builder

	b.WriteString(r.title.Render("Strategic Impact Matrix: " + org.Name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n\n", r.muted.Render(fmt.Sprintf("%s | %d beds | %s | threshold %.1f",
		org.Type, org.Beds, money(org.Revenue), res.Threshold)))

	b.WriteString(r.panel.Render(res.ExecutiveSummary))
	b.WriteString("\n\n")

	b.WriteString(r.header.Render("Quadrants"))
	b.WriteString("\n")
	b.WriteString(r.counts(res.QuadrantCounts))
	b.WriteString("\n\n")

	b.WriteString(r.header.Render("Initiatives"))
	b.WriteString("\n")
	for idx, s := range res.ScoredInitiatives {
		marker := ""
		if s.AutoGenerated {
			marker = r.muted.Render(" (generated)")
		}
		fmt.Fprintf(&b, "%2d. %-48s %4.1f  %s%s\n", idx+1, truncate(s.Name, 48), s.PriorityScore, r.styleQuadrant(s.Quadrant), marker)
	}

	if len(res.RoleInsights) > 0 {
		b.WriteString("\n")
		b.WriteString(r.header.Render("Executive insights"))
		b.WriteString("\n")
		for _, in := range res.RoleInsights {
			fmt.Fprintf(&b, "%s: %s\n", in.Role, in.Perspective)
			for _, c := range in.KeyConcerns {
				fmt.Fprintf(&b, "  - %s\n", c)
			}
			for _, rec := range in.Recommendations {
				fmt.Fprintf(&b, "  > %s\n", rec)
			}
		}
	}

	if len(res.ActionItems) > 0 {
		b.WriteString("\n")
		b.WriteString(r.header.Render("Action items"))
		b.WriteString("\n")
		for _, a := range res.ActionItems {
			priority := string(a.Priority)
			if a.Priority == sim.PriorityHigh {
				priority = r.alert.Render(priority)
			}
			fmt.Fprintf(&b, "[%s] %s (%s, %s)\n", priority, a.Task, a.ResponsibleRole, a.Timeline)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Summary renders a portfolio summary under label.
func (r *Renderer) Summary(label string, s *sim.PortfolioSummary) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.title.Render("Portfolio: " + label))
	b.WriteString("\n")
	avg := "n/a"
	if s.AvgPriorityScore != nil {
		avg = fmt.Sprintf("%.1f", *s.AvgPriorityScore)
	}
	fmt.Fprintf(&b, "Initiatives: %d  Average priority: %s  Alerts: %d\n", s.TotalInitiatives, avg, s.AlertCount)
	b.WriteString(r.counts(s.QuadrantCounts))
	b.WriteString("\n")
	if len(s.UrgentInitiatives) == 0 {
		b.WriteString(r.muted.Render("No urgent initiatives"))
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(r.header.Render("Urgent"))
	b.WriteString("\n")
	for _, u := range s.UrgentInitiatives {
		fmt.Fprintf(&b, "- %s (urgency %.1f, impact %.1f, %d days) %s\n", u.Name, u.Urgency, u.Impact, u.DaysOld, r.styleQuadrant(u.Quadrant))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Catalog lists the canonical initiative catalog.
func (r *Renderer) Catalog(entries []sim.CatalogEntry) string {
	var b strings.Builder
	b.WriteString(r.header.Render(fmt.Sprintf("Initiative catalog (%d)", len(entries))))
	b.WriteString("\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-48s %-12s F%.1f C%.1f D%.1f U%.1f\n", truncate(e.Name, 48), e.Category,
			e.BaseFinancialImpact, e.BaseComplexity, e.BaseDisruption, e.BaseUrgency)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Initiative renders one initiative with its current classification.
func (r *Renderer) Initiative(i sim.Initiative, q sim.Quadrant) string {
	return fmt.Sprintf("%s %s\nfinancial %.1f  complexity %.1f  disruption %.1f  urgency %.1f\n%s",
		r.header.Render(i.Name), r.styleQuadrant(q),
		i.FinancialImpact, i.OperationalComplexity, i.CompetitiveDisruption, i.TimeUrgency,
		r.muted.Render(i.Description))
}

// Organizations lists organization profiles.
func (r *Renderer) Organizations(orgs []sim.OrganizationProfile) string {
	var b strings.Builder
	b.WriteString(r.header.Render("Organizations"))
	b.WriteString("\n")
	for _, o := range orgs {
		fmt.Fprintf(&b, "%-8s %-32s %-16s %5d beds %s\n", o.ID, truncate(o.Name, 32), o.Type, o.Beds, money(o.Revenue))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) counts(c sim.QuadrantCounts) string {
	cells := []string{
		fmt.Sprintf("%s %d", r.styleQuadrant(sim.QuickWins), c.QuickWins),
		fmt.Sprintf("%s %d", r.styleQuadrant(sim.StrategicBets), c.StrategicBets),
		fmt.Sprintf("%s %d", r.styleQuadrant(sim.FillIns), c.FillIns),
		fmt.Sprintf("%s %d", r.styleQuadrant(sim.MoneyPits), c.MoneyPits),
	}
	return strings.Join(cells, "  |  ")
}

func money(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	}
	return fmt.Sprintf("$%.0f", v)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
