// Package mcp exposes the Strategic Impact Matrix engine as MCP tools so
// agents can run analyses over a fixture dataset.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"sim-backend/internal/fixtures"
	"sim-backend/internal/sim"
)

// Server wraps the engine and a dataset behind an MCP server.
type Server struct {
	server *gomcp.Server
	data   fixtures.Provider
	engine *sim.Engine
}

// NewServer registers the tools. A nil engine uses sim.DefaultEngine.
func NewServer(data fixtures.Provider, engine *sim.Engine, version string) *Server {
	if version == "" {
		version = "dev"
	}
	if engine == nil {
		engine = sim.DefaultEngine()
	}
	s := &Server{data: data, engine: engine}
	s.server = gomcp.NewServer(&gomcp.Implementation{Name: "simctl", Version: version}, nil)
	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying server for tests and custom transports.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

type listOrganizationsInput struct{}

type organizationOutput struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Type                string   `json:"type"`
	Beds                int      `json:"beds"`
	Revenue             float64  `json:"revenue"`
	Market              string   `json:"market,omitempty"`
	StrategicPriorities []string `json:"strategic_priorities,omitempty"`
	InitiativeCount     int      `json:"initiative_count"`
}

type listOrganizationsOutput struct {
	Organizations []organizationOutput `json:"organizations"`
	Count         int                  `json:"count"`
}

type generateAnalysisInput struct {
	OrganizationID string `json:"organization_id" jsonschema:"the organization to analyze (e.g. org-1)"`
	Role           string `json:"role,omitempty" jsonschema:"optional executive view to narrow insights and action items to: CEO, CFO or COO"`
}

type scoredInitiativeOutput struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	FinancialImpact       float64 `json:"financial_impact"`
	OperationalComplexity float64 `json:"operational_complexity"`
	CompetitiveDisruption float64 `json:"competitive_disruption"`
	TimeUrgency           float64 `json:"time_urgency"`
	PriorityScore         float64 `json:"priority_score"`
	Quadrant              string  `json:"quadrant"`
	AutoGenerated         bool    `json:"auto_generated"`
}

type roleInsightOutput struct {
	Role            string   `json:"role"`
	Perspective     string   `json:"perspective"`
	KeyConcerns     []string `json:"key_concerns"`
	Recommendations []string `json:"recommendations"`
}

type actionItemOutput struct {
	Task            string   `json:"task"`
	Timeline        string   `json:"timeline"`
	ResponsibleRole string   `json:"responsible_role"`
	Priority        string   `json:"priority"`
	Dependencies    []string `json:"dependencies"`
}

type analysisOutput struct {
	OrganizationID    string                   `json:"organization_id"`
	OrganizationName  string                   `json:"organization_name"`
	Threshold         float64                  `json:"threshold"`
	ExecutiveSummary  string                   `json:"executive_summary"`
	QuadrantCounts    map[string]int           `json:"quadrant_counts"`
	ScoredInitiatives []scoredInitiativeOutput `json:"scored_initiatives"`
	RoleInsights      []roleInsightOutput      `json:"role_insights"`
	ActionItems       []actionItemOutput       `json:"action_items"`
	GeneratedAt       string                   `json:"generated_at"`
}

type summarizePortfolioInput struct {
	OrganizationID string `json:"organization_id,omitempty" jsonschema:"optional organization filter; omit to summarize every organization"`
}

type urgentOutput struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Urgency  float64 `json:"urgency"`
	Impact   float64 `json:"impact"`
	Quadrant string  `json:"quadrant"`
	DaysOld  int     `json:"days_old"`
}

type summaryOutput struct {
	TotalInitiatives  int            `json:"total_initiatives"`
	QuadrantCounts    map[string]int `json:"quadrant_counts"`
	UrgentInitiatives []urgentOutput `json:"urgent_initiatives"`
	AlertCount        int            `json:"alert_count"`
	AvgPriorityScore  *float64       `json:"avg_priority_score"`
}

type classifyQuadrantInput struct {
	FinancialImpact       float64 `json:"financial_impact" jsonschema:"financial impact score between 1 and 5"`
	OperationalComplexity float64 `json:"operational_complexity" jsonschema:"operational complexity score between 1 and 5"`
	CompetitiveDisruption float64 `json:"competitive_disruption" jsonschema:"competitive disruption score between 1 and 5"`
	TimeUrgency           float64 `json:"time_urgency" jsonschema:"time urgency score between 1 and 5"`
}

type classifyQuadrantOutput struct {
	Quadrant      string  `json:"quadrant"`
	PriorityScore float64 `json:"priority_score"`
	Threshold     float64 `json:"threshold"`
}

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_organizations",
		Description: "List the healthcare organizations available for analysis with their type, size and initiative count.",
	}, s.handleListOrganizations)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "generate_sim_analysis",
		Description: "Generate a Strategic Impact Matrix analysis for an organization: scored initiatives, quadrant counts, executive insights and action items.",
	}, s.handleGenerateAnalysis)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "summarize_portfolio",
		Description: "Summarize an initiative portfolio: quadrant counts, urgent initiatives, alert count and average priority.",
	}, s.handleSummarizePortfolio)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "classify_quadrant",
		Description: "Classify a single initiative's scores into a matrix quadrant and compute its simple priority score.",
	}, s.handleClassifyQuadrant)
}

func (s *Server) handleListOrganizations(_ context.Context, _ *gomcp.CallToolRequest, _ listOrganizationsInput) (*gomcp.CallToolResult, listOrganizationsOutput, error) {
	orgs := s.data.Organizations()
	out := listOrganizationsOutput{
		Organizations: make([]organizationOutput, len(orgs)),
		Count:         len(orgs),
	}
	for i, o := range orgs {
		out.Organizations[i] = organizationOutput{
			ID:                  o.ID,
			Name:                o.Name,
			Type:                string(o.Type),
			Beds:                o.Beds,
			Revenue:             o.Revenue,
			Market:              o.Market,
			StrategicPriorities: o.StrategicPriorities,
			InitiativeCount:     len(s.data.Initiatives(o.ID)),
		}
	}
	return nil, out, nil
}

func (s *Server) handleGenerateAnalysis(_ context.Context, _ *gomcp.CallToolRequest, input generateAnalysisInput) (*gomcp.CallToolResult, analysisOutput, error) {
	if input.OrganizationID == "" {
		return errorResult("organization_id is required"), analysisOutput{}, nil
	}
	var role sim.Role
	if input.Role != "" {
		r, err := sim.ParseRole(input.Role)
		if err != nil {
			return errorResult(err.Error()), analysisOutput{}, nil
		}
		role = r
	}

	org, err := s.data.Organization(input.OrganizationID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting organization %s: %s", input.OrganizationID, err)), analysisOutput{}, nil
	}
	res, err := s.engine.GenerateAnalysis(org, s.data.Initiatives(org.ID))
	if err != nil {
		return errorResult(fmt.Sprintf("generating analysis: %s", err)), analysisOutput{}, nil
	}
	if role != "" {
		narrowed := res.ForRole(role)
		res = &narrowed
	}
	return nil, analysisToOutput(res), nil
}

func (s *Server) handleSummarizePortfolio(_ context.Context, _ *gomcp.CallToolRequest, input summarizePortfolioInput) (*gomcp.CallToolResult, summaryOutput, error) {
	if input.OrganizationID != "" {
		if _, err := s.data.Organization(input.OrganizationID); err != nil {
			if errors.Is(err, fixtures.ErrNotFound) {
				return errorResult(fmt.Sprintf("organization %s not found", input.OrganizationID)), summaryOutput{}, nil
			}
			return errorResult(err.Error()), summaryOutput{}, nil
		}
	}
	summary := s.engine.SummarizePortfolio(s.data.Initiatives(input.OrganizationID))
	return nil, summaryToOutput(summary), nil
}

func (s *Server) handleClassifyQuadrant(_ context.Context, _ *gomcp.CallToolRequest, input classifyQuadrantInput) (*gomcp.CallToolResult, classifyQuadrantOutput, error) {
	in := sim.Initiative{
		Name:                  "candidate",
		FinancialImpact:       input.FinancialImpact,
		OperationalComplexity: input.OperationalComplexity,
		CompetitiveDisruption: input.CompetitiveDisruption,
		TimeUrgency:           input.TimeUrgency,
	}
	if err := sim.ValidateInitiative(in); err != nil {
		return errorResult(err.Error()), classifyQuadrantOutput{}, nil
	}
	return nil, classifyQuadrantOutput{
		Quadrant:      string(s.engine.Classify(in)),
		PriorityScore: sim.SimplePriorityScore(in),
		Threshold:     s.engine.Threshold,
	}, nil
}

func analysisToOutput(res *sim.AnalysisResult) analysisOutput {
	out := analysisOutput{
		OrganizationID:    res.OrganizationProfile.ID,
		OrganizationName:  res.OrganizationProfile.Name,
		Threshold:         res.Threshold,
		ExecutiveSummary:  res.ExecutiveSummary,
		QuadrantCounts:    countsToMap(res.QuadrantCounts),
		ScoredInitiatives: make([]scoredInitiativeOutput, len(res.ScoredInitiatives)),
		RoleInsights:      make([]roleInsightOutput, len(res.RoleInsights)),
		ActionItems:       make([]actionItemOutput, len(res.ActionItems)),
		GeneratedAt:       res.GeneratedAt.Format(time.RFC3339),
	}
	for i, si := range res.ScoredInitiatives {
		out.ScoredInitiatives[i] = scoredInitiativeOutput{
			ID:                    si.ID,
			Name:                  si.Name,
			FinancialImpact:       si.FinancialImpact,
			OperationalComplexity: si.OperationalComplexity,
			CompetitiveDisruption: si.CompetitiveDisruption,
			TimeUrgency:           si.TimeUrgency,
			PriorityScore:         si.PriorityScore,
			Quadrant:              string(si.Quadrant),
			AutoGenerated:         si.AutoGenerated,
		}
	}
	for i, ri := range res.RoleInsights {
		out.RoleInsights[i] = roleInsightOutput{
			Role:            string(ri.Role),
			Perspective:     ri.Perspective,
			KeyConcerns:     nonNil(ri.KeyConcerns),
			Recommendations: nonNil(ri.Recommendations),
		}
	}
	for i, a := range res.ActionItems {
		out.ActionItems[i] = actionItemOutput{
			Task:            a.Task,
			Timeline:        a.Timeline,
			ResponsibleRole: string(a.ResponsibleRole),
			Priority:        string(a.Priority),
			Dependencies:    nonNil(a.Dependencies),
		}
	}
	return out
}

func summaryToOutput(s *sim.PortfolioSummary) summaryOutput {
	out := summaryOutput{
		TotalInitiatives:  s.TotalInitiatives,
		QuadrantCounts:    countsToMap(s.QuadrantCounts),
		UrgentInitiatives: make([]urgentOutput, len(s.UrgentInitiatives)),
		AlertCount:        s.AlertCount,
		AvgPriorityScore:  s.AvgPriorityScore,
	}
	for i, u := range s.UrgentInitiatives {
		out.UrgentInitiatives[i] = urgentOutput{
			ID:       u.ID,
			Name:     u.Name,
			Urgency:  u.Urgency,
			Impact:   u.Impact,
			Quadrant: string(u.Quadrant),
			DaysOld:  u.DaysOld,
		}
	}
	return out
}

func countsToMap(c sim.QuadrantCounts) map[string]int {
	return map[string]int{
		string(sim.QuickWins):     c.QuickWins,
		string(sim.StrategicBets): c.StrategicBets,
		string(sim.FillIns):       c.FillIns,
		string(sim.MoneyPits):     c.MoneyPits,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
