package sim

import (
	"strings"
	"time"
)

// OrganizationType is the closed set of healthcare organization kinds.
type OrganizationType string

const (
	Independent    OrganizationType = "Independent"
	Regional       OrganizationType = "Regional"
	Specialty      OrganizationType = "Specialty"
	CriticalAccess OrganizationType = "Critical Access"
)

// OrganizationTypes returns every supported organization type.
func OrganizationTypes() []OrganizationType {
	return []OrganizationType{Independent, Regional, Specialty, CriticalAccess}
}

// ParseOrganizationType normalizes a raw type string.
func ParseOrganizationType(raw string) (OrganizationType, error) {
	switch strings.ToLower(strings.Join(strings.Fields(raw), " ")) {
	case "independent":
		return Independent, nil
	case "regional":
		return Regional, nil
	case "specialty":
		return Specialty, nil
	case "critical access", "criticalaccess", "critical_access":
		return CriticalAccess, nil
	default:
		return "", &UnsupportedOrganizationTypeError{Value: raw}
	}
}

// Quadrant is a Strategic Impact Matrix cell.
type Quadrant string

const (
	QuickWins     Quadrant = "Quick Wins"
	StrategicBets Quadrant = "Strategic Bets"
	FillIns       Quadrant = "Fill-ins"
	MoneyPits     Quadrant = "Money Pits"
)

// Quadrants returns the four quadrants in display order.
func Quadrants() []Quadrant {
	return []Quadrant{QuickWins, StrategicBets, FillIns, MoneyPits}
}

// ParseQuadrant accepts display names and compact spellings such as "quick_wins".
func ParseQuadrant(raw string) (Quadrant, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch key {
	case "quickwins", "quickwin":
		return QuickWins, nil
	case "strategicbets", "strategicbet":
		return StrategicBets, nil
	case "fillins", "fillin":
		return FillIns, nil
	case "moneypits", "moneypit":
		return MoneyPits, nil
	default:
		return "", &InvalidInputError{Field: "quadrant", Value: raw, Reason: "unknown quadrant"}
	}
}

// Role is an executive perspective.
type Role string

const (
	RoleCEO Role = "CEO"
	RoleCFO Role = "CFO"
	RoleCOO Role = "COO"
)

// Roles returns the executive roles in the order insights are produced.
func Roles() []Role {
	return []Role{RoleCEO, RoleCFO, RoleCOO}
}

// ParseRole normalizes a raw role string.
func ParseRole(raw string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CEO":
		return RoleCEO, nil
	case "CFO":
		return RoleCFO, nil
	case "COO":
		return RoleCOO, nil
	default:
		return "", &InvalidInputError{Field: "role", Value: raw, Reason: "must be CEO, CFO or COO"}
	}
}

// Priority ranks action items.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank orders priorities: High 3, Medium 2, Low 1.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Category tags catalog initiatives.
type Category string

const (
	CategoryTechnology  Category = "technology"
	CategoryFinancial   Category = "financial"
	CategoryWorkforce   Category = "workforce"
	CategoryOperational Category = "operational"
	CategoryClinical    Category = "clinical"
)

// SizeBucket groups organizations by bed count.
type SizeBucket string

const (
	SizeSmall      SizeBucket = "small"
	SizeMedium     SizeBucket = "medium"
	SizeLarge      SizeBucket = "large"
	SizeEnterprise SizeBucket = "enterprise"
)

// OrganizationProfile is the organization context used for scoring.
type OrganizationProfile struct {
	ID                  string           `json:"id" yaml:"id"`
	Name                string           `json:"name" yaml:"name"`
	Type                OrganizationType `json:"type" yaml:"type"`
	Beds                int              `json:"beds" yaml:"beds"`
	Revenue             float64          `json:"revenue" yaml:"revenue"`
	Market              string           `json:"market" yaml:"market"`
	StrategicPriorities []string         `json:"strategicPriorities,omitempty" yaml:"strategic_priorities,omitempty"`
}

// Initiative is a candidate strategic action scored on four 1-5 dimensions.
type Initiative struct {
	ID                    string    `json:"id" yaml:"id"`
	Name                  string    `json:"name" yaml:"name"`
	Description           string    `json:"description,omitempty" yaml:"description,omitempty"`
	FinancialImpact       float64   `json:"financialImpact" yaml:"financial_impact"`
	OperationalComplexity float64   `json:"operationalComplexity" yaml:"operational_complexity"`
	CompetitiveDisruption float64   `json:"competitiveDisruption" yaml:"competitive_disruption"`
	TimeUrgency           float64   `json:"timeUrgency" yaml:"time_urgency"`
	OrganizationID        string    `json:"organizationId,omitempty" yaml:"organization_id,omitempty"`
	CreatedAt             time.Time `json:"createdAt" yaml:"created_at"`
}

// ScoredInitiative is an Initiative with derived priority and quadrant.
type ScoredInitiative struct {
	Initiative
	PriorityScore float64  `json:"priorityScore"`
	Quadrant      Quadrant `json:"quadrant"`
	AutoGenerated bool     `json:"autoGenerated"`
	Category      Category `json:"category,omitempty"`
}

// RoleInsight is one executive's view of the analysis.
type RoleInsight struct {
	Role            Role     `json:"role"`
	Perspective     string   `json:"perspective"`
	KeyConcerns     []string `json:"keyConcerns"`
	Recommendations []string `json:"recommendations"`
}

// ActionItem is a recommended next step.
type ActionItem struct {
	Task            string   `json:"task"`
	Timeline        string   `json:"timeline"`
	ResponsibleRole Role     `json:"responsibleRole"`
	Priority        Priority `json:"priority"`
	Dependencies    []string `json:"dependencies"`
}

// QuadrantCounts tallies initiatives per quadrant.
type QuadrantCounts struct {
	QuickWins     int `json:"quickWins"`
	StrategicBets int `json:"strategicBets"`
	FillIns       int `json:"fillIns"`
	MoneyPits     int `json:"moneyPits"`
}

// Add increments the counter for q.
func (c *QuadrantCounts) Add(q Quadrant) {
	switch q {
	case QuickWins:
		c.QuickWins++
	case StrategicBets:
		c.StrategicBets++
	case FillIns:
		c.FillIns++
	case MoneyPits:
		c.MoneyPits++
	}
}

// Total sums all quadrants.
func (c QuadrantCounts) Total() int {
	return c.QuickWins + c.StrategicBets + c.FillIns + c.MoneyPits
}

// AnalysisResult is the full Strategic Impact Matrix analysis.
type AnalysisResult struct {
	OrganizationProfile OrganizationProfile `json:"organizationProfile"`
	ScoredInitiatives   []ScoredInitiative  `json:"scoredInitiatives"`
	RoleInsights        []RoleInsight       `json:"roleInsights"`
	ActionItems         []ActionItem        `json:"actionItems"`
	ExecutiveSummary    string              `json:"executiveSummary"`
	IndustryBenchmarks  BenchmarkFactors    `json:"industryBenchmarks"`
	QuadrantCounts      QuadrantCounts      `json:"quadrantCounts"`
	Threshold           float64             `json:"threshold"`
	GeneratedAt         time.Time           `json:"generatedAt"`
}

// ForRole returns a copy narrowed to one executive's insight and action items.
func (r AnalysisResult) ForRole(role Role) AnalysisResult {
	out := r
	out.RoleInsights = nil
	for _, insight := range r.RoleInsights {
		if insight.Role == role {
			out.RoleInsights = append(out.RoleInsights, insight)
		}
	}
	out.ActionItems = nil
	for _, item := range r.ActionItems {
		if item.ResponsibleRole == role {
			out.ActionItems = append(out.ActionItems, item)
		}
	}
	return out
}

// UrgentInitiative is a portfolio entry flagged for attention.
type UrgentInitiative struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Urgency        float64  `json:"urgency"`
	Impact         float64  `json:"impact"`
	Complexity     float64  `json:"complexity"`
	OrganizationID string   `json:"organizationId,omitempty"`
	Quadrant       Quadrant `json:"quadrant"`
	DaysOld        int      `json:"daysOld"`
}

// PortfolioSummary is the lightweight dashboard aggregate.
type PortfolioSummary struct {
	TotalInitiatives  int                `json:"totalInitiatives"`
	QuadrantCounts    QuadrantCounts     `json:"quadrantCounts"`
	UrgentInitiatives []UrgentInitiative `json:"urgentInitiatives"`
	AlertCount        int                `json:"alertCount"`
	AvgPriorityScore  *float64           `json:"avgPriorityScore"`
}
