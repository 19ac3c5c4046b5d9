package sim

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	topActionInitiatives = 6
	strategicBudgetShare = 0.03
	noInitiativeLabel    = "top-ranked initiatives"
)

var (
	urgencyTimelines = map[int]string{5: "1 month", 4: "6 weeks", 3: "2 months", 2: "3 months", 1: "4 months"}
	urgencyPriority  = map[int]Priority{5: PriorityHigh, 4: PriorityHigh, 3: PriorityMedium, 2: PriorityMedium, 1: PriorityLow}
)

// RoleInsights builds the CEO, CFO and COO perspectives, in that order, from a
// priority-sorted initiative set.
func (e *Engine) RoleInsights(scored []ScoredInitiative, org OrganizationProfile) []RoleInsight {
	top := firstName(scored, noInitiativeLabel)
	bet := firstInQuadrant(scored, StrategicBets, top)
	quickWin := firstInQuadrant(scored, QuickWins, "")

	ceoQuickWin := quickWin
	if ceoQuickWin == "" {
		ceoQuickWin = "operational efficiency initiatives"
	}
	cooStart := quickWin
	if cooStart == "" {
		cooStart = top
	}

	return []RoleInsight{
		{
			Role:        RoleCEO,
			Perspective: "Strategic Leadership & Market Position",
			KeyConcerns: []string{
				"Long-term competitive advantage and market differentiation",
				"Board reporting and stakeholder communication",
				"Organizational transformation and change management",
				"Risk management and strategic vision alignment",
			},
			Recommendations: []string{
				fmt.Sprintf("Focus on %s for long-term competitive advantage", bet),
				fmt.Sprintf("Prioritize %s for quick wins to build momentum", ceoQuickWin),
				"Establish executive steering committee for top 3 strategic initiatives",
				"Develop change management strategy for organization-wide transformation",
			},
		},
		{
			Role:        RoleCFO,
			Perspective: "Financial Performance & ROI",
			KeyConcerns: []string{
				"Return on investment and payback periods",
				"Cash flow impact and capital allocation",
				"Financial risk mitigation",
				"Cost reduction and revenue optimization",
			},
			Recommendations: []string{
				fmt.Sprintf("Implement robust ROI tracking for %s with quarterly milestones", top),
				fmt.Sprintf("Establish $%dM annual budget for strategic initiatives", StrategicBudgetMillions(org.Revenue)),
				fmt.Sprintf("Prioritize initiatives with financial impact scores above %s", formatScore(e.threshold())),
				"Develop detailed business cases for all Strategic Bets quadrant initiatives",
			},
		},
		{
			Role:        RoleCOO,
			Perspective: "Operational Excellence & Implementation",
			KeyConcerns: []string{
				"Operational workflow disruption during implementation",
				"Staff training and adoption challenges",
				"Process standardization and quality metrics",
				"Day-to-day operational continuity",
			},
			Recommendations: []string{
				fmt.Sprintf("Begin with %s to minimize operational disruption", cooStart),
				"Develop phased implementation approach for high-complexity initiatives",
				"Establish dedicated project management office for initiative coordination",
				"Create comprehensive staff training programs for technology implementations",
			},
		},
	}
}

// StrategicBudgetMillions is 3% of annual revenue in whole millions.
func StrategicBudgetMillions(revenue float64) int64 {
	return int64(roundHalfUp(revenue * strategicBudgetShare / 1_000_000))
}

// ActionItems builds the ranked next steps. The list is stable-sorted by
// priority rank so ties keep insertion order.
func (e *Engine) ActionItems(scored []ScoredInitiative, org OrganizationProfile) []ActionItem {
	items := []ActionItem{{
		Task:            "Conduct executive strategic planning session to align on initiative priorities",
		Timeline:        "2 weeks",
		ResponsibleRole: RoleCEO,
		Priority:        PriorityHigh,
		Dependencies:    []string{"Board approval for strategic direction"},
	}}

	top := scored
	if len(top) > topActionInitiatives {
		top = top[:topActionInitiatives]
	}
	for _, s := range top {
		level := urgencyLevel(s.TimeUrgency)
		role := RoleCOO
		if s.Quadrant == StrategicBets {
			role = RoleCEO
		}
		deps := []string{"Department head alignment"}
		if s.FinancialImpact >= 4 {
			deps = []string{"CFO budget approval", "Board authorization"}
		}
		items = append(items, ActionItem{
			Task:            "Develop detailed implementation plan for " + s.Name,
			Timeline:        urgencyTimelines[level],
			ResponsibleRole: role,
			Priority:        urgencyPriority[level],
			Dependencies:    deps,
		})
	}

	if org.Type == CriticalAccess {
		items = append(items, ActionItem{
			Task:            "Explore federal funding opportunities for rural health initiatives",
			Timeline:        "3 months",
			ResponsibleRole: RoleCFO,
			Priority:        PriorityMedium,
			Dependencies:    []string{"Grant writing capability assessment"},
		})
	}
	if org.Beds < smallOrgBeds {
		items = append(items, ActionItem{
			Task:            "Evaluate shared services partnerships for complex technology initiatives",
			Timeline:        "2 months",
			ResponsibleRole: RoleCOO,
			Priority:        PriorityMedium,
			Dependencies:    []string{"Partner organization identification"},
		})
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Priority.Rank() > items[b].Priority.Rank()
	})
	return items
}

// ExecutiveSummary renders the narrative for a priority-sorted initiative set.
func (e *Engine) ExecutiveSummary(scored []ScoredInitiative, org OrganizationProfile, bench BenchmarkFactors) string {
	counts := countQuadrants(scored)
	topName := noInitiativeLabel
	topScore := 0.0
	if len(scored) > 0 {
		topName = scored[0].Name
		topScore = scored[0].PriorityScore
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Strategic Impact Matrix Analysis for %s\n\n", org.Name)
	fmt.Fprintf(&b, "Organization Profile: %s %s healthcare system with %d beds and $%dM annual revenue.\n\n",
		org.Type, bench.SizeBucket, org.Beds, int64(roundHalfUp(org.Revenue/1_000_000)))
	b.WriteString("Key Findings:\n")
	fmt.Fprintf(&b, "• %d strategic initiatives identified with %d Quick Wins and %d Strategic Bets\n",
		len(scored), counts.QuickWins, counts.StrategicBets)
	fmt.Fprintf(&b, "• Top priority: %s (Priority Score: %s)\n", topName, strconv.FormatFloat(topScore, 'f', 1, 64))
	fmt.Fprintf(&b, "• Organization type factors: %s systems typically face %s\n\n", org.Type, organizationTypeNote(org.Type))
	b.WriteString("Immediate Recommendations:\n")
	b.WriteString("1. Focus on Quick Wins to build momentum and demonstrate value\n")
	b.WriteString("2. Develop comprehensive business cases for Strategic Bets\n")
	b.WriteString("3. Establish cross-functional steering committee for implementation oversight\n")
	fmt.Fprintf(&b, "4. Align initiatives with %s system strengths and market position\n\n", org.Type)
	b.WriteString("This analysis provides a data-driven foundation for strategic decision-making aligned with your organization's unique characteristics and market position.")
	return b.String()
}

func organizationTypeNote(t OrganizationType) string {
	switch t {
	case Independent:
		return "higher technology complexity but benefit from agility"
	case CriticalAccess:
		return "resource constraints but have access to rural health funding"
	default:
		return "balanced complexity with strong market position"
	}
}

// urgencyLevel maps a possibly fractional urgency onto the 1-5 lookup keys.
func urgencyLevel(u float64) int {
	return int(clamp(roundHalfUp(u), minScore, maxScore))
}

func countQuadrants(scored []ScoredInitiative) QuadrantCounts {
	var c QuadrantCounts
	for _, s := range scored {
		c.Add(s.Quadrant)
	}
	return c
}

func firstName(scored []ScoredInitiative, fallback string) string {
	if len(scored) == 0 {
		return fallback
	}
	return scored[0].Name
}

func firstInQuadrant(scored []ScoredInitiative, q Quadrant, fallback string) string {
	for _, s := range scored {
		if s.Quadrant == q {
			return s.Name
		}
	}
	return fallback
}

func formatScore(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
