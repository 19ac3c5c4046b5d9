package sim

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func drawDimension(rt *rapid.T, label string) float64 {
	return roundTo1(rapid.Float64Range(1, 5).Draw(rt, label))
}

func drawInitiative(rt *rapid.T, label string) Initiative {
	return Initiative{
		ID:                    label,
		Name:                  rapid.StringMatching(`[A-Z][a-z]{2,12}`).Draw(rt, label+"_name"),
		FinancialImpact:       drawDimension(rt, label+"_financial"),
		OperationalComplexity: drawDimension(rt, label+"_complexity"),
		CompetitiveDisruption: drawDimension(rt, label+"_disruption"),
		TimeUrgency:           drawDimension(rt, label+"_urgency"),
		CreatedAt:             frozenNow.Add(-time.Duration(rapid.IntRange(0, 400).Draw(rt, label+"_age")) * time.Hour),
	}
}

func drawOrganization(rt *rapid.T) OrganizationProfile {
	return OrganizationProfile{
		ID:      "org-prop",
		Name:    "Property Health",
		Type:    rapid.SampledFrom(OrganizationTypes()).Draw(rt, "type"),
		Beds:    rapid.IntRange(0, 1500).Draw(rt, "beds"),
		Revenue: float64(rapid.IntRange(0, 2_000).Draw(rt, "revenue_millions")) * 1_000_000,
	}
}

// TestPropertyClassifyQuadrant_MatchesThresholdSides verifies every pair lands
// in the quadrant implied by comparing each axis with the threshold.
func TestPropertyClassifyQuadrant_MatchesThresholdSides(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := rapid.Float64Range(-10, 10).Draw(rt, "financial")
		c := rapid.Float64Range(-10, 10).Draw(rt, "complexity")
		threshold := rapid.Float64Range(1.1, 5).Draw(rt, "threshold")

		q := ClassifyQuadrant(f, c, threshold)
		highF := clamp(f, minScore, maxScore) >= threshold
		highC := clamp(c, minScore, maxScore) >= threshold
		var want Quadrant
		switch {
		case highF && !highC:
			want = QuickWins
		case highF && highC:
			want = StrategicBets
		case !highF && !highC:
			want = FillIns
		default:
			want = MoneyPits
		}
		if q != want {
			rt.Fatalf("ClassifyQuadrant(%v, %v, %v) = %s, want %s", f, c, threshold, q, want)
		}
	})
}

// TestPropertyScores_StayInRange verifies both scoring formulas stay in [1,5].
func TestPropertyScores_StayInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		org := drawOrganization(rt)
		i := drawInitiative(rt, "i")
		bench, err := Benchmarks(org)
		if err != nil {
			rt.Fatalf("Benchmarks: %v", err)
		}
		if s := SimplePriorityScore(i); s < 1 || s > 5 {
			rt.Fatalf("simple score %v out of range", s)
		}
		if s := BenchmarkPriorityScore(i, org, bench); s < 1 || s > 5 {
			rt.Fatalf("benchmark score %v out of range", s)
		}
	})
}

// TestPropertyGenerateAnalysis_Invariants verifies counts, ordering and padding
// for arbitrary portfolios.
func TestPropertyGenerateAnalysis_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		org := drawOrganization(rt)
		n := rapid.IntRange(0, 12).Draw(rt, "n")
		existing := make([]Initiative, 0, n)
		for k := 0; k < n; k++ {
			existing = append(existing, drawInitiative(rt, "init"))
		}

		result, err := frozenEngine().GenerateAnalysis(org, existing)
		if err != nil {
			rt.Fatalf("GenerateAnalysis: %v", err)
		}

		want := max(n, MinWorkingSet)
		if got := len(result.ScoredInitiatives); got != want {
			rt.Fatalf("expected %d initiatives, got %d", want, got)
		}
		if result.QuadrantCounts.Total() != len(result.ScoredInitiatives) {
			rt.Fatalf("quadrant counts %+v do not sum to %d", result.QuadrantCounts, len(result.ScoredInitiatives))
		}
		names := map[string]int{}
		for idx, s := range result.ScoredInitiatives {
			if idx > 0 && result.ScoredInitiatives[idx-1].PriorityScore < s.PriorityScore {
				rt.Fatalf("not sorted at %d", idx)
			}
			if s.AutoGenerated {
				names[s.Name]++
			}
		}
		for name, count := range names {
			if count > 1 {
				rt.Fatalf("generated %q %d times", name, count)
			}
		}
		for idx := 1; idx < len(result.ActionItems); idx++ {
			if result.ActionItems[idx-1].Priority.Rank() < result.ActionItems[idx].Priority.Rank() {
				rt.Fatalf("action items not ordered by priority at %d", idx)
			}
		}
		if len(result.RoleInsights) != 3 {
			rt.Fatalf("expected 3 role insights, got %d", len(result.RoleInsights))
		}
	})
}

// TestPropertySummarizePortfolio_CountsSum verifies the summary always accounts
// for every initiative and caps the urgent list.
func TestPropertySummarizePortfolio_CountsSum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		initiatives := make([]Initiative, 0, n)
		for k := 0; k < n; k++ {
			initiatives = append(initiatives, drawInitiative(rt, "init"))
		}
		summary := frozenEngine().SummarizePortfolio(initiatives)
		if summary.QuadrantCounts.Total() != n {
			rt.Fatalf("counts %+v do not sum to %d", summary.QuadrantCounts, n)
		}
		if len(summary.UrgentInitiatives) > urgentLimit {
			rt.Fatalf("urgent list too long: %d", len(summary.UrgentInitiatives))
		}
		if summary.AlertCount > n {
			rt.Fatalf("alert count %d exceeds total %d", summary.AlertCount, n)
		}
		if (n == 0) != (summary.AvgPriorityScore == nil) {
			rt.Fatalf("average presence mismatch for n=%d", n)
		}
	})
}

// TestPropertyMoveToQuadrant_LandsInTarget verifies a move always reclassifies
// into the requested quadrant with dimensions still in range.
func TestPropertyMoveToQuadrant_LandsInTarget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		i := drawInitiative(rt, "i")
		target := rapid.SampledFrom(Quadrants()).Draw(rt, "target")
		threshold := roundTo1(rapid.Float64Range(1.5, 5).Draw(rt, "threshold"))
		e := &Engine{Threshold: threshold, Now: func() time.Time { return frozenNow }}

		moved, err := e.MoveToQuadrant(i, target, "board decision")
		if err != nil {
			rt.Fatalf("MoveToQuadrant: %v", err)
		}
		if got := e.Classify(moved); got != target {
			rt.Fatalf("moved (%v, %v) classified as %s, want %s at threshold %v",
				moved.FinancialImpact, moved.OperationalComplexity, got, target, threshold)
		}
		if err := ValidateInitiative(moved); err != nil {
			rt.Fatalf("moved initiative invalid: %v", err)
		}
	})
}
