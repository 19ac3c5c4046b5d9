package sim

import (
	"fmt"
	"sort"
)

// GenerateAnalysis builds the full Strategic Impact Matrix for org. Portfolios
// smaller than MinWorkingSet are padded from the catalog. The result is fresh on
// every call and shares no slices with the inputs.
func (e *Engine) GenerateAnalysis(org OrganizationProfile, existing []Initiative) (*AnalysisResult, error) {
	if err := ValidateOrganization(org); err != nil {
		return nil, err
	}
	for idx, i := range existing {
		if err := ValidateInitiative(i); err != nil {
			return nil, fmt.Errorf("initiative %d: %w", idx, err)
		}
	}
	bench, err := Benchmarks(org)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredInitiative, 0, max(len(existing), MinWorkingSet))
	for _, i := range existing {
		scored = append(scored, e.score(i, org, bench, false))
	}

	if len(existing) < MinWorkingSet {
		generated, err := e.GenerateInitiatives(org, existing, MinWorkingSet-len(existing))
		if err != nil {
			return nil, err
		}
		for _, g := range generated {
			s := e.score(g.Initiative, org, bench, true)
			s.Category = g.Category
			scored = append(scored, s)
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].PriorityScore > scored[b].PriorityScore
	})

	return &AnalysisResult{
		OrganizationProfile: cloneProfile(org),
		ScoredInitiatives:   scored,
		RoleInsights:        e.RoleInsights(scored, org),
		ActionItems:         e.ActionItems(scored, org),
		ExecutiveSummary:    e.ExecutiveSummary(scored, org, bench),
		IndustryBenchmarks:  bench,
		QuadrantCounts:      countQuadrants(scored),
		Threshold:           e.threshold(),
		GeneratedAt:         e.now(),
	}, nil
}

// GenerateAnalysis runs the orchestrator with DefaultEngine.
func GenerateAnalysis(org OrganizationProfile, existing []Initiative) (*AnalysisResult, error) {
	return DefaultEngine().GenerateAnalysis(org, existing)
}

func cloneProfile(org OrganizationProfile) OrganizationProfile {
	out := org
	if org.StrategicPriorities != nil {
		out.StrategicPriorities = append([]string(nil), org.StrategicPriorities...)
	}
	return out
}
