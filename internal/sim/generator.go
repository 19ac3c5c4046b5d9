package sim

import (
	"fmt"
	"sort"
)

// MinWorkingSet is the portfolio size full analysis pads up to.
const MinWorkingSet = 8

// GenerateInitiatives synthesizes up to count catalog initiatives adjusted for org.
// Names already present in existing are skipped. Output is ordered by the simple
// priority score, highest first.
func (e *Engine) GenerateInitiatives(org OrganizationProfile, existing []Initiative, count int) ([]ScoredInitiative, error) {
	if count <= 0 {
		return []ScoredInitiative{}, nil
	}
	bench, err := Benchmarks(org)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(existing))
	for _, i := range existing {
		taken[i.Name] = struct{}{}
	}

	now := e.now()
	out := make([]ScoredInitiative, 0, len(catalog))
	for idx, entry := range catalog {
		if _, ok := taken[entry.Name]; ok {
			continue
		}
		financial := entry.BaseFinancialImpact * bench.SizeFinancialMultiplier * bench.FinancialImpactMultiplier
		complexity := entry.BaseComplexity
		if entry.Category == CategoryTechnology {
			complexity *= bench.TechnologyComplexityMultiplier
		}
		disruption := entry.BaseDisruption + bench.DisruptionBoost

		i := Initiative{
			ID:                    fmt.Sprintf("generated-%d", idx+1),
			Name:                  entry.Name,
			Description:           entry.Description,
			FinancialImpact:       clamp(roundHalfUp(financial), minScore, maxScore),
			OperationalComplexity: clamp(roundHalfUp(complexity), minScore, maxScore),
			CompetitiveDisruption: clamp(roundHalfUp(disruption), minScore, maxScore),
			TimeUrgency:           clamp(entry.BaseUrgency, minScore, maxScore),
			OrganizationID:        org.ID,
			CreatedAt:             now,
		}
		out = append(out, ScoredInitiative{
			Initiative:    i,
			PriorityScore: roundTo1(SimplePriorityScore(i)),
			Quadrant:      e.Classify(i),
			AutoGenerated: true,
			Category:      entry.Category,
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return rawSimpleScore(out[a].Initiative) > rawSimpleScore(out[b].Initiative)
	})
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

// GenerateInitiatives runs the generator with DefaultEngine.
func GenerateInitiatives(org OrganizationProfile, existing []Initiative, count int) ([]ScoredInitiative, error) {
	return DefaultEngine().GenerateInitiatives(org, existing, count)
}
