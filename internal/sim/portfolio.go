package sim

import (
	"sort"
	"time"
)

const (
	urgentLimit       = 3
	urgentDimension   = 4.0
	staleUrgentDays   = 30
	staleMoneyPitDays = 14
	hoursPerDay       = 24.0
)

// SummarizePortfolio aggregates initiatives for dashboard widgets. An empty
// portfolio yields zero counts and a nil average.
func (e *Engine) SummarizePortfolio(initiatives []Initiative) *PortfolioSummary {
	summary := &PortfolioSummary{
		TotalInitiatives:  len(initiatives),
		UrgentInitiatives: []UrgentInitiative{},
	}
	if len(initiatives) == 0 {
		return summary
	}

	now := e.now()
	var total float64
	for _, i := range initiatives {
		q := e.Classify(i)
		summary.QuadrantCounts.Add(q)
		if isAlert(i, q, daysOld(now, i.CreatedAt)) {
			summary.AlertCount++
		}
		total += SimplePriorityScore(i)
	}
	avg := roundTo1(total / float64(len(initiatives)))
	summary.AvgPriorityScore = &avg

	urgent := make([]Initiative, 0, len(initiatives))
	for _, i := range initiatives {
		if i.TimeUrgency >= urgentDimension || i.FinancialImpact >= urgentDimension {
			urgent = append(urgent, i)
		}
	}
	sort.SliceStable(urgent, func(a, b int) bool {
		return urgent[a].TimeUrgency+urgent[a].FinancialImpact > urgent[b].TimeUrgency+urgent[b].FinancialImpact
	})
	if len(urgent) > urgentLimit {
		urgent = urgent[:urgentLimit]
	}
	for _, i := range urgent {
		summary.UrgentInitiatives = append(summary.UrgentInitiatives, UrgentInitiative{
			ID:             i.ID,
			Name:           i.Name,
			Urgency:        i.TimeUrgency,
			Impact:         i.FinancialImpact,
			Complexity:     i.OperationalComplexity,
			OrganizationID: i.OrganizationID,
			Quadrant:       e.Classify(i),
			DaysOld:        daysOld(now, i.CreatedAt),
		})
	}
	return summary
}

// SummarizePortfolio runs the aggregator with DefaultEngine.
func SummarizePortfolio(initiatives []Initiative) *PortfolioSummary {
	return DefaultEngine().SummarizePortfolio(initiatives)
}

func isAlert(i Initiative, q Quadrant, age int) bool {
	if i.TimeUrgency >= urgentDimension && age > staleUrgentDays {
		return true
	}
	return q == MoneyPits && age > staleMoneyPitDays
}

// daysOld floors the elapsed whole days; initiatives without a timestamp or
// created in the future are zero days old.
func daysOld(now, createdAt time.Time) int {
	if createdAt.IsZero() || createdAt.After(now) {
		return 0
	}
	return int(now.Sub(createdAt).Hours() / hoursPerDay)
}
