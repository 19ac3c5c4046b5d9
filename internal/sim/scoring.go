package sim

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// DefaultThreshold splits both matrix axes.
const DefaultThreshold = 3.5

const (
	minScore = 1.0
	maxScore = 5.0

	smallOrgBeds        = 150
	largeOrgBeds        = 400
	lowRevenueThreshold = 100_000_000
)

// Engine scores and classifies initiatives. The zero value uses DefaultThreshold and time.Now.
type Engine struct {
	Threshold float64
	Now       func() time.Time
}

// DefaultEngine returns an Engine with the default threshold and wall clock.
func DefaultEngine() *Engine {
	return &Engine{Threshold: DefaultThreshold, Now: time.Now}
}

// NewEngine validates threshold, which must lie in (1,5] so both sides of
// each axis are reachable. A nil now uses time.Now.
func NewEngine(threshold float64, now func() time.Time) (*Engine, error) {
	if math.IsNaN(threshold) || threshold <= minScore || threshold > maxScore {
		return nil, &InvalidInputError{Field: "threshold", Value: threshold, Reason: "must be greater than 1 and at most 5"}
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{Threshold: threshold, Now: now}, nil
}

func (e *Engine) threshold() float64 {
	if e == nil || e.Threshold <= 0 {
		return DefaultThreshold
	}
	return e.Threshold
}

func (e *Engine) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}

// SimplePriorityScore is the weighted linear score used for portfolio summaries
// and generator ordering.
func SimplePriorityScore(i Initiative) float64 {
	return clamp(rawSimpleScore(i), minScore, maxScore)
}

func rawSimpleScore(i Initiative) float64 {
	return i.FinancialImpact*0.4 +
		i.TimeUrgency*0.3 +
		i.CompetitiveDisruption*0.2 -
		i.OperationalComplexity*0.1
}

// BenchmarkPriorityScore blends organization factors into the score used by full analysis.
// The result is clamped to [1,5] and rounded to one decimal.
func BenchmarkPriorityScore(i Initiative, org OrganizationProfile, bench BenchmarkFactors) float64 {
	score := (i.FinancialImpact*bench.FinancialImpactMultiplier +
		(6-i.OperationalComplexity)*bench.TechnologyComplexityMultiplier +
		(i.CompetitiveDisruption + bench.DisruptionBoost) +
		i.TimeUrgency) / 4

	switch {
	case org.Beds < smallOrgBeds:
		score *= 0.9
	case org.Beds > largeOrgBeds:
		score *= 1.1
	}

	if org.Revenue < lowRevenueThreshold {
		name := strings.ToLower(i.Name)
		if strings.Contains(name, "cost") || strings.Contains(name, "efficiency") {
			score *= 1.2
		}
	}

	return roundTo1(clamp(score, minScore, maxScore))
}

// ClassifyQuadrant places an impact/complexity pair in the matrix. Inputs are
// clamped to [1,5] first so every pair lands in exactly one quadrant.
func ClassifyQuadrant(financialImpact, operationalComplexity, threshold float64) Quadrant {
	f := clamp(financialImpact, minScore, maxScore)
	c := clamp(operationalComplexity, minScore, maxScore)
	highImpact := f >= threshold
	highComplexity := c >= threshold
	switch {
	case highImpact && !highComplexity:
		return QuickWins
	case highImpact && highComplexity:
		return StrategicBets
	case !highImpact && !highComplexity:
		return FillIns
	default:
		return MoneyPits
	}
}

// Classify applies ClassifyQuadrant with the engine threshold.
func (e *Engine) Classify(i Initiative) Quadrant {
	return ClassifyQuadrant(i.FinancialImpact, i.OperationalComplexity, e.threshold())
}

// ScoreInitiative validates a caller-supplied initiative and scores it against bench.
func (e *Engine) ScoreInitiative(i Initiative, org OrganizationProfile, bench BenchmarkFactors) (ScoredInitiative, error) {
	if err := ValidateInitiative(i); err != nil {
		return ScoredInitiative{}, err
	}
	return e.score(i, org, bench, false), nil
}

func (e *Engine) score(i Initiative, org OrganizationProfile, bench BenchmarkFactors, generated bool) ScoredInitiative {
	return ScoredInitiative{
		Initiative:    i,
		PriorityScore: BenchmarkPriorityScore(i, org, bench),
		Quadrant:      e.Classify(i),
		AutoGenerated: generated,
	}
}

// ValidateInitiative rejects empty names and dimensions outside [1,5].
func ValidateInitiative(i Initiative) error {
	if strings.TrimSpace(i.Name) == "" {
		return &InvalidInputError{Field: "name", Value: i.Name, Reason: "is required"}
	}
	dims := []struct {
		field string
		value float64
	}{
		{"financialImpact", i.FinancialImpact},
		{"operationalComplexity", i.OperationalComplexity},
		{"competitiveDisruption", i.CompetitiveDisruption},
		{"timeUrgency", i.TimeUrgency},
	}
	for _, d := range dims {
		if math.IsNaN(d.value) || d.value < minScore || d.value > maxScore {
			return &InvalidInputError{Field: d.field, Value: d.value, Reason: "must be between 1 and 5"}
		}
	}
	return nil
}

// ValidateOrganization rejects unknown types and negative beds or revenue.
func ValidateOrganization(org OrganizationProfile) error {
	if _, err := LookupOrganizationFactors(org.Type); err != nil {
		return err
	}
	if org.Beds < 0 {
		return &InvalidInputError{Field: "beds", Value: org.Beds, Reason: "must not be negative"}
	}
	if math.IsNaN(org.Revenue) || org.Revenue < 0 {
		return &InvalidInputError{Field: "revenue", Value: org.Revenue, Reason: "must not be negative"}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// roundHalfUp matches the rounding used for generated scores and labels.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// roundTo1 rounds to one decimal using the exact binary value of v, so 1.15
// (stored just below the tie) gives 1.1 while an exact tie like 1.25 rounds
// away from zero to 1.3.
func roundTo1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	x := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	x.Mul(x, big.NewFloat(10))
	tenths, _ := x.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(x, new(big.Float).SetInt(tenths))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		tenths.Add(tenths, big.NewInt(1))
	}
	out, err := strconv.ParseFloat(tenths.String()+"e-1", 64)
	if err != nil {
		return v
	}
	return math.Copysign(out, v)
}
