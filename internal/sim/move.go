package sim

import (
	"fmt"
	"math"
	"strings"
)

// lowSideStep keeps a lowered dimension strictly below the threshold.
const lowSideStep = 0.1

// MoveToQuadrant adjusts impact and complexity so i classifies into target,
// recording the justification in the description. Dimensions already on the
// requested side of the threshold are left unchanged.
func (e *Engine) MoveToQuadrant(i Initiative, target Quadrant, justification string) (Initiative, error) {
	justification = strings.TrimSpace(justification)
	if justification == "" {
		return Initiative{}, &InvalidInputError{Field: "justification", Value: "", Reason: "is required"}
	}
	if err := ValidateInitiative(i); err != nil {
		return Initiative{}, err
	}

	t := e.threshold()
	high := math.Min(maxScore, t)
	low := math.Max(minScore, roundTo1(t-lowSideStep))

	var highImpact, highComplexity bool
	switch target {
	case QuickWins:
		highImpact, highComplexity = true, false
	case StrategicBets:
		highImpact, highComplexity = true, true
	case FillIns:
		highImpact, highComplexity = false, false
	case MoneyPits:
		highImpact, highComplexity = false, true
	default:
		return Initiative{}, &InvalidInputError{Field: "quadrant", Value: string(target), Reason: "unknown quadrant"}
	}

	out := i
	if highImpact {
		out.FinancialImpact = math.Max(high, i.FinancialImpact)
	} else {
		out.FinancialImpact = math.Min(low, i.FinancialImpact)
	}
	if highComplexity {
		out.OperationalComplexity = math.Max(high, i.OperationalComplexity)
	} else {
		out.OperationalComplexity = math.Min(low, i.OperationalComplexity)
	}

	note := fmt.Sprintf("[Quadrant Change] Moved to %s: %s", target, justification)
	if strings.TrimSpace(out.Description) == "" {
		out.Description = note
	} else {
		out.Description = out.Description + "\n\n" + note
	}
	return out, nil
}
