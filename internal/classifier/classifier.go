// Package classifier scores enrichment records for insurance acceptance.
// Classification is a pure function of the record; it never reads external
// state and never fails.
package classifier

import (
	"math"

	"github.com/Infernos444/insurely/internal/enrichment"
)

// Issue strings are part of the observable contract. Order of evaluation is
// fixed; wording must not change without coordinating with consumers.
const (
	IssuePreExisting  = "Pre-existing condition"
	IssueOutOfNetwork = "Out-of-network provider"
	IssueLowRating    = "Low hospital rating"
	IssueClaimHistory = "High claim history"
	IssueNewPolicy    = "New policy (<1 year)"
	IssueNoneDetected = "No major issues detected"
)

const (
	confidenceBase  = 80.0
	confidenceSwing = 15.0
	confidenceCap   = 95.0
	costSlack       = 1.1
)

// Classify scores a normalized enrichment record. Acceptance requires the
// treatment cost to fit within the sum insured plus 10% slack, an in-network
// provider, and either no pre-existing condition or a policy older than two
// years.
func Classify(record enrichment.Record) Result {
	coverage := coverageMatch(record.SumInsured, record.TreatmentCost)

	accepted := record.TreatmentCost <= record.SumInsured*costSlack &&
		record.InNetwork &&
		(!record.PreExisting || record.PolicyAgeYears > 2)

	label := LabelRejected
	if accepted {
		label = LabelAccepted
	}

	return Result{
		Label:                label,
		ConfidencePercent:    confidence(accepted, record.SumInsured, record.TreatmentCost),
		CoverageMatchPercent: coverage,
		CostVariancePercent:  costVariance(record.SumInsured, record.TreatmentCost),
		Issues:               issues(record),
	}
}

// coverageMatch is the share of the treatment cost the policy covers,
// floored and capped at 100. A zero sum insured always reports zero.
func coverageMatch(sumInsured, treatmentCost float64) int {
	if sumInsured <= 0 {
		return 0
	}
	if treatmentCost <= 0 {
		return 100
	}

	pct := int(math.Floor(sumInsured / treatmentCost * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// confidence swings from the base by the coverage ratio, capped at 95 and
// clamped to [0, 100] for extreme ratios.
func confidence(accepted bool, sumInsured, treatmentCost float64) float64 {
	ratio := confidenceCap
	if treatmentCost > 0 {
		ratio = sumInsured / treatmentCost
	}

	var pct float64
	if accepted {
		pct = math.Min(confidenceCap, confidenceBase+ratio*confidenceSwing)
	} else {
		pct = math.Min(confidenceCap, confidenceBase-ratio*confidenceSwing)
	}

	return math.Min(100, math.Max(0, pct))
}

// costVariance is how far the treatment cost deviates from the sum insured,
// as an absolute percentage. Unknown when the sum insured is zero.
func costVariance(sumInsured, treatmentCost float64) Percent {
	if sumInsured <= 0 {
		return Percent{}
	}
	return KnownPercent(math.Abs((treatmentCost - sumInsured) / sumInsured * 100))
}

func issues(record enrichment.Record) []string {
	var found []string

	if record.PreExisting {
		found = append(found, IssuePreExisting)
	}
	if !record.InNetwork {
		found = append(found, IssueOutOfNetwork)
	}
	if record.HospitalRating > 0 && record.HospitalRating < 3 {
		found = append(found, IssueLowRating)
	}
	if record.ClaimHistoryCount > 3 {
		found = append(found, IssueClaimHistory)
	}
	if record.PolicyAgeYears < 1 {
		found = append(found, IssueNewPolicy)
	}

	if len(found) == 0 {
		return []string{IssueNoneDetected}
	}
	return found
}
