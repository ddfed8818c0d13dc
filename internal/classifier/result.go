package classifier

import (
	"encoding/json"
	"strconv"
)

// Label is the acceptance verdict for an estimate.
type Label string

const (
	LabelAccepted Label = "Accepted"
	LabelRejected Label = "Rejected"
)

// PercentUnknown is the rendered form of a Percent with no known value.
const PercentUnknown = "N/A"

// Percent is a percentage that may be unknowable, such as cost variance
// against a zero sum insured. Unknown values marshal as the "N/A" sentinel
// string rather than a number.
type Percent struct {
	Value float64
	Known bool
}

// KnownPercent wraps a numeric percentage.
func KnownPercent(v float64) Percent {
	return Percent{Value: v, Known: true}
}

func (p Percent) String() string {
	if !p.Known {
		return PercentUnknown
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Known {
		return json.Marshal(PercentUnknown)
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		*p = Percent{}
		return nil
	}
	*p = KnownPercent(value)
	return nil
}

// Result is the classification of a single enrichment record. Derived and
// never persisted; recomputing from the same record yields an identical
// result, including issue order.
type Result struct {
	Label                Label    `json:"label"`
	ConfidencePercent    float64  `json:"confidence_percent"`
	CoverageMatchPercent int      `json:"coverage_match_percent"`
	CostVariancePercent  Percent  `json:"cost_variance_percent"`
	Issues               []string `json:"issues"`
}
