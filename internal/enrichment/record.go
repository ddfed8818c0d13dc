// Package enrichment consumes the structured fields an external extraction
// process writes to the document store, and waits for them to appear.
package enrichment

import (
	"strconv"

	"github.com/Infernos444/insurely/pkg/docstore"
)

// Field names as written by the external extraction process. Case-sensitive.
const (
	FieldAge            = "age"
	FieldTreatmentCost  = "treatment_cost"
	FieldDiagnosisGroup = "diagnosis_group"
	FieldPolicyAge      = "policy_age"
	FieldSumInsured     = "sum_insured"
	FieldClaimHistory   = "claim_history"
	FieldHospitalRating = "hospital_rating"
	FieldPreExisting    = "pre_existing"
	FieldInNetwork      = "in_network"
)

// AgeUnknown is the value substituted when the extracted age is absent.
const AgeUnknown = "N/A"

// Record is a fully populated view of an extracted estimate. Every field is
// defaulted during normalization; consumers never see absence. A hospital
// rating of zero means the rating was not extracted (ratings run 1–5).
type Record struct {
	Age               string  `json:"age"`
	TreatmentCost     float64 `json:"treatment_cost"`
	DiagnosisGroup    string  `json:"diagnosis_group"`
	PolicyAgeYears    int     `json:"policy_age"`
	SumInsured        float64 `json:"sum_insured"`
	ClaimHistoryCount int     `json:"claim_history"`
	HospitalRating    int     `json:"hospital_rating"`
	PreExisting       bool    `json:"pre_existing"`
	InNetwork         bool    `json:"in_network"`
}

// Normalize converts a raw document field map into a fully populated Record.
// Missing or malformed fields default rather than fail: age to AgeUnknown,
// numerics to zero, booleans to false. The extraction process writes
// booleans as 0/1; both numeric and native boolean encodings are accepted.
func Normalize(fields map[string]any) Record {
	return Record{
		Age:               ageField(fields[FieldAge]),
		TreatmentCost:     numberField(fields[FieldTreatmentCost]),
		DiagnosisGroup:    stringField(fields[FieldDiagnosisGroup]),
		PolicyAgeYears:    intField(fields[FieldPolicyAge]),
		SumInsured:        numberField(fields[FieldSumInsured]),
		ClaimHistoryCount: intField(fields[FieldClaimHistory]),
		HospitalRating:    intField(fields[FieldHospitalRating]),
		PreExisting:       boolField(fields[FieldPreExisting]),
		InNetwork:         boolField(fields[FieldInNetwork]),
	}
}

// FromDocument normalizes the fields of a stored document.
func FromDocument(doc *docstore.Document) Record {
	if doc == nil {
		return Normalize(nil)
	}
	return Normalize(doc.Fields)
}

func ageField(v any) string {
	switch value := v.(type) {
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case string:
		if value != "" {
			return value
		}
	}
	return AgeUnknown
}

func numberField(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case string:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return 0
}

func intField(v any) int {
	return int(numberField(v))
}

func boolField(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case float64:
		return value != 0
	case int:
		return value != 0
	}
	return false
}

func stringField(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
