package risk

import "github.com/finguard-ai/finguard/constants"

// UnusualItem is one locally or model-flagged outlier on an invoice.
type UnusualItem struct {
	Item   string  `json:"item"`
	Price  float64 `json:"price"`
	Reason string  `json:"reason"`
}

// Report is the structured risk assessment returned for every invoice.
// By construction of the fallback path it is always well-formed.
type Report struct {
	RiskLevel       string        `json:"risk_level"`
	ConfidenceScore float64       `json:"confidence_score"`
	Findings        []string      `json:"findings"`
	UnusualItems    []UnusualItem `json:"unusual_items"`
}

// FallbackFinding is the single explanatory message carried by the fixed
// fallback report.
const FallbackFinding = "Unable to perform detailed risk assessment. Defaulting to low risk."

// FallbackReport returns the fixed low-risk report used whenever the
// assessment cannot be completed. Under-classification is the preferred
// failure mode in a human-reviewed financial workflow; an assessment
// failure must never block invoice processing nor default to an alarming
// classification.
func FallbackReport() *Report {
	return &Report{
		RiskLevel:       string(constants.RiskLow),
		ConfidenceScore: 0.6,
		Findings:        []string{FallbackFinding},
		UnusualItems:    []UnusualItem{},
	}
}
