package constants

// RiskLevel is the canonical risk classification for an assessed invoice.
type RiskLevel string

// Stable values (these exact strings go over the wire).
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskLevels lists the accepted classifications in ascending severity.
var RiskLevels = []string{string(RiskLow), string(RiskMedium), string(RiskHigh)}

const (
	// OutlierPriceMultiplier flags a line item whose price is strictly more
	// than this multiple of the mean item price.
	OutlierPriceMultiplier = 5.0

	// HighTotalThreshold flags an invoice whose total strictly exceeds this
	// amount in the invoice's currency unit.
	HighTotalThreshold = 100000.0

	// TotalTolerance is the absolute tolerance when cross-checking the
	// declared total against the recomputed line-item sum.
	TotalTolerance = "0.01"
)
