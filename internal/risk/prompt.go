package risk

import (
	"encoding/json"
	"strings"
)

// BuildAssessmentPrompt embeds the full invoice JSON and the locally
// computed unusual-items list, with explicit risk-factor guidance and a
// conservative-bias instruction. The local flags are advisory signals for
// the model, not authoritative findings.
func BuildAssessmentPrompt(invoiceJSON []byte, unusual []UnusualItem) string {
	flagged, err := json.MarshalIndent(unusual, "", "  ")
	if err != nil {
		flagged = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("Analyze this invoice data for potential risks or fraud indicators:\n\n")
	b.WriteString("Invoice Data:\n")
	b.Write(invoiceJSON)
	b.WriteString("\n\nUnusual Items Found:\n")
	b.Write(flagged)
	b.WriteString("\n\nConsider the following risk factors:\n")
	b.WriteString("1. Unusual amounts:\n")
	b.WriteString("   - Items significantly above average price (only flag if >5x average)\n")
	b.WriteString("   - Total amount unusually high (only flag if >100,000)\n")
	b.WriteString("   - Round numbers or suspicious patterns\n")
	b.WriteString("2. Missing or suspicious information:\n")
	b.WriteString("   - Missing vendor details\n")
	b.WriteString("   - Missing invoice number\n")
	b.WriteString("   - Missing dates\n")
	b.WriteString("3. Inconsistencies:\n")
	b.WriteString("   - Mismatched totals\n")
	b.WriteString("   - Unusual quantities\n")
	b.WriteString("   - Suspicious item names\n")
	b.WriteString("4. High-risk indicators:\n")
	b.WriteString("   - Executive or license fees\n")
	b.WriteString("   - Round number amounts\n")
	b.WriteString("   - Unusually high individual items\n")
	b.WriteString("\nReturn a JSON object with this structure:\n")
	b.WriteString(`{
    "risk_level": "high|medium|low",
    "confidence_score": number between 0 and 1,
    "findings": [
        "string describing each risk found"
    ],
    "unusual_items": [
        {
            "item": "item name",
            "price": number,
            "reason": "string explaining why it's unusual"
        }
    ]
}`)
	b.WriteString("\n\nNote: Be conservative in flagging risks. Only mark as medium or high risk if there are clear and significant concerns. Most invoices should be marked as low risk unless there are obvious red flags.\n")
	b.WriteString("\nIMPORTANT: Return ONLY the JSON object, no additional text or explanation.")
	return b.String()
}
