package extract

import "strings"

// BuildExtractionPrompt composes the deterministic extraction prompt. The
// rules are deliberately rigid: exact values only, normalized dates,
// currency prefixes converted to plain decimals, line items copied
// verbatim. The model is told to answer with the JSON object alone.
func BuildExtractionPrompt(documentText string) string {
	var b strings.Builder
	b.WriteString("You are a precise invoice data extractor. Your task is to extract EXACT values from this invoice text:\n\n")
	b.WriteString(documentText)
	b.WriteString("\n\nCRITICAL INSTRUCTIONS:\n")
	b.WriteString("1. Extract EXACT values from the invoice text - do not modify or guess any values\n")
	b.WriteString("2. For dates: Convert to YYYY-MM-DD format (e.g., \"13 June 2025\" -> \"2025-06-13\")\n")
	b.WriteString("3. For amounts: Convert currency-prefixed values to decimal numbers (e.g., \"Rs. 18000\" -> 18000.00)\n")
	b.WriteString("4. For line items: Extract EXACT names and quantities as shown\n")
	b.WriteString("5. Do not add or remove any line items\n")
	b.WriteString("6. Do not modify any values\n")
	b.WriteString("7. Each line item must have a name, quantity, and price\n")
	b.WriteString("8. The total amount must match the sum of all line items\n")
	b.WriteString("\nReturn a JSON object with this structure:\n")
	b.WriteString(`{
    "vendor": "string (exact vendor name from invoice)",
    "date": "YYYY-MM-DD (converted date)",
    "invoice_number": "string (exact invoice number)",
    "total_amount": decimal_number (converted total amount),
    "line_items": [
        {
            "name": "string (exact item name)",
            "quantity": number (exact quantity),
            "price": decimal_number (converted price)
        }
    ]
}`)
	b.WriteString("\n\nReturn ONLY the JSON object with EXACT values from the invoice. Do not add, remove, or modify any values.")
	return b.String()
}
