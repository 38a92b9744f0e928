package llm

import (
	"github.com/finguard-ai/finguard/constants"
)

// buildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map for the extraction response. All five fields are required and
// line_items must be non-empty with positive quantities and prices.
// additionalProperties stays open: extra top-level keys are ignored, not
// rejected.
func buildInvoiceJSONSchema() map[string]any {
	itemSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":     map[string]any{"type": "string", "minLength": 1},
			"quantity": map[string]any{"type": "number", "exclusiveMinimum": 0.0},
			"price":    map[string]any{"type": "number", "exclusiveMinimum": 0.0},
		},
		"required": []string{"name", "quantity", "price"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vendor":         map[string]any{"type": "string", "minLength": 1},
			"date":           map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"invoice_number": map[string]any{"type": "string", "minLength": 1},
			"total_amount":   map[string]any{"type": "number", "minimum": 0.0},
			"line_items": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    itemSchema,
			},
		},
		"required": []string{"vendor", "date", "invoice_number", "total_amount", "line_items"},
	}
}

// buildRiskJSONSchema returns the schema map for the risk-assessment
// response. findings may be empty but must be present; unusual_items is
// optional.
func buildRiskJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"risk_level":       map[string]any{"type": "string", "enum": constants.RiskLevels},
			"confidence_score": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"findings": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"unusual_items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item":   map[string]any{"type": "string"},
						"price":  map[string]any{"type": "number"},
						"reason": map[string]any{"type": "string"},
					},
					"required": []string{"item", "price", "reason"},
				},
			},
		},
		"required": []string{"risk_level", "confidence_score", "findings"},
	}
}
