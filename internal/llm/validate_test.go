package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validInvoiceJSON = `{
	"vendor": "Sharma Traders",
	"date": "2025-06-13",
	"invoice_number": "ST-2025-114",
	"total_amount": 18000.00,
	"line_items": [{"name": "Office Chairs", "quantity": 3, "price": 4000.00}]
}`

func TestInvoiceGateAcceptsValidResponse(t *testing.T) {
	assert.NoError(t, InvoiceGate().Validate([]byte(validInvoiceJSON)))
}

func TestInvoiceGateNamesMissingField(t *testing.T) {
	err := InvoiceGate().Validate([]byte(`{
		"vendor": "Sharma Traders",
		"date": "2025-06-13",
		"total_amount": 18000.00,
		"line_items": [{"name": "Office Chairs", "quantity": 3, "price": 4000.00}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice_number")
}

func TestInvoiceGateRejectsEmptyLineItems(t *testing.T) {
	err := InvoiceGate().Validate([]byte(`{
		"vendor": "Sharma Traders",
		"date": "2025-06-13",
		"invoice_number": "ST-2025-114",
		"total_amount": 18000.00,
		"line_items": []
	}`))
	require.Error(t, err)
}

func TestRiskGateRejectsUnknownLevel(t *testing.T) {
	err := RiskGate().Validate([]byte(`{
		"risk_level": "catastrophic",
		"confidence_score": 0.9,
		"findings": []
	}`))
	require.Error(t, err)
}

func TestRiskGateAcceptsMinimalResponse(t *testing.T) {
	assert.NoError(t, RiskGate().Validate([]byte(`{
		"risk_level": "medium",
		"confidence_score": 0.75,
		"findings": ["Total is unusually round"]
	}`)))
}

func TestGatesAreReusable(t *testing.T) {
	g := InvoiceGate()
	require.NoError(t, g.Validate([]byte(validInvoiceJSON)))
	require.Error(t, g.Validate([]byte(`{"vendor": "x"}`)))
	require.NoError(t, g.Validate([]byte(validInvoiceJSON)))
}
