package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finguard-ai/finguard/constants"
	"github.com/finguard-ai/finguard/internal/document"
	"github.com/finguard-ai/finguard/internal/extract"
	"github.com/finguard-ai/finguard/internal/risk"
)

// scriptedChat returns one canned reply per call, in order. The first
// call is the extraction prompt, the second the risk prompt.
type scriptedChat struct {
	replies []string
	calls   int
}

func (s *scriptedChat) Chat(_ context.Context, _ string) (string, error) {
	if s.calls >= len(s.replies) {
		return "", nil
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

const extractionReply = `{
	"vendor": "Sharma Traders",
	"date": "2025-06-13",
	"invoice_number": "ST-2025-114",
	"total_amount": 18000.00,
	"line_items": [
		{"name": "Office Chairs", "quantity": 3, "price": 4000.00},
		{"name": "Standing Desk", "quantity": 1, "price": 6000.00}
	]
}`

const riskReply = `{
	"risk_level": "low",
	"confidence_score": 0.92,
	"findings": ["Amounts are consistent with line items"],
	"unusual_items": []
}`

func TestProcessFile(t *testing.T) {
	chat := &scriptedChat{replies: []string{extractionReply, riskReply}}
	p := NewProcessor(
		document.NewExtractor(document.Config{}, slog.Default()),
		extract.NewExtractor(chat, slog.Default()),
		risk.NewAnalyzer(chat, slog.Default()),
		slog.Default(),
	)

	res, err := p.ProcessFile(context.Background(), filepath.Join("testdata", "invoice.pdf"))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 2, chat.calls)

	require.NotNil(t, res.Invoice)
	assert.Equal(t, "Sharma Traders", res.Invoice.Vendor)
	assert.Equal(t, "ST-2025-114", res.Invoice.InvoiceNumber)
	assert.Equal(t, 18000.00, res.Invoice.TotalAmount)

	require.NotNil(t, res.Risk)
	assert.Equal(t, string(constants.RiskLow), res.Risk.RiskLevel)
	assert.Equal(t, 0.92, res.Risk.ConfidenceScore)

	want, err := ActionHash(res.Invoice)
	require.NoError(t, err)
	assert.Equal(t, want, res.ActionHash)
	assert.Len(t, res.ActionHash, 64)
}

func TestProcessFileExtractionFailurePropagates(t *testing.T) {
	chat := &scriptedChat{replies: []string{"not json at all"}}
	p := NewProcessor(
		document.NewExtractor(document.Config{}, slog.Default()),
		extract.NewExtractor(chat, slog.Default()),
		risk.NewAnalyzer(chat, slog.Default()),
		slog.Default(),
	)

	res, err := p.ProcessFile(context.Background(), filepath.Join("testdata", "invoice.pdf"))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 1, chat.calls, "risk stage must not run when extraction fails")
}
