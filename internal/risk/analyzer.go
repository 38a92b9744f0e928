// Package risk assesses extracted invoices for anomalous financial
// patterns. A local pre-pass computes outlier signals deterministically;
// the model then produces the structured report. The failure policy is the
// inverse of extraction: nothing here ever surfaces an error.
package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finguard-ai/finguard/constants"
	"github.com/finguard-ai/finguard/internal/invoice"
	"github.com/finguard-ai/finguard/internal/llm"
)

type Analyzer struct {
	client llm.ChatClient
	logger *slog.Logger
}

func NewAnalyzer(client llm.ChatClient, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, logger: logger}
}

// ComputeUnusualItems runs the deterministic pre-pass: flag any line item
// whose price strictly exceeds OutlierPriceMultiplier times the mean item
// price, and the invoice total when it strictly exceeds the high-total
// threshold. Comparisons use decimal arithmetic so the boundaries are exact.
func ComputeUnusualItems(rec *invoice.Record) []UnusualItem {
	unusual := []UnusualItem{}
	if len(rec.LineItems) == 0 {
		return unusual
	}

	sum := decimal.Zero
	for _, item := range rec.LineItems {
		sum = sum.Add(decimal.NewFromFloat(item.Price))
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(rec.LineItems))))
	cutoff := mean.Mul(decimal.NewFromFloat(constants.OutlierPriceMultiplier))

	for _, item := range rec.LineItems {
		price := decimal.NewFromFloat(item.Price)
		if price.GreaterThan(cutoff) {
			multiple, _ := price.Div(mean).Float64()
			unusual = append(unusual, UnusualItem{
				Item:   item.Name,
				Price:  item.Price,
				Reason: fmt.Sprintf("Price is %.1fx higher than average", multiple),
			})
		}
	}

	threshold := decimal.NewFromFloat(constants.HighTotalThreshold)
	if decimal.NewFromFloat(rec.TotalAmount).GreaterThan(threshold) {
		unusual = append(unusual, UnusualItem{
			Item:   "Total Amount",
			Price:  rec.TotalAmount,
			Reason: "Total amount exceeds 100,000",
		})
	}
	return unusual
}

// Assess produces a risk report for a validated invoice. Any transport,
// parse, or structural failure resolves to the fixed low-risk fallback;
// the caller always receives a well-formed report.
func (a *Analyzer) Assess(ctx context.Context, rec *invoice.Record) *Report {
	rid := uuid.New().String()
	start := time.Now()

	unusual := ComputeUnusualItems(rec)

	invoiceJSON, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		a.logger.Error("risk.encode_invoice_error", "req_id", rid, "error", err)
		return FallbackReport()
	}

	a.logger.Info("risk.assess.start",
		"req_id", rid,
		"vendor", rec.Vendor,
		"total", rec.TotalAmount,
		"local_flags", len(unusual),
	)

	content, err := a.client.Chat(ctx, BuildAssessmentPrompt(invoiceJSON, unusual))
	if err != nil {
		a.logger.Warn("risk.assess.chat_error_fallback", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return FallbackReport()
	}

	cleaned := []byte(llm.StripFencing(content))

	if err := llm.RiskGate().Validate(cleaned); err != nil {
		a.logger.Warn("risk.assess.schema_fallback", "req_id", rid, "error", err,
			"content_len", len(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds())
		return FallbackReport()
	}

	var report Report
	if err := json.Unmarshal(cleaned, &report); err != nil {
		a.logger.Warn("risk.assess.parse_fallback", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return FallbackReport()
	}
	if report.Findings == nil {
		report.Findings = []string{}
	}
	if report.UnusualItems == nil {
		report.UnusualItems = []UnusualItem{}
	}

	a.logger.Info("risk.assess.ok",
		"req_id", rid,
		"risk_level", report.RiskLevel,
		"confidence", report.ConfidenceScore,
		"findings", len(report.Findings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &report
}
