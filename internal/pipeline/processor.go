// Package pipeline chains the core stages for one document: text
// extraction, invoice extraction, risk assessment, action hashing. Each
// request is processed synchronously and independently; the only shared
// state is the read-only chat client inside the stage components.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/finguard-ai/finguard/internal/document"
	"github.com/finguard-ai/finguard/internal/extract"
	"github.com/finguard-ai/finguard/internal/invoice"
	"github.com/finguard-ai/finguard/internal/risk"
)

// Result is the combined outcome for one processed document.
type Result struct {
	Invoice    *invoice.Record `json:"invoice_data"`
	Risk       *risk.Report    `json:"risk_assessment"`
	ActionHash string          `json:"action_hash"`
}

type Processor struct {
	documents *document.Extractor
	extractor *extract.Extractor
	analyzer  *risk.Analyzer
	logger    *slog.Logger
}

func NewProcessor(documents *document.Extractor, extractor *extract.Extractor, analyzer *risk.Analyzer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		documents: documents,
		extractor: extractor,
		analyzer:  analyzer,
		logger:    logger,
	}
}

// ProcessFile runs the full pipeline for the document at path. Extraction
// failures propagate; the risk stage never fails (it falls back to a fixed
// low-risk report).
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	doc, err := p.documents.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	rec, err := p.extractor.Extract(ctx, doc.Text)
	if err != nil {
		return nil, err
	}

	report := p.analyzer.Assess(ctx, rec)

	hash, err := ActionHash(rec)
	if err != nil {
		return nil, err
	}

	p.logger.Info("pipeline.ok",
		"path", path,
		"vendor", rec.Vendor,
		"risk_level", report.RiskLevel,
		"action_hash", hash,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{Invoice: rec, Risk: report, ActionHash: hash}, nil
}
