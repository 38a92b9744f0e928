// Package extract turns raw document text into a validated invoice record
// via a single deterministic LLM call. Unlike the risk analyzer, every
// failure here is hard: a malformed extraction cannot be defaulted.
package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finguard-ai/finguard/internal/common"
	"github.com/finguard-ai/finguard/internal/invoice"
	"github.com/finguard-ai/finguard/internal/llm"
)

type Extractor struct {
	client llm.ChatClient
	logger *slog.Logger
}

func NewExtractor(client llm.ChatClient, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, logger: logger}
}

// Extract builds the extraction prompt, invokes the model once, strips
// response fencing, and validates the result structurally and numerically.
// It returns a fully valid record or an error, never a partial record.
func (e *Extractor) Extract(ctx context.Context, documentText string) (*invoice.Record, error) {
	rid := uuid.New().String()
	start := time.Now()

	e.logger.Info("extract.start", "req_id", rid, "text_len", len(documentText))

	content, err := e.client.Chat(ctx, BuildExtractionPrompt(documentText))
	if err != nil {
		e.logger.Error("extract.chat_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	cleaned := []byte(llm.StripFencing(content))

	// Parse failure propagates; extraction is never silently recovered.
	var probe any
	if err := json.Unmarshal(cleaned, &probe); err != nil {
		e.logger.Error("extract.parse_error", "req_id", rid, "error", err,
			"content_len", len(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, common.NewAppError("EXTRACT_PARSE", "model returned malformed JSON",
			common.WrapError(common.ErrResponseParse, err.Error()))
	}

	// Structural gate first so missing fields surface by name, then decode.
	// Unknown top-level keys pass through and are dropped by the decode.
	if err := llm.InvoiceGate().Validate(cleaned); err != nil {
		e.logger.Error("extract.schema_validation_failed", "req_id", rid, "error", err,
			"content", string(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, common.NewAppError("EXTRACT_INVALID", err.Error(), common.ErrValidation)
	}

	var rec invoice.Record
	if err := json.Unmarshal(cleaned, &rec); err != nil {
		e.logger.Error("extract.unmarshal_failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, common.NewAppError("EXTRACT_PARSE", "decode invoice fields",
			common.WrapError(common.ErrResponseParse, err.Error()))
	}

	// Named missing-field errors plus the total cross-check (hard failure).
	if err := rec.Validate(); err != nil {
		e.logger.Error("extract.validation_failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	e.logger.Info("extract.ok",
		"req_id", rid,
		"vendor", rec.Vendor,
		"date", rec.Date,
		"invoice_number", rec.InvoiceNumber,
		"total", rec.TotalAmount,
		"line_items", len(rec.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &rec, nil
}
