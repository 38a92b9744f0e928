// Package document extracts plain text from uploaded invoice documents.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/finguard-ai/finguard/constants"
	"github.com/finguard-ai/finguard/internal/common"
)

type Config struct {
	MaxPages int // 0 = no limit
}

type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF
	Duration   time.Duration
	Warnings   []string
}

type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract picks a strategy based on file extension. Only PDFs carry an
// extractable text layer today; image uploads are accepted upstream but
// rejected here.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("document.extract.start", "path", path, "ext", ext)

	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err := e.extractPDF(ctx, path)
		res.Duration = time.Since(start)
		return res, err
	default:
		e.logger.Error("document.extract.unsupported", "extension", ext)
		return Result{}, common.NewAppError("DOC_UNSUPPORTED",
			fmt.Sprintf("unsupported extension: %q", ext), common.ErrExtraction)
	}
}

// extractPDF concatenates page texts in page order, newline separated.
// A PDF with zero extractable pages yields an empty string, not an error;
// rejecting empty documents is left to downstream validation.
func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{SourceType: constants.PDF}, common.NewAppError("DOC_OPEN",
			fmt.Sprintf("open %q", path), common.WrapError(common.ErrExtraction, err.Error()))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("document.extract.close_error", "path", path, "error", cerr)
		}
	}()

	st, err := f.Stat()
	if err != nil {
		return Result{SourceType: constants.PDF}, common.NewAppError("DOC_STAT",
			fmt.Sprintf("stat %q", path), common.WrapError(common.ErrExtraction, err.Error()))
	}

	reader, err := pdf.NewReader(f, st.Size())
	if err != nil {
		return Result{SourceType: constants.PDF}, common.NewAppError("DOC_PARSE",
			fmt.Sprintf("parse %q as pdf", path), common.WrapError(common.ErrExtraction, err.Error()))
	}

	var b strings.Builder
	var warns []string
	pages := reader.NumPage()
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		warns = append(warns, fmt.Sprintf("truncated to first %d of %d pages", e.cfg.MaxPages, pages))
		pages = e.cfg.MaxPages
	}

	read := 0
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return Result{SourceType: constants.PDF}, common.NewAppError("DOC_CANCELED",
				"extraction canceled", common.WrapError(common.ErrExtraction, err.Error()))
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if txt == "" {
			continue
		}
		b.WriteString(txt)
		b.WriteString("\n")
		read++
	}

	e.logger.Info("document.extract.ok",
		"path", path,
		"pages", pages,
		"pages_with_text", read,
		"text_len", b.Len(),
		"warnings", len(warns),
	)
	return Result{
		Text:       b.String(),
		Pages:      pages,
		SourceType: constants.PDF,
		Warnings:   warns,
	}, nil
}
