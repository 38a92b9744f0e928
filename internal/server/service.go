// Package server is the thin HTTP layer over the processing pipeline:
// multipart upload in, combined invoice + risk JSON out, with an audit
// line per successful request.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/finguard-ai/finguard/internal/audit"
	"github.com/finguard-ai/finguard/internal/common"
	"github.com/finguard-ai/finguard/internal/pipeline"
)

type Service struct {
	processor *pipeline.Processor
	audits    *audit.Store
	uploadDir string
	logger    *slog.Logger
}

func NewService(processor *pipeline.Processor, audits *audit.Store, uploadDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		processor: processor,
		audits:    audits,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Router assembles the HTTP surface with CORS, request logging, and rate
// limiting applied to every route.
func (s *Service) Router() http.Handler {
	limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Use(requestLogger(s.logger))
	r.Use(rateLimitMiddleware(limiter, s.logger))

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/process-invoice", s.handleProcessInvoice)
	r.Get("/api/audit/export", s.handleAuditExport)
	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Service) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	if s.audits == nil {
		writeError(w, http.StatusNotFound, "audit trail disabled")
		return
	}
	xlsx, err := s.audits.ExportXLSX(r.Context())
	if err != nil {
		s.logger.Error("http.audit_export_error",
			"req_id", common.RequestIDFromContext(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "audit export failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="finguard-audit.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(xlsx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
