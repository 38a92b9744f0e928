package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/finguard-ai/finguard/constants"
	"github.com/finguard-ai/finguard/internal/audit"
	"github.com/finguard-ai/finguard/internal/common"
)

// handleProcessInvoice accepts a multipart upload under the "invoice"
// field, runs extract → assess, and returns the combined result. Status
// mapping follows the error taxonomy: extraction and validation failures
// are the client's 4xx, transport failures to the model service are 502.
func (s *Service) handleProcessInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rid := common.RequestIDFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(constants.MaxUploadMB << 20); err != nil {
		s.logger.Warn("http.process.multipart_error", "req_id", rid, "error", err)
		writeError(w, http.StatusBadRequest, "No invoice file provided")
		return
	}

	file, header, err := r.FormFile("invoice")
	if err != nil {
		s.logger.Warn("http.process.missing_file", "req_id", rid, "error", err)
		writeError(w, http.StatusBadRequest, "No invoice file provided")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}
	ext := filepath.Ext(header.Filename)
	if !constants.IsAllowedExt(ext) {
		s.logger.Warn("http.process.bad_extension", "req_id", rid, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, "Invalid file type")
		return
	}

	path, err := s.saveUpload(file, ext)
	if err != nil {
		s.logger.Error("http.process.save_error", "req_id", rid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Warn("http.process.cleanup_error", "req_id", rid, "path", path, "error", rmErr)
		}
	}()

	result, err := s.processor.ProcessFile(ctx, path)
	if err != nil {
		s.logger.Error("http.process.pipeline_error", "req_id", rid, "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	if s.audits != nil {
		// Best effort: a broken audit trail never fails the request.
		if aErr := s.audits.Record(ctx, audit.Entry{
			Filename:   header.Filename,
			ActionHash: result.ActionHash,
			Vendor:     result.Invoice.Vendor,
			Total:      result.Invoice.TotalAmount,
			RiskLevel:  result.Risk.RiskLevel,
		}); aErr != nil {
			s.logger.Error("http.process.audit_error", "req_id", rid, "error", aErr)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"invoice_data":    result.Invoice,
			"risk_assessment": result.Risk,
			"action_hash":     result.ActionHash,
		},
	})
}

func (s *Service) saveUpload(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.New().String() + "." + constants.NormalizeExt(ext)
	path := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrExtraction),
		errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrResponseParse),
		errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
