package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finguard-ai/finguard/internal/audit"
	"github.com/finguard-ai/finguard/internal/document"
	"github.com/finguard-ai/finguard/internal/extract"
	"github.com/finguard-ai/finguard/internal/llm"
	"github.com/finguard-ai/finguard/internal/pipeline"
	"github.com/finguard-ai/finguard/internal/risk"
)

type stubChat struct{ reply string }

func (s *stubChat) Chat(_ context.Context, _ string) (string, error) {
	return s.reply, nil
}

// sequencedChat answers the extraction and risk prompts in order.
type sequencedChat struct {
	replies []string
	calls   int
}

func (s *sequencedChat) Chat(_ context.Context, _ string) (string, error) {
	if s.calls >= len(s.replies) {
		return "", nil
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceWithChat(t, &stubChat{reply: "{}"})
}

func newTestServiceWithChat(t *testing.T, chat llm.ChatClient) *Service {
	t.Helper()
	logger := slog.Default()
	processor := pipeline.NewProcessor(
		document.NewExtractor(document.Config{}, logger),
		extract.NewExtractor(chat, logger),
		risk.NewAnalyzer(chat, logger),
		logger,
	)
	audits, err := audit.Open(context.Background(), filepath.Join(t.TempDir(), "audit.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = audits.Close() })
	return NewService(processor, audits, t.TempDir(), logger)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&m))
	return m
}

func TestHealth(t *testing.T) {
	router := newTestService(t).Router()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "healthy"}, decodeBody(t, rec.Body))
}

func TestProcessInvoiceMissingFile(t *testing.T) {
	router := newTestService(t).Router()

	body, contentType := multipartBody(t, "attachment", "a.pdf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/process-invoice", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec.Body)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "No invoice file provided", resp["error"])
}

func TestProcessInvoiceBadExtension(t *testing.T) {
	router := newTestService(t).Router()

	body, contentType := multipartBody(t, "invoice", "malware.exe", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/process-invoice", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec.Body)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Invalid file type", resp["error"])
}

func TestProcessInvoiceCorruptPDF(t *testing.T) {
	router := newTestService(t).Router()

	body, contentType := multipartBody(t, "invoice", "broken.pdf", []byte("not a pdf at all"))
	req := httptest.NewRequest(http.MethodPost, "/api/process-invoice", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec.Body)
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["error"])
}

func TestProcessInvoiceSuccess(t *testing.T) {
	extractionReply := "```json\n" + `{
		"vendor": "Sharma Traders",
		"date": "2025-06-13",
		"invoice_number": "ST-2025-114",
		"total_amount": 18000.00,
		"line_items": [
			{"name": "Office Chairs", "quantity": 3, "price": 4000.00},
			{"name": "Standing Desk", "quantity": 1, "price": 6000.00}
		]
	}` + "\n```"
	riskReply := `{
		"risk_level": "low",
		"confidence_score": 0.92,
		"findings": ["Amounts are consistent with line items"],
		"unusual_items": []
	}`
	chat := &sequencedChat{replies: []string{extractionReply, riskReply}}
	svc := newTestServiceWithChat(t, chat)

	pdfBytes, err := os.ReadFile(filepath.Join("testdata", "invoice.pdf"))
	require.NoError(t, err)

	body, contentType := multipartBody(t, "invoice", "invoice.pdf", pdfBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/process-invoice", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec.Body)
	assert.Equal(t, true, resp["success"])

	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "data must be an object")

	invoiceData, ok := data["invoice_data"].(map[string]any)
	require.True(t, ok, "invoice_data must be an object")
	assert.Equal(t, "Sharma Traders", invoiceData["vendor"])
	assert.Equal(t, "ST-2025-114", invoiceData["invoice_number"])
	assert.Equal(t, 18000.00, invoiceData["total_amount"])

	riskData, ok := data["risk_assessment"].(map[string]any)
	require.True(t, ok, "risk_assessment must be an object")
	assert.Equal(t, "low", riskData["risk_level"])

	hash, ok := data["action_hash"].(string)
	require.True(t, ok, "action_hash must be a string")
	assert.Len(t, hash, 64)

	entries, err := svc.audits.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "invoice.pdf", entries[0].Filename)
	assert.Equal(t, hash, entries[0].ActionHash)
	assert.Equal(t, "Sharma Traders", entries[0].Vendor)
	assert.Equal(t, "low", entries[0].RiskLevel)
}

func TestAuditExport(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.audits.Record(context.Background(), audit.Entry{
		Filename:   "a.pdf",
		ActionHash: "abc",
		Vendor:     "Acme",
		Total:      100,
		RiskLevel:  "low",
	}))

	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/audit/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestCORSPreflight(t *testing.T) {
	router := newTestService(t).Router()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/process-invoice", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
