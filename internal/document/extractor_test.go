package document

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finguard-ai/finguard/constants"
	"github.com/finguard-ai/finguard/internal/common"
)

func TestExtractTwoPagePDF(t *testing.T) {
	e := NewExtractor(Config{}, slog.Default())
	res, err := e.Extract(context.Background(), filepath.Join("testdata", "invoice.pdf"))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Empty(t, res.Warnings)

	first := strings.Index(res.Text, "first page")
	second := strings.Index(res.Text, "second page")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "pages must appear in page order")
	assert.Contains(t, res.Text[first:second], "\n", "page texts must be newline separated")
}

func TestExtractPDFWithoutTextIsNotAnError(t *testing.T) {
	e := NewExtractor(Config{}, slog.Default())
	res, err := e.Extract(context.Background(), filepath.Join("testdata", "blank.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
	assert.Equal(t, 1, res.Pages)
}

func TestExtractMaxPagesTruncates(t *testing.T) {
	e := NewExtractor(Config{MaxPages: 1}, slog.Default())
	res, err := e.Extract(context.Background(), filepath.Join("testdata", "invoice.pdf"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "first page")
	assert.NotContains(t, res.Text, "second page")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "truncated")
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := NewExtractor(Config{}, slog.Default())
	_, err := e.Extract(context.Background(), "statement.docx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestExtractImageRejected(t *testing.T) {
	e := NewExtractor(Config{}, slog.Default())
	_, err := e.Extract(context.Background(), "scan.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
}

func TestExtractMissingFile(t *testing.T) {
	e := NewExtractor(Config{}, slog.Default())
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
}

func TestExtractCorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a pdf"), 0o644))

	e := NewExtractor(Config{}, slog.Default())
	_, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
}
