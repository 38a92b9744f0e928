package audit

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "audit.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Entry{
		Filename:   "invoice-1.pdf",
		ActionHash: "abc123",
		Vendor:     "Acme Corp",
		Total:      18000,
		RiskLevel:  "low",
	}))
	require.NoError(t, s.Record(ctx, Entry{
		Filename:   "invoice-2.pdf",
		ActionHash: "def456",
		Vendor:     "Globex",
		Total:      250000,
		RiskLevel:  "medium",
	}))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "invoice-2.pdf", entries[0].Filename)
	assert.Equal(t, "def456", entries[0].ActionHash)
	assert.Equal(t, "medium", entries[0].RiskLevel)
	assert.Equal(t, "Acme Corp", entries[1].Vendor)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportXLSX(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Entry{
		Filename:   "invoice-1.pdf",
		ActionHash: "abc123",
		Vendor:     "Acme Corp",
		Total:      18000,
		RiskLevel:  "low",
	}))

	xlsx, err := s.ExportXLSX(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsx)
	// XLSX files are zip archives
	assert.True(t, bytes.HasPrefix(xlsx, []byte("PK")))
}
