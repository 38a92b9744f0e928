// Package audit keeps a durable trail of processed invoices: one row per
// successful request, keyed by the content-addressed action hash. The
// invoice and risk records themselves are never persisted.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	filename    TEXT NOT NULL,
	action_hash TEXT NOT NULL,
	vendor      TEXT NOT NULL DEFAULT '',
	total       REAL NOT NULL DEFAULT 0,
	risk_level  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audit_log_hash ON audit_log(action_hash);
`

// Entry is one processed-invoice audit line.
type Entry struct {
	ID         int64
	Filename   string
	ActionHash string
	Vendor     string
	Total      float64
	RiskLevel  string
	CreatedAt  time.Time
}

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the sqlite audit database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	logger.Info("audit.open", "path", path)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one audit line.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (filename, action_hash, vendor, total, risk_level) VALUES (?, ?, ?, ?, ?)`,
		e.Filename, e.ActionHash, e.Vendor, e.Total, e.RiskLevel,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	s.logger.Info("audit.record",
		"filename", e.Filename,
		"action_hash", e.ActionHash,
		"risk_level", e.RiskLevel,
	)
	return nil
}

// List returns audit lines newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, action_hash, vendor, total, risk_level, created_at
		 FROM audit_log ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("audit.rows_close_error", "error", cerr)
		}
	}()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Filename, &e.ActionHash, &e.Vendor, &e.Total, &e.RiskLevel, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}
	return out, nil
}
