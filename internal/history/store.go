// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a log of completed exports in SQLite.
// Implements: prd003-history (R1-R3);
//
//	docs/ARCHITECTURE § History.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/export-engine/pkg/types"
)

const dbFile = "exports.db"

const defaultMaxResults = 20

// Store manages the export history SQLite database.
type Store struct {
	db         *sql.DB
	historyDir string
	maxResults int
}

// NewStore opens or creates the history database at historyDir/exports.db.
// It creates the directory and schema if they do not exist (R1.1).
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.HistoryDir
	if dir == "" {
		dir = "history"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		historyDir: dir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			filename TEXT NOT NULL,
			path TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			pages INTEGER NOT NULL,
			backend TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_title ON exports(title)`,
		`CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one export row (R1.2). An empty ID gets a fresh UUID.
func (s *Store) Record(ctx context.Context, rec types.ExportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (id, title, filename, path, size_bytes, pages, backend, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Filename, rec.Path,
		rec.SizeBytes, rec.Pages, string(rec.Backend),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting export record: %w", err)
	}
	return nil
}

// QueryOptions filters a history listing.
type QueryOptions struct {
	// Title filters on exact requested title.
	Title string

	// Backend filters on rendering backend.
	Backend string

	// MaxResults caps the listing; 0 uses the store default.
	MaxResults int
}

// List returns export records, most recent first (R2.1-R2.3).
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.ExportRecord, error) {
	query := `SELECT id, title, filename, path, size_bytes, pages, backend, created_at
		FROM exports WHERE 1=1`
	var args []any

	if opts.Title != "" {
		query += ` AND title = ?`
		args = append(args, opts.Title)
	}
	if opts.Backend != "" {
		query += ` AND backend = ?`
		args = append(args, opts.Backend)
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exports: %w", err)
	}
	defer rows.Close()

	var records []types.ExportRecord
	for rows.Next() {
		var rec types.ExportRecord
		var backend, created string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Filename, &rec.Path,
			&rec.SizeBytes, &rec.Pages, &backend, &created); err != nil {
			return nil, fmt.Errorf("scanning export row: %w", err)
		}
		rec.Backend = types.RenderBackend(backend)
		if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating export rows: %w", err)
	}

	return records, nil
}
