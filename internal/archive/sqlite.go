package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/avelines/vesper/internal/memory"
)

const schema = `
CREATE TABLE IF NOT EXISTS fragments (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	tone       TEXT NOT NULL DEFAULT '',
	tags       TEXT NOT NULL DEFAULT '[]',
	invocation TEXT NOT NULL DEFAULT '',
	priority   INTEGER NOT NULL DEFAULT 5,
	source     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fragments_invocation ON fragments(invocation);
`

// SQLiteStore persists memory fragments. It acts both as a Source (reload at
// startup) and a Sink (persist runtime appends).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if necessary creates) the fragment database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("archive: create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("archive: open database: %w", err)
	}

	// SQLite supports one writer. A single connection serialises writes and
	// avoids SQLITE_BUSY; WAL keeps readers unblocked.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns all fragments in insertion (creation time, id) order.
func (s *SQLiteStore) Load(ctx context.Context) ([]memory.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, tone, tags, invocation, priority, source, created_at
		FROM fragments ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("archive: query fragments: %w", err)
	}
	defer rows.Close()

	var records []memory.Record
	for rows.Next() {
		var r memory.Record
		var tags, created string
		if err := rows.Scan(&r.ID, &r.Text, &r.Tone, &tags, &r.Invocation, &r.Priority, &r.Source, &created); err != nil {
			return nil, fmt.Errorf("archive: scan fragment: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			r.Tags = []string{}
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Save inserts one fragment. Records are append-only, so conflicts on id are
// ignored rather than overwritten.
func (s *SQLiteStore) Save(ctx context.Context, r memory.Record) error {
	tags, err := json.Marshal(r.Tags)
	if err != nil {
		tags = []byte("[]")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fragments (id, text, tone, tags, invocation, priority, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		r.ID, r.Text, r.Tone, string(tags), r.Invocation, r.Priority, r.Source,
		r.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("archive: save fragment: %w", err)
	}
	return nil
}

var (
	_ Source = (*SQLiteStore)(nil)
	_ Sink   = (*SQLiteStore)(nil)
)
