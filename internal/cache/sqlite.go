// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the default Store implementation: a single embedded
// database file that survives process restarts. The database is opened
// with WAL journaling and synchronous=FULL so every committed Put is
// durably flushed before it returns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens or creates the cache database at path, creating parent
// directories and the schema as needed.
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			payload TEXT,
			source TEXT,
			retrieved_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_status ON entries(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the entry under key, or ErrNoEntry when absent.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, error) {
	var e Entry
	var retrievedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT key, status, payload, source, retrieved_at FROM entries WHERE key = ?`, key,
	).Scan(&e.Key, (*string)(&e.Status), &e.Payload, &e.Source, &retrievedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoEntry
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	if t, parseErr := time.Parse(time.RFC3339Nano, retrievedAt); parseErr == nil {
		e.RetrievedAt = t
	}
	return &e, nil
}

// Put upserts the entry. Last write wins.
func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	retrievedAt := e.RetrievedAt
	if retrievedAt.IsZero() {
		retrievedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (key, status, payload, source, retrieved_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			status=excluded.status, payload=excluded.payload,
			source=excluded.source, retrieved_at=excluded.retrieved_at`,
		e.Key, string(e.Status), e.Payload, e.Source,
		retrievedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Exists reports whether any entry is stored under key.
func (s *SQLiteStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM entries WHERE key = ?`, key,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking cache entry: %w", err)
	}
	return n > 0, nil
}

// Delete removes the entry under key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// StatRow is one line of the cache stats summary.
type StatRow struct {
	Namespace string
	Status    Status
	Count     int
}

// Stats aggregates entry counts by namespace and status for operator
// inspection.
func (s *SQLiteStore) Stats(ctx context.Context) ([]StatRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT substr(key, 1, instr(key, ':') - 1) AS ns, status, count(*)
		 FROM entries GROUP BY ns, status`)
	if err != nil {
		return nil, fmt.Errorf("querying cache stats: %w", err)
	}
	defer rows.Close()

	var stats []StatRow
	for rows.Next() {
		var r StatRow
		if err := rows.Scan(&r.Namespace, (*string)(&r.Status), &r.Count); err != nil {
			return nil, fmt.Errorf("scanning cache stats: %w", err)
		}
		stats = append(stats, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cache stats: %w", err)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Namespace != stats[j].Namespace {
			return stats[i].Namespace < stats[j].Namespace
		}
		return stats[i].Status < stats[j].Status
	})
	return stats, nil
}

var _ Store = (*SQLiteStore)(nil)
