// Package journal keeps a local history of transactions in sqlite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/veesix-networks/setman/pkg/configmgr"
	"github.com/veesix-networks/setman/pkg/models"
)

type Entry struct {
	ID       string
	Mode     models.Mode
	Outcome  string
	Reason   string
	Digest   string
	Started  time.Time
	Finished time.Time
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			candidate_sha256 TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_transactions_started ON transactions(started_at)`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Record(ctx context.Context, res configmgr.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, mode, outcome, reason, started_at, finished_at, candidate_sha256)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, res.ID, res.Mode.String(), res.Outcome.String(), res.Reason,
		res.Started.UnixNano(), res.Finished.UnixNano(), res.Digest)
	return err
}

// Observe records res; it lets a Store be attached to a ConfigManager.
func (s *Store) Observe(ctx context.Context, res configmgr.Result) error {
	return s.Record(ctx, res)
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, outcome, reason, candidate_sha256, started_at, finished_at
		FROM transactions ORDER BY started_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			mode              string
			started, finished int64
		)
		if err := rows.Scan(&e.ID, &mode, &e.Outcome, &e.Reason, &e.Digest, &started, &finished); err != nil {
			return nil, err
		}
		e.Mode = models.Mode(mode)
		e.Started = time.Unix(0, started)
		e.Finished = time.Unix(0, finished)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
