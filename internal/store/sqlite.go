package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"jobwatch-engine/internal/domain"
)

type sqliteStore struct {
	pool *sql.DB
	lock *flock.Flock
}

func openSQLite(ctx context.Context, path string) (*sqliteStore, error) {
	// sidecar lock keeps a second process from interleaving writes on the
	// same db file; overlapping runs against remote backends still race
	lk := flock.New(path + ".lock")
	if err := lk.Lock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lk.Unlock()
		return nil, err
	}
	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		_ = lk.Unlock()
		return nil, err
	}

	s := &sqliteStore{pool: pool, lock: lk}
	if err := s.migrate(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return s, nil
}

func (s *sqliteStore) migrate() error {
	tx, err := s.pool.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS seen_keys (
  key TEXT NOT NULL,
  first_seen_at TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS new_jobs (
  detected_at TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  key TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// non-unique on purpose: overlapping runs may append the same key
	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_seen_keys_key ON seen_keys(key);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqliteStore) LoadSeenKeys(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.QueryContext(ctx, `SELECT key FROM seen_keys;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		if k != "" {
			seen[k] = true
		}
	}
	return seen, rows.Err()
}

func (s *sqliteStore) ReplaceNew(ctx context.Context, postings []domain.JobPosting) error {
	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM new_jobs;`); err != nil {
		return err
	}
	for _, p := range postings {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO new_jobs(detected_at, company, title, location, url, source, key)
VALUES(?,?,?,?,?,?,?);`,
			p.DetectedAt.Format(time.RFC3339), p.Company, p.Title, p.Location, p.URL, p.Source, p.Key,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) AppendLedger(ctx context.Context, postings []domain.JobPosting) error {
	if len(postings) == 0 {
		return nil
	}

	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range postings {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO seen_keys(key, first_seen_at, company, title, location, url, source)
VALUES(?,?,?,?,?,?,?);`,
			p.Key, p.DetectedAt.Format(time.RFC3339), p.Company, p.Title, p.Location, p.URL, p.Source,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Close() error {
	err := s.pool.Close()
	if s.lock != nil {
		_ = s.lock.Unlock()
	}
	return err
}
