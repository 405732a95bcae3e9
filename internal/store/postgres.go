package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobwatch-engine/internal/domain"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, dsn, token string) (*postgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.ConnConfig.Password == "" && token != "" {
		cfg.ConnConfig.Password = token
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &postgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return s, nil
}

func (s *postgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS seen_keys (
  key           text NOT NULL,
  first_seen_at timestamptz NOT NULL,
  company       text NOT NULL DEFAULT '',
  title         text NOT NULL DEFAULT '',
  location      text NOT NULL DEFAULT '',
  url           text NOT NULL DEFAULT '',
  source        text NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_seen_keys_key ON seen_keys(key);
CREATE TABLE IF NOT EXISTS new_jobs (
  detected_at timestamptz NOT NULL,
  company     text NOT NULL DEFAULT '',
  title       text NOT NULL DEFAULT '',
  location    text NOT NULL DEFAULT '',
  url         text NOT NULL DEFAULT '',
  source      text NOT NULL DEFAULT '',
  key         text NOT NULL
);
`)
	return err
}

func (s *postgresStore) LoadSeenKeys(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT key FROM seen_keys`)
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

func (s *postgresStore) ReplaceNew(ctx context.Context, postings []domain.JobPosting) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM new_jobs`); err != nil {
		return err
	}
	if len(postings) > 0 {
		if err := sendBatch(ctx, tx, `
INSERT INTO new_jobs(detected_at, company, title, location, url, source, key)
VALUES($1,$2,$3,$4,$5,$6,$7)`,
			postings, func(p domain.JobPosting) []any {
				return []any{p.DetectedAt, p.Company, p.Title, p.Location, p.URL, p.Source, p.Key}
			}); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *postgresStore) AppendLedger(ctx context.Context, postings []domain.JobPosting) error {
	if len(postings) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := sendBatch(ctx, tx, `
INSERT INTO seen_keys(key, first_seen_at, company, title, location, url, source)
VALUES($1,$2,$3,$4,$5,$6,$7)`,
		postings, func(p domain.JobPosting) []any {
			return []any{p.Key, p.DetectedAt, p.Company, p.Title, p.Location, p.URL, p.Source}
		}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func sendBatch(ctx context.Context, tx pgx.Tx, sql string, postings []domain.JobPosting, args func(domain.JobPosting) []any) error {
	b := &pgx.Batch{}
	for _, p := range postings {
		b.Queue(sql, args(p)...)
	}
	br := tx.SendBatch(ctx, b)
	for range postings {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}
