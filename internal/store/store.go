// Package store owns the two persistent collections: the append-only seen
// ledger and the per-run new-postings view. Any tabular backing works; the
// backend is picked from the shape of the DSN.
package store

import (
	"context"
	"strings"

	"jobwatch-engine/internal/domain"
)

// Store is the capability the run orchestrator needs. The ledger is
// append-only: a key, once appended, is never removed or overwritten. The
// new view is replaced wholesale every run, including with an empty batch.
type Store interface {
	LoadSeenKeys(ctx context.Context) (map[string]bool, error)
	ReplaceNew(ctx context.Context, postings []domain.JobPosting) error
	AppendLedger(ctx context.Context, postings []domain.JobPosting) error
	Close() error
}

// Open picks a backend by DSN shape: postgres URLs, sqlite file paths, or a
// directory holding the two CSV collections.
func Open(ctx context.Context, dsn, token string) (Store, error) {
	switch {
	case isPostgres(dsn):
		return openPostgres(ctx, dsn, token)
	case strings.HasSuffix(dsn, ".db") || strings.HasSuffix(dsn, ".sqlite"):
		return openSQLite(ctx, dsn)
	default:
		return openCSV(dsn)
	}
}

// NeedsToken reports whether the backend behind dsn authenticates with a
// service credential. File-backed stores take none.
func NeedsToken(dsn string) bool {
	return isPostgres(dsn)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
