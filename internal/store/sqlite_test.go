package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch-engine/internal/domain"
)

func openTestSQLite(t *testing.T) *sqliteStore {
	t.Helper()
	s, err := openSQLite(context.Background(), filepath.Join(t.TempDir(), "jobwatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	seen, err := s.LoadSeenKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, seen)

	batch := []domain.JobPosting{
		{
			DetectedAt: time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC),
			Source:     "uber",
			Company:    "Uber",
			Title:      "Software Engineer",
			Location:   "Amsterdam, NL",
			URL:        "https://jobs.uber.com/123",
			Key:        "k1",
		},
	}
	require.NoError(t, s.ReplaceNew(ctx, batch))
	require.NoError(t, s.AppendLedger(ctx, batch))

	seen, err = s.LoadSeenKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"k1": true}, seen)

	// replacing with an empty batch clears the view, never the ledger
	require.NoError(t, s.ReplaceNew(ctx, nil))
	var n int
	require.NoError(t, s.pool.QueryRow(`SELECT COUNT(*) FROM new_jobs;`).Scan(&n))
	assert.Zero(t, n)

	seen, err = s.LoadSeenKeys(ctx)
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}

func TestSQLiteLedgerAllowsDuplicateKeys(t *testing.T) {
	// overlapping runs may append the same key; the ledger takes both
	ctx := context.Background()
	s := openTestSQLite(t)

	row := []domain.JobPosting{{DetectedAt: time.Now().UTC(), Key: "dup"}}
	require.NoError(t, s.AppendLedger(ctx, row))
	require.NoError(t, s.AppendLedger(ctx, row))

	var n int
	require.NoError(t, s.pool.QueryRow(`SELECT COUNT(*) FROM seen_keys WHERE key = 'dup';`).Scan(&n))
	assert.Equal(t, 2, n)
}
