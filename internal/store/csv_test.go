package store

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch-engine/internal/domain"
)

func testPosting(title, url, key string) domain.JobPosting {
	return domain.JobPosting{
		DetectedAt: time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC),
		Source:     "uber",
		Company:    "Uber",
		Title:      title,
		Location:   "Amsterdam, NL",
		URL:        url,
		Key:        key,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestOpenCSVInitializesHeaders(t *testing.T) {
	dir := t.TempDir()

	s, err := openCSV(dir)
	require.NoError(t, err)
	defer s.Close()

	newRecs := readCSV(t, filepath.Join(dir, newFile))
	seenRecs := readCSV(t, filepath.Join(dir, seenFile))
	require.Len(t, newRecs, 1)
	require.Len(t, seenRecs, 1)
	assert.Equal(t, newHeaders, newRecs[0])
	assert.Equal(t, seenHeaders, seenRecs[0])
}

func TestOpenCSVNeverRewritesInitializedCollections(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := openCSV(dir)
	require.NoError(t, err)
	require.NoError(t, s.AppendLedger(ctx, []domain.JobPosting{
		testPosting("Engineer", "https://jobs.uber.com/1", "k1"),
	}))
	require.NoError(t, s.Close())

	// reopen: existing rows must survive
	s2, err := openCSV(dir)
	require.NoError(t, err)
	defer s2.Close()

	seen, err := s2.LoadSeenKeys(ctx)
	require.NoError(t, err)
	assert.True(t, seen["k1"])
}

func TestCSVReplaceNewOverwrites(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := openCSV(dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ReplaceNew(ctx, []domain.JobPosting{
		testPosting("Engineer A", "https://jobs.uber.com/1", "k1"),
		testPosting("Engineer B", "https://jobs.uber.com/2", "k2"),
	}))
	recs := readCSV(t, filepath.Join(dir, newFile))
	require.Len(t, recs, 3)
	assert.Equal(t, "Engineer A", recs[1][2])
	assert.Equal(t, "k2", recs[2][6])

	// an empty run blanks the view down to the header row
	require.NoError(t, s.ReplaceNew(ctx, nil))
	recs = readCSV(t, filepath.Join(dir, newFile))
	require.Len(t, recs, 1)
	assert.Equal(t, newHeaders, recs[0])
}

func TestCSVAppendLedger(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := openCSV(dir)
	require.NoError(t, err)
	defer s.Close()

	// appending nothing is a no-op
	require.NoError(t, s.AppendLedger(ctx, nil))
	require.Len(t, readCSV(t, filepath.Join(dir, seenFile)), 1)

	require.NoError(t, s.AppendLedger(ctx, []domain.JobPosting{
		testPosting("Engineer A", "https://jobs.uber.com/1", "k1"),
	}))
	require.NoError(t, s.AppendLedger(ctx, []domain.JobPosting{
		testPosting("Engineer B", "https://jobs.uber.com/2", "k2"),
	}))

	recs := readCSV(t, filepath.Join(dir, seenFile))
	require.Len(t, recs, 3)
	assert.Equal(t, "k1", recs[1][0])
	assert.Equal(t, "k2", recs[2][0])

	seen, err := s.LoadSeenKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"k1": true, "k2": true}, seen)
}

func TestOpenPicksBackendFromDSN(t *testing.T) {
	assert.True(t, NeedsToken("postgres://db.example/jobwatch"))
	assert.True(t, NeedsToken("postgresql://db.example/jobwatch"))
	assert.False(t, NeedsToken(filepath.Join(t.TempDir(), "jobwatch.db")))
	assert.False(t, NeedsToken(t.TempDir()))

	st, err := Open(context.Background(), t.TempDir(), "")
	require.NoError(t, err)
	defer st.Close()
	_, ok := st.(*csvStore)
	assert.True(t, ok)
}
