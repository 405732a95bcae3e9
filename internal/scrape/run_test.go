package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
)

type fakeStore struct {
	seed         map[string]bool
	newView      []domain.JobPosting
	ledger       []domain.JobPosting
	replaceCalls int
	appendCalls  int
}

func (f *fakeStore) LoadSeenKeys(ctx context.Context) (map[string]bool, error) {
	seen := make(map[string]bool, len(f.seed))
	for k := range f.seed {
		seen[k] = true
	}
	return seen, nil
}

func (f *fakeStore) ReplaceNew(ctx context.Context, postings []domain.JobPosting) error {
	f.replaceCalls++
	f.newView = append([]domain.JobPosting(nil), postings...)
	return nil
}

func (f *fakeStore) AppendLedger(ctx context.Context, postings []domain.JobPosting) error {
	f.appendCalls++
	f.ledger = append(f.ledger, postings...)
	return nil
}

func (f *fakeStore) Close() error { return nil }

type fakeExtractor struct {
	name  string
	cands []domain.RawCandidate
	err   error
}

func (f *fakeExtractor) Name() string { return f.name }

func (f *fakeExtractor) Extract(ctx context.Context, src config.Source) ([]domain.RawCandidate, error) {
	return f.cands, f.err
}

func cand(source, title, url string) domain.RawCandidate {
	return domain.RawCandidate{Source: source, Company: "Co", Title: title, URL: url}
}

func twoSourceConfig() config.Config {
	return config.Config{Sources: []config.Source{
		{Name: "alpha", Company: "Co", URL: "https://a.example"},
		{Name: "beta", Company: "Co", URL: "https://b.example"},
	}}
}

func TestRunPreservesSourceThenExtractionOrder(t *testing.T) {
	st := &fakeStore{}
	reg := NewRegistry(
		&fakeExtractor{name: "alpha", cands: []domain.RawCandidate{
			cand("alpha", "p1", "https://a.example/1"),
			cand("alpha", "p2", "https://a.example/2"),
		}},
		&fakeExtractor{name: "beta", cands: []domain.RawCandidate{
			cand("beta", "p3", "https://b.example/3"),
		}},
	)

	res, err := Run(context.Background(), twoSourceConfig(), st, reg)

	require.NoError(t, err)
	require.Len(t, res.NewBatch, 3)
	assert.Equal(t, "p1", res.NewBatch[0].Title)
	assert.Equal(t, "p2", res.NewBatch[1].Title)
	assert.Equal(t, "p3", res.NewBatch[2].Title)
	assert.Equal(t, res.NewBatch, st.newView)
	assert.Equal(t, res.NewBatch, st.ledger)
}

func TestRunAbortsOnExtractorErrorWithoutWrites(t *testing.T) {
	st := &fakeStore{}
	reg := NewRegistry(
		&fakeExtractor{name: "alpha", cands: []domain.RawCandidate{
			cand("alpha", "p1", "https://a.example/1"),
		}},
		&fakeExtractor{name: "beta", err: errors.New("navigation timeout")},
	)

	_, err := Run(context.Background(), twoSourceConfig(), st, reg)

	require.Error(t, err)
	assert.Zero(t, st.replaceCalls)
	assert.Zero(t, st.appendCalls)
}

func TestRunUnknownSourceAborts(t *testing.T) {
	st := &fakeStore{}
	reg := NewRegistry()

	_, err := Run(context.Background(), config.Config{
		Sources: []config.Source{{Name: "mystery", Company: "Co", URL: "https://x"}},
	}, st, reg)

	require.Error(t, err)
	assert.Zero(t, st.replaceCalls)
}

func TestRunEmptyRunBlanksNewView(t *testing.T) {
	st := &fakeStore{
		newView: []domain.JobPosting{{Title: "stale from last run"}},
	}
	reg := NewRegistry(
		&fakeExtractor{name: "alpha"},
		&fakeExtractor{name: "beta"},
	)

	res, err := Run(context.Background(), twoSourceConfig(), st, reg)

	require.NoError(t, err)
	assert.Empty(t, res.NewBatch)
	assert.Equal(t, 1, st.replaceCalls)
	assert.Empty(t, st.newView)
	assert.Empty(t, st.ledger)
}

func TestRunSkipsAlreadySeenKeys(t *testing.T) {
	known := AttachKey(Normalize(cand("alpha", "p1", "https://a.example/1")))
	st := &fakeStore{seed: map[string]bool{known.Key: true}}
	reg := NewRegistry(&fakeExtractor{name: "alpha", cands: []domain.RawCandidate{
		cand("alpha", "p1", "https://a.example/1"),
		cand("alpha", "p2", "https://a.example/2"),
	}})

	res, err := Run(context.Background(), config.Config{
		Sources: []config.Source{{Name: "alpha", Company: "Co", URL: "https://a.example"}},
	}, st, reg)

	require.NoError(t, err)
	require.Len(t, res.NewBatch, 1)
	assert.Equal(t, "p2", res.NewBatch[0].Title)
}

func TestRunSharesSeenSetAcrossSources(t *testing.T) {
	same := cand("alpha", "p1", "https://a.example/1")
	st := &fakeStore{}
	reg := NewRegistry(
		&fakeExtractor{name: "alpha", cands: []domain.RawCandidate{same}},
		&fakeExtractor{name: "beta", cands: []domain.RawCandidate{same}},
	)

	res, err := Run(context.Background(), twoSourceConfig(), st, reg)

	require.NoError(t, err)
	assert.Len(t, res.NewBatch, 1)
	assert.Len(t, st.ledger, 1)
}

func TestRunCoversMailboxOnlyConfig(t *testing.T) {
	cfg, v := config.NormalizeAndValidate(config.Config{
		Email: config.Email{
			Enabled:  true,
			IMAPHost: "imap.gmail.com",
			IMAPPort: 993,
			Username: "me@example.com",
		},
	})
	require.True(t, v.OK(), "errors: %v", v.Errors)

	st := &fakeStore{}
	reg := NewRegistry(&fakeExtractor{name: "email", cands: []domain.RawCandidate{
		cand("email", "Backend Engineer", "https://www.linkedin.com/jobs/view/42"),
	}})

	res, err := Run(context.Background(), cfg, st, reg)

	require.NoError(t, err)
	require.Len(t, res.NewBatch, 1)
	assert.Equal(t, "Backend Engineer", res.NewBatch[0].Title)
	assert.Len(t, st.ledger, 1)
}

func TestRunEndToEndSingleCandidate(t *testing.T) {
	st := &fakeStore{}
	reg := NewRegistry(&fakeExtractor{name: "uber", cands: []domain.RawCandidate{{
		Source:   "uber",
		Company:  "Uber",
		Title:    "Software Engineer",
		Location: "Amsterdam, NL",
		URL:      "https://jobs.uber.com/123",
	}}})

	res, err := Run(context.Background(), config.Config{
		Sources: []config.Source{{Name: "uber", Company: "Uber", URL: "https://www.uber.com/careers"}},
	}, st, reg)

	require.NoError(t, err)
	require.Len(t, res.NewBatch, 1)

	got := res.NewBatch[0]
	assert.Equal(t, "uber", got.Source)
	assert.Equal(t, "Uber", got.Company)
	assert.Equal(t, "Software Engineer", got.Title)
	assert.Equal(t, "Amsterdam, NL", got.Location)
	assert.Equal(t, "https://jobs.uber.com/123", got.URL)
	assert.Len(t, got.Key, 24)
	assert.False(t, got.DetectedAt.IsZero())

	require.Len(t, st.ledger, 1)
	assert.Equal(t, got.Key, st.ledger[0].Key)
	assert.Equal(t, st.newView, st.ledger)
}
