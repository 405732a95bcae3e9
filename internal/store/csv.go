package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobwatch-engine/internal/domain"
)

// csvStore keeps the two collections as files with literal header rows in
// one directory, the shape the spreadsheet deployment used.
type csvStore struct {
	dir string
}

const (
	newFile  = "new_jobs.csv"
	seenFile = "seen_keys.csv"
)

var (
	newHeaders  = []string{"detected_at", "company", "title", "location", "url", "source", "key"}
	seenHeaders = []string{"key", "first_seen_at", "company", "title", "location", "url", "source"}
)

func openCSV(dir string) (*csvStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	s := &csvStore{dir: dir}
	if err := s.ensure(newFile, newHeaders); err != nil {
		return nil, err
	}
	if err := s.ensure(seenFile, seenHeaders); err != nil {
		return nil, err
	}
	return s, nil
}

// ensure writes the header row when the collection doesn't exist yet or is
// empty. A file with any content is treated as already initialized and never
// re-written.
func (s *csvStore) ensure(name string, headers []string) error {
	path := filepath.Join(s.dir, name)
	st, err := os.Stat(path)
	if err == nil && st.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("init %s: %w", name, err)
	}
	w := csv.NewWriter(f)
	_ = w.Write(headers)
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *csvStore) LoadSeenKeys(ctx context.Context) (map[string]bool, error) {
	f, err := os.Open(filepath.Join(s.dir, seenFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", seenFile, err)
	}

	seen := make(map[string]bool)
	for i, rec := range records {
		if i == 0 || len(rec) == 0 || rec[0] == "" {
			continue
		}
		seen[rec[0]] = true
	}
	return seen, nil
}

func (s *csvStore) ReplaceNew(ctx context.Context, postings []domain.JobPosting) error {
	path := filepath.Join(s.dir, newFile)

	tmp, err := os.CreateTemp(s.dir, newFile+".tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	_ = w.Write(newHeaders)
	for _, p := range postings {
		_ = w.Write([]string{
			p.DetectedAt.Format(time.RFC3339),
			p.Company, p.Title, p.Location, p.URL, p.Source, p.Key,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *csvStore) AppendLedger(ctx context.Context, postings []domain.JobPosting) error {
	if len(postings) == 0 {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(s.dir, seenFile), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	for _, p := range postings {
		_ = w.Write([]string{
			p.Key,
			p.DetectedAt.Format(time.RFC3339),
			p.Company, p.Title, p.Location, p.URL, p.Source,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *csvStore) Close() error { return nil }
