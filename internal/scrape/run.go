package scrape

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/store"
)

// Result summarizes one run.
type Result struct {
	NewBatch   []domain.JobPosting
	Sources    int
	Candidates int
}

// Run executes one full detection pass: load the seen ledger once, walk the
// configured sources in order, and commit the accumulated batch.
//
// Sources are processed strictly one at a time; extraction order within a
// source plus configuration order across sources makes the NewBatch order
// reproducible. Any extractor error aborts the whole run before either store
// write, so a run fully commits its findings or leaves prior state untouched.
func Run(ctx context.Context, cfg config.Config, st store.Store, reg *Registry) (Result, error) {
	seen, err := st.LoadSeenKeys(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load seen keys: %w", err)
	}
	log.Printf("[run] loaded %d seen keys", len(seen))

	var res Result
	for _, src := range cfg.Sources {
		ex, err := reg.For(src.Name)
		if err != nil {
			return Result{}, err
		}

		cands, err := ex.Extract(ctx, src)
		if err != nil {
			return Result{}, fmt.Errorf("extract %s: %w", src.Name, err)
		}
		res.Sources++
		res.Candidates += len(cands)

		postings := make([]domain.JobPosting, 0, len(cands))
		for _, c := range cands {
			postings = append(postings, AttachKey(Normalize(c)))
		}

		accepted := FilterNew(postings, seen)
		log.Printf("[%s] candidates=%d new=%d", src.Name, len(cands), len(accepted))
		res.NewBatch = append(res.NewBatch, accepted...)
	}

	// The new view and the ledger are independent collections; commit both,
	// fail the run on the first error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := st.ReplaceNew(gctx, res.NewBatch); err != nil {
			return fmt.Errorf("replace new view: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := st.AppendLedger(gctx, res.NewBatch); err != nil {
			return fmt.Errorf("append ledger: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return res, nil
}
