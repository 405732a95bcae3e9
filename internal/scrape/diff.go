package scrape

import "jobwatch-engine/internal/domain"

// FilterNew returns the postings whose keys are absent from seen, in input
// order. Each accepted key is inserted into seen before the next posting is
// evaluated, so a batch containing the same logical posting twice yields one
// acceptance without a later dedupe pass. seen is mutated in place; the
// orchestrator relies on that to accumulate across sources within one run.
func FilterNew(postings []domain.JobPosting, seen map[string]bool) []domain.JobPosting {
	var out []domain.JobPosting
	for _, p := range postings {
		p = AttachKey(p)
		if seen[p.Key] {
			continue
		}
		seen[p.Key] = true
		out = append(out, p)
	}
	return out
}
