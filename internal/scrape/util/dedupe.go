package util

import "jobwatch-engine/internal/domain"

// DedupeByURL collapses candidates sharing a URL. Position follows the first
// occurrence of a URL; content follows the last write for it, matching the
// extractor contract (no stronger tie-break is defined). Candidates without
// a URL are dropped.
func DedupeByURL(in []domain.RawCandidate) []domain.RawCandidate {
	idx := make(map[string]int, len(in))
	var out []domain.RawCandidate
	for _, c := range in {
		if c.URL == "" {
			continue
		}
		if i, ok := idx[c.URL]; ok {
			out[i] = c
			continue
		}
		idx[c.URL] = len(out)
		out = append(out, c)
	}
	return out
}
