package scrape

import (
	"strings"
	"time"

	"jobwatch-engine/internal/domain"
)

// Normalize converts a raw candidate into the canonical posting shape, key
// unset. DetectedAt is stamped at call time, so records normalized later in
// the same run carry slightly later timestamps; the field is informational
// only and never feeds key derivation.
func Normalize(c domain.RawCandidate) domain.JobPosting {
	return domain.JobPosting{
		DetectedAt: time.Now().UTC(),
		Source:     c.Source,
		Company:    c.Company,
		Title:      strings.TrimSpace(c.Title),
		Location:   strings.TrimSpace(c.Location),
		URL:        strings.TrimSpace(c.URL),
	}
}
