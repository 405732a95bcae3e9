package scrape

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"jobwatch-engine/internal/domain"
)

const keyLen = 24

// DeriveKey computes the posting's identity from its semantic fields.
// A field containing the delimiter could collide two distinct postings;
// accepted limitation, keys are dedup identifiers rather than proofs of
// uniqueness.
func DeriveKey(p domain.JobPosting) string {
	base := strings.Join([]string{p.Company, p.Title, p.Location, p.URL, p.Source}, "|")
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])[:keyLen]
}

// AttachKey derives the key only when one isn't set yet.
func AttachKey(p domain.JobPosting) domain.JobPosting {
	if p.Key == "" {
		p.Key = DeriveKey(p)
	}
	return p
}
