package types

import (
	"context"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
)

// Extractor turns one configured source into raw posting candidates.
// Implementations must be deterministic for identical page content and must
// dedupe their own output by URL before returning.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, src config.Source) ([]domain.RawCandidate, error)
}
