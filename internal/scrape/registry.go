package scrape

import (
	"fmt"

	"jobwatch-engine/internal/scrape/types"
)

// Registry maps source descriptor names to extraction strategies. The
// orchestrator looks strategies up here instead of branching on site names
// inline.
type Registry struct {
	m map[string]types.Extractor
}

func NewRegistry(extractors ...types.Extractor) *Registry {
	r := &Registry{m: make(map[string]types.Extractor, len(extractors))}
	for _, ex := range extractors {
		r.m[ex.Name()] = ex
	}
	return r
}

func (r *Registry) Register(ex types.Extractor) {
	r.m[ex.Name()] = ex
}

func (r *Registry) For(name string) (types.Extractor, error) {
	ex, ok := r.m[name]
	if !ok {
		return nil, fmt.Errorf("no extractor registered for source %q", name)
	}
	return ex, nil
}
