package render

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobwatch-engine/internal/config"
)

type HTTPRenderer struct {
	hc      *http.Client
	limiter *hostLimiter
	ua      string
}

func NewHTTP(f config.Fetch) *HTTPRenderer {
	return &HTTPRenderer{
		hc:      &http.Client{Timeout: time.Duration(f.TimeoutSeconds) * time.Second},
		limiter: newHostLimiter(f.ReqPerSec, f.Burst),
		ua:      f.UserAgent,
	}
}

func (r *HTTPRenderer) Render(ctx context.Context, src config.Source) (*goquery.Document, error) {
	if err := r.limiter.wait(ctx, src.URL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", src.Name, err)
	}
	req.Header.Set("User-Agent", r.ua)

	res, err := r.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: get %s: %w", src.Name, src.URL, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: status %d for %s", src.Name, res.StatusCode, src.URL)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", src.Name, err)
	}
	return doc, nil
}

func (r *HTTPRenderer) Close() error { return nil }
