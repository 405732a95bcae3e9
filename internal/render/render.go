// Package render fetches a source's entry page and hands extractors a parsed
// document. Two backends: a plain rate-limited HTTP client for server-rendered
// boards, and a headless Chromium via Playwright for boards that only paint
// their listings from script.
package render

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"jobwatch-engine/internal/config"
)

type Renderer interface {
	Render(ctx context.Context, src config.Source) (*goquery.Document, error)
	Close() error
}

// Switch routes each source to the backend its descriptor asks for.
type Switch struct {
	http    *HTTPRenderer
	browser *BrowserRenderer
}

func NewSwitch(f config.Fetch) *Switch {
	return &Switch{
		http:    NewHTTP(f),
		browser: NewBrowser(f),
	}
}

func (s *Switch) Render(ctx context.Context, src config.Source) (*goquery.Document, error) {
	if src.Render == "browser" {
		return s.browser.Render(ctx, src)
	}
	return s.http.Render(ctx, src)
}

func (s *Switch) Close() error {
	err := s.http.Close()
	if berr := s.browser.Close(); berr != nil && err == nil {
		err = berr
	}
	return err
}
