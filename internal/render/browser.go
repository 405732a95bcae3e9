package render

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"jobwatch-engine/internal/config"
)

// BrowserRenderer drives one headless Chromium page. The browser launches
// lazily on first use so runs whose sources are all plain-HTTP never pay the
// startup cost. Runs are sequential, so a single shared page is enough.
type BrowserRenderer struct {
	mu      sync.Mutex
	ua      string
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
	page    playwright.Page
}

func NewBrowser(f config.Fetch) *BrowserRenderer {
	return &BrowserRenderer{ua: f.UserAgent}
}

func (r *BrowserRenderer) ensure() error {
	if r.page != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("launch chromium: %w", err)
	}
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(r.ua),
		Locale:    playwright.String("en-US"),
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("new browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("new page: %w", err)
	}

	r.pw, r.browser, r.bctx, r.page = pw, browser, bctx, page
	return nil
}

func (r *BrowserRenderer) Render(ctx context.Context, src config.Source) (*goquery.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensure(); err != nil {
		return nil, err
	}

	if _, err := r.page.Goto(src.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(60000),
	}); err != nil {
		return nil, fmt.Errorf("%s: goto %s: %w", src.Name, src.URL, err)
	}
	// let late script-driven inserts settle
	r.page.WaitForTimeout(1500)

	html, err := r.page.Content()
	if err != nil {
		return nil, fmt.Errorf("%s: page content: %w", src.Name, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%s: parse html: %w", src.Name, err)
	}
	return doc, nil
}

func (r *BrowserRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pw == nil {
		return nil
	}
	if r.bctx != nil {
		_ = r.bctx.Close()
	}
	if r.browser != nil {
		_ = r.browser.Close()
	}
	err := r.pw.Stop()
	r.pw, r.browser, r.bctx, r.page = nil, nil, nil, nil
	return err
}
