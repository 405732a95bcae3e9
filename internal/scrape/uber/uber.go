package uber

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/render"
	"jobwatch-engine/internal/scrape/util"
)

type Extractor struct {
	r render.Renderer
}

func New(r render.Renderer) *Extractor { return &Extractor{r: r} }

func (e *Extractor) Name() string { return "uber" }

func (e *Extractor) Extract(ctx context.Context, src config.Source) ([]domain.RawCandidate, error) {
	doc, err := e.r.Render(ctx, src)
	if err != nil {
		return nil, err
	}
	return Parse(doc, src), nil
}

// Parse keeps anchors pointing at jobs.uber.com, or at uber.com career pages.
// Hrefs on this board are always absolute.
func Parse(doc *goquery.Document, src config.Source) []domain.RawCandidate {
	var cands []domain.RawCandidate
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		text := util.CleanText(a.Text())
		if href == "" || utf8.RuneCountInString(text) < 6 {
			return
		}
		if !strings.Contains(href, "jobs.uber.com") &&
			!(strings.Contains(href, "/careers/") && strings.Contains(href, "uber.com")) {
			return
		}

		cands = append(cands, domain.RawCandidate{
			Source:   src.Name,
			Company:  src.Company,
			Title:    text,
			Location: src.Location,
			URL:      href,
		})
	})
	return util.DedupeByURL(cands)
}
