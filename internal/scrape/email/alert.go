package email

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/domain"
	"jobwatch-engine/internal/scrape/util"
)

var reJobID = regexp.MustCompile(`/jobs/view/(\d+)`)

// ParseAlertHTML walks the anchors of one alert mail and merges the ones
// pointing at the same job view into a single candidate. Alert templates
// wrap a job in several anchors (logo, title, footer link); the title anchor
// is usually the only one with useful text, so later anchors may fill fields
// earlier ones left empty.
func ParseAlertHTML(body string, src config.Source) ([]domain.RawCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	order := []string{}
	byID := map[string]*domain.RawCandidate{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		lh := strings.ToLower(href)
		if !strings.Contains(lh, "linkedin.com") || !strings.Contains(lh, "/jobs/view/") {
			return
		}

		jobURL := unwrapRedirect(href)
		id := jobURL
		if m := reJobID.FindStringSubmatch(jobURL); m != nil {
			id = m[1]
			jobURL = "https://www.linkedin.com/jobs/view/" + m[1]
		}

		c, ok := byID[id]
		if !ok {
			c = &domain.RawCandidate{
				Source:  src.Name,
				Company: src.Company,
				URL:     jobURL,
			}
			byID[id] = c
			order = append(order, id)
		}

		if t := util.CleanText(a.Text()); betterTitle(t, c.Title) {
			c.Title = t
		}

		// company and location usually sit in a "Company · Location" <p>
		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Parent()
		}
		card.Find("p").Each(func(_ int, p *goquery.Selection) {
			t := util.CleanText(p.Text())
			if t == "" || !strings.Contains(t, " · ") {
				return
			}
			if c.Location == "" {
				parts := strings.SplitN(t, " · ", 2)
				c.Company = strings.TrimSpace(parts[0])
				c.Location = strings.TrimSpace(parts[1])
			}
		})
	})

	out := make([]domain.RawCandidate, 0, len(order))
	for _, id := range order {
		c := byID[id]
		if c.Title == "" {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

// unwrapRedirect resolves tracking redirects of the form
// https://www.linkedin.com/comm/jobs/view/123?trk=... and url=-wrapped hops.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if inner := u.Query().Get("url"); inner != "" {
		if dec, err := url.QueryUnescape(inner); err == nil {
			return dec
		}
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func betterTitle(cand, cur string) bool {
	if cand == "" {
		return false
	}
	low := strings.ToLower(cand)
	if strings.Contains(low, "see all jobs") || strings.Contains(low, "view job") || low == "apply" {
		return false
	}
	return len(cand) > len(cur)
}
