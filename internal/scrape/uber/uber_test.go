package uber

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobwatch-engine/internal/config"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

var src = config.Source{Name: "uber", Company: "Uber", Location: "Amsterdam, NL"}

func TestParseKeepsUberJobAnchors(t *testing.T) {
	d := doc(t, `
<html><body>
  <a href="https://jobs.uber.com/123">Software Engineer</a>
  <a href="https://www.uber.com/nl/en/careers/teams/engineering/">Engineering careers</a>
  <a href="https://www.uber.com/nl/en/ride/">Request a ride now</a>
</body></html>`)

	cands := Parse(d, src)

	require.Len(t, cands, 2)
	assert.Equal(t, "Software Engineer", cands[0].Title)
	assert.Equal(t, "https://jobs.uber.com/123", cands[0].URL)
	assert.Equal(t, "Amsterdam, NL", cands[0].Location)
	assert.Equal(t, "uber", cands[0].Source)
}

func TestParseTitleLengthCountsRunes(t *testing.T) {
	// "Devé!" is 5 runes but 6 bytes; byte length must not let it through
	d := doc(t, `
<html><body>
  <a href="https://jobs.uber.com/1">Devé!</a>
  <a href="https://jobs.uber.com/2">Devéql</a>
</body></html>`)

	cands := Parse(d, src)

	require.Len(t, cands, 1)
	assert.Equal(t, "Devéql", cands[0].Title)
}

func TestParseIgnoresCareersOffUberDomain(t *testing.T) {
	d := doc(t, `<html><body><a href="https://example.com/careers/1">Careers elsewhere</a></body></html>`)

	assert.Empty(t, Parse(d, src))
}
