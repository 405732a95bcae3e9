package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jobwatch-engine/internal/domain"
)

func TestNormalizeTrimsFields(t *testing.T) {
	p := Normalize(domain.RawCandidate{
		Source:   "uber",
		Company:  "Uber",
		Title:    "  Software Engineer \n",
		Location: " Amsterdam, NL ",
		URL:      " https://jobs.uber.com/123 ",
	})

	assert.Equal(t, "Software Engineer", p.Title)
	assert.Equal(t, "Amsterdam, NL", p.Location)
	assert.Equal(t, "https://jobs.uber.com/123", p.URL)
	assert.Equal(t, "uber", p.Source)
	assert.Empty(t, p.Key)
}

func TestNormalizeToleratesEmptyFields(t *testing.T) {
	p := Normalize(domain.RawCandidate{Source: "uber", Company: "Uber"})

	assert.Equal(t, "", p.Title)
	assert.Equal(t, "", p.Location)
	assert.Equal(t, "", p.URL)
}

func TestNormalizeStampsUTC(t *testing.T) {
	before := time.Now().UTC()
	p := Normalize(domain.RawCandidate{Source: "uber", Company: "Uber"})
	after := time.Now().UTC()

	assert.Equal(t, time.UTC, p.DetectedAt.Location())
	assert.False(t, p.DetectedAt.Before(before))
	assert.False(t, p.DetectedAt.After(after))
}
