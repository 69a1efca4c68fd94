package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

type fakeScraper struct {
	name  string
	doc   *domain.ScrapedDocument
	err   error
	calls int
}

func (f *fakeScraper) Name() string { return f.name }

func (f *fakeScraper) Scrape(_ context.Context, _ string) (*domain.ScrapedDocument, error) {
	f.calls++
	return f.doc, f.err
}

func TestScrape_FallsBack(t *testing.T) {
	primary := &fakeScraper{name: "firecrawl", err: errors.New("quota exceeded")}
	fallback := &fakeScraper{name: "fetch", doc: &domain.ScrapedDocument{Title: "ok"}}

	c := New(primary, nil, fallback)
	assert.Equal(t, "firecrawl -> fetch", c.Name())

	doc, err := c.Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Title)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestScrape_PrimaryWins(t *testing.T) {
	primary := &fakeScraper{name: "a", doc: &domain.ScrapedDocument{Title: "a"}}
	fallback := &fakeScraper{name: "b"}

	doc, err := New(primary, fallback).Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Title)
	assert.Equal(t, 0, fallback.calls)
}

func TestScrape_AllFail(t *testing.T) {
	c := New(&fakeScraper{name: "a", err: errors.New("x")}, &fakeScraper{name: "b", err: errors.New("y")})

	_, err := c.Scrape(context.Background(), "https://example.com")
	var scrapeErr *domain.ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Contains(t, err.Error(), "all scrapers failed")
}

func TestScrape_InvalidURLNotRetried(t *testing.T) {
	a := &fakeScraper{name: "a"}
	_, err := New(a).Scrape(context.Background(), "ftp://example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, a.calls)
}

func TestScrape_Empty(t *testing.T) {
	_, err := New().Scrape(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, domain.ErrScraperUnavailable)
}
