package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/topicgap/internal/core/domain"
)

type fakeScraper struct {
	calls int
	err   error
}

func (f *fakeScraper) Name() string { return "fake" }

func (f *fakeScraper) Scrape(_ context.Context, pageURL string) (*domain.ScrapedDocument, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ScrapedDocument{
		URL:      pageURL,
		Title:    "Title",
		BodyText: "Body",
		Headings: []domain.Heading{{Level: 1, Text: "Title"}},
	}, nil
}

func TestScrape_CachesDocuments(t *testing.T) {
	cache := memory.New(memory.Config{TTL: time.Minute})
	next := &fakeScraper{}
	s := New(next, cache, 0)

	first, err := s.Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)
	second, err := s.Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Headings, second.Headings)
	assert.Equal(t, "fake", s.Name())
}

func TestScrape_ErrorsNotCached(t *testing.T) {
	cache := memory.New(memory.Config{})
	next := &fakeScraper{err: errors.New("down")}
	s := New(next, cache, 0)

	_, err := s.Scrape(context.Background(), "https://example.com")
	require.Error(t, err)
	_, ok := cache.Get(context.Background(), Key("https://example.com"))
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("https://a.com"), Key("https://a.com"))
	assert.NotEqual(t, Key("https://a.com"), Key("https://b.com"))
	assert.Regexp(t, `^scrape:[0-9a-f]{64}$`, Key("https://a.com"))
}
