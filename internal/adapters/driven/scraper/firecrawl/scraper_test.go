package firecrawl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))

		var req scrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://example.com", req.URL)
		assert.Equal(t, []string{"markdown"}, req.Formats)
		assert.True(t, req.OnlyMainContent)

		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Acme\n\nWe build rockets.","metadata":{"ogTitle":"Acme Rockets","description":"Rockets for all"}}}`))
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "fc-key", BaseURL: srv.URL, RequestsPerSecond: 100})
	require.NoError(t, err)
	assert.Equal(t, "firecrawl", s.Name())

	doc, err := s.Scrape(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme Rockets", doc.Title)
	assert.Equal(t, "Rockets for all", doc.MetaDescription)
	assert.Contains(t, doc.BodyText, "We build rockets.")
	require.Len(t, doc.Headings, 1)
	assert.Equal(t, "Acme", doc.Headings[0].Text)
}

func TestScrape_Unsuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"blocked"}`))
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "k", BaseURL: srv.URL, RequestsPerSecond: 100})
	require.NoError(t, err)

	_, err = s.Scrape(context.Background(), "https://example.com")
	var scrapeErr *domain.ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, "https://example.com", scrapeErr.URL)
	assert.Contains(t, err.Error(), "blocked")
}

func TestScrape_InvalidURL(t *testing.T) {
	s, err := New(Config{APIKey: "k"})
	require.NoError(t, err)

	_, err = s.Scrape(context.Background(), "mailto:someone@example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScrape_EmptyMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"","metadata":{}}}`))
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "k", BaseURL: srv.URL, RequestsPerSecond: 100})
	require.NoError(t, err)

	_, err = s.Scrape(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, domain.ErrNoContent)
}
