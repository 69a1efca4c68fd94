package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

const page = `<html><head><title>Acme Corp | Rockets</title>
<meta name="description" content="Reusable rockets"></head>
<body><nav>Home About</nav><h1>Acme Corp</h1><p>We build reusable rockets.</p>
<script>var x = 1;</script></body></html>`

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "agent/1", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	s := New(Config{UserAgent: "agent/1"})
	doc, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp | Rockets", doc.Title)
	assert.Equal(t, "Reusable rockets", doc.MetaDescription)
	assert.Contains(t, doc.BodyText, "We build reusable rockets.")
	assert.NotContains(t, doc.BodyText, "var x")
	assert.NotContains(t, doc.BodyText, "Home About")
}

func TestScrape_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(Config{}).Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Contains(t, err.Error(), "status 404")
}

func TestScrape_RejectsBinary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	_, err := New(Config{}).Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestScrape_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><script>x()</script></body></html>"))
	}))
	defer srv.Close()

	_, err := New(Config{}).Scrape(context.Background(), srv.URL)
	assert.ErrorIs(t, err, domain.ErrNoContent)
}

func TestScrape_InvalidURL(t *testing.T) {
	_, err := New(Config{}).Scrape(context.Background(), "not a url")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func serveAs(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrape_Markdown(t *testing.T) {
	srv := serveAs(t, "text/markdown; charset=utf-8", "# Rocket Guide\n\n## Fuel\n\nLiquid oxygen is common.\n")

	doc, err := New(Config{}).Scrape(context.Background(), srv.URL+"/guide.md")
	require.NoError(t, err)

	assert.Equal(t, "Rocket Guide", doc.Title)
	assert.Equal(t, []string{"Rocket Guide", "Fuel"}, doc.HeadingTexts())
	assert.Contains(t, doc.BodyText, "Liquid oxygen is common.")
}

func TestScrape_PlainText(t *testing.T) {
	srv := serveAs(t, "text/plain", "Acme Rockets\n\nWe   build reusable rockets.\n")

	doc, err := New(Config{}).Scrape(context.Background(), srv.URL+"/llms.txt")
	require.NoError(t, err)

	assert.Equal(t, "Acme Rockets", doc.Title)
	assert.Equal(t, "Acme Rockets\n\nWe build reusable rockets.", doc.BodyText)
}

func TestScrape_PlainTextLabelledHTML(t *testing.T) {
	srv := serveAs(t, "text/plain", "<!DOCTYPE html>"+page)

	doc, err := New(Config{}).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp | Rockets", doc.Title)
	assert.NotContains(t, doc.BodyText, "<h1>")
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, formatHTML, formatOf("application/xhtml+xml"))
	assert.Equal(t, formatMarkdown, formatOf("text/x-markdown"))
	assert.Equal(t, formatPlain, formatOf("text/plain"))
	assert.Equal(t, formatUnsupported, formatOf("image/png"))
}
