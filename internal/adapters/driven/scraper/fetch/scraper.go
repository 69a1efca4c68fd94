// Package fetch provides a scraper that downloads pages directly and
// extracts their content locally. HTML, Markdown and plain text
// responses are supported.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/normalisers/html"
	"github.com/custodia-labs/topicgap/internal/normalisers/markdown"
	"github.com/custodia-labs/topicgap/internal/normalisers/plaintext"
)

// Ensure Scraper implements the interface.
var _ driven.Scraper = (*Scraper)(nil)

// Default configuration values.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; topicgap/1.0)"
	DefaultMaxBytes  = 5 << 20
)

// Config holds configuration for the fetch scraper.
type Config struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds each request (default: 30s).
	Timeout time.Duration

	// MaxBytes caps the response body size (default: 5 MiB).
	MaxBytes int64
}

// Scraper fetches pages over HTTP.
type Scraper struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	html      *html.Normaliser
	markdown  *markdown.Normaliser
	plaintext *plaintext.Normaliser
}

// New creates a fetch scraper.
func New(cfg Config) *Scraper {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}

	return &Scraper{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		html:      html.New(),
		markdown:  markdown.New(),
		plaintext: plaintext.New(),
	}
}

// Name identifies the scraper.
func (s *Scraper) Name() string {
	return "fetch"
}

// Scrape downloads pageURL and extracts its content.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*domain.ScrapedDocument, error) {
	if _, err := domain.ValidatePageURL(pageURL); err != nil {
		return nil, &domain.ScrapeError{URL: pageURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, &domain.ScrapeError{URL: pageURL, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &domain.ScrapeError{URL: pageURL, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ScrapeError{URL: pageURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	format := formatHTML
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil {
			format = formatOf(mediaType)
		}
		if format == formatUnsupported {
			return nil, &domain.ScrapeError{URL: pageURL, Err: fmt.Errorf("unsupported content type %s", mediaType)}
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, &domain.ScrapeError{URL: pageURL, Err: fmt.Errorf("read response: %w", err)}
	}

	doc, err := s.normalise(format, pageURL, body)
	if err != nil {
		return nil, &domain.ScrapeError{URL: pageURL, Err: err}
	}
	if strings.TrimSpace(doc.BodyText) == "" {
		return nil, &domain.ScrapeError{URL: pageURL, Err: domain.ErrNoContent}
	}
	return doc, nil
}

type format int

const (
	formatUnsupported format = iota
	formatHTML
	formatMarkdown
	formatPlain
)

func formatOf(mediaType string) format {
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return formatHTML
	case "text/markdown", "text/x-markdown":
		return formatMarkdown
	case "text/plain":
		return formatPlain
	}
	return formatUnsupported
}

func (s *Scraper) normalise(f format, pageURL string, body []byte) (*domain.ScrapedDocument, error) {
	switch f {
	case formatMarkdown:
		return s.markdown.Normalise(markdown.Page{URL: pageURL, Markdown: string(body)}), nil
	case formatPlain:
		// Servers often label HTML as text/plain.
		if looksLikeHTML(body) {
			return s.html.Normalise(pageURL, body)
		}
		return s.plaintext.Normalise(pageURL, body), nil
	default:
		return s.html.Normalise(pageURL, body)
	}
}

func looksLikeHTML(body []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
