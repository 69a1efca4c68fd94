// Package firecrawl provides a scraper adapter for the Firecrawl API.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/normalisers/markdown"
)

// Ensure Scraper implements the interface.
var _ driven.Scraper = (*Scraper)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "https://api.firecrawl.dev"
	DefaultTimeout           = 60 * time.Second
	DefaultRequestsPerSecond = 1
)

// Config holds configuration for the Firecrawl scraper.
type Config struct {
	// APIKey is the Firecrawl API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.firecrawl.dev).
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond caps the request rate (default: 1).
	RequestsPerSecond float64
}

// Scraper fetches pages as markdown through Firecrawl.
type Scraper struct {
	client     *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	normaliser *markdown.Normaliser
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title         string `json:"title"`
			Description   string `json:"description"`
			OGTitle       string `json:"ogTitle"`
			OGDescription string `json:"ogDescription"`
			SourceURL     string `json:"sourceURL"`
			StatusCode    int    `json:"statusCode"`
		} `json:"metadata"`
	} `json:"data"`
}

// New creates a Firecrawl scraper.
func New(cfg Config) (*Scraper, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("firecrawl: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Scraper{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		normaliser: markdown.New(),
	}, nil
}

// Name identifies the scraper.
func (s *Scraper) Name() string {
	return "firecrawl"
}

// Scrape fetches pageURL through Firecrawl and normalises the markdown.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*domain.ScrapedDocument, error) {
	if _, err := domain.ValidatePageURL(pageURL); err != nil {
		return nil, &domain.ScrapeError{URL: pageURL, Err: err}
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &domain.ScrapeError{URL: pageURL, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	resp, err := s.scrape(ctx, pageURL)
	if err != nil {
		return nil, &domain.ScrapeError{URL: pageURL, Err: fmt.Errorf("firecrawl: %w", err)}
	}

	meta := resp.Data.Metadata
	title := meta.Title
	if title == "" {
		title = meta.OGTitle
	}
	description := meta.Description
	if description == "" {
		description = meta.OGDescription
	}

	doc := s.normaliser.Normalise(markdown.Page{
		URL:         pageURL,
		Title:       title,
		Description: description,
		Markdown:    resp.Data.Markdown,
	})
	if strings.TrimSpace(doc.BodyText) == "" {
		return nil, &domain.ScrapeError{URL: pageURL, Err: domain.ErrNoContent}
	}
	return doc, nil
}

func (s *Scraper) scrape(ctx context.Context, pageURL string) (*scrapeResponse, error) {
	jsonBody, err := json.Marshal(scrapeRequest{
		URL:             pageURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/scrape", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var out scrapeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !out.Success {
		if out.Error == "" {
			out.Error = "unsuccessful scrape"
		}
		return nil, fmt.Errorf("%s", out.Error)
	}
	return &out, nil
}
