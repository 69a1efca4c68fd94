// Package serpapi provides a web search adapter for SerpAPI's Google engine.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.SearchProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "https://serpapi.com"
	DefaultEngine            = "google"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 1
	DefaultLimit             = 10

	// MaxLimit is the largest page SerpAPI returns for Google.
	MaxLimit = 100
)

// Config holds configuration for the SerpAPI provider.
type Config struct {
	// APIKey is the SerpAPI key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://serpapi.com).
	BaseURL string

	// Engine is the search engine (default: google).
	Engine string

	// Country and Language are passed as gl and hl when set.
	Country  string
	Language string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond caps the request rate (default: 1).
	RequestsPerSecond float64
}

// Provider runs searches through SerpAPI.
type Provider struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	engine  string
	gl, hl  string
}

type searchResponse struct {
	Error          string `json:"error,omitempty"`
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
	} `json:"organic_results"`
}

// New creates a SerpAPI provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("serpapi: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Engine == "" {
		cfg.Engine = DefaultEngine
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Provider{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		engine:  cfg.Engine,
		gl:      cfg.Country,
		hl:      cfg.Language,
	}, nil
}

// Search returns up to limit organic results for query. Results without
// a link are skipped. A non-positive limit uses DefaultLimit.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, p.fail(fmt.Errorf("rate limit wait: %w", err))
	}

	resp, err := p.search(ctx, query, limit)
	if err != nil {
		return nil, p.fail(err)
	}

	hits := make([]domain.SearchHit, 0, len(resp.OrganicResults))
	for i, r := range resp.OrganicResults {
		if r.Link == "" {
			continue
		}
		pos := r.Position
		if pos <= 0 {
			pos = i + 1
		}
		hits = append(hits, domain.SearchHit{
			Position: pos,
			Title:    r.Title,
			URL:      r.Link,
			Snippet:  r.Snippet,
		})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

func (p *Provider) search(ctx context.Context, query string, limit int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("engine", p.engine)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))
	params.Set("api_key", p.apiKey)
	if p.gl != "" {
		params.Set("gl", p.gl)
	}
	if p.hl != "" {
		params.Set("hl", p.hl)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out searchResponse
	if jsonErr := json.Unmarshal(body, &out); jsonErr == nil && out.Error != "" {
		return nil, fmt.Errorf("%s", out.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// Ping checks the key with SerpAPI's account endpoint.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/account.json?api_key="+url.QueryEscape(p.apiKey), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return p.failOp("ping", fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return p.failOp("ping", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

func (p *Provider) fail(err error) error {
	return p.failOp("search", err)
}

func (p *Provider) failOp(op string, err error) error {
	return &domain.ProviderError{Provider: "serpapi", Op: op, Err: err}
}
