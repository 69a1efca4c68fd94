package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// DefaultMaxCompetitors caps discovered competitors when no limit is configured.
const DefaultMaxCompetitors = 3

// CompetitorFinder discovers competitor pages through web search.
type CompetitorFinder struct {
	search driven.SearchProvider
	limit  int
}

// NewCompetitorFinder creates a finder returning at most limit URLs.
func NewCompetitorFinder(search driven.SearchProvider, limit int) *CompetitorFinder {
	if limit <= 0 {
		limit = DefaultMaxCompetitors
	}
	return &CompetitorFinder{search: search, limit: limit}
}

// Find searches for the topic's phrase and returns result URLs that are
// not on the target's host, in rank order.
func (f *CompetitorFinder) Find(ctx context.Context, targetURL string, pt *domain.PrimaryTopic) ([]string, error) {
	if f.search == nil {
		return nil, domain.ErrSearchUnavailable
	}
	if pt == nil || strings.TrimSpace(pt.SearchPhrase()) == "" {
		return nil, fmt.Errorf("%w: no topic to search for", domain.ErrInvalidInput)
	}

	target := hostOf(targetURL)
	query := pt.SearchPhrase()
	logger.Debug("Discovering competitors for %q", query)

	// Over-fetch: some hits are on the target's own site.
	hits, err := f.search.Search(ctx, query, f.limit*3+1)
	if err != nil {
		return nil, fmt.Errorf("discover competitors: %w", err)
	}

	seen := map[string]bool{}
	var urls []string
	for _, h := range hits {
		host := hostOf(h.URL)
		if host == "" || host == target || seen[host] {
			continue
		}
		if _, err := domain.ValidatePageURL(h.URL); err != nil {
			continue
		}
		seen[host] = true
		urls = append(urls, h.URL)
		if len(urls) == f.limit {
			break
		}
	}
	logger.Info("Discovered %d competitors", len(urls))
	return urls, nil
}

// hostOf returns the lower-cased host of raw without a leading "www.".
func hostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
