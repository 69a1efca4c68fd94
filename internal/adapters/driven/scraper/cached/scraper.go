// Package cached decorates a scraper with a read-through cache.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// Ensure Scraper implements the interface.
var _ driven.Scraper = (*Scraper)(nil)

// Scraper serves documents from a cache before calling the wrapped scraper.
type Scraper struct {
	next  driven.Scraper
	cache driven.Cache
	ttl   time.Duration
}

// New wraps next with cache. A zero ttl uses the cache default.
func New(next driven.Scraper, cache driven.Cache, ttl time.Duration) *Scraper {
	return &Scraper{next: next, cache: cache, ttl: ttl}
}

// Key returns the cache key for pageURL.
func Key(pageURL string) string {
	sum := sha256.Sum256([]byte(pageURL))
	return "scrape:" + hex.EncodeToString(sum[:])
}

// Name reports the wrapped scraper's name.
func (s *Scraper) Name() string {
	return s.next.Name()
}

// Scrape returns a cached document or scrapes and caches it.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*domain.ScrapedDocument, error) {
	key := Key(pageURL)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var doc domain.ScrapedDocument
		if err := json.Unmarshal(raw, &doc); err == nil {
			logger.Debug("scrape cache hit: %s", pageURL)
			return &doc, nil
		}
		logger.Debug("scrape cache: discarding malformed entry for %s", pageURL)
	}

	doc, err := s.next.Scrape(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(doc)
	if err == nil {
		err = s.cache.Set(ctx, key, raw, s.ttl)
	}
	if err != nil {
		logger.Debug("scrape cache: store %s: %v", pageURL, err)
	}
	return doc, nil
}
