// Package chain composes scrapers into an ordered fallback chain.
package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// Ensure Scraper implements the interface.
var _ driven.Scraper = (*Scraper)(nil)

// Scraper tries each scraper in order and returns the first document.
type Scraper struct {
	scrapers []driven.Scraper
}

// New creates a chain. Nil entries are skipped.
func New(scrapers ...driven.Scraper) *Scraper {
	c := &Scraper{}
	for _, s := range scrapers {
		if s != nil {
			c.scrapers = append(c.scrapers, s)
		}
	}
	return c
}

// Name lists the chained scrapers.
func (c *Scraper) Name() string {
	names := make([]string, len(c.scrapers))
	for i, s := range c.scrapers {
		names[i] = s.Name()
	}
	return strings.Join(names, " -> ")
}

// Scrape returns the first successful result. Invalid URLs are not retried.
func (c *Scraper) Scrape(ctx context.Context, pageURL string) (*domain.ScrapedDocument, error) {
	if len(c.scrapers) == 0 {
		return nil, &domain.ScrapeError{URL: pageURL, Err: domain.ErrScraperUnavailable}
	}
	if _, err := domain.ValidatePageURL(pageURL); err != nil {
		return nil, &domain.ScrapeError{URL: pageURL, Err: err}
	}

	var errs []error
	for _, s := range c.scrapers {
		if err := ctx.Err(); err != nil {
			return nil, &domain.ScrapeError{URL: pageURL, Err: err}
		}
		doc, err := s.Scrape(ctx, pageURL)
		if err == nil {
			return doc, nil
		}
		logger.Debug("scraper %s failed for %s: %v", s.Name(), pageURL, err)
		errs = append(errs, err)
	}
	return nil, &domain.ScrapeError{URL: pageURL, Err: fmt.Errorf("all scrapers failed: %w", errors.Join(errs...))}
}
