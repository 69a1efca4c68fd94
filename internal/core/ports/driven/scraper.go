package driven

import (
	"context"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// Scraper fetches a page and extracts its structured content.
//
// Implementations may include:
//   - Firecrawl (hosted scraping API, markdown output)
//   - Raw HTML fetch
//   - An ordered fallback chain of the above
type Scraper interface {
	// Name identifies the scraper in logs.
	Name() string

	// Scrape fetches url. Failures are reported as *domain.ScrapeError.
	Scrape(ctx context.Context, url string) (*domain.ScrapedDocument, error)
}
