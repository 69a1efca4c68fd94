// Package normalisers holds the converters that turn fetched page content
// into domain.ScrapedDocument values. Each subpackage handles one format:
// html for raw pages, markdown for Firecrawl output and raw .md files, and
// plaintext for text/plain responses.
package normalisers
