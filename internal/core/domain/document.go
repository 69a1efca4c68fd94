package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Heading is a section heading extracted from a page.
type Heading struct {
	// Level is the heading depth (1 for h1 through 6 for h6).
	Level int `json:"level"`

	// Text is the heading text with markup removed.
	Text string `json:"text"`
}

// ScrapedDocument is a page as produced by a scraper.
// It is treated as read-only by every downstream component.
type ScrapedDocument struct {
	// URL is the address the document was fetched from.
	URL string `json:"url"`

	// Title is the page title.
	Title string `json:"title"`

	// BodyText is the visible text of the page.
	BodyText string `json:"body_text"`

	// MetaDescription is the page's meta description, if any.
	MetaDescription string `json:"meta_description,omitempty"`

	// Headings are the page headings in document order.
	Headings []Heading `json:"headings,omitempty"`

	// ExtractedAt is when the scraper produced the document.
	ExtractedAt time.Time `json:"extracted_at"`
}

// HeadingTexts returns the text of every heading in document order.
func (d *ScrapedDocument) HeadingTexts() []string {
	texts := make([]string, 0, len(d.Headings))
	for _, h := range d.Headings {
		if h.Text != "" {
			texts = append(texts, h.Text)
		}
	}
	return texts
}

// ContentChunk is a contiguous, trimmed part of a document's body text.
// Chunks are derived per analysis run and never persisted.
type ContentChunk struct {
	// Index is the chunk's position in the chunk sequence.
	Index int

	// Content is the chunk text.
	Content string
}

// EmbeddingVector is an embedding tagged with its source text and model.
type EmbeddingVector struct {
	// Values is the embedding itself.
	Values []float32

	// Model is the embedding model that produced the vector.
	Model string

	// Source is the (possibly truncated) text that was embedded.
	Source string
}

// Dimensions returns the vector length.
func (v EmbeddingVector) Dimensions() int {
	return len(v.Values)
}

// SearchHit is a single organic result returned by a web search provider.
type SearchHit struct {
	// Position is the 1-based rank in the result page.
	Position int `json:"position"`

	// Title is the result title.
	Title string `json:"title"`

	// URL is the result link.
	URL string `json:"url"`

	// Snippet is the result summary text.
	Snippet string `json:"snippet,omitempty"`
}

// ValidatePageURL checks that raw is an absolute http or https URL with a host.
// Failures wrap ErrInvalidInput.
func ValidatePageURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidInput, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidInput, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q: missing host", ErrInvalidInput, raw)
	}
	return u, nil
}
