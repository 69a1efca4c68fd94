// Package plaintext turns text/plain pages into ScrapedDocuments.
package plaintext

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// maxTitleLen bounds a first line used as the title.
const maxTitleLen = 120

// Normaliser converts plain text to scraped documents.
type Normaliser struct {
	now func() time.Time
}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{now: time.Now}
}

// Normalise keeps the text with whitespace tidied. A short first line
// becomes the title; otherwise the title comes from the URL.
func (n *Normaliser) Normalise(pageURL string, content []byte) *domain.ScrapedDocument {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")

	var kept []string
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(kept) > 0
			continue
		}
		if blank {
			kept = append(kept, "")
			blank = false
		}
		kept = append(kept, line)
	}

	title := ""
	if len(kept) > 0 && len(kept[0]) <= maxTitleLen {
		title = kept[0]
	}
	if title == "" {
		title = titleFromURL(pageURL)
	}

	return &domain.ScrapedDocument{
		URL:         pageURL,
		Title:       title,
		BodyText:    strings.Join(kept, "\n"),
		ExtractedAt: n.now(),
	}
}

func titleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "." || base == "/" || base == "" {
		return u.Hostname()
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
