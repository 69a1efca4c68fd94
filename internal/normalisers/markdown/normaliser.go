// Package markdown turns scraper markdown output into ScrapedDocuments.
// The markdown is parsed with goldmark; headings are collected and the
// remaining prose is flattened to paragraphs of plain text.
package markdown

import (
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// Normaliser converts markdown to scraped documents.
type Normaliser struct {
	md  goldmark.Markdown
	now func() time.Time
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{
		md:  goldmark.New(),
		now: time.Now,
	}
}

// Page carries the metadata a scraper returns alongside the markdown.
type Page struct {
	URL         string
	Title       string
	Description string
	Markdown    string
}

// Normalise parses the page markdown. When the page has no title the
// first level-1 heading is used.
func (n *Normaliser) Normalise(page Page) *domain.ScrapedDocument {
	src := []byte(page.Markdown)
	root := n.md.Parser().Parse(text.NewReader(src))

	var headings []domain.Heading
	var paragraphs []string

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := node.(type) {
		case *ast.Heading:
			t := inlineText(node, src)
			if t != "" {
				headings = append(headings, domain.Heading{Level: node.Level, Text: t})
				paragraphs = append(paragraphs, t)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			if t := inlineText(node, src); t != "" {
				paragraphs = append(paragraphs, t)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	title := strings.TrimSpace(page.Title)
	if title == "" {
		for _, h := range headings {
			if h.Level == 1 {
				title = h.Text
				break
			}
		}
	}

	return &domain.ScrapedDocument{
		URL:             page.URL,
		Title:           title,
		BodyText:        strings.Join(paragraphs, "\n\n"),
		MetaDescription: strings.TrimSpace(page.Description),
		Headings:        headings,
		ExtractedAt:     n.now(),
	}
}

// inlineText flattens the inline content beneath node.
func inlineText(node ast.Node, src []byte) string {
	var b strings.Builder
	var visit func(ast.Node)
	visit = func(n ast.Node) {
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
			return
		case *ast.String:
			b.Write(n.Value)
			return
		case *ast.AutoLink:
			b.Write(n.Label(src))
			return
		case *ast.Image:
			return
		case *ast.RawHTML:
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			visit(c)
		}
	}
	visit(node)
	return strings.Join(strings.Fields(b.String()), " ")
}
