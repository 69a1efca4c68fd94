package html

import (
	"bytes"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// Normaliser converts HTML pages to scraped documents.
type Normaliser struct {
	now func() time.Time
}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{now: time.Now}
}

// Normalise parses an HTML page fetched from pageURL.
func (n *Normaliser) Normalise(pageURL string, content []byte) (*domain.ScrapedDocument, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	p := &page{}
	p.walk(root)

	title := p.title
	if title == "" {
		title = p.ogTitle
	}
	if title == "" {
		title = titleFromURL(pageURL)
	}

	meta := p.description
	if meta == "" {
		meta = p.ogDescription
	}

	return &domain.ScrapedDocument{
		URL:             pageURL,
		Title:           collapse(title),
		BodyText:        Clean(p.body.String()),
		MetaDescription: collapse(meta),
		Headings:        p.headings,
		ExtractedAt:     n.now(),
	}, nil
}

// Elements whose content is never body text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Form:     true,
}

// Elements that end a paragraph in the extracted text.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Li: true, atom.Tr: true, atom.Blockquote: true, atom.Pre: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Main: true, atom.Header: true, atom.Aside: true, atom.Dd: true, atom.Dt: true,
}

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

type page struct {
	title         string
	ogTitle       string
	description   string
	ogDescription string
	headings      []domain.Heading
	body          strings.Builder
}

func (p *page) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch {
		case n.DataAtom == atom.Title:
			if p.title == "" {
				p.title = textOf(n)
			}
			return
		case n.DataAtom == atom.Meta:
			p.meta(n)
			return
		case n.DataAtom == atom.Head:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				p.walk(c)
			}
			return
		case skipped[n.DataAtom]:
			return
		}

		if level, ok := headingLevels[n.DataAtom]; ok {
			if text := collapse(textOf(n)); text != "" {
				p.headings = append(p.headings, domain.Heading{Level: level, Text: text})
			}
		}
	}

	if n.Type == html.TextNode {
		p.body.WriteString(n.Data)
		return
	}

	isBlock := n.Type == html.ElementNode && blocks[n.DataAtom]
	if isBlock {
		p.body.WriteString("\n\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
	if isBlock {
		p.body.WriteString("\n\n")
	}
}

func (p *page) meta(n *html.Node) {
	var name, property, content string
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "name":
			name = strings.ToLower(a.Val)
		case "property":
			property = strings.ToLower(a.Val)
		case "content":
			content = a.Val
		}
	}
	switch {
	case name == "description" && p.description == "":
		p.description = content
	case property == "og:description" && p.ogDescription == "":
		p.ogDescription = content
	case property == "og:title" && p.ogTitle == "":
		p.ogTitle = content
	}
}

// textOf returns the concatenated text beneath n, skipping non-content elements.
func textOf(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.TrimSpace(b.String())
}

var (
	multiSpaces   = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Clean collapses runs of spaces, trims each line and keeps at most one
// blank line between paragraphs.
func Clean(content string) string {
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")

	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleFromURL derives a title from the last path segment, or the host.
func titleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "." || base == "/" || base == "" {
		return u.Hostname()
	}
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return base
}
