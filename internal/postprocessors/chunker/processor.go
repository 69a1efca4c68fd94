// Package chunker splits document text into bounded chunks for embedding.
// Paragraphs are kept whole when they fit; longer paragraphs are split
// on sentence boundaries and greedily packed.
package chunker

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultMinChunkSize is the length below which chunks are dropped as noise.
const DefaultMinChunkSize = 50

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	sentence       = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)
)

// Processor splits document content into paragraph and sentence chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	minSize   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithMinSize sets the minimum chunk size in characters.
func WithMinSize(size int) Option {
	return func(p *Processor) {
		if size >= 0 {
			p.minSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		minSize:   DefaultMinChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.minSize > p.chunkSize {
		p.minSize = p.chunkSize
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document body into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.ScrapedDocument, _ []domain.ContentChunk) ([]domain.ContentChunk, error) {
	texts := p.Split(doc.BodyText)
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.ContentChunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.ContentChunk{Index: i, Content: text}
	}
	return chunks, nil
}

// Split returns the ordered chunk texts of text. It never fails;
// empty input yields no chunks.
func (p *Processor) Split(text string) []string {
	var chunks []string
	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if runeLen(para) <= p.chunkSize {
			chunks = append(chunks, para)
			continue
		}
		chunks = append(chunks, p.pack(para)...)
	}

	kept := chunks[:0]
	for _, c := range chunks {
		if runeLen(c) >= p.minSize {
			kept = append(kept, c)
		}
	}
	return kept
}

// pack greedily joins the sentences of an oversized paragraph.
func (p *Processor) pack(para string) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, s := range p.sentences(para) {
		n := runeLen(s)
		if currentLen > 0 && currentLen+1+n > p.chunkSize {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(s)
		currentLen += n
	}
	flush()

	return chunks
}

// sentences splits on . ! ? and breaks any sentence longer than the
// chunk size at word boundaries.
func (p *Processor) sentences(para string) []string {
	var out []string
	for _, s := range sentence.FindAllString(para, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if runeLen(s) <= p.chunkSize {
			out = append(out, s)
			continue
		}
		out = append(out, splitWords(s, p.chunkSize)...)
	}
	return out
}

func splitWords(s string, size int) []string {
	var out []string
	var current []string
	currentLen := 0

	for _, w := range strings.Fields(s) {
		for runeLen(w) > size {
			if currentLen > 0 {
				out = append(out, strings.Join(current, " "))
				current, currentLen = nil, 0
			}
			r := []rune(w)
			out = append(out, string(r[:size]))
			w = string(r[size:])
		}
		if w == "" {
			continue
		}
		n := runeLen(w)
		if currentLen > 0 && currentLen+1+n > size {
			out = append(out, strings.Join(current, " "))
			current, currentLen = nil, 0
		}
		if currentLen > 0 {
			currentLen++
		}
		current = append(current, w)
		currentLen += n
	}
	if currentLen > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
