package plaintext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestNormaliser() *Normaliser {
	n := New()
	n.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return n
}

func TestNormalise_FirstLineTitle(t *testing.T) {
	doc := newTestNormaliser().Normalise("https://example.com/llms.txt",
		[]byte("Acme CRM\r\n\r\n\r\nAcme   CRM helps   small teams.\nIt syncs email.\n"))

	assert.Equal(t, "https://example.com/llms.txt", doc.URL)
	assert.Equal(t, "Acme CRM", doc.Title)
	assert.Equal(t, "Acme CRM\n\nAcme CRM helps small teams.\nIt syncs email.", doc.BodyText)
	assert.Equal(t, 2025, doc.ExtractedAt.Year())
}

func TestNormalise_LongFirstLineUsesURL(t *testing.T) {
	long := make([]byte, maxTitleLen+1)
	for i := range long {
		long[i] = 'a'
	}

	doc := newTestNormaliser().Normalise("https://example.com/docs/getting-started.txt", long)

	assert.Equal(t, "getting-started", doc.Title)
}

func TestNormalise_Empty(t *testing.T) {
	doc := newTestNormaliser().Normalise("https://example.com/", []byte(" \n\t\n"))

	assert.Equal(t, "example.com", doc.Title)
	assert.Empty(t, doc.BodyText)
}
