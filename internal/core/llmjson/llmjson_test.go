package llmjson

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

type topicReply struct {
	Entity     string  `json:"entity"`
	EntityType string  `json:"entityType"`
	Confidence float64 `json:"confidence"`
}

func TestParse_PlainJSON(t *testing.T) {
	r := Parse[topicReply](`{"entity":"Acme","entityType":"Organization","confidence":0.8}`)

	require.True(t, r.OK())
	assert.Equal(t, Parsed, r.Kind)
	assert.Equal(t, "Acme", r.Value.Entity)
	assert.InDelta(t, 0.8, r.Value.Confidence, 1e-9)
	assert.NoError(t, r.Err)
}

func TestParse_MarkdownFence(t *testing.T) {
	raw := "Here you go:\n```json\n{\"entity\": \"SEO audits\", \"entityType\": \"Service\"}\n```\nThanks"
	r := Parse[topicReply](raw)

	require.True(t, r.OK())
	assert.Equal(t, "SEO audits", r.Value.Entity)
	assert.Equal(t, raw, r.Raw)
}

func TestParse_BareFence(t *testing.T) {
	r := Parse[[]string]("```\n[\"a\", \"b\"]\n```")

	require.True(t, r.OK())
	assert.Equal(t, []string{"a", "b"}, r.Value)
}

func TestParse_EmbeddedInProse(t *testing.T) {
	r := Parse[topicReply](`The answer is {"entity": "Widgets {v2}", "confidence": 0.5} as requested.`)

	require.True(t, r.OK())
	assert.Equal(t, "Widgets {v2}", r.Value.Entity)
}

func TestParse_ArrayInProse(t *testing.T) {
	r := Parse[[]string](`Queries: ["seo tools", "rank tracking"] - enjoy`)

	require.True(t, r.OK())
	assert.Equal(t, []string{"seo tools", "rank tracking"}, r.Value)
}

func TestParse_Fallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose only", "I cannot help with that."},
		{"empty", "   "},
		{"truncated", `{"entity": "Acme", "confidence"`},
		{"wrong shape", `["not", "an", "object"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Parse[topicReply](tt.raw)

			assert.False(t, r.OK())
			assert.Equal(t, Fallback, r.Kind)
			assert.Equal(t, tt.raw, r.Raw)

			var parseErr *domain.ParseError
			require.True(t, errors.As(r.Err, &parseErr))
			assert.Equal(t, tt.raw, parseErr.Raw)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "parsed", Parsed.String())
	assert.Equal(t, "fallback", Fallback.String())
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "{}", StripFences("```json\n{}\n```"))
	assert.Equal(t, "no fences", StripFences("no fences"))
}
