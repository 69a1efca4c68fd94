package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

func TestCategorizer_DefaultRules(t *testing.T) {
	c := NewCategorizer(nil)

	tests := []struct {
		query    string
		expected string
	}{
		{"best SEO keyword ranking tool", "SEO"},
		{"REST API rate limits", "Technical"},
		{"email marketing automation", "Marketing"},
		{"how to write a blog post", "Content"},
		{"pricing plans for small teams", "Business"},
		{"responsive layout examples", "Design"},
		{"dashboard for conversion metrics", "Marketing"},
		{"weekly kpi dashboard", "Analytics"},
		{"what is the weather like", domain.CategoryGeneral},
		{"", domain.CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Categorize(tt.query))
		})
	}
}

func TestCategorizer_FirstRuleWins(t *testing.T) {
	c := NewCategorizer([]CategoryRule{
		{Category: "A", Keywords: []string{"shared"}},
		{Category: "B", Keywords: []string{"shared", "only-b"}},
	})

	assert.Equal(t, "A", c.Categorize("a shared word"))
	assert.Equal(t, "B", c.Categorize("ONLY-B here"))
	assert.Equal(t, domain.CategoryGeneral, c.Categorize("nothing"))
}

func TestCategorizer_Deterministic(t *testing.T) {
	c := NewCategorizer(nil)
	first := c.Categorize("SEO audit api")
	for i := 0; i < 10; i++ {
		c.Categorize("unrelated query")
		assert.Equal(t, first, c.Categorize("SEO audit api"))
	}
	assert.Equal(t, "Technical", first)
}

func TestCategorizer_EmptyTable(t *testing.T) {
	c := NewCategorizer([]CategoryRule{})
	assert.Equal(t, domain.CategoryGeneral, c.Categorize("seo"))
}
