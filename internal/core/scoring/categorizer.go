package scoring

import (
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// CategoryRule maps a set of keywords to a category.
type CategoryRule struct {
	Category string
	Keywords []string
}

// DefaultCategoryRules is the ordered category table. Earlier rules win
// when a query matches more than one.
var DefaultCategoryRules = []CategoryRule{
	{
		Category: "Technical",
		Keywords: []string{
			"api", "code", "software", "developer", "programming", "technical",
			"integration", "database", "server", "infrastructure", "framework",
			"sdk", "deploy", "architecture", "security",
		},
	},
	{
		Category: "Marketing",
		Keywords: []string{
			"marketing", "campaign", "advertising", "brand", "promotion",
			"social media", "email", "conversion", "lead", "funnel", "audience",
		},
	},
	{
		Category: "SEO",
		Keywords: []string{
			"seo", "search engine", "ranking", "keywords", "backlink", "serp",
			"organic", "meta description", "indexing",
		},
	},
	{
		Category: "Content",
		Keywords: []string{
			"content", "blog", "article", "writing", "copy", "video",
			"podcast", "editorial", "guide", "tutorial",
		},
	},
	{
		Category: "Business",
		Keywords: []string{
			"business", "pricing", "price", "cost", "revenue", "sales",
			"strategy", "customer", "roi", "enterprise", "startup",
		},
	},
	{
		Category: "Design",
		Keywords: []string{
			"design", "ux", "ui", "layout", "visual", "branding", "logo",
			"typography", "color", "responsive",
		},
	},
	{
		Category: "Analytics",
		Keywords: []string{
			"analytics", "metrics", "data", "tracking", "report", "dashboard",
			"kpi", "measurement", "insights", "statistics",
		},
	},
}

// Categorizer assigns queries to categories by keyword substring match.
type Categorizer struct {
	rules    []CategoryRule
	fallback string
}

// NewCategorizer creates a categorizer over an ordered rule table.
// A nil table uses DefaultCategoryRules.
func NewCategorizer(rules []CategoryRule) *Categorizer {
	if rules == nil {
		rules = DefaultCategoryRules
	}
	return &Categorizer{rules: rules, fallback: domain.CategoryGeneral}
}

// Categorize returns the first category whose keyword list has a substring
// in the lower-cased query, or "General".
func (c *Categorizer) Categorize(query string) string {
	q := strings.ToLower(query)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(q, kw) {
				return rule.Category
			}
		}
	}
	return c.fallback
}
