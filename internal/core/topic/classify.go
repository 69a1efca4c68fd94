package topic

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// EntityRule maps keywords to an entity type. Keywords match whole words
// (or whole word sequences) case-insensitively.
type EntityRule struct {
	Type     domain.EntityType
	Keywords []string
}

// DefaultEntityRules is the ordered entity table. Earlier rules win.
var DefaultEntityRules = []EntityRule{
	{
		Type: domain.EntityOrganization,
		Keywords: []string{
			"inc", "corp", "corporation", "llc", "ltd", "limited", "gmbh", "plc",
			"company", "agency", "group", "foundation", "institute", "university",
			"association", "studio", "studios", "labs", "partners", "firm",
			"bank", "college", "society", "organisation", "organization",
		},
	},
	{
		Type: domain.EntityEvent,
		Keywords: []string{
			"conference", "summit", "festival", "webinar", "meetup", "expo",
			"workshop", "awards", "hackathon", "championship", "tournament", "launch event",
		},
	},
	{
		Type: domain.EntityLocation,
		Keywords: []string{
			"city", "town", "county", "province", "region", "island", "beach",
			"park", "street", "district", "valley", "mountain", "river", "airport",
		},
	},
	{
		Type: domain.EntityPerson,
		Keywords: []string{
			"dr", "mr", "mrs", "ms", "prof", "professor", "sir", "dame",
			"ceo", "founder", "author",
		},
	},
	{
		Type: domain.EntityProduct,
		Keywords: []string{
			"app", "software", "platform", "tool", "tools", "plugin", "extension",
			"device", "phone", "laptop", "kit", "edition", "suite", "sdk", "api",
		},
	},
	{
		Type: domain.EntityService,
		Keywords: []string{
			"service", "services", "consulting", "consultancy", "marketing", "seo",
			"design", "development", "hosting", "repair", "cleaning", "management",
			"support", "training", "coaching", "advertising", "accounting", "outsourcing",
		},
	},
}

// Classifier assigns an entity type from an ordered rule table.
type Classifier struct {
	rules []EntityRule
}

// NewClassifier creates a classifier. A nil table uses DefaultEntityRules.
func NewClassifier(rules []EntityRule) *Classifier {
	if rules == nil {
		rules = DefaultEntityRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the type of the first matching rule, or EntityConcept.
func (c *Classifier) Classify(text string) domain.EntityType {
	padded := " " + strings.Join(lowerWords(text), " ") + " "
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(padded, " "+kw+" ") {
				return rule.Type
			}
		}
	}
	return domain.EntityConcept
}

// lowerWords splits text into lower-cased words of letters and digits.
func lowerWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
