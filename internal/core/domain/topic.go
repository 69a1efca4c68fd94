package domain

import "strings"

// EntityType classifies a detected entity.
type EntityType string

// Known entity types.
const (
	EntityPerson       EntityType = "Person"
	EntityOrganization EntityType = "Organization"
	EntityProduct      EntityType = "Product"
	EntityLocation     EntityType = "Location"
	EntityConcept      EntityType = "Concept"
	EntityEvent        EntityType = "Event"
	EntityService      EntityType = "Service"
)

// ParseEntityType maps a loosely formatted type name onto a known type.
// Unknown names map to EntityConcept.
func ParseEntityType(s string) EntityType {
	for _, t := range AllEntityTypes() {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t
		}
	}
	return EntityConcept
}

// AllEntityTypes returns every known entity type.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityPerson,
		EntityOrganization,
		EntityProduct,
		EntityLocation,
		EntityConcept,
		EntityEvent,
		EntityService,
	}
}

// TopicSource is the page element a topic was found in.
type TopicSource string

// Topic sources, in descending order of weight.
const (
	SourceTitle   TopicSource = "title"
	SourceMeta    TopicSource = "meta"
	SourceHeading TopicSource = "heading"
	SourceURL     TopicSource = "url"
	SourceBody    TopicSource = "body"
)

// IsStructural reports whether the source is title, meta or heading.
func (s TopicSource) IsStructural() bool {
	return s == SourceTitle || s == SourceMeta || s == SourceHeading
}

// PrimaryTopic is the dominant subject of a page.
type PrimaryTopic struct {
	Entity        string      `json:"entity"`
	Confidence    float64     `json:"confidence"`
	EntityType    EntityType  `json:"entity_type"`
	Source        TopicSource `json:"source"`
	SubEntities   []string    `json:"sub_entities"`
	CombinedTopic string      `json:"combined_topic,omitempty"`
}

// SearchPhrase returns the most descriptive phrase for the topic.
func (t *PrimaryTopic) SearchPhrase() string {
	if t.CombinedTopic != "" {
		return t.CombinedTopic
	}
	return t.Entity
}
