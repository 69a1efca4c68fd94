package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// Templates are rendered with text/template.
const (
	// PromptPrimaryTopic asks for the page's primary entity as a JSON object.
	// Fields: .Title, .Meta, .Headings, .URL, .Body.
	PromptPrimaryTopic = "primary_topic"

	// PromptQueryGeneration asks for a JSON array of search queries.
	// Fields: .Title, .Topic, .Headings, .Body, .Count.
	PromptQueryGeneration = "query_generation"

	// PromptRecommendations asks for a JSON array of recommendations.
	// Fields: .Target, .Score, .Gaps.
	PromptRecommendations = "recommendations"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
