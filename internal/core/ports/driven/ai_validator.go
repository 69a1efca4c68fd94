package driven

import "github.com/custodia-labs/topicgap/internal/core/domain"

// AIConfigValidator checks provider settings before they are saved.
type AIConfigValidator interface {
	// ValidateEmbedding pings the configured embedding provider.
	// An unset provider is not an error.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM pings the configured LLM provider. The "none"
	// provider and an unset provider always pass.
	ValidateLLM(config *domain.LLMSettings) error
}
