// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	langchainembed "github.com/custodia-labs/topicgap/internal/adapters/driven/embedding/langchain"
	ollamaembed "github.com/custodia-labs/topicgap/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/topicgap/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/topicgap/internal/adapters/driven/llm/anthropic"
	chainllm "github.com/custodia-labs/topicgap/internal/adapters/driven/llm/chain"
	geminillm "github.com/custodia-labs/topicgap/internal/adapters/driven/llm/gemini"
	langchainllm "github.com/custodia-labs/topicgap/internal/adapters/driven/llm/langchain"
	ollamallm "github.com/custodia-labs/topicgap/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/topicgap/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService // Nil when no LLM is usable.
	Warnings         []string          // Non-fatal issues that disabled an LLM.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds the embedding service and the LLM fallback chain.
// The embedding service is required. LLM problems only produce warnings,
// since every LLM feature has a heuristic fallback.
func Initialise(settings *domain.AppSettings) (*InitResult, error) {
	embedding, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if embedding == nil {
		return nil, fmt.Errorf("%w: provider %q is not configured. Run 'topicgap settings set embedding.api_key <key>' to fix",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}

	llm, warnings := CreateLLMChain(&settings.LLM, &settings.FallbackLLM)
	for _, w := range warnings {
		logger.Warn("%s", w)
	}

	return &InitResult{
		EmbeddingService: embedding,
		LLMService:       llm,
		Warnings:         warnings,
	}, nil
}

// CreateLLMChain builds the primary and fallback LLMs as an ordered chain.
// Providers that are unconfigured or fail to build are skipped with a
// warning. Returns nil when neither is usable; a single usable provider is
// returned unwrapped.
func CreateLLMChain(primary, fallback *domain.LLMSettings) (driven.LLMService, []string) {
	var (
		providers []driven.LLMService
		warnings  []string
	)
	for _, settings := range []*domain.LLMSettings{primary, fallback} {
		if settings == nil || settings.Provider == domain.AIProviderNone || settings.Provider == "" {
			continue
		}
		svc, err := CreateLLMService(settings)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("LLM %s disabled: %v", settings.Provider, err))
			continue
		}
		if svc == nil {
			warnings = append(warnings, fmt.Sprintf("LLM %s disabled: not configured", settings.Provider))
			continue
		}
		providers = append(providers, svc)
	}

	switch len(providers) {
	case 0:
		return nil, warnings
	case 1:
		return providers[0], warnings
	default:
		return chainllm.New(providers...), warnings
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'topicgap settings' to review",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'topicgap settings' to review",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'topicgap settings' to review",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'topicgap settings' to review",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderLangChain:
		return createLangChainEmbedding(settings)

	case domain.AIProviderAnthropic, domain.AIProviderGemini:
		return nil, fmt.Errorf("%s does not support embeddings, use openai, ollama or langchain", settings.Provider)

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	case domain.AIProviderGemini:
		return createGeminiLLM(settings)

	case domain.AIProviderLangChain:
		return createLangChainLLM(settings)

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
}

func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
}

func createLangChainEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return langchainembed.NewEmbeddingService(langchainembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createGeminiLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return geminillm.NewLLMService(geminillm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createLangChainLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return langchainllm.NewLLMService(langchainllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
