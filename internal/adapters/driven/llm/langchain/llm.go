// Package langchain provides an LLM service adapter backed by langchaingo,
// for OpenAI-compatible servers such as OpenRouter.
package langchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// Config holds configuration for the langchaingo LLM service.
type Config struct {
	// APIKey is the bearer token (required). A "Bearer " prefix is tolerated.
	APIKey string

	// BaseURL is the OpenAI-compatible API base URL.
	BaseURL string

	// Model is the chat model name.
	Model string
}

// LLMService provides completions through a langchaingo model.
type LLMService struct {
	model llms.Model
	name  string
}

// NewLLMService creates a new langchaingo LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("langchain: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.APIKey, "Bearer ")),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("langchain: create client: %w", err)
	}
	return NewWithModel(llm, cfg.Model), nil
}

// NewWithModel wraps an existing langchaingo model.
func NewWithModel(model llms.Model, name string) *LLMService {
	return &LLMService{model: model, name: name}
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	callOpts := callOptions(opts.MaxTokens, opts.Temperature)
	if len(opts.StopWords) > 0 {
		callOpts = append(callOpts, llms.WithStopWords(opts.StopWords))
	}
	return s.generate(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, callOpts)
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(messageType(msg.Role), msg.Content))
	}
	return s.generate(ctx, content, callOptions(opts.MaxTokens, opts.Temperature))
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "assistant":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func callOptions(maxTokens int, temperature float64) []llms.CallOption {
	var opts []llms.CallOption
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}
	if temperature > 0 {
		opts = append(opts, llms.WithTemperature(temperature))
	}
	return opts
}

func (s *LLMService) generate(ctx context.Context, content []llms.MessageContent, opts []llms.CallOption) (string, error) {
	resp, err := s.model.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", &domain.ProviderError{Provider: "langchain", Op: "generate", Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &domain.ProviderError{Provider: "langchain", Op: "generate", Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Content, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.name
}

// Ping runs a minimal completion.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.Generate(ctx, "ping", driven.GenerateOptions{MaxTokens: 1}); err != nil {
		return fmt.Errorf("langchain: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
