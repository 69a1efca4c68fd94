// Package chain composes LLM services into an ordered fallback chain.
package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService tries each provider in order and returns the first success.
type LLMService struct {
	providers []driven.LLMService
}

// New creates a chain from providers. Nil entries are skipped.
func New(providers ...driven.LLMService) *LLMService {
	c := &LLMService{}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Len returns the number of providers in the chain.
func (c *LLMService) Len() int {
	return len(c.providers)
}

// Generate produces text from the first provider that succeeds.
func (c *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return c.try(ctx, func(p driven.LLMService) (string, error) {
		return p.Generate(ctx, prompt, opts)
	})
}

// Chat conducts a conversation with the first provider that succeeds.
func (c *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	return c.try(ctx, func(p driven.LLMService) (string, error) {
		return p.Chat(ctx, messages, opts)
	})
}

func (c *LLMService) try(ctx context.Context, call func(driven.LLMService) (string, error)) (string, error) {
	if len(c.providers) == 0 {
		return "", domain.ErrLLMUnavailable
	}

	var errs []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := call(p)
		if err == nil {
			return out, nil
		}
		logger.Debug("llm %s failed, trying next provider: %v", p.ModelName(), err)
		errs = append(errs, err)
	}
	return "", fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, errors.Join(errs...))
}

// ModelName lists the chained models.
func (c *LLMService) ModelName() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.ModelName()
	}
	return strings.Join(names, " -> ")
}

// Ping succeeds when any provider is reachable.
func (c *LLMService) Ping(ctx context.Context) error {
	if len(c.providers) == 0 {
		return domain.ErrLLMUnavailable
	}
	var errs []error
	for _, p := range c.providers {
		err := p.Ping(ctx)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close closes every provider.
func (c *LLMService) Close() error {
	var errs []error
	for _, p := range c.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
