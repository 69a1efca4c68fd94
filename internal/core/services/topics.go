package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/core/ports/driving"
	"github.com/custodia-labs/topicgap/internal/core/topic"
)

// Ensure TopicService implements the interface.
var _ driving.TopicService = (*TopicService)(nil)

// TopicService detects the primary topic of a single page.
type TopicService struct {
	scraper  driven.Scraper
	detector *topic.Detector
}

// NewTopicService creates a topic service. The llm is optional.
func NewTopicService(scraper driven.Scraper, llm driven.LLMService, prompts driven.PromptStore) *TopicService {
	return &TopicService{
		scraper:  scraper,
		detector: topic.NewDetector(topic.Config{LLM: llm, Prompts: prompts}),
	}
}

// DetectTopic scrapes url and returns its primary topic.
func (s *TopicService) DetectTopic(ctx context.Context, url string) (*domain.PrimaryTopic, error) {
	if _, err := domain.ValidatePageURL(url); err != nil {
		return nil, err
	}
	if s.scraper == nil {
		return nil, domain.ErrScraperUnavailable
	}

	doc, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("scrape: %w", err)
	}
	return s.detector.DetectSafe(ctx, doc), nil
}
