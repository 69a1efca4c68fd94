package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/llmjson"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/core/prompts"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// NoGapsRecommendation is returned when the target has no coverage gaps.
const NoGapsRecommendation = "Coverage is on par with competitors."

const maxLLMRecommendations = 5

// Recommender writes free-text recommendations for an analysis.
type Recommender struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewRecommender creates a recommender. A nil llm uses the gap templates only.
func NewRecommender(llm driven.LLMService, store driven.PromptStore) *Recommender {
	return &Recommender{llm: llm, prompts: store}
}

// Recommend returns at least one recommendation. With gaps, the LLM is
// asked first; on any failure the per-gap recommendations are used,
// followed by a note on the weakest target category.
func (r *Recommender) Recommend(
	ctx context.Context,
	target string,
	score int,
	gaps []domain.CoverageGap,
	scores []domain.CategoryScore,
) []string {
	if len(gaps) == 0 {
		return []string{NoGapsRecommendation}
	}

	if r.llm != nil {
		recs, err := r.fromLLM(ctx, target, score, gaps)
		if err == nil && len(recs) > 0 {
			return recs
		}
		logger.Debug("LLM recommendations unavailable, using templates: %v", err)
	}

	recs := make([]string, 0, len(gaps)+1)
	for _, g := range gaps {
		recs = append(recs, fmt.Sprintf("%s (%s priority): %s", g.Category, g.Priority, g.Recommendation))
	}
	if weakest, ok := weakestCategory(scores); ok {
		recs = append(recs, fmt.Sprintf("Weakest category overall is %s at %d/100.", weakest.Category, weakest.Score))
	}
	return recs
}

func (r *Recommender) fromLLM(ctx context.Context, target string, score int, gaps []domain.CoverageGap) ([]string, error) {
	prompt, err := prompts.Load(r.prompts, driven.PromptRecommendations, prompts.RecommendationData{
		Target: target,
		Score:  score,
		Gaps:   gaps,
	})
	if err != nil {
		return nil, err
	}
	raw, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 800, Temperature: 0.4})
	if err != nil {
		return nil, err
	}
	res := llmjson.Parse[[]string](raw)
	if !res.OK() {
		return nil, res.Err
	}
	return dedupeLines(res.Value, maxLLMRecommendations), nil
}

// weakestCategory returns the lowest scoring category, earliest on ties.
func weakestCategory(scores []domain.CategoryScore) (domain.CategoryScore, bool) {
	if len(scores) == 0 {
		return domain.CategoryScore{}, false
	}
	weakest := scores[0]
	for _, s := range scores[1:] {
		if s.Score < weakest.Score {
			weakest = s
		}
	}
	return weakest, true
}
