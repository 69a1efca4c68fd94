package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

func TestAggregateCategoryScores(t *testing.T) {
	matches := []domain.QueryMatch{
		{Query: "q1", Category: "SEO", Similarity: 0.9, Matched: true},
		{Query: "q2", Category: "Technical", Similarity: 0.4},
		{Query: "q3", Category: "SEO", Similarity: 0.5},
		{Query: "q4", Category: "Technical", Similarity: 0.8, Matched: true},
		{Query: "q5", Category: "SEO", Similarity: 0.72, Matched: true},
	}

	scores := AggregateCategoryScores(matches)
	require.Len(t, scores, 2)

	assert.Equal(t, domain.CategoryScore{
		Category: "SEO", Score: 71, MaxScore: 100, MatchedQueries: 2, TotalQueries: 3,
	}, scores[0])
	assert.Equal(t, domain.CategoryScore{
		Category: "Technical", Score: 60, MaxScore: 100, MatchedQueries: 1, TotalQueries: 2,
	}, scores[1])
}

func TestAggregateCategoryScores_Empty(t *testing.T) {
	assert.Empty(t, AggregateCategoryScores(nil))
}

func TestAggregateCategoryScores_MatchedSumsToTotalMatched(t *testing.T) {
	matches := []domain.QueryMatch{
		{Category: "A", Similarity: 0.8, Matched: true},
		{Category: "B", Similarity: 0.1},
		{Category: "A", Similarity: 0.9, Matched: true},
		{Category: "C", Similarity: 0.7, Matched: true},
		{Category: "B", Similarity: 0.95, Matched: true},
	}

	var matched, total int
	for _, s := range AggregateCategoryScores(matches) {
		assert.LessOrEqual(t, s.MatchedQueries, s.TotalQueries)
		matched += s.MatchedQueries
		total += s.TotalQueries
	}
	assert.Equal(t, 4, matched)
	assert.Equal(t, len(matches), total)
}

func TestAggregateCategoryScores_CategoriesComeFromMatches(t *testing.T) {
	scores := AggregateCategoryScores([]domain.QueryMatch{
		{Category: "Design", Similarity: 0.2},
	})
	require.Len(t, scores, 1)
	assert.Equal(t, "Design", scores[0].Category)
	assert.Equal(t, 20, scores[0].Score)
}

func TestOverallScore(t *testing.T) {
	assert.Equal(t, 0, OverallScore(nil))
	assert.Equal(t, 65, OverallScore([]domain.QueryMatch{
		{Similarity: 0.5}, {Similarity: 0.8},
	}))
	assert.Equal(t, 0, OverallScore([]domain.QueryMatch{{Similarity: -0.4}}))
}
