package scoring

import (
	"math"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// MaxScore is the top of the category score scale.
const MaxScore = 100

// AggregateCategoryScores groups matches by category. Each score is the
// mean similarity scaled to 0-100 and rounded. Categories appear in the
// order they are first seen in matches.
func AggregateCategoryScores(matches []domain.QueryMatch) []domain.CategoryScore {
	type acc struct {
		sum     float64
		matched int
		total   int
	}

	var order []string
	groups := make(map[string]*acc)
	for _, m := range matches {
		g, ok := groups[m.Category]
		if !ok {
			g = &acc{}
			groups[m.Category] = g
			order = append(order, m.Category)
		}
		g.sum += m.Similarity
		g.total++
		if m.Matched {
			g.matched++
		}
	}

	scores := make([]domain.CategoryScore, 0, len(order))
	for _, cat := range order {
		g := groups[cat]
		scores = append(scores, domain.CategoryScore{
			Category:       cat,
			Score:          toScore(g.sum / float64(g.total)),
			MaxScore:       MaxScore,
			MatchedQueries: g.matched,
			TotalQueries:   g.total,
		})
	}
	return scores
}

// OverallScore is the mean similarity of all matches scaled to 0-100.
func OverallScore(matches []domain.QueryMatch) int {
	if len(matches) == 0 {
		return 0
	}
	var sum float64
	for _, m := range matches {
		sum += m.Similarity
	}
	return toScore(sum / float64(len(matches)))
}

func toScore(mean float64) int {
	s := int(math.Round(mean * MaxScore))
	if s < 0 {
		return 0
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
