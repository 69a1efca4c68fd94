package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority_Rank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, 0, Priority("urgent").Rank())
	assert.Equal(t, "high", PriorityHigh.String())
}

func TestCompetitorResult_ScoreFor(t *testing.T) {
	c := CompetitorResult{
		URL: "https://a.example",
		CategoryScores: []CategoryScore{
			{Category: "SEO", Score: 70},
		},
	}

	score, ok := c.ScoreFor("SEO")
	assert.True(t, ok)
	assert.Equal(t, 70, score)

	_, ok = c.ScoreFor("Design")
	assert.False(t, ok)
}

func TestAnalysisResult_Summary(t *testing.T) {
	done := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := AnalysisResult{
		ID:          "abc",
		TargetURL:   "https://target.example",
		TargetScore: 61,
		Competitors: []CompetitorResult{{}, {}},
		Gaps:        []CoverageGap{{Category: "SEO"}},
		CompletedAt: done,
	}

	s := r.Summary()
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, 61, s.TargetScore)
	assert.Equal(t, 2, s.CompetitorCount)
	assert.Equal(t, 1, s.GapCount)
	assert.Equal(t, done, s.CompletedAt)
}

func TestScrapedDocument_HeadingTexts(t *testing.T) {
	doc := ScrapedDocument{Headings: []Heading{
		{Level: 1, Text: "Intro"},
		{Level: 2, Text: ""},
		{Level: 2, Text: "Pricing"},
	}}
	assert.Equal(t, []string{"Intro", "Pricing"}, doc.HeadingTexts())
}

func TestParseEntityType(t *testing.T) {
	assert.Equal(t, EntityOrganization, ParseEntityType("organization"))
	assert.Equal(t, EntityService, ParseEntityType(" Service "))
	assert.Equal(t, EntityConcept, ParseEntityType("thing"))
	assert.Equal(t, EntityConcept, ParseEntityType(""))
}

func TestTopicSource_IsStructural(t *testing.T) {
	assert.True(t, SourceTitle.IsStructural())
	assert.True(t, SourceMeta.IsStructural())
	assert.True(t, SourceHeading.IsStructural())
	assert.False(t, SourceURL.IsStructural())
	assert.False(t, SourceBody.IsStructural())
}

func TestPrimaryTopic_SearchPhrase(t *testing.T) {
	topic := PrimaryTopic{Entity: "Acme Corp"}
	assert.Equal(t, "Acme Corp", topic.SearchPhrase())

	topic.CombinedTopic = "Marketing for Dentists"
	assert.Equal(t, "Marketing for Dentists", topic.SearchPhrase())
}

func TestValidatePageURL(t *testing.T) {
	u, err := ValidatePageURL(" https://example.com/page ")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)

	for _, raw := range []string{"ftp://example.com", "example.com", "https://", "::"} {
		_, err := ValidatePageURL(raw)
		assert.ErrorIs(t, err, ErrInvalidInput, raw)
	}
}
