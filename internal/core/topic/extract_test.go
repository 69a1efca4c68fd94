package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleSegments(t *testing.T) {
	tests := []struct {
		title string
		want  []string
	}{
		{"Acme Corp - Digital Marketing Agency", []string{"Acme Corp", "Digital Marketing Agency"}},
		{"Pricing | Acme", []string{"Pricing", "Acme"}},
		{"Guides • Tips · Tricks", []string{"Guides", "Tips", "Tricks"}},
		{"Well-known Tools", []string{"Well-known Tools"}},
		{"  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, titleSegments(tt.title))
		})
	}
}

func TestCapitalisedRuns(t *testing.T) {
	got := capitalisedRuns("We met Jane Smith at the Google Developer Summit, then left.")
	assert.Equal(t, []string{"Jane Smith", "Google Developer Summit"}, got)
}

func TestCapitalisedNgrams(t *testing.T) {
	got := capitalisedNgrams("Digital Marketing for small firms")
	assert.Equal(t, []string{
		"Digital Marketing",
		"Digital Marketing for small",
		"Digital Marketing for small firms",
		"Marketing for small",
		"Marketing for small firms",
	}, got)
}

func TestCapitalisedNgrams_SkipsStopWordStart(t *testing.T) {
	assert.Empty(t, capitalisedNgrams("The"))
	got := capitalisedNgrams("The Best Tools")
	assert.NotContains(t, got, "The Best")
	assert.Contains(t, got, "Best Tools")
}

func TestWholeText(t *testing.T) {
	assert.Equal(t, []string{"Short Meta Line"}, wholeText("  Short   Meta Line "))
	assert.Nil(t, wholeText("one two three four five six seven"))
	assert.Nil(t, wholeText(""))
}

func TestURLCandidates(t *testing.T) {
	got := urlCandidates("https://www.acme-corp.com/services/seo-audit/2024/")
	assert.Equal(t, []string{
		"https://www.acme-corp.com/services/seo-audit/2024/",
		"acme corp",
		"services",
		"seo audit",
	}, got)

	assert.Nil(t, urlCandidates("not a url"))
}

func TestHostLabel(t *testing.T) {
	assert.Equal(t, "acmecorp", hostLabel("acmecorp.com"))
	assert.Equal(t, "acme-corp", hostLabel("www.acme-corp.co.uk"))
	assert.Equal(t, "blog", hostLabel("blog.example"))
	assert.Equal(t, "localhost", hostLabel("localhost"))
}

func TestBrandName(t *testing.T) {
	assert.Equal(t, "Acme Corp", BrandName("https://acme-corp.com/"))
	assert.Equal(t, "Acme Corp", BrandName("https://www.acme-corp.co.uk/about"))
	assert.Equal(t, "Acmecorp", BrandName("https://acmecorp.com/"))
	assert.Equal(t, "", BrandName("no host"))
}

func TestCountPhrase(t *testing.T) {
	body := "seo tools. the best seo tools, seotools and seo toolset"
	assert.Equal(t, 2, countPhrase(body, "seo tools"))
	assert.Equal(t, 0, countPhrase(body, ""))
	assert.Equal(t, 1, countPhrase("abc", "abc"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 10))
}

func TestFrequentPhrases(t *testing.T) {
	text := "Content Marketing helps. Content marketing works. " +
		"Email Campaigns and content marketing. Email Campaigns again."

	got := FrequentPhrases(text, 2, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Content Marketing", got[0].Text)
	assert.Equal(t, 3, got[0].Count)
	assert.Equal(t, "Email Campaigns", got[1].Text)
	assert.Equal(t, 2, got[1].Count)
}

func TestFrequentPhrases_Limit(t *testing.T) {
	text := "alpha beta. alpha beta. gamma delta. gamma delta."
	got := FrequentPhrases(text, 1, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "alpha beta", got[0].Text)
}

func TestFrequentPhrases_SkipsStopWords(t *testing.T) {
	got := FrequentPhrases("of the of the of the", 1, 0)
	assert.Empty(t, got)
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.False(t, IsStopWord("marketing"))
}
