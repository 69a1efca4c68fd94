package topic

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// maxWholeWords bounds a whole source text used as a single candidate.
	maxWholeWords = 6

	minNgram = 2
	maxNgram = 5

	// bodyScanLimit bounds the body text scanned for n-gram candidates.
	bodyScanLimit = 5000
)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "how": true, "i": true, "in": true, "into": true, "is": true,
	"it": true, "its": true, "of": true, "on": true, "or": true, "our": true,
	"that": true, "the": true, "their": true, "this": true, "to": true,
	"was": true, "we": true, "what": true, "when": true, "where": true,
	"which": true, "who": true, "why": true, "will": true, "with": true,
	"you": true, "your": true, "can": true, "all": true, "more": true,
	"about": true, "us": true, "my": true, "not": true, "do": true,
}

// IsStopWord reports whether w (lower-case) is a common function word.
func IsStopWord(w string) bool {
	return stopWords[w]
}

var (
	titleSeparator = regexp.MustCompile(`\s+[-–—|:·•]\s+|\s*[|•·]\s*`)
	phraseBreak    = regexp.MustCompile(`[.,;:!?()\[\]{}"“”|/\\\n\r\t]+|\s[-–—]\s`)
)

// titleSegments splits a title on its separators ("Brand - Topic").
func titleSegments(title string) []string {
	var out []string
	for _, part := range titleSeparator.Split(title, -1) {
		if part = collapse(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// phrases splits text on punctuation into runs of words. Words keep their
// case with leading and trailing punctuation removed.
func phrases(text string) [][]string {
	var out [][]string
	for _, part := range phraseBreak.Split(text, -1) {
		var words []string
		for _, f := range strings.Fields(part) {
			if w := trimWord(f); w != "" {
				words = append(words, w)
			}
		}
		if len(words) > 0 {
			out = append(out, words)
		}
	}
	return out
}

func trimWord(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '&' && r != '+'
	})
}

func isCapitalised(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r)
}

// capitalisedRuns returns runs of two or more consecutive capitalised words.
func capitalisedRuns(text string) []string {
	var out []string
	for _, words := range phrases(text) {
		start := -1
		for i := 0; i <= len(words); i++ {
			if i < len(words) && isCapitalised(words[i]) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 && i-start >= 2 && i-start <= maxWholeWords {
				out = append(out, strings.Join(words[start:i], " "))
			}
			start = -1
		}
	}
	return out
}

// capitalisedNgrams returns 2 to 5 word n-grams that start with a
// capitalised word and neither start nor end with a stop word.
func capitalisedNgrams(text string) []string {
	var out []string
	for _, words := range phrases(text) {
		for i, first := range words {
			if !isCapitalised(first) || stopWords[strings.ToLower(first)] {
				continue
			}
			for n := minNgram; n <= maxNgram && i+n <= len(words); n++ {
				last := strings.ToLower(words[i+n-1])
				if stopWords[last] {
					continue
				}
				out = append(out, strings.Join(words[i:i+n], " "))
			}
		}
	}
	return out
}

// wholeText returns text as a candidate when it is short enough to be a name.
func wholeText(text string) []string {
	text = collapse(text)
	if text == "" || len(strings.Fields(text)) > maxWholeWords {
		return nil
	}
	return []string{text}
}

// urlCandidates returns the raw URL, the host's brand label and each path
// segment as words.
func urlCandidates(raw string) []string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil
	}
	out := []string{strings.TrimSpace(raw)}
	if label := hostLabel(u.Hostname()); label != "" {
		out = append(out, strings.Join(splitSlug(label), " "))
	}
	for _, seg := range strings.Split(u.Path, "/") {
		seg = strings.TrimSuffix(seg, pathExt(seg))
		words := splitSlug(seg)
		if len(words) == 0 || len(words) > maxWholeWords || isNumeric(seg) {
			continue
		}
		out = append(out, strings.Join(words, " "))
	}
	return out
}

func pathExt(seg string) string {
	if i := strings.LastIndexByte(seg, '.'); i > 0 {
		return seg[i:]
	}
	return ""
}

func splitSlug(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == '+' || r == '.' || unicode.IsSpace(r)
	})
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// secondLevel lists labels that sit between a brand and a country code,
// as in example.co.uk.
var secondLevel = map[string]bool{
	"co": true, "com": true, "org": true, "net": true, "ac": true, "gov": true, "edu": true,
}

// hostLabel returns the registrable label of host: "www.acme-corp.co.uk"
// gives "acme-corp".
func hostLabel(host string) string {
	labels := strings.Split(strings.TrimPrefix(strings.ToLower(host), "www."), ".")
	switch {
	case len(labels) == 1:
		return labels[0]
	case len(labels) >= 3 && secondLevel[labels[len(labels)-2]] && len(labels[len(labels)-1]) == 2:
		return labels[len(labels)-3]
	default:
		return labels[len(labels)-2]
	}
}

// BrandName derives a display name from a page URL's domain:
// https://acme-corp.com/ gives "Acme Corp".
func BrandName(pageURL string) string {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return titleCase(strings.Join(splitSlug(hostLabel(u.Hostname())), " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// squash lower-cases s and drops everything but letters and digits.
func squash(s string) string {
	return strings.Join(lowerWords(s), "")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// countPhrase counts whole-word occurrences of needle in haystack.
// Both must already be lower-case.
func countPhrase(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	count := 0
	for from := 0; ; {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return count
		}
		start := from + i
		end := start + len(needle)
		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			count++
		}
		from = start + 1
		if from >= len(haystack) {
			return count
		}
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Phrase is a recurring word sequence found by FrequentPhrases.
type Phrase struct {
	// Text is the phrase as first written in the source.
	Text string

	// Count is the number of occurrences, case-insensitive.
	Count int

	first int
}

// FrequentPhrases returns the most frequent 2 and 3 word phrases in text
// that contain no stop words, ranked by count then first occurrence.
// Phrases seen fewer than minCount times are dropped.
func FrequentPhrases(text string, minCount, limit int) []Phrase {
	counts := make(map[string]*Phrase)
	pos := 0
	for _, words := range phrases(text) {
		for i := range words {
			for n := 2; n <= 3 && i+n <= len(words); n++ {
				gram := words[i : i+n]
				if hasStopWord(gram) || hasShortWord(gram) {
					continue
				}
				key := strings.ToLower(strings.Join(gram, " "))
				if p, ok := counts[key]; ok {
					p.Count++
					continue
				}
				counts[key] = &Phrase{Text: strings.Join(gram, " "), Count: 1, first: pos}
				pos++
			}
		}
	}

	out := make([]Phrase, 0, len(counts))
	for _, p := range counts {
		if p.Count >= minCount {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].first < out[j].first
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func hasStopWord(words []string) bool {
	for _, w := range words {
		if stopWords[strings.ToLower(w)] {
			return true
		}
	}
	return false
}

func hasShortWord(words []string) bool {
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 || isNumeric(w) {
			return true
		}
	}
	return false
}
