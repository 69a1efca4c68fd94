// Package llmjson parses JSON out of free-text LLM completions.
//
// Models wrap JSON in markdown fences or surround it with prose. Parse
// strips fences, tries a direct decode, then falls back to the first
// balanced object or array in the text. The outcome is a tagged Result
// so callers never infer success from an error alone.
package llmjson

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// Kind tags a parse outcome.
type Kind int

const (
	// Fallback means no JSON value could be decoded; Raw holds the text.
	Fallback Kind = iota

	// Parsed means Value holds the decoded JSON.
	Parsed
)

// String returns the string representation.
func (k Kind) String() string {
	if k == Parsed {
		return "parsed"
	}
	return "fallback"
}

// Result is either a parsed value or the raw text that failed to parse.
type Result[T any] struct {
	Kind  Kind
	Value T
	Raw   string

	// Err is a *domain.ParseError when Kind is Fallback.
	Err error
}

// OK reports whether the result holds a parsed value.
func (r Result[T]) OK() bool {
	return r.Kind == Parsed
}

var (
	fencePattern  = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
	greedyPattern = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)
)

// Parse decodes a T from an LLM completion.
func Parse[T any](raw string) Result[T] {
	text := strings.TrimSpace(StripFences(raw))

	var v T
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		return Result[T]{Kind: Parsed, Value: v, Raw: raw}
	}

	candidates := embeddedJSON(text)
	if m := greedyPattern.FindString(text); m != "" {
		candidates = append(candidates, m)
	}
	for _, candidate := range candidates {
		var w T
		if json.Unmarshal([]byte(candidate), &w) == nil {
			return Result[T]{Kind: Parsed, Value: w, Raw: raw}
		}
	}

	if text == "" {
		err = errors.New("empty response")
	}
	return Result[T]{Kind: Fallback, Raw: raw, Err: &domain.ParseError{Raw: raw, Err: err}}
}

// StripFences returns the contents of the first markdown code fence,
// or the input unchanged when there is none.
func StripFences(s string) string {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// embeddedJSON returns the first balanced {...} and [...] spans in s,
// outermost first.
func embeddedJSON(s string) []string {
	var spans []string
	for _, open := range []byte{'{', '['} {
		if span, ok := balancedSpan(s, open); ok {
			spans = append(spans, span)
		}
	}
	if len(spans) == 2 && strings.Index(s, spans[1]) < strings.Index(s, spans[0]) {
		spans[0], spans[1] = spans[1], spans[0]
	}
	return spans
}

func balancedSpan(s string, open byte) (string, bool) {
	closeCh := byte('}')
	if open == '[' {
		closeCh = ']'
	}

	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closeCh:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
