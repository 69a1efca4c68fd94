// Package prompts holds the default LLM prompt templates and renders them.
//
// Templates use text/template syntax. A "join" function (strings.Join) is
// available to every template.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

//go:embed templates/*.tmpl
var templates embed.FS

var funcs = template.FuncMap{
	"join": strings.Join,
}

// TopicData is rendered into the primary_topic prompt.
type TopicData struct {
	Title    string
	Meta     string
	Headings []string
	URL      string
	Body     string
}

// QueryData is rendered into the query_generation prompt.
type QueryData struct {
	Title    string
	Topic    string
	Headings []string
	Body     string
	Count    int
}

// RecommendationData is rendered into the recommendations prompt.
type RecommendationData struct {
	Target string
	Score  int
	Gaps   []domain.CoverageGap
}

// Default returns the embedded template for name.
func Default(name string) (string, error) {
	data, err := templates.ReadFile("templates/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("%w: prompt %q", domain.ErrNotFound, name)
	}
	return string(data), nil
}

// Names lists the embedded prompt names in sorted order.
func Names() []string {
	entries, err := templates.ReadDir("templates")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tmpl"))
	}
	sort.Strings(names)
	return names
}

// Render executes text as a template against data.
func Render(text string, data any) (string, error) {
	tmpl, err := template.New("prompt").Funcs(funcs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse prompt: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Load renders the named prompt from store, falling back to the embedded
// default when store is nil or its template fails to load or render.
func Load(store driven.PromptStore, name string, data any) (string, error) {
	if store != nil {
		if text, err := store.Load(name); err == nil {
			if out, err := Render(text, data); err == nil {
				return out, nil
			}
		}
	}
	text, err := Default(name)
	if err != nil {
		return "", err
	}
	return Render(text, data)
}
