package postprocessors

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

// BuilderFunc creates a PostProcessor from its config table.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Stage describes a processor that can appear in a chunk pipeline.
type Stage struct {
	Build BuilderFunc

	// Produces marks processors that split the document into chunks.
	// Other stages only filter or rewrite the chunks they receive, so a
	// pipeline must open with a producing stage.
	Produces bool
}

// Registry maps processor names to pipeline stages.
type Registry struct {
	stages map[string]Stage
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stages: make(map[string]Stage)}
}

// NewDefaultRegistry creates a registry holding the built-in stages.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// Register adds a stage. Names must be unique.
func (r *Registry) Register(name string, stage Stage) error {
	if stage.Build == nil {
		return fmt.Errorf("%w: processor %s has no builder", domain.ErrInvalidInput, name)
	}
	if _, ok := r.stages[name]; ok {
		return fmt.Errorf("%w: processor %s already registered", domain.ErrInvalidInput, name)
	}
	r.stages[name] = stage
	return nil
}

// Build creates the named processor with the given config.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	stage, ok := r.stages[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown processor %s", domain.ErrInvalidInput, name)
	}
	return stage.Build(cfg)
}

// Produces reports whether the named stage creates chunks.
func (r *Registry) Produces(name string) bool {
	return r.stages[name].Produces
}

// Has returns true if a processor with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.stages[name]
	return ok
}

// Names returns registered processor names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.stages))
	for name := range r.stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
