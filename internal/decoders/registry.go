// Package decoders builds the decoder list the pipeline runs.
package decoders

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
)

// Deps holds the shared services decoders are built from.
// Any field may be nil; decoders that need a missing service disable themselves.
type Deps struct {
	Text    driven.TextDetector
	Cache   driven.VisionCache
	LLM     driven.VisionLLM
	Prompts driven.PromptStore
}

// BuilderFunc creates a Decoder from shared services.
type BuilderFunc func(deps Deps) (driven.Decoder, error)

// Registry maps decoder names to their builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new decoder registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a decoder builder to the registry.
// Name should be unique and match the decoder's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a decoder by name.
// Returns domain.ErrUnknownDecoder if the name is not registered.
func (r *Registry) Build(name string, deps Deps) (driven.Decoder, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDecoder, name)
	}
	return builder(deps)
}

// BuildAll creates decoders in the given order.
func (r *Registry) BuildAll(names []string, deps Deps) ([]driven.Decoder, error) {
	out := make([]driven.Decoder, 0, len(names))
	for _, name := range names {
		d, err := r.Build(name, deps)
		if err != nil {
			return nil, fmt.Errorf("build decoder %s: %w", name, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Has returns true if a decoder with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered decoder names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
