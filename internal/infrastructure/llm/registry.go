package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Settings carries the provider-agnostic connection parameters.
type Settings struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Factory builds a Provider from settings.
type Factory func(ctx context.Context, s Settings) (Provider, error)

// Registry keeps a mapping from provider names to their constructors.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// DefaultRegistry knows every built-in provider.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("gemini", func(ctx context.Context, s Settings) (Provider, error) {
		return NewGeminiClient(ctx, s.APIKey, s.Model)
	})
	r.Register("openai", func(_ context.Context, s Settings) (Provider, error) {
		return NewOpenAIClient(s.Endpoint, s.Model, s.APIKey, s.Timeout), nil
	})
	r.Register("cohere", func(_ context.Context, s Settings) (Provider, error) {
		return NewCohereClient(s.APIKey, s.Model, s.Timeout)
	})
	return r
}

// Register adds or replaces a provider factory.
func (r *Registry) Register(name string, factory Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[strings.ToLower(name)] = factory
}

// Build resolves name and constructs the provider.
func (r *Registry) Build(ctx context.Context, name string, s Settings) (Provider, error) {
	factory, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("llm provider %q is not registered (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	provider, err := factory(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("build llm provider %s: %w", name, err)
	}
	return provider, nil
}

// Names lists registered providers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
