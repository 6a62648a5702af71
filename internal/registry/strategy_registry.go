package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/strategies"
	"github.com/toyz/delegate/pkg/delegate"
)

// Registry manages the strategies available to the generator
type Registry struct {
	strategies map[string]delegate.Strategy
	mu         sync.RWMutex
}

// NewRegistry creates a registry with the built-in strategies
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, strategy := range strategies.Builtins() {
		r.strategies[Name(strategy)] = strategy
	}
	return r
}

// NewEmptyRegistry creates a registry without any strategy
func NewEmptyRegistry() *Registry {
	return &Registry{strategies: make(map[string]delegate.Strategy)}
}

// Name returns the name a strategy is registered under
func Name(strategy delegate.Strategy) string {
	return delegate.NewProcessor(strategy).Name()
}

// Register adds a strategy. Names and annotations must not collide with
// strategies already registered.
func (r *Registry) Register(strategy delegate.Strategy) error {
	name := Name(strategy)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[name]; exists {
		return errors.NewRegistrationError(name, "a strategy with this name is already registered")
	}
	for existingName, existing := range r.strategies {
		for _, annotation := range strategy.SupportedAnnotations() {
			for _, taken := range existing.SupportedAnnotations() {
				if annotation == taken {
					return errors.NewRegistrationError(name,
						fmt.Sprintf("annotation '%s' is already handled by '%s'", annotation, existingName))
				}
			}
		}
	}

	r.strategies[name] = strategy
	return nil
}

// Get retrieves a strategy by name
func (r *Registry) Get(name string) (delegate.Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	strategy, exists := r.strategies[name]
	return strategy, exists
}

// Has checks if a strategy is registered under name
func (r *Registry) Has(name string) bool {
	_, exists := r.Get(name)
	return exists
}

// List returns the registered strategy names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named strategies in the given order, or every
// registered strategy in name order when names is empty
func (r *Registry) Select(names []string) ([]delegate.Strategy, error) {
	if len(names) == 0 {
		names = r.List()
	}

	selected := make([]delegate.Strategy, 0, len(names))
	var unknown []string
	for _, name := range names {
		strategy, ok := r.Get(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		selected = append(selected, strategy)
	}

	if len(unknown) > 0 {
		return nil, errors.Newf(errors.ConfigurationErrorCode, "unknown strategy: %s", strings.Join(unknown, ", ")).
			WithContext("available", strings.Join(r.List(), ", ")).
			WithSuggestions("Run 'delegate strategies' to list the available strategies")
	}
	return selected, nil
}
