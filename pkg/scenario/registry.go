package scenario

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages available scenario shapes
type Registry struct {
	mu     sync.RWMutex
	shapes map[string]func() Generator
}

// NewRegistry creates a new shape registry
func NewRegistry() *Registry {
	return &Registry{
		shapes: make(map[string]func() Generator),
	}
}

// Register adds a shape to the registry under the generator's own name
func (r *Registry) Register(factory func() Generator) error {
	name := factory().Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.shapes[name]; exists {
		return fmt.Errorf("shape %s already registered", name)
	}

	r.shapes[name] = factory
	return nil
}

// Get returns a new, unconfigured generator for the requested shape.
// The shape may be addressed by name or by tag.
func (r *Registry) Get(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if factory, exists := r.shapes[name]; exists {
		return factory(), nil
	}
	for _, factory := range r.shapes {
		if g := factory(); g.Tag() == name {
			return g, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownShape, name)
}

// List returns all registered shape names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.shapes))
	for name := range r.shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generators returns one fresh generator per registered shape, ordered by tag
func (r *Registry) Generators() []Generator {
	r.mu.RLock()
	gens := make([]Generator, 0, len(r.shapes))
	for _, factory := range r.shapes {
		gens = append(gens, factory())
	}
	r.mu.RUnlock()

	sort.Slice(gens, func(i, j int) bool { return gens[i].Tag() < gens[j].Tag() })
	return gens
}

// DefaultRegistry is the global shape registry
var DefaultRegistry = NewRegistry()
