package imagegen

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds image generators by name.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// Register adds or replaces a generator.
func (r *Registry) Register(name string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = g
}

// Get returns a generator by name.
func (r *Registry) Get(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("image generator %q not registered", name)
	}
	return g, nil
}

// Lookup is Get without the error, for optional tiers.
func (r *Registry) Lookup(name string) Generator {
	if name == "" {
		return nil
	}
	g, _ := r.Get(name)
	return g
}

// Names returns registered generator names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many generators are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.generators)
}
