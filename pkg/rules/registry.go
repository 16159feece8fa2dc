package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores named predicates so declarative configuration can refer to
// custom rules by name. Names are trimmed; duplicates are rejected.
type Registry struct {
	mu         sync.RWMutex
	predicates map[string]Predicate
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		predicates: make(map[string]Predicate),
	}
}

// Register adds a predicate under name.
func (r *Registry) Register(name string, fn func(string) bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rules: predicate name is required")
	}
	if fn == nil {
		return fmt.Errorf("rules: predicate %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.predicates[name]; exists {
		return fmt.Errorf("rules: predicate %q already registered", name)
	}
	r.predicates[name] = Predicate(fn)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, fn func(string) bool) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get retrieves a predicate by name.
func (r *Registry) Get(name string) (Predicate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.predicates[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("rules: predicate %q not found", name)
	}
	return fn, nil
}

// Has reports whether a predicate is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.predicates[strings.TrimSpace(name)]
	return ok
}

// List returns a sorted list of predicate names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.predicates))
	for name := range r.predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rule returns a custom rule backed by the named predicate.
func (r *Registry) Rule(name, message string) (Rule, error) {
	fn, err := r.Get(name)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Kind: KindCustom, Param: fn, Message: message}, nil
}
