package filterstructure

import (
	"fmt"
	"sort"
)

// FilterRegistry maps filter names to their descriptors. Filters are
// registered during package initialization and the registry is only read
// once the process is serving requests.
type FilterRegistry struct {
	filters map[string]*Filter
}

// NewFilterRegistry creates an empty registry.
func NewFilterRegistry() *FilterRegistry {
	return &FilterRegistry{
		filters: make(map[string]*Filter),
	}
}

// Register adds a filter descriptor to the registry.
func (r *FilterRegistry) Register(filter *Filter) error {
	if filter == nil {
		return fmt.Errorf("filter cannot be nil")
	}
	if filter.Name == "" {
		return fmt.Errorf("filter name cannot be empty")
	}
	if filter.Apply == nil {
		return fmt.Errorf("filter %s has no implementation", filter.Name)
	}
	if _, exists := r.filters[filter.Name]; exists {
		return fmt.Errorf("filter %s is already registered", filter.Name)
	}
	r.filters[filter.Name] = filter
	return nil
}

// MustRegister registers filter and panics on failure. Intended for init functions.
func (r *FilterRegistry) MustRegister(filter *Filter) {
	if err := r.Register(filter); err != nil {
		panic(fmt.Sprintf("failed to register filter: %v", err))
	}
}

// Lookup returns the descriptor registered under name.
func (r *FilterRegistry) Lookup(name string) (*Filter, bool) {
	f, ok := r.filters[name]
	return f, ok
}

// IsRegistered checks if a filter with the given name is registered.
func (r *FilterRegistry) IsRegistered(name string) bool {
	_, exists := r.filters[name]
	return exists
}

// GetRegisteredNames returns all registered filter names in sorted order.
func (r *FilterRegistry) GetRegisteredNames() []string {
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in filters.
var DefaultRegistry = NewFilterRegistry()
