package ot

import (
	"fmt"
	"sync"
)

// Variant describes one registered operation kind: its tag, the ordered
// constructor parameters used by decode, a raw constructor, and an optional
// transform table consulted during rebase.
type Variant struct {
	Tag Tag

	// Params lists the field names in constructor order. Decode resolves each
	// name against the encoded object (absent → nil) and calls New with the
	// results positionally.
	Params []string

	// New builds an instance from positional arguments without validating
	// them. Decode trusts well-formed data; collaborator packages expose
	// validating constructors for ordinary use.
	New func(args []any) Operation

	// Rules is the variant's transform table, walked in declared order.
	Rules []Rule
}

// Registry maps tags to variants, keyed by namespace then kind. The zero
// value is not usable; call NewRegistry.
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]*Variant
}

// NewRegistry returns an empty registry, e.g. for decoding against a
// restricted vocabulary or for test isolation.
func NewRegistry() *Registry {
	return &Registry{namespaces: make(map[string]map[string]*Variant)}
}

// Register adds a variant. Registering the same variant again is a no-op;
// registering a different variant under an existing tag is an error.
func (r *Registry) Register(v *Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds, ok := r.namespaces[v.Tag.Namespace]
	if !ok {
		kinds = make(map[string]*Variant)
		r.namespaces[v.Tag.Namespace] = kinds
	}
	if existing, ok := kinds[v.Tag.Kind]; ok {
		if existing == v {
			return nil
		}
		return fmt.Errorf("tag %s already registered to a different variant", v.Tag)
	}
	kinds[v.Tag.Kind] = v
	return nil
}

// Lookup returns the variant registered under tag.
func (r *Registry) Lookup(tag Tag) (*Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.namespaces[tag.Namespace][tag.Kind]; ok {
		return v, nil
	}
	return nil, &UnknownOperationTypeError{Tag: tag}
}

// variant is Lookup without the error, for dispatch paths where an
// unregistered operand simply has no transform table.
func (r *Registry) variant(tag Tag) *Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namespaces[tag.Namespace][tag.Kind]
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the process-wide registry. Collaborator packages
// populate it from their init functions via MustRegister; it is never
// mutated after program startup.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// MustRegister registers a variant with the default registry, panicking on a
// tag collision. Collaborator packages call it at load time.
func MustRegister(v *Variant) {
	if err := DefaultRegistry().Register(v); err != nil {
		panic(err)
	}
}
