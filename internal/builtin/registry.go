package builtin

import (
	"slices"

	"github.com/roach88/n3reason/internal/term"
)

// Constructor builds an operator from its subject and object.
type Constructor func(subject, object term.Term) Operator

// Registry maps builtin predicate IRIs to constructors. It is a flat table:
// there is no inheritance between entries.
type Registry struct {
	ops map[term.IRI]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[term.IRI]Constructor)}
}

// DefaultRegistry returns a registry holding every builtin family:
// list, log, math, string and time.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	registerList(r)
	registerLog(r)
	registerMath(r)
	registerString(r)
	registerTime(r)
	return r
}

// Register adds or replaces a builtin.
func (r *Registry) Register(name term.IRI, c Constructor) {
	r.ops[name] = c
}

// Lookup returns the constructor for name.
func (r *Registry) Lookup(name term.IRI) (Constructor, bool) {
	c, ok := r.ops[name]
	return c, ok
}

// Promote turns st into an operator when its predicate is a known builtin.
func (r *Registry) Promote(st term.Statement) (Operator, bool) {
	name, ok := st.Predicate.(term.IRI)
	if !ok {
		return nil, false
	}
	c, ok := r.ops[name]
	if !ok {
		return nil, false
	}
	return c(st.Subject, st.Object), true
}

// Names returns the registered IRIs in sorted order.
func (r *Registry) Names() []term.IRI {
	names := make([]term.IRI, 0, len(r.ops))
	for n := range r.ops {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
