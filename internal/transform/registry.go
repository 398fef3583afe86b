package transform

import (
	"fmt"
	"sort"

	"dml-mapper/internal/mapping"
)

// Variadic marks a function accepting any number of trailing arguments.
const Variadic = -1

// Def describes one transform function. The primary value is not counted in
// MinArgs/MaxArgs.
type Def struct {
	Name    string
	Func    string
	MinArgs int
	MaxArgs int
	Result  mapping.ValueType
	Summary string
}

// AcceptsArgs reports whether n trailing arguments are allowed.
func (d Def) AcceptsArgs(n int) bool {
	if n < d.MinArgs {
		return false
	}

	return d.MaxArgs == Variadic || n <= d.MaxArgs
}

// Arity renders the accepted argument range.
func (d Def) Arity() string {
	switch {
	case d.MaxArgs == Variadic:
		return fmt.Sprintf("at least %d", d.MinArgs)
	case d.MinArgs == d.MaxArgs:
		return fmt.Sprintf("%d", d.MinArgs)
	default:
		return fmt.Sprintf("%d to %d", d.MinArgs, d.MaxArgs)
	}
}

// Registry holds transform and aggregate definitions and provides lookup.
type Registry struct {
	transforms map[string]Def
	aggregates map[string]AggregateDef
}

// NewRegistry builds a registry from explicit definitions.
func NewRegistry(transforms []Def, aggregates []AggregateDef) *Registry {
	r := &Registry{
		transforms: make(map[string]Def, len(transforms)),
		aggregates: make(map[string]AggregateDef, len(aggregates)),
	}

	for _, d := range transforms {
		r.transforms[d.Name] = d
	}

	for _, a := range aggregates {
		r.aggregates[a.Name] = a
	}

	return r
}

// Default returns the standard library of functions.
func Default() *Registry {
	return NewRegistry(builtinTransforms(), builtinAggregates())
}

// Lookup returns the transform named name.
func (r *Registry) Lookup(name string) (Def, bool) {
	d, ok := r.transforms[name]
	return d, ok
}

// Has returns true if a transform with the given name exists.
func (r *Registry) Has(name string) bool {
	_, exists := r.transforms[name]
	return exists
}

// Names returns all transform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Aggregate returns the aggregate function named name.
func (r *Registry) Aggregate(name string) (AggregateDef, bool) {
	a, ok := r.aggregates[name]
	return a, ok
}

// AggregateNames returns all aggregate function names, sorted.
func (r *Registry) AggregateNames() []string {
	names := make([]string, 0, len(r.aggregates))
	for name := range r.aggregates {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
