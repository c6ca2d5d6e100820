// Package signature implements the host-function contract: Argument,
// Signature, FunctionBuilder, and Namespace, in the idiom of a
// name->callback native-function registry.
package signature

import (
	"rainbow/arena"

	"github.com/pkg/errors"
)

// Pair is one (keyword, value) slot of a call site.
type Pair[V any] struct {
	Keyword arena.ID
	Value   V
}

// Apply is a call site: an ordered sequence of (keyword, value) pairs whose
// first keyword names the function being called.
type Apply[V any] struct {
	Args    []Pair[V]
	Symbols *arena.Arena[string]
}

// FuncID returns the symbol id of the function name (the first keyword).
func (a Apply[V]) FuncID() arena.ID {
	return a.Args[0].Keyword
}

// Get returns the first value bound to the given keyword, if any.
func (a Apply[V]) Get(name arena.ID) (V, bool) {
	for _, p := range a.Args {
		if p.Keyword == name {
			return p.Value, true
		}
	}
	var zero V
	return zero, false
}

// Demand is Get, turned into an error for required arguments.
func (a Apply[V]) Demand(name arena.ID) (V, error) {
	if v, ok := a.Get(name); ok {
		return v, nil
	}
	var zero V
	label := "?"
	if a.Symbols != nil {
		label = a.Symbols.Resolve(name)
	}
	return zero, errors.Errorf("missing required argument %q", label)
}

// All collects every value bound to the given keyword, in call order —
// this is what backs variadic arguments.
func (a Apply[V]) All(name arena.ID) []V {
	var out []V
	for _, p := range a.Args {
		if p.Keyword == name {
			out = append(out, p.Value)
		}
	}
	return out
}

// Len reports the number of (keyword, value) pairs, including the function
// name pair itself.
func (a Apply[V]) Len() int {
	return len(a.Args)
}
