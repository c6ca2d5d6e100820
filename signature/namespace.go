package signature

import (
	"rainbow/arena"

	"github.com/pkg/errors"
)

// Namespace is the registry of host functions, shared mutably between
// compilation and evaluation via a pointer: a single-threaded host only
// ever touches it from one goroutine at a time.
type Namespace[V any] struct {
	symbols    *arena.Arena[string]
	signatures map[arena.ID]*Signature
	callbacks  map[arena.ID]Callback[V]
}

// NewEmpty returns a Namespace with no functions registered.
func NewEmpty[V any]() *Namespace[V] {
	return &Namespace[V]{
		symbols:    arena.New[string](),
		signatures: map[arena.ID]*Signature{},
		callbacks:  map[arena.ID]Callback[V]{},
	}
}

// Symbols returns the namespace's symbol interner. The parser shares this
// arena so that function names in source text resolve to the same ids the
// namespace uses internally.
func (ns *Namespace[V]) Symbols() *arena.Arena[string] {
	return ns.symbols
}

// Define registers one function. build is called with a fresh
// FunctionBuilder; it must declare at least one argument (the first names
// the function), a return type, and a callback.
func (ns *Namespace[V]) Define(build func(*FunctionBuilder[V])) error {
	fb := newFunctionBuilder[V](ns.symbols)
	build(fb)
	sig, cb, err := fb.intoParts()
	if err != nil {
		return errors.Wrap(err, "define")
	}
	id := sig.Args[0].NameID
	if _, exists := ns.signatures[id]; exists {
		return errors.Errorf("function %q is already defined", sig.Name())
	}
	ns.signatures[id] = &sig
	ns.callbacks[id] = cb
	return nil
}

// GetSignature looks up a registered function's signature by symbol id.
func (ns *Namespace[V]) GetSignature(id arena.ID) (*Signature, bool) {
	sig, ok := ns.signatures[id]
	return sig, ok
}

// GetSignatureByName is a convenience wrapper for callers that only have a
// name, not a pre-resolved symbol id (e.g. CLI introspection).
func (ns *Namespace[V]) GetSignatureByName(name string) (*Signature, bool) {
	id, ok := ns.symbols.Find(name)
	if !ok {
		return nil, false
	}
	return ns.GetSignature(id)
}

// GetCallback looks up a registered function's callback by symbol id.
func (ns *Namespace[V]) GetCallback(id arena.ID) (Callback[V], bool) {
	cb, ok := ns.callbacks[id]
	return cb, ok
}

// Names returns every currently-defined function name, for introspection.
func (ns *Namespace[V]) Names() []string {
	out := make([]string, 0, len(ns.signatures))
	for id := range ns.signatures {
		out = append(out, ns.symbols.Resolve(id))
	}
	return out
}
