package signature

import (
	"rainbow/arena"
	"rainbow/rtype"

	"github.com/pkg/errors"
)

// Callback is the body of a host function: given the call site and a way to
// evaluate blocks, produce a result value or an error.
type Callback[V any] func(Apply[V], Caller[V]) (V, error)

// Caller lets a callback re-enter block evaluation without signature
// importing the vm package (which depends on signature, not vice versa).
type Caller[V any] interface {
	EvalBlock(block V, args []V) (V, error)
}

// FunctionBuilder assembles a Signature and its Callback. A zero-value
// FunctionBuilder is not usable; obtain one via Namespace.Define.
type FunctionBuilder[V any] struct {
	symbols     *arena.Arena[string]
	sig         Signature
	returnSet   bool
	callbackSet bool
	callback    Callback[V]
}

func newFunctionBuilder[V any](symbols *arena.Arena[string]) *FunctionBuilder[V] {
	return &FunctionBuilder[V]{symbols: symbols, sig: Signature{Total: true}}
}

func (f *FunctionBuilder[V]) addArg(name string, ty rtype.Type, variadic, required bool) arena.ID {
	id := f.symbols.Intern(name)
	f.sig.Args = append(f.sig.Args, Argument{
		NameID:   id,
		Name:     name,
		Type:     ty,
		Variadic: variadic,
		Required: required,
	})
	return id
}

// RequiredArg declares a mandatory, single-valued argument.
func (f *FunctionBuilder[V]) RequiredArg(name string, ty rtype.Type) arena.ID {
	return f.addArg(name, ty, false, true)
}

// OptionalArg declares an argument that may be omitted from a call.
func (f *FunctionBuilder[V]) OptionalArg(name string, ty rtype.Type) arena.ID {
	return f.addArg(name, ty, false, false)
}

// VariadicArg declares an argument keyword that may appear zero or more
// times in a single call (e.g. calc's `plus`/`subtract`/...).
func (f *FunctionBuilder[V]) VariadicArg(name string, ty rtype.Type) arena.ID {
	return f.addArg(name, ty, true, false)
}

// RequiredVariadicArg declares an argument keyword that must appear at
// least once and may repeat.
func (f *FunctionBuilder[V]) RequiredVariadicArg(name string, ty rtype.Type) arena.ID {
	return f.addArg(name, ty, true, true)
}

// Returns sets the function's return type. Required before Define succeeds.
func (f *FunctionBuilder[V]) Returns(ty rtype.Type) {
	f.sig.ReturnType = ty
	f.returnSet = true
}

// SetTotal marks the function as total (cannot fail at runtime). Functions
// are total by default; call SetPartial to declare otherwise.
func (f *FunctionBuilder[V]) SetTotal() {
	f.sig.Total = true
}

// SetPartial marks the function as partial (it may fail at runtime, e.g.
// division by zero).
func (f *FunctionBuilder[V]) SetPartial() {
	f.sig.Total = false
}

// Callback registers the function body. Required before Define succeeds.
func (f *FunctionBuilder[V]) Callback(cb Callback[V]) {
	f.callback = cb
	f.callbackSet = true
}

func (f *FunctionBuilder[V]) intoParts() (Signature, Callback[V], error) {
	if len(f.sig.Args) == 0 {
		return Signature{}, nil, errors.New("function has no arguments; the first argument's name is the function name")
	}
	if !f.returnSet {
		return Signature{}, nil, errors.Errorf("function %q: return type not set", f.sig.Args[0].Name)
	}
	if !f.callbackSet {
		return Signature{}, nil, errors.Errorf("function %q: callback not set", f.sig.Args[0].Name)
	}
	return f.sig, f.callback, nil
}
