// Package rainbow is the embedding API: a host compiles source text against
// a Namespace of its own host functions into a Script, then evaluates that
// Script against free-variable bindings any number of times. The top-level
// package wires the lexer/parser/checker/vm pipeline behind a couple of
// package-level functions so a host never touches those packages directly.
package rainbow

import (
	"rainbow/bytecode"
	"rainbow/check"
	"rainbow/internal/rberrors"
	"rainbow/signature"
	"rainbow/syntax"
	"rainbow/value"
	"rainbow/vm"

	"github.com/pkg/errors"
)

// NamespaceOption configures a Namespace during construction via
// FunctionBuilder closures rather than a config-file/env parsing layer: the
// only ambient configuration surface a Namespace has is "which host
// functions are registered."
type NamespaceOption[V value.Value[V]] func(*signature.Namespace[V]) error

// WithFunction registers one host function, deferring to
// signature.Namespace.Define for the actual FunctionBuilder validation.
func WithFunction[V value.Value[V]](build func(*signature.FunctionBuilder[V])) NamespaceOption[V] {
	return func(ns *signature.Namespace[V]) error {
		return ns.Define(build)
	}
}

// NewNamespace builds a Namespace by applying every option in order,
// failing on the first one that errors (e.g. a duplicate function name).
func NewNamespace[V value.Value[V]](opts ...NamespaceOption[V]) (*signature.Namespace[V], error) {
	ns := signature.NewEmpty[V]()
	for _, opt := range opts {
		if err := opt(ns); err != nil {
			return nil, errors.Wrap(err, "new namespace")
		}
	}
	return ns, nil
}

// Script is one compiled piece of Rainbow source: a parsed, type-checked,
// and emitted program, ready to Eval any number of times against different
// input bindings ("compile once, eval many").
type Script[V value.Value[V]] struct {
	ns      *signature.Namespace[V]
	tree    *syntax.Tree
	program *bytecode.Program
	result  check.Result
}

// Compile parses source against ns, type-checks it, and emits bytecode.
// Type errors are collected into the returned Script's TyperResult rather
// than aborting compilation: only parse and internal-tree-stage failures
// produce a *rberrors.CompileError. A caller that wants to refuse to run an
// ill-typed script should check TyperResult().OK() itself before calling
// Eval.
func Compile[V value.Value[V]](ns *signature.Namespace[V], source string) (*Script[V], error) {
	tree, err := syntax.Parse(ns, source)
	if err != nil {
		return nil, rberrors.NewCompileError(err)
	}

	result := check.Check[V](ns, tree)

	program, err := bytecode.Compile(tree)
	if err != nil {
		return nil, rberrors.NewCompileError(err)
	}

	return &Script[V]{ns: ns, tree: tree, program: program, result: result}, nil
}

// TyperResult returns the inferred input/output types and any type errors
// found during Compile.
func (s *Script[V]) TyperResult() check.Result {
	return s.result
}

// Tree exposes the parsed syntax tree, e.g. for printing it back as source
// (syntax.Tree.String).
func (s *Script[V]) Tree() *syntax.Tree {
	return s.tree
}

// Eval runs the compiled program once against the given free-variable
// bindings, building fresh Values via factory. A *rberrors.RuntimeError is
// returned on any runtime failure (undefined variable, stack underflow, a
// host callback's own error) — it never panics.
func (s *Script[V]) Eval(factory value.Factory[V], inputs map[string]V) (V, error) {
	m := vm.New[V](s.ns, factory, s.program)
	return m.Run(inputs)
}
