package check

import (
	"rainbow/rtype"
	"rainbow/signature"
	"rainbow/syntax"
)

// Result is the outcome of checking one tree: the inferred type of every
// free (undefined) variable referenced, the expression's own output type,
// and any type errors found.
type Result struct {
	Inputs map[string]Type
	Output Type
	Errors []TypeError
}

// OK reports whether checking found no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Check runs constraint generation then solving over tree and returns the
// finalized result: every partial record reachable from an input or the
// output type is closed via rtype.FinalizeRecord. Row-polymorphism is an
// inference-time device only — the types a caller observes are always
// fully closed.
func Check[V any](ns *signature.Namespace[V], tree *syntax.Tree) Result {
	env := NewTypeEnv()
	rootType, constraints, genErrors := Generate(ns, tree, env)
	subst, solveErrors := solve(constraints)

	inputs := make(map[string]Type, len(env.Undefined()))
	for name := range env.Undefined() {
		t, _ := env.Get(name)
		inputs[name] = rtype.FinalizeRecord(subst.Apply(t))
	}

	errs := make([]TypeError, 0, len(genErrors)+len(solveErrors))
	errs = append(errs, genErrors...)
	errs = append(errs, solveErrors...)

	return Result{
		Inputs: inputs,
		Output: rtype.FinalizeRecord(subst.Apply(rootType)),
		Errors: errs,
	}
}
