package check

import (
	"fmt"

	"rainbow/syntax"
)

// ProblemCode discriminates the kinds of type errors this package reports:
// unification failures plus the unknown-function/keyword errors raised
// directly by the generator.
type ProblemCode int

const (
	UnknownFunction ProblemCode = iota
	UnknownKeyword
	AlreadyBound
	InfiniteType
	// RebindUndefined is part of the taxonomy but never produced by this
	// package's generator: Rainbow has no let-binding construct, so a name
	// already recorded as a free input can never be re-declared within the
	// same tree. Kept so a host embedding its own generation pass still has
	// a slot to report it in.
	RebindUndefined
	Incompatible
	BlockArity
	FieldMissing
	FieldOptional
)

// PathKind tags one step of the path a solver error occurred at, letting a
// host report "the 2nd element of this list" or "field `name`" instead of
// just the two top-level types that failed to unify.
type PathKind int

const (
	PathListElement PathKind = iota
	PathField
	PathBlockArg
	PathBlockBody
)

// PathStep is one step in a TypeError's Path.
type PathStep struct {
	Kind      PathKind
	FieldName string
	ArgIndex  int
}

// TypeError is the single reported-error shape for this package: which node
// it occurred at, which problem it is, and whichever of the following
// fields are meaningful for that Code.
type TypeError struct {
	Node syntax.NodeID
	Code ProblemCode

	FuncName string // UnknownFunction, UnknownKeyword
	VarName  string // AlreadyBound, InfiniteType, RebindUndefined
	Old, New Type   // AlreadyBound
	Left, Right Type // Incompatible
	Expected, Actual int // BlockArity
	FieldName string      // FieldMissing, FieldOptional (also reused by UnknownKeyword)
	Path      []PathStep
}

func (e TypeError) Error() string {
	switch e.Code {
	case UnknownFunction:
		return fmt.Sprintf("unknown function %q", e.FuncName)
	case UnknownKeyword:
		return fmt.Sprintf("function %q has no %q argument", e.FuncName, e.FieldName)
	case AlreadyBound:
		return fmt.Sprintf("type variable %s already bound to %s, cannot also bind to %s", e.VarName, e.Old, e.New)
	case InfiniteType:
		return fmt.Sprintf("infinite type: %s occurs in %s", e.VarName, e.New)
	case RebindUndefined:
		return fmt.Sprintf("cannot rebind previously-undefined variable %s", e.VarName)
	case Incompatible:
		return fmt.Sprintf("cannot unify %s with %s%s", e.Left, e.Right, pathSuffix(e.Path))
	case BlockArity:
		return fmt.Sprintf("block expects %d argument(s), got %d%s", e.Expected, e.Actual, pathSuffix(e.Path))
	case FieldMissing:
		return fmt.Sprintf("missing required field %q%s", e.FieldName, pathSuffix(e.Path))
	case FieldOptional:
		return fmt.Sprintf("field %q is optional on one side but required on the other%s", e.FieldName, pathSuffix(e.Path))
	default:
		return "type error"
	}
}

func pathSuffix(path []PathStep) string {
	if len(path) == 0 {
		return ""
	}
	s := " (at "
	for i, step := range path {
		if i > 0 {
			s += " -> "
		}
		switch step.Kind {
		case PathListElement:
			s += "list element"
		case PathField:
			s += fmt.Sprintf("field %q", step.FieldName)
		case PathBlockArg:
			s += fmt.Sprintf("block argument %d", step.ArgIndex)
		case PathBlockBody:
			s += "block body"
		}
	}
	return s + ")"
}
