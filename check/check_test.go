package check

import (
	"testing"

	"rainbow/rtype"
	"rainbow/signature"
	"rainbow/syntax"
)

type tv struct{}

func noop(signature.Apply[tv], signature.Caller[tv]) (tv, error) { return tv{}, nil }

// testNamespace registers just enough of the default prelude's signatures
// (types only — callbacks are stubs, since this package never evaluates
// anything) to exercise realistic type-checking scenarios.
func testNamespace(t *testing.T) *signature.Namespace[tv] {
	t.Helper()
	ns := signature.NewEmpty[tv]()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("defining test namespace: %v", err)
		}
	}

	must(ns.Define(func(f *signature.FunctionBuilder[tv]) {
		f.RequiredArg("calc", rtype.Num())
		f.OptionalArg("plus", rtype.Num())
		f.OptionalArg("subtract", rtype.Num())
		f.OptionalArg("times", rtype.Num())
		f.OptionalArg("dividedBy", rtype.Num())
		f.Returns(rtype.Num())
		f.SetPartial()
		f.Callback(noop)
	}))

	must(ns.Define(func(f *signature.FunctionBuilder[tv]) {
		f.RequiredArg("if", rtype.Bool())
		f.RequiredArg("then", rtype.Quoted(rtype.Var("A")))
		f.RequiredArg("else", rtype.Quoted(rtype.Var("A")))
		f.Returns(rtype.Var("A"))
		f.Callback(noop)
	}))

	must(ns.Define(func(f *signature.FunctionBuilder[tv]) {
		f.RequiredArg("each", rtype.ListOf(rtype.Var("E")))
		f.RequiredArg("do", rtype.BlockFromTo([]rtype.Type{rtype.Var("E")}, rtype.Var("R")))
		f.Returns(rtype.ListOf(rtype.Var("R")))
		f.Callback(noop)
	}))

	must(ns.Define(func(f *signature.FunctionBuilder[tv]) {
		f.RequiredArg("countFrom", rtype.Num())
		f.RequiredArg("to", rtype.Num())
		f.OptionalArg("by", rtype.Num())
		f.Returns(rtype.ListOf(rtype.Num()))
		f.Callback(noop)
	}))

	return ns
}

func mustParse(t *testing.T, ns *signature.Namespace[tv], src string) *syntax.Tree {
	t.Helper()
	tree, err := syntax.Parse(ns, src)
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	return tree
}

func TestScenarioCalcLiterals(t *testing.T) {
	ns := testNamespace(t)
	tree := mustParse(t, ns, `calc: 2 plus: 2`)
	res := Check(ns, tree)
	if !res.OK() {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if res.Output.Kind() != rtype.KNum {
		t.Fatalf("expected Num output, got %s", res.Output)
	}
}

func TestScenarioCalcVariables(t *testing.T) {
	ns := testNamespace(t)
	tree := mustParse(t, ns, `calc: x plus: y`)
	res := Check(ns, tree)
	if !res.OK() {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if res.Output.Kind() != rtype.KNum {
		t.Fatalf("expected Num output, got %s", res.Output)
	}
	for _, name := range []string{"x", "y"} {
		ty, ok := res.Inputs[name]
		if !ok {
			t.Fatalf("expected %s in inputs, got %v", name, res.Inputs)
		}
		if ty.Kind() != rtype.KNum {
			t.Fatalf("expected %s : Num, got %s", name, ty)
		}
	}
}

func TestScenarioEachIdentity(t *testing.T) {
	ns := testNamespace(t)
	tree := mustParse(t, ns, `each: xs do: { x => x }`)
	res := Check(ns, tree)
	if !res.OK() {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	xs, ok := res.Inputs["xs"]
	if !ok || xs.Kind() != rtype.KList {
		t.Fatalf("expected xs : List(_), got %v", res.Inputs)
	}
	if res.Output.Kind() != rtype.KList {
		t.Fatalf("expected List output, got %s", res.Output)
	}
	if !xs.Elem().Eq(res.Output.Elem()) {
		t.Fatalf("expected xs's element type to equal the output's element type (identity block): %s vs %s", xs.Elem(), res.Output.Elem())
	}
}

func TestScenarioNestedEachCountFrom(t *testing.T) {
	ns := testNamespace(t)
	src := `each: { countFrom: 1 to: n } do: { i => each: { countFrom: 1 to: i } do: { j => calc: i times: j } }`
	tree := mustParse(t, ns, src)
	res := Check(ns, tree)
	if !res.OK() {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	n, ok := res.Inputs["n"]
	if !ok || n.Kind() != rtype.KNum {
		t.Fatalf("expected n : Num, got %v", res.Inputs)
	}
	if res.Output.Kind() != rtype.KList {
		t.Fatalf("expected List output, got %s", res.Output)
	}
}

func TestScenarioImplicitBlockWrapEvaluatesSameType(t *testing.T) {
	ns := testNamespace(t)
	tree := mustParse(t, ns, `if: true then: 1 else: 2`)
	res := Check(ns, tree)
	if !res.OK() {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if res.Output.Kind() != rtype.KNum {
		t.Fatalf("expected Num output, got %s", res.Output)
	}
}

func TestScenarioDottedPathMerge(t *testing.T) {
	ns := testNamespace(t)
	tree := mustParse(t, ns, `calc: foo.bar.baz plus: foo.bar.qux`)
	res := Check(ns, tree)
	if !res.OK() {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if res.Output.Kind() != rtype.KNum {
		t.Fatalf("expected Num output, got %s", res.Output)
	}
	foo, ok := res.Inputs["foo"]
	if !ok || foo.Kind() != rtype.KRecord {
		t.Fatalf("expected foo : Record, got %v", res.Inputs)
	}
	barField, ok := foo.Field("bar")
	if !ok || barField.Type.Kind() != rtype.KRecord {
		t.Fatalf("expected foo.bar : Record, got %v", foo)
	}
	bazField, ok := barField.Type.Field("baz")
	if !ok || bazField.Type.Kind() != rtype.KNum {
		t.Fatalf("expected foo.bar.baz : Num, got %v", barField.Type)
	}
	quxField, ok := barField.Type.Field("qux")
	if !ok || quxField.Type.Kind() != rtype.KNum {
		t.Fatalf("expected foo.bar.qux : Num (merged alongside baz), got %v", barField.Type)
	}
}

func TestScenarioCalcTypeMismatchIsIncompatible(t *testing.T) {
	ns := testNamespace(t)
	tree := mustParse(t, ns, `calc: 2 plus: "x"`)
	res := Check(ns, tree)
	if res.OK() {
		t.Fatalf("expected a type error")
	}
	if !hasIncompatible(res.Errors, rtype.KNum, rtype.KStr) {
		t.Fatalf("expected an Incompatible(Num, Str) error, got %v", res.Errors)
	}
}

func TestScenarioIfBranchTypeMismatchIsIncompatible(t *testing.T) {
	ns := testNamespace(t)
	tree := mustParse(t, ns, `if: true then: 1 else: "x"`)
	res := Check(ns, tree)
	if res.OK() {
		t.Fatalf("expected a type error")
	}
	if !hasIncompatible(res.Errors, rtype.KNum, rtype.KStr) {
		t.Fatalf("expected an Incompatible(Num, Str) error, got %v", res.Errors)
	}
}

func TestScenarioRepeatedVariableConflictingUse(t *testing.T) {
	ns := testNamespace(t)
	// foo is used once as a record (foo.bar) and again as a bare Num
	// argument — the second use conflicts with the first.
	tree := mustParse(t, ns, `calc: foo.bar plus: foo`)
	res := Check(ns, tree)
	if res.OK() {
		t.Fatalf("expected a type error for foo's conflicting uses")
	}
}

func hasIncompatible(errs []TypeError, a, b rtype.Kind) bool {
	for _, e := range errs {
		if e.Code != Incompatible {
			continue
		}
		if (e.Left.Kind() == a && e.Right.Kind() == b) || (e.Left.Kind() == b && e.Right.Kind() == a) {
			return true
		}
	}
	return false
}
