package prelude_test

import (
	"testing"

	"rainbow/bytecode"
	"rainbow/check"
	"rainbow/internal/prelude"
	"rainbow/signature"
	"rainbow/stdvalue"
	"rainbow/syntax"
	"rainbow/vm"
)

func newNamespace(t *testing.T) *signature.Namespace[stdvalue.Value] {
	t.Helper()
	ns := signature.NewEmpty[stdvalue.Value]()
	if err := prelude.Install[stdvalue.Value](ns, stdvalue.Factory{}); err != nil {
		t.Fatalf("install prelude: %v", err)
	}
	return ns
}

func run(t *testing.T, ns *signature.Namespace[stdvalue.Value], src string, inputs map[string]stdvalue.Value) stdvalue.Value {
	t.Helper()
	tree, err := syntax.Parse(ns, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	result := check.Check[stdvalue.Value](ns, tree)
	if len(result.Errors) != 0 {
		t.Fatalf("type errors on %q: %v", src, result.Errors)
	}
	prog, err := bytecode.Compile(tree)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	m := vm.New[stdvalue.Value](ns, stdvalue.Factory{}, prog)
	v, err := m.Run(inputs)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v
}

// TestCalcScenario1 checks "calc: 2 plus: 2" → 4.
func TestCalcScenario1(t *testing.T) {
	ns := newNamespace(t)
	v := run(t, ns, "calc: 2 plus: 2", nil)
	n, err := v.TryNumber()
	if err != nil || n != 4 {
		t.Fatalf("got %v, want 4", v)
	}
}

// TestCalcScenario2 mirrors scenario 2: free variables resolved from inputs.
func TestCalcScenario2(t *testing.T) {
	ns := newNamespace(t)
	v := run(t, ns, "calc: x plus: y", map[string]stdvalue.Value{
		"x": stdvalue.NewNumber(8),
		"y": stdvalue.NewNumber(4),
	})
	n, _ := v.TryNumber()
	if n != 12 {
		t.Fatalf("got %v, want 12", v)
	}
}

// TestEachIdentityScenario3 mirrors scenario 3: each/do over a list of
// numbers with the identity block returns the same list.
func TestEachIdentityScenario3(t *testing.T) {
	ns := newNamespace(t)
	v := run(t, ns, "each: xs do: { x => x }", map[string]stdvalue.Value{
		"xs": stdvalue.NewList([]stdvalue.Value{
			stdvalue.NewNumber(1), stdvalue.NewNumber(2), stdvalue.NewNumber(3),
		}),
	})
	want := stdvalue.NewList([]stdvalue.Value{
		stdvalue.NewNumber(1), stdvalue.NewNumber(2), stdvalue.NewNumber(3),
	})
	if !v.Equal(want) {
		t.Fatalf("got %v, want %v", v, want)
	}
}

// TestNestedCountFromScenario4 mirrors scenario 4: nested countFrom/each
// builds a triangular list of products.
func TestNestedCountFromScenario4(t *testing.T) {
	ns := newNamespace(t)
	src := "each: { countFrom: 1 to: n } do: { i => each: { countFrom: 1 to: i } do: { j => calc: i times: j } }"
	v := run(t, ns, src, map[string]stdvalue.Value{"n": stdvalue.NewNumber(3)})

	row := func(nums ...float64) stdvalue.Value {
		items := make([]stdvalue.Value, len(nums))
		for i, n := range nums {
			items[i] = stdvalue.NewNumber(n)
		}
		return stdvalue.NewList(items)
	}
	want := stdvalue.NewList([]stdvalue.Value{row(1), row(2, 4), row(3, 6, 9)})
	if !v.Equal(want) {
		t.Fatalf("got %v, want %v", v, want)
	}
}

// TestIfImplicitBlockScenario5 mirrors scenario 5: a bare-value then/else is
// rewritten to a zero-arg block by the implicit-block pass and evaluates the
// same as writing the blocks out explicitly.
func TestIfImplicitBlockScenario5(t *testing.T) {
	ns := newNamespace(t)
	bare := run(t, ns, "if: true then: 1 else: 2", nil)
	explicit := run(t, ns, "if: true then: { 1 } else: { 2 }", nil)

	if !bare.Equal(explicit) {
		t.Fatalf("implicit/explicit block mismatch: %v vs %v", bare, explicit)
	}
	n, err := bare.TryNumber()
	if err != nil || n != 1 {
		t.Fatalf("got %v, want 1", bare)
	}
}

// TestCalcDivideByZeroIsRuntimeError checks that dividedBy 0 surfaces as a
// runtime error rather than a silent float Infinity.
func TestCalcDivideByZeroIsRuntimeError(t *testing.T) {
	ns := newNamespace(t)
	tree, err := syntax.Parse(ns, "calc: 1 dividedBy: 0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog, err := bytecode.Compile(tree)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	m := vm.New[stdvalue.Value](ns, stdvalue.Factory{}, prog)
	if _, err := m.Run(nil); err == nil {
		t.Fatalf("expected a runtime error on division by zero")
	}
}

// TestCalcTypeErrorScenario exercises the first negative scenario: calc's
// second operand is a string, which cannot satisfy Num.
func TestCalcTypeErrorScenario(t *testing.T) {
	ns := newNamespace(t)
	tree, err := syntax.Parse(ns, `calc: 2 plus: "x"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	result := check.Check[stdvalue.Value](ns, tree)
	if len(result.Errors) == 0 {
		t.Fatalf("expected a type error for calc: 2 plus: \"x\"")
	}
}

// TestStringify exercises stringify against a number literal.
func TestStringify(t *testing.T) {
	ns := newNamespace(t)
	v := run(t, ns, `stringify: 42`, nil)
	s, err := v.TryString()
	if err != nil || s != "42" {
		t.Fatalf("got %v, want \"42\"", v)
	}
}

// TestUpperCase exercises the upperCase prelude function.
func TestUpperCase(t *testing.T) {
	ns := newNamespace(t)
	v := run(t, ns, `upperCase: "hi"`, nil)
	s, err := v.TryString()
	if err != nil || s != "HI" {
		t.Fatalf("got %v, want \"HI\"", v)
	}
}

// TestWithDo exercises with/do against a single captured value.
func TestWithDo(t *testing.T) {
	ns := newNamespace(t)
	v := run(t, ns, `with: 10 do: { x => calc: x plus: 5 }`, nil)
	n, err := v.TryNumber()
	if err != nil || n != 15 {
		t.Fatalf("got %v, want 15", v)
	}
}

// TestTryOr exercises try/or's fallback path when the try block crashes.
func TestTryOr(t *testing.T) {
	ns := newNamespace(t)
	v := run(t, ns, `try: { crash: "boom" } or: { 9 }`, nil)
	n, err := v.TryNumber()
	if err != nil || n != 9 {
		t.Fatalf("got %v, want 9", v)
	}
}

// TestSum exercises sum over a literal list.
func TestSum(t *testing.T) {
	ns := newNamespace(t)
	v := run(t, ns, `sum: [1 2 3]`, nil)
	n, err := v.TryNumber()
	if err != nil || n != 6 {
		t.Fatalf("got %v, want 6", v)
	}
}

// TestCompareChain exercises compare's multi-keyword conjunctive form.
func TestCompareChain(t *testing.T) {
	ns := newNamespace(t)
	v := run(t, ns, `compare: 5 biggerThan: 1 atMost: 10`, nil)
	b, err := v.TryBool()
	if err != nil || !b {
		t.Fatalf("got %v, want true", v)
	}
}
