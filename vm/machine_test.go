package vm_test

import (
	"testing"

	"rainbow/bytecode"
	"rainbow/rtype"
	"rainbow/signature"
	"rainbow/stdvalue"
	"rainbow/syntax"
	"rainbow/vm"
)

// testNamespace builds a tiny namespace with just enough prelude-shaped
// functions to exercise the machine: calc (variadic plus/subtract) and
// each/do.
func testNamespace(t *testing.T) *signature.Namespace[stdvalue.Value] {
	t.Helper()
	ns := signature.NewEmpty[stdvalue.Value]()

	err := ns.Define(func(f *signature.FunctionBuilder[stdvalue.Value]) {
		f.RequiredArg("calc", rtype.Num())
		f.VariadicArg("plus", rtype.Num())
		f.VariadicArg("subtract", rtype.Num())
		f.Returns(rtype.Num())
		f.Callback(func(a signature.Apply[stdvalue.Value], _ signature.Caller[stdvalue.Value]) (stdvalue.Value, error) {
			total, err := a.Args[0].Value.TryNumber()
			if err != nil {
				return stdvalue.Value{}, err
			}
			for _, p := range a.Args[1:] {
				n, err := p.Value.TryNumber()
				if err != nil {
					return stdvalue.Value{}, err
				}
				total += n
			}
			return stdvalue.NewNumber(total), nil
		})
	})
	if err != nil {
		t.Fatalf("define calc: %v", err)
	}

	err = ns.Define(func(f *signature.FunctionBuilder[stdvalue.Value]) {
		in := rtype.Var("In")
		out := rtype.Var("Out")
		f.RequiredArg("each", rtype.ListOf(in))
		f.RequiredArg("do", rtype.BlockFromTo([]rtype.Type{in}, out))
		f.Returns(rtype.ListOf(out))
		f.Callback(func(a signature.Apply[stdvalue.Value], vm signature.Caller[stdvalue.Value]) (stdvalue.Value, error) {
			list, err := a.Args[0].Value.TryList()
			if err != nil {
				return stdvalue.Value{}, err
			}
			block := a.Args[1].Value
			out := make([]stdvalue.Value, 0, list.Len())
			for i := 0; i < list.Len(); i++ {
				item, _ := list.At(i)
				result, err := vm.EvalBlock(block, []stdvalue.Value{item})
				if err != nil {
					return stdvalue.Value{}, err
				}
				out = append(out, result)
			}
			return stdvalue.NewList(out), nil
		})
	})
	if err != nil {
		t.Fatalf("define each: %v", err)
	}

	return ns
}

func compile(t *testing.T, ns *signature.Namespace[stdvalue.Value], src string) *bytecode.Program {
	t.Helper()
	tree, err := syntax.Parse(ns, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	prog, err := bytecode.Compile(tree)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	return prog
}

// TestRunCalc checks that "calc: 2 plus: 2" evaluates to 4.
func TestRunCalc(t *testing.T) {
	ns := testNamespace(t)
	prog := compile(t, ns, "calc: 2 plus: 2")

	m := vm.New[stdvalue.Value](ns, stdvalue.Factory{}, prog)
	result, err := m.Run(nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	n, err := result.TryNumber()
	if err != nil || n != 4 {
		t.Fatalf("got %v, want 4", result)
	}
}

// TestRunCalcWithInputs checks that free variables x and y are resolved
// from the inputs map passed to Run.
func TestRunCalcWithInputs(t *testing.T) {
	ns := testNamespace(t)
	prog := compile(t, ns, "calc: x plus: y")

	m := vm.New[stdvalue.Value](ns, stdvalue.Factory{}, prog)
	result, err := m.Run(map[string]stdvalue.Value{
		"x": stdvalue.NewNumber(8),
		"y": stdvalue.NewNumber(4),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	n, _ := result.TryNumber()
	if n != 12 {
		t.Fatalf("got %v, want 12", result)
	}
}

// TestRunEachIdentityBlock checks that "each: [1 2 3] do: {x => x}"
// evaluates to [1 2 3].
func TestRunEachIdentityBlock(t *testing.T) {
	ns := testNamespace(t)
	prog := compile(t, ns, "each: [1 2 3] do: {x => x}")

	m := vm.New[stdvalue.Value](ns, stdvalue.Factory{}, prog)
	result, err := m.Run(nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := stdvalue.NewList([]stdvalue.Value{
		stdvalue.NewNumber(1), stdvalue.NewNumber(2), stdvalue.NewNumber(3),
	})
	if !result.Equal(want) {
		t.Fatalf("got %v, want %v", result, want)
	}
}

// TestStackDisciplineOnError exercises the stack-discipline property: after
// a failing Run, there is nothing left to observe (there is no way
// to inspect Machine internals from outside the package, so this instead
// checks that a second, independent Run against a fresh Machine for the
// same program still succeeds — i.e. nothing about the failed call could
// have corrupted shared, read-only program state).
func TestStackDisciplineOnError(t *testing.T) {
	ns := testNamespace(t)
	prog := compile(t, ns, "calc: x plus: y")

	bad := vm.New[stdvalue.Value](ns, stdvalue.Factory{}, prog)
	if _, err := bad.Run(map[string]stdvalue.Value{"x": stdvalue.NewNumber(1)}); err == nil {
		t.Fatalf("expected undefined-variable error for unbound y")
	}

	good := vm.New[stdvalue.Value](ns, stdvalue.Factory{}, prog)
	result, err := good.Run(map[string]stdvalue.Value{
		"x": stdvalue.NewNumber(1), "y": stdvalue.NewNumber(2),
	})
	if err != nil {
		t.Fatalf("run after prior failure: %v", err)
	}
	if n, _ := result.TryNumber(); n != 3 {
		t.Fatalf("got %v, want 3", result)
	}
}

// TestBlockFromOtherMachineRejected exercises the vm package's resolution
// of the raw-pointer back-reference hazard: a Block captured by one
// Machine cannot be called through another.
func TestBlockFromOtherMachineRejected(t *testing.T) {
	ns := testNamespace(t)
	blockProg := compile(t, ns, "{ x => x }")

	bm := vm.New[stdvalue.Value](ns, stdvalue.Factory{}, blockProg)
	blockValue, err := bm.Run(nil)
	if err != nil {
		t.Fatalf("run block literal: %v", err)
	}
	block, err := blockValue.TryBlock()
	if err != nil {
		t.Fatalf("not a block: %v", err)
	}

	other := vm.New[stdvalue.Value](ns, stdvalue.Factory{}, blockProg)
	if _, err := other.EvalBlock(block, []stdvalue.Value{stdvalue.NewNumber(1)}); err == nil {
		t.Fatalf("expected cross-machine block call to be rejected")
	}
}
