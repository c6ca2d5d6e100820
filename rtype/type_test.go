package rtype

import "testing"

func TestRecordDisplaySortsOptionalLast(t *testing.T) {
	ty := RecordFromFields(false, map[string]Field{
		"baz": {Type: Num(), Optional: true},
		"bar": {Type: Str()},
		"apx": {Type: Bool(), Optional: true},
	})
	got := ty.String()
	want := "[ bar = Str apx? = Bool baz? = Num ]"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBlockDisplay(t *testing.T) {
	noArgs := BlockFromTo(nil, Num())
	if got, want := noArgs.String(), "{ Num }"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	withArgs := BlockFromTo([]Type{Num(), Str()}, Bool())
	if got, want := withArgs.String(), "{ Num Str => Bool }"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSubstApplyResolvesChains(t *testing.T) {
	s := NewSubst()
	s.Add("a", Var("b"))
	s.Add("b", Num())
	got := s.Apply(Var("a"))
	if !got.Eq(Num()) {
		t.Fatalf("expected chained substitution to resolve to Num, got %s", got)
	}
}

func TestSubstApplyRecursesIntoStructure(t *testing.T) {
	s := NewSubst()
	s.Add("elem", Str())
	list := ListOf(Var("elem"))
	got := s.Apply(list)
	if !got.Eq(ListOf(Str())) {
		t.Fatalf("expected List(Str), got %s", got)
	}
}

func TestFreeVars(t *testing.T) {
	ty := RecordFromFields(true, map[string]Field{
		"x": {Type: Var("a")},
		"y": {Type: ListOf(Var("b"))},
	})
	fv := FreeVars(ty)
	if !fv["a"] || !fv["b"] {
		t.Fatalf("expected free vars a and b, got %v", fv)
	}
}

func TestFinalizeRecordClosesPartialRecords(t *testing.T) {
	partial := RecordWithOneField("bar", Num())
	if !partial.Partial() {
		t.Fatalf("precondition: record should start partial")
	}
	closed := FinalizeRecord(partial)
	if closed.Partial() {
		t.Fatalf("expected finalize to close the partial record")
	}
}

func TestContainsVarOccursCheck(t *testing.T) {
	ty := ListOf(Var("a"))
	if !ContainsVar(ty, "a") {
		t.Fatalf("expected occurs-check to find a inside List(a)")
	}
	if ContainsVar(ty, "b") {
		t.Fatalf("unexpected occurs-check hit for unrelated variable")
	}
}
