package arena

import "testing"

func TestInternIdempotent(t *testing.T) {
	a := New[string]()
	id1 := a.Intern("foo")
	id2 := a.Intern("foo")
	if id1 != id2 {
		t.Fatalf("interning the same value twice gave different ids: %d != %d", id1, id2)
	}
	if a.Resolve(id1) != "foo" {
		t.Fatalf("resolve(intern(x)) != x")
	}
}

func TestInternDistinctValuesGetDistinctIDs(t *testing.T) {
	a := New[string]()
	foo := a.Intern("foo")
	bar := a.Intern("bar")
	if foo == bar {
		t.Fatalf("distinct values interned to the same id")
	}
	if a.Len() != 2 {
		t.Fatalf("expected 2 interned values, got %d", a.Len())
	}
}

func TestFindDoesNotIntern(t *testing.T) {
	a := New[string]()
	if _, ok := a.Find("missing"); ok {
		t.Fatalf("Find reported a value present before any Intern call")
	}
	if a.Len() != 0 {
		t.Fatalf("Find must not intern")
	}
}

func TestInsertionOrderIsStable(t *testing.T) {
	a := New[string]()
	ids := make([]ID, 0, 5)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, a.Intern(s))
	}
	for i, id := range ids {
		if int(id) != i {
			t.Fatalf("expected id %d for insertion order position %d, got %d", i, i, id)
		}
	}
}
