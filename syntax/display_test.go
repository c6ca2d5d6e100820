package syntax

import "testing"

func TestParseRoundTrip(t *testing.T) {
	ns := emptyNamespace()
	for _, src := range []string{
		`calc: 2 plus: 2`,
		`[ 1 2 3 ]`,
		`[ x = 3 y = "hello" ]`,
		`foo.bar.baz`,
	} {
		tree, err := Parse(ns, src)
		if err != nil {
			t.Fatalf("parse(%q) failed: %v", src, err)
		}
		printed := tree.String()
		reTree, err := Parse(ns, printed)
		if err != nil {
			t.Fatalf("reparsing printed form %q failed: %v", printed, err)
		}
		if got, want := structuralShape(reTree, reTree.Root), structuralShape(tree, tree.Root); got != want {
			t.Fatalf("round-trip shape mismatch for %q:\n printed: %q\n got:  %s\n want: %s", src, printed, got, want)
		}
	}
}
