package check

import (
	"sort"

	"rainbow/rtype"
	"rainbow/syntax"
)

// Constraint demands that Left and Right unify to the same type; Node
// records where in the tree the demand arose, for error reporting.
type Constraint struct {
	Left, Right Type
	Node        syntax.NodeID
}

// sortConstraints orders constraints by ascending total free-variable
// count (Left plus Right) so the solver resolves the most-concrete
// constraints first. SliceStable keeps generation order as the tiebreaker.
func sortConstraints(cs []Constraint) {
	sort.SliceStable(cs, func(i, j int) bool {
		return constraintWeight(cs[i]) < constraintWeight(cs[j])
	})
}

func constraintWeight(c Constraint) int {
	return len(rtype.FreeVars(c.Left)) + len(rtype.FreeVars(c.Right))
}
