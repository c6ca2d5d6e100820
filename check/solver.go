package check

import (
	"rainbow/rtype"
	"rainbow/syntax"
)

// solver accumulates a substitution by unifying constraints one at a time,
// applying everything learned so far to each new constraint before
// unifying it.
type solver struct {
	subst  rtype.Subst
	errors []TypeError
}

func solve(constraints []Constraint) (rtype.Subst, []TypeError) {
	sortConstraints(constraints)
	s := &solver{subst: rtype.NewSubst()}
	for _, c := range constraints {
		l := s.subst.Apply(c.Left)
		r := s.subst.Apply(c.Right)
		s.unify(l, r, c.Node, nil)
	}
	return s.subst, s.errors
}

func (s *solver) fail(e TypeError) {
	s.errors = append(s.errors, e)
}

// unify demands l and r describe the same type, recording any bindings
// into s.subst and any conflict into s.errors, and returns the unified
// type (the type callers should treat as the shared, merged result of l
// and r — not necessarily identical to either). By convention (inherited
// from how Generate builds constraints) l is the inferred/actual side and
// r is the expected/declared side.
func (s *solver) unify(l, r Type, node syntax.NodeID, path []PathStep) Type {
	l, r = s.subst.Apply(l), s.subst.Apply(r)
	if l.Eq(r) {
		return l
	}
	if l.Kind() == rtype.KVar {
		return s.bind(l.VarName(), r, node, path)
	}
	if r.Kind() == rtype.KVar {
		return s.bind(r.VarName(), l, node, path)
	}
	if l.Kind() == rtype.KAny {
		return r
	}
	if r.Kind() == rtype.KAny {
		return l
	}
	if l.Kind() != r.Kind() {
		s.fail(TypeError{Node: node, Code: Incompatible, Left: l, Right: r, Path: path})
		return l
	}
	switch l.Kind() {
	case rtype.KList:
		elem := s.unify(l.Elem(), r.Elem(), node, append(path, PathStep{Kind: PathListElement}))
		return rtype.ListOf(elem)
	case rtype.KRecord:
		return s.unifyRecords(l, r, node, path)
	case rtype.KBlock:
		return s.unifyBlocks(l, r, node, path)
	default:
		// Num/Str/Bool/Time/Money/Never: already equal Kind means equal.
		return l
	}
}

// bind records name = t, unless name is already bound to something else —
// in which case the conflict is reported as AlreadyBound{old:T', new:T}
// rather than unified further. Returns the type name now resolves to.
func (s *solver) bind(name string, t Type, node syntax.NodeID, path []PathStep) Type {
	if t.Kind() == rtype.KVar && t.VarName() == name {
		return t
	}
	if rtype.ContainsVar(t, name) {
		s.fail(TypeError{Node: node, Code: InfiniteType, VarName: name, New: t, Path: path})
		return t
	}
	if existing, ok := s.subst.Get(name); ok {
		resolved := s.subst.Apply(existing)
		incoming := s.subst.Apply(t)
		if resolved.Eq(incoming) {
			return resolved
		}
		s.fail(TypeError{Node: node, Code: AlreadyBound, VarName: name, Old: resolved, New: incoming, Path: path})
		return resolved
	}
	s.subst.Add(name, t)
	return t
}

// unifyRecords performs a field-wise merge: every left field tries to find
// its match on the right, and where both sides have the field its types
// are recursively unified so nested records/lists-of-records merge rather
// than one side's shape being silently dropped; a left-partial record
// tolerates right-only fields; the merged record's partial flag is the
// left's. Afterward, any variable currently bound to exactly l or r (by
// value) is rebound to the merged type, so a variable that picked up a
// partial record early on accumulates fields as later constraints reveal
// them. Returns the merged record type.
func (s *solver) unifyRecords(l, r Type, node syntax.NodeID, path []PathStep) Type {
	lf, rf := l.Fields(), r.Fields()
	merged := make(map[string]rtype.Field, len(lf)+len(rf))

	for name, lField := range lf {
		fieldPath := append(append([]PathStep{}, path...), PathStep{Kind: PathField, FieldName: name})
		rField, ok := rf[name]
		if !ok {
			if !lField.Optional && !r.Partial() {
				s.fail(TypeError{Node: node, Code: FieldMissing, FieldName: name, Path: fieldPath})
			}
			merged[name] = lField
			continue
		}
		if !lField.Optional && rField.Optional {
			s.fail(TypeError{Node: node, Code: FieldOptional, FieldName: name, Path: fieldPath})
		}
		ft := s.unify(lField.Type, rField.Type, node, fieldPath)
		merged[name] = rtype.Field{Type: ft, Optional: lField.Optional && rField.Optional}
	}
	if l.Partial() {
		for name, rField := range rf {
			if _, ok := lf[name]; !ok {
				merged[name] = rField
			}
		}
	}

	mergedType := rtype.RecordFromFields(l.Partial(), merged)
	s.rebind(l, mergedType)
	s.rebind(r, mergedType)
	return mergedType
}

func (s *solver) rebind(old, merged Type) {
	for name, v := range s.subst {
		if v.Eq(old) {
			s.subst.Add(name, merged)
		}
	}
}

// unifyBlocks pairs block argument types in *reversed* left/right order:
// block parameter types are contravariant, so the expected side's input
// unifies against the actual side's input with roles swapped from every
// other recursive call in this solver. Output position is unified
// normally (covariant). Returns the unified block type.
func (s *solver) unifyBlocks(l, r Type, node syntax.NodeID, path []PathStep) Type {
	li, ri := l.Inputs(), r.Inputs()
	if len(li) > len(ri) {
		s.fail(TypeError{Node: node, Code: BlockArity, Expected: len(ri), Actual: len(li), Path: path})
		return l
	}
	inputs := make([]Type, len(ri))
	copy(inputs, ri)
	for i := range li {
		inputs[i] = s.unify(ri[i], li[i], node, append(path, PathStep{Kind: PathBlockArg, ArgIndex: i}))
	}
	output := s.unify(l.Output(), r.Output(), node, append(path, PathStep{Kind: PathBlockBody}))
	return rtype.BlockFromTo(inputs, output)
}
