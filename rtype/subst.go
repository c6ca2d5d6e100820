package rtype

// Subst maps type-variable names to the types they have been bound to. It
// is composed and applied throughout the solver, in the style of
// vito-dang/pkg/hm's Subs: a plain map with Apply/Compose/Clone.
type Subst map[string]Type

func NewSubst() Subst {
	return Subst{}
}

func (s Subst) Clone() Subst {
	cp := make(Subst, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp
}

func (s Subst) Get(name string) (Type, bool) {
	t, ok := s[name]
	return t, ok
}

func (s Subst) Add(name string, t Type) {
	s[name] = t
}

// Compose returns a substitution equivalent to applying s2 after s: every
// binding in s has s2 applied to its right-hand side, then any binding in
// s2 whose variable isn't already present in the result is added.
func (s Subst) Compose(s2 Subst) Subst {
	out := make(Subst, len(s)+len(s2))
	for k, v := range s {
		out[k] = s2.Apply(v)
	}
	for k, v := range s2 {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Apply substitutes every free variable in t that s binds, recursively.
func (s Subst) Apply(t Type) Type {
	switch t.kind {
	case KVar:
		if bound, ok := s[t.name]; ok {
			if bound.kind == KVar && bound.name == t.name {
				return t
			}
			return s.Apply(bound)
		}
		return t
	case KList:
		e := s.Apply(*t.elem)
		return ListOf(e)
	case KRecord:
		fields := make(map[string]Field, len(t.fields))
		for k, f := range t.fields {
			fields[k] = Field{Type: s.Apply(f.Type), Optional: f.Optional}
		}
		return RecordFromFields(t.partial, fields)
	case KBlock:
		ins := make([]Type, len(t.inputs))
		for i, in := range t.inputs {
			ins[i] = s.Apply(in)
		}
		out := s.Apply(*t.output)
		return BlockFromTo(ins, out)
	default:
		return t
	}
}

// FreeVars returns the set of type-variable names occurring free in t.
func FreeVars(t Type) map[string]bool {
	out := map[string]bool{}
	collectFreeVars(t, out)
	return out
}

func collectFreeVars(t Type, out map[string]bool) {
	switch t.kind {
	case KVar:
		out[t.name] = true
	case KList:
		collectFreeVars(*t.elem, out)
	case KRecord:
		for _, f := range t.fields {
			collectFreeVars(f.Type, out)
		}
	case KBlock:
		for _, in := range t.inputs {
			collectFreeVars(in, out)
		}
		collectFreeVars(*t.output, out)
	}
}

// ContainsVar is the occurs-check primitive: does t mention name anywhere?
func ContainsVar(t Type, name string) bool {
	return FreeVars(t)[name]
}

// FinalizeRecord recursively flips every partial record reachable from t to
// closed. This is the post-solve pass that turns row fragments produced
// during inference (field-access sites) into closed record types in the
// final substitution.
func FinalizeRecord(t Type) Type {
	switch t.kind {
	case KRecord:
		fields := make(map[string]Field, len(t.fields))
		for k, f := range t.fields {
			fields[k] = Field{Type: FinalizeRecord(f.Type), Optional: f.Optional}
		}
		return RecordFromFields(false, fields)
	case KList:
		return ListOf(FinalizeRecord(*t.elem))
	case KBlock:
		ins := make([]Type, len(t.inputs))
		for i, in := range t.inputs {
			ins[i] = FinalizeRecord(in)
		}
		return BlockFromTo(ins, FinalizeRecord(*t.output))
	default:
		return t
	}
}
