package rtype

import "fmt"

// Satisfier is the minimal probe a runtime Value must support so
// SatisfiedBy can check it structurally without importing package value;
// keeping this probe-based rather than value.Value-typed keeps rtype
// leaf-level.
type Satisfier interface {
	AsBool() (bool, bool)
	AsNumber() (float64, bool)
	AsString() (string, bool)
	AsTime() (uint64, bool)
	AsList() ([]Satisfier, bool)
	AsRecord() (map[string]Satisfier, bool)
	AsBlock() (inputs int, ok bool)
}

// SatisfiedBy checks whether v has the shape t, recursively, returning a
// list of path-prefixed failure messages (empty means success).
func SatisfiedBy(t Type, v Satisfier) []string {
	return satisfiedByInner(t, v, "")
}

func satisfiedByInner(t Type, v Satisfier, path string) []string {
	fail := func(msg string) []string {
		if path == "" {
			return []string{msg}
		}
		return []string{path + ": " + msg}
	}

	switch t.kind {
	case KAny:
		return nil
	case KNever:
		return fail("value of type Never cannot exist")
	case KBool:
		if _, ok := v.AsBool(); !ok {
			return fail("expected Bool")
		}
		return nil
	case KNum:
		if _, ok := v.AsNumber(); !ok {
			return fail("expected Num")
		}
		return nil
	case KStr:
		if _, ok := v.AsString(); !ok {
			return fail("expected Str")
		}
		return nil
	case KTime:
		if _, ok := v.AsTime(); !ok {
			return fail("expected Time")
		}
		return nil
	case KMoney:
		return fail("money type is not ready yet")
	case KList:
		items, ok := v.AsList()
		if !ok {
			return fail("expected List")
		}
		var out []string
		for i, item := range items {
			out = append(out, satisfiedByInner(*t.elem, item, fmt.Sprintf("%s[%d]", path, i))...)
		}
		return out
	case KRecord:
		fields, ok := v.AsRecord()
		if !ok {
			return fail("expected Record")
		}
		var out []string
		for name, f := range t.fields {
			fv, present := fields[name]
			if !present {
				if !f.Optional {
					out = append(out, fail(fmt.Sprintf("missing field %q", name))...)
				}
				continue
			}
			sub := name
			if path != "" {
				sub = path + "." + name
			}
			out = append(out, satisfiedByInner(f.Type, fv, sub)...)
		}
		return out
	case KBlock:
		argc, ok := v.AsBlock()
		if !ok {
			return fail("expected Block")
		}
		if argc > len(t.inputs) {
			return fail(fmt.Sprintf("block expects at most %d arguments, value has %d", len(t.inputs), argc))
		}
		return nil
	case KVar:
		return fail(fmt.Sprintf("unresolved type variable %s", t.name))
	default:
		return fail("unknown type")
	}
}
