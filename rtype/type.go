// Package rtype is Rainbow's type model: primitives, lists, row-polymorphic
// records, block (closure) types, and type variables, plus the
// Hindley-Milner-style substitution machinery (Subst, FreeVars) that
// package check drives during inference.
//
// The substitution/free-var plumbing is adapted from the hm
// (Hindley-Milner) package's Substitutable pattern.
package rtype

import (
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the variants of Type.
type Kind int

const (
	KAny Kind = iota
	KNever
	KNum
	KStr
	KBool
	KTime
	KMoney
	KList
	KRecord
	KBlock
	KVar
)

// Field describes one named field of a Record type.
type Field struct {
	Type     Type
	Optional bool
}

// Type is Rainbow's algebraic type. Zero value is invalid; use the
// constructors below.
type Type struct {
	kind Kind

	// KList
	elem *Type

	// KRecord
	partial bool
	fields  map[string]Field

	// KBlock
	inputs []Type
	output *Type

	// KVar
	name string
}

func Any() Type   { return Type{kind: KAny} }
func Never() Type { return Type{kind: KNever} }
func Num() Type   { return Type{kind: KNum} }
func Str() Type   { return Type{kind: KStr} }
func Bool() Type  { return Type{kind: KBool} }
func Time() Type  { return Type{kind: KTime} }
func Money() Type { return Type{kind: KMoney} }

func ListOf(elem Type) Type {
	e := elem
	return Type{kind: KList, elem: &e}
}

// RecordFromFields builds a record type from an explicit field map. partial
// marks the record as a row fragment (open to further fields) rather than
// closed.
func RecordFromFields(partial bool, fields map[string]Field) Type {
	cp := make(map[string]Field, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Type{kind: KRecord, partial: partial, fields: cp}
}

// RecordWithOneField builds the partial single-field record type produced
// by a field-access constraint (e.g. `foo.bar` demands `foo : [ bar = T ]`).
func RecordWithOneField(name string, ty Type) Type {
	return RecordFromFields(true, map[string]Field{name: {Type: ty}})
}

func BlockFromTo(inputs []Type, output Type) Type {
	o := output
	ins := make([]Type, len(inputs))
	copy(ins, inputs)
	return Type{kind: KBlock, inputs: ins, output: &o}
}

func Var(name string) Type {
	return Type{kind: KVar, name: name}
}

// Quoted is sugar used by signature declarations for a zero-argument block
// yielding T, the shape an implicit-block argument (an "unevaluated"
// expression) takes.
func Quoted(out Type) Type {
	return BlockFromTo(nil, out)
}

func (t Type) Kind() Kind { return t.kind }

func (t Type) IsVar() bool {
	return t.kind == KVar
}

func (t Type) VarName() string {
	return t.name
}

func (t Type) Elem() Type {
	return *t.elem
}

func (t Type) Partial() bool {
	return t.partial
}

// Fields returns a copy of the record's field map.
func (t Type) Fields() map[string]Field {
	cp := make(map[string]Field, len(t.fields))
	for k, v := range t.fields {
		cp[k] = v
	}
	return cp
}

func (t Type) Field(name string) (Field, bool) {
	f, ok := t.fields[name]
	return f, ok
}

func (t Type) Inputs() []Type {
	cp := make([]Type, len(t.inputs))
	copy(cp, t.inputs)
	return cp
}

func (t Type) Output() Type {
	return *t.output
}

// Eq reports structural equality. Var equality is by name.
func (t Type) Eq(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KList:
		return t.elem.Eq(*o.elem)
	case KRecord:
		if t.partial != o.partial || len(t.fields) != len(o.fields) {
			return false
		}
		for k, f := range t.fields {
			of, ok := o.fields[k]
			if !ok || f.Optional != of.Optional || !f.Type.Eq(of.Type) {
				return false
			}
		}
		return true
	case KBlock:
		if len(t.inputs) != len(o.inputs) {
			return false
		}
		for i := range t.inputs {
			if !t.inputs[i].Eq(o.inputs[i]) {
				return false
			}
		}
		return t.output.Eq(*o.output)
	case KVar:
		return t.name == o.name
	default:
		return true
	}
}

// String renders the type in Rainbow's surface syntax: record fields are
// sorted with optional fields last, then alphabetically; blocks with no
// inputs print as "{ out }", otherwise "{ in1 in2 => out }".
func (t Type) String() string {
	switch t.kind {
	case KAny:
		return "Any"
	case KNever:
		return "Never"
	case KNum:
		return "Num"
	case KStr:
		return "Str"
	case KBool:
		return "Bool"
	case KTime:
		return "Time"
	case KMoney:
		return "Money"
	case KList:
		return fmt.Sprintf("List(%s)", t.elem.String())
	case KRecord:
		names := make([]string, 0, len(t.fields))
		for n := range t.fields {
			names = append(names, n)
		}
		sort.Slice(names, func(i, j int) bool {
			fi, fj := t.fields[names[i]], t.fields[names[j]]
			if fi.Optional != fj.Optional {
				return !fi.Optional
			}
			return names[i] < names[j]
		})
		var b strings.Builder
		b.WriteString("[ ")
		for _, n := range names {
			f := t.fields[n]
			b.WriteString(n)
			if f.Optional {
				b.WriteString("?")
			}
			b.WriteString(" = ")
			b.WriteString(f.Type.String())
			b.WriteString(" ")
		}
		b.WriteString("]")
		return b.String()
	case KBlock:
		var b strings.Builder
		b.WriteString("{ ")
		for _, in := range t.inputs {
			b.WriteString(in.String())
			b.WriteString(" ")
		}
		if len(t.inputs) > 0 {
			b.WriteString("=> ")
		}
		b.WriteString(t.output.String())
		b.WriteString(" }")
		return b.String()
	case KVar:
		return t.name
	default:
		return "?"
	}
}
