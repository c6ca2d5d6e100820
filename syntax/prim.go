package syntax

import (
	"fmt"

	"rainbow/rtype"
)

// PrimKind discriminates the literal forms the grammar actually produces.
// Time and Money have no literal syntax — only number/string/bool are
// literals — so they are not represented here.
type PrimKind int

const (
	PrimNumber PrimKind = iota
	PrimString
	PrimBool
)

// Prim is one interned constant: a number, string, or boolean literal from
// source text.
type Prim struct {
	Kind PrimKind
	Num  float64
	Str  string
	Bool bool
}

// TypeOf returns the constant's intrinsic rtype.Type.
func (p Prim) TypeOf() rtype.Type {
	switch p.Kind {
	case PrimNumber:
		return rtype.Num()
	case PrimString:
		return rtype.Str()
	case PrimBool:
		return rtype.Bool()
	default:
		return rtype.Any()
	}
}

func (p Prim) String() string {
	switch p.Kind {
	case PrimNumber:
		return fmt.Sprintf("%g", p.Num)
	case PrimString:
		return fmt.Sprintf("%q", p.Str)
	case PrimBool:
		if p.Bool {
			return "true"
		}
		return "false"
	default:
		return "?"
	}
}
