// Package stdvalue is the standalone witness of value.Value: a concrete
// tagged-union Value a host can use as-is when it has no Value
// representation of its own to plug in. It has Prim/List/Record/Block
// variants, a type_of accessor, and a Display string form; Money has no
// runtime constructor on purpose (see the Money decision in DESIGN.md). It
// is expressed as a Go tagged struct (a kind tag plus payload fields)
// rather than an interface{}-heavy value layer.
package stdvalue

import (
	"fmt"
	"sort"
	"strings"

	"rainbow/rtype"
	"rainbow/value"

	"github.com/pkg/errors"
)

type kind int

const (
	kindBool kind = iota
	kindNumber
	kindString
	kindTime
	kindList
	kindRecord
	kindBlock
)

// Value is Rainbow's default, host-agnostic value representation.
type Value struct {
	kind kind

	b    bool
	n    float64
	s    string
	t    uint64
	list []Value
	rec  map[string]Value
	blk  value.Block
}

// NewBool, NewNumber, NewString, and NewTime wrap a primitive as a Value.
func NewBool(b bool) Value     { return Value{kind: kindBool, b: b} }
func NewNumber(n float64) Value { return Value{kind: kindNumber, n: n} }
func NewString(s string) Value { return Value{kind: kindString, s: s} }
func NewTime(t uint64) Value   { return Value{kind: kindTime, t: t} }

// NewList builds a list Value, copying items so the caller's backing array
// may be reused (Values are immutable from the language's perspective).
func NewList(items []Value) Value {
	cp := append([]Value(nil), items...)
	return Value{kind: kindList, list: cp}
}

// NewRecord builds a record Value, copying fields for the same reason.
func NewRecord(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{kind: kindRecord, rec: cp}
}

// NewBlockValue wraps a vm.Block (or any other value.Block) as a Value.
func NewBlockValue(b value.Block) Value {
	return Value{kind: kindBlock, blk: b}
}

// Default returns the zero Value: boolean false.
func Default() Value { return NewBool(false) }

func (v Value) TryBool() (bool, error) {
	if v.kind != kindBool {
		return false, errors.Errorf("%s is not a boolean", v)
	}
	return v.b, nil
}

func (v Value) TryNumber() (float64, error) {
	if v.kind != kindNumber {
		return 0, errors.Errorf("%s is not a number", v)
	}
	return v.n, nil
}

func (v Value) TryString() (string, error) {
	if v.kind != kindString {
		return "", errors.Errorf("%s is not a string", v)
	}
	return v.s, nil
}

func (v Value) TryTime() (uint64, error) {
	if v.kind != kindTime {
		return 0, errors.Errorf("%s is not a time", v)
	}
	return v.t, nil
}

func (v Value) TryList() (value.List[Value], error) {
	if v.kind != kindList {
		return nil, errors.Errorf("%s is not a list", v)
	}
	return listView{items: v.list}, nil
}

func (v Value) TryRecord() (value.Record[Value], error) {
	if v.kind != kindRecord {
		return nil, errors.Errorf("%s is not a record", v)
	}
	return recordView{fields: v.rec}, nil
}

func (v Value) TryBlock() (value.Block, error) {
	if v.kind != kindBlock {
		return nil, errors.Errorf("%s is not a block", v)
	}
	return v.blk, nil
}

// Callable reports whether TryBlock would succeed.
func (v Value) Callable() bool {
	return v.kind == kindBlock
}

// TryCall evaluates the receiver as a block against vm, if it is one.
func (v Value) TryCall(vm value.Caller[Value], args []Value) (Value, error) {
	b, err := v.TryBlock()
	if err != nil {
		return Value{}, err
	}
	return vm.EvalBlock(b, args)
}

// TypeOf reports the runtime rtype.Type of v: an empty list types as
// List(Any); blocks (which carry no
// declared signature of their own once reduced to a bare handle) type as
// the maximally permissive zero-arg block.
func (v Value) TypeOf() rtype.Type {
	switch v.kind {
	case kindBool:
		return rtype.Bool()
	case kindNumber:
		return rtype.Num()
	case kindString:
		return rtype.Str()
	case kindTime:
		return rtype.Time()
	case kindList:
		if len(v.list) == 0 {
			return rtype.ListOf(rtype.Any())
		}
		return rtype.ListOf(v.list[0].TypeOf())
	case kindRecord:
		fields := make(map[string]rtype.Field, len(v.rec))
		for name, fv := range v.rec {
			fields[name] = rtype.Field{Type: fv.TypeOf()}
		}
		return rtype.RecordFromFields(false, fields)
	case kindBlock:
		return rtype.BlockFromTo(nil, rtype.Any())
	default:
		return rtype.Any()
	}
}

// String renders v as "[ k1 = v1 k2 = v2 ]" for records (fields sorted
// here for deterministic output), "[ v1 v2 ]" for lists.
func (v Value) String() string {
	switch v.kind {
	case kindBool:
		if v.b {
			return "true"
		}
		return "false"
	case kindNumber:
		return fmt.Sprintf("%g", v.n)
	case kindString:
		return v.s
	case kindTime:
		return fmt.Sprintf("%d", v.t)
	case kindList:
		var b strings.Builder
		b.WriteString("[ ")
		for _, item := range v.list {
			b.WriteString(item.String())
			b.WriteString(" ")
		}
		b.WriteString("]")
		return b.String()
	case kindRecord:
		names := make([]string, 0, len(v.rec))
		for n := range v.rec {
			names = append(names, n)
		}
		sort.Strings(names)
		var b strings.Builder
		b.WriteString("[ ")
		for _, n := range names {
			fmt.Fprintf(&b, "%s = %s ", n, v.rec[n])
		}
		b.WriteString("]")
		return b.String()
	case kindBlock:
		return fmt.Sprintf("<block arity=%d>", v.blk.Arity())
	default:
		return "?"
	}
}

// Equal reports deep value equality, the counterpart of the original
// source's derived PartialEq. Blocks compare equal only by identity (the
// arity and owning machine are all a value.Block actually exposes).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindBool:
		return v.b == o.b
	case kindNumber:
		return v.n == o.n
	case kindString:
		return v.s == o.s
	case kindTime:
		return v.t == o.t
	case kindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case kindRecord:
		if len(v.rec) != len(o.rec) {
			return false
		}
		for k, fv := range v.rec {
			ov, ok := o.rec[k]
			if !ok || !fv.Equal(ov) {
				return false
			}
		}
		return true
	case kindBlock:
		return v.blk == o.blk
	default:
		return false
	}
}

// listView is the value.List[Value] witness for a list Value.
type listView struct {
	items []Value
}

func (l listView) Len() int { return len(l.items) }

func (l listView) At(idx int) (Value, bool) {
	if idx < 0 || idx >= len(l.items) {
		return Value{}, false
	}
	return l.items[idx], true
}

// recordView is the value.Record[Value] witness for a record Value.
type recordView struct {
	fields map[string]Value
}

func (r recordView) At(key string) (Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}
