package stdvalue

import "rainbow/value"

// Factory is the value.Factory[Value] witness vm.Machine uses to build
// results (PushPrimitive/MkList/MkRecord/MkBlock) when a host has not
// supplied its own Value representation.
type Factory struct{}

func (Factory) Number(f float64) Value            { return NewNumber(f) }
func (Factory) String(s string) Value             { return NewString(s) }
func (Factory) Bool(b bool) Value                 { return NewBool(b) }
func (Factory) Time(t uint64) Value               { return NewTime(t) }
func (Factory) List(items []Value) Value          { return NewList(items) }
func (Factory) Record(fields map[string]Value) Value { return NewRecord(fields) }
func (Factory) Block(b value.Block) Value         { return NewBlockValue(b) }
