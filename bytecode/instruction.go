package bytecode

import (
	"fmt"

	"rainbow/arena"
)

// Instruction is one bytecode op plus whichever of its operands apply
// (most instructions use only one or two of these fields — see the field
// comments). Rainbow keeps a typed instruction vector rather than a raw
// byte stream: there is no reason to pay an encode/decode cost a single
// host process never needs.
type Instruction struct {
	Op OpCode

	ConstID arena.ID // PushPrimitive
	SymID   arena.ID // PushVar, PushProp, PushKeyword, Bind

	Count uint16 // MkList/MkRecord size, CallFunction argc

	BlockArgc uint8  // MkBlock
	BlockSkip uint16 // MkBlock: bytes (instruction count) to skip over the body
}

func (i Instruction) String() string {
	switch i.Op {
	case OpPushPrimitive:
		return fmt.Sprintf("PushPrimitive(%d)", i.ConstID)
	case OpPushVar, OpPushProp, OpPushKeyword, OpBind:
		return fmt.Sprintf("%s(%d)", i.Op, i.SymID)
	case OpMkList, OpMkRecord, OpCallFunction:
		return fmt.Sprintf("%s(%d)", i.Op, i.Count)
	case OpMkBlock:
		return fmt.Sprintf("MkBlock(argc=%d, skip=%d)", i.BlockArgc, i.BlockSkip)
	default:
		return i.Op.String()
	}
}
