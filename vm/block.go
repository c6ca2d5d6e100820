package vm

import "github.com/google/uuid"

// Block is a handle into the instructions of the Machine that produced it:
// an instruction offset, an instruction count, and an arity. It
// satisfies value.Block (Arity() only) so it can travel as an opaque
// payload inside a host's Value implementation; the vm package is the only
// place that ever type-asserts a value.Block back down to a concrete Block
// to actually call it, via Machine.EvalBlock.
type Block struct {
	MachineID uuid.UUID
	IP        int
	Size      int
	Argc      int
}

// Arity reports the number of positional arguments this block accepts.
func (b Block) Arity() int {
	return b.Argc
}
