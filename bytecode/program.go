package bytecode

import (
	"rainbow/arena"
	"rainbow/syntax"
)

// Program is a compiled, read-only artifact the vm package executes:
// instructions plus the two interners their operands index into. It shares
// the producing Tree's arenas rather than copying them — both are
// append-only and never mutated after parsing.
type Program struct {
	Instructions []Instruction
	Constants    *arena.Arena[syntax.Prim]
	Symbols      *arena.Arena[string]
}

// Compile runs the emitter over tree and packages the result as a
// Program.
func Compile(tree *syntax.Tree) (*Program, error) {
	instructions, err := Emit(tree)
	if err != nil {
		return nil, err
	}
	return &Program{
		Instructions: instructions,
		Constants:    tree.Constants,
		Symbols:      tree.Symbols,
	}, nil
}
