package bytecode

import (
	"rainbow/internal/rberrors"
	"rainbow/syntax"
)

// emitter walks a syntax.Tree and produces a flat instruction vector by
// lowering each node kind to its own small instruction sequence.
type emitter struct {
	tree         *syntax.Tree
	instructions []Instruction
}

// Emit lowers tree to an instruction vector. The tree has no synthetic
// Root wrapper node (Tree.Root addresses the parsed expression directly),
// so this just lowers the root expression once.
func Emit(tree *syntax.Tree) ([]Instruction, error) {
	e := &emitter{tree: tree}
	if err := e.node(tree.Root); err != nil {
		return nil, err
	}
	return e.instructions, nil
}

func (e *emitter) push(i Instruction) {
	e.instructions = append(e.instructions, i)
}

func (e *emitter) node(id syntax.NodeID) error {
	n := e.tree.Node(id)
	switch n.Type {
	case syntax.NPrimitive:
		e.push(Instruction{Op: OpPushPrimitive, ConstID: n.ConstID})

	case syntax.NList:
		for _, c := range n.Children {
			if err := e.node(c); err != nil {
				return err
			}
		}
		e.push(Instruction{Op: OpMkList, Count: uint16(len(n.Children))})

	case syntax.NRecord:
		for _, entryID := range n.Children {
			entry := e.tree.Node(entryID)
			if len(entry.Children) != 2 {
				return e.internal(entryID, "record entry must have exactly two children")
			}
			kw := e.tree.Node(entry.Children[0])
			e.push(Instruction{Op: OpPushKeyword, SymID: kw.SymID})
			if err := e.node(entry.Children[1]); err != nil {
				return err
			}
		}
		e.push(Instruction{Op: OpMkRecord, Count: uint16(len(n.Children))})

	case syntax.NVariable:
		if len(n.Children) == 0 {
			return e.internal(id, "variable node has no path segments")
		}
		root := e.tree.Node(n.Children[0])
		e.push(Instruction{Op: OpPushVar, SymID: root.SymID})
		for _, segID := range n.Children[1:] {
			seg := e.tree.Node(segID)
			e.push(Instruction{Op: OpPushProp, SymID: seg.SymID})
		}

	case syntax.NBlock:
		return e.block(id, n)

	case syntax.NApply:
		if len(n.Children) == 0 {
			return e.internal(id, "apply node has no arguments")
		}
		for _, argID := range n.Children {
			arg := e.tree.Node(argID)
			if len(arg.Children) != 2 {
				return e.internal(argID, "argument node must have exactly two children")
			}
			kw := e.tree.Node(arg.Children[0])
			e.push(Instruction{Op: OpPushKeyword, SymID: kw.SymID})
			if err := e.node(arg.Children[1]); err != nil {
				return err
			}
		}
		e.push(Instruction{Op: OpCallFunction, Count: uint16(len(n.Children))})

	default:
		// Root/Ident/Keyword/RecordEntry/Argument/BlockArgs emit nothing on
		// their own; they are only ever reached through a parent's explicit
		// Children indexing above.
	}
	return nil
}

// block reserves an MkBlock slot at index j, emits a Bind per declared
// argument (in source order), emits the body, and patches the reserved
// slot with the body's argument count and its skip distance — the number
// of instructions between the slot and the first one after the body.
func (e *emitter) block(id syntax.NodeID, n syntax.NodeData) error {
	if len(n.Children) != 1 && len(n.Children) != 2 {
		return e.internal(id, "block node must have one or two children")
	}

	j := len(e.instructions)
	e.push(Instruction{Op: OpMkBlock})

	var argc int
	bodyIdx := len(n.Children) - 1
	if len(n.Children) == 2 {
		argsNode := e.tree.Node(n.Children[0])
		argc = len(argsNode.Children)
		for _, argID := range argsNode.Children {
			a := e.tree.Node(argID)
			e.push(Instruction{Op: OpBind, SymID: a.SymID})
		}
	}

	if err := e.node(n.Children[bodyIdx]); err != nil {
		return err
	}

	skip := len(e.instructions) - (j + 1)
	e.instructions[j].BlockArgc = uint8(argc)
	e.instructions[j].BlockSkip = uint16(skip)
	return nil
}

func (e *emitter) internal(id syntax.NodeID, info string) error {
	_ = id
	return rberrors.NewCompileError(&rberrors.InternalTreeError{Stage: rberrors.StageEmit, Info: info})
}
