package syntax

import (
	"rainbow/rtype"
	"rainbow/signature"
)

// rewriteImplicitBlocks reconciles user syntax with function signatures:
// wrap a bare value into a synthetic 0-argument Block where the signature
// expects a Block, and unwrap a 0-argument Block into its body where the
// signature expects a plain value.
//
// This runs as a two-phase algorithm: first collect every Argument node
// that needs wrapping or unwrapping, then mutate. This tree stores children
// as plain NodeID slices on each node, so rewriting an Argument's value
// child is a direct slice assignment — there is no generic tree-surgery
// primitive here for a "lift children" removal op to corrupt sibling
// order in.
func rewriteImplicitBlocks[V any](tree *Tree, ns *signature.Namespace[V]) {
	var toWrap, toUnwrap []NodeID

	tree.Traverse(tree.Root, func(id NodeID) {
		node := tree.Node(id)
		if node.Type != NApply {
			return
		}
		funcName := firstArgumentKeyword(tree, node)
		sig, ok := ns.GetSignatureByName(funcName)
		if !ok {
			return // unknown function: left for the type checker to report
		}
		for _, argID := range node.Children {
			arg := tree.Node(argID)
			kw := tree.Node(arg.Children[0])
			kwName := tree.Symbols.Resolve(kw.SymID)
			sigArg, ok := sig.Arg(kwName)
			if !ok {
				continue // unknown keyword: left for the type checker to report
			}
			valID := arg.Children[1]
			val := tree.Node(valID)
			expectBlock := sigArg.Type.Kind() == rtype.KBlock
			isZeroArgBlock := val.Type == NBlock && len(val.Children) == 1

			switch {
			case expectBlock && val.Type != NBlock:
				toWrap = append(toWrap, argID)
			case !expectBlock && isZeroArgBlock:
				toUnwrap = append(toUnwrap, argID)
			}
		}
	})

	for _, argID := range toWrap {
		arg := tree.Node(argID)
		valID := arg.Children[1]
		val := tree.Node(valID)
		block := tree.newNode(NBlock, val.Start, val.End, valID)
		tree.Nodes[argID].Children[1] = block
	}
	for _, argID := range toUnwrap {
		arg := tree.Node(argID)
		blockID := arg.Children[1]
		block := tree.Node(blockID)
		body := block.Children[0]
		tree.Nodes[argID].Children[1] = body
	}
}

func firstArgumentKeyword(tree *Tree, apply NodeData) string {
	firstArg := tree.Node(apply.Children[0])
	kw := tree.Node(firstArg.Children[0])
	return tree.Symbols.Resolve(kw.SymID)
}
