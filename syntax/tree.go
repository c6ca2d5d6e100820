// Package syntax is Rainbow's grammar, parser, syntax tree, and the
// implicit-block rewrite pass. The tree is an arena of nodes addressed by
// NodeID rather than a recursive pointer/Visitor tree; the parser itself is
// a hand-rolled recursive-descent parser.
package syntax

import "rainbow/arena"

// NodeID addresses a node within a Tree's arena. Nodes are numbered in the
// order the parser builds them (children before their parent), so the
// top-level expression is found through Tree.Root, not at id 0.
type NodeID int

// NodeType tags the kind of syntax construct a node represents.
type NodeType int

const (
	NRoot NodeType = iota
	NPrimitive
	NIdent
	NKeyword
	NVariable
	NList
	NRecord
	NRecordEntry
	NApply
	NArgument
	NBlock
	NBlockArgs
)

func (t NodeType) String() string {
	switch t {
	case NRoot:
		return "Root"
	case NPrimitive:
		return "Primitive"
	case NIdent:
		return "Ident"
	case NKeyword:
		return "Keyword"
	case NVariable:
		return "Variable"
	case NList:
		return "List"
	case NRecord:
		return "Record"
	case NRecordEntry:
		return "RecordEntry"
	case NApply:
		return "Apply"
	case NArgument:
		return "Argument"
	case NBlock:
		return "Block"
	case NBlockArgs:
		return "BlockArgs"
	default:
		return "Unknown"
	}
}

// NodeData is the payload stored per node. Only the fields relevant to a
// node's NodeType are meaningful (e.g. ConstID is only set on NPrimitive).
type NodeData struct {
	Type     NodeType
	Start    int
	End      int
	ConstID  arena.ID // NPrimitive
	SymID    arena.ID // NIdent, NKeyword
	Children []NodeID
}

// Tree is the parsed (and, after rewrite, normalized) syntax tree for one
// compiled expression.
type Tree struct {
	Input     string
	Nodes     []NodeData
	Constants *arena.Arena[Prim]
	Symbols   *arena.Arena[string]
	Root      NodeID
}

func newTree(input string, symbols *arena.Arena[string]) *Tree {
	return &Tree{
		Input:     input,
		Constants: arena.New[Prim](),
		Symbols:   symbols,
	}
}

func (t *Tree) newNode(typ NodeType, start, end int, children ...NodeID) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, NodeData{
		Type:     typ,
		Start:    start,
		End:      end,
		Children: children,
	})
	return id
}

// Node returns the data for id. Callers within the compiler pipeline may
// rely on ids staying valid for the Tree's lifetime (nodes are never
// removed, only reparented by the implicit-block rewrite).
func (t *Tree) Node(id NodeID) NodeData {
	return t.Nodes[id]
}

// NodeStr returns the verbatim source text spanned by id.
func (t *Tree) NodeStr(id NodeID) string {
	n := t.Nodes[id]
	return t.Input[n.Start:n.End]
}

// Traverse visits every node reachable from root in pre-order.
func (t *Tree) Traverse(root NodeID, visit func(NodeID)) {
	visit(root)
	for _, c := range t.Nodes[root].Children {
		t.Traverse(c, visit)
	}
}

// InternConstant interns a literal constant for this tree.
func (t *Tree) InternConstant(p Prim) arena.ID {
	return t.Constants.Intern(p)
}

// LookupConstant resolves a previously interned constant.
func (t *Tree) LookupConstant(id arena.ID) Prim {
	return t.Constants.Resolve(id)
}
