package syntax

import "strings"

// String renders the tree back to canonical Rainbow syntax, starting from
// Root. It is used by the parse round-trip property.
func (t *Tree) String() string {
	var b strings.Builder
	t.print(&b, t.Root)
	return b.String()
}

func (t *Tree) print(b *strings.Builder, id NodeID) {
	n := t.Node(id)
	switch n.Type {
	case NPrimitive:
		b.WriteString(t.LookupConstant(n.ConstID).String())
	case NIdent:
		b.WriteString(t.Symbols.Resolve(n.SymID))
	case NKeyword:
		b.WriteString(t.Symbols.Resolve(n.SymID))
		b.WriteString(":")
	case NVariable:
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(".")
			}
			t.print(b, c)
		}
	case NList:
		b.WriteString("[ ")
		for _, c := range n.Children {
			t.print(b, c)
			b.WriteString(" ")
		}
		b.WriteString("]")
	case NRecord:
		b.WriteString("[ ")
		for _, c := range n.Children {
			t.print(b, c)
			b.WriteString(" ")
		}
		b.WriteString("]")
	case NRecordEntry:
		t.print(b, n.Children[0])
		b.WriteString(" = ")
		t.print(b, n.Children[1])
	case NApply:
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(" ")
			}
			t.print(b, c)
		}
	case NArgument:
		t.print(b, n.Children[0])
		b.WriteString(" ")
		t.print(b, n.Children[1])
	case NBlock:
		b.WriteString("{ ")
		for _, c := range n.Children {
			t.print(b, c)
			b.WriteString(" ")
		}
		b.WriteString("}")
	case NBlockArgs:
		for _, c := range n.Children {
			t.print(b, c)
			b.WriteString(" ")
		}
		b.WriteString("=>")
	}
}
