package check

import (
	"rainbow/rtype"
	"rainbow/signature"
	"rainbow/syntax"
)

// generator walks a syntax.Tree bottom-up, assigning each node a type (a
// mix of concrete types and fresh variables) and collecting Constraints
// between them. It never unifies anything itself — that's solve's job.
type generator[V any] struct {
	ns          *signature.Namespace[V]
	tree        *syntax.Tree
	fresh       FreshVars
	constraints []Constraint
	errors      []TypeError
}

// Generate produces the root node's type plus every constraint gathered
// while walking it, using env as the (initially empty) scope for free
// variables.
func Generate[V any](ns *signature.Namespace[V], tree *syntax.Tree, env *TypeEnv) (Type, []Constraint, []TypeError) {
	g := &generator[V]{ns: ns, tree: tree}
	root := g.node(env, tree.Root)
	return root, g.constraints, g.errors
}

func (g *generator[V]) constrain(left, right Type, node syntax.NodeID) {
	g.constraints = append(g.constraints, Constraint{Left: left, Right: right, Node: node})
}

func (g *generator[V]) node(env *TypeEnv, id syntax.NodeID) Type {
	n := g.tree.Node(id)
	switch n.Type {
	case syntax.NPrimitive:
		return g.tree.LookupConstant(n.ConstID).TypeOf()

	case syntax.NList:
		elem := g.fresh.Next()
		for _, c := range n.Children {
			ct := g.node(env, c)
			g.constrain(ct, elem, c)
		}
		return rtype.ListOf(elem)

	case syntax.NRecord:
		fields := map[string]rtype.Field{}
		for _, entryID := range n.Children {
			entry := g.tree.Node(entryID)
			keyID := entry.Children[0]
			valID := entry.Children[1]
			name := g.tree.Symbols.Resolve(g.tree.Node(keyID).SymID)
			ft := g.node(env, valID)
			fields[name] = rtype.Field{Type: ft}
		}
		return rtype.RecordFromFields(false, fields)

	case syntax.NVariable:
		return g.variable(env, n)

	case syntax.NBlock:
		return g.block(env, n)

	case syntax.NApply:
		return g.apply(env, id, n)

	default:
		// Root/Ident/Keyword/RecordEntry/Argument/BlockArgs never occur as
		// the value position of a node() call directly; they are only ever
		// consumed by their parent via n.Children indexing.
		return rtype.Any()
	}
}

// variable implements the dotted-path rule: the root identifier
// is bound to a fresh variable (or reused if already bound/undefined), and
// each subsequent path segment folds into a nested partial-record type
// constrained equal to the root's type; the node's own type is the
// innermost (leaf) fresh variable.
func (g *generator[V]) variable(env *TypeEnv, n syntax.NodeData) Type {
	rootName := g.tree.Symbols.Resolve(g.tree.Node(n.Children[0]).SymID)
	rootType := env.GetOrLetFresh(rootName, &g.fresh)

	if len(n.Children) == 1 {
		return rootType
	}

	segments := make([]string, 0, len(n.Children)-1)
	for _, c := range n.Children[1:] {
		segments = append(segments, g.tree.Symbols.Resolve(g.tree.Node(c).SymID))
	}

	leaf := g.fresh.Next()
	current := leaf
	for i := len(segments) - 1; i >= 0; i-- {
		current = rtype.RecordWithOneField(segments[i], current)
	}
	// Constrain at the Variable node itself (n has no NodeID field; the
	// caller node() holds it, but the root segment id is the closest node
	// to attribute this to).
	g.constrain(rootType, current, n.Children[0])
	return leaf
}

func (g *generator[V]) block(env *TypeEnv, n syntax.NodeData) Type {
	childEnv := env.Child()
	var argNames []string
	bodyIdx := len(n.Children) - 1

	if len(n.Children) == 2 {
		argsNode := g.tree.Node(n.Children[0])
		for _, argID := range argsNode.Children {
			argNames = append(argNames, g.tree.Symbols.Resolve(g.tree.Node(argID).SymID))
		}
	}

	argTypes := make([]Type, len(argNames))
	for i, name := range argNames {
		v := g.fresh.Next()
		childEnv.ExplicitlyDefine(name, v)
		argTypes[i] = v
	}

	bodyType := g.node(childEnv, n.Children[bodyIdx])
	return rtype.BlockFromTo(argTypes, bodyType)
}

func (g *generator[V]) apply(env *TypeEnv, id syntax.NodeID, n syntax.NodeData) Type {
	funcName := g.firstArgumentKeyword(n)
	sig, ok := g.ns.GetSignatureByName(funcName)
	if !ok {
		g.errors = append(g.errors, TypeError{Node: id, Code: UnknownFunction, FuncName: funcName})
		return rtype.Any()
	}

	// Fresh-instantiate the signature: every free type variable mentioned
	// in its argument types gets a substitution entry to a newly-minted
	// variable, so two calls to the same polymorphic function don't
	// accidentally share a variable.
	sigSubst := rtype.NewSubst()
	for _, a := range sig.Args {
		for name := range rtype.FreeVars(a.Type) {
			if _, bound := sigSubst.Get(name); !bound {
				sigSubst.Add(name, g.fresh.Next())
			}
		}
	}

	for _, argID := range n.Children {
		arg := g.tree.Node(argID)
		kwName := g.tree.Symbols.Resolve(g.tree.Node(arg.Children[0]).SymID)
		valID := arg.Children[1]

		sigArg, ok := sig.Arg(kwName)
		if !ok {
			g.errors = append(g.errors, TypeError{Node: argID, Code: UnknownKeyword, FuncName: funcName, FieldName: kwName})
			g.node(env, valID) // still walk it so nested errors surface
			continue
		}
		argType := g.node(env, valID)
		expected := sigSubst.Apply(sigArg.Type)
		g.constrain(argType, expected, argID)
	}

	out := g.fresh.Next()
	expectedReturn := sigSubst.Apply(sig.ReturnType)
	g.constrain(out, expectedReturn, id)
	return out
}

func (g *generator[V]) firstArgumentKeyword(apply syntax.NodeData) string {
	firstArg := g.tree.Node(apply.Children[0])
	kw := g.tree.Node(firstArg.Children[0])
	return g.tree.Symbols.Resolve(kw.SymID)
}
