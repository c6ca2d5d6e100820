// Package vm is Rainbow's stack-based interpreter: a fixed register set —
// instruction pointer, the program's read-only instruction and
// constant/symbol slices, a bindings stack, a value stack, and a keyword
// stack — that executes a compiled bytecode.Program against a host
// signature.Namespace and caller-supplied input bindings.
//
// The register set, step dispatch, and eval_block save/restore discipline
// are deliberately minimal: there is exactly one EvalBlock path, no
// duplicated branch for re-entering a block. This is a single-expression
// evaluator, not a general-purpose VM — there are no globals, call frames,
// a call cache, modules, or goroutine/channel support to maintain.
package vm

import (
	"fmt"

	"rainbow/arena"
	"rainbow/bytecode"
	"rainbow/internal/rberrors"
	"rainbow/signature"
	"rainbow/syntax"
	"rainbow/value"

	"github.com/google/uuid"
)

// binding is one (symbol, value) pair on the bindings stack.
type binding[V any] struct {
	Sym arena.ID
	Val V
}

// Machine executes one compiled Program. A Machine is single-use in the
// sense that Run binds inputs and drives instructions 0..n, but a Machine
// also outlives that single Run call for as long as any Block it produced
// remains callable — EvalBlock re-enters the same Machine on a nested
// instruction range: a block borrows the VM that produced it.
type Machine[V value.Value[V]] struct {
	// Program data — read-only for the Machine's lifetime.
	instructions []bytecode.Instruction
	constants    *arena.Arena[syntax.Prim]
	symbols      *arena.Arena[string]
	ns           *signature.Namespace[V]
	factory      value.Factory[V]

	// Mutable execution state — exclusively owned by this Machine.
	ip           int
	valueStack   []V
	keywordStack []arena.ID
	bindings     []binding[V]

	// Identity — stamped once, checked on every EvalBlock. Resolves the
	// raw machine-pointer lifetime hazard with an equality check instead
	// of an unsafe back-reference.
	id uuid.UUID
}

// New builds a Machine ready to run prog against ns, using factory to
// construct the Values that PushPrimitive/MkList/MkRecord/MkBlock produce.
func New[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V], prog *bytecode.Program) *Machine[V] {
	return &Machine[V]{
		instructions: prog.Instructions,
		constants:    prog.Constants,
		symbols:      prog.Symbols,
		ns:           ns,
		factory:      factory,
		id:           uuid.New(),
	}
}

// Run executes instructions [0, n) against inputs and pops the single
// resulting value. inputs that name a symbol never
// referenced anywhere in the program are silently ignored — there is no
// binding slot for them to occupy.
func (m *Machine[V]) Run(inputs map[string]V) (V, error) {
	var zero V
	for name, val := range inputs {
		id, ok := m.symbols.Find(name)
		if !ok {
			continue
		}
		m.bindings = append(m.bindings, binding[V]{Sym: id, Val: val})
	}

	m.ip = 0
	if err := m.exec(len(m.instructions)); err != nil {
		return zero, err
	}
	return m.pop()
}

// EvalBlock implements value.Caller[V]: it is how a Value's TryCall (and,
// transitively, a host Callback via blockCaller) re-enters this Machine to
// invoke a block handle. It snapshots the instruction pointer and all
// three stack lengths, pushes args, executes the block's
// instruction range, pops one result, and restores the snapshot on every
// exit path — normal or error — so a caller that swallows the error (a
// try/or-style prelude function) can keep using this Machine afterward.
func (m *Machine[V]) EvalBlock(block value.Block, args []V) (V, error) {
	var zero V
	b, ok := block.(Block)
	if !ok {
		return zero, m.errorf(rberrors.Undefined, "value is not a block produced by this machine")
	}
	if b.MachineID != m.id {
		return zero, m.errorf(rberrors.Undefined, "block called outside the machine that created it")
	}

	savedIP := m.ip
	savedValueLen := len(m.valueStack)
	savedKeywordLen := len(m.keywordStack)
	savedBindingLen := len(m.bindings)
	restore := func() {
		m.ip = savedIP
		m.valueStack = m.valueStack[:savedValueLen]
		m.keywordStack = m.keywordStack[:savedKeywordLen]
		m.bindings = m.bindings[:savedBindingLen]
	}

	m.valueStack = append(m.valueStack, args...)
	m.ip = b.IP
	if err := m.exec(b.IP + b.Size); err != nil {
		restore()
		return zero, err
	}
	result, err := m.pop()
	restore()
	if err != nil {
		return zero, err
	}
	return result, nil
}

// exec drives step() until ip reaches end.
func (m *Machine[V]) exec(end int) error {
	for m.ip < end {
		instr := m.instructions[m.ip]
		m.ip++
		if err := m.step(instr); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine[V]) step(instr bytecode.Instruction) error {
	switch instr.Op {
	case bytecode.OpPushPrimitive:
		m.valueStack = append(m.valueStack, m.primValue(m.constants.Resolve(instr.ConstID)))

	case bytecode.OpPushVar:
		v, ok := m.lookup(instr.SymID)
		if !ok {
			return m.errorf(rberrors.Undefined, "undefined variable %q", m.symbols.Resolve(instr.SymID))
		}
		m.valueStack = append(m.valueStack, v)

	case bytecode.OpPushProp:
		rec, err := m.pop()
		if err != nil {
			return err
		}
		r, terr := rec.TryRecord()
		if terr != nil {
			return m.errorf(rberrors.Undefined, "%s", terr)
		}
		name := m.symbols.Resolve(instr.SymID)
		fv, ok := r.At(name)
		if !ok {
			return m.errorf(rberrors.Undefined, "record has no field %q", name)
		}
		m.valueStack = append(m.valueStack, fv)

	case bytecode.OpPushKeyword:
		m.keywordStack = append(m.keywordStack, instr.SymID)

	case bytecode.OpMkList:
		items, err := m.popValues(int(instr.Count))
		if err != nil {
			return err
		}
		m.valueStack = append(m.valueStack, m.factory.List(items))

	case bytecode.OpMkRecord:
		n := int(instr.Count)
		keys, values, err := m.popPairs(n)
		if err != nil {
			return err
		}
		fields := make(map[string]V, n)
		for i, k := range keys {
			fields[m.symbols.Resolve(k)] = values[i]
		}
		m.valueStack = append(m.valueStack, m.factory.Record(fields))

	case bytecode.OpMkBlock:
		b := Block{MachineID: m.id, IP: m.ip, Size: int(instr.BlockSkip), Argc: int(instr.BlockArgc)}
		m.valueStack = append(m.valueStack, m.factory.Block(b))
		m.ip += int(instr.BlockSkip)

	case bytecode.OpBind:
		v, err := m.pop()
		if err != nil {
			return err
		}
		m.bindings = append(m.bindings, binding[V]{Sym: instr.SymID, Val: v})

	case bytecode.OpCallFunction:
		return m.call(int(instr.Count))

	default:
		return m.errorf(rberrors.Undefined, "unreachable opcode %s", instr.Op)
	}
	return nil
}

// call implements CallFunction(argc): pop argc (keyword, value) pairs,
// form an Apply, resolve and invoke the registered callback.
func (m *Machine[V]) call(argc int) error {
	keywords, values, err := m.popPairs(argc)
	if err != nil {
		return err
	}
	pairs := make([]signature.Pair[V], argc)
	for i := range pairs {
		pairs[i] = signature.Pair[V]{Keyword: keywords[i], Value: values[i]}
	}
	apply := signature.Apply[V]{Args: pairs, Symbols: m.symbols}

	cb, ok := m.ns.GetCallback(apply.FuncID())
	if !ok {
		return m.errorf(rberrors.Undefined, "function %q is undefined", m.symbols.Resolve(apply.FuncID()))
	}

	result, err := cb(apply, blockCaller[V]{m})
	if err != nil {
		return rberrors.WrapRuntimeError(err)
	}
	m.valueStack = append(m.valueStack, result)
	return nil
}

func (m *Machine[V]) lookup(id arena.ID) (V, bool) {
	for i := len(m.bindings) - 1; i >= 0; i-- {
		if m.bindings[i].Sym == id {
			return m.bindings[i].Val, true
		}
	}
	var zero V
	return zero, false
}

func (m *Machine[V]) primValue(p syntax.Prim) V {
	switch p.Kind {
	case syntax.PrimNumber:
		return m.factory.Number(p.Num)
	case syntax.PrimString:
		return m.factory.String(p.Str)
	case syntax.PrimBool:
		return m.factory.Bool(p.Bool)
	default:
		var zero V
		return zero
	}
}

func (m *Machine[V]) pop() (V, error) {
	var zero V
	if len(m.valueStack) == 0 {
		return zero, m.errorf(rberrors.ValueStackEmpty, "value stack empty at instruction %d", m.ip)
	}
	v := m.valueStack[len(m.valueStack)-1]
	m.valueStack = m.valueStack[:len(m.valueStack)-1]
	return v, nil
}

// popValues pops the top n values off the value stack, preserving their
// original (pushed) relative order — a plain slice tail removal does this
// without any explicit reversal.
func (m *Machine[V]) popValues(n int) ([]V, error) {
	if len(m.valueStack) < n {
		return nil, m.errorf(rberrors.ValueStackEmpty, "value stack underflow: need %d, have %d", n, len(m.valueStack))
	}
	split := len(m.valueStack) - n
	items := append([]V(nil), m.valueStack[split:]...)
	m.valueStack = m.valueStack[:split]
	return items, nil
}

// popPairs pops n values and then n keywords (the keyword stack is
// popped after the value stack) and returns them zipped by
// position — both tails are removed without reversal, so positionally
// zipping them directly reconstructs the original (keyword, value) pairs
// in source order.
func (m *Machine[V]) popPairs(n int) ([]arena.ID, []V, error) {
	values, err := m.popValues(n)
	if err != nil {
		return nil, nil, err
	}
	if len(m.keywordStack) < n {
		return nil, nil, m.errorf(rberrors.KeywordStackEmpty, "keyword stack underflow: need %d, have %d", n, len(m.keywordStack))
	}
	split := len(m.keywordStack) - n
	keywords := append([]arena.ID(nil), m.keywordStack[split:]...)
	m.keywordStack = m.keywordStack[:split]
	return keywords, values, nil
}

func (m *Machine[V]) errorf(category, format string, args ...any) error {
	return rberrors.NewRuntimeError(category, fmt.Sprintf(format, args...))
}

// blockCaller adapts a Machine to signature.Caller[V] (EvalBlock over a
// full Value V) so a host Callback can call a block argument without
// unwrapping it itself; it delegates to V.TryCall, which in turn calls back
// into Machine.EvalBlock (value.Caller[V], EvalBlock over a value.Block) to
// do the actual instruction-range execution. Two distinct Caller
// interfaces exist (signature.Caller and value.Caller) because Go does not
// allow a type to declare two methods both named EvalBlock with different
// parameter types; this adapter is the seam between them.
type blockCaller[V value.Value[V]] struct {
	m *Machine[V]
}

func (c blockCaller[V]) EvalBlock(block V, args []V) (V, error) {
	return block.TryCall(c.m, args)
}
