// Package value defines Rainbow's Value capability set: the abstracted
// interface that lets a host plug its own representation of language values
// instead of being forced to adopt a concrete one. The standard witness of
// this interface lives in package stdvalue.
package value

// Block is the capability set a Value must expose to be callable as a
// Rainbow block. It is implemented by the VM's own block handle; it is
// deliberately tiny so that a host's Value type only needs to carry a
// reference to whatever block representation the host's VM uses.
type Block interface {
	// Arity reports the number of positional arguments the block accepts.
	Arity() int
}

// List is the capability set for a Value that behaves as an ordered,
// indexable sequence.
type List[V any] interface {
	Len() int
	At(idx int) (V, bool)
}

// Record is the capability set for a Value that behaves as a name-indexed
// map.
type Record[V any] interface {
	At(key string) (V, bool)
}

// Caller lets a VM evaluate a block handle against a list of argument
// values without value needing to import the vm package (which would be a
// cycle: vm depends on value).
type Caller[V any] interface {
	EvalBlock(block Block, args []V) (V, error)
}

// Factory builds Values from their constituent parts: constructors for
// each primitive plus list/record construction from already-built parts,
// alongside the try_* predicates on Value itself. Those constructors live
// here rather than on Value itself because a VM builds values out of raw
// parts it assembles off its own stacks (a popped []V, a popped
// map[string]V, a freshly-created Block) — a static "From" conversion has
// no receiver to hang off of in Go, so Rainbow's vm.Machine is
// parameterized over a Factory instead of calling constructors on V
// directly.
type Factory[V any] interface {
	Number(f float64) V
	String(s string) V
	Bool(b bool) V
	Time(t uint64) V
	List(items []V) V
	Record(fields map[string]V) V
	Block(b Block) V
}

// Value is the capability-set interface every Rainbow value must satisfy.
// A conforming implementation never panics on a failed conversion; it
// always reports failure through the returned error, because a panic inside
// a host callback would violate the VM's stack-restoration guarantees.
type Value[V any] interface {
	TryBool() (bool, error)
	TryNumber() (float64, error)
	TryString() (string, error)
	TryTime() (uint64, error)
	TryList() (List[V], error)
	TryRecord() (Record[V], error)
	TryBlock() (Block, error)

	// Callable reports whether TryBlock would succeed.
	Callable() bool

	// TryCall evaluates the receiver as a block against vm, if it is one.
	TryCall(vm Caller[V], args []V) (V, error)
}
