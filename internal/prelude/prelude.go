// Package prelude is Rainbow's default host-function set: crash, not,
// if/and/or/then/else, compare, each/do, try/or, sum, countFrom/to/by,
// calc, with/do, upperCase, and stringify. This is not part of the core
// language — the language itself only defines the mechanism for
// registering, typing, and invoking host functions — it exists so the test
// suite and the CLI's default namespace have a concrete, useful set of
// functions to compile real scripts against.
package prelude

import (
	"fmt"
	"strings"

	"rainbow/rtype"
	"rainbow/signature"
	"rainbow/value"

	"github.com/pkg/errors"
)

// Install registers the full default prelude into ns. factory builds the
// result Values each function returns; Rainbow's Value capability set has
// no constructors of its own (see value.Factory's doc comment), so every
// callback that needs to produce a fresh primitive, list, or record takes
// it from here instead.
func Install[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V]) error {
	for _, define := range []func(*signature.Namespace[V], value.Factory[V]) error{
		installCrash[V],
		installNot[V],
		installIf[V],
		installCompare[V],
		installEach[V],
		installTry[V],
		installSum[V],
		installCountFrom[V],
		installCalc[V],
		installWith[V],
		installUpperCase[V],
		installStringify[V],
	} {
		if err := define(ns, factory); err != nil {
			return err
		}
	}
	return nil
}

func installCrash[V value.Value[V]](ns *signature.Namespace[V], _ value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		msg := f.RequiredArg("crash", rtype.Str())
		f.Returns(rtype.Any())
		f.SetPartial()
		f.Callback(func(a signature.Apply[V], _ signature.Caller[V]) (V, error) {
			var zero V
			v, err := a.Demand(msg)
			if err != nil {
				return zero, err
			}
			s, err := v.TryString()
			if err != nil {
				return zero, err
			}
			return zero, errors.New(s)
		})
	})
}

func installNot[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		not := f.RequiredArg("not", rtype.Bool())
		f.Returns(rtype.Bool())
		f.Callback(func(a signature.Apply[V], _ signature.Caller[V]) (V, error) {
			var zero V
			v, err := a.Demand(not)
			if err != nil {
				return zero, err
			}
			b, err := v.TryBool()
			if err != nil {
				return zero, err
			}
			return factory.Bool(!b), nil
		})
	})
}

// installIf implements a short-circuiting and/or chain: walk the call's
// arguments (after the leading `if:` keyword), folding in
// further `and:`/`or:` quoted blocks while the running result still
// permits it, stopping at the first `then:`/`else:` keyword, then evaluate
// whichever branch the final boolean selects.
func installIf[V value.Value[V]](ns *signature.Namespace[V], _ value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		ifArg := f.RequiredArg("if", rtype.Bool())
		and := f.VariadicArg("and", rtype.Quoted(rtype.Bool()))
		or := f.VariadicArg("or", rtype.Quoted(rtype.Bool()))
		then := f.RequiredArg("then", rtype.Quoted(rtype.Var("A")))
		els := f.RequiredArg("else", rtype.Quoted(rtype.Var("A")))
		f.Returns(rtype.Var("A"))
		f.Callback(func(a signature.Apply[V], c signature.Caller[V]) (V, error) {
			var zero V
			v, err := a.Demand(ifArg)
			if err != nil {
				return zero, err
			}
			yesNo, err := v.TryBool()
			if err != nil {
				return zero, err
			}

			for _, p := range a.Args[1:] {
				switch {
				case yesNo && p.Keyword == and:
					r, err := c.EvalBlock(p.Value, nil)
					if err != nil {
						return zero, err
					}
					if yesNo, err = r.TryBool(); err != nil {
						return zero, err
					}
				case !yesNo && p.Keyword == or:
					r, err := c.EvalBlock(p.Value, nil)
					if err != nil {
						return zero, err
					}
					if yesNo, err = r.TryBool(); err != nil {
						return zero, err
					}
				case p.Keyword == then || p.Keyword == els:
				default:
					continue
				}
				if p.Keyword == then || p.Keyword == els {
					break
				}
			}

			branch := els
			if yesNo {
				branch = then
			}
			chosen, err := a.Demand(branch)
			if err != nil {
				return zero, err
			}
			return c.EvalBlock(chosen, nil)
		})
	})
}

func installCompare[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		cmp := f.RequiredArg("compare", rtype.Num())
		gt := f.OptionalArg("biggerThan", rtype.Num())
		gte := f.OptionalArg("atLeast", rtype.Num())
		lt := f.OptionalArg("smallerThan", rtype.Num())
		lte := f.OptionalArg("atMost", rtype.Num())
		f.SetTotal()
		f.Returns(rtype.Bool())
		f.Callback(func(a signature.Apply[V], _ signature.Caller[V]) (V, error) {
			var zero V
			v, err := a.Demand(cmp)
			if err != nil {
				return zero, err
			}
			it, err := v.TryNumber()
			if err != nil {
				return zero, err
			}
			for _, p := range a.Args[1:] {
				other, err := p.Value.TryNumber()
				if err != nil {
					return zero, err
				}
				pass := true
				switch p.Keyword {
				case gt:
					pass = it > other
				case gte:
					pass = it >= other
				case lt:
					pass = it < other
				case lte:
					pass = it <= other
				}
				if !pass {
					return factory.Bool(false), nil
				}
			}
			return factory.Bool(true), nil
		})
	})
}

func installEach[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		in := rtype.Var("In")
		out := rtype.Var("Out")
		each := f.RequiredArg("each", rtype.ListOf(in))
		do := f.RequiredArg("do", rtype.BlockFromTo([]rtype.Type{in}, out))
		f.Returns(rtype.ListOf(out))
		f.Callback(func(a signature.Apply[V], c signature.Caller[V]) (V, error) {
			var zero V
			v, err := a.Demand(each)
			if err != nil {
				return zero, err
			}
			list, err := v.TryList()
			if err != nil {
				return zero, err
			}
			block, err := a.Demand(do)
			if err != nil {
				return zero, err
			}
			results := make([]V, 0, list.Len())
			for i := 0; i < list.Len(); i++ {
				item, _ := list.At(i)
				r, err := c.EvalBlock(block, []V{item})
				if err != nil {
					return zero, err
				}
				results = append(results, r)
			}
			return factory.List(results), nil
		})
	})
}

func installTry[V value.Value[V]](ns *signature.Namespace[V], _ value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		try := f.RequiredArg("try", rtype.Quoted(rtype.Var("A")))
		or := f.RequiredArg("or", rtype.Quoted(rtype.Var("A")))
		f.Returns(rtype.Var("A"))
		f.Callback(func(a signature.Apply[V], c signature.Caller[V]) (V, error) {
			var zero V
			tryVal, err := a.Demand(try)
			if err != nil {
				return zero, err
			}
			if r, err := c.EvalBlock(tryVal, nil); err == nil {
				return r, nil
			}
			orVal, err := a.Demand(or)
			if err != nil {
				return zero, err
			}
			return c.EvalBlock(orVal, nil)
		})
	})
}

func installSum[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		sum := f.RequiredArg("sum", rtype.ListOf(rtype.Num()))
		f.Returns(rtype.Num())
		f.Callback(func(a signature.Apply[V], _ signature.Caller[V]) (V, error) {
			var zero V
			v, err := a.Demand(sum)
			if err != nil {
				return zero, err
			}
			list, err := v.TryList()
			if err != nil {
				return zero, err
			}
			var total float64
			for i := 0; i < list.Len(); i++ {
				item, _ := list.At(i)
				n, err := item.TryNumber()
				if err != nil {
					return zero, err
				}
				total += n
			}
			return factory.Number(total), nil
		})
	})
}

func installCountFrom[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		from := f.RequiredArg("countFrom", rtype.Num())
		to := f.RequiredArg("to", rtype.Num())
		by := f.OptionalArg("by", rtype.Num())
		f.Returns(rtype.ListOf(rtype.Num()))
		f.Callback(func(a signature.Apply[V], _ signature.Caller[V]) (V, error) {
			var zero V
			fv, err := a.Demand(from)
			if err != nil {
				return zero, err
			}
			start, err := fv.TryNumber()
			if err != nil {
				return zero, err
			}
			tv, err := a.Demand(to)
			if err != nil {
				return zero, err
			}
			end, err := tv.TryNumber()
			if err != nil {
				return zero, err
			}

			step := 1.0
			if bv, ok := a.Get(by); ok {
				if step, err = bv.TryNumber(); err != nil {
					return zero, err
				}
			}
			if step < 0 {
				step = -step
			}
			if step < 0.00001 {
				step = 1
			}
			if start > end {
				step = -step
			}

			var out []V
			for here := start; (step > 0 && here <= end) || (step < 0 && here >= end); here += step {
				out = append(out, factory.Number(here))
			}
			return factory.List(out), nil
		})
	})
}

func installCalc[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		calc := f.RequiredArg("calc", rtype.Num())
		add := f.VariadicArg("plus", rtype.Num())
		sub := f.VariadicArg("subtract", rtype.Num())
		mul := f.VariadicArg("times", rtype.Num())
		div := f.VariadicArg("dividedBy", rtype.Num())
		f.Returns(rtype.Num())
		f.SetPartial()
		f.Callback(func(a signature.Apply[V], _ signature.Caller[V]) (V, error) {
			var zero V
			v, err := a.Demand(calc)
			if err != nil {
				return zero, err
			}
			result, err := v.TryNumber()
			if err != nil {
				return zero, err
			}
			for _, p := range a.Args[1:] {
				n, err := p.Value.TryNumber()
				if err != nil {
					return zero, err
				}
				switch p.Keyword {
				case add:
					result += n
				case sub:
					result -= n
				case mul:
					result *= n
				case div:
					if n == 0 {
						return zero, errors.New("calc: division by zero")
					}
					result /= n
				}
			}
			return factory.Number(result), nil
		})
	})
}

func installWith[V value.Value[V]](ns *signature.Namespace[V], _ value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		in := rtype.Var("In")
		out := rtype.Var("Out")
		with := f.RequiredArg("with", in)
		do := f.RequiredArg("do", rtype.BlockFromTo([]rtype.Type{in}, out))
		f.Returns(out)
		f.Callback(func(a signature.Apply[V], c signature.Caller[V]) (V, error) {
			var zero V
			block, err := a.Demand(do)
			if err != nil {
				return zero, err
			}
			arg, err := a.Demand(with)
			if err != nil {
				return zero, err
			}
			return c.EvalBlock(block, []V{arg})
		})
	})
}

func installUpperCase[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		upper := f.RequiredArg("upperCase", rtype.Str())
		f.Returns(rtype.Str())
		f.Callback(func(a signature.Apply[V], _ signature.Caller[V]) (V, error) {
			var zero V
			v, err := a.Demand(upper)
			if err != nil {
				return zero, err
			}
			s, err := v.TryString()
			if err != nil {
				return zero, err
			}
			return factory.String(strings.ToUpper(s)), nil
		})
	})
}

func installStringify[V value.Value[V]](ns *signature.Namespace[V], factory value.Factory[V]) error {
	return ns.Define(func(f *signature.FunctionBuilder[V]) {
		arg := f.RequiredArg("stringify", rtype.Var("Any"))
		f.Returns(rtype.Str())
		f.Callback(func(a signature.Apply[V], _ signature.Caller[V]) (V, error) {
			var zero V
			v, err := a.Demand(arg)
			if err != nil {
				return zero, err
			}
			return factory.String(stringifyValue(v)), nil
		})
	})
}

// stringifyValue prefers a Value's own String method (stdvalue.Value and
// any other well-behaved host Value define one); it falls back to a plain
// Go format verb for a host type that doesn't.
func stringifyValue(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
