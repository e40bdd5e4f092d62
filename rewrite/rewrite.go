// Package rewrite implements RewriteRule[T], a pure (Type, Typed[T]) -> Option[Typed[T]]
// transformation, its sequencing/traversal combinators, and the field-level
// convenience rules most DataFixes are actually built from.
package rewrite

import (
	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
	"github.com/kestrelfix/datafix/typedval"
	"github.com/kestrelfix/datafix/typeschema"
)

// RewriteRule inspects a Typed node against its own Type and either produces a
// replacement (Some) or declares itself not applicable here (None), passing the node
// through unchanged. It fails with result.Error only on a genuine structural
// mismatch, never to signal "this rule doesn't apply" — that's what None is for.
type RewriteRule[T any] func(typ typeschema.Type, tv typedval.Typed[T]) result.Result[result.Option[typedval.Typed[T]]]

// ForType gates a rule to fire only when the traversed node's type reference
// matches name, operating directly on the underlying native value of domain A rather
// than the boxed Typed wrapper. f is expected to be total — ForType has nothing to
// report as None once the type matches, so it always returns Some when it runs at
// all.
func ForType[T, A any](name typeschema.TypeReference, f func(A) A) RewriteRule[T] {
	return func(typ typeschema.Type, tv typedval.Typed[T]) result.Result[result.Option[typedval.Typed[T]]] {
		if typ.Reference() != name {
			return result.Success(result.None[typedval.Typed[T]]())
		}
		native, ok := tv.Value.(A)
		if !ok {
			return result.Errorf[result.Option[typedval.Typed[T]]]("rewrite: forType(%s): value is %T, not %T", name, tv.Value, native)
		}
		return result.Success(result.Some(typedval.Typed[T]{Type: typ, Value: f(native)}))
	}
}

// Seq runs rules left to right. The first rule to return Some determines the node's
// replacement for every rule after it; a rule that returns None simply defers to the
// next one. Seq itself returns None only if every rule does. It fails at the first
// rule that errors.
func Seq[T any](rules ...RewriteRule[T]) RewriteRule[T] {
	return func(typ typeschema.Type, tv typedval.Typed[T]) result.Result[result.Option[typedval.Typed[T]]] {
		current := tv
		matched := false
		for _, rule := range rules {
			out := rule(typ, current)
			if out.IsError() {
				return out
			}
			opt, _ := out.Get()
			if v, ok := opt.Get(); ok {
				current = v
				matched = true
			}
		}
		if !matched {
			return result.Success(result.None[typedval.Typed[T]]())
		}
		return result.Success(result.Some(current))
	}
}

// OrElse runs a; if a returns None (or errors), runs b against the original node
// instead of a's (nonexistent) partial result.
func OrElse[T any](a, b RewriteRule[T]) RewriteRule[T] {
	return func(typ typeschema.Type, tv typedval.Typed[T]) result.Result[result.Option[typedval.Typed[T]]] {
		out := a(typ, tv)
		if out.IsSuccess() {
			if opt, _ := out.Get(); opt.IsSome() {
				return out
			}
		}
		return b(typ, tv)
	}
}

// passthroughRef identifies a boxed, not-yet-typed Dynamic document — see
// typedval.Typed's doc comment for why the type algebra treats it as opaque.
var passthroughRef = typeschema.Passthrough.Reference()

// boxDynamic wraps a Dynamic document as a Passthrough-typed Typed value, the bridge
// the field-level convenience rules (which manipulate an encoded document directly,
// not a structurally-decomposed one) use to satisfy RewriteRule's signature.
func boxDynamic[T any](typ typeschema.Type, d dynamic.Dynamic[T]) typedval.Typed[T] {
	return typedval.New[T](typ, d)
}

// unboxDynamic recovers the Dynamic a Passthrough-typed Typed was built from.
func unboxDynamic[T any](tv typedval.Typed[T]) (dynamic.Dynamic[T], bool) {
	d, ok := tv.Value.(dynamic.Dynamic[T])
	return d, ok
}

// typedChildren decomposes tv into its immediate structural children and a matching
// rebuild function. For every Type except Passthrough (and a Named wrapper directly
// over Passthrough, the shape AsFixApply boxes a document under) it delegates straight
// to typedval.Children/WithChildren. Passthrough nodes are a boxed, untyped Dynamic —
// opaque to typedval by design — so here, the one place that also imports dynamic,
// they're decomposed into the Dynamic's own map/list entries instead, each rewrapped
// as another Passthrough child; the rebuilt node keeps tv's own Type. This is what
// lets All/One/BottomUp/TopDown keep walking into a raw, not-fully-typed document the
// way the field convenience rules need, while still using the real Type algebra for
// anything the schema describes.
func typedChildren[T any](o ops.Ops[T], tv typedval.Typed[T]) (result.Result[[]typedval.Typed[T]], func([]typedval.Typed[T]) result.Result[typedval.Typed[T]]) {
	passthrough := tv.Type.Reference() == passthroughRef
	if named, ok := tv.Type.(typeschema.NamedType); ok && named.Target.Reference() == passthroughRef {
		passthrough = true
	}
	if passthrough {
		d, ok := unboxDynamic(tv)
		if !ok {
			errFn := func([]typedval.Typed[T]) result.Result[typedval.Typed[T]] {
				return result.Error[typedval.Typed[T]]("rewrite: passthrough value is not a boxed Dynamic")
			}
			return result.Error[[]typedval.Typed[T]]("rewrite: passthrough value is not a boxed Dynamic"), errFn
		}

		if entries, ok := d.Ops.GetMapEntries(d.Value).Get(); ok {
			out := make([]typedval.Typed[T], len(entries))
			for i, e := range entries {
				out[i] = boxDynamic[T](typeschema.Passthrough, dynamic.New(d.Ops, e.Value))
			}
			rebuild := func(newChildren []typedval.Typed[T]) result.Result[typedval.Typed[T]] {
				if len(newChildren) != len(entries) {
					return result.Errorf[typedval.Typed[T]]("rewrite: passthrough rebuild expected %d children, got %d", len(entries), len(newChildren))
				}
				rebuilt := make([]ops.MapEntry[T], len(entries))
				for i, e := range entries {
					cd, ok := unboxDynamic(newChildren[i])
					if !ok {
						return result.Errorf[typedval.Typed[T]]("rewrite: passthrough rebuild: child %d is not a boxed Dynamic", i)
					}
					rebuilt[i] = ops.MapEntry[T]{Key: e.Key, Value: cd.Value}
				}
				return result.Success(boxDynamic[T](tv.Type, dynamic.New(d.Ops, d.Ops.CreateMap(rebuilt))))
			}
			return result.Success(out), rebuild
		}

		if items, ok := d.Ops.GetList(d.Value).Get(); ok {
			out := make([]typedval.Typed[T], len(items))
			for i, item := range items {
				out[i] = boxDynamic[T](typeschema.Passthrough, dynamic.New(d.Ops, item))
			}
			rebuild := func(newChildren []typedval.Typed[T]) result.Result[typedval.Typed[T]] {
				if len(newChildren) != len(items) {
					return result.Errorf[typedval.Typed[T]]("rewrite: passthrough rebuild expected %d children, got %d", len(items), len(newChildren))
				}
				rebuilt := make([]T, len(items))
				for i := range items {
					cd, ok := unboxDynamic(newChildren[i])
					if !ok {
						return result.Errorf[typedval.Typed[T]]("rewrite: passthrough rebuild: child %d is not a boxed Dynamic", i)
					}
					rebuilt[i] = cd.Value
				}
				return result.Success(boxDynamic[T](tv.Type, dynamic.New(d.Ops, d.Ops.CreateList(rebuilt))))
			}
			return result.Success(out), rebuild
		}

		return result.Success[[]typedval.Typed[T]](nil), func([]typedval.Typed[T]) result.Result[typedval.Typed[T]] {
			return result.Success(tv)
		}
	}

	children := typedval.Children(tv, o)
	rebuild := func(newChildren []typedval.Typed[T]) result.Result[typedval.Typed[T]] {
		return typedval.WithChildren(tv, o, newChildren)
	}
	return children, rebuild
}

// All applies rule to every immediate child of a node, leaving leaves (no children)
// untouched and returning None when none of its children changed.
func All[T any](o ops.Ops[T], rule RewriteRule[T]) RewriteRule[T] {
	return func(typ typeschema.Type, tv typedval.Typed[T]) result.Result[result.Option[typedval.Typed[T]]] {
		childrenRes, rebuild := typedChildren(o, tv)
		if childrenRes.IsError() {
			return result.Error[result.Option[typedval.Typed[T]]](childrenRes.Message())
		}
		children, _ := childrenRes.Get()
		if len(children) == 0 {
			return result.Success(result.None[typedval.Typed[T]]())
		}

		out := make([]typedval.Typed[T], len(children))
		changed := false
		for i, c := range children {
			res := rule(c.Type, c)
			if res.IsError() {
				return result.Error[result.Option[typedval.Typed[T]]](res.Message())
			}
			opt, _ := res.Get()
			if v, ok := opt.Get(); ok {
				out[i] = v
				changed = true
			} else {
				out[i] = c
			}
		}
		if !changed {
			return result.Success(result.None[typedval.Typed[T]]())
		}
		rebuilt := rebuild(out)
		if rebuilt.IsError() {
			return result.Error[result.Option[typedval.Typed[T]]](rebuilt.Message())
		}
		v, _ := rebuilt.Get()
		return result.Success(result.Some(v))
	}
}

// One applies rule to each immediate child in order, stopping at and keeping the
// first child rule returns Some for; the rest are left unchanged. It fails if rule
// never matches any child.
func One[T any](o ops.Ops[T], rule RewriteRule[T]) RewriteRule[T] {
	return func(typ typeschema.Type, tv typedval.Typed[T]) result.Result[result.Option[typedval.Typed[T]]] {
		childrenRes, rebuild := typedChildren(o, tv)
		if childrenRes.IsError() {
			return result.Error[result.Option[typedval.Typed[T]]](childrenRes.Message())
		}
		children, _ := childrenRes.Get()
		if len(children) == 0 {
			return result.Error[result.Option[typedval.Typed[T]]]("rewrite: one has no children to match")
		}

		out := make([]typedval.Typed[T], len(children))
		matched := false
		for i, c := range children {
			out[i] = c
			if matched {
				continue
			}
			res := rule(c.Type, c)
			if res.IsError() {
				return result.Error[result.Option[typedval.Typed[T]]](res.Message())
			}
			opt, _ := res.Get()
			if v, ok := opt.Get(); ok {
				out[i] = v
				matched = true
			}
		}
		if !matched {
			return result.Error[result.Option[typedval.Typed[T]]]("rewrite: one matched no child")
		}
		rebuilt := rebuild(out)
		if rebuilt.IsError() {
			return result.Error[result.Option[typedval.Typed[T]]](rebuilt.Message())
		}
		v, _ := rebuilt.Get()
		return result.Success(result.Some(v))
	}
}

// BottomUp recurses into every child first, then applies rule to the resulting node
// — children are rewritten before their parent sees the result. The overall node is
// None only if neither the recursion nor rule itself produced a change.
func BottomUp[T any](o ops.Ops[T], rule RewriteRule[T]) RewriteRule[T] {
	var self RewriteRule[T]
	self = func(typ typeschema.Type, tv typedval.Typed[T]) result.Result[result.Option[typedval.Typed[T]]] {
		recursed := All(o, self)(typ, tv)
		if recursed.IsError() {
			return recursed
		}
		opt, _ := recursed.Get()
		current := tv
		if v, ok := opt.Get(); ok {
			current = v
		}

		out := rule(typ, current)
		if out.IsError() {
			return out
		}
		outOpt, _ := out.Get()
		if v, ok := outOpt.Get(); ok {
			return result.Success(result.Some(v))
		}
		if opt.IsSome() {
			return result.Success(result.Some(current))
		}
		return result.Success(result.None[typedval.Typed[T]]())
	}
	return self
}

// TopDown applies rule to a node first, then recurses into the (possibly rewritten)
// node's children — the inverse traversal order of BottomUp.
func TopDown[T any](o ops.Ops[T], rule RewriteRule[T]) RewriteRule[T] {
	var self RewriteRule[T]
	self = func(typ typeschema.Type, tv typedval.Typed[T]) result.Result[result.Option[typedval.Typed[T]]] {
		out := rule(typ, tv)
		if out.IsError() {
			return out
		}
		opt, _ := out.Get()
		current := tv
		if v, ok := opt.Get(); ok {
			current = v
		}

		recursed := All(o, self)(typ, current)
		if recursed.IsError() {
			return recursed
		}
		recOpt, _ := recursed.Get()
		if v, ok := recOpt.Get(); ok {
			return result.Success(result.Some(v))
		}
		if opt.IsSome() {
			return result.Success(result.Some(current))
		}
		return result.Success(result.None[typedval.Typed[T]]())
	}
	return self
}

// Everywhere applies rule at every node of the tree. It is BottomUp's traversal
// order — children settle before the parent is rewritten — which is the shape every
// fix in this engine that needs "touch every node" actually wants.
func Everywhere[T any](o ops.Ops[T], rule RewriteRule[T]) RewriteRule[T] { return BottomUp(o, rule) }
