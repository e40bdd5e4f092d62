package rewrite

import (
	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/finder"
	"github.com/kestrelfix/datafix/fix"
	"github.com/kestrelfix/datafix/result"
	"github.com/kestrelfix/datafix/typeschema"
)

// Transform lifts a plain whole-node function into a RewriteRule gated on ref — a
// convenience for fixes that are simple value transformations with no failure mode
// and no need to name individual fields.
func Transform[T any](ref typeschema.TypeReference, f func(dynamic.Dynamic[T]) dynamic.Dynamic[T]) RewriteRule[T] {
	return fieldRule(ref, func(d dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
		return result.Success(f(d))
	})
}

// TransformAt rewrites whatever a Finder navigates to inside a Passthrough-boxed
// node, gated on ref, using finder.Modify so everything outside the navigated path
// is shared rather than rebuilt.
func TransformAt[T any](ref typeschema.TypeReference, path finder.Finder[T], f func(dynamic.Dynamic[T]) dynamic.Dynamic[T]) RewriteRule[T] {
	return fieldRule(ref, func(d dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
		return finder.Modify(path, d, f)
	})
}

// AsFixApply bridges a RewriteRule into the shape fix.DataFix.Apply requires: it
// synthesizes a typeschema.Type for the given reference (a Named wrapper over
// Passthrough, since a bare fix only ever carries a TypeReference, not a full Type),
// boxes input under it, runs rule, and unboxes the result — None means rule left the
// document untouched.
func AsFixApply[T any](rule RewriteRule[T]) func(ref typeschema.TypeReference, input dynamic.Dynamic[T], ctx *fix.Context) result.Result[dynamic.Dynamic[T]] {
	return func(ref typeschema.TypeReference, input dynamic.Dynamic[T], ctx *fix.Context) result.Result[dynamic.Dynamic[T]] {
		typ := typeschema.NamedType{Name: string(ref), Target: typeschema.Passthrough}
		tv := boxDynamic[T](typ, input)

		out := rule(typ, tv)
		if out.IsError() {
			return result.Error[dynamic.Dynamic[T]](out.Message())
		}
		opt, _ := out.Get()
		v, ok := opt.Get()
		if !ok {
			return result.Success(input)
		}
		d, ok := unboxDynamic(v)
		if !ok {
			return result.Error[dynamic.Dynamic[T]]("rewrite: asFixApply: rule result is not a boxed Dynamic")
		}
		return result.Success(d)
	}
}
