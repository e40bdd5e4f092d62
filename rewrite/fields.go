package rewrite

import (
	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/result"
	"github.com/kestrelfix/datafix/typedval"
	"github.com/kestrelfix/datafix/typeschema"
)

// fieldRule adapts a Dynamic-level document transformation into a RewriteRule gated
// on ref: it only fires (returning Some) when the traversed node's type matches ref,
// boxing/unboxing through Passthrough so the rest of the engine can drive these
// convenience rules exactly like any other RewriteRule.
func fieldRule[T any](ref typeschema.TypeReference, f func(dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]]) RewriteRule[T] {
	return func(typ typeschema.Type, tv typedval.Typed[T]) result.Result[result.Option[typedval.Typed[T]]] {
		if typ.Reference() != ref {
			return result.Success(result.None[typedval.Typed[T]]())
		}
		d, ok := unboxDynamic(tv)
		if !ok {
			return result.Errorf[result.Option[typedval.Typed[T]]]("rewrite: %s: value is not a boxed Dynamic", ref)
		}
		out := f(d)
		if out.IsError() {
			return result.Error[result.Option[typedval.Typed[T]]](out.Message())
		}
		v, _ := out.Get()
		return result.Success(result.Some(boxDynamic(tv.Type, v)))
	}
}

// RenameField moves the value at oldName to newName on any node of type ref, leaving
// the document unchanged if oldName is absent.
func RenameField[T any](ref typeschema.TypeReference, oldName, newName string) RewriteRule[T] {
	return fieldRule(ref, func(d dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
		existing := d.TryGet(oldName)
		if existing.IsError() {
			return result.Success(d)
		}
		value, _ := existing.Get()
		return result.FlatMap(d.Remove(oldName), func(removed dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
			return removed.Set(newName, value)
		})
	})
}

// AddField sets name to the result of produce on any node of type ref, but only when
// name is absent — spec.md §4.7 names this "only when absent" explicitly; a field
// that is present and merely holds a zero value is still present and is left alone.
func AddField[T any](ref typeschema.TypeReference, name string, produce func(dynamic.Dynamic[T]) dynamic.Dynamic[T]) RewriteRule[T] {
	return fieldRule(ref, func(d dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
		if _, ok := d.TryGet(name).Get(); ok {
			return result.Success(d)
		}
		return d.Set(name, produce(d))
	})
}

// RemoveField deletes name on any node of type ref, succeeding even if it was
// already absent.
func RemoveField[T any](ref typeschema.TypeReference, name string) RewriteRule[T] {
	return fieldRule(ref, func(d dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
		return d.Remove(name)
	})
}

// TransformField rewrites the value at name with f on any node of type ref; f is
// given Ops.Empty() if name is absent.
func TransformField[T any](ref typeschema.TypeReference, name string, f func(dynamic.Dynamic[T]) dynamic.Dynamic[T]) RewriteRule[T] {
	return fieldRule(ref, func(d dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
		return d.Update(name, f)
	})
}
