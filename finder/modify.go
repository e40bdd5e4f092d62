package finder

import (
	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/result"
)

// Modify rewrites the node f navigates to with fn, rebuilding every ancestor on the
// path back to the root so unrelated substructure is shared rather than copied.
func Modify[T any](f Finder[T], d dynamic.Dynamic[T], fn func(dynamic.Dynamic[T]) dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
	return modifySteps(f.steps, d, fn)
}

func modifySteps[T any](steps []step, d dynamic.Dynamic[T], fn func(dynamic.Dynamic[T]) dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
	if len(steps) == 0 {
		return result.Success(fn(d))
	}
	s, rest := steps[0], steps[1:]

	switch s.kind {
	case fieldStep:
		child := d.Get(s.field)
		updated := modifySteps(rest, child, fn)
		if updated.IsError() {
			return updated
		}
		newChild, _ := updated.Get()
		return d.Set(s.field, newChild)

	case indexStep:
		items, ok := d.Ops.GetList(d.Value).Get()
		if !ok {
			return result.Error[dynamic.Dynamic[T]]("finder: not a list")
		}
		if s.index < 0 || s.index >= len(items) {
			return result.Errorf[dynamic.Dynamic[T]]("finder: index %d out of range (len %d)", s.index, len(items))
		}
		child := dynamic.New(d.Ops, items[s.index])
		updated := modifySteps(rest, child, fn)
		if updated.IsError() {
			return updated
		}
		newChild, _ := updated.Get()
		out := make([]T, len(items))
		copy(out, items)
		out[s.index] = newChild.Value
		return result.Success(dynamic.New(d.Ops, d.Ops.CreateList(out)))

	case assertStep:
		return result.Error[dynamic.Dynamic[T]]("finder: AsType requires a type context — use FindTyped, not Modify")

	case remainderStep:
		remainder := remainderOf(d, s.claimed)
		if remainder.IsError() {
			return remainder
		}
		target, _ := remainder.Get()
		updatedRemainder := modifySteps(rest, target, fn)
		if updatedRemainder.IsError() {
			return updatedRemainder
		}
		newRemainder, _ := updatedRemainder.Get()
		return replaceRemainder(d, s.claimed, newRemainder)

	default:
		return modifySteps(rest, d, fn)
	}
}

// replaceRemainder rebuilds d keeping only the claimed fields, then merges
// newRemainder's entries in underneath them.
func replaceRemainder[T any](d dynamic.Dynamic[T], claimed []string, newRemainder dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
	claimedSet := make(map[string]bool, len(claimed))
	for _, c := range claimed {
		claimedSet[c] = true
	}
	entries, ok := d.AsMap().Get()
	if !ok {
		return result.Error[dynamic.Dynamic[T]]("finder: remainder requires a map")
	}
	out := d.EmptyMap()
	for _, e := range entries {
		keyStr, isStr := e.Key.AsString().Get()
		if isStr && claimedSet[keyStr] {
			set, ok := out.Set(keyStr, e.Value).Get()
			if !ok {
				return result.Error[dynamic.Dynamic[T]]("finder: remainder key must be a string")
			}
			out = set
		}
	}
	return out.Merge(newRemainder)
}
