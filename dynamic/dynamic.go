// Package dynamic implements Dynamic[T], the format-agnostic document wrapper that
// pairs an encoded value with the Ops[T] capability that understands it.
package dynamic

import (
	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
)

// Dynamic is a (Ops[T], T value) pair. value must be a valid encoded node under ops.
// Every operation is pure: updates return a fresh Dynamic rather than mutating in
// place, letting callers share unchanged substructure across versions of a document.
type Dynamic[T any] struct {
	Ops   ops.Ops[T]
	Value T
}

// New wraps value with the given ops.
func New[T any](o ops.Ops[T], value T) Dynamic[T] {
	return Dynamic[T]{Ops: o, Value: value}
}

// AsBool introspects the wrapped value as a bool.
func (d Dynamic[T]) AsBool() result.Result[bool] { return d.Ops.GetBoolValue(d.Value) }

// AsString introspects the wrapped value as a string.
func (d Dynamic[T]) AsString() result.Result[string] { return d.Ops.GetStringValue(d.Value) }

// AsNumber introspects the wrapped value as a widened number.
func (d Dynamic[T]) AsNumber() result.Result[ops.Number] { return d.Ops.GetNumberValue(d.Value) }

// AsInt introspects the wrapped value as an int, truncating the widened number.
func (d Dynamic[T]) AsInt() result.Result[int] {
	return result.Map(d.AsNumber(), func(n ops.Number) int {
		i, _ := n.Int64()
		return int(i)
	})
}

// AsLong introspects the wrapped value as an int64.
func (d Dynamic[T]) AsLong() result.Result[int64] {
	return result.Map(d.AsNumber(), func(n ops.Number) int64 {
		i, _ := n.Int64()
		return i
	})
}

// AsDouble introspects the wrapped value as a float64.
func (d Dynamic[T]) AsDouble() result.Result[float64] {
	return result.Map(d.AsNumber(), func(n ops.Number) float64 { return n.Float64() })
}

// AsList introspects the wrapped value as a list of Dynamics sharing this ops.
func (d Dynamic[T]) AsList() result.Result[[]Dynamic[T]] {
	return result.Map(d.Ops.GetList(d.Value), func(items []T) []Dynamic[T] {
		out := make([]Dynamic[T], len(items))
		for i, item := range items {
			out[i] = New(d.Ops, item)
		}
		return out
	})
}

// Entry is one key/value pair as returned by AsMap, with both sides already wrapped
// as Dynamics sharing this ops.
type Entry[T any] struct {
	Key   Dynamic[T]
	Value Dynamic[T]
}

// AsMap introspects the wrapped value as an ordered sequence of map entries.
func (d Dynamic[T]) AsMap() result.Result[[]Entry[T]] {
	return result.Map(d.Ops.GetMapEntries(d.Value), func(entries []ops.MapEntry[T]) []Entry[T] {
		out := make([]Entry[T], len(entries))
		for i, e := range entries {
			out[i] = Entry[T]{Key: New(d.Ops, e.Key), Value: New(d.Ops, e.Value)}
		}
		return out
	})
}

// Get navigates to the child at key, lazily: absence only surfaces as an Error once
// the returned Dynamic is itself introspected or extracted.
func (d Dynamic[T]) Get(key string) Dynamic[T] {
	child, ok := d.Ops.Get(d.Value, key).Get()
	if !ok {
		return Dynamic[T]{Ops: d.Ops, Value: d.Ops.Empty()}
	}
	return New(d.Ops, child)
}

// TryGet navigates to the child at key, surfacing absence immediately as a Result.
func (d Dynamic[T]) TryGet(key string) result.Result[Dynamic[T]] {
	return result.Map(d.Ops.Get(d.Value, key), func(v T) Dynamic[T] { return New(d.Ops, v) })
}

// Set returns a new Dynamic with key bound to child's value.
func (d Dynamic[T]) Set(key string, child Dynamic[T]) result.Result[Dynamic[T]] {
	return result.Map(d.Ops.Set(d.Value, key, child.Value), func(v T) Dynamic[T] { return New(d.Ops, v) })
}

// Remove returns a new Dynamic with key absent.
func (d Dynamic[T]) Remove(key string) result.Result[Dynamic[T]] {
	return result.Map(d.Ops.Remove(d.Value, key), func(v T) Dynamic[T] { return New(d.Ops, v) })
}

// Update returns a new Dynamic with the child at key replaced by fn's result. If key
// is absent, fn receives a Dynamic wrapping Ops.Empty().
func (d Dynamic[T]) Update(key string, fn func(Dynamic[T]) Dynamic[T]) result.Result[Dynamic[T]] {
	updated := fn(d.Get(key))
	return d.Set(key, updated)
}

// UpdateList returns a new Dynamic with every element of the wrapped list replaced by
// fn's result, in order.
func (d Dynamic[T]) UpdateList(fn func(Dynamic[T]) Dynamic[T]) result.Result[Dynamic[T]] {
	items, ok := d.Ops.GetList(d.Value).Get()
	if !ok {
		return result.Error[Dynamic[T]]("not a list")
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = fn(New(d.Ops, item)).Value
	}
	return result.Success(New(d.Ops, d.Ops.CreateList(out)))
}

// Merge folds every entry of other into d, later keys overwriting earlier ones.
func (d Dynamic[T]) Merge(other Dynamic[T]) result.Result[Dynamic[T]] {
	entries, ok := d.Ops.GetMapEntries(other.Value).Get()
	if !ok {
		return result.Error[Dynamic[T]]("merge source is not a map")
	}
	current := d
	for _, e := range entries {
		keyStr, ok := d.Ops.GetStringValue(e.Key).Get()
		if !ok {
			return result.Error[Dynamic[T]]("merge source has a non-string key")
		}
		merged, ok := current.Ops.MergeToMap(current.Value, keyStr, e.Value).Get()
		if !ok {
			return result.Error[Dynamic[T]]("merge failed for key " + keyStr)
		}
		current = New(current.Ops, merged)
	}
	return result.Success(current)
}

// CreateString constructs a new Dynamic of a string, sharing this Dynamic's ops.
func (d Dynamic[T]) CreateString(s string) Dynamic[T] { return New(d.Ops, d.Ops.CreateString(s)) }

// CreateInt constructs a new Dynamic of an int32, sharing this Dynamic's ops.
func (d Dynamic[T]) CreateInt(i int32) Dynamic[T] { return New(d.Ops, d.Ops.CreateInt(i)) }

// CreateLong constructs a new Dynamic of an int64, sharing this Dynamic's ops.
func (d Dynamic[T]) CreateLong(i int64) Dynamic[T] { return New(d.Ops, d.Ops.CreateLong(i)) }

// CreateDouble constructs a new Dynamic of a float64, sharing this Dynamic's ops.
func (d Dynamic[T]) CreateDouble(f float64) Dynamic[T] { return New(d.Ops, d.Ops.CreateDouble(f)) }

// CreateBool constructs a new Dynamic of a bool, sharing this Dynamic's ops.
func (d Dynamic[T]) CreateBool(b bool) Dynamic[T] { return New(d.Ops, d.Ops.CreateBool(b)) }

// EmptyMap constructs a new, empty map Dynamic sharing this Dynamic's ops.
func (d Dynamic[T]) EmptyMap() Dynamic[T] { return New(d.Ops, d.Ops.EmptyMap()) }

// Convert re-encodes the wrapped value under otherOps, bridging encodings.
func Convert[S, D any](d Dynamic[S], otherOps ops.Ops[D]) result.Result[Dynamic[D]] {
	return result.Map(ops.Convert(d.Ops, otherOps, d.Value), func(v D) Dynamic[D] {
		return New(otherOps, v)
	})
}

// TaggedDynamic ties a document to the TypeReference the migration engine should
// treat it as. Type is declared as a string here (rather than importing
// typeschema.TypeReference) to keep dynamic a leaf package with no dependency on the
// type algebra; fixer.UpdateTagged reads the reference from it.
type TaggedDynamic[T any] struct {
	Type  string
	Value Dynamic[T]
}

// NewTagged pairs a type reference name with a Dynamic.
func NewTagged[T any](typeRef string, value Dynamic[T]) TaggedDynamic[T] {
	return TaggedDynamic[T]{Type: typeRef, Value: value}
}
