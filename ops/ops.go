// Package ops defines Ops[T], the capability interface that abstracts over one
// concrete encoding (JSON, YAML, TOML, binary, ...). The core engine never imports a
// concrete encoding; it only ever holds an Ops[T] and a T value. Concrete
// implementations live under adapters/.
package ops

import (
	"github.com/kestrelfix/datafix/result"
)

// Number is the widened numeric result Ops.GetNumberValue returns. decimal128 is used
// instead of float64 so integral save-game/currency values round-trip exactly instead
// of picking up floating-point error on every migration step. See number.go for the
// narrow decimal128 surface this package relies on.
type Number = decimalNumber

// Ops is the capability describing one concrete encoding's value type T. Every
// operation is pure with respect to its (immutable) inputs; failure surfaces through
// result.Result rather than panics, except where T itself cannot represent a value a
// builder was asked to construct (documented per-adapter).
type Ops[T any] interface {
	// Empty returns the encoding's representation of "no value" (e.g. JSON null).
	Empty() T
	// EmptyMap returns an empty map/object node.
	EmptyMap() T
	// EmptyList returns an empty list/array node.
	EmptyList() T

	// Builders.
	CreateBool(bool) T
	CreateByte(int8) T
	CreateShort(int16) T
	CreateInt(int32) T
	CreateLong(int64) T
	CreateFloat(float32) T
	CreateDouble(float64) T
	CreateString(string) T
	CreateList(items []T) T
	CreateMap(entries []MapEntry[T]) T

	// Accessors. All return a Result so type mismatches surface as Error("not a X")
	// instead of panicking.
	GetBoolValue(T) result.Result[bool]
	GetNumberValue(T) result.Result[Number]
	GetStringValue(T) result.Result[string]
	GetMapValues(T) result.Result[[]MapEntry[T]]
	GetList(T) result.Result[[]T]
	GetMapEntries(T) result.Result[[]MapEntry[T]]

	// Structural update. All are purely functional: they return a new T sharing
	// unchanged substructure with the input where the underlying representation
	// permits; a shallow copy is an acceptable fallback.
	MergeToMap(m T, key string, value T) result.Result[T]
	MergeToList(list T, value T) result.Result[T]
	Remove(m T, key string) result.Result[T]
	Set(m T, key string, value T) result.Result[T]

	// Navigation.
	Get(m T, key string) result.Result[T]
}

// Convert walks value under src and reconstructs it using dst's builders, bridging
// between two concrete encodings (e.g. a JSON node into a YAML node). It is a free
// function rather than an Ops[T] method because Go does not allow an interface
// method to introduce a second type parameter beyond the receiver's; this is the
// idiomatic generic-Go shape for spec.md §4.1's "convertTo(otherOps, value)".
func Convert[S, D any](src Ops[S], dst Ops[D], value S) result.Result[D] {
	if entries, ok := src.GetMapEntries(value).Get(); ok {
		out := make([]MapEntry[D], 0, len(entries))
		for _, e := range entries {
			kStr, isStr := src.GetStringValue(e.Key).Get()
			var k D
			if isStr {
				k = dst.CreateString(kStr)
			} else {
				ck := Convert(src, dst, e.Key)
				if ck.IsError() {
					return result.Error[D](ck.Message())
				}
				k, _ = ck.Get()
			}
			cv := Convert(src, dst, e.Value)
			if cv.IsError() {
				return result.Error[D](cv.Message())
			}
			v, _ := cv.Get()
			out = append(out, MapEntry[D]{Key: k, Value: v})
		}
		return result.Success(dst.CreateMap(out))
	}
	if items, ok := src.GetList(value).Get(); ok {
		out := make([]D, 0, len(items))
		for _, item := range items {
			ci := Convert(src, dst, item)
			if ci.IsError() {
				return result.Error[D](ci.Message())
			}
			v, _ := ci.Get()
			out = append(out, v)
		}
		return result.Success(dst.CreateList(out))
	}
	if b, ok := src.GetBoolValue(value).Get(); ok {
		return result.Success(dst.CreateBool(b))
	}
	if s, ok := src.GetStringValue(value).Get(); ok {
		return result.Success(dst.CreateString(s))
	}
	if n, ok := src.GetNumberValue(value).Get(); ok {
		return result.Success(dst.CreateDouble(n.Float64()))
	}
	return result.Success(dst.Empty())
}

// MapEntry is one key/value pair as returned by GetMapValues/GetMapEntries and
// consumed by CreateMap.
type MapEntry[T any] struct {
	Key   T
	Value T
}

// StringKeyedEntries is a convenience view for encodings (JSON, YAML, TOML) whose map
// keys are always strings; it avoids forcing every adapter to box/unbox a string key
// through Ops[T]'s generic T.
type StringKeyedEntries[T any] []StringEntry[T]

// StringEntry is one string-keyed map entry.
type StringEntry[T any] struct {
	Key   string
	Value T
}
