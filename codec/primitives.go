package codec

import (
	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/result"
)

// Bool, String, Int, Long, and Double are the leaf codecs every record codec built
// with FieldOf/OptionalFieldOf bottoms out at.

func Bool[T any]() Codec[T, bool] {
	return Codec[T, bool]{
		Enc: func(value bool, prefix dynamic.Dynamic[T]) dynamic.Dynamic[T] { return prefix.CreateBool(value) },
		Dec: func(d dynamic.Dynamic[T]) result.Result[result.Pair[bool, dynamic.Dynamic[T]]] {
			return result.Map(d.AsBool(), func(v bool) result.Pair[bool, dynamic.Dynamic[T]] { return result.NewPair(v, d) })
		},
	}
}

func String[T any]() Codec[T, string] {
	return Codec[T, string]{
		Enc: func(value string, prefix dynamic.Dynamic[T]) dynamic.Dynamic[T] { return prefix.CreateString(value) },
		Dec: func(d dynamic.Dynamic[T]) result.Result[result.Pair[string, dynamic.Dynamic[T]]] {
			return result.Map(d.AsString(), func(v string) result.Pair[string, dynamic.Dynamic[T]] { return result.NewPair(v, d) })
		},
	}
}

func Int[T any]() Codec[T, int] {
	return Codec[T, int]{
		Enc: func(value int, prefix dynamic.Dynamic[T]) dynamic.Dynamic[T] {
			return dynamic.New(prefix.Ops, prefix.Ops.CreateInt(int32(value)))
		},
		Dec: func(d dynamic.Dynamic[T]) result.Result[result.Pair[int, dynamic.Dynamic[T]]] {
			return result.Map(d.AsInt(), func(v int) result.Pair[int, dynamic.Dynamic[T]] { return result.NewPair(v, d) })
		},
	}
}

func Long[T any]() Codec[T, int64] {
	return Codec[T, int64]{
		Enc: func(value int64, prefix dynamic.Dynamic[T]) dynamic.Dynamic[T] {
			return dynamic.New(prefix.Ops, prefix.Ops.CreateLong(value))
		},
		Dec: func(d dynamic.Dynamic[T]) result.Result[result.Pair[int64, dynamic.Dynamic[T]]] {
			return result.Map(d.AsLong(), func(v int64) result.Pair[int64, dynamic.Dynamic[T]] { return result.NewPair(v, d) })
		},
	}
}

func Double[T any]() Codec[T, float64] {
	return Codec[T, float64]{
		Enc: func(value float64, prefix dynamic.Dynamic[T]) dynamic.Dynamic[T] { return prefix.CreateDouble(value) },
		Dec: func(d dynamic.Dynamic[T]) result.Result[result.Pair[float64, dynamic.Dynamic[T]]] {
			return result.Map(d.AsDouble(), func(v float64) result.Pair[float64, dynamic.Dynamic[T]] { return result.NewPair(v, d) })
		},
	}
}

// List lifts an element Codec to a Codec over []A.
func List[T, A any](elem Codec[T, A]) Codec[T, []A] {
	return Codec[T, []A]{
		Enc: func(values []A, prefix dynamic.Dynamic[T]) dynamic.Dynamic[T] {
			encoded := make([]T, len(values))
			for i, v := range values {
				encoded[i] = elem.Enc(v, prefix.EmptyMap()).Value
			}
			return dynamic.New(prefix.Ops, prefix.Ops.CreateList(encoded))
		},
		Dec: func(d dynamic.Dynamic[T]) result.Result[result.Pair[[]A, dynamic.Dynamic[T]]] {
			items, ok := d.Ops.GetList(d.Value).Get()
			if !ok {
				return result.Error[result.Pair[[]A, dynamic.Dynamic[T]]]("codec: not a list")
			}
			out := make([]A, len(items))
			for i, item := range items {
				v, err := elem.Decode(dynamic.New(d.Ops, item)).Get()
				if !err {
					return result.Errorf[result.Pair[[]A, dynamic.Dynamic[T]]]("codec: list element %d: decode failed", i)
				}
				out[i] = v
			}
			return result.Success(result.NewPair(out, d))
		},
	}
}
