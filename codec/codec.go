// Package codec implements Codec[T, A], a paired Encoder/Decoder between a native Go
// value A and a Dynamic[T] document, plus the combinators FieldOf/OptionalFieldOf
// compose into record codecs the way pkg/schema's struct<->map conversion does by
// hand.
package codec

import (
	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/result"
)

// Encoder writes value into prefix, returning the (possibly new) document with
// value's contribution merged in. prefix lets several field encoders build up one
// shared object.
type Encoder[T, A any] func(value A, prefix dynamic.Dynamic[T]) dynamic.Dynamic[T]

// Decoder reads a value of A out of d, returning it paired with d itself — the
// "remainder" slot spec.md's decode-output shape calls for, carried here mostly for
// symmetry with codecs that do consume part of a sequential structure (list-shaped
// formats) rather than a keyed record.
type Decoder[T, A any] func(d dynamic.Dynamic[T]) result.Result[result.Pair[A, dynamic.Dynamic[T]]]

// Codec pairs an Encoder and Decoder for the same A.
type Codec[T, A any] struct {
	Enc Encoder[T, A]
	Dec Decoder[T, A]
}

// Decode is a convenience that discards the remainder and returns just the value.
func (c Codec[T, A]) Decode(d dynamic.Dynamic[T]) result.Result[A] {
	return result.Map(c.Dec(d), func(p result.Pair[A, dynamic.Dynamic[T]]) A { return p.First })
}

// Encode is a convenience that starts from an empty map prefix.
func (c Codec[T, A]) Encode(value A, empty dynamic.Dynamic[T]) dynamic.Dynamic[T] {
	return c.Enc(value, empty)
}

// XMap rebases a Codec[T,A] onto B via a pair of total, mutually-inverse functions —
// the two-sided analogue of Map for when both directions are needed.
func XMap[T, A, B any](c Codec[T, A], to func(A) B, from func(B) A) Codec[T, B] {
	return Codec[T, B]{
		Enc: func(value B, prefix dynamic.Dynamic[T]) dynamic.Dynamic[T] {
			return c.Enc(from(value), prefix)
		},
		Dec: func(d dynamic.Dynamic[T]) result.Result[result.Pair[B, dynamic.Dynamic[T]]] {
			return result.Map(c.Dec(d), func(p result.Pair[A, dynamic.Dynamic[T]]) result.Pair[B, dynamic.Dynamic[T]] {
				return result.NewPair(to(p.First), p.Second)
			})
		},
	}
}

// Map transforms a Decoder's output with f. It has no Encoder counterpart — use
// XMap when both directions are needed.
func Map[T, A, B any](dec Decoder[T, A], f func(A) B) Decoder[T, B] {
	return func(d dynamic.Dynamic[T]) result.Result[result.Pair[B, dynamic.Dynamic[T]]] {
		return result.Map(dec(d), func(p result.Pair[A, dynamic.Dynamic[T]]) result.Pair[B, dynamic.Dynamic[T]] {
			return result.NewPair(f(p.First), p.Second)
		})
	}
}

// FlatMap chains a Decoder's output into another Decoder run against the same
// remainder.
func FlatMap[T, A, B any](dec Decoder[T, A], f func(A) Decoder[T, B]) Decoder[T, B] {
	return func(d dynamic.Dynamic[T]) result.Result[result.Pair[B, dynamic.Dynamic[T]]] {
		return result.FlatMap(dec(d), func(p result.Pair[A, dynamic.Dynamic[T]]) result.Result[result.Pair[B, dynamic.Dynamic[T]]] {
			return f(p.First)(p.Second)
		})
	}
}

// FieldOf projects inner onto a named field of a record: encoding sets the field on
// prefix, decoding reads it and fails if absent.
func FieldOf[T, A any](name string, inner Codec[T, A]) Codec[T, A] {
	return Codec[T, A]{
		Enc: func(value A, prefix dynamic.Dynamic[T]) dynamic.Dynamic[T] {
			encoded := inner.Enc(value, prefix.EmptyMap())
			updated, ok := prefix.Set(name, encoded).Get()
			if !ok {
				return prefix
			}
			return updated
		},
		Dec: func(d dynamic.Dynamic[T]) result.Result[result.Pair[A, dynamic.Dynamic[T]]] {
			child, ok := d.TryGet(name).Get()
			if !ok {
				return result.Errorf[result.Pair[A, dynamic.Dynamic[T]]]("codec: missing required field %q", name)
			}
			return result.Map(inner.Decode(child), func(v A) result.Pair[A, dynamic.Dynamic[T]] {
				return result.NewPair(v, d)
			})
		},
	}
}

// OptionalFieldOf is FieldOf, but decoding falls back to def rather than failing
// when the field is absent, and encoding is skipped for the zero-equal def value is
// left to the caller (no implicit omit-if-default here: ambient encoders always
// write what they were given, matching how the Field type's optionality is tracked
// structurally rather than by value comparison).
func OptionalFieldOf[T, A any](name string, inner Codec[T, A], def A) Codec[T, A] {
	return Codec[T, A]{
		Enc: FieldOf(name, inner).Enc,
		Dec: func(d dynamic.Dynamic[T]) result.Result[result.Pair[A, dynamic.Dynamic[T]]] {
			child, ok := d.TryGet(name).Get()
			if !ok {
				return result.Success(result.NewPair(def, d))
			}
			return result.Map(inner.Decode(child), func(v A) result.Pair[A, dynamic.Dynamic[T]] {
				return result.NewPair(v, d)
			})
		},
	}
}
