// Package typedval implements Typed[T], a decoded native value paired with the
// typeschema.Type describing its shape, plus the structural Children/WithChildren
// decomposition rewrite rules and finder.FindTyped walk over.
package typedval

import (
	"fmt"

	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
	"github.com/kestrelfix/datafix/typeschema"
)

// Typed pairs a Type with the decoded value it describes. Value is boxed as any
// because Go's generics have no higher-kinded types — see typeschema's package
// comment for why Type itself had to give up tracking a per-variant domain. The
// concrete shape Value holds depends on Type's variant:
//
//	primitives (Bool..String)   -> the matching native Go type (bool, int32, string, ...)
//	Passthrough                 -> a boxed dynamic.Dynamic[T] (typedval does not import
//	                                dynamic to stay acyclic; rewrite does the boxing)
//	List                        -> []any, one entry per element
//	Optional                    -> nil (absent) or the boxed inner value (present)
//	Product(left, right)        -> result.Pair[any, any]
//	Sum(left, right)            -> result.Either[any, any]
//	Field(name, inner), Named   -> transparent: the same value as inner/target
//	Recursive                   -> transparent: the same value as the one-level body
//	TaggedChoice                -> TaggedValue{Key, Value}
type Typed[T any] struct {
	Type  typeschema.Type
	Value any
}

// New pairs t with value.
func New[T any](t typeschema.Type, value any) Typed[T] {
	return Typed[T]{Type: t, Value: value}
}

// TaggedValue is the Value shape for a Typed whose Type is a TaggedChoice: the tag
// value that was actually observed in the data, plus the payload of that one branch.
type TaggedValue struct {
	Key   string
	Value any
}

// Children decomposes this Typed into its immediate structural sub-Typeds. For every
// variant except TaggedChoice, the result lines up one-to-one with Type.Children().
// For TaggedChoice it deliberately does not: only the single active branch — the one
// TaggedValue.Key actually names — is returned, never the other declared branches,
// since there is no data for them in this particular value.
func Children[T any](t Typed[T], _ ops.Ops[T]) result.Result[[]Typed[T]] {
	switch typ := t.Type.(type) {
	case typeschema.ListType:
		items, ok := t.Value.([]any)
		if !ok {
			return result.Errorf[[]Typed[T]]("typedval: List value is %T, not []any", t.Value)
		}
		out := make([]Typed[T], len(items))
		for i, item := range items {
			out[i] = Typed[T]{Type: typ.Element, Value: item}
		}
		return result.Success(out)

	case typeschema.OptionalType:
		if t.Value == nil {
			return result.Success[[]Typed[T]](nil)
		}
		return result.Success([]Typed[T]{{Type: typ.Element, Value: t.Value}})

	case typeschema.ProductType:
		pair, ok := t.Value.(result.Pair[any, any])
		if !ok {
			return result.Errorf[[]Typed[T]]("typedval: Product value is %T, not result.Pair[any, any]", t.Value)
		}
		return result.Success([]Typed[T]{
			{Type: typ.Left, Value: pair.First},
			{Type: typ.Right, Value: pair.Second},
		})

	case typeschema.SumType:
		either, ok := t.Value.(result.Either[any, any])
		if !ok {
			return result.Errorf[[]Typed[T]]("typedval: Sum value is %T, not result.Either[any, any]", t.Value)
		}
		if either.IsRight() {
			v, _ := either.Right()
			return result.Success([]Typed[T]{{Type: typ.Right, Value: v}})
		}
		v, _ := either.Left()
		return result.Success([]Typed[T]{{Type: typ.Left, Value: v}})

	case typeschema.FieldType:
		return result.Success([]Typed[T]{{Type: typ.Inner, Value: t.Value}})

	case typeschema.NamedType:
		return result.Success([]Typed[T]{{Type: typ.Target, Value: t.Value}})

	case typeschema.RecursiveType:
		body, err := typ.Body()
		if err != nil {
			return result.Errorf[[]Typed[T]]("typedval: recursive body: %v", err)
		}
		return result.Success([]Typed[T]{{Type: body, Value: t.Value}})

	case typeschema.TaggedChoiceType:
		tagged, ok := t.Value.(TaggedValue)
		if !ok {
			return result.Errorf[[]Typed[T]]("typedval: TaggedChoice value is %T, not TaggedValue", t.Value)
		}
		branch, found := typ.BranchByKey(tagged.Key)
		if !found {
			return result.Errorf[[]Typed[T]]("typedval: tag value %q has no declared branch in %s", tagged.Key, typ.Describe())
		}
		return result.Success([]Typed[T]{{Type: branch, Value: tagged.Value}})

	default:
		// Primitives, Passthrough, RecursivePointType: leaves, no children.
		return result.Success[[]Typed[T]](nil)
	}
}

// WithChildren rebuilds a Typed of the same Type with its immediate children
// replaced by newChildren, which must have exactly the arity Children would have
// returned for this Type/Value's current shape (1 for TaggedChoice, regardless of
// how many branches are declared).
func WithChildren[T any](t Typed[T], _ ops.Ops[T], newChildren []Typed[T]) result.Result[Typed[T]] {
	arity := func(n int) error {
		if len(newChildren) != n {
			return fmt.Errorf("typedval: withChildren expected %d children, got %d", n, len(newChildren))
		}
		return nil
	}

	switch typ := t.Type.(type) {
	case typeschema.ListType:
		out := make([]any, len(newChildren))
		for i, c := range newChildren {
			out[i] = c.Value
		}
		return result.Success(Typed[T]{Type: typ, Value: out})

	case typeschema.OptionalType:
		switch len(newChildren) {
		case 0:
			return result.Success(Typed[T]{Type: typ, Value: nil})
		case 1:
			return result.Success(Typed[T]{Type: typ, Value: newChildren[0].Value})
		default:
			return result.Errorf[Typed[T]]("typedval: withChildren on Optional expected 0 or 1 children, got %d", len(newChildren))
		}

	case typeschema.ProductType:
		if err := arity(2); err != nil {
			return result.Error[Typed[T]](err.Error())
		}
		return result.Success(Typed[T]{Type: typ, Value: result.NewPair[any, any](newChildren[0].Value, newChildren[1].Value)})

	case typeschema.SumType:
		if err := arity(1); err != nil {
			return result.Error[Typed[T]](err.Error())
		}
		prior, ok := t.Value.(result.Either[any, any])
		if !ok {
			return result.Errorf[Typed[T]]("typedval: Sum value is %T, not result.Either[any, any]", t.Value)
		}
		if prior.IsRight() {
			return result.Success(Typed[T]{Type: typ, Value: result.Right[any, any](newChildren[0].Value)})
		}
		return result.Success(Typed[T]{Type: typ, Value: result.Left[any, any](newChildren[0].Value)})

	case typeschema.FieldType:
		if err := arity(1); err != nil {
			return result.Error[Typed[T]](err.Error())
		}
		return result.Success(Typed[T]{Type: typ, Value: newChildren[0].Value})

	case typeschema.NamedType:
		if err := arity(1); err != nil {
			return result.Error[Typed[T]](err.Error())
		}
		return result.Success(Typed[T]{Type: typ, Value: newChildren[0].Value})

	case typeschema.RecursiveType:
		if err := arity(1); err != nil {
			return result.Error[Typed[T]](err.Error())
		}
		return result.Success(Typed[T]{Type: typ, Value: newChildren[0].Value})

	case typeschema.TaggedChoiceType:
		if err := arity(1); err != nil {
			return result.Error[Typed[T]](err.Error())
		}
		prior, ok := t.Value.(TaggedValue)
		if !ok {
			return result.Errorf[Typed[T]]("typedval: TaggedChoice value is %T, not TaggedValue", t.Value)
		}
		return result.Success(Typed[T]{Type: typ, Value: TaggedValue{Key: prior.Key, Value: newChildren[0].Value}})

	default:
		if err := arity(0); err != nil {
			return result.Error[Typed[T]](err.Error())
		}
		return result.Success(t)
	}
}
