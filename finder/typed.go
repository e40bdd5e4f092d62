package finder

import (
	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
	"github.com/kestrelfix/datafix/typedval"
	"github.com/kestrelfix/datafix/typeschema"
)

// FindTyped navigates root along f the same way Find does, but over a typedval.Typed
// tree instead of a raw Dynamic one, so AsType steps can actually check a node's
// type reference — the type context Find has no way to supply.
func FindTyped[T any](f Finder[T], o ops.Ops[T], root typedval.Typed[T]) result.Result[typedval.Typed[T]] {
	current := result.Success(root)
	for _, s := range f.steps {
		s := s
		current = result.FlatMap(current, func(tv typedval.Typed[T]) result.Result[typedval.Typed[T]] {
			return findTypedStep(s, o, tv)
		})
	}
	return current
}

func findTypedStep[T any](s step, o ops.Ops[T], tv typedval.Typed[T]) result.Result[typedval.Typed[T]] {
	switch s.kind {
	case fieldStep:
		found, ok := findTypedField(o, tv, s.field)
		if !ok {
			return result.Errorf[typedval.Typed[T]]("finder: field %q not found", s.field)
		}
		return result.Success(found)

	case indexStep:
		children := typedval.Children(tv, o)
		if children.IsError() {
			return result.Error[typedval.Typed[T]](children.Message())
		}
		items, _ := children.Get()
		if s.index < 0 || s.index >= len(items) {
			return result.Errorf[typedval.Typed[T]]("finder: index %d out of range (len %d)", s.index, len(items))
		}
		return result.Success(items[s.index])

	case assertStep:
		if tv.Type.Reference() != s.typeRef {
			return result.Errorf[typedval.Typed[T]]("finder: node has type %s, not the asserted %s", tv.Type.Reference(), s.typeRef)
		}
		return result.Success(tv)

	case remainderStep:
		return result.Error[typedval.Typed[T]]("finder: remainder navigation is not supported under FindTyped")

	default:
		return result.Success(tv)
	}
}

// findTypedField searches tv's structural children, recursing transparently through
// Product/Named/Recursive wrappers, for the FieldType child named name.
// typedval.Children presents a ProductType's two sides positionally rather than by
// name, so field-name resolution has to walk the Product/Field chain itself.
func findTypedField[T any](o ops.Ops[T], tv typedval.Typed[T], name string) (typedval.Typed[T], bool) {
	if ft, ok := tv.Type.(typeschema.FieldType); ok {
		if ft.Name == name {
			children := typedval.Children(tv, o)
			if children.IsError() {
				return typedval.Typed[T]{}, false
			}
			inner, _ := children.Get()
			if len(inner) != 1 {
				return typedval.Typed[T]{}, false
			}
			return inner[0], true
		}
		return typedval.Typed[T]{}, false
	}

	switch tv.Type.(type) {
	case typeschema.ProductType, typeschema.NamedType, typeschema.RecursiveType:
		children := typedval.Children(tv, o)
		if children.IsError() {
			return typedval.Typed[T]{}, false
		}
		inner, _ := children.Get()
		for _, c := range inner {
			if found, ok := findTypedField(o, c, name); ok {
				return found, true
			}
		}
		return typedval.Typed[T]{}, false
	default:
		return typedval.Typed[T]{}, false
	}
}
