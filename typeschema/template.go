package typeschema

import "fmt"

// TypeFamily is the de-Bruijn-style vector a TypeTemplate is applied against: index 0
// is the innermost enclosing Recursive binder's type, index 1 the next-outer, and so
// on. id(i) reads straight off this vector.
type TypeFamily []Type

// TypeTemplate is a deferred type builder. Applying it to a TypeFamily yields a
// concrete Type (or an error, e.g. id(i) with i out of range for the family). Plain
// constant templates (the primitives, List, Optional, ...) ignore the family
// entirely, which is what spec.md's "same family, same result" constancy property
// reduces to for them.
type TypeTemplate func(TypeFamily) (Type, error)

// Apply materializes t against family.
func (t TypeTemplate) Apply(family TypeFamily) (Type, error) { return t(family) }

func constant(v Type) TypeTemplate {
	return func(TypeFamily) (Type, error) { return v, nil }
}

// BoolTemplate, ByteTemplate, ... are the primitive leaf templates.
func BoolTemplate() TypeTemplate   { return constant(Bool) }
func ByteTemplate() TypeTemplate   { return constant(Byte) }
func ShortTemplate() TypeTemplate  { return constant(Short) }
func IntTemplate() TypeTemplate    { return constant(Int) }
func LongTemplate() TypeTemplate   { return constant(Long) }
func FloatTemplate() TypeTemplate  { return constant(Float) }
func DoubleTemplate() TypeTemplate { return constant(Double) }
func StringTemplate() TypeTemplate { return constant(String) }

// Remainder evaluates to Passthrough: "and whatever else" the source schema carried
// that this schema's fields don't otherwise name.
func Remainder() TypeTemplate { return constant(Passthrough) }

// List builds List(element).
func List(element TypeTemplate) TypeTemplate {
	return func(family TypeFamily) (Type, error) {
		el, err := element.Apply(family)
		if err != nil {
			return nil, err
		}
		return ListType{Element: el}, nil
	}
}

// Optional builds Optional(element).
func Optional(element TypeTemplate) TypeTemplate {
	return func(family TypeFamily) (Type, error) {
		el, err := element.Apply(family)
		if err != nil {
			return nil, err
		}
		return OptionalType{Element: el}, nil
	}
}

// And builds a right-associative Product chain over two or more templates:
// And(a, b, c) == Product(a, Product(b, c)).
func And(templates ...TypeTemplate) TypeTemplate {
	return func(family TypeFamily) (Type, error) {
		if len(templates) < 2 {
			return nil, fmt.Errorf("typeschema: and requires at least 2 templates, got %d", len(templates))
		}
		types := make([]Type, len(templates))
		for i, t := range templates {
			v, err := t.Apply(family)
			if err != nil {
				return nil, err
			}
			types[i] = v
		}
		acc := types[len(types)-1]
		for i := len(types) - 2; i >= 0; i-- {
			acc = ProductType{Left: types[i], Right: acc}
		}
		return acc, nil
	}
}

// Or builds a right-associative Sum chain over two or more templates.
func Or(templates ...TypeTemplate) TypeTemplate {
	return func(family TypeFamily) (Type, error) {
		if len(templates) < 2 {
			return nil, fmt.Errorf("typeschema: or requires at least 2 templates, got %d", len(templates))
		}
		types := make([]Type, len(templates))
		for i, t := range templates {
			v, err := t.Apply(family)
			if err != nil {
				return nil, err
			}
			types[i] = v
		}
		acc := types[len(types)-1]
		for i := len(types) - 2; i >= 0; i-- {
			acc = SumType{Left: types[i], Right: acc}
		}
		return acc, nil
	}
}

// Field builds a named product slot.
func Field(name string, inner TypeTemplate) TypeTemplate {
	return func(family TypeFamily) (Type, error) {
		v, err := inner.Apply(family)
		if err != nil {
			return nil, err
		}
		return FieldType{Name: name, Inner: v}, nil
	}
}

// OptionalField is sugar for Field(name, Optional(inner)).
func OptionalField(name string, inner TypeTemplate) TypeTemplate {
	return Field(name, Optional(inner))
}

// Named wraps inner with an interned alias, used for both diagnostics and
// cross-schema identity.
func Named(name string, inner TypeTemplate) TypeTemplate {
	return func(family TypeFamily) (Type, error) {
		v, err := inner.Apply(family)
		if err != nil {
			return nil, err
		}
		return NamedType{Name: name, Target: v}, nil
	}
}

// ID resolves to family[i], the i-th enclosing recursive binder, or an error if no
// such point exists in family.
func ID(i int) TypeTemplate {
	return func(family TypeFamily) (Type, error) {
		if i < 0 || i >= len(family) {
			return nil, fmt.Errorf("typeschema: recursion point %d out of range (family has %d entries)", i, len(family))
		}
		return family[i], nil
	}
}

// Recursive builds a fixed point: f is invoked with a "self" template (ID(0)) that,
// once applied, resolves to this very recursive type without materializing a cyclic
// Go value — see RecursiveType's doc comment for why.
func Recursive(name string, f func(self TypeTemplate) TypeTemplate) TypeTemplate {
	return func(family TypeFamily) (Type, error) {
		ambient := family
		generator := func() (Type, error) {
			inner := append(TypeFamily{RecursivePointType{Index: 0}}, ambient...)
			bodyTemplate := f(ID(0))
			return bodyTemplate.Apply(inner)
		}
		return newRecursiveType(name, generator), nil
	}
}

// TaggedChoice builds a discriminated union over tag, with branches materialized in
// declaration order.
func TaggedChoice(tag string, branches ...BranchTemplate) TypeTemplate {
	return func(family TypeFamily) (Type, error) {
		out := make([]Branch, len(branches))
		for i, b := range branches {
			v, err := b.Template.Apply(family)
			if err != nil {
				return nil, err
			}
			out[i] = Branch{Key: b.Key, Type: v}
		}
		return TaggedChoiceType{Tag: tag, Branches: out}, nil
	}
}

// TaggedChoiceTyped is TaggedChoice with an explicit discriminator type instead of
// the implicit bare-string tag. discriminator is ignored: the result is the same as
// TaggedChoice(tag, branches...), and branch dispatch is always by string key.
func TaggedChoiceTyped(tag string, discriminator TypeTemplate, branches ...BranchTemplate) TypeTemplate {
	return TaggedChoice(tag, branches...)
}

// BranchTemplate is one (tagValue, TypeTemplate) entry passed to TaggedChoice, kept
// ordered for the same reason Branch is (see typeschema.Branch's doc comment).
type BranchTemplate struct {
	Key      string
	Template TypeTemplate
}

// Case is a convenience constructor for a BranchTemplate.
func Case(key string, template TypeTemplate) BranchTemplate {
	return BranchTemplate{Key: key, Template: template}
}
