// Package typeschema implements the type algebra (spec.md §3.2) — the closed sum of
// variants (Bool..Double, List, Optional, Product, Sum, Field, Named, Recursive/
// RecursivePoint, TaggedChoice, Passthrough/Remainder) rewrite rules match against —
// and the TypeTemplate/TypeFamily DSL (spec.md §4.5) that builds concrete Types from a
// declarative schema description.
//
// Type is deliberately non-generic: spec.md's Type<A> ties each variant to a domain A,
// but Go's generics have no higher-kinded types, so a variant like List(element Type)
// cannot itself be parameterized over "the list of element's domain" without code
// generation. Following the closed-sum-over-an-interface idiom used throughout the
// retrieval pack (e.g. funvibe-funxy's typesystem.Type), the domain tracking instead
// lives one level up, on typedval.Typed[T], which boxes its value as any.
package typeschema

import "fmt"

// TypeReference is an interned string identity for a type, e.g. "player". Equality
// and hashing are both by string value — a bare string already satisfies both under
// Go's comparable/map-key rules, so TypeReference is a defined string type rather
// than a wrapper struct.
type TypeReference string

// Equal reports whether r and other name the same type.
func (r TypeReference) Equal(other TypeReference) bool { return r == other }

// String renders the reference for diagnostics.
func (r TypeReference) String() string { return string(r) }

// Type is one variant of the type algebra. describe() is deterministic (stable
// across runs, suitable for snapshot tests); Children() returns the immediate
// structural sub-types in a fixed left-to-right order.
type Type interface {
	// Reference identifies this type for fix routing and registry lookups.
	Reference() TypeReference
	// Describe renders the canonical, stable-for-snapshots textual form.
	Describe() string
	// Children returns the immediate structural sub-types, left to right.
	Children() []Type
}

func refOf(describe string) TypeReference { return TypeReference(describe) }

// --- primitives ---

type primitive struct {
	name string
}

func (p primitive) Reference() TypeReference { return refOf(p.name) }
func (p primitive) Describe() string         { return p.name }
func (p primitive) Children() []Type         { return nil }

// Bool, Byte, Short, Int, Long, Float, Double, String, and Passthrough are the
// singleton primitive Type values. Passthrough is the opaque pass-through variant
// that Remainder's DSL constructor evaluates to.
var (
	Bool        Type = primitive{"bool"}
	Byte        Type = primitive{"byte"}
	Short       Type = primitive{"short"}
	Int         Type = primitive{"int"}
	Long        Type = primitive{"long"}
	Float       Type = primitive{"float"}
	Double      Type = primitive{"double"}
	String      Type = primitive{"String"}
	Passthrough Type = primitive{"..."}
)

// --- List / Optional ---

// ListType is List(element).
type ListType struct{ Element Type }

func (l ListType) Reference() TypeReference { return refOf(l.Describe()) }
func (l ListType) Describe() string         { return fmt.Sprintf("List<%s>", l.Element.Describe()) }
func (l ListType) Children() []Type         { return []Type{l.Element} }

// OptionalType is Optional(element).
type OptionalType struct{ Element Type }

func (o OptionalType) Reference() TypeReference { return refOf(o.Describe()) }
func (o OptionalType) Describe() string {
	return fmt.Sprintf("Optional<%s>", o.Element.Describe())
}
func (o OptionalType) Children() []Type { return []Type{o.Element} }

// --- Product / Sum ---

// ProductType is (left × right), right-associative for n-ary encodings.
type ProductType struct{ Left, Right Type }

func (p ProductType) Reference() TypeReference { return refOf(p.Describe()) }
func (p ProductType) Describe() string {
	return fmt.Sprintf("(%s × %s)", p.Left.Describe(), p.Right.Describe())
}
func (p ProductType) Children() []Type { return []Type{p.Left, p.Right} }

// SumType is (left + right), right-associative.
type SumType struct{ Left, Right Type }

func (s SumType) Reference() TypeReference { return refOf(s.Describe()) }
func (s SumType) Describe() string {
	return fmt.Sprintf("(%s + %s)", s.Left.Describe(), s.Right.Describe())
}
func (s SumType) Children() []Type { return []Type{s.Left, s.Right} }

// --- Field / Named ---

// FieldType is a named slot in a product. If Inner is itself an OptionalType, Describe
// renders the "?name: T" optional-field form instead of "name: Optional<T>" — the DSL's
// optionalField(name, inner) constructs exactly this shape.
type FieldType struct {
	Name  string
	Inner Type
}

func (f FieldType) Reference() TypeReference { return refOf(f.Describe()) }
func (f FieldType) Describe() string {
	if opt, ok := f.Inner.(OptionalType); ok {
		return fmt.Sprintf("?%s: %s", f.Name, opt.Element.Describe())
	}
	return fmt.Sprintf("%s: %s", f.Name, f.Inner.Describe())
}
func (f FieldType) Children() []Type { return []Type{f.Inner} }

// NamedType is an alias for diagnostics/identity: "Name=body".
type NamedType struct {
	Name   string
	Target Type
}

func (n NamedType) Reference() TypeReference { return TypeReference(n.Name) }
func (n NamedType) Describe() string {
	return fmt.Sprintf("%s=%s", n.Name, n.Target.Describe())
}
func (n NamedType) Children() []Type { return []Type{n.Target} }

// --- Recursive / RecursivePoint ---

// RecursivePointType is the µi reference form: a terminal leaf standing in for "the
// i-th enclosing recursive binder" so structural recursion over a RecursiveType's
// body terminates instead of unfolding forever.
type RecursivePointType struct{ Index int }

func (r RecursivePointType) Reference() TypeReference { return refOf(r.Describe()) }
func (r RecursivePointType) Describe() string         { return fmt.Sprintf("µ%d", r.Index) }
func (r RecursivePointType) Children() []Type         { return nil }

// RecursiveType is a fixed point. It stores the generator function that produces one
// level of unfolding (with self-references appearing as RecursivePointType(0) rather
// than a materialized back-pointer), not a cyclic object graph — see the typeschema
// entry in DESIGN.md for why.
type RecursiveType struct {
	Name      string
	generator func() (Type, error)
	once      *recursiveCache
}

type recursiveCache struct {
	body Type
	err  error
	done bool
}

func newRecursiveType(name string, generator func() (Type, error)) RecursiveType {
	return RecursiveType{Name: name, generator: generator, once: &recursiveCache{}}
}

// Body returns the one-level unfolding of this recursive type, memoized so repeated
// calls within (or across) one Children()/Describe() traversal don't re-run the
// generator, and so self-reference terminates rather than looping.
func (r RecursiveType) Body() (Type, error) {
	if !r.once.done {
		r.once.body, r.once.err = r.generator()
		r.once.done = true
	}
	return r.once.body, r.once.err
}

func (r RecursiveType) Reference() TypeReference { return TypeReference(r.Name) }

func (r RecursiveType) Describe() string {
	body, err := r.Body()
	if err != nil {
		return fmt.Sprintf("%s=<error: %v>", r.Name, err)
	}
	return fmt.Sprintf("%s=%s", r.Name, body.Describe())
}

func (r RecursiveType) Children() []Type {
	body, err := r.Body()
	if err != nil {
		return nil
	}
	return []Type{body}
}

// --- TaggedChoice ---

// Branch is one (tagValue, Type) entry of a TaggedChoice, kept as an ordered slice
// (rather than a Go map) so the declared order the Open Question in spec.md §9
// requires is preserved without relying on undefined map iteration order.
type Branch struct {
	Key  string
	Type Type
}

// TaggedChoiceType is a discriminated union over a named tag field. Children (the
// pure structural view) yields every declared branch in order; Typed.Children (the
// data-driven view, see typedval) yields only the branch matching the live tag value.
type TaggedChoiceType struct {
	Tag      string
	Branches []Branch
}

func (t TaggedChoiceType) Reference() TypeReference { return refOf(t.Describe()) }

func (t TaggedChoiceType) Describe() string {
	s := fmt.Sprintf("TaggedChoice<%s>{", t.Tag)
	for i, b := range t.Branches {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s -> %s", b.Key, b.Type.Describe())
	}
	return s + "}"
}

func (t TaggedChoiceType) Children() []Type {
	out := make([]Type, len(t.Branches))
	for i, b := range t.Branches {
		out[i] = b.Type
	}
	return out
}

// BranchByKey returns the branch type registered for tagValue, and true if found.
func (t TaggedChoiceType) BranchByKey(tagValue string) (Type, bool) {
	for _, b := range t.Branches {
		if b.Key == tagValue {
			return b.Type, true
		}
	}
	return nil, false
}
