package result

// Option is a minimal Some/None sum for a value that is legitimately absent rather
// than failed — spec.md §4.7's RewriteRule returns exactly this shape: "this rule
// does not apply here, pass through" is not an error, so it isn't modeled as one.
type Option[A any] struct {
	has   bool
	value A
}

// Some wraps a present value.
func Some[A any](value A) Option[A] { return Option[A]{has: true, value: value} }

// None is the absent value.
func None[A any]() Option[A] { return Option[A]{} }

// IsSome reports whether o carries a value.
func (o Option[A]) IsSome() bool { return o.has }

// IsNone reports the absence of a value.
func (o Option[A]) IsNone() bool { return !o.has }

// Get returns the wrapped value and true, or the zero value and false.
func (o Option[A]) Get() (A, bool) { return o.value, o.has }
