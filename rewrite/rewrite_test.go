package rewrite_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/internal/testops"
	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
	. "github.com/kestrelfix/datafix/rewrite"
	"github.com/kestrelfix/datafix/typedval"
	"github.com/kestrelfix/datafix/typeschema"
)

const testType typeschema.TypeReference = "player"

// testTyp is the synthetic Named-over-Passthrough Type every test boxes its raw
// documents under, mirroring what rewrite.AsFixApply does for a real fix.
var testTyp = typeschema.NamedType{Name: string(testType), Target: typeschema.Passthrough}

func doc(o testops.Ops, entries ...ops.MapEntry[any]) dynamic.Dynamic[any] {
	return dynamic.New[any](o, o.CreateMap(entries))
}

func boxed(d dynamic.Dynamic[any]) typedval.Typed[any] {
	return typedval.New[any](testTyp, d)
}

func unbox(tv typedval.Typed[any]) dynamic.Dynamic[any] {
	return tv.Value.(dynamic.Dynamic[any])
}

// run applies rule to d under testTyp and unwraps the Option, reporting whether the
// rule succeeded at all and, separately, whether it actually matched (Some vs None)
// — a document unchanged either way reads the same regardless of which happened.
func run(rule RewriteRule[any], d dynamic.Dynamic[any]) (dynamic.Dynamic[any], bool, bool) {
	out := rule(testTyp, boxed(d))
	if out.IsError() {
		return d, false, false
	}
	opt, _ := out.Get()
	v, matched := opt.Get()
	if !matched {
		return d, true, false
	}
	return unbox(v), true, true
}

func alwaysFails(typ typeschema.Type, tv typedval.Typed[any]) result.Result[result.Option[typedval.Typed[any]]] {
	return result.Error[result.Option[typedval.Typed[any]]]("always fails")
}

var _ = Describe("sequencing combinators", func() {
	var o testops.Ops

	BeforeEach(func() { o = testops.Ops{} })

	It("Seq threads each rule's result into the next and fails at the first failure", func() {
		rule := Seq[any](
			RenameField[any](testType, "a", "b"),
			RenameField[any](testType, "b", "c"),
		)
		d := doc(o, ops.MapEntry[any]{Key: "a", Value: o.CreateString("x")})
		out, ok, matched := run(rule, d)
		Expect(ok).To(BeTrue())
		Expect(matched).To(BeTrue())
		v, present := out.Get("c").AsString().Get()
		Expect(present).To(BeTrue())
		Expect(v).To(Equal("x"))

		failing := Seq[any](RenameField[any](testType, "a", "b"), alwaysFails)
		_, ok, _ = run(failing, d)
		Expect(ok).To(BeFalse())
	})

	It("OrElse falls back to b against the original input when a fails", func() {
		rule := OrElse[any](alwaysFails, RenameField[any](testType, "a", "renamed"))
		d := doc(o, ops.MapEntry[any]{Key: "a", Value: o.CreateString("x")})
		out, ok, matched := run(rule, d)
		Expect(ok).To(BeTrue())
		Expect(matched).To(BeTrue())
		v, present := out.Get("renamed").AsString().Get()
		Expect(present).To(BeTrue())
		Expect(v).To(Equal("x"))
	})
})

var _ = Describe("ForType", func() {
	It("only fires when the traversed node's type reference matches", func() {
		rule := ForType[any, int64](testType, func(n int64) int64 { return n * 2 })

		matching := rule(testTyp, typedval.New[any](testTyp, int64(5)))
		opt, ok := matching.Get()
		Expect(ok).To(BeTrue())
		v, matched := opt.Get()
		Expect(matched).To(BeTrue())
		Expect(v.Value).To(Equal(int64(10)))

		other := typeschema.NamedType{Name: "item", Target: typeschema.Long}
		skipped := rule(other, typedval.New[any](other, int64(5)))
		opt2, ok := skipped.Get()
		Expect(ok).To(BeTrue())
		Expect(opt2.IsNone()).To(BeTrue())
	})
})

var _ = Describe("traversal combinators", func() {
	var o testops.Ops

	BeforeEach(func() { o = testops.Ops{} })

	doubleIfNumber := func(typ typeschema.Type, tv typedval.Typed[any]) result.Result[result.Option[typedval.Typed[any]]] {
		d := unbox(tv)
		if n, ok := d.AsLong().Get(); ok {
			return result.Success(result.Some(boxed(d.CreateLong(n * 2))))
		}
		return result.Success(result.None[typedval.Typed[any]]())
	}

	It("All applies a rule to every immediate child, leaving a node with no children untouched", func() {
		d := doc(o,
			ops.MapEntry[any]{Key: "x", Value: o.CreateLong(1)},
			ops.MapEntry[any]{Key: "y", Value: o.CreateLong(2)},
		)
		out, ok, matched := run(All[any](o, doubleIfNumber), d)
		Expect(ok).To(BeTrue())
		Expect(matched).To(BeTrue())
		x, _ := out.Get("x").AsLong().Get()
		y, _ := out.Get("y").AsLong().Get()
		Expect(x).To(Equal(int64(2)))
		Expect(y).To(Equal(int64(4)))

		leaf := doc(o)
		_, ok2, matched2 := run(All[any](o, doubleIfNumber), leaf)
		Expect(ok2).To(BeTrue())
		Expect(matched2).To(BeFalse())
	})

	It("One rewrites only the first child the rule matches", func() {
		onlyStrings := func(typ typeschema.Type, tv typedval.Typed[any]) result.Result[result.Option[typedval.Typed[any]]] {
			d := unbox(tv)
			if s, ok := d.AsString().Get(); ok {
				return result.Success(result.Some(boxed(d.CreateString(s + "!"))))
			}
			return result.Success(result.None[typedval.Typed[any]]())
		}
		// A list, not a map, so "first" is the declared element order.
		d := dynamic.New[any](o, o.CreateList([]any{
			o.CreateLong(1),
			o.CreateString("hi"),
			o.CreateString("bye"),
		}))
		out, ok, matched := run(One[any](o, onlyStrings), d)
		Expect(ok).To(BeTrue())
		Expect(matched).To(BeTrue())
		items, _ := out.AsList().Get()
		b, _ := items[1].AsString().Get()
		c, _ := items[2].AsString().Get()
		Expect(b).To(Equal("hi!"))
		Expect(c).To(Equal("bye"))
	})

	It("One fails when the rule matches no child", func() {
		onlyBools := func(typ typeschema.Type, tv typedval.Typed[any]) result.Result[result.Option[typedval.Typed[any]]] {
			d := unbox(tv)
			if _, ok := d.AsBool().Get(); ok {
				return result.Success(result.Some(tv))
			}
			return result.Success(result.None[typedval.Typed[any]]())
		}
		d := doc(o, ops.MapEntry[any]{Key: "a", Value: o.CreateLong(1)})
		_, ok, _ := run(One[any](o, onlyBools), d)
		Expect(ok).To(BeFalse())
	})

	It("BottomUp rewrites children before the parent sees the result", func() {
		nested := doc(o, ops.MapEntry[any]{
			Key: "child", Value: o.CreateMap([]ops.MapEntry[any]{
				{Key: "n", Value: o.CreateLong(1)},
			}),
		})
		// Adds 10 to an "n" field wherever one is found — applied bottom-up, so the
		// inner map's "n" is already rewritten by the time the outer map (which has
		// no "n" of its own) is visited.
		bumpN := func(typ typeschema.Type, tv typedval.Typed[any]) result.Result[result.Option[typedval.Typed[any]]] {
			d := unbox(tv)
			n, ok := d.Get("n").AsLong().Get()
			if !ok {
				return result.Success(result.None[typedval.Typed[any]]())
			}
			updated, _ := d.Update("n", func(v dynamic.Dynamic[any]) dynamic.Dynamic[any] {
				return v.CreateLong(n + 10)
			}).Get()
			return result.Success(result.Some(boxed(updated)))
		}
		out, ok, matched := run(BottomUp[any](o, bumpN), nested)
		Expect(ok).To(BeTrue())
		Expect(matched).To(BeTrue())
		n, present := out.Get("child").Get("n").AsLong().Get()
		Expect(present).To(BeTrue())
		Expect(n).To(Equal(int64(11)))
	})

	It("Everywhere is BottomUp's traversal order", func() {
		d := doc(o, ops.MapEntry[any]{
			Key: "a", Value: o.CreateMap([]ops.MapEntry[any]{
				{Key: "b", Value: o.CreateLong(3)},
			}),
		})
		out, ok, matched := run(Everywhere[any](o, doubleIfNumber), d)
		Expect(ok).To(BeTrue())
		Expect(matched).To(BeTrue())
		b, _ := out.Get("a").Get("b").AsLong().Get()
		Expect(b).To(Equal(int64(6)))
	})
})

var _ = Describe("field convenience rules", func() {
	var o testops.Ops

	BeforeEach(func() { o = testops.Ops{} })

	It("RenameField is a no-op when the old field is absent", func() {
		d := doc(o, ops.MapEntry[any]{Key: "other", Value: o.CreateString("x")})
		out, ok, _ := run(RenameField[any](testType, "missing", "renamed"), d)
		Expect(ok).To(BeTrue())
		_, present := out.Get("renamed").AsString().Get()
		Expect(present).To(BeFalse())
	})

	It("AddField only sets the field when it is entirely absent, never overwriting a present field regardless of its value", func() {
		produce := func(dynamic.Dynamic[any]) dynamic.Dynamic[any] { return dynamic.New[any](o, o.CreateString("default")) }

		d := doc(o)
		out, ok, matched := run(AddField[any](testType, "name", produce), d)
		Expect(ok).To(BeTrue())
		Expect(matched).To(BeTrue())
		name, _ := out.Get("name").AsString().Get()
		Expect(name).To(Equal("default"))

		zeroValued := doc(o, ops.MapEntry[any]{Key: "name", Value: o.CreateString("")})
		out2, ok2, _ := run(AddField[any](testType, "name", produce), zeroValued)
		Expect(ok2).To(BeTrue())
		name2, _ := out2.Get("name").AsString().Get()
		Expect(name2).To(Equal(""))

		already := doc(o, ops.MapEntry[any]{Key: "name", Value: o.CreateString("set")})
		out3, ok3, _ := run(AddField[any](testType, "name", produce), already)
		Expect(ok3).To(BeTrue())
		name3, _ := out3.Get("name").AsString().Get()
		Expect(name3).To(Equal("set"))
	})

	It("RemoveField succeeds even when the field is already absent", func() {
		d := doc(o)
		_, ok, _ := run(RemoveField[any](testType, "missing"), d)
		Expect(ok).To(BeTrue())
	})

	It("TransformField rewrites the named field with f", func() {
		d := doc(o, ops.MapEntry[any]{Key: "n", Value: o.CreateLong(4)})
		rule := TransformField[any](testType, "n", func(v dynamic.Dynamic[any]) dynamic.Dynamic[any] {
			n, _ := v.AsLong().Get()
			return v.CreateLong(n + 1)
		})
		out, ok, matched := run(rule, d)
		Expect(ok).To(BeTrue())
		Expect(matched).To(BeTrue())
		n, _ := out.Get("n").AsLong().Get()
		Expect(n).To(Equal(int64(5)))
	})

	It("Transform rewrites the whole node", func() {
		d := doc(o, ops.MapEntry[any]{Key: "n", Value: o.CreateLong(1)})
		rule := Transform[any](testType, func(v dynamic.Dynamic[any]) dynamic.Dynamic[any] {
			updated, _ := v.Set("touched", v.CreateBool(true)).Get()
			return updated
		})
		out, ok, matched := run(rule, d)
		Expect(ok).To(BeTrue())
		Expect(matched).To(BeTrue())
		touched, _ := out.Get("touched").AsBool().Get()
		Expect(touched).To(BeTrue())
	})
})

var _ = Describe("read-only traversal", func() {
	var o testops.Ops

	BeforeEach(func() { o = testops.Ops{} })

	It("Count and Collect walk every descendant in pre-order", func() {
		d := doc(o,
			ops.MapEntry[any]{Key: "a", Value: o.CreateLong(1)},
			ops.MapEntry[any]{Key: "b", Value: o.CreateMap([]ops.MapEntry[any]{
				{Key: "c", Value: o.CreateLong(2)},
			})},
		)
		isLong := func(v dynamic.Dynamic[any]) bool {
			_, ok := v.AsLong().Get()
			return ok
		}
		Expect(Count(d, isLong)).To(Equal(2))
		Expect(Collect(d, isLong)).To(HaveLen(2))
	})
})
