package typeschema_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/kestrelfix/datafix/typeschema"
)

var _ = Describe("TypeTemplate", func() {
	It("applies constant primitive templates regardless of family", func() {
		typ, err := IntTemplate().Apply(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(typ).To(Equal(Int))

		typ2, err := IntTemplate().Apply(TypeFamily{Bool})
		Expect(err).NotTo(HaveOccurred())
		Expect(typ2).To(Equal(Int))
	})

	It("builds a field and collapses an optional inner into the ?name form", func() {
		field := Field("age", IntTemplate())
		typ, err := field.Apply(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(typ.Describe()).To(Equal("age: int"))

		optField := OptionalField("nickname", StringTemplate())
		typ2, err := optField.Apply(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(typ2.Describe()).To(Equal("?nickname: String"))
	})

	It("builds right-associative And/Or chains", func() {
		and, err := And(IntTemplate(), StringTemplate(), BoolTemplate()).Apply(nil)
		Expect(err).NotTo(HaveOccurred())
		product, ok := and.(ProductType)
		Expect(ok).To(BeTrue())
		Expect(product.Left).To(Equal(Int))
		inner, ok := product.Right.(ProductType)
		Expect(ok).To(BeTrue())
		Expect(inner.Left).To(Equal(String))
		Expect(inner.Right).To(Equal(Bool))

		_, err = And(IntTemplate()).Apply(nil)
		Expect(err).To(HaveOccurred())

		or, err := Or(IntTemplate(), StringTemplate()).Apply(nil)
		Expect(err).NotTo(HaveOccurred())
		sum, ok := or.(SumType)
		Expect(ok).To(BeTrue())
		Expect(sum.Left).To(Equal(Int))
		Expect(sum.Right).To(Equal(String))
	})

	It("resolves ID(i) against the ambient family and errors out of range", func() {
		family := TypeFamily{Bool, Int}
		typ, err := ID(1).Apply(family)
		Expect(err).NotTo(HaveOccurred())
		Expect(typ).To(Equal(Int))

		_, err = ID(5).Apply(family)
		Expect(err).To(HaveOccurred())
	})

	It("builds a self-referential Recursive type that terminates on Describe", func() {
		listTemplate := Recursive("IntList", func(self TypeTemplate) TypeTemplate {
			return Or(
				Field("nil", BoolTemplate()),
				And(Field("head", IntTemplate()), Field("tail", self)),
			)
		})
		typ, err := listTemplate.Apply(nil)
		Expect(err).NotTo(HaveOccurred())

		rec, ok := typ.(RecursiveType)
		Expect(ok).To(BeTrue())
		Expect(rec.Reference()).To(Equal(TypeReference("IntList")))

		body, err := rec.Body()
		Expect(err).NotTo(HaveOccurred())
		sum, ok := body.(SumType)
		Expect(ok).To(BeTrue())
		tailField := sum.Right.(ProductType).Right.(FieldType)
		Expect(tailField.Name).To(Equal("tail"))
		point, ok := tailField.Inner.(RecursivePointType)
		Expect(ok).To(BeTrue())
		Expect(point.Index).To(Equal(0))

		Expect(func() { _ = rec.Describe() }).NotTo(Panic())
	})

	It("keeps TaggedChoice branches in declared order and resolves BranchByKey", func() {
		choice, err := TaggedChoice("kind",
			Case("circle", Field("radius", DoubleTemplate())),
			Case("square", Field("side", DoubleTemplate())),
		).Apply(nil)
		Expect(err).NotTo(HaveOccurred())

		tc, ok := choice.(TaggedChoiceType)
		Expect(ok).To(BeTrue())
		Expect(tc.Branches).To(HaveLen(2))
		Expect(tc.Branches[0].Key).To(Equal("circle"))
		Expect(tc.Branches[1].Key).To(Equal("square"))

		squareType, found := tc.BranchByKey("square")
		Expect(found).To(BeTrue())
		Expect(squareType.Describe()).To(Equal("side: double"))

		_, found = tc.BranchByKey("triangle")
		Expect(found).To(BeFalse())
	})

	It("produces the same result for the same family (template constancy)", func() {
		tmpl := And(Field("x", IntTemplate()), Field("y", IntTemplate()))
		a, err := tmpl.Apply(nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := tmpl.Apply(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Describe()).To(Equal(b.Describe()))
	})
})
