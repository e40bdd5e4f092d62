package finder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kestrelfix/datafix/dynamic"
	. "github.com/kestrelfix/datafix/finder"
	"github.com/kestrelfix/datafix/internal/testops"
	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
	"github.com/kestrelfix/datafix/typedval"
	"github.com/kestrelfix/datafix/typeschema"
)

func nested(o testops.Ops) dynamic.Dynamic[any] {
	return dynamic.New[any](o, o.CreateMap([]ops.MapEntry[any]{
		{Key: "player", Value: o.CreateMap([]ops.MapEntry[any]{
			{Key: "name", Value: o.CreateString("vera")},
			{Key: "inventory", Value: o.CreateList([]any{
				o.CreateString("sword"), o.CreateString("shield"),
			})},
			{Key: "legacyFlag", Value: o.CreateBool(true)},
		})},
	}))
}

var _ = Describe("Find", func() {
	var o testops.Ops

	BeforeEach(func() { o = testops.Ops{} })

	It("navigates through nested fields", func() {
		f := Then(Field[any]("player"), Field[any]("name"))
		out, ok := Find(f, nested(o)).Get()
		Expect(ok).To(BeTrue())
		name, _ := out.AsString().Get()
		Expect(name).To(Equal("vera"))
	})

	It("navigates through a list index", func() {
		f := Then(Field[any]("player"), Then(Field[any]("inventory"), Index[any](1)))
		out, ok := Find(f, nested(o)).Get()
		Expect(ok).To(BeTrue())
		item, _ := out.AsString().Get()
		Expect(item).To(Equal("shield"))
	})

	It("fails on an absent field or out-of-range index", func() {
		f := Then(Field[any]("player"), Field[any]("missing"))
		_, ok := Find(f, nested(o)).Get()
		Expect(ok).To(BeFalse())

		f2 := Then(Field[any]("player"), Then(Field[any]("inventory"), Index[any](99)))
		_, ok = Find(f2, nested(o)).Get()
		Expect(ok).To(BeFalse())
	})

	It("rejects AsType, which has no type context to check against without FindTyped", func() {
		f := Then(Field[any]("player"), Then(Field[any]("inventory"), AsType[any]("List<String>")))
		_, ok := Find(f, nested(o)).Get()
		Expect(ok).To(BeFalse())
	})

	It("RemainderFinder surfaces every field not in claimed", func() {
		f := Then(Field[any]("player"), RemainderFinder[any]("name", "inventory"))
		out, ok := Find(f, nested(o)).Get()
		Expect(ok).To(BeTrue())
		entries, _ := out.AsMap().Get()
		Expect(entries).To(HaveLen(1))
		key, _ := entries[0].Key.AsString().Get()
		Expect(key).To(Equal("legacyFlag"))
	})

	It("renders a JSON Pointer ID, escaping ~ and /", func() {
		f := Then(Field[any]("player"), Field[any]("name"))
		Expect(f.ID()).To(Equal("/player/name"))

		weird := Field[any]("a/b~c")
		Expect(weird.ID()).To(Equal("/a~1b~0c"))
	})
})

var _ = Describe("Modify", func() {
	var o testops.Ops

	BeforeEach(func() { o = testops.Ops{} })

	It("rewrites the targeted node and rebuilds ancestors", func() {
		f := Then(Field[any]("player"), Field[any]("name"))
		out, ok := Modify(f, nested(o), func(v dynamic.Dynamic[any]) dynamic.Dynamic[any] {
			return v.CreateString("renamed")
		}).Get()
		Expect(ok).To(BeTrue())

		name, _ := Find(f, out).Get()
		n, _ := name.AsString().Get()
		Expect(n).To(Equal("renamed"))

		// Unrelated sibling data survives untouched.
		inv := Then(Field[any]("player"), Field[any]("inventory"))
		invOut, ok := Find(inv, out).Get()
		Expect(ok).To(BeTrue())
		items, _ := invOut.AsList().Get()
		Expect(items).To(HaveLen(2))
	})

	It("rewrites a list element in place", func() {
		f := Then(Field[any]("player"), Then(Field[any]("inventory"), Index[any](0)))
		out, ok := Modify(f, nested(o), func(v dynamic.Dynamic[any]) dynamic.Dynamic[any] {
			return v.CreateString("dagger")
		}).Get()
		Expect(ok).To(BeTrue())
		item, _ := Find(f, out).Get()
		s, _ := item.AsString().Get()
		Expect(s).To(Equal("dagger"))
	})

	It("modifies through a RemainderFinder, preserving claimed fields", func() {
		f := Then(Field[any]("player"), RemainderFinder[any]("name", "inventory"))
		out, ok := Modify(f, nested(o), func(v dynamic.Dynamic[any]) dynamic.Dynamic[any] {
			updated, _ := v.Set("legacyFlag", v.CreateBool(false)).Get()
			return updated
		}).Get()
		Expect(ok).To(BeTrue())

		flagPath := Then(Field[any]("player"), Field[any]("legacyFlag"))
		flag, _ := Find(flagPath, out).Get()
		b, _ := flag.AsBool().Get()
		Expect(b).To(BeFalse())

		namePath := Then(Field[any]("player"), Field[any]("name"))
		nameOut, ok := Find(namePath, out).Get()
		Expect(ok).To(BeTrue())
		n, _ := nameOut.AsString().Get()
		Expect(n).To(Equal("vera"))
	})
})

var _ = Describe("FindTyped", func() {
	var o testops.Ops
	var listType typeschema.Type
	var playerType typeschema.Type
	var root typedval.Typed[any]

	BeforeEach(func() {
		o = testops.Ops{}
		listType = typeschema.ListType{Element: typeschema.String}
		playerType = typeschema.ProductType{
			Left: typeschema.FieldType{Name: "name", Inner: typeschema.String},
			Right: typeschema.ProductType{
				Left:  typeschema.FieldType{Name: "inventory", Inner: listType},
				Right: typeschema.FieldType{Name: "legacyFlag", Inner: typeschema.Bool},
			},
		}
		playerValue := result.NewPair[any, any]("vera", result.NewPair[any, any]([]any{"sword", "shield"}, true))
		root = typedval.Typed[any]{Type: playerType, Value: playerValue}
	})

	It("navigates by field name through a Product/Field chain", func() {
		f := Field[any]("inventory")
		out, ok := FindTyped(f, o, root).Get()
		Expect(ok).To(BeTrue())
		Expect(out.Type.Reference()).To(Equal(listType.Reference()))
		items, ok := out.Value.([]any)
		Expect(ok).To(BeTrue())
		Expect(items).To(HaveLen(2))
	})

	It("AsType succeeds when the current node is the typed value for the given reference", func() {
		f := Then(Field[any]("inventory"), AsType[any](listType.Reference()))
		_, ok := FindTyped(f, o, root).Get()
		Expect(ok).To(BeTrue())
	})

	It("AsType fails when the current node's type reference does not match", func() {
		f := Then(Field[any]("name"), AsType[any](listType.Reference()))
		_, ok := FindTyped(f, o, root).Get()
		Expect(ok).To(BeFalse())
	})
})
