package fixer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kestrelfix/datafix/dver"
	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/fix"
	. "github.com/kestrelfix/datafix/fixer"
	"github.com/kestrelfix/datafix/internal/testops"
	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
	"github.com/kestrelfix/datafix/rewrite"
	"github.com/kestrelfix/datafix/schema"
	"github.com/kestrelfix/datafix/typeschema"
)

const playerType typeschema.TypeReference = "player"

type playerBootstrap struct{}

func (playerBootstrap) RegisterSchemas(reg *schema.SchemaRegistry) {
	v100 := schema.New(dver.DataVersion(100), nil, func(r *schema.TypeRegistry) {
		r.RegisterTemplate(playerType, typeschema.And(
			typeschema.Field("name", typeschema.StringTemplate()),
			typeschema.Field("hp", typeschema.IntTemplate()),
		), nil)
	})
	v200 := schema.New(dver.DataVersion(200), v100, func(r *schema.TypeRegistry) {
		r.RegisterTemplate(playerType, typeschema.And(
			typeschema.Field("name", typeschema.StringTemplate()),
			typeschema.Field("health", typeschema.IntTemplate()),
		), nil)
	})
	reg.Register(v100)
	reg.Register(v200)
}

func (playerBootstrap) RegisterFixes(reg *fix.FixRegistry[any]) {
	reg.Register(fix.DataFix[any]{
		Name:        "rename hp to health",
		Type:        playerType,
		FromVersion: dver.DataVersion(100),
		ToVersion:   dver.DataVersion(200),
		Apply:       rewrite.AsFixApply[any](rewrite.RenameField[any](playerType, "hp", "health")),
	})
	reg.Register(fix.DataFix[any]{
		Name:        "add level",
		Type:        playerType,
		FromVersion: dver.DataVersion(200),
		ToVersion:   dver.DataVersion(300),
		Apply: rewrite.AsFixApply[any](rewrite.AddField[any](playerType, "level", func(dynamic.Dynamic[any]) dynamic.Dynamic[any] {
			o := testops.Ops{}
			return dynamic.New[any](o, o.CreateLong(1))
		})),
	})
}

var _ = Describe("Fixer", func() {
	var o testops.Ops
	var f *Fixer[any]

	BeforeEach(func() {
		o = testops.Ops{}
		f = New[any](playerBootstrap{}, dver.DataVersion(300))
	})

	It("resolves the closest-lesser schema version", func() {
		s, ok := f.Schemas.GetSchema(dver.DataVersion(150))
		Expect(ok).To(BeTrue())
		Expect(s.Version).To(Equal(dver.DataVersion(100)))
	})

	It("exposes the CurrentVersion it was built with", func() {
		Expect(f.CurrentVersion).To(Equal(dver.DataVersion(300)))
	})

	It("drives a document through every applicable fix in order", func() {
		doc := dynamic.New[any](o, o.CreateMap([]ops.MapEntry[any]{
			{Key: "name", Value: o.CreateString("vera")},
			{Key: "hp", Value: o.CreateLong(10)},
		}))

		updated, err := Update(f, playerType, doc, dver.DataVersion(100), dver.DataVersion(300), nil)
		Expect(err).To(BeNil())

		health, ok := updated.Get("health").AsLong().Get()
		Expect(ok).To(BeTrue())
		Expect(health).To(Equal(int64(10)))

		level, ok := updated.Get("level").AsLong().Get()
		Expect(ok).To(BeTrue())
		Expect(level).To(Equal(int64(1)))

		_, hpStillThere := updated.Get("hp").AsLong().Get()
		Expect(hpStillThere).To(BeFalse())
	})

	It("is a no-op when fromVersion already equals toVersion", func() {
		doc := dynamic.New[any](o, o.CreateMap(nil))
		updated, err := Update(f, playerType, doc, dver.DataVersion(300), dver.DataVersion(300), nil)
		Expect(err).To(BeNil())
		Expect(updated).To(Equal(doc))
	})

	It("panics when fromVersion is newer than toVersion", func() {
		doc := dynamic.New[any](o, o.CreateMap(nil))
		Expect(func() {
			Update(f, playerType, doc, dver.DataVersion(300), dver.DataVersion(100), nil)
		}).To(Panic())
	})

	It("panics when toVersion exceeds the Fixer's currentVersion", func() {
		doc := dynamic.New[any](o, o.CreateMap(nil))
		Expect(func() {
			Update(f, playerType, doc, dver.DataVersion(100), dver.DataVersion(400), nil)
		}).To(Panic())
	})

	It("discards every change and reports a FixError when a fix fails", func() {
		failing := fix.NewFixRegistry[any]()
		failing.Register(fix.DataFix[any]{
			Name:        "always fails",
			Type:        playerType,
			FromVersion: dver.DataVersion(100),
			ToVersion:   dver.DataVersion(200),
			Apply: func(ref typeschema.TypeReference, d dynamic.Dynamic[any], ctx *fix.Context) result.Result[dynamic.Dynamic[any]] {
				return result.Error[dynamic.Dynamic[any]]("boom")
			},
		})
		failing.Freeze()
		broken := &Fixer[any]{Schemas: f.Schemas, Fixes: failing, CurrentVersion: dver.DataVersion(300)}

		doc := dynamic.New[any](o, o.CreateMap(nil))
		updated, err := Update(broken, playerType, doc, dver.DataVersion(100), dver.DataVersion(200), nil)
		Expect(err).NotTo(BeNil())
		Expect(err.FixName).To(Equal("always fails"))
		Expect(updated).To(Equal(doc))
	})

	It("records a before/after trace step per fix when diagnostics are enabled", func() {
		ctx := NewContext(true)
		doc := dynamic.New[any](o, o.CreateMap([]ops.MapEntry[any]{
			{Key: "name", Value: o.CreateString("vera")},
			{Key: "hp", Value: o.CreateLong(10)},
		}))
		_, err := Update(f, playerType, doc, dver.DataVersion(100), dver.DataVersion(300), ctx)
		Expect(err).To(BeNil())
		Expect(ctx.Trace.Steps).To(HaveLen(2))
		Expect(ctx.Trace.Steps[0].FixName).To(Equal("rename hp to health"))
		Expect(ctx.Trace.Steps[1].FixName).To(Equal("add level"))
	})

	It("UpdateTagged reads and re-tags the TypeReference from the document itself", func() {
		tagged := dynamic.NewTagged[any]("player", dynamic.New[any](o, o.CreateMap([]ops.MapEntry[any]{
			{Key: "name", Value: o.CreateString("vera")},
			{Key: "hp", Value: o.CreateLong(5)},
		})))
		updated, err := UpdateTagged(f, tagged, dver.DataVersion(100), dver.DataVersion(200), nil)
		Expect(err).To(BeNil())
		Expect(updated.Type).To(Equal("player"))
		health, ok := updated.Value.Get("health").AsLong().Get()
		Expect(ok).To(BeTrue())
		Expect(health).To(Equal(int64(5)))
	})
})
