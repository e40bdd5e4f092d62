// Package fixer ties schema, fix, and dynamic together into the engine's public
// facade: given a document tagged with its TypeReference and current version, walk
// every applicable DataFix in order to bring it up to a target version.
package fixer

import (
	"fmt"

	"github.com/kestrelfix/datafix/dver"
	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/fix"
	"github.com/kestrelfix/datafix/schema"
	"github.com/kestrelfix/datafix/typeschema"
)

// Bootstrap populates a fresh SchemaRegistry and FixRegistry. Implementations are
// the one place an application declares its entire migration history; New consumes
// a Bootstrap exactly once, freezing both registries immediately afterward.
type Bootstrap[T any] interface {
	RegisterSchemas(*schema.SchemaRegistry)
	RegisterFixes(*fix.FixRegistry[T])
}

// Fixer is the immutable, built-once migration engine for one encoding T.
// CurrentVersion is the newest schema version this Fixer's application actually
// understands — spec.md §4.9: no Update call may be asked to produce a document
// beyond it.
type Fixer[T any] struct {
	Schemas        *schema.SchemaRegistry
	Fixes          *fix.FixRegistry[T]
	CurrentVersion dver.DataVersion
}

// New builds a Fixer from b at currentVersion, freezing both registries so every
// later Update call sees a stable view of the migration history.
func New[T any](b Bootstrap[T], currentVersion dver.DataVersion) *Fixer[T] {
	schemas := schema.NewSchemaRegistry()
	b.RegisterSchemas(schemas)
	schemas.Freeze()

	fixes := fix.NewFixRegistry[T]()
	b.RegisterFixes(fixes)
	fixes.Freeze()

	return &Fixer[T]{Schemas: schemas, Fixes: fixes, CurrentVersion: currentVersion}
}

// FixError reports which fix in the chain failed, and on what document version.
type FixError struct {
	FixName     string
	Type        typeschema.TypeReference
	FromVersion dver.DataVersion
	Message     string
}

func (e *FixError) Error() string {
	return fmt.Sprintf("fixer: %s (type %s, from version %s): %s", e.FixName, e.Type, e.FromVersion, e.Message)
}

// Update walks d, currently at fromVersion and identified by ref, through every
// registered fix whose [FromVersion, ToVersion] lies within [fromVersion, toVersion],
// in order — a fix ending exactly at toVersion is applied. It returns the
// migrated document, or the first FixError encountered — earlier fixes' results are
// discarded on failure rather than left partially applied, since a document stuck
// halfway between two schema versions is not a value callers should be handed.
//
// fromVersion > toVersion and toVersion > f.CurrentVersion are both programmer
// errors, not data errors — spec.md §4.9 scenario S4 — and panic immediately rather
// than returning a FixError, the same convention result.ResultOrPartial's documentation
// describes for other hard invariant violations in this engine.
func Update[T any](f *Fixer[T], ref typeschema.TypeReference, d dynamic.Dynamic[T], fromVersion, toVersion dver.DataVersion, ctx *Context) (dynamic.Dynamic[T], *FixError) {
	if fromVersion.IsNewerThan(toVersion) {
		panic(fmt.Sprintf("fixer: Update: fromVersion %s is newer than toVersion %s", fromVersion, toVersion))
	}
	if toVersion.IsNewerThan(f.CurrentVersion) {
		panic(fmt.Sprintf("fixer: Update: toVersion %s exceeds the Fixer's currentVersion %s", toVersion, f.CurrentVersion))
	}
	if fromVersion.Equal(toVersion) {
		return d, nil
	}

	current := d
	currentVersion := fromVersion
	for _, df := range f.Fixes.GetFixes(ref, fromVersion, toVersion) {
		// Paranoid double-check (spec.md §4.9 step 4): GetFixes already filters to
		// fixes whose range fits inside [fromVersion, toVersion], but a fix chain
		// driving a document past the version it was asked to stop at is exactly the
		// kind of silent over-migration this engine must never let slip through.
		if df.ToVersion.IsNewerThan(toVersion) {
			continue
		}

		var before string
		if ctx != nil && ctx.Trace != nil {
			before = fix.Snapshot(current)
		}
		out := df.Apply(ref, current, ctx)
		if out.IsError() {
			return d, &FixError{FixName: df.Name, Type: ref, FromVersion: currentVersion, Message: out.Message()}
		}
		current, _ = out.Get()
		currentVersion = df.ToVersion
		if ctx != nil && ctx.Trace != nil {
			ctx.Trace.Record(df.Name, before, fix.Snapshot(current))
		}
	}
	return current, nil
}

// UpdateTagged is Update for a dynamic.TaggedDynamic, reading ref from its Type
// field and returning the result re-tagged the same way.
func UpdateTagged[T any](f *Fixer[T], tagged dynamic.TaggedDynamic[T], fromVersion, toVersion dver.DataVersion, ctx *Context) (dynamic.TaggedDynamic[T], *FixError) {
	updated, err := Update(f, typeschema.TypeReference(tagged.Type), tagged.Value, fromVersion, toVersion, ctx)
	if err != nil {
		return tagged, err
	}
	return dynamic.NewTagged(tagged.Type, updated), nil
}
