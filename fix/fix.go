// Package fix implements DataFix[T], one declared migration step for a single type,
// and FixRegistry[T], the per-type ordered collection of fixes a Fixer drives a
// document through.
package fix

import (
	"github.com/kestrelfix/datafix/dver"
	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/result"
	"github.com/kestrelfix/datafix/typeschema"
)

// DataFix is one named migration step for the type identified by Type, valid from
// FromVersion up to (but not including) ToVersion. Apply receives the type being
// migrated, a document already confirmed to be of the schema shape at FromVersion,
// and the driving Context, and must return a document of the schema shape at
// ToVersion — spec.md §4.6's apply(type, input, ctx) -> output. A rewrite.RewriteRule
// is not directly assignable here (its shape is richer, gated on a full
// typeschema.Type rather than a bare reference); rewrite.AsFixApply adapts one into
// the other.
type DataFix[T any] struct {
	Name        string
	Type        typeschema.TypeReference
	FromVersion dver.DataVersion
	ToVersion   dver.DataVersion
	Apply       func(ref typeschema.TypeReference, input dynamic.Dynamic[T], ctx *Context) result.Result[dynamic.Dynamic[T]]
}

// FixEntry is a DataFix plus the order it was registered in, used to break ties
// between two fixes that declare the same FromVersion for the same type — the
// earlier registration always runs first, matching the source chain-ordering
// behaviour this package's DESIGN.md entry is grounded on.
type FixEntry[T any] struct {
	Fix   DataFix[T]
	Order int
}
