package fix

import (
	"fmt"
	"sort"

	"github.com/kestrelfix/datafix/dver"
	"github.com/kestrelfix/datafix/typeschema"
)

// FixRegistry is the freezable, per-TypeReference ordered collection of DataFixes.
// It starts mutable so a bootstrap hook can Register every fix, then is frozen once
// before a Fixer reads from it.
type FixRegistry[T any] struct {
	byType map[typeschema.TypeReference][]FixEntry[T]
	count  int
	frozen bool
}

// NewFixRegistry returns an empty, mutable FixRegistry.
func NewFixRegistry[T any]() *FixRegistry[T] {
	return &FixRegistry[T]{byType: make(map[typeschema.TypeReference][]FixEntry[T])}
}

// Register adds f, keyed by f.Type. It panics if the registry is frozen.
func (r *FixRegistry[T]) Register(f DataFix[T]) {
	if r.frozen {
		panic(fmt.Sprintf("fix: Register(%s) on a frozen FixRegistry", f.Name))
	}
	r.byType[f.Type] = append(r.byType[f.Type], FixEntry[T]{Fix: f, Order: r.count})
	r.count++
}

// Freeze sorts every type's fix list by (FromVersion, registration order) and
// forbids further Register calls.
func (r *FixRegistry[T]) Freeze() {
	for _, entries := range r.byType {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Fix.FromVersion != entries[j].Fix.FromVersion {
				return entries[i].Fix.FromVersion < entries[j].Fix.FromVersion
			}
			return entries[i].Order < entries[j].Order
		})
	}
	r.frozen = true
}

// GetFixes returns the ordered sub-chain of fixes registered for ref whose range
// [FromVersion, ToVersion] falls entirely within [from, to] — spec.md §4.6: a fix is
// included when fromVersion >= from AND toVersion <= to, not merely when its
// FromVersion starts inside the window, since a fix that starts inside [from, to]
// but finishes past to would leave the document further along than the caller
// asked for. Fixes need not tile the range contiguously — a single fix may span
// several versions — so a gap between one fix's ToVersion and the next's
// FromVersion is tolerated rather than treated as an error; Fixer.Update applies the
// returned fixes in order and moves through a gap without transforming or reporting
// it.
func (r *FixRegistry[T]) GetFixes(ref typeschema.TypeReference, from, to dver.DataVersion) []DataFix[T] {
	var out []DataFix[T]
	for _, e := range r.byType[ref] {
		if !e.Fix.FromVersion.IsOlderThan(from) && !e.Fix.ToVersion.IsNewerThan(to) {
			out = append(out, e.Fix)
		}
	}
	return out
}

// Types returns every TypeReference with at least one registered fix.
func (r *FixRegistry[T]) Types() []typeschema.TypeReference {
	out := make([]typeschema.TypeReference, 0, len(r.byType))
	for ref := range r.byType {
		out = append(out, ref)
	}
	return out
}
