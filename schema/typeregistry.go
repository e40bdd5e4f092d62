// Package schema implements Schema and SchemaRegistry, the per-version type universe
// and its ordered collection across a migration history, plus the TypeRegistry each
// Schema lazily builds from its declarative registerTypes hook.
package schema

import (
	"fmt"

	"github.com/kestrelfix/datafix/typeschema"
)

// TypeRegistry is a freezable TypeReference -> Type map. It starts mutable so a
// Schema's registerTypes hook can populate it with RegisterTemplate calls, then is
// frozen once: every further Register attempt panics, since mutating a registry
// already handed out to readers would be a programmer error, not a recoverable one.
type TypeRegistry struct {
	entries map[typeschema.TypeReference]typeschema.Type
	frozen  bool
}

// NewTypeRegistry returns an empty, mutable TypeRegistry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{entries: make(map[typeschema.TypeReference]typeschema.Type)}
}

// Register binds ref to t. It panics if the registry is frozen or ref is already
// bound — both indicate a bootstrap-time programmer error, not a recoverable one.
func (r *TypeRegistry) Register(ref typeschema.TypeReference, t typeschema.Type) {
	if r.frozen {
		panic(fmt.Sprintf("schema: Register(%s) on a frozen TypeRegistry", ref))
	}
	if _, exists := r.entries[ref]; exists {
		panic(fmt.Sprintf("schema: duplicate type registration for %s", ref))
	}
	r.entries[ref] = t
}

// RegisterTemplate materializes template against family and registers the result
// under ref. It panics on a template application error (an out-of-range recursion
// point, an and/or with fewer than two arms) since these are bootstrap-time schema
// authoring mistakes.
func (r *TypeRegistry) RegisterTemplate(ref typeschema.TypeReference, template typeschema.TypeTemplate, family typeschema.TypeFamily) {
	t, err := template.Apply(family)
	if err != nil {
		panic(fmt.Sprintf("schema: registering %s: %v", ref, err))
	}
	r.Register(ref, t)
}

// Freeze forbids further Register calls.
func (r *TypeRegistry) Freeze() { r.frozen = true }

// Get returns the type bound to ref, and whether one was found in this registry —
// callers that want parent-chain fallback should go through Schema.FindType instead.
func (r *TypeRegistry) Get(ref typeschema.TypeReference) (typeschema.Type, bool) {
	t, ok := r.entries[ref]
	return t, ok
}

// References returns every bound TypeReference in this registry, in no particular
// order — useful for diagnostics and for exhaustively checking fix coverage.
func (r *TypeRegistry) References() []typeschema.TypeReference {
	out := make([]typeschema.TypeReference, 0, len(r.entries))
	for ref := range r.entries {
		out = append(out, ref)
	}
	return out
}
