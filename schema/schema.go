package schema

import (
	"sync"

	"github.com/kestrelfix/datafix/dver"
	"github.com/kestrelfix/datafix/typeschema"
)

// Schema is the type universe in effect at one DataVersion. Its TypeRegistry is
// built lazily, on first use, by invoking registerTypes once — mirroring the
// bootstrap-then-freeze shape the rest of this engine uses for registries — and is
// cached afterward.
type Schema struct {
	Version      dver.DataVersion
	Parent       *Schema
	registerFn   func(*TypeRegistry)
	buildOnce    sync.Once
	typeRegistry *TypeRegistry
}

// New builds a Schema at version, optionally chained to parent. registerFn is
// invoked at most once, the first time Types (directly or via FindType) is called.
func New(version dver.DataVersion, parent *Schema, registerFn func(*TypeRegistry)) *Schema {
	return &Schema{Version: version, Parent: parent, registerFn: registerFn}
}

// Types returns this Schema's own TypeRegistry, building and freezing it on first
// call. It does not consult Parent — use FindType for the parent-chain lookup.
func (s *Schema) Types() *TypeRegistry {
	s.buildOnce.Do(func() {
		reg := NewTypeRegistry()
		if s.registerFn != nil {
			s.registerFn(reg)
		}
		reg.Freeze()
		s.typeRegistry = reg
	})
	return s.typeRegistry
}

// FindType resolves ref in this Schema's own registry first, falling back to Parent
// (and so on up the chain) when this Schema doesn't declare ref itself. This lets a
// later schema version only redeclare the types that actually changed, inheriting
// everything else unchanged — the same "closest declared version wins" shape as the
// version-bundle lookup this package's DESIGN.md entry is grounded on.
func (s *Schema) FindType(ref typeschema.TypeReference) (typeschema.Type, bool) {
	if t, ok := s.Types().Get(ref); ok {
		return t, true
	}
	if s.Parent != nil {
		return s.Parent.FindType(ref)
	}
	return nil, false
}
