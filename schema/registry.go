package schema

import (
	"fmt"
	"sort"

	"github.com/kestrelfix/datafix/dver"
)

// SchemaRegistry is the ordered, freezable collection of Schemas across a migration
// history, keyed by the DataVersion each one was introduced at.
type SchemaRegistry struct {
	entries []schemaEntry
	frozen  bool
}

type schemaEntry struct {
	version dver.DataVersion
	schema  *Schema
}

// NewSchemaRegistry returns an empty, mutable SchemaRegistry.
func NewSchemaRegistry() *SchemaRegistry { return &SchemaRegistry{} }

// Register adds s under s.Version. It panics if the registry is frozen or a schema
// is already registered at that version.
func (r *SchemaRegistry) Register(s *Schema) {
	if r.frozen {
		panic(fmt.Sprintf("schema: Register(%s) on a frozen SchemaRegistry", s.Version))
	}
	for _, e := range r.entries {
		if e.version == s.Version {
			panic(fmt.Sprintf("schema: duplicate schema registration for version %s", s.Version))
		}
	}
	r.entries = append(r.entries, schemaEntry{version: s.Version, schema: s})
}

// Freeze sorts entries by version and forbids further Register calls.
func (r *SchemaRegistry) Freeze() {
	sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].version < r.entries[j].version })
	r.frozen = true
}

// GetSchema returns the Schema registered at the greatest version <= v — the
// "closest lesser version" a document at an unregistered intermediate version falls
// back to — or false if v precedes every registered schema.
func (r *SchemaRegistry) GetSchema(v dver.DataVersion) (*Schema, bool) {
	var best *Schema
	for _, e := range r.entries {
		if e.version > v {
			break
		}
		best = e.schema
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// Versions returns every registered version in ascending order.
func (r *SchemaRegistry) Versions() []dver.DataVersion {
	out := make([]dver.DataVersion, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.version
	}
	return out
}
