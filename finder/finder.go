// Package finder implements Finder[T], a composable path into a Dynamic[T]
// document — an optic supporting both read (Find) and structure-preserving write
// (Modify) through arbitrarily nested maps and lists.
package finder

import (
	"fmt"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/kestrelfix/datafix/dynamic"
	"github.com/kestrelfix/datafix/result"
	"github.com/kestrelfix/datafix/typeschema"
)

type stepKind int

const (
	fieldStep stepKind = iota
	indexStep
	assertStep
	remainderStep
)

type step struct {
	kind    stepKind
	field   string
	index   int
	typeRef typeschema.TypeReference
	claimed []string
}

// Finder is an ordered sequence of navigation steps. The zero value is the identity
// finder (Find returns its input unchanged).
type Finder[T any] struct {
	steps []step
}

// Field navigates to a map key.
func Field[T any](name string) Finder[T] {
	return Finder[T]{steps: []step{{kind: fieldStep, field: name}}}
}

// Index navigates to a list element.
func Index[T any](i int) Finder[T] {
	return Finder[T]{steps: []step{{kind: indexStep, index: i}}}
}

// AsType asserts the current node is the typed value for ref — spec.md §4.8:
// "succeeds when the current Dynamic is the typed value for the given reference" —
// without otherwise moving the cursor. It requires a type context to check against,
// so it only has meaning under FindTyped; Find rejects it outright.
func AsType[T any](ref typeschema.TypeReference) Finder[T] {
	return Finder[T]{steps: []step{{kind: assertStep, typeRef: ref}}}
}

// RemainderFinder navigates to a view of the current map with every field in
// claimed removed — "whatever else" a schema's explicitly named fields didn't
// account for.
func RemainderFinder[T any](claimed ...string) Finder[T] {
	return Finder[T]{steps: []step{{kind: remainderStep, claimed: claimed}}}
}

// Then composes a followed by b, navigating through a's destination to reach b's.
func Then[T any](a, b Finder[T]) Finder[T] {
	steps := make([]step, 0, len(a.steps)+len(b.steps))
	steps = append(steps, a.steps...)
	steps = append(steps, b.steps...)
	return Finder[T]{steps: steps}
}

// Find navigates d along f, returning an Error if any step's precondition isn't met
// (a field is absent, an index is out of range). An AsType step always returns an
// Error here, since a raw Dynamic carries no Type to check; FindTyped handles it.
func Find[T any](f Finder[T], d dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
	current := result.Success(d)
	for _, s := range f.steps {
		s := s
		current = result.FlatMap(current, func(dd dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
			return findStep(s, dd)
		})
	}
	return current
}

func findStep[T any](s step, d dynamic.Dynamic[T]) result.Result[dynamic.Dynamic[T]] {
	switch s.kind {
	case fieldStep:
		return d.TryGet(s.field)
	case indexStep:
		items, ok := d.Ops.GetList(d.Value).Get()
		if !ok {
			return result.Error[dynamic.Dynamic[T]]("finder: not a list")
		}
		if s.index < 0 || s.index >= len(items) {
			return result.Errorf[dynamic.Dynamic[T]]("finder: index %d out of range (len %d)", s.index, len(items))
		}
		return result.Success(dynamic.New(d.Ops, items[s.index]))
	case assertStep:
		return result.Error[dynamic.Dynamic[T]]("finder: AsType requires a type context — use FindTyped, not Find")
	case remainderStep:
		return remainderOf(d, s.claimed)
	default:
		return result.Success(d)
	}
}

func remainderOf[T any](d dynamic.Dynamic[T], claimed []string) result.Result[dynamic.Dynamic[T]] {
	entries, ok := d.Ops.GetMapEntries(d.Value).Get()
	if !ok {
		return result.Error[dynamic.Dynamic[T]]("finder: remainder requires a map")
	}
	claimedSet := make(map[string]bool, len(claimed))
	for _, c := range claimed {
		claimedSet[c] = true
	}
	var kept []dynamic.Entry[T]
	mapView, ok := d.AsMap().Get()
	if !ok {
		return result.Error[dynamic.Dynamic[T]]("finder: remainder requires string-keyed entries")
	}
	for _, e := range mapView {
		keyStr, isStr := e.Key.AsString().Get()
		if isStr && claimedSet[keyStr] {
			continue
		}
		kept = append(kept, e)
	}
	_ = entries
	out := d.EmptyMap()
	for _, e := range kept {
		set, err := out.Set(mustString(e.Key), e.Value).Get()
		if !err {
			return result.Error[dynamic.Dynamic[T]]("finder: remainder key must be a string")
		}
		out = set
	}
	return result.Success(out)
}

func mustString[T any](d dynamic.Dynamic[T]) string {
	s, _ := d.AsString().Get()
	return s
}

// ID renders f as an RFC 6901 JSON Pointer string, escaping "~" and "/" in field
// names per the spec, and round-tripping through go-openapi/jsonpointer to confirm
// the result parses as a well-formed pointer.
func (f Finder[T]) ID() string {
	var b strings.Builder
	for _, s := range f.steps {
		switch s.kind {
		case fieldStep:
			b.WriteString("/")
			b.WriteString(escapeToken(s.field))
		case indexStep:
			fmt.Fprintf(&b, "/%d", s.index)
		case remainderStep:
			b.WriteString("/...")
		}
	}
	raw := b.String()
	if raw == "" {
		return ""
	}
	if ptr, err := jsonpointer.New(raw); err == nil {
		return ptr.String()
	}
	return raw
}

func escapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}
