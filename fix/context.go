package fix

import (
	"fmt"
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/kestrelfix/datafix/dynamic"
)

// Context carries optional per-call state through a fix chain; currently just the
// diagnostic Trace. A nil Context (or a Context with a nil Trace) disables
// diagnostics entirely at effectively no cost. It lives here rather than in fixer so
// DataFix.Apply can reference it directly without fix importing fixer.
type Context struct {
	Trace *Trace
}

// NewContext returns a Context with diagnostics enabled if withTrace is true.
func NewContext(withTrace bool) *Context {
	if !withTrace {
		return &Context{}
	}
	return &Context{Trace: &Trace{}}
}

// maxSnapshotLen bounds how much of a document's rendered value a TraceStep keeps,
// so a migration over a large document doesn't make its own diagnostics the memory
// problem.
const maxSnapshotLen = 2048

// Trace records a before/after snapshot of the document around every fix that ran.
// Snapshots are taken with deepcopy.Copy rather than stored by reference, so a fix
// that (incorrectly) mutated shared substructure in place can't retroactively
// corrupt an earlier step's recorded "before" value.
type Trace struct {
	Steps []TraceStep
}

// TraceStep is one fix's contribution to a Trace.
type TraceStep struct {
	FixName string
	Before  string
	After   string
}

// Snapshot renders d.Value through a deep copy so a later in-place mutation (by a
// misbehaving fix) can't retroactively change an already-recorded trace string.
func Snapshot[T any](d dynamic.Dynamic[T]) string {
	copied := deepcopy.Copy(d.Value)
	s := fmt.Sprintf("%v", copied)
	if len(s) > maxSnapshotLen {
		s = s[:maxSnapshotLen] + "... (truncated)"
	}
	return s
}

// Record appends one fix's before/after snapshots.
func (t *Trace) Record(name, before, after string) {
	t.Steps = append(t.Steps, TraceStep{FixName: name, Before: before, After: after})
}

// String renders every recorded step for diagnostics: each fix name, followed by an
// indented before/after pair.
func (t *Trace) String() string {
	var b strings.Builder
	for _, step := range t.Steps {
		fmt.Fprintf(&b, "%s:\n  before: %s\n  after:  %s\n", step.FixName, step.Before, step.After)
	}
	return b.String()
}
