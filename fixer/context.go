package fixer

import "github.com/kestrelfix/datafix/fix"

// Context, Trace, and TraceStep live in package fix now — DataFix.Apply needs to
// reference *Context directly, and fix cannot import fixer (fixer already imports
// fix) without a cycle. These aliases keep the familiar fixer.Context spelling
// working for callers that only ever touch the engine through this package.
type Context = fix.Context
type Trace = fix.Trace
type TraceStep = fix.TraceStep

// NewContext returns a Context with diagnostics enabled if withTrace is true.
func NewContext(withTrace bool) *Context { return fix.NewContext(withTrace) }
