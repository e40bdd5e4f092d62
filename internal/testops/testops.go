// Package testops is a minimal in-memory ops.Ops[any] implementation used only by
// this module's own tests, so package tests don't have to depend on a concrete
// encoding adapter (or its third-party parser) just to exercise the core engine.
package testops

import (
	"fmt"

	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
)

type Ops struct{}

var _ ops.Ops[any] = Ops{}

func (Ops) Empty() any     { return nil }
func (Ops) EmptyMap() any  { return map[string]any{} }
func (Ops) EmptyList() any { return []any{} }

func (Ops) CreateBool(b bool) any      { return b }
func (Ops) CreateByte(v int8) any      { return ops.NumberFromInt64(int64(v)) }
func (Ops) CreateShort(v int16) any    { return ops.NumberFromInt64(int64(v)) }
func (Ops) CreateInt(v int32) any      { return ops.NumberFromInt64(int64(v)) }
func (Ops) CreateLong(v int64) any     { return ops.NumberFromInt64(v) }
func (Ops) CreateFloat(v float32) any  { return ops.NumberFromFloat64(float64(v)) }
func (Ops) CreateDouble(v float64) any { return ops.NumberFromFloat64(v) }
func (Ops) CreateString(s string) any  { return s }

func (Ops) CreateList(items []any) any {
	out := make([]any, len(items))
	copy(out, items)
	return out
}

func (Ops) CreateMap(entries []ops.MapEntry[any]) any {
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		k, _ := e.Key.(string)
		out[k] = e.Value
	}
	return out
}

func (Ops) GetBoolValue(v any) result.Result[bool] {
	b, ok := v.(bool)
	if !ok {
		return result.Error[bool]("testops: not a bool")
	}
	return result.Success(b)
}

func (Ops) GetNumberValue(v any) result.Result[ops.Number] {
	n, ok := v.(ops.Number)
	if !ok {
		return result.Error[ops.Number]("testops: not a number")
	}
	return result.Success(n)
}

func (Ops) GetStringValue(v any) result.Result[string] {
	s, ok := v.(string)
	if !ok {
		return result.Error[string]("testops: not a string")
	}
	return result.Success(s)
}

func (o Ops) GetMapValues(v any) result.Result[[]ops.MapEntry[any]] { return o.GetMapEntries(v) }

func (Ops) GetMapEntries(v any) result.Result[[]ops.MapEntry[any]] {
	m, ok := v.(map[string]any)
	if !ok {
		return result.Error[[]ops.MapEntry[any]]("testops: not a map")
	}
	out := make([]ops.MapEntry[any], 0, len(m))
	for k, val := range m {
		out = append(out, ops.MapEntry[any]{Key: k, Value: val})
	}
	return result.Success(out)
}

func (Ops) GetList(v any) result.Result[[]any] {
	l, ok := v.([]any)
	if !ok {
		return result.Error[[]any]("testops: not a list")
	}
	return result.Success(l)
}

func (o Ops) MergeToMap(m any, key string, value any) result.Result[any] {
	base, ok := m.(map[string]any)
	if !ok {
		if m == nil {
			base = map[string]any{}
		} else {
			return result.Error[any]("testops: merge target is not a map")
		}
	}
	out := make(map[string]any, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out[key] = value
	return result.Success[any](out)
}

func (Ops) MergeToList(list any, value any) result.Result[any] {
	base, ok := list.([]any)
	if !ok {
		if list == nil {
			base = nil
		} else {
			return result.Error[any]("testops: merge target is not a list")
		}
	}
	out := make([]any, len(base)+1)
	copy(out, base)
	out[len(base)] = value
	return result.Success[any](out)
}

func (o Ops) Remove(m any, key string) result.Result[any] {
	base, ok := m.(map[string]any)
	if !ok {
		return result.Error[any]("testops: remove target is not a map")
	}
	out := make(map[string]any, len(base))
	for k, v := range base {
		if k != key {
			out[k] = v
		}
	}
	return result.Success[any](out)
}

func (o Ops) Set(m any, key string, value any) result.Result[any] { return o.MergeToMap(m, key, value) }

func (Ops) Get(m any, key string) result.Result[any] {
	base, ok := m.(map[string]any)
	if !ok {
		return result.Error[any]("testops: get target is not a map")
	}
	v, present := base[key]
	if !present {
		return result.Error[any](fmt.Sprintf("testops: key %q not present", key))
	}
	return result.Success(v)
}
