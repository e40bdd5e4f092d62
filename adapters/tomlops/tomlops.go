// Package tomlops implements ops.Ops[any] over the decoded-value shape
// pelletier/go-toml/v2 produces when unmarshaling into an empty interface (nil,
// bool, int64, float64, string, time.Time, []any, map[string]any).
package tomlops

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
)

// Ops is the ops.Ops[any] implementation for TOML documents.
type Ops struct{}

var _ ops.Ops[any] = Ops{}

func (Ops) Empty() any     { return nil }
func (Ops) EmptyMap() any  { return map[string]any{} }
func (Ops) EmptyList() any { return []any{} }

func (Ops) CreateBool(b bool) any      { return b }
func (Ops) CreateByte(v int8) any      { return int64(v) }
func (Ops) CreateShort(v int16) any    { return int64(v) }
func (Ops) CreateInt(v int32) any      { return int64(v) }
func (Ops) CreateLong(v int64) any     { return v }
func (Ops) CreateFloat(v float32) any  { return float64(v) }
func (Ops) CreateDouble(v float64) any { return v }
func (Ops) CreateString(s string) any  { return s }

func (Ops) CreateList(items []any) any {
	out := make([]any, len(items))
	copy(out, items)
	return out
}

func (Ops) CreateMap(entries []ops.MapEntry[any]) any {
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		k, ok := e.Key.(string)
		if !ok {
			k = fmt.Sprintf("%v", e.Key)
		}
		out[k] = e.Value
	}
	return out
}

func (Ops) GetBoolValue(v any) result.Result[bool] {
	b, ok := v.(bool)
	if !ok {
		return result.Error[bool]("tomlops: not a bool")
	}
	return result.Success(b)
}

func (Ops) GetNumberValue(v any) result.Result[ops.Number] {
	switch n := v.(type) {
	case int64:
		return result.Success(ops.NumberFromInt64(n))
	case int:
		return result.Success(ops.NumberFromInt64(int64(n)))
	case float64:
		return result.Success(ops.NumberFromFloat64(n))
	default:
		return result.Error[ops.Number]("tomlops: not a number")
	}
}

func (Ops) GetStringValue(v any) result.Result[string] {
	s, ok := v.(string)
	if !ok {
		return result.Error[string]("tomlops: not a string")
	}
	return result.Success(s)
}

func (o Ops) GetMapValues(v any) result.Result[[]ops.MapEntry[any]] { return o.GetMapEntries(v) }

func (Ops) GetMapEntries(v any) result.Result[[]ops.MapEntry[any]] {
	m, ok := v.(map[string]any)
	if !ok {
		return result.Error[[]ops.MapEntry[any]]("tomlops: not a map")
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
		return result.Error[[]any]("tomlops: not a list")
	}
	return result.Success(l)
}

func (o Ops) MergeToMap(m any, key string, value any) result.Result[any] {
	base, ok := m.(map[string]any)
	if !ok {
		if m == nil {
			base = map[string]any{}
		} else {
			return result.Error[any]("tomlops: merge target is not a map")
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
			return result.Error[any]("tomlops: merge target is not a list")
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
		return result.Error[any]("tomlops: remove target is not a map")
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
		return result.Error[any]("tomlops: get target is not a map")
	}
	v, present := base[key]
	if !present {
		return result.Error[any](fmt.Sprintf("tomlops: key %q not present", key))
	}
	return result.Success(v)
}

// Parse decodes data into the decoded-value tree Ops operates on.
func Parse(data []byte) (any, error) {
	var v any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("tomlops: parse: %w", err)
	}
	return v, nil
}

// Write serializes v back to TOML bytes.
func Write(v any) ([]byte, error) {
	out, err := toml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("tomlops: write: %w", err)
	}
	return out, nil
}
