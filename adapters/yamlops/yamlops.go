// Package yamlops implements ops.Ops[*yaml.Node] directly over gopkg.in/yaml.v3's
// node tree, which — unlike a plain map[string]any decode — preserves mapping key
// order and scalar tags, so a migrated document still round-trips the way it was
// originally authored.
package yamlops

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kestrelfix/datafix/ops"
	"github.com/kestrelfix/datafix/result"
)

// Ops is the ops.Ops[*yaml.Node] implementation for YAML documents.
type Ops struct{}

var _ ops.Ops[*yaml.Node] = Ops{}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (Ops) Empty() *yaml.Node     { return scalar("!!null", "null") }
func (Ops) EmptyMap() *yaml.Node  { return &yaml.Node{Kind: yaml.MappingNode} }
func (Ops) EmptyList() *yaml.Node { return &yaml.Node{Kind: yaml.SequenceNode} }

func (Ops) CreateBool(b bool) *yaml.Node {
	if b {
		return scalar("!!bool", "true")
	}
	return scalar("!!bool", "false")
}
func (Ops) CreateByte(v int8) *yaml.Node      { return scalar("!!int", fmt.Sprintf("%d", v)) }
func (Ops) CreateShort(v int16) *yaml.Node    { return scalar("!!int", fmt.Sprintf("%d", v)) }
func (Ops) CreateInt(v int32) *yaml.Node      { return scalar("!!int", fmt.Sprintf("%d", v)) }
func (Ops) CreateLong(v int64) *yaml.Node     { return scalar("!!int", fmt.Sprintf("%d", v)) }
func (Ops) CreateFloat(v float32) *yaml.Node  { return scalar("!!float", fmt.Sprintf("%v", v)) }
func (Ops) CreateDouble(v float64) *yaml.Node { return scalar("!!float", fmt.Sprintf("%v", v)) }
func (Ops) CreateString(s string) *yaml.Node  { return scalar("!!str", s) }

func (Ops) CreateList(items []*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

func (Ops) CreateMap(entries []ops.MapEntry[*yaml.Node]) *yaml.Node {
	content := make([]*yaml.Node, 0, len(entries)*2)
	for _, e := range entries {
		content = append(content, e.Key, e.Value)
	}
	return &yaml.Node{Kind: yaml.MappingNode, Content: content}
}

func deref(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.AliasNode {
		return n.Alias
	}
	return n
}

func (Ops) GetBoolValue(n *yaml.Node) result.Result[bool] {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag != "!!bool" {
		return result.Error[bool]("yamlops: not a bool")
	}
	return result.Success(n.Value == "true")
}

func (Ops) GetNumberValue(n *yaml.Node) result.Result[ops.Number] {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return result.Error[ops.Number]("yamlops: not a number")
	}
	var iv int64
	if _, err := fmt.Sscanf(n.Value, "%d", &iv); err == nil {
		return result.Success(ops.NumberFromInt64(iv))
	}
	var fv float64
	if _, err := fmt.Sscanf(n.Value, "%g", &fv); err == nil {
		return result.Success(ops.NumberFromFloat64(fv))
	}
	return result.Error[ops.Number]("yamlops: not a number")
}

func (Ops) GetStringValue(n *yaml.Node) result.Result[string] {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return result.Error[string]("yamlops: not a string")
	}
	return result.Success(n.Value)
}

func (o Ops) GetMapValues(n *yaml.Node) result.Result[[]ops.MapEntry[*yaml.Node]] {
	return o.GetMapEntries(n)
}

func (Ops) GetMapEntries(n *yaml.Node) result.Result[[]ops.MapEntry[*yaml.Node]] {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return result.Error[[]ops.MapEntry[*yaml.Node]]("yamlops: not a map")
	}
	out := make([]ops.MapEntry[*yaml.Node], 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, ops.MapEntry[*yaml.Node]{Key: n.Content[i], Value: n.Content[i+1]})
	}
	return result.Success(out)
}

func (Ops) GetList(n *yaml.Node) result.Result[[]*yaml.Node] {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return result.Error[[]*yaml.Node]("yamlops: not a list")
	}
	return result.Success(n.Content)
}

func (o Ops) MergeToMap(m *yaml.Node, key string, value *yaml.Node) result.Result[*yaml.Node] {
	m = deref(m)
	if m == nil {
		m = &yaml.Node{Kind: yaml.MappingNode}
	}
	if m.Kind != yaml.MappingNode {
		return result.Error[*yaml.Node]("yamlops: merge target is not a map")
	}
	content := append([]*yaml.Node{}, m.Content...)
	for i := 0; i+1 < len(content); i += 2 {
		if content[i].Value == key {
			content[i+1] = value
			return result.Success(&yaml.Node{Kind: yaml.MappingNode, Tag: m.Tag, Content: content})
		}
	}
	content = append(content, scalar("!!str", key), value)
	return result.Success(&yaml.Node{Kind: yaml.MappingNode, Tag: m.Tag, Content: content})
}

func (Ops) MergeToList(list *yaml.Node, value *yaml.Node) result.Result[*yaml.Node] {
	list = deref(list)
	if list == nil {
		list = &yaml.Node{Kind: yaml.SequenceNode}
	}
	if list.Kind != yaml.SequenceNode {
		return result.Error[*yaml.Node]("yamlops: merge target is not a list")
	}
	content := append(append([]*yaml.Node{}, list.Content...), value)
	return result.Success(&yaml.Node{Kind: yaml.SequenceNode, Tag: list.Tag, Content: content})
}

func (o Ops) Remove(m *yaml.Node, key string) result.Result[*yaml.Node] {
	m = deref(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return result.Error[*yaml.Node]("yamlops: remove target is not a map")
	}
	var content []*yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			content = append(content, m.Content[i], m.Content[i+1])
		}
	}
	return result.Success(&yaml.Node{Kind: yaml.MappingNode, Tag: m.Tag, Content: content})
}

func (o Ops) Set(m *yaml.Node, key string, value *yaml.Node) result.Result[*yaml.Node] {
	return o.MergeToMap(m, key, value)
}

func (Ops) Get(m *yaml.Node, key string) result.Result[*yaml.Node] {
	m = deref(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return result.Error[*yaml.Node]("yamlops: get target is not a map")
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return result.Success(m.Content[i+1])
		}
	}
	return result.Error[*yaml.Node](fmt.Sprintf("yamlops: key %q not present", key))
}

// Parse decodes data into a document root *yaml.Node (the Content[0] of the parsed
// DocumentNode, which is what every Ops method above expects to operate on).
func Parse(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yamlops: parse: %w", err)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		return doc.Content[0], nil
	}
	return &doc, nil
}

// Write serializes n back to YAML bytes.
func Write(n *yaml.Node) ([]byte, error) {
	out, err := yaml.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("yamlops: write: %w", err)
	}
	return out, nil
}
