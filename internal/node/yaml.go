package node

import (
	"fmt"
	"math"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// DecodeYAML decodes the first document in data. Mappings with only string
// keys become *Object, other mappings *Map, `!!set` nodes *Set; key order is
// preserved.
func DecodeYAML(data []byte) (any, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return nil, nil
	}

	d := &yamlDecoder{anchors: make(map[string]any)}
	v, err := d.decode(file.Docs[0].Body)
	if err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	return v, nil
}

// yamlDecoder walks the goccy AST directly so mapping keys keep their
// scalar types; decoding into any would stringify them.
type yamlDecoder struct {
	anchors map[string]any
}

func (d *yamlDecoder) decode(n ast.Node) (any, error) {
	switch t := n.(type) {
	case *ast.MappingNode:
		return d.mapping(n, t.Values)
	case *ast.MappingValueNode:
		return d.mapping(n, []*ast.MappingValueNode{t})
	case *ast.SequenceNode:
		out := make([]any, 0, len(t.Values))
		for _, item := range t.Values {
			v, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *ast.TagNode:
		if t.Start != nil && t.Start.Value == string(token.SetTag) {
			return d.set(t.Value)
		}
		return d.scalar(n)
	case *ast.AnchorNode:
		v, err := d.decode(t.Value)
		if err != nil {
			return nil, err
		}
		d.anchors[t.Name.GetToken().Value] = v
		return v, nil
	case *ast.AliasNode:
		name := t.Value.GetToken().Value
		v, ok := d.anchors[name]
		if !ok {
			return nil, fmt.Errorf("unknown alias %q", name)
		}
		return v, nil
	case *ast.MappingKeyNode:
		return d.decode(t.Value)
	default:
		return d.scalar(n)
	}
}

func (d *yamlDecoder) mapping(n ast.Node, values []*ast.MappingValueNode) (any, error) {
	keys := make([]any, len(values))
	stringKeys := true
	for i, mv := range values {
		if mv.Key.IsMergeKey() {
			return d.scalar(n)
		}
		k, err := d.decode(mv.Key)
		if err != nil {
			return nil, err
		}
		if _, ok := k.(string); !ok {
			stringKeys = false
		}
		keys[i] = k
	}

	if stringKeys {
		obj := NewObject()
		for i, mv := range values {
			v, err := d.decode(mv.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(keys[i].(string), v)
		}
		return obj, nil
	}

	m := NewMap()
	for i, mv := range values {
		v, err := d.decode(mv.Value)
		if err != nil {
			return nil, err
		}
		m.Set(keys[i], v)
	}
	return m, nil
}

// set accepts a mapping (members are its keys) or a sequence.
func (d *yamlDecoder) set(n ast.Node) (any, error) {
	s := NewSet()
	switch t := n.(type) {
	case *ast.MappingNode:
		for _, mv := range t.Values {
			k, err := d.decode(mv.Key)
			if err != nil {
				return nil, err
			}
			s.Add(k)
		}
	case *ast.SequenceNode:
		for _, item := range t.Values {
			v, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			s.Add(v)
		}
	default:
		return nil, fmt.Errorf("!!set requires a mapping or sequence, got %s", n.Type())
	}
	return s, nil
}

func (d *yamlDecoder) scalar(n ast.Node) (any, error) {
	var v any
	if err := yaml.NodeToValue(n, &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	return fromYAML(v), nil
}

// EncodeYAML renders a document as YAML, keeping object key order.
func EncodeYAML(v any) ([]byte, error) {
	b, err := yaml.Marshal(toYAML(v))
	if err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return b, nil
}

func fromYAML(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		stringKeys := true
		for _, item := range t {
			if _, ok := item.Key.(string); !ok {
				stringKeys = false
				break
			}
		}
		if stringKeys {
			obj := NewObject()
			for _, item := range t {
				obj.Set(item.Key.(string), fromYAML(item.Value))
			}
			return obj
		}
		m := NewMap()
		for _, item := range t {
			m.Set(fromYAML(item.Key), fromYAML(item.Value))
		}
		return m
	case map[string]any:
		obj := NewObject()
		for _, k := range goMap(t).Keys() {
			obj.Set(k, fromYAML(t[k]))
		}
		return obj
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = fromYAML(item)
		}
		return out
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return t
	default:
		return v
	}
}

func toYAML(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		out := make(yaml.MapSlice, 0, t.Len())
		for _, e := range t.Entries() {
			out = append(out, yaml.MapItem{Key: e.Key, Value: toYAML(e.Value)})
		}
		return out
	case map[string]any:
		out := make(yaml.MapSlice, 0, len(t))
		for _, k := range goMap(t).Keys() {
			out = append(out, yaml.MapItem{Key: k, Value: toYAML(t[k])})
		}
		return out
	case *Map:
		if t == nil {
			return nil
		}
		out := make(yaml.MapSlice, 0, t.Len())
		for _, e := range t.Entries() {
			out = append(out, yaml.MapItem{Key: toYAML(e.Key), Value: toYAML(e.Value)})
		}
		return out
	case *Set:
		if t == nil {
			return nil
		}
		return toYAML(t.Values())
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toYAML(item)
		}
		return out
	default:
		return v
	}
}
