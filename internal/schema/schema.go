// Package schema describes the expected shape of a document. Set consults it
// to pick the container kind when creating missing intermediates and to
// convert values before storing them.
package schema

import (
	"fmt"
	"io"
	"slices"

	yaml "github.com/goccy/go-yaml"

	"github.com/jacoelho/docpath/internal/jsonpath"
	"github.com/jacoelho/docpath/internal/node"
)

// ErrSchema is the sentinel error for malformed schema documents.
var ErrSchema = fmt.Errorf("schema error")

// Type names the declared kind of a schema node.
type Type string

const (
	TypeAny     Type = "any"
	TypeObject  Type = "object"
	TypeMap     Type = "map"
	TypeArray   Type = "array"
	TypeSet     Type = "set"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

var knownTypes = []Type{
	TypeAny, TypeObject, TypeMap, TypeArray, TypeSet,
	TypeString, TypeNumber, TypeInteger, TypeBoolean,
}

// Node declares one position of the document.
type Node struct {
	Type       Type             `yaml:"type"`                 // Declared kind, defaults to any
	Properties map[string]*Node `yaml:"properties,omitempty"` // Fields of an object
	Items      *Node            `yaml:"items,omitempty"`      // Elements of an array or set
	Values     *Node            `yaml:"values,omitempty"`     // Entry values of a map
}

// Kind maps the declared type to the container kind it creates. Scalar and
// any types report KindScalar.
func (n *Node) Kind() node.Kind {
	if n == nil {
		return node.KindScalar
	}
	switch n.Type {
	case TypeObject:
		return node.KindObject
	case TypeMap:
		return node.KindAssocMap
	case TypeArray:
		return node.KindSequence
	case TypeSet:
		return node.KindSet
	default:
		return node.KindScalar
	}
}

func (n *Node) validate(at string) error {
	if n == nil {
		return nil
	}
	if n.Type == "" {
		n.Type = TypeAny
	}
	if !slices.Contains(knownTypes, n.Type) {
		return fmt.Errorf("%w: %s: unknown type %q", ErrSchema, at, n.Type)
	}
	for name, p := range n.Properties {
		if err := p.validate(at + "." + name); err != nil {
			return err
		}
	}
	if err := n.Items.validate(at + "[*]"); err != nil {
		return err
	}
	return n.Values.validate(at + ".*")
}

// Schema is a tree of Nodes rooted at the document root. A nil *Schema
// declares nothing and converts nothing.
type Schema struct {
	root *Node
}

// New wraps an already built tree.
func New(root *Node) (*Schema, error) {
	if err := root.validate("$"); err != nil {
		return nil, err
	}
	return &Schema{root: root}, nil
}

// Parse decodes a YAML schema document.
func Parse(r io.Reader) (*Schema, error) {
	var root Node
	if err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrSchema, err)
	}
	return New(&root)
}

// Root returns the node declared for the whole document.
func (s *Schema) Root() *Node {
	if s == nil {
		return nil
	}
	return s.root
}

// AtPath returns the node declared at a concrete path, or nil when nothing
// is declared there.
func (s *Schema) AtPath(path jsonpath.Span) *Node {
	n := s.Root()
	for _, seg := range path {
		if n == nil {
			return nil
		}
		switch v := seg.(type) {
		case jsonpath.Root:
		case jsonpath.Key:
			switch n.Type {
			case TypeObject:
				n = n.Properties[string(v)]
			case TypeMap:
				n = n.Values
			default:
				return nil
			}
		case jsonpath.Index:
			if n.Type != TypeArray && n.Type != TypeSet {
				return nil
			}
			n = n.Items
		default:
			return nil
		}
	}
	return n
}
