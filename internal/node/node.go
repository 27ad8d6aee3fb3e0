// Package node models the untyped documents the traversal engine works on.
//
// A document value is classified by KindOf into one of five kinds:
//
//   - KindObject: *Object (insertion ordered) or map[string]any (sorted keys)
//   - KindAssocMap: *Map, insertion ordered with arbitrary keys
//   - KindSequence: []any
//   - KindSet: *Set, unordered membership materialized in insertion order
//   - KindScalar: everything else, including nil
package node

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// Kind is the container kind of a document value.
type Kind uint8

const (
	KindScalar Kind = iota
	KindObject
	KindAssocMap
	KindSequence
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindAssocMap:
		return "map"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	default:
		return "scalar"
	}
}

// KindOf classifies v. Typed nil containers classify as scalars.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return KindScalar
		}
		return KindObject
	case map[string]any:
		if t == nil {
			return KindScalar
		}
		return KindObject
	case *Map:
		if t == nil {
			return KindScalar
		}
		return KindAssocMap
	case []any:
		return KindSequence
	case *Set:
		if t == nil {
			return KindScalar
		}
		return KindSet
	default:
		return KindScalar
	}
}

// IsNull reports whether v is nil or a typed nil container.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case *Object:
		return t == nil
	case *Map:
		return t == nil
	case *Set:
		return t == nil
	case map[string]any:
		return t == nil
	}
	return false
}

// MapKeyString returns the text used to address a map entry or set member:
// strings as-is, anything else as canonical JSON.
func MapKeyString(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	b, err := json.Marshal(key, json.Deterministic(true))
	if err != nil {
		return fmt.Sprint(key)
	}
	return string(b)
}
