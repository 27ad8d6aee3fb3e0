package node

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Set holds unique members, compared by MapKeyString. Its materialized
// order is insertion order.
type Set struct {
	items []any
	index map[string]struct{}
}

func NewSet(items ...any) *Set {
	s := &Set{
		items: make([]any, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Add inserts item and reports whether it was new.
func (s *Set) Add(item any) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	k := MapKeyString(item)
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = struct{}{}
	s.items = append(s.items, item)
	return true
}

func (s *Set) Has(item any) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[MapKeyString(item)]
	return ok
}

// Values materializes the set into a new slice.
func (s *Set) Values() []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

// MarshalJSONTo writes the materialized members as an array.
func (s *Set) MarshalJSONTo(enc *jsontext.Encoder) error {
	items := s.items
	if items == nil {
		items = []any{}
	}
	return json.MarshalEncode(enc, items)
}
