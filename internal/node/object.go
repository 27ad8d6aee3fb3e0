package node

import (
	"maps"
	"slices"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Entry is one field of an Object.
type Entry struct {
	Key   string
	Value any
}

// Object is a string-keyed record that preserves insertion order.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject builds an Object from entries; later duplicates overwrite the
// value but keep the first position.
func NewObject(entries ...Entry) *Object {
	o := &Object{
		keys:   make([]string, 0, len(entries)),
		values: make(map[string]any, len(entries)),
	}
	for _, e := range entries {
		o.Set(e.Key, e.Value)
	}
	return o
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Set stores value under key, appending the key when it is new.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

func (o *Object) Entries() []Entry {
	if o == nil {
		return nil
	}
	entries := make([]Entry, len(o.keys))
	for i, k := range o.keys {
		entries[i] = Entry{Key: k, Value: o.values[k]}
	}
	return entries
}

// MarshalJSONTo writes the fields in insertion order.
func (o *Object) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, k := range o.keys {
		if err := enc.WriteToken(jsontext.String(k)); err != nil {
			return err
		}
		if err := json.MarshalEncode(enc, o.values[k]); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

// Fields is the keyed view shared by *Object and map[string]any.
type Fields interface {
	Len() int
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string) bool
	Keys() []string
}

// AsFields returns the keyed view of an object-kind value.
func AsFields(v any) (Fields, bool) {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil, false
		}
		return t, true
	case map[string]any:
		if t == nil {
			return nil, false
		}
		return goMap(t), true
	default:
		return nil, false
	}
}

// goMap exposes a plain Go map as Fields with sorted key order.
type goMap map[string]any

func (m goMap) Len() int { return len(m) }

func (m goMap) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m goMap) Set(key string, value any) { m[key] = value }

func (m goMap) Delete(key string) bool {
	if _, ok := m[key]; !ok {
		return false
	}
	delete(m, key)
	return true
}

func (m goMap) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}
