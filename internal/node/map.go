package node

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// MapEntry is one entry of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Map is an associative map with arbitrary keys that preserves insertion
// order. Entries are addressed by MapKeyString of their key.
type Map struct {
	entries []MapEntry
	index   map[string]int
}

func NewMap(entries ...MapEntry) *Map {
	m := &Map{
		entries: make([]MapEntry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Lookup finds the entry whose stringified key equals key.
func (m *Map) Lookup(key string) (MapEntry, bool) {
	if m == nil {
		return MapEntry{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return MapEntry{}, false
	}
	return m.entries[i], true
}

func (m *Map) Get(key any) (any, bool) {
	e, ok := m.Lookup(MapKeyString(key))
	return e.Value, ok
}

// Set stores value under key, replacing an entry with the same stringified
// key in place.
func (m *Map) Set(key, value any) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	s := MapKeyString(key)
	if i, ok := m.index[s]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[s] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Delete removes the entry whose stringified key equals key.
func (m *Map) Delete(key string) bool {
	if m == nil {
		return false
	}
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	m.reindex()
	return true
}

func (m *Map) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	out := make([]MapEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Map) reindex() {
	clear(m.index)
	for i, e := range m.entries {
		m.index[MapKeyString(e.Key)] = i
	}
}

// MarshalJSONTo writes the map as an object keyed by MapKeyString.
func (m *Map) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, e := range m.entries {
		if err := enc.WriteToken(jsontext.String(MapKeyString(e.Key))); err != nil {
			return err
		}
		if err := json.MarshalEncode(enc, e.Value); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}
