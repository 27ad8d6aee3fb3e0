package node

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Run("containers", func(t *testing.T) {
		require.Equal(t, KindObject, KindOf(NewObject()))
		require.Equal(t, KindObject, KindOf(map[string]any{}))
		require.Equal(t, KindAssocMap, KindOf(NewMap()))
		require.Equal(t, KindSequence, KindOf([]any{}))
		require.Equal(t, KindSet, KindOf(NewSet()))
	})

	t.Run("scalars and nulls", func(t *testing.T) {
		require.Equal(t, KindScalar, KindOf(nil))
		require.Equal(t, KindScalar, KindOf("text"))
		require.Equal(t, KindScalar, KindOf(42))
		require.Equal(t, KindScalar, KindOf((*Object)(nil)))
		require.Equal(t, KindScalar, KindOf((*Set)(nil)))
	})

	t.Run("null detection", func(t *testing.T) {
		require.True(t, IsNull(nil))
		require.True(t, IsNull((*Map)(nil)))
		require.False(t, IsNull(0))
		require.False(t, IsNull(NewObject()))
	})
}

func TestMapKeyString(t *testing.T) {
	require.Equal(t, "name", MapKeyString("name"))
	require.Equal(t, "1", MapKeyString(1))
	require.Equal(t, "true", MapKeyString(true))
	require.Equal(t, "null", MapKeyString(nil))
	require.Equal(t, `[1,"a"]`, MapKeyString([]any{1, "a"}))
	require.Equal(t, `{"b":1,"a":2}`, MapKeyString(NewObject(Entry{"b", 1}, Entry{"a", 2})))
}

func TestObject(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		o := NewObject(Entry{"first", 1}, Entry{"second", 2})
		o.Set("third", 3)
		require.Equal(t, []string{"first", "second", "third"}, o.Keys())
	})

	t.Run("overwrite keeps position", func(t *testing.T) {
		o := NewObject(Entry{"a", 1}, Entry{"b", 2})
		o.Set("a", 10)
		require.Equal(t, []Entry{{"a", 10}, {"b", 2}}, o.Entries())
	})

	t.Run("delete", func(t *testing.T) {
		o := NewObject(Entry{"a", 1}, Entry{"b", 2})
		require.True(t, o.Delete("a"))
		require.False(t, o.Delete("missing"))
		require.Equal(t, []string{"b"}, o.Keys())
		_, ok := o.Get("a")
		require.False(t, ok)
	})

	t.Run("nil receiver reads", func(t *testing.T) {
		var o *Object
		require.Equal(t, 0, o.Len())
		_, ok := o.Get("a")
		require.False(t, ok)
	})

	t.Run("go map fields are sorted", func(t *testing.T) {
		f, ok := AsFields(map[string]any{"b": 1, "a": 2})
		require.True(t, ok)
		require.Equal(t, []string{"a", "b"}, f.Keys())
		f.Set("c", 3)
		require.Equal(t, 3, f.Len())
	})
}

func TestMap(t *testing.T) {
	m := NewMap(MapEntry{Key: 1, Value: "one"}, MapEntry{Key: "two", Value: 2})

	v, ok := m.Get(1)
	require.True(t, ok)
	require.Equal(t, "one", v)

	e, ok := m.Lookup("1")
	require.True(t, ok)
	require.Equal(t, 1, e.Key)

	m.Set(1, "uno")
	require.Equal(t, 2, m.Len())
	v, _ = m.Get(1)
	require.Equal(t, "uno", v)

	require.True(t, m.Delete("1"))
	require.False(t, m.Delete("1"))
	require.Equal(t, []MapEntry{{Key: "two", Value: 2}}, m.Entries())

	e, ok = m.Lookup("two")
	require.True(t, ok)
	require.Equal(t, 2, e.Value)
}

func TestSet(t *testing.T) {
	s := NewSet("a", "b", "a", 1)
	require.Equal(t, 3, s.Len())
	require.Equal(t, []any{"a", "b", 1}, s.Values())
	require.True(t, s.Has(1))
	require.False(t, s.Has("c"))
	require.False(t, s.Add("b"))
	require.True(t, s.Add("c"))
}

func TestDecodeJSON(t *testing.T) {
	t.Run("objects keep source order", func(t *testing.T) {
		v, err := DecodeJSON([]byte(`{"z": 1, "a": {"y": [1, "x", null], "b": true}}`))
		require.NoError(t, err)

		want := NewObject(
			Entry{"z", float64(1)},
			Entry{"a", NewObject(
				Entry{"y", []any{float64(1), "x", nil}},
				Entry{"b", true},
			)},
		)
		require.Equal(t, want, v)
	})

	t.Run("top level array", func(t *testing.T) {
		v, err := DecodeJSON([]byte(`[{"Name":"Item 1"},[]]`))
		require.NoError(t, err)
		require.Equal(t, []any{NewObject(Entry{"Name", "Item 1"}), []any{}}, v)
	})

	t.Run("scalar", func(t *testing.T) {
		v, err := DecodeJSON([]byte(`"text"`))
		require.NoError(t, err)
		require.Equal(t, "text", v)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`{"a":`))
		require.Error(t, err)
	})
}

func TestEncodeJSON(t *testing.T) {
	doc := NewObject(
		Entry{"z", 1},
		Entry{"set", NewSet("a", "b")},
		Entry{"map", NewMap(MapEntry{Key: 2, Value: "two"})},
		Entry{"empty", NewSet()},
	)

	b, err := EncodeJSON(doc)
	require.NoError(t, err)
	require.JSONEq(t, `{"z":1,"set":["a","b"],"map":{"2":"two"},"empty":[]}`, string(b))
	require.Less(t, indexOf(string(b), `"z"`), indexOf(string(b), `"set"`))
}

func TestYAMLRoundTrip(t *testing.T) {
	src := []byte("z: 1\na:\n  - x\n  - y\n1: one\n")

	v, err := DecodeYAML(src)
	require.NoError(t, err)

	m, ok := v.(*Map)
	require.True(t, ok, "mixed keys decode to *Map, got %T", v)
	require.Equal(t, 3, m.Len())

	one, ok := m.Get(int64(1))
	require.True(t, ok)
	require.Equal(t, "one", one)

	out, err := EncodeYAML(v)
	require.NoError(t, err)

	again, err := DecodeYAML(out)
	require.NoError(t, err)
	require.Equal(t, v, again)
}

func TestDecodeYAMLSet(t *testing.T) {
	v, err := DecodeYAML([]byte("tags: !!set [a, b, a]\n"))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	tags, ok := obj.Get("tags")
	require.True(t, ok)
	require.Equal(t, NewSet("a", "b"), tags)
}

func TestDecodeYAMLAnchors(t *testing.T) {
	v, err := DecodeYAML([]byte("base: &b {x: 1}\ncopy: *b\n"))
	require.NoError(t, err)

	obj := v.(*Object)
	base, _ := obj.Get("base")
	copied, _ := obj.Get("copy")
	require.Equal(t, base, copied)
}

func TestDecodeYAMLEmpty(t *testing.T) {
	v, err := DecodeYAML(nil)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestDecodeYAMLObject(t *testing.T) {
	v, err := DecodeYAML([]byte("b: 2\na: {c: 3}\n"))
	require.NoError(t, err)
	require.Equal(t, NewObject(Entry{"b", int64(2)}, Entry{"a", NewObject(Entry{"c", int64(3)})}), v)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestClone(t *testing.T) {
	t.Run("containers are independent", func(t *testing.T) {
		inner := NewObject(Entry{"x", 1})
		src := NewObject(
			Entry{"obj", inner},
			Entry{"seq", []any{NewObject(Entry{"y", 2})}},
			Entry{"map", NewMap(MapEntry{Key: 1, Value: []any{"a"}})},
			Entry{"set", NewSet("a", "b")},
			Entry{"plain", map[string]any{"z": []any{3}}},
		)

		got := Clone(src)
		require.Equal(t, src, got)

		cp := got.(*Object)
		obj, _ := cp.Get("obj")
		obj.(*Object).Set("x", 10)
		seq, _ := cp.Get("seq")
		seq.([]any)[0].(*Object).Set("y", 20)
		m, _ := cp.Get("map")
		m.(*Map).Set(1, "changed")
		plain, _ := cp.Get("plain")
		plain.(map[string]any)["z"].([]any)[0] = 30

		x, _ := inner.Get("x")
		require.Equal(t, 1, x)
		origSeq, _ := src.Get("seq")
		y, _ := origSeq.([]any)[0].(*Object).Get("y")
		require.Equal(t, 2, y)
		origMap, _ := src.Get("map")
		v, _ := origMap.(*Map).Get(1)
		require.Equal(t, []any{"a"}, v)
		origPlain, _ := src.Get("plain")
		require.Equal(t, []any{3}, origPlain.(map[string]any)["z"])
	})

	t.Run("scalars and nulls pass through", func(t *testing.T) {
		require.Equal(t, "text", Clone("text"))
		require.Nil(t, Clone(nil))
		require.Equal(t, (*Object)(nil), Clone((*Object)(nil)))
	})
}
