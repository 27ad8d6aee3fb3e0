// Package equal compares documents structurally.
//
// Objects and maps compare by key, sets by membership and numbers by value
// regardless of their Go type. Types registered with Register are compared
// by their own function instead.
package equal

import (
	"cmp"
	"reflect"
	"slices"
	"sync"

	gocmp "github.com/google/go-cmp/cmp"

	"github.com/jacoelho/docpath/internal/node"
)

// Func reports whether two values of a registered type are equal.
type Func func(a, b any) bool

var (
	mu       sync.RWMutex
	registry = map[string]Func{}
)

// Register installs fn for values whose type name, as printed by
// reflect.Type.String, is typeName. A later call replaces an earlier one.
func Register(typeName string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	registry[typeName] = fn
}

// Unregister removes the override for typeName.
func Unregister(typeName string) {
	mu.Lock()
	defer mu.Unlock()
	delete(registry, typeName)
}

func lookup(v any) (Func, bool) {
	if v == nil {
		return nil, false
	}
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := registry[reflect.TypeOf(v).String()]
	return fn, ok
}

// AreEqual reports whether left and right hold the same document.
// With matchKeyOrder, objects and maps must also list their keys in the
// same order. With nullsEqualUndefined, a null field equals an absent one.
func AreEqual(left, right any, matchKeyOrder, nullsEqualUndefined bool) bool {
	n := normalizer{ordered: matchKeyOrder, dropNulls: nullsEqualUndefined}
	return gocmp.Equal(n.normalize(left), n.normalize(right), options()...)
}

// Diff renders the differences between left and right, ignoring key order,
// or returns "" when they are equal.
func Diff(left, right any) string {
	var n normalizer
	return gocmp.Diff(n.normalize(left), n.normalize(right), options()...)
}

func options() []gocmp.Option {
	return []gocmp.Option{
		gocmp.FilterValues(func(a, b any) bool {
			if _, ok := lookup(a); !ok {
				return false
			}
			return reflect.TypeOf(a) == reflect.TypeOf(b)
		}, gocmp.Comparer(func(a, b any) bool {
			fn, _ := lookup(a)
			return fn(a, b)
		})),
		gocmp.Exporter(func(reflect.Type) bool { return true }),
	}
}

type (
	entry struct {
		Key   string
		Value any
	}

	// orderedEntries is an object or map compared with key order.
	orderedEntries []entry

	// members is a set in canonical order.
	members []any
)

type normalizer struct {
	ordered   bool
	dropNulls bool
}

func (n normalizer) normalize(v any) any {
	if _, ok := lookup(v); ok {
		return v
	}

	switch node.KindOf(v) {
	case node.KindObject:
		fields, _ := node.AsFields(v)
		var entries []entry
		for _, k := range fields.Keys() {
			val, _ := fields.Get(k)
			entries = append(entries, entry{Key: k, Value: val})
		}
		return n.fields(entries)
	case node.KindAssocMap:
		var entries []entry
		for _, e := range v.(*node.Map).Entries() {
			entries = append(entries, entry{Key: node.MapKeyString(e.Key), Value: e.Value})
		}
		return n.fields(entries)
	case node.KindSequence:
		seq := v.([]any)
		out := make([]any, len(seq))
		for i, item := range seq {
			out[i] = n.normalize(item)
		}
		return out
	case node.KindSet:
		items := v.(*node.Set).Values()
		slices.SortFunc(items, func(a, b any) int {
			return cmp.Compare(node.MapKeyString(a), node.MapKeyString(b))
		})
		out := make(members, len(items))
		for i, item := range items {
			out[i] = n.normalize(item)
		}
		return out
	}

	if f, ok := number(v); ok {
		return f
	}
	return v
}

func (n normalizer) fields(entries []entry) any {
	if n.ordered {
		out := make(orderedEntries, 0, len(entries))
		for _, e := range entries {
			if n.dropNulls && node.IsNull(e.Value) {
				continue
			}
			out = append(out, entry{Key: e.Key, Value: n.normalize(e.Value)})
		}
		return out
	}

	out := make(map[string]any, len(entries))
	for _, e := range entries {
		if n.dropNulls && node.IsNull(e.Value) {
			continue
		}
		out[e.Key] = n.normalize(e.Value)
	}
	return out
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
