package traverse

import (
	"errors"
	"strings"
	"testing"

	"github.com/jacoelho/docpath/internal/jsonpath"
	"github.com/jacoelho/docpath/internal/node"
	"github.com/jacoelho/docpath/internal/schema"
)

func TestSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		doc      string
		path     string
		value    any
		expect   any
		modified int
		wantErr  error
	}{
		{
			name:     "auto_vivification",
			path:     "$.Address.ZipCode",
			value:    "1234",
			expect:   node.NewObject(node.Entry{Key: "Address", Value: node.NewObject(node.Entry{Key: "ZipCode", Value: "1234"})}),
			modified: 1,
		},
		{
			name:     "sparse_sequence_growth",
			path:     "$[5]",
			value:    10,
			expect:   []any{nil, nil, nil, nil, nil, 10},
			modified: 1,
		},
		{
			name:     "replace_root",
			doc:      `{"a":1}`,
			path:     "$",
			value:    "new",
			expect:   "new",
			modified: 1,
		},
		{
			name:     "overwrite_keeps_key_order",
			doc:      `{"a":1,"b":2}`,
			path:     "$.a",
			value:    3,
			expect:   node.NewObject(node.Entry{Key: "a", Value: 3}, node.Entry{Key: "b", Value: 2}),
			modified: 1,
		},
		{
			name:  "wildcard",
			doc:   itemsDoc,
			path:  "$[*].Name",
			value: "X",
			expect: []any{
				node.NewObject(node.Entry{Key: "Name", Value: "X"}),
				node.NewObject(node.Entry{Key: "Name", Value: "X"}),
			},
			modified: 2,
		},
		{
			name:     "union_creates_keys",
			doc:      `{}`,
			path:     "$['a','b']",
			value:    1,
			expect:   node.NewObject(node.Entry{Key: "a", Value: 1}, node.Entry{Key: "b", Value: 1}),
			modified: 2,
		},
		{
			name:     "index_union_pads",
			doc:      `[]`,
			path:     "$[0,2]",
			value:    "x",
			expect:   []any{"x", nil, "x"},
			modified: 2,
		},
		{
			name:     "vivify_sequence_from_union",
			path:     "$.list[0,1]",
			value:    "x",
			expect:   node.NewObject(node.Entry{Key: "list", Value: []any{"x", "x"}}),
			modified: 2,
		},
		{
			name:     "slice_never_grows",
			doc:      `[1,2]`,
			path:     "$[0:5]",
			value:    0,
			expect:   []any{0, 0},
			modified: 2,
		},
		{
			name:  "recursive_descent",
			doc:   usersDoc,
			path:  "$..Name",
			value: "Z",
			expect: []any{
				node.NewObject(node.Entry{Key: "User", Value: node.NewObject(node.Entry{Key: "Name", Value: "Z"})}),
				node.NewObject(
					node.Entry{Key: "User", Value: node.NewObject(node.Entry{Key: "Name", Value: "Z"})},
					node.Entry{Key: "Items", Value: []any{
						node.NewObject(node.Entry{Key: "Name", Value: "Z"}),
						node.NewObject(node.Entry{Key: "Name", Value: "Z"}),
					}},
				),
			},
			modified: 4,
		},
		{
			name:     "recursive_descent_stops_at_match",
			doc:      `{"a":{"a":1}}`,
			path:     "$..a",
			value:    2,
			expect:   node.NewObject(node.Entry{Key: "a", Value: 2}),
			modified: 1,
		},
		{
			name:     "recursive_descent_continues_below_match",
			doc:      `{"x":{"a":{"b":1}}}`,
			path:     "$..a.b",
			value:    2,
			expect:   node.NewObject(node.Entry{Key: "x", Value: node.NewObject(node.Entry{Key: "a", Value: node.NewObject(node.Entry{Key: "b", Value: 2})})}),
			modified: 1,
		},
		{
			name:     "key_on_sequence",
			doc:      `[1]`,
			path:     "$.a",
			value:    1,
			expect:   []any{1},
			modified: 0,
			wantErr:  ErrPathSegmentInvalid,
		},
		{
			name:     "wildcard_on_empty_object",
			doc:      `{}`,
			path:     "$.*",
			value:    1,
			expect:   node.NewObject(),
			modified: 0,
			wantErr:  ErrValueAtPathSegmentInvalid,
		},
		{
			name:     "partial_success",
			doc:      `[{"a":1},5]`,
			path:     "$[*].a",
			value:    2,
			expect:   []any{node.NewObject(node.Entry{Key: "a", Value: 2}), 5},
			modified: 1,
			wantErr:  ErrPathSegmentInvalid,
		},
		{
			name:     "created_container_dropped_without_writes",
			doc:      `{}`,
			path:     "$.a[*].b",
			value:    1,
			expect:   node.NewObject(),
			modified: 0,
			wantErr:  ErrValueAtPathSegmentInvalid,
		},
		{
			name:     "created_root_dropped_without_writes",
			path:     "$.x.y..z",
			value:    1,
			expect:   nil,
			modified: 0,
			wantErr:  ErrValueAtPathSegmentInvalid,
		},
		{
			name:     "sequence_not_padded_without_writes",
			doc:      `[]`,
			path:     "$[2].a[*]",
			value:    1,
			expect:   []any{},
			modified: 0,
			wantErr:  ErrValueAtPathSegmentInvalid,
		},
		{
			name:     "descent_without_matches",
			doc:      `{"a":1}`,
			path:     "$..b",
			value:    2,
			expect:   node.NewObject(node.Entry{Key: "a", Value: 1}),
			modified: 0,
			wantErr:  ErrValueAtPathSegmentInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, res := Set(decode(t, tt.doc), jsonpath.MustParse(tt.path), tt.value, nil)
			if res.Modified != tt.modified {
				t.Errorf("Set(%q).Modified = %d, want %d", tt.path, res.Modified, tt.modified)
			}
			if tt.wantErr == nil && res.Err != nil {
				t.Errorf("Set(%q) unexpected error: %v", tt.path, res.Err)
			}
			if tt.wantErr != nil && !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Set(%q) error = %v, want %v", tt.path, res.Err, tt.wantErr)
			}
			assertDoc(t, root, tt.expect)
		})
	}
}

func TestSetContainers(t *testing.T) {
	t.Parallel()

	t.Run("map_entry_keeps_original_key", func(t *testing.T) {
		t.Parallel()

		m := node.NewMap(node.MapEntry{Key: 1, Value: "one"})
		root, res := Set(m, jsonpath.MustParse("$['1']"), "uno", nil)
		if res.Modified != 1 || res.Err != nil {
			t.Fatalf("Set() = %+v", res)
		}
		assertDoc(t, root, node.NewMap(node.MapEntry{Key: 1, Value: "uno"}))
	})

	t.Run("map_new_entry", func(t *testing.T) {
		t.Parallel()

		root, _ := Set(node.NewMap(), jsonpath.MustParse("$.k"), "v", nil)
		assertDoc(t, root, node.NewMap(node.MapEntry{Key: "k", Value: "v"}))
	})

	t.Run("set_member_is_rebuilt", func(t *testing.T) {
		t.Parallel()

		root, res := Set(node.NewSet(1, 2), jsonpath.MustParse("$[0]"), 2, nil)
		if res.Modified != 1 {
			t.Fatalf("Set().Modified = %d, want 1", res.Modified)
		}
		assertDoc(t, root, node.NewSet(2))
	})

	t.Run("written_containers_are_independent", func(t *testing.T) {
		t.Parallel()

		root, res := Set(decode(t, `[{},{}]`), jsonpath.MustParse("$[*].meta"), node.NewObject(), nil)
		if res.Modified != 2 || res.Err != nil {
			t.Fatalf("Set() = %+v", res)
		}
		root, res = Set(root, jsonpath.MustParse("$[0].meta.x"), 1, nil)
		if res.Modified != 1 || res.Err != nil {
			t.Fatalf("Set() = %+v", res)
		}
		assertDoc(t, root, []any{
			node.NewObject(node.Entry{Key: "meta", Value: node.NewObject(node.Entry{Key: "x", Value: 1})}),
			node.NewObject(node.Entry{Key: "meta", Value: node.NewObject()}),
		})
	})

	t.Run("set_index_out_of_range", func(t *testing.T) {
		t.Parallel()

		_, res := Set(node.NewSet(1), jsonpath.MustParse("$[3]"), 2, nil)
		if !errors.Is(res.Err, ErrValueAtPathSegmentInvalid) {
			t.Errorf("Set() error = %v, want ErrValueAtPathSegmentInvalid", res.Err)
		}
	})
}

const testSchema = `
type: object
properties:
  zip:
    type: integer
  lookup:
    type: map
    values:
      type: string
  tags:
    type: array
    items:
      type: boolean
`

func TestSetWithSchema(t *testing.T) {
	t.Parallel()

	s, err := schema.Parse(strings.NewReader(testSchema))
	if err != nil {
		t.Fatalf("schema.Parse() unexpected error: %v", err)
	}

	t.Run("converts_value", func(t *testing.T) {
		t.Parallel()

		root, res := Set(nil, jsonpath.MustParse("$.zip"), "1234", s)
		if res.Err != nil {
			t.Fatalf("Set() unexpected error: %v", res.Err)
		}
		got, _ := Get(root, jsonpath.MustParse("$.zip"))
		if got != int64(1234) {
			t.Errorf("zip = %#v, want int64(1234)", got)
		}
	})

	t.Run("vivifies_declared_kind", func(t *testing.T) {
		t.Parallel()

		root, res := Set(nil, jsonpath.MustParse("$.lookup.k"), 7, s)
		if res.Err != nil {
			t.Fatalf("Set() unexpected error: %v", res.Err)
		}
		lookup, _ := Get(root, jsonpath.MustParse("$.lookup"))
		if node.KindOf(lookup) != node.KindAssocMap {
			t.Fatalf("lookup kind = %v, want %v", node.KindOf(lookup), node.KindAssocMap)
		}
		assertDoc(t, lookup, node.NewMap(node.MapEntry{Key: "k", Value: "7"}))
	})

	t.Run("converts_sequence_elements", func(t *testing.T) {
		t.Parallel()

		root, res := Set(nil, jsonpath.MustParse("$.tags[1]"), "true", s)
		if res.Err != nil {
			t.Fatalf("Set() unexpected error: %v", res.Err)
		}
		tags, _ := Get(root, jsonpath.MustParse("$.tags"))
		assertDoc(t, tags, []any{nil, true})
	})

	t.Run("conversion_failure", func(t *testing.T) {
		t.Parallel()

		root, res := Set(nil, jsonpath.MustParse("$.zip"), "abc", s)
		if !errors.Is(res.Err, schema.ErrDataConversionFailed) {
			t.Fatalf("Set() error = %v, want ErrDataConversionFailed", res.Err)
		}
		if res.Modified != 0 {
			t.Errorf("Set().Modified = %d, want 0", res.Modified)
		}
		assertDoc(t, root, node.NewObject())
	})
}
