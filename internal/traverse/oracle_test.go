package traverse

import (
	"fmt"
	"slices"
	"testing"

	"github.com/go-json-experiment/json"
	rfc "github.com/theory/jsonpath"

	"github.com/jacoelho/docpath/internal/jsonpath"
)

const storeDoc = `{
  "store": {
    "book": [
      {"category": "reference", "author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95},
      {"category": "fiction", "author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99},
      {"category": "fiction", "author": "Herman Melville", "title": "Moby Dick", "price": 8.99},
      {"category": "fiction", "author": "J. R. R. Tolkien", "title": "The Lord of the Rings", "price": 22.99}
    ],
    "bicycle": {"color": "red", "price": 399}
  }
}`

// TestAgreesWithRFC9535 checks the subset of the grammar shared with RFC 9535
// against an independent implementation, comparing match multisets.
func TestAgreesWithRFC9535(t *testing.T) {
	t.Parallel()

	var data any
	if err := json.Unmarshal([]byte(storeDoc), &data); err != nil {
		t.Fatalf("json.Unmarshal() unexpected error: %v", err)
	}

	paths := []string{
		"$.store.bicycle.color",
		"$.store['bicycle'].price",
		"$.store.book[0].title",
		"$.store.book[*].author",
		"$.store.book[0,2].title",
		"$.store.book[1:3].title",
		"$.store.book[::2].price",
		"$.store.*",
		"$..author",
		"$..book[1].title",
		"$..price",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			q := jsonpath.MustParse(path)
			got, err := Get(data, q)
			if err != nil {
				t.Fatalf("Get(%q) unexpected error: %v", path, err)
			}
			if !q.Multi() {
				got = []any{got}
			}

			want := []any(rfc.MustParse(path).Select(data))

			if g, w := canonical(got.([]any)), canonical(want); !slices.Equal(g, w) {
				t.Errorf("Get(%q) = %v, want %v", path, g, w)
			}
		})
	}
}

func canonical(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	slices.Sort(out)
	return out
}
