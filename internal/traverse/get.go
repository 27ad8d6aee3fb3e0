package traverse

import (
	"fmt"

	"github.com/jacoelho/docpath/internal/jsonpath"
)

// matches collects the results of a multi-candidate step. It never nests:
// adding another matches flattens it.
type matches []any

func (m matches) add(v any) matches {
	if nested, ok := v.(matches); ok {
		return append(m, nested...)
	}
	return append(m, v)
}

// Get returns the value addressed by q. Queries that can match more than
// once return a []any of every match in document order; a miss is an
// ErrValueAtPathSegmentInvalid error.
func Get(root any, q jsonpath.Query) (any, error) {
	if len(q) == 0 || len(q[0]) == 0 {
		return nil, fmt.Errorf("%w: empty query", ErrPathSegmentInvalid)
	}

	g := getter{q: q}
	v, err := g.advance(root, NewCursor(q))
	if err != nil {
		return nil, err
	}
	if m, ok := v.(matches); ok {
		return []any(m), nil
	}
	return v, nil
}

type getter struct {
	q jsonpath.Query
}

func (g *getter) advance(value any, c Cursor) (any, error) {
	seg, err := c.Segment(g.q)
	if err != nil {
		return nil, err
	}

	switch s := seg.(type) {
	case jsonpath.Root:
		return g.next(value, c)
	case jsonpath.Key:
		child, err := lookupKey(value, s)
		if err != nil {
			return nil, err
		}
		return g.next(child, c)
	case jsonpath.Index:
		child, err := lookupIndex(value, s)
		if err != nil {
			return nil, err
		}
		return g.next(child, c)
	}

	cands, err := selectCandidates(value, seg)
	if err != nil {
		return nil, err
	}

	var out matches
	for _, cand := range cands {
		v, err := g.next(cand.value, c)
		if err != nil {
			continue
		}
		out = out.add(v)
	}
	if len(out) == 0 {
		return nil, noMatch(seg)
	}
	return out, nil
}

// next continues after the segment under c has produced value.
func (g *getter) next(value any, c Cursor) (any, error) {
	switch {
	case c.Terminal():
		return value, nil
	case !c.SpanDone():
		return g.advance(value, c.NextSegment())
	default:
		return g.descend(value, c.NextSpan(g.q))
	}
}

// descend searches every descendant of value for the key starting the span
// under c. A matched subtree is searched as well, so nested matches are
// reported after their ancestor.
func (g *getter) descend(value any, c Cursor) (any, error) {
	seg, err := c.Segment(g.q)
	if err != nil {
		return nil, err
	}

	switch s := seg.(type) {
	case jsonpath.Root:
		return g.next(value, c)
	case jsonpath.Key:
		var out matches
		g.scan(value, string(s), c, &out)
		if len(out) == 0 {
			return nil, noDescendant(string(s))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: recursive descent expects a key, got %s", ErrPathSegmentInvalid, seg)
	}
}

func (g *getter) scan(value any, key string, c Cursor, out *matches) {
	for _, child := range children(value) {
		if child.named && child.key == key {
			if v, err := g.next(child.value, c); err == nil {
				*out = out.add(v)
			}
		}
		g.scan(child.value, key, c, out)
	}
}
