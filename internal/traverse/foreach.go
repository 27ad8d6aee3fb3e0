package traverse

import (
	"fmt"

	"github.com/jacoelho/docpath/internal/jsonpath"
)

// Visitor receives the concrete path and value of each match. Returning
// true stops the traversal.
type Visitor func(path jsonpath.Span, value any) bool

// ForEach calls fn for every value addressed by q, in the order Get would
// return them. Paths start with Root and hold only Key and Index segments.
func ForEach(root any, q jsonpath.Query, fn Visitor) error {
	if len(q) == 0 || len(q[0]) == 0 {
		return fmt.Errorf("%w: empty query", ErrPathSegmentInvalid)
	}

	w := walker{q: q, fn: fn}
	_, err := w.advance(root, NewCursor(q), jsonpath.Span{jsonpath.Root{}})
	return err
}

type walker struct {
	q  jsonpath.Query
	fn Visitor
}

func (w *walker) advance(value any, c Cursor, path jsonpath.Span) (stop bool, err error) {
	seg, err := c.Segment(w.q)
	if err != nil {
		return false, err
	}

	switch s := seg.(type) {
	case jsonpath.Root:
		return w.next(value, c, path)
	case jsonpath.Key:
		child, err := lookupKey(value, s)
		if err != nil {
			return false, err
		}
		return w.next(child, c, path.Append(s))
	case jsonpath.Index:
		child, err := lookupIndex(value, s)
		if err != nil {
			return false, err
		}
		return w.next(child, c, path.Append(s))
	}

	cands, err := selectCandidates(value, seg)
	if err != nil {
		return false, err
	}

	visited := 0
	for _, cand := range cands {
		stop, err := w.next(cand.value, c, path.Append(cand.seg))
		if err != nil {
			continue
		}
		if stop {
			return true, nil
		}
		visited++
	}
	if visited == 0 {
		return false, noMatch(seg)
	}
	return false, nil
}

func (w *walker) next(value any, c Cursor, path jsonpath.Span) (bool, error) {
	switch {
	case c.Terminal():
		return w.fn(path, value), nil
	case !c.SpanDone():
		return w.advance(value, c.NextSegment(), path)
	default:
		return w.descend(value, c.NextSpan(w.q), path)
	}
}

func (w *walker) descend(value any, c Cursor, path jsonpath.Span) (bool, error) {
	seg, err := c.Segment(w.q)
	if err != nil {
		return false, err
	}

	switch s := seg.(type) {
	case jsonpath.Root:
		return w.next(value, c, path)
	case jsonpath.Key:
		visited := 0
		stop := w.scan(value, string(s), c, path, &visited)
		if !stop && visited == 0 {
			return false, noDescendant(string(s))
		}
		return stop, nil
	default:
		return false, fmt.Errorf("%w: recursive descent expects a key, got %s", ErrPathSegmentInvalid, seg)
	}
}

func (w *walker) scan(value any, key string, c Cursor, path jsonpath.Span, visited *int) bool {
	for _, child := range children(value) {
		childPath := path.Append(child.seg)
		if child.named && child.key == key {
			stop, err := w.next(child.value, c, childPath)
			if stop {
				return true
			}
			if err == nil {
				*visited++
			}
		}
		if w.scan(child.value, key, c, childPath, visited) {
			return true
		}
	}
	return false
}
