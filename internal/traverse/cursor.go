package traverse

import (
	"fmt"

	"github.com/jacoelho/docpath/internal/jsonpath"
)

// Cursor is the position of the walker inside the two dimensional Query
// grid. It is passed by value; every recursive branch advances its own copy.
type Cursor struct {
	SpanIndex int
	SpanLast  int
	SegIndex  int
	SegLast   int
}

// NewCursor points at the first segment of the first span of q.
func NewCursor(q jsonpath.Query) Cursor {
	c := Cursor{SpanLast: len(q) - 1, SegLast: -1}
	if len(q) > 0 {
		c.SegLast = len(q[0]) - 1
	}
	return c
}

func (c Cursor) Valid() bool {
	return c.SpanIndex >= 0 && c.SegIndex >= 0 &&
		c.SpanIndex <= c.SpanLast && c.SegIndex <= c.SegLast
}

// Terminal reports whether c is on the last segment of the last span.
func (c Cursor) Terminal() bool {
	return c.SpanIndex == c.SpanLast && c.SegIndex == c.SegLast
}

// SpanDone reports whether c is on the last segment of its span.
func (c Cursor) SpanDone() bool {
	return c.SegIndex == c.SegLast
}

func (c Cursor) NextSegment() Cursor {
	c.SegIndex++
	return c
}

// NextSpan moves to the first segment of the following span.
func (c Cursor) NextSpan(q jsonpath.Query) Cursor {
	c.SpanIndex++
	c.SegIndex = 0
	c.SegLast = -1
	if c.SpanIndex < len(q) {
		c.SegLast = len(q[c.SpanIndex]) - 1
	}
	return c
}

// Segment returns the segment under c.
func (c Cursor) Segment(q jsonpath.Query) (jsonpath.Segment, error) {
	if !c.Valid() || c.SpanIndex >= len(q) || c.SegIndex >= len(q[c.SpanIndex]) {
		return nil, fmt.Errorf("%w: cursor %+v outside query %q", ErrPathSegmentInvalid, c, q)
	}
	return q[c.SpanIndex][c.SegIndex], nil
}
