package traverse

import (
	"fmt"
	"slices"

	"github.com/jacoelho/docpath/internal/jsonpath"
	"github.com/jacoelho/docpath/internal/node"
)

// Delete removes every position q addresses and returns the new root.
// Absent keys, out of range indexes and missing intermediates are no-ops.
// Removing from a sequence shifts the following elements down; a terminal
// wildcard clears it in one step.
func Delete(root any, q jsonpath.Query) (any, Result) {
	var res Result
	if len(q) == 0 || len(q[0]) == 0 {
		res.fail(fmt.Errorf("%w: empty query", ErrPathSegmentInvalid))
		return root, res
	}

	d := deleter{q: q, res: &res}
	out := d.advance(root, NewCursor(q))
	return out, res
}

type deleter struct {
	q   jsonpath.Query
	res *Result
}

func (d *deleter) advance(current any, c Cursor) any {
	seg, err := c.Segment(d.q)
	if err != nil {
		d.res.fail(err)
		return current
	}

	if _, ok := seg.(jsonpath.Root); ok {
		if c.Terminal() {
			d.res.Modified++
			return nil
		}
		return d.next(current, c)
	}

	if node.IsNull(current) {
		return current
	}

	switch kind := node.KindOf(current); kind {
	case node.KindObject:
		fields, _ := node.AsFields(current)
		d.object(fields, seg, c)
		return current
	case node.KindAssocMap:
		d.assocMap(current.(*node.Map), seg, c)
		return current
	case node.KindSequence:
		return d.sequence(current.([]any), seg, c)
	case node.KindSet:
		return d.set(current.(*node.Set), seg, c)
	default:
		d.res.fail(segmentInvalid(kind, seg))
		return current
	}
}

// next continues below a position that survives the segment under c.
func (d *deleter) next(value any, c Cursor) any {
	if !c.SpanDone() {
		return d.advance(value, c.NextSegment())
	}
	return d.descend(value, c.NextSpan(d.q))
}

func (d *deleter) object(fields node.Fields, seg jsonpath.Segment, c Cursor) {
	var keys []string
	switch s := seg.(type) {
	case jsonpath.Key:
		keys = []string{string(s)}
	case jsonpath.Wildcard:
		keys = fields.Keys()
	case jsonpath.Union:
		for _, k := range s.Keys() {
			keys = append(keys, string(k))
		}
	default:
		d.res.fail(segmentInvalid(node.KindObject, seg))
		return
	}

	for _, k := range keys {
		if c.Terminal() {
			if fields.Delete(k) {
				d.res.Modified++
			}
			continue
		}
		if v, ok := fields.Get(k); ok {
			fields.Set(k, d.next(v, c))
		}
	}
}

func (d *deleter) assocMap(m *node.Map, seg jsonpath.Segment, c Cursor) {
	var keys []string
	switch s := seg.(type) {
	case jsonpath.Key:
		keys = []string{string(s)}
	case jsonpath.Wildcard:
		for _, e := range m.Entries() {
			keys = append(keys, node.MapKeyString(e.Key))
		}
	case jsonpath.Union:
		for _, k := range s.Keys() {
			keys = append(keys, string(k))
		}
	default:
		d.res.fail(segmentInvalid(node.KindAssocMap, seg))
		return
	}

	for _, k := range keys {
		if c.Terminal() {
			if m.Delete(k) {
				d.res.Modified++
			}
			continue
		}
		if e, ok := m.Lookup(k); ok {
			m.Set(e.Key, d.next(e.Value, c))
		}
	}
}

func (d *deleter) sequence(seq []any, seg jsonpath.Segment, c Cursor) []any {
	var positions []int
	switch s := seg.(type) {
	case jsonpath.Index:
		positions = []int{int(s)}
	case jsonpath.Wildcard:
		if c.Terminal() {
			if len(seq) > 0 {
				d.res.Modified++
			}
			return []any{}
		}
		for i := range seq {
			positions = append(positions, i)
		}
	case jsonpath.Union:
		for _, i := range s.Indexes() {
			positions = append(positions, int(i))
		}
	case jsonpath.Slice:
		var err error
		if positions, err = slicePositions(s, len(seq)); err != nil {
			d.res.fail(err)
			return seq
		}
	default:
		d.res.fail(segmentInvalid(node.KindSequence, seg))
		return seq
	}

	if c.Terminal() {
		return d.remove(seq, positions)
	}
	for _, i := range positions {
		if i >= 0 && i < len(seq) {
			seq[i] = d.next(seq[i], c)
		}
	}
	return seq
}

// remove deletes the in-range positions from items, highest first so the
// remaining positions stay valid while elements shift down.
func (d *deleter) remove(items []any, positions []int) []any {
	positions = slices.Clone(positions)
	slices.Sort(positions)
	positions = slices.Compact(positions)
	for _, i := range slices.Backward(positions) {
		if i < 0 || i >= len(items) {
			continue
		}
		items = slices.Delete(items, i, i+1)
		d.res.Modified++
	}
	return items
}

// set removes or updates members by their position in materialized order
// and rebuilds the set.
func (d *deleter) set(s *node.Set, seg jsonpath.Segment, c Cursor) any {
	items := s.Values()

	var positions []int
	switch v := seg.(type) {
	case jsonpath.Index:
		positions = []int{int(v)}
	case jsonpath.Wildcard:
		if c.Terminal() {
			if len(items) > 0 {
				d.res.Modified++
			}
			return node.NewSet()
		}
		for i := range items {
			positions = append(positions, i)
		}
	default:
		d.res.fail(segmentInvalid(node.KindSet, seg))
		return s
	}

	if c.Terminal() {
		return node.NewSet(d.remove(items, positions)...)
	}
	for _, i := range positions {
		if i >= 0 && i < len(items) {
			items[i] = d.next(items[i], c)
		}
	}
	return node.NewSet(items...)
}

// descend removes every descendant of current named by the key that starts
// the span under c. Matched subtrees are not searched further.
func (d *deleter) descend(current any, c Cursor) any {
	seg, err := c.Segment(d.q)
	if err != nil {
		d.res.fail(err)
		return current
	}

	switch s := seg.(type) {
	case jsonpath.Root:
		if c.Terminal() {
			d.res.Modified++
			return nil
		}
		return d.next(current, c)
	case jsonpath.Key:
		return d.scan(current, string(s), c)
	default:
		d.res.fail(fmt.Errorf("%w: recursive descent expects a key, got %s", ErrPathSegmentInvalid, seg))
		return current
	}
}

func (d *deleter) scan(current any, key string, c Cursor) any {
	switch node.KindOf(current) {
	case node.KindObject:
		fields, _ := node.AsFields(current)
		for _, child := range children(current) {
			switch {
			case child.key != key:
				fields.Set(child.key, d.scan(child.value, key, c))
			case c.Terminal():
				fields.Delete(child.key)
				d.res.Modified++
			default:
				fields.Set(child.key, d.next(child.value, c))
			}
		}
	case node.KindAssocMap:
		m := current.(*node.Map)
		for _, e := range m.Entries() {
			k := node.MapKeyString(e.Key)
			switch {
			case k != key:
				m.Set(e.Key, d.scan(e.Value, key, c))
			case c.Terminal():
				m.Delete(k)
				d.res.Modified++
			default:
				m.Set(e.Key, d.next(e.Value, c))
			}
		}
	case node.KindSequence:
		seq := current.([]any)
		for i, item := range seq {
			seq[i] = d.scan(item, key, c)
		}
	case node.KindSet:
		items := current.(*node.Set).Values()
		for i, item := range items {
			items[i] = d.scan(item, key, c)
		}
		return node.NewSet(items...)
	}
	return current
}
