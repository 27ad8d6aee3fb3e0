package traverse

import (
	"fmt"

	"github.com/jacoelho/docpath/internal/jsonpath"
	"github.com/jacoelho/docpath/internal/node"
	"github.com/jacoelho/docpath/internal/schema"
)

// Schema is consulted by Set for the container kind of missing
// intermediates and to convert each written value.
type Schema interface {
	AtPath(path jsonpath.Span) *schema.Node
	Convert(value any, n *schema.Node) (any, error)
}

// Result accumulates the outcome of a Set or Delete. Err holds the last
// per-candidate failure; a non-zero Modified with a non-nil Err is a
// partial success.
type Result struct {
	Modified int
	Err      error
}

func (r *Result) fail(err error) {
	r.Err = err
}

// Set writes value at every position q addresses and returns the new root.
// Missing intermediates are created and kept only when a value is written
// below them. Writing past the end of a sequence pads it with nil.
func Set(root any, q jsonpath.Query, value any, s Schema) (any, Result) {
	var res Result
	if len(q) == 0 || len(q[0]) == 0 {
		res.fail(fmt.Errorf("%w: empty query", ErrPathSegmentInvalid))
		return root, res
	}
	if s == nil {
		s = (*schema.Schema)(nil)
	}

	st := setter{q: q, value: value, schema: s, res: &res}
	out := st.advance(root, NewCursor(q), jsonpath.Span{jsonpath.Root{}})
	return out, res
}

type setter struct {
	q      jsonpath.Query
	value  any
	schema Schema
	res    *Result
}

// advance applies the segment under c to current and returns the value
// that replaces current in its parent.
func (st *setter) advance(current any, c Cursor, path jsonpath.Span) any {
	seg, err := c.Segment(st.q)
	if err != nil {
		st.res.fail(err)
		return current
	}

	if _, ok := seg.(jsonpath.Root); ok {
		v, ok := st.slot(current, c, path)
		if !ok {
			return current
		}
		return v
	}

	if node.IsNull(current) {
		// A created container is only kept when something was written
		// below it.
		before := st.res.Modified
		created := st.apply(st.vivify(path, seg), seg, c, path)
		if st.res.Modified == before {
			return current
		}
		return created
	}
	return st.apply(current, seg, c, path)
}

func (st *setter) apply(current any, seg jsonpath.Segment, c Cursor, path jsonpath.Span) any {
	switch kind := node.KindOf(current); kind {
	case node.KindObject:
		fields, _ := node.AsFields(current)
		st.object(fields, seg, c, path)
		return current
	case node.KindAssocMap:
		st.assocMap(current.(*node.Map), seg, c, path)
		return current
	case node.KindSequence:
		return st.sequence(current.([]any), seg, c, path)
	case node.KindSet:
		return st.set(current.(*node.Set), seg, c, path)
	default:
		st.res.fail(segmentInvalid(kind, seg))
		return current
	}
}

// slot produces the new value of a position reached by the segment under
// c: the converted value when c is terminal, the result of continuing the
// walk otherwise. ok is false when the terminal conversion failed.
func (st *setter) slot(old any, c Cursor, path jsonpath.Span) (any, bool) {
	if c.Terminal() {
		return st.write(path)
	}
	if !c.SpanDone() {
		return st.advance(old, c.NextSegment(), path), true
	}
	return st.descend(old, c.NextSpan(st.q), path), true
}

// write stores a copy of the value so positions written by one Set never
// share containers.
func (st *setter) write(path jsonpath.Span) (any, bool) {
	v, err := st.schema.Convert(node.Clone(st.value), st.schema.AtPath(path))
	if err != nil {
		st.res.fail(fmt.Errorf("%s: %w", path, err))
		return nil, false
	}
	st.res.Modified++
	return v, true
}

// vivify creates the container missing at path. A declared container kind
// wins; otherwise index-like segments imply a sequence and anything else an
// object.
func (st *setter) vivify(path jsonpath.Span, seg jsonpath.Segment) any {
	switch st.schema.AtPath(path).Kind() {
	case node.KindObject:
		return node.NewObject()
	case node.KindAssocMap:
		return node.NewMap()
	case node.KindSequence:
		return []any{}
	case node.KindSet:
		return node.NewSet()
	}

	switch s := seg.(type) {
	case jsonpath.Index, jsonpath.Slice:
		return []any{}
	case jsonpath.Union:
		if len(s.Keys()) == 0 {
			return []any{}
		}
	}
	return node.NewObject()
}

func (st *setter) object(fields node.Fields, seg jsonpath.Segment, c Cursor, path jsonpath.Span) {
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
		st.res.fail(segmentInvalid(node.KindObject, seg))
		return
	}
	if len(keys) == 0 {
		st.res.fail(noMatch(seg))
		return
	}

	for _, k := range keys {
		old, existed := fields.Get(k)
		before := st.res.Modified
		v, ok := st.slot(old, c, path.Append(jsonpath.Key(k)))
		if !ok || (!existed && st.res.Modified == before) {
			continue
		}
		fields.Set(k, v)
	}
}

func (st *setter) assocMap(m *node.Map, seg jsonpath.Segment, c Cursor, path jsonpath.Span) {
	var entries []node.MapEntry
	switch s := seg.(type) {
	case jsonpath.Key:
		entries = []node.MapEntry{st.mapEntry(m, s)}
	case jsonpath.Wildcard:
		entries = m.Entries()
	case jsonpath.Union:
		for _, k := range s.Keys() {
			entries = append(entries, st.mapEntry(m, k))
		}
	default:
		st.res.fail(segmentInvalid(node.KindAssocMap, seg))
		return
	}
	if len(entries) == 0 {
		st.res.fail(noMatch(seg))
		return
	}

	for _, e := range entries {
		_, existed := m.Get(e.Key)
		before := st.res.Modified
		v, ok := st.slot(e.Value, c, path.Append(jsonpath.Key(node.MapKeyString(e.Key))))
		if !ok || (!existed && st.res.Modified == before) {
			continue
		}
		m.Set(e.Key, v)
	}
}

// mapEntry finds the entry addressed by key, or a new string-keyed entry.
func (st *setter) mapEntry(m *node.Map, key jsonpath.Key) node.MapEntry {
	if e, ok := m.Lookup(string(key)); ok {
		return e
	}
	return node.MapEntry{Key: string(key)}
}

func (st *setter) sequence(seq []any, seg jsonpath.Segment, c Cursor, path jsonpath.Span) []any {
	var positions []int
	switch s := seg.(type) {
	case jsonpath.Index:
		positions = []int{int(s)}
	case jsonpath.Wildcard:
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
			st.res.fail(err)
			return seq
		}
	default:
		st.res.fail(segmentInvalid(node.KindSequence, seg))
		return seq
	}
	if len(positions) == 0 {
		st.res.fail(noMatch(seg))
		return seq
	}

	for _, i := range positions {
		if i < 0 {
			st.res.fail(outOfRange(i, len(seq)))
			continue
		}
		var old any
		if i < len(seq) {
			old = seq[i]
		}
		before := st.res.Modified
		v, ok := st.slot(old, c, path.Append(jsonpath.Index(i)))
		if !ok || (i >= len(seq) && st.res.Modified == before) {
			continue
		}
		if i >= len(seq) {
			seq = append(seq, make([]any, i+1-len(seq))...)
		}
		seq[i] = v
	}
	return seq
}

// set updates members by their position in materialized order and rebuilds
// the set, since an updated member may collide with another.
func (st *setter) set(s *node.Set, seg jsonpath.Segment, c Cursor, path jsonpath.Span) any {
	items := s.Values()

	var positions []int
	switch v := seg.(type) {
	case jsonpath.Index:
		if int(v) < 0 || int(v) >= len(items) {
			st.res.fail(outOfRange(int(v), len(items)))
			return s
		}
		positions = []int{int(v)}
	case jsonpath.Wildcard:
		if len(items) == 0 {
			st.res.fail(noMatch(seg))
			return s
		}
		for i := range items {
			positions = append(positions, i)
		}
	default:
		st.res.fail(segmentInvalid(node.KindSet, seg))
		return s
	}

	for _, i := range positions {
		if v, ok := st.slot(items[i], c, path.Append(jsonpath.Index(i))); ok {
			items[i] = v
		}
	}
	return node.NewSet(items...)
}

// descend writes under every descendant of current named by the key that
// starts the span under c. Matched subtrees are not searched further.
func (st *setter) descend(current any, c Cursor, path jsonpath.Span) any {
	seg, err := c.Segment(st.q)
	if err != nil {
		st.res.fail(err)
		return current
	}

	switch s := seg.(type) {
	case jsonpath.Root:
		if v, ok := st.slot(current, c, path); ok {
			return v
		}
		return current
	case jsonpath.Key:
		matched := 0
		out := st.scan(current, string(s), c, path, &matched)
		if matched == 0 {
			st.res.fail(noDescendant(string(s)))
		}
		return out
	default:
		st.res.fail(fmt.Errorf("%w: recursive descent expects a key, got %s", ErrPathSegmentInvalid, seg))
		return current
	}
}

func (st *setter) scan(current any, key string, c Cursor, path jsonpath.Span, matched *int) any {
	update := func(child candidate) (any, bool) {
		childPath := path.Append(child.seg)
		if child.named && child.key == key {
			*matched++
			return st.slot(child.value, c, childPath)
		}
		return st.scan(child.value, key, c, childPath, matched), true
	}

	switch node.KindOf(current) {
	case node.KindObject:
		fields, _ := node.AsFields(current)
		for _, child := range children(current) {
			if v, ok := update(child); ok {
				fields.Set(child.key, v)
			}
		}
	case node.KindAssocMap:
		m := current.(*node.Map)
		for _, e := range m.Entries() {
			k := node.MapKeyString(e.Key)
			if v, ok := update(candidate{seg: jsonpath.Key(k), value: e.Value, named: true, key: k}); ok {
				m.Set(e.Key, v)
			}
		}
	case node.KindSequence:
		seq := current.([]any)
		for _, child := range children(current) {
			if v, ok := update(child); ok {
				seq[child.seg.(jsonpath.Index)] = v
			}
		}
	case node.KindSet:
		items := current.(*node.Set).Values()
		for _, child := range elements(items) {
			if v, ok := update(child); ok {
				items[child.seg.(jsonpath.Index)] = v
			}
		}
		return node.NewSet(items...)
	}
	return current
}
