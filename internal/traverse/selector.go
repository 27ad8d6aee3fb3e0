package traverse

import (
	"fmt"

	"github.com/jacoelho/docpath/internal/jsonpath"
	"github.com/jacoelho/docpath/internal/node"
)

// candidate is one child selected from a container. seg is the concrete
// Key or Index that addresses value inside its parent.
type candidate struct {
	seg   jsonpath.Segment
	value any
	// named marks fields and map entries, the only children `..` can match.
	named bool
	key   string
}

// children lists every direct child of value in document order. Scalars
// have none.
func children(value any) []candidate {
	switch node.KindOf(value) {
	case node.KindObject:
		fields, _ := node.AsFields(value)
		keys := fields.Keys()
		out := make([]candidate, 0, len(keys))
		for _, k := range keys {
			v, _ := fields.Get(k)
			out = append(out, candidate{seg: jsonpath.Key(k), value: v, named: true, key: k})
		}
		return out
	case node.KindAssocMap:
		entries := value.(*node.Map).Entries()
		out := make([]candidate, 0, len(entries))
		for _, e := range entries {
			k := node.MapKeyString(e.Key)
			out = append(out, candidate{seg: jsonpath.Key(k), value: e.Value, named: true, key: k})
		}
		return out
	case node.KindSequence:
		return elements(value.([]any))
	case node.KindSet:
		return elements(value.(*node.Set).Values())
	default:
		return nil
	}
}

func elements(items []any) []candidate {
	out := make([]candidate, len(items))
	for i, v := range items {
		out[i] = candidate{seg: jsonpath.Index(i), value: v}
	}
	return out
}

// selectCandidates expands a Wildcard, Union or Slice against value.
// Union members that are absent and slice positions out of range are left
// out; a segment that cannot apply to the kind of value is an error.
func selectCandidates(value any, seg jsonpath.Segment) ([]candidate, error) {
	kind := node.KindOf(value)

	switch s := seg.(type) {
	case jsonpath.Wildcard:
		if kind == node.KindScalar {
			return nil, segmentInvalid(kind, seg)
		}
		return children(value), nil

	case jsonpath.Union:
		switch kind {
		case node.KindObject, node.KindAssocMap:
			var out []candidate
			for _, k := range s.Keys() {
				if v, err := lookupKey(value, k); err == nil {
					out = append(out, candidate{seg: k, value: v, named: true, key: string(k)})
				}
			}
			return out, nil
		case node.KindSequence:
			seq := value.([]any)
			var out []candidate
			for _, i := range s.Indexes() {
				if int(i) >= 0 && int(i) < len(seq) {
					out = append(out, candidate{seg: i, value: seq[i]})
				}
			}
			return out, nil
		}

	case jsonpath.Slice:
		if kind != node.KindSequence {
			break
		}
		seq := value.([]any)
		positions, err := slicePositions(s, len(seq))
		if err != nil {
			return nil, err
		}
		out := make([]candidate, 0, len(positions))
		for _, i := range positions {
			out = append(out, candidate{seg: jsonpath.Index(i), value: seq[i]})
		}
		return out, nil
	}

	return nil, segmentInvalid(kind, seg)
}

// slicePositions lists the in-range positions a slice selects from a
// sequence of length n. Bounds are absolute offsets: a negative start is
// clamped to 0 and a negative end selects nothing.
func slicePositions(s jsonpath.Slice, n int) ([]int, error) {
	start, end, step := 0, n, 1
	if s.Start != nil {
		start = max(*s.Start, 0)
	}
	if s.End != nil {
		end = min(*s.End, n)
	}
	if s.Step != nil {
		step = *s.Step
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: slice step must be positive, got %d", ErrPathSegmentInvalid, step)
	}

	var out []int
	for i := start; i < end; i += step {
		out = append(out, i)
	}
	return out, nil
}

// lookupKey reads a field of an Object or an entry of an AssocMap.
func lookupKey(value any, key jsonpath.Key) (any, error) {
	switch kind := node.KindOf(value); kind {
	case node.KindObject:
		fields, _ := node.AsFields(value)
		v, ok := fields.Get(string(key))
		if !ok {
			return nil, keyNotFound(string(key))
		}
		return v, nil
	case node.KindAssocMap:
		e, ok := value.(*node.Map).Lookup(string(key))
		if !ok {
			return nil, keyNotFound(string(key))
		}
		return e.Value, nil
	default:
		return nil, segmentInvalid(kind, key)
	}
}

// lookupIndex reads a sequence element, or a set member in materialized order.
func lookupIndex(value any, idx jsonpath.Index) (any, error) {
	var items []any
	switch kind := node.KindOf(value); kind {
	case node.KindSequence:
		items = value.([]any)
	case node.KindSet:
		items = value.(*node.Set).Values()
	default:
		return nil, segmentInvalid(kind, idx)
	}

	i := int(idx)
	if i < 0 || i >= len(items) {
		return nil, outOfRange(i, len(items))
	}
	return items[i], nil
}
