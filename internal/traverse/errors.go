package traverse

import (
	"errors"
	"fmt"

	"github.com/jacoelho/docpath/internal/jsonpath"
	"github.com/jacoelho/docpath/internal/node"
)

var (
	// ErrPathSegmentInvalid indicates a segment that cannot apply to the
	// current node kind, or an exhausted cursor.
	ErrPathSegmentInvalid = errors.New("traverse: path segment invalid")

	// ErrValueAtPathSegmentInvalid indicates a missing key, an index out of
	// range, or a selector that matched nothing.
	ErrValueAtPathSegmentInvalid = errors.New("traverse: value at path segment invalid")
)

func segmentInvalid(kind node.Kind, seg jsonpath.Segment) error {
	return fmt.Errorf("%w: cannot apply %s to %s", ErrPathSegmentInvalid, seg, kind)
}

func noMatch(seg jsonpath.Segment) error {
	return fmt.Errorf("%w: %s matched nothing", ErrValueAtPathSegmentInvalid, seg)
}

func noDescendant(key string) error {
	return fmt.Errorf("%w: no descendant named %q", ErrValueAtPathSegmentInvalid, key)
}

func outOfRange(i, n int) error {
	return fmt.Errorf("%w: index %d out of range [0,%d)", ErrValueAtPathSegmentInvalid, i, n)
}

func keyNotFound(key string) error {
	return fmt.Errorf("%w: key %q not found", ErrValueAtPathSegmentInvalid, key)
}
