// Package document holds a document root and runs path queries against it,
// remembering the outcome of the last operation.
package document

import (
	"go.uber.org/zap"

	"github.com/jacoelho/docpath/internal/jsonpath"
	"github.com/jacoelho/docpath/internal/schema"
	"github.com/jacoelho/docpath/internal/traverse"
)

// Document is not safe for concurrent use.
type Document struct {
	root   any
	schema *schema.Schema
	logger *zap.Logger

	modified int
	lastErr  error
	value    any
}

type Option func(*Document)

// WithSchema makes Set convert values and create containers as s declares.
func WithSchema(s *schema.Schema) Option {
	return func(d *Document) {
		d.schema = s
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

func New(root any, opts ...Option) *Document {
	d := &Document{
		root:   root,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Root returns the current document, which Set and Delete may replace.
func (d *Document) Root() any { return d.root }

// Modified is the number of matches of the last Get or ForEach, or the
// number of writes or removals of the last Set or Delete.
func (d *Document) Modified() int { return d.modified }

func (d *Document) LastError() error { return d.lastErr }

// Value is the result of the last successful Get.
func (d *Document) Value() any { return d.value }

// Get reads path. A path that can match more than once yields a []any.
func (d *Document) Get(path string) (any, bool) {
	d.reset()

	if path == "$" {
		d.value, d.modified = d.root, 1
		d.logger.Debug("get", zap.String("path", path), zap.Int("matched", 1))
		return d.root, true
	}

	q, err := jsonpath.Parse(path)
	if err != nil {
		return nil, d.fail("get", path, err)
	}

	v, err := traverse.Get(d.root, q)
	if err != nil {
		return nil, d.fail("get", path, err)
	}

	d.value, d.modified = v, 1
	if list, ok := v.([]any); ok && q.Multi() {
		d.modified = len(list)
	}
	d.logger.Debug("get", zap.String("path", path), zap.Int("matched", d.modified))
	return v, true
}

// Exists reports whether path matches at least one value.
func (d *Document) Exists(path string) bool {
	_, ok := d.Get(path)
	return ok
}

// Set writes value at every position path addresses. It returns the number
// of writes and the last failure; both can be non-zero.
func (d *Document) Set(path string, value any) (int, error) {
	d.reset()

	q, err := jsonpath.Parse(path)
	if err != nil {
		d.fail("set", path, err)
		return 0, err
	}

	root, res := traverse.Set(d.root, q, value, d.schema)
	d.root = root
	d.record("set", path, res)
	return res.Modified, res.Err
}

// Delete removes every position path addresses. It returns the number of
// removals and the last failure.
func (d *Document) Delete(path string) (int, error) {
	d.reset()

	q, err := jsonpath.Parse(path)
	if err != nil {
		d.fail("delete", path, err)
		return 0, err
	}

	root, res := traverse.Delete(d.root, q)
	d.root = root
	d.record("delete", path, res)
	return res.Modified, res.Err
}

// ForEach calls fn with the concrete path and value of every match until fn
// returns true.
func (d *Document) ForEach(path string, fn traverse.Visitor) error {
	d.reset()

	q, err := jsonpath.Parse(path)
	if err != nil {
		d.fail("foreach", path, err)
		return err
	}

	err = traverse.ForEach(d.root, q, func(p jsonpath.Span, v any) bool {
		d.modified++
		return fn(p, v)
	})
	if err != nil {
		d.fail("foreach", path, err)
		return err
	}

	d.logger.Debug("foreach", zap.String("path", path), zap.Int("matched", d.modified))
	return nil
}

// Paths lists the canonical concrete path of every match in document order.
func (d *Document) Paths(path string) ([]string, error) {
	var out []string
	err := d.ForEach(path, func(p jsonpath.Span, _ any) bool {
		out = append(out, p.String())
		return false
	})
	return out, err
}

func (d *Document) reset() {
	d.modified, d.lastErr, d.value = 0, nil, nil
}

func (d *Document) fail(op, path string, err error) bool {
	d.lastErr = err
	d.logger.Debug(op, zap.String("path", path), zap.Error(err))
	return false
}

func (d *Document) record(op, path string, res traverse.Result) {
	d.modified, d.lastErr = res.Modified, res.Err
	d.logger.Debug(op,
		zap.String("path", path),
		zap.Int("modified", res.Modified),
		zap.Error(res.Err),
	)
}
