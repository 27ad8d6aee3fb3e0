package jsonpath

import (
	"strconv"
	"strings"
)

// Segment is one addressing step of a query. The concrete types are Root,
// Key, Wildcard, Index, Slice and Union.
type Segment interface {
	String() string
	isSegment()
}

type (
	// Root addresses the document itself (`$`).
	Root struct{}

	// Key addresses a named field or map entry.
	Key string

	// Wildcard matches every field, entry or element (`*`).
	Wildcard struct{}

	// Index addresses a sequence position.
	Index int

	// Slice selects sequence positions in [Start, End) by Step.
	// Nil bounds take the defaults 0, len and 1.
	Slice struct {
		Start *int
		End   *int
		Step  *int
	}

	// Union selects several keys or indexes at the same depth.
	// Members are only Key or Index values.
	Union []Segment
)

func (Root) isSegment()     {}
func (Key) isSegment()      {}
func (Wildcard) isSegment() {}
func (Index) isSegment()    {}
func (Slice) isSegment()    {}
func (Union) isSegment()    {}

func (Root) String() string { return "$" }

func (k Key) String() string {
	if isBareKey(string(k)) {
		return string(k)
	}
	return "[" + quote(string(k)) + "]"
}

func (Wildcard) String() string { return "[*]" }

func (i Index) String() string { return "[" + strconv.Itoa(int(i)) + "]" }

func (s Slice) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if s.Start != nil {
		b.WriteString(strconv.Itoa(*s.Start))
	}
	b.WriteByte(':')
	if s.End != nil {
		b.WriteString(strconv.Itoa(*s.End))
	}
	if s.Step != nil {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(*s.Step))
	}
	b.WriteByte(']')
	return b.String()
}

func (u Union) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, member := range u {
		if i > 0 {
			b.WriteByte(',')
		}
		switch m := member.(type) {
		case Key:
			b.WriteString(quote(string(m)))
		case Index:
			b.WriteString(strconv.Itoa(int(m)))
		default:
			b.WriteString(member.String())
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Keys returns the Key members of the union in order.
func (u Union) Keys() []Key {
	keys := make([]Key, 0, len(u))
	for _, member := range u {
		if k, ok := member.(Key); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Indexes returns the Index members of the union in order.
func (u Union) Indexes() []Index {
	indexes := make([]Index, 0, len(u))
	for _, member := range u {
		if i, ok := member.(Index); ok {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// Span is the list of segments between two `..` boundaries.
type Span []Segment

// String renders the span with dots before bare keys; every other segment
// renders in bracket form.
func (s Span) String() string {
	var b strings.Builder
	for i, seg := range s {
		switch v := seg.(type) {
		case Key:
			if i > 0 && isBareKey(string(v)) {
				b.WriteByte('.')
			}
		case Root:
			if i > 0 {
				b.WriteByte('.')
			}
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// Append returns a new span with seg added, leaving s untouched so sibling
// branches never share a backing array.
func (s Span) Append(seg Segment) Span {
	out := make(Span, len(s), len(s)+1)
	copy(out, s)
	return append(out, seg)
}

// Query is a parsed path, one Span per `..` boundary.
type Query []Span

func (q Query) String() string {
	parts := make([]string, len(q))
	for i, span := range q {
		parts[i] = span.String()
	}
	return strings.Join(parts, "..")
}

// Multi reports whether the query can match more than one value: it uses
// recursive descent or contains a wildcard, union or slice.
func (q Query) Multi() bool {
	if len(q) > 1 {
		return true
	}
	for _, span := range q {
		for _, seg := range span {
			if IsMulti(seg) {
				return true
			}
		}
	}
	return false
}

// IsMulti reports whether seg selects a list of candidates.
func IsMulti(seg Segment) bool {
	switch seg.(type) {
	case Wildcard, Union, Slice:
		return true
	default:
		return false
	}
}

// isBareKey reports whether key can print without brackets: a leading
// letter followed by letters, digits or underscores.
func isBareKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case isLetter(c):
		case i > 0 && (c >= '0' && c <= '9' || c == '_'):
		default:
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('\'')
	return b.String()
}

func unquote(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
