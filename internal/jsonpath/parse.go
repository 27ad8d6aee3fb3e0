package jsonpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jacoelho/docpath/internal/stack"
)

const (
	quotedSingle = `'((?:[^'\\]|\\.)*)'`
	quotedDouble = `"((?:[^"\\]|\\.)*)"`
	unionItem    = `\s*(?:-?\d+|'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*")\s*`
)

// Submatch groups of segmentRe.
const (
	grpIndex = iota + 1
	grpSliceStart
	grpSliceEnd
	grpSliceStep
	grpSingleKey
	grpDoubleKey
	grpUnion
	grpUnknown
	grpBare
)

// segmentRe lists the segment forms in priority order; Go's leftmost-first
// alternation picks the earliest form that matches at a position. Bracket
// groups matching no form are consumed whole so their content is never read
// as a bare key.
var segmentRe = regexp.MustCompile(
	`\[(\d+|\*)\]` +
		`|\[(-?\d*):(-?\d*)(?::(-?\d*))?\]` +
		`|\[` + quotedSingle + `\]` +
		`|\[` + quotedDouble + `\]` +
		`|\[(` + unionItem + `(?:,` + unionItem + `)+)\]` +
		`|(\[[^\]]*\])` +
		`|([A-Za-z0-9_$*]+)`,
)

var unionItemRe = regexp.MustCompile(`(-?\d+)|` + quotedSingle + `|` + quotedDouble)

// Parse splits path into a Query.
//
// Dot pieces that are not entirely made of known segment forms are dropped.
// Parse fails with ErrPathSyntaxInvalid when the path is empty or when a
// `..` boundary leaves a span without any segment.
func Parse(path string) (Query, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrPathSyntaxInvalid)
	}

	pieces := SplitRecursive(path)
	query := make(Query, 0, len(pieces))
	for i, piece := range pieces {
		span := parseSpan(piece)
		if len(span) == 0 {
			return nil, fmt.Errorf("%w: span %d of %q has no segments", ErrPathSyntaxInvalid, i, path)
		}
		query = append(query, span)
	}

	return query, nil
}

// MustParse is like Parse but panics on error.
func MustParse(path string) Query {
	q, err := Parse(path)
	if err != nil {
		panic(err)
	}
	return q
}

// SplitRecursive cuts path at every `..` that is not inside brackets or quotes.
func SplitRecursive(path string) []string {
	return splitTopLevel(path, "..")
}

// SplitDots cuts one span at every `.` that is not inside brackets or quotes.
func SplitDots(span string) []string {
	return splitTopLevel(span, ".")
}

func parseSpan(src string) Span {
	var span Span
	for _, piece := range SplitDots(src) {
		if piece == "" {
			continue
		}
		span = append(span, ExtractSegments(piece)...)
	}
	return span
}

// splitTopLevel scans s once, skipping bracket groups and quoted strings
// atomically, and cuts at each occurrence of sep found outside of them.
func splitTopLevel(s, sep string) []string {
	var parts []string
	open := stack.NewWithCapacity[byte](4)
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]

		if top, ok := open.Peek(); ok && (top == '\'' || top == '"') {
			switch c {
			case '\\':
				i++
			case top:
				open.Pop()
			}
			continue
		}

		switch c {
		case '\'', '"', '[':
			open.Push(c)
		case ']':
			if top, ok := open.Peek(); ok && top == '[' {
				open.Pop()
			}
		default:
			if open.IsEmpty() && strings.HasPrefix(s[i:], sep) {
				parts = append(parts, s[start:i])
				i += len(sep) - 1
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}

// ExtractSegments classifies one dot piece, which may chain several bracket
// groups (`book[0][1]`). A piece is classified only when the segment forms
// cover all of it apart from surrounding blanks; otherwise it yields no
// segments, so `first-name` is dropped rather than read as two keys.
func ExtractSegments(piece string) []Segment {
	matches := segmentRe.FindAllStringSubmatchIndex(piece, -1)
	if !covers(piece, matches) {
		return nil
	}

	var segs []Segment
	for _, m := range matches {
		group := func(n int) (string, bool) {
			if m[2*n] < 0 {
				return "", false
			}
			return piece[m[2*n]:m[2*n+1]], true
		}

		if v, ok := group(grpIndex); ok {
			if v == "*" {
				segs = append(segs, Wildcard{})
				continue
			}
			if n, err := strconv.Atoi(v); err == nil {
				segs = append(segs, Index(n))
			}
			continue
		}

		if _, ok := group(grpSliceEnd); ok {
			start, _ := group(grpSliceStart)
			end, _ := group(grpSliceEnd)
			step, _ := group(grpSliceStep)
			if seg, ok := parseSlice(start, end, step); ok {
				segs = append(segs, seg)
			}
			continue
		}

		if v, ok := group(grpSingleKey); ok {
			segs = append(segs, Key(unquote(v)))
			continue
		}

		if v, ok := group(grpDoubleKey); ok {
			segs = append(segs, Key(unquote(v)))
			continue
		}

		if v, ok := group(grpUnion); ok {
			if u := parseUnion(v); len(u) > 0 {
				segs = append(segs, u)
			}
			continue
		}

		if v, ok := group(grpBare); ok {
			switch v {
			case "$":
				segs = append(segs, Root{})
			case "*":
				segs = append(segs, Wildcard{})
			default:
				segs = append(segs, Key(v))
			}
		}
	}
	return segs
}

// covers reports whether matches span piece without gaps, ignoring blanks
// before the first and after the last match.
func covers(piece string, matches [][]int) bool {
	if len(matches) == 0 {
		return false
	}
	pos := 0
	for i, m := range matches {
		gap := piece[pos:m[0]]
		if (i > 0 && gap != "") || strings.TrimSpace(gap) != "" {
			return false
		}
		pos = m[1]
	}
	return strings.TrimSpace(piece[pos:]) == ""
}

func parseSlice(start, end, step string) (Segment, bool) {
	if start == "" && end == "" && step == "" {
		return Wildcard{}, true
	}

	var s Slice
	for _, bound := range []struct {
		text   string
		target **int
	}{
		{start, &s.Start},
		{end, &s.End},
		{step, &s.Step},
	} {
		if bound.text == "" {
			continue
		}
		n, err := strconv.Atoi(bound.text)
		if err != nil {
			return nil, false
		}
		*bound.target = &n
	}

	return s, true
}

func parseUnion(content string) Union {
	var u Union
	for _, m := range unionItemRe.FindAllStringSubmatch(content, -1) {
		switch {
		case m[1] != "":
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			u = append(u, Index(n))
		case strings.HasPrefix(strings.TrimSpace(m[0]), "'"):
			u = append(u, Key(unquote(m[2])))
		default:
			u = append(u, Key(unquote(m[3])))
		}
	}
	return u
}
