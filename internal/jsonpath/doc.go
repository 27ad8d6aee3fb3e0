// Package jsonpath parses the JSONPath-like query language used to address
// values inside untyped documents.
//
// Supported syntax:
//   - Root `$`
//   - Dot keys `.name` and bracket keys `['name']` / `["name"]`
//   - Wildcards `*` and `[*]`
//   - Indexes `[n]` and slices `[start:end:step]`
//   - Unions of indexes or quoted keys `[0,2]`, `['a','b']`
//   - Recursive descent `..name`
//
// A parsed Query is a list of Spans, one per `..` boundary, each Span a list
// of Segments. Filters, functions and negative indexes are not supported.
package jsonpath
