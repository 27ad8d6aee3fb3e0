// Package traverse executes parsed queries against in-memory documents.
//
// Each operation (Get, Set, Delete, ForEach) is a pair of mutually recursive
// walkers: advance consumes the segment under the Cursor, descend searches
// every descendant for the key that starts the next span after `..`.
// Multi-candidate segments (wildcards, unions, slices) fan out through a
// shared candidate list; per-candidate failures are swallowed by Get and
// ForEach and recorded as the last error by Set and Delete.
//
// Recursive descent visits every node below the starting point, so a `..`
// costs O(size of the subtree) per invocation.
//
// The engine does no locking: callers serialize access to a document.
package traverse
