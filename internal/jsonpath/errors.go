package jsonpath

import "errors"

// ErrPathSyntaxInvalid indicates a path that could not be split into segments.
var ErrPathSyntaxInvalid = errors.New("jsonpath: path syntax invalid")
