package formatter

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json or yaml)", s)
	}
}

// FormatOf guesses the format of a file from its extension, defaulting to
// JSON.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Formatter defines the interface for writing operation results.
// Implementations are responsible for determining the output device.
type Formatter interface {
	// Document writes a whole document or a Get result.
	Document(v any) error
	// Paths writes one concrete path per line.
	Paths(paths []string) error
}
