package stdout

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/docpath/internal/formatter"
	"github.com/jacoelho/docpath/internal/node"
)

// Formatter writes documents in one encoding to a writer.
type Formatter struct {
	writer io.Writer
	format formatter.Format
}

// New creates a formatter that writes to stdout.
func New(format formatter.Format) formatter.Formatter {
	return NewWithWriter(os.Stdout, format)
}

// NewWithWriter creates a formatter with a custom writer.
// This is useful for testing or redirecting output to files.
func NewWithWriter(writer io.Writer, format formatter.Format) formatter.Formatter {
	return &Formatter{
		writer: writer,
		format: format,
	}
}

func (f *Formatter) Document(v any) error {
	var (
		out []byte
		err error
	)
	switch f.format {
	case formatter.FormatYAML:
		out, err = node.EncodeYAML(v)
	default:
		out, err = node.EncodeJSON(v)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.format, err)
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}

	_, err = f.writer.Write(out)
	return err
}

func (f *Formatter) Paths(paths []string) error {
	for _, p := range paths {
		if _, err := fmt.Fprintln(f.writer, p); err != nil {
			return err
		}
	}
	return nil
}
