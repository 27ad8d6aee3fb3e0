package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jacoelho/docpath/internal/config"
	"github.com/jacoelho/docpath/internal/document"
	"github.com/jacoelho/docpath/internal/exit"
	"github.com/jacoelho/docpath/internal/formatter"
	"github.com/jacoelho/docpath/internal/formatter/stdout"
	"github.com/jacoelho/docpath/internal/jsonpath"
	"github.com/jacoelho/docpath/internal/node"
	"github.com/jacoelho/docpath/internal/schema"
	"github.com/jacoelho/docpath/internal/template"
	"github.com/jacoelho/docpath/internal/traverse"
)

// Runner executes one configured command against one document.
type Runner struct {
	config    *config.Config
	logger    *zap.Logger
	input     io.Reader
	formatter formatter.Formatter
	schema    *schema.Schema
}

// New creates a Runner reading stdin and writing to stdout.
// If creation fails, returns nil runner and exit result.
func New(cfg *config.Config, logger *zap.Logger) (*Runner, *exit.Result) {
	return NewWithIO(cfg, logger, os.Stdin, stdout.New(cfg.Output))
}

// NewWithIO creates a Runner with a custom stdin and formatter.
func NewWithIO(cfg *config.Config, logger *zap.Logger, input io.Reader, f formatter.Formatter) (*Runner, *exit.Result) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var s *schema.Schema
	if cfg.SchemaFile != "" {
		file, err := os.Open(cfg.SchemaFile)
		if err != nil {
			return nil, exit.Errorf("Error creating runner: %v\n", err)
		}
		defer file.Close()

		if s, err = schema.Parse(file); err != nil {
			return nil, exit.Errorf("Error creating runner: %s: %v\n", cfg.SchemaFile, err)
		}
	}

	return &Runner{
		config:    cfg,
		logger:    logger,
		input:     input,
		formatter: f,
		schema:    s,
	}, nil
}

// Run executes the command, prints any failure and returns the exit code.
func (r *Runner) Run(ctx context.Context) int {
	if result := r.Execute(ctx); result != nil {
		result.Print()
		return result.ExitCode
	}
	return exit.CodeSuccess
}

// Execute runs the command and writes its output. It returns nil on
// success.
func (r *Runner) Execute(ctx context.Context) *exit.Result {
	root, err := r.load()
	if err != nil {
		return exit.Errorf("Error: %v\n", err)
	}

	if err := ctx.Err(); err != nil {
		return exit.Errorf("Interrupted: %v\n", err)
	}

	doc := document.New(root,
		document.WithSchema(r.schema),
		document.WithLogger(r.logger),
	)

	path := r.config.Path
	switch r.config.Command {
	case config.CommandGet:
		v, ok := doc.Get(path)
		if !ok {
			return failure(path, doc.LastError())
		}
		return r.write(r.formatter.Document(v))

	case config.CommandPaths:
		paths, err := doc.Paths(path)
		if err != nil {
			return failure(path, err)
		}
		return r.write(r.formatter.Paths(paths))

	case config.CommandSet:
		value, err := r.value()
		if err != nil {
			return exit.Errorf("Error: %v\n", err)
		}
		return r.mutation(doc, path, func() (int, error) { return doc.Set(path, value) })

	case config.CommandDelete:
		return r.mutation(doc, path, func() (int, error) { return doc.Delete(path) })
	}

	return exit.Errorf("Error: %v: %s\n", config.ErrUnknownCommand, r.config.Command)
}

func (r *Runner) mutation(doc *document.Document, path string, apply func() (int, error)) *exit.Result {
	n, err := apply()
	if n == 0 {
		if err == nil {
			return exit.NoMatch(fmt.Sprintf("Nothing changed at %s\n", path))
		}
		return failure(path, err)
	}
	if err != nil {
		r.logger.Warn("partial update", zap.String("path", path), zap.Int("modified", n), zap.Error(err))
	}
	return r.write(r.formatter.Document(doc.Root()))
}

func (r *Runner) write(err error) *exit.Result {
	if err != nil {
		return exit.Errorf("Error writing output: %v\n", err)
	}
	return nil
}

// failure maps a query error to an exit result: misses exit with
// CodeNoMatch, malformed paths and kind mismatches with CodeError.
func failure(path string, err error) *exit.Result {
	switch {
	case errors.Is(err, traverse.ErrValueAtPathSegmentInvalid):
		return exit.NoMatch(fmt.Sprintf("No match for %s: %v\n", path, err))
	case errors.Is(err, jsonpath.ErrPathSyntaxInvalid):
		return exit.Errorf("Error: invalid path %s: %v\n", path, err)
	default:
		return exit.Errorf("Error: %s: %v\n", path, err)
	}
}

// load reads and decodes the input document. Empty input is a missing
// document, which set can populate.
func (r *Runner) load() (any, error) {
	in := r.input
	if r.config.File != config.StdinFile {
		file, err := os.Open(r.config.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer file.Close()
		in = file
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	r.logger.Debug("loaded document",
		zap.String("file", r.config.File),
		zap.String("format", string(r.config.Input)),
		zap.Int("bytes", len(data)),
	)

	if len(data) == 0 {
		return nil, nil
	}

	var root any
	switch r.config.Input {
	case formatter.FormatYAML:
		root, err = node.DecodeYAML(data)
	default:
		root, err = node.DecodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s input: %w", r.config.Input, err)
	}
	return root, nil
}

// value renders the set argument as a template and decodes the result as
// YAML, so "42" is a number and "[a, b]" a sequence.
func (r *Runner) value() (any, error) {
	text, err := template.Render("value", r.config.Value, r.config.Variables)
	if err != nil {
		return nil, fmt.Errorf("failed to render value: %w", err)
	}

	v, err := node.DecodeYAML([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to decode value %q: %w", text, err)
	}
	return v, nil
}
