package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/jacoelho/docpath/internal/exit"
	"github.com/jacoelho/docpath/internal/formatter"
)

// StdinFile is the -file value that reads the document from stdin.
const StdinFile = "-"

var (
	ErrNoArguments           = errors.New("no arguments provided")
	ErrNoCommand             = errors.New("no command specified")
	ErrUnknownCommand        = errors.New("unknown command")
	ErrNoPath                = errors.New("no path specified")
	ErrNoValue               = errors.New("set requires a value")
	ErrUnexpectedArgument    = errors.New("unexpected argument")
	ErrInvalidVariableFormat = errors.New("variable must be in format name=value")
	ErrEmptyVariableName     = errors.New("variable name cannot be empty")
)

// Command is the operation to run against the document.
type Command string

const (
	CommandGet    Command = "get"
	CommandSet    Command = "set"
	CommandDelete Command = "delete"
	CommandPaths  Command = "paths"
)

func parseCommand(s string) (Command, error) {
	switch c := Command(s); c {
	case CommandGet, CommandSet, CommandDelete, CommandPaths:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, s)
	}
}

// Config represents the complete configuration for the docpath tool.
type Config struct {
	Command Command
	Path    string
	Value   string // Raw value template, set only

	// Document input and output
	File   string
	Input  formatter.Format
	Output formatter.Format

	SchemaFile   string
	VariableFile string
	Variables    map[string]any

	Debug bool
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if _, err := parseCommand(string(c.Command)); err != nil {
		return err
	}

	if strings.TrimSpace(c.Path) == "" {
		return ErrNoPath
	}

	if c.File != StdinFile {
		if _, err := os.Stat(c.File); err != nil {
			return fmt.Errorf("input file %s not found: %w", c.File, err)
		}
	}

	if c.SchemaFile != "" {
		if _, err := os.Stat(c.SchemaFile); err != nil {
			return fmt.Errorf("schema file %s not found: %w", c.SchemaFile, err)
		}
	}

	return nil
}

// variablesFlag implements flag.Value for parsing multiple -var flags.
type variablesFlag map[string]any

func (v variablesFlag) String() string {
	var pairs []string
	for k, val := range v {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, val))
	}
	return strings.Join(pairs, ",")
}

// Set parses and stores a variable in name=value format.
func (v variablesFlag) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("%w, got: %s", ErrInvalidVariableFormat, value)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyVariableName
	}

	v[name] = val
	return nil
}

// formatFlag implements flag.Value for -input and -output.
type formatFlag struct {
	format *formatter.Format
}

func (f formatFlag) String() string {
	if f.format == nil {
		return ""
	}
	return string(*f.format)
}

func (f formatFlag) Set(value string) error {
	format, err := formatter.ParseFormat(value)
	if err != nil {
		return err
	}
	*f.format = format
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		input, output formatter.Format
		variables     = make(variablesFlag)

		file         = fs.String("file", StdinFile, "Input document, - for stdin")
		schemaFile   = fs.String("schema", "", "YAML schema applied by set")
		variableFile = fs.String("var-file", "", "Path to key=value file containing template variables")
		debug        = fs.Bool("debug", false, "Enable debug logging")
	)

	fs.Var(formatFlag{&input}, "input", "Input format: json or yaml")
	fs.Var(formatFlag{&output}, "output", "Output format: json or yaml")
	fs.Var(variables, "var", "Template variable in format name=value (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoCommand, Usage())
	}

	command, err := parseCommand(rest[0])
	if err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	if len(rest) < 2 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoPath, Usage())
	}

	var value string
	switch {
	case command == CommandSet && len(rest) < 3:
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoValue, Usage())
	case command == CommandSet && len(rest) > 3, command != CommandSet && len(rest) > 2:
		return nil, exit.Errorf("Error: %v: %s\n\n%s", ErrUnexpectedArgument, rest[len(rest)-1], Usage())
	case command == CommandSet:
		value = rest[2]
	}

	// Command-line variables take precedence over file variables
	finalVariables := make(map[string]any)
	if *variableFile != "" {
		fileVariables, err := loadVariableFile(*variableFile)
		if err != nil {
			return nil, exit.Errorf("Error: failed to load variable file: %v\n\n%s", err, Usage())
		}
		maps.Copy(finalVariables, fileVariables)
	}
	maps.Copy(finalVariables, variables)

	if input == "" {
		input = formatter.FormatOf(*file)
	}
	if output == "" {
		output = input
	}

	config := &Config{
		Command:      command,
		Path:         rest[1],
		Value:        value,
		File:         *file,
		Input:        input,
		Output:       output,
		SchemaFile:   *schemaFile,
		VariableFile: *variableFile,
		Variables:    finalVariables,
		Debug:        *debug,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// loadVariableFile loads variables from a key=value format file.
// It supports comments (lines starting with #) and empty lines.
func loadVariableFile(filename string) (map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	variables := make(map[string]any)
	for lineNum, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid format at line %d: %s (expected key=value)", lineNum+1, line)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty key at line %d: %s", lineNum+1, line)
		}

		variables[key] = strings.TrimSpace(value)
	}

	return variables, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `docpath - query and edit JSON and YAML documents with path expressions

Usage: docpath [options] <command> <path> [value]

Commands:
  get <path>             Print the value at path (a list when path can match many)
  set <path> <value>     Write value at path and print the document
  delete <path>          Remove path and print the document
  paths <path>           Print the concrete path of every match

Options:
  -file FILE             Input document, - for stdin (default: -)
  -input FORMAT          Input format: json or yaml (default: from extension, else json)
  -output FORMAT         Output format: json or yaml (default: same as input)
  -schema FILE           YAML schema used by set to convert values and create containers
  -var NAME=VALUE        Template variable for the set value (can be used multiple times)
  -var-file FILE         Path to key=value file containing template variables
  -debug                 Enable debug logging
  -h, -help              Show this help message

Values are YAML, so 42 is a number, true a boolean and '[a, b]' a list.
Values are rendered as Go templates first: '{{ uuid }}', '{{ .name | upper }}'.

Exit status is 0 on success, 1 on error and 2 when nothing matched.

Examples:
  docpath -file config.yaml get '$.server.port'
  docpath -file users.json get '$..Name'
  docpath -file users.json set '$[*].Active' true
  docpath -file doc.json -var id=7 set '$.Items[0].Id' '{{ .id }}'
  docpath -file doc.yaml -output json delete '$.tmp'
  docpath paths '$..Name' < users.json`
}
