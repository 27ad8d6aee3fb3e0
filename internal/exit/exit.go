package exit

import (
	"fmt"
	"io"
	"os"
)

// Process exit codes.
const (
	CodeSuccess = 0
	CodeError   = 1
	// CodeNoMatch reports a query that matched, modified or removed nothing.
	CodeNoMatch = 2
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success writes message to stdout and exits with CodeSuccess.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeSuccess,
		Message:  message,
	}
}

// Error writes message to stderr and exits with CodeError.
func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeError,
		Message:  message,
	}
}

func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

// NoMatch writes message to stderr and exits with CodeNoMatch.
func NoMatch(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeNoMatch,
		Message:  message,
	}
}
