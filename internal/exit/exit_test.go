package exit

import (
	"bytes"
	"os"
	"testing"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   *Result
		output   *os.File
		exitCode int
	}{
		{name: "success", result: Success("ok"), output: os.Stdout, exitCode: CodeSuccess},
		{name: "error", result: Error("ok"), output: os.Stderr, exitCode: CodeError},
		{name: "errorf", result: Errorf("%s", "ok"), output: os.Stderr, exitCode: CodeError},
		{name: "no_match", result: NoMatch("ok"), output: os.Stderr, exitCode: CodeNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.result.ExitCode != tt.exitCode {
				t.Errorf("ExitCode = %d, want %d", tt.result.ExitCode, tt.exitCode)
			}
			if tt.result.Message != "ok" {
				t.Errorf("Message = %q, want %q", tt.result.Message, "ok")
			}
			if tt.result.Output != tt.output {
				t.Errorf("Output = %v, want %v", tt.result.Output, tt.output.Name())
			}
		})
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := &Result{Output: &buf, ExitCode: CodeNoMatch, Message: "nothing matched $.a\n"}
	r.Print()

	if got := buf.String(); got != "nothing matched $.a\n" {
		t.Errorf("Print() wrote %q", got)
	}
}
