package formatter

import "testing"

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		expect  Format
		wantErr bool
	}{
		{input: "json", expect: FormatJSON},
		{input: "JSON", expect: FormatJSON},
		{input: "yaml", expect: FormatYAML},
		{input: " yml ", expect: FormatYAML},
		{input: "toml", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expect {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"doc.json":     FormatJSON,
		"doc.yaml":     FormatYAML,
		"dir/doc.YML":  FormatYAML,
		"-":            FormatJSON,
		"no_extension": FormatJSON,
	}

	for name, expect := range tests {
		if got := FormatOf(name); got != expect {
			t.Errorf("FormatOf(%q) = %q, want %q", name, got, expect)
		}
	}
}
