package debug

import (
	"strings"
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "test", nil, "test\n"},
		{"depth 1", 1, "indented", nil, "  indented\n"},
		{"depth 2", 2, "double indent", nil, "    double indent\n"},
		{"with formatting", 1, "value: %d", []any{42}, "  value: 42\n"},
		{"multiple args", 0, "%s = %d", []any{"count", 5}, "count = 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "field", "", "field: \n"},
		{"with value", 0, "text", "hello world", "text: \"hello world\"\n"},
		{"depth 2", 2, "nested", "data", "    nested: \"data\"\n"},
		{"value with quotes", 0, "quoted", `he said "hello"`, "quoted: \"he said \\\"hello\\\"\"\n"},
		{"value with newline", 0, "multiline", "line1\nline2", "multiline: \"line1\\nline2\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Value(t *testing.T) {
	tw := NewTreeWriter()
	tw.Value(1, "margin-top", "0 !important")
	if got, want := tw.String(), "  margin-top: 0 !important\n"; got != want {
		t.Errorf("Value() = %q, want %q", got, want)
	}
}

func TestTreeWriter_WriteTo(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Root")
	tw.Line(1, "Child 1")
	tw.TextBlock(2, "field", "value")
	tw.Line(1, "Child 2")

	var sb strings.Builder
	n, err := tw.WriteTo(&sb)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	want := "Root\n  Child 1\n    field: \"value\"\n  Child 2\n"
	if sb.String() != want {
		t.Errorf("WriteTo() wrote:\n%s\nwant:\n%s", sb.String(), want)
	}
	if int(n) != len(want) {
		t.Errorf("WriteTo() = %d, want %d", n, len(want))
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"hello", `"hello"`},
		{`say "hi"`, `"say \"hi\""`},
		{"col1\tcol2", `"col1\tcol2"`},
		{`path\to\file`, `"path\\to\\file"`},
	}

	for _, tt := range tests {
		if got := encodeText(tt.input); got != tt.want {
			t.Errorf("encodeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
