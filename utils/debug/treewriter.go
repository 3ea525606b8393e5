// Package debug renders indented trees for human inspection.
package debug

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const indent = "  "

// TreeWriter accumulates indented lines, one node per line.
type TreeWriter struct {
	sb strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.sb.String()
}

// WriteTo implements io.WriterTo.
func (tw *TreeWriter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, tw.sb.String())
	return int64(n), err
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.sb.WriteString(strings.Repeat(indent, depth))
	fmt.Fprintf(&tw.sb, format, args...)
	tw.sb.WriteByte('\n')
}

// Value writes "label: value" line, keeping value as is.
func (tw *TreeWriter) Value(depth int, label, value string) {
	tw.Line(depth, "%s: %s", label, value)
}

// TextBlock writes "label: value" line with value quoted, so whitespace and
// control characters stay visible.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.Value(depth, label, encodeText(value))
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
