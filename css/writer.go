package css

import (
	"io"
	"strings"

	"cssopt/properties"
)

// writer accumulates byte count and first error so callers can write
// without checking every call.
type writer struct {
	w      io.Writer
	pretty bool
	n      int64
	err    error
}

func (w *writer) str(s string) {
	if w.err != nil {
		return
	}
	n, err := io.WriteString(w.w, s)
	w.n += int64(n)
	w.err = err
}

func (w *writer) indent(depth int) {
	if w.pretty {
		w.str(strings.Repeat("  ", depth))
	}
}

func (w *writer) newline() {
	if w.pretty {
		w.str("\n")
	}
}

// WriteTo writes stylesheet in compact form, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	out := &writer{w: w}
	out.items(s.Items, 0)
	return out.n, out.err
}

// WritePretty writes stylesheet indented, one declaration per line.
func (s *Stylesheet) WritePretty(w io.Writer) (int64, error) {
	out := &writer{w: w, pretty: true}
	out.items(s.Items, 0)
	return out.n, out.err
}

// String returns compact CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func (w *writer) items(items []Item, depth int) {
	for i, item := range items {
		if i > 0 && w.pretty && depth == 0 {
			w.str("\n")
		}
		switch {
		case item.Rule != nil:
			w.rule(item.Rule, depth)
		case item.Block != nil:
			w.block(item.Block, depth)
		case item.AtRule != nil:
			w.indent(depth)
			w.str(item.AtRule.Name)
			if item.AtRule.Prelude != "" {
				w.str(" " + item.AtRule.Prelude)
			}
			w.str(";")
			w.newline()
		case item.Comment != "":
			w.indent(depth)
			w.str(item.Comment)
			w.newline()
		}
	}
}

func (w *writer) rule(r *Rule, depth int) {
	w.indent(depth)
	if w.pretty {
		w.str(strings.Join(r.Selectors, ",\n"+strings.Repeat("  ", depth)))
		w.str(" ")
	} else {
		w.str(r.SelectorText())
	}
	w.body(r.Declarations, depth)
}

func (w *writer) block(b *Block, depth int) {
	w.indent(depth)
	w.str(b.Name)
	if b.Prelude != "" {
		w.str(" " + b.Prelude)
	}
	if w.pretty {
		w.str(" ")
	}
	if b.HoldsDeclarations() {
		w.body(b.Declarations, depth)
		return
	}
	w.str("{")
	w.newline()
	w.items(b.Items, depth+1)
	w.indent(depth)
	w.str("}")
	w.newline()
}

func (w *writer) body(decls []properties.Declaration, depth int) {
	w.str("{")
	w.newline()
	first := true
	for i := range decls {
		d := &decls[i]
		if d.Unused {
			continue
		}
		if !first && !w.pretty {
			w.str(";")
		}
		first = false
		w.indent(depth + 1)
		text := d.String()
		if w.pretty {
			text = d.Name + ": " + strings.TrimPrefix(text, d.Name+":") + ";"
		}
		w.str(text)
		w.newline()
	}
	w.indent(depth)
	w.str("}")
	w.newline()
}
