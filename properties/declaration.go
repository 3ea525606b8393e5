package properties

import (
	"fmt"
	"slices"
	"strings"
)

// Position locates a piece of source text.
type Position struct {
	Line   int
	Column int
	Source string
}

func (p Position) String() string {
	if p.Source != "" {
		return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// AtomKind distinguishes real value atoms from list separators.
type AtomKind uint8

const (
	AtomLiteral AtomKind = iota
	AtomComma
	AtomSlash
)

// Atom is smallest unit of a property value: a keyword, number, color,
// function call or a separator.
type Atom struct {
	Kind      AtomKind
	Text      string
	Positions []Position
}

// Literal makes literal value atom.
func Literal(text string, positions ...Position) Atom {
	return Atom{Kind: AtomLiteral, Text: text, Positions: positions}
}

// Comma makes comma separator atom.
func Comma() Atom { return Atom{Kind: AtomComma, Text: ","} }

// Slash makes slash separator atom.
func Slash() Atom { return Atom{Kind: AtomSlash, Text: "/"} }

// IsSeparator reports whether atom is a comma or slash.
func (a Atom) IsSeparator() bool {
	return a.Kind != AtomLiteral
}

func (a Atom) clone() Atom {
	a.Positions = slices.Clone(a.Positions)
	return a
}

// HackKind enumerates legacy browser targeting hacks.
type HackKind uint8

const (
	HackNone       HackKind = iota
	HackUnderscore          // _name
	HackAsterisk            // *name
	HackBackslash           // value\9
	HackBang                // value !ie
)

func (k HackKind) String() string {
	switch k {
	case HackUnderscore:
		return "underscore"
	case HackAsterisk:
		return "asterisk"
	case HackBackslash:
		return "backslash"
	case HackBang:
		return "bang"
	}
	return "none"
}

// Hack records which hack a declaration uses. Suffix holds text of a
// value suffix hack (for example "\9") which has to be written back.
type Hack struct {
	Kind   HackKind
	Suffix string
}

// Declaration is one "name: value" pair of a rule body together with
// optimization state.
type Declaration struct {
	Name          string // as written, hack prefix included
	NameRoot      string // lowercase name without hack and vendor prefix
	Prefix        string // vendor prefix of the name, "-webkit-" for example
	NamePositions []Position
	Value         []Atom
	Important     bool
	Hack          Hack
	Block         bool          // opaque nested block (custom property set)
	Nested        []Declaration // declarations of a block value
	Unused        bool

	Shorthand  bool
	Multiplex  bool
	Components []Declaration

	dirty bool
}

// Property returns lowercase name without hack prefix, vendor prefix kept.
func (d *Declaration) Property() string {
	return d.Prefix + d.NameRoot
}

// IsDirty reports whether value has to be restored from components.
func (d *Declaration) IsDirty() bool {
	return d.dirty
}

// Clone makes deep copy of the declaration.
func (d Declaration) Clone() Declaration {
	c := d
	c.NamePositions = slices.Clone(d.NamePositions)
	c.Value = cloneAtoms(d.Value)
	if d.Nested != nil {
		c.Nested = make([]Declaration, len(d.Nested))
		for i := range d.Nested {
			c.Nested[i] = d.Nested[i].Clone()
		}
	}
	if d.Components != nil {
		c.Components = make([]Declaration, len(d.Components))
		for i := range d.Components {
			c.Components[i] = d.Components[i].Clone()
		}
	}
	return c
}

func cloneAtoms(atoms []Atom) []Atom {
	if atoms == nil {
		return nil
	}
	out := make([]Atom, len(atoms))
	for i, a := range atoms {
		out[i] = a.clone()
	}
	return out
}

// ValueString serializes value without importance or hack suffix.
func (d *Declaration) ValueString() string {
	return JoinAtoms(d.Value)
}

// String serializes declaration in compact form without trailing semicolon.
func (d *Declaration) String() string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	sb.WriteByte(':')
	if d.Block {
		sb.WriteByte('{')
		for i := range d.Nested {
			if d.Nested[i].Unused {
				continue
			}
			sb.WriteString(d.Nested[i].String())
			sb.WriteByte(';')
		}
		sb.WriteByte('}')
	} else {
		sb.WriteString(JoinAtoms(d.Value))
	}
	switch d.Hack.Kind {
	case HackBackslash:
		sb.WriteString(d.Hack.Suffix)
	case HackBang:
		sb.WriteString(" " + d.Hack.Suffix)
	}
	if d.Important {
		sb.WriteString("!important")
	}
	return sb.String()
}

// JoinAtoms serializes atoms, literals separated by single space and
// separators written tight.
func JoinAtoms(atoms []Atom) string {
	var sb strings.Builder
	for i, a := range atoms {
		if i > 0 && a.Kind == AtomLiteral && atoms[i-1].Kind == AtomLiteral {
			sb.WriteByte(' ')
		}
		sb.WriteString(a.Text)
	}
	return sb.String()
}

// groups splits atoms on top level commas.
func groups(atoms []Atom) [][]Atom {
	out := [][]Atom{{}}
	for _, a := range atoms {
		if a.Kind == AtomComma {
			out = append(out, []Atom{})
			continue
		}
		out[len(out)-1] = append(out[len(out)-1], a)
	}
	return out
}

// groupCount returns number of comma separated groups.
func groupCount(atoms []Atom) int {
	n := 1
	for _, a := range atoms {
		if a.Kind == AtomComma {
			n++
		}
	}
	return n
}

func joinGroups(gs [][]Atom) []Atom {
	var out []Atom
	for i, g := range gs {
		if i > 0 {
			out = append(out, Comma())
		}
		out = append(out, g...)
	}
	return out
}

// literals returns text of all literal atoms.
func literals(atoms []Atom) []string {
	out := make([]string, 0, len(atoms))
	for _, a := range atoms {
		if a.Kind == AtomLiteral {
			out = append(out, a.Text)
		}
	}
	return out
}

func hasSeparator(atoms []Atom, kind AtomKind) bool {
	return slices.ContainsFunc(atoms, func(a Atom) bool { return a.Kind == kind })
}

func sameAtoms(a, b []Atom) bool {
	return slices.EqualFunc(a, b, func(x, y Atom) bool {
		return x.Kind == y.Kind && strings.EqualFold(x.Text, y.Text)
	})
}

func mergePositions(dst []Position, src ...[]Position) []Position {
	for _, s := range src {
		for _, p := range s {
			if !slices.Contains(dst, p) {
				dst = append(dst, p)
			}
		}
	}
	return dst
}

// Live returns declarations not marked unused.
func Live(decls []Declaration) []Declaration {
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		if d.Unused {
			continue
		}
		if d.Block {
			d.Nested = Live(d.Nested)
		}
		out = append(out, d)
	}
	return out
}
