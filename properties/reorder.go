package properties

import (
	"strings"
)

// Specificity of a selector as (ids, classes, elements).
type Specificity [3]int

// Compare returns -1, 0 or 1.
func (s Specificity) Compare(o Specificity) int {
	for i := range s {
		switch {
		case s[i] < o[i]:
			return -1
		case s[i] > o[i]:
			return 1
		}
	}
	return 0
}

// Placed is a declaration together with selector of the rule owning it.
type Placed struct {
	Declaration
	Selector    string
	Specificity Specificity
}

// CanReorder reports whether two declaration lists coming from different
// rules may swap their relative order without changing cascade result.
func (e *Engine) CanReorder(l, r []Placed) bool {
	for i := len(r) - 1; i >= 0; i-- {
		for j := len(l) - 1; j >= 0; j-- {
			if !e.CanReorderSingle(l[j], r[i]) {
				return false
			}
		}
	}
	return true
}

// isFlexish matches flexbox properties whose legacy and modern forms
// interact in ways descriptors do not describe.
func isFlexish(root string) bool {
	if root == "order" {
		return true
	}
	for _, s := range []string{"flex", "justify", "align-items", "align-content", "align-self", "box-align", "box-pack"} {
		if strings.Contains(root, s) {
			return true
		}
	}
	return false
}

// CanReorderSingle is CanReorder for two single declarations.
func (e *Engine) CanReorderSingle(l, r Placed) bool {
	if l.Unused || r.Unused {
		return true
	}
	ln, rn := l.NameRoot, r.NameRoot

	if isFlexish(ln) && isFlexish(rn) {
		return false
	}
	related := e.table.related(ln, rn)
	if related && l.Prefix != r.Prefix && (l.Prefix == "" || r.Prefix == "") {
		return false
	}
	if !related || l.Prefix != r.Prefix {
		return true
	}

	if l.Property() == r.Property() {
		switch {
		case sameAtoms(l.Value, r.Value) && l.Important == r.Important && l.Hack == r.Hack:
			return true
		case l.Important != r.Important:
			return true
		case l.Specificity != r.Specificity && l.Selector != r.Selector:
			return true
		}
		return false
	}

	if l.Important != r.Important {
		return true
	}
	return e.sameEffect(&l.Declaration, &r.Declaration)
}

// sameEffect reports whether every longhand touched by both declarations
// gets the same value from each of them.
func (e *Engine) sameEffect(a, b *Declaration) bool {
	va, ok := e.leafValues(a)
	if !ok {
		return false
	}
	vb, ok := e.leafValues(b)
	if !ok {
		return false
	}
	for name, x := range va {
		if y, ok := vb[name]; ok && !sameAtoms(x, y) {
			return false
		}
	}
	return true
}

func (e *Engine) leafValues(d *Declaration) (map[string][]Atom, bool) {
	out := make(map[string][]Atom)
	desc, ok := e.table.Lookup(d.NameRoot)
	if !ok || !desc.Shorthand() {
		out[d.NameRoot] = d.Value
		return out, true
	}
	comps := d.Components
	if comps == nil {
		var err error
		if comps, err = e.BreakUp(d); err != nil {
			return nil, false
		}
	}
	var collect func(cs []Declaration)
	collect = func(cs []Declaration) {
		for i := range cs {
			if cs[i].Components != nil {
				collect(cs[i].Components)
				continue
			}
			out[cs[i].NameRoot] = cs[i].Value
		}
	}
	collect(comps)
	return out, true
}
