package properties

import (
	"strings"
)

// Restore rebuilds shortest value of decomposed shorthand from its
// components. Declarations without components keep their value.
func (e *Engine) Restore(d *Declaration) []Atom {
	if restored := e.restore(d); restored != nil {
		return restored
	}
	return cloneAtoms(d.Value)
}

// restore returns nil when components cannot be expressed as shorthand value.
func (e *Engine) restore(d *Declaration) []Atom {
	desc, ok := e.table.Lookup(d.NameRoot)
	if !ok || d.Components == nil {
		return cloneAtoms(d.Value)
	}

	comps := make([]Declaration, len(d.Components))
	for i := range d.Components {
		comps[i] = d.Components[i]
		if comps[i].Components != nil {
			if comps[i].Value = e.restore(&comps[i]); comps[i].Value == nil {
				return nil
			}
		}
	}

	if g, ok := e.sameGlobal(comps); ok {
		return []Atom{g}
	}

	var restored []Atom
	switch desc.Family {
	case FamilyFourValues:
		restored = e.restoreFourValues(comps)
	case FamilyBorderRadius:
		restored = e.restoreBorderRadius(comps)
	case FamilyBorder, FamilyListStyle:
		restored = e.withoutDefaults(desc, comps)
	case FamilyFont:
		restored = e.restoreFont(comps)
	case FamilyBackground:
		restored = e.multiplex(desc, comps, e.restoreBackgroundLayer)
	case FamilyAnimation, FamilyTransition:
		restored = e.multiplex(desc, comps, func(desc *Descriptor, layer []Declaration, _ bool) []Atom {
			return e.withoutDefaults(desc, layer)
		})
	}
	return restored
}

// sameGlobal reports whether every component holds the same CSS-wide keyword.
func (e *Engine) sameGlobal(comps []Declaration) (Atom, bool) {
	var g Atom
	for i, c := range comps {
		if len(c.Value) != 1 || !e.v.IsGlobal(c.Value[0].Text) {
			return Atom{}, false
		}
		if i == 0 {
			g = c.Value[0].clone()
		} else if !strings.EqualFold(g.Text, c.Value[0].Text) {
			return Atom{}, false
		}
	}
	return g, len(comps) > 0
}

// collapseFour returns shortest one to four value form of four atoms.
func collapseFour(v []Atom) []Atom {
	eq := func(i, j int) bool { return strings.EqualFold(v[i].Text, v[j].Text) }
	switch {
	case eq(0, 1) && eq(0, 2) && eq(0, 3):
		return []Atom{v[0]}
	case eq(0, 2) && eq(1, 3):
		return []Atom{v[0], v[1]}
	case eq(1, 3):
		return []Atom{v[0], v[1], v[2]}
	}
	return []Atom{v[0], v[1], v[2], v[3]}
}

func (e *Engine) restoreFourValues(comps []Declaration) []Atom {
	values := make([]Atom, 0, 4)
	for _, c := range comps {
		if len(c.Value) != 1 || c.Value[0].Kind != AtomLiteral {
			return nil
		}
		values = append(values, c.Value[0].clone())
	}
	return collapseFour(values)
}

func (e *Engine) restoreBorderRadius(comps []Declaration) []Atom {
	h := make([]Atom, 0, 4)
	v := make([]Atom, 0, 4)
	for _, c := range comps {
		switch len(c.Value) {
		case 1:
			h = append(h, c.Value[0].clone())
			v = append(v, c.Value[0].clone())
		case 2:
			h = append(h, c.Value[0].clone())
			v = append(v, c.Value[1].clone())
		default:
			return nil
		}
	}
	hr, vr := collapseFour(h), collapseFour(v)
	if sameAtoms(hr, vr) {
		return hr
	}
	return append(append(hr, Slash()), vr...)
}

// withoutDefaults keeps non default components in order. When every
// component is default the shorthand default value is used.
func (e *Engine) withoutDefaults(desc *Descriptor, comps []Declaration) []Atom {
	var out []Atom
	for i := range comps {
		cd, ok := e.table.Lookup(comps[i].NameRoot)
		if !ok {
			return nil
		}
		if cd.Shorthand() && len(literals(comps[i].Value)) != 1 {
			// nested shorthand must fit into single slot
			return nil
		}
		if e.isDefaultComponent(cd, &comps[i]) && !e.keepDefault(cd, comps) {
			continue
		}
		out = append(out, cloneAtoms(comps[i].Value)...)
	}
	if len(out) == 0 {
		out = desc.defaultAtoms()
	}
	return out
}

func (e *Engine) isDefaultComponent(cd *Descriptor, c *Declaration) bool {
	if cd.Shorthand() {
		first := e.table.byName[cd.Components[0]]
		return first.IsDefault(c.Value)
	}
	return cd.IsDefault(c.Value)
}

func (e *Engine) keepDefault(cd *Descriptor, comps []Declaration) bool {
	if cd.KeepUnlessDefault == "" {
		return false
	}
	for i := range comps {
		if comps[i].NameRoot == cd.KeepUnlessDefault {
			other := e.table.byName[cd.KeepUnlessDefault]
			return !other.IsDefault(comps[i].Value)
		}
	}
	return false
}

func (e *Engine) restoreFont(comps []Declaration) []Atom {
	var out []Atom
	for i := range 4 {
		cd := e.table.byName[comps[i].NameRoot]
		if !cd.IsDefault(comps[i].Value) {
			out = append(out, cloneAtoms(comps[i].Value)...)
		}
	}
	out = append(out, cloneAtoms(comps[4].Value)...)
	if lh := e.table.byName[comps[5].NameRoot]; !lh.IsDefault(comps[5].Value) {
		out = append(append(out, Slash()), cloneAtoms(comps[5].Value)...)
	}
	if family := e.table.byName[comps[6].NameRoot]; family.IsDefault(comps[6].Value) {
		return nil
	}
	return append(out, cloneAtoms(comps[6].Value)...)
}

type layerRestorer func(desc *Descriptor, layer []Declaration, last bool) []Atom

// multiplex splits components into layers, restores each layer and joins
// them back with commas.
func (e *Engine) multiplex(desc *Descriptor, comps []Declaration, restore layerRestorer) []Atom {
	count := groupCount(comps[0].Value)
	split := make([][][]Atom, len(comps))
	for i := range comps {
		split[i] = groups(comps[i].Value)
		if len(split[i]) != count {
			cd := e.table.byName[comps[i].NameRoot]
			if !cd.MultiplexLastOnly || len(split[i]) != 1 {
				return nil
			}
			// last layer only value, earlier layers get defaults
			padded := make([][]Atom, count)
			for j := range count - 1 {
				padded[j] = cd.defaultAtoms()
			}
			padded[count-1] = split[i][0]
			split[i] = padded
		}
	}

	var out []Atom
	for layer := range count {
		lc := make([]Declaration, len(comps))
		for i := range comps {
			lc[i] = comps[i]
			lc[i].Value = split[i][layer]
			lc[i].Components = nil
		}
		restored := restore(desc, lc, layer == count-1)
		if restored == nil {
			return nil
		}
		if layer > 0 {
			out = append(out, Comma())
		}
		out = append(out, restored...)
	}
	return out
}

func (e *Engine) restoreBackgroundLayer(desc *Descriptor, layer []Declaration, last bool) []Atom {
	image, position, size, repeat := &layer[0], &layer[1], &layer[2], &layer[3]
	attachment, origin, clip, color := &layer[4], &layer[5], &layer[6], &layer[7]
	isDefault := func(c *Declaration) bool {
		return e.table.byName[c.NameRoot].IsDefault(c.Value)
	}

	var out []Atom
	if last && !isDefault(color) {
		out = append(out, cloneAtoms(color.Value)...)
	}
	if !isDefault(image) {
		out = append(out, cloneAtoms(image.Value)...)
	}
	switch {
	case !isDefault(size):
		out = append(out, cloneAtoms(position.Value)...)
		out = append(out, Slash())
		out = append(out, cloneAtoms(size.Value)...)
	case !isDefault(position):
		out = append(out, cloneAtoms(position.Value)...)
	}
	if !isDefault(repeat) {
		out = append(out, cloneAtoms(repeat.Value)...)
	}
	if !isDefault(attachment) {
		out = append(out, cloneAtoms(attachment.Value)...)
	}
	switch {
	case sameAtoms(origin.Value, clip.Value):
		out = append(out, cloneAtoms(origin.Value)...)
	case !isDefault(origin) || !isDefault(clip):
		out = append(out, cloneAtoms(origin.Value)...)
		out = append(out, cloneAtoms(clip.Value)...)
	}
	if len(out) == 0 {
		out = desc.defaultAtoms()
	}
	return out
}
