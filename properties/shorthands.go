package properties

import (
	"slices"
	"strings"
)

type candidates struct {
	desc    *Descriptor
	prefix  string
	members map[string]int // component root -> declaration index
}

func (c *candidates) last() int {
	last := -1
	for _, i := range c.members {
		last = max(last, i)
	}
	return last
}

// mergeIntoShorthands replaces complete sets of longhands with shorthands.
// Passes repeat so that freshly made shorthands may be folded further, for
// example border-width, border-style and border-color into border.
func (e *Engine) mergeIntoShorthands(list []Declaration, rec *recorder) []Declaration {
	for {
		next, changed := e.mergePass(list, rec)
		list = next
		if !changed {
			return list
		}
	}
}

func (e *Engine) mergePass(list []Declaration, rec *recorder) ([]Declaration, bool) {
	e.restoreDirty(list)
	sets := make(map[string]*candidates)

	for i := range list {
		d := &list[i]
		desc, ok := e.descriptor(d)
		if !ok || d.Unused {
			continue
		}
		e.invalidate(sets, d)
		if d.Hack.Kind != HackNone {
			continue
		}
		for _, name := range desc.ComponentOf {
			key := d.Prefix + name
			set, ok := sets[key]
			if !ok {
				set = &candidates{desc: e.table.byName[name], prefix: d.Prefix, members: make(map[string]int)}
				sets[key] = set
			}
			set.members[d.NameRoot] = i
		}
	}

	var complete []*candidates
	for _, set := range sets {
		if len(set.members) == len(set.desc.Components) {
			complete = append(complete, set)
		}
	}
	slices.SortFunc(complete, func(a, b *candidates) int {
		if d := a.last() - b.last(); d != 0 {
			return d
		}
		return strings.Compare(a.desc.Name, b.desc.Name)
	})

	inserts := make(map[int]Declaration)
	for _, set := range complete {
		at := set.last()
		if _, taken := inserts[at]; taken {
			continue
		}
		if d, ok := e.fold(list, set, rec); ok {
			inserts[at] = d
		}
	}
	if len(inserts) == 0 {
		return list, false
	}

	out := make([]Declaration, 0, len(list)+len(inserts))
	for i := range list {
		out = append(out, list[i])
		if d, ok := inserts[i]; ok {
			out = append(out, d)
		}
	}
	return out, true
}

// invalidate drops candidate sets which declaration d breaks: a shorthand
// of the same family, or a declaration touching the same longhands without
// being a direct member.
func (e *Engine) invalidate(sets map[string]*candidates, d *Declaration) {
	for key, set := range sets {
		if set.prefix != d.Prefix {
			continue
		}
		name := set.desc.Name
		switch {
		case d.NameRoot == name:
			delete(sets, key)
		case d.Hack.Kind != HackNone && e.table.related(name, d.NameRoot):
			delete(sets, key)
		case e.table.related(name, d.NameRoot) && !slices.Contains(set.desc.Components, d.NameRoot):
			delete(sets, key)
		}
	}
}

// fold builds shorthand from complete candidate set, marking members unused.
func (e *Engine) fold(list []Declaration, set *candidates, rec *recorder) (Declaration, bool) {
	desc := set.desc
	members := make([]*Declaration, 0, len(desc.Components))
	for _, name := range desc.Components {
		m := &list[set.members[name]]
		if m.Unused {
			return Declaration{}, false
		}
		members = append(members, m)
	}

	for _, m := range members[1:] {
		if m.Important != members[0].Important {
			return Declaration{}, false
		}
	}

	nd := Declaration{
		Name:      set.prefix + desc.Name,
		NameRoot:  desc.Name,
		Prefix:    set.prefix,
		Important: members[0].Important,
		Shorthand: true,
	}
	for _, m := range members {
		nd.NamePositions = mergePositions(nd.NamePositions, m.NamePositions)
	}

	if value, ok := e.sameGlobalValue(members); ok {
		nd.Value = []Atom{value}
		nd.Shorthand = false
	} else {
		if !e.foldable(desc, members) {
			return Declaration{}, false
		}
		nd.Multiplex = desc.Family.Multiplexed() && groupCount(members[0].Value) > 1
		nd.Components = make([]Declaration, len(members))
		for i, m := range members {
			c := m.Clone()
			c.Unused = false
			c.dirty = false
			nd.Components[i] = c
		}
		restored := e.restore(&nd)
		if restored == nil {
			return Declaration{}, false
		}
		nd.Value = restored
	}

	if !e.opts.AllowLonger {
		total := len(members) - 1
		for _, m := range members {
			total += len(m.String())
		}
		if len(nd.String()) > total {
			return Declaration{}, false
		}
	}

	for _, m := range members {
		m.Unused = true
		rec.add(ActionFolded, m, nd.Name)
	}
	return nd, true
}

// sameGlobalValue reports whether all members hold the same CSS-wide keyword.
func (e *Engine) sameGlobalValue(members []*Declaration) (Atom, bool) {
	comps := make([]Declaration, len(members))
	for i, m := range members {
		comps[i] = *m
	}
	return e.sameGlobal(comps)
}

// foldable checks that every member may replace the default component of
// a freshly made shorthand and that layers line up.
func (e *Engine) foldable(desc *Descriptor, members []*Declaration) bool {
	layers := 1
	if desc.Family.Multiplexed() {
		layers = groupCount(members[0].Value)
	}
	for _, m := range members {
		cd := e.table.byName[m.NameRoot]
		if e.hasGlobal(m.Value) || !e.mergeable(cd, m) {
			return false
		}
		if n := groupCount(m.Value); n != layers && !(cd.MultiplexLastOnly && n == 1) {
			return false
		}
		if cd.Shorthand() {
			if m.Components == nil || len(literals(e.Restore(m))) != 1 {
				return false
			}
		}

		kind, def := cd.Override, cd.defaultAtoms()
		if cd.Shorthand() {
			first := e.table.byName[cd.Components[0]]
			kind, def = first.Override, first.defaultAtoms()
		}
		n := groupCount(m.Value)
		dl := make([][]Atom, n)
		for i := range dl {
			dl[i] = def
		}
		if !e.valuesPairOK(kind, cd.Name, joinGroups(dl), m.Value) {
			return false
		}
	}
	return true
}
