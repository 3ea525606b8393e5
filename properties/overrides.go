package properties

import (
	"strings"
)

// overrideProperties walks declarations right to left and marks earlier
// declarations whose effect is fully restated by later ones as unused, or
// merges later longhands into earlier shorthands.
func (e *Engine) overrideProperties(list []Declaration, rec *recorder) {
	for i := len(list) - 1; i >= 0; i-- {
		right := &list[i]
		rdesc, ok := e.descriptor(right)
		if !ok || right.Unused {
			continue
		}
		for j := i - 1; j >= 0 && !right.Unused; j-- {
			left := &list[j]
			ldesc, ok := e.descriptor(left)
			if !ok || left.Unused || left.Prefix != right.Prefix || left.Hack != right.Hack {
				continue
			}
			if left.Hack.Kind != HackNone && left.NameRoot != right.NameRoot {
				continue
			}
			e.overridePair(ldesc, rdesc, left, right, rec)
		}
	}
}

func (e *Engine) overridePair(ldesc, rdesc *Descriptor, left, right *Declaration, rec *recorder) {
	same := ldesc == rdesc
	if !same && (e.hasGlobal(right.Value) || e.hasGlobal(left.Value)) {
		return
	}

	switch {
	case same:
		e.overrideSame(ldesc, left, right, rec)
	case right.Shorthand && e.table.covers(rdesc.Name, ldesc.Name):
		e.overrideByShorthand(ldesc, left, right, rec)
	case right.Shorthand && e.table.overrides(rdesc.Name, ldesc.Name):
		if left.Important && !right.Important {
			return
		}
		left.Unused = true
		rec.add(ActionOverridden, left, right.Name)
	case left.Shorthand && e.table.covers(ldesc.Name, rdesc.Name):
		e.mergeIntoShorthand(rdesc, left, right, rec)
	}
}

// overrideSame handles two declarations of the same property.
func (e *Engine) overrideSame(desc *Descriptor, left, right *Declaration, rec *recorder) {
	if desc.Shorthand() && (e.hasGlobal(left.Value) || e.hasGlobal(right.Value)) {
		return
	}
	if !e.canOverrideDecl(desc, left, right) {
		return
	}
	if left.Important && !right.Important {
		right.Unused = true
		rec.add(ActionOverridden, right, left.Name+importantMarker)
		return
	}
	left.Unused = true
	rec.add(ActionOverridden, left, right.Name)
}

// overrideByShorthand handles longhand (or narrower shorthand) followed by
// shorthand which restates it.
func (e *Engine) overrideByShorthand(ldesc *Descriptor, left, right *Declaration, rec *recorder) {
	if left.Important && !right.Important {
		return
	}
	if right.Components == nil {
		// value could not be broken up, only system fonts are known to reset every component
		if !e.isSystemFont(right) || !e.Understandable(left.ValueString(), right.ValueString(), false) {
			return
		}
		left.Unused = true
		rec.add(ActionOverridden, left, right.Name)
		return
	}
	comp := findComponent(right, ldesc.Name)
	if comp == nil || !e.canOverrideDecl(ldesc, left, comp) {
		return
	}
	left.Unused = true
	rec.add(ActionOverridden, left, right.Name)
}

// mergeIntoShorthand handles shorthand followed by one of its components:
// the component value is pulled into the shorthand.
func (e *Engine) mergeIntoShorthand(rdesc *Descriptor, left, right *Declaration, rec *recorder) {
	if right.Important && !left.Important {
		return
	}
	if left.Important && !right.Important {
		right.Unused = true
		rec.add(ActionOverridden, right, left.Name+importantMarker)
		return
	}
	if left.Components == nil {
		return
	}
	comp := findComponent(left, rdesc.Name)
	if comp == nil {
		return
	}

	lastOnly := rdesc.MultiplexLastOnly && groupCount(right.Value) == 1 && groupCount(comp.Value) > 1
	if lastOnly {
		gs := groups(comp.Value)
		last := Declaration{NameRoot: comp.NameRoot, Value: gs[len(gs)-1]}
		if !e.canOverrideDecl(rdesc, &last, right) {
			return
		}
	} else if !e.canOverrideDecl(rdesc, comp, right) {
		return
	}

	if !e.mergeable(rdesc, right) {
		return
	}

	trial := left.Clone()
	tc := findComponent(&trial, rdesc.Name)
	if lastOnly {
		gs := groups(tc.Value)
		gs[len(gs)-1] = cloneAtoms(right.Value)
		tc.Value = joinGroups(gs)
	} else {
		tc.Value = cloneAtoms(right.Value)
		tc.Components = nil
		if right.Components != nil {
			tc.Components = right.Clone().Components
		}
	}
	restored := e.restore(&trial)
	if restored == nil {
		return
	}
	if !e.opts.AllowLonger {
		current := *left
		current.Value = e.Restore(left)
		merged := current
		merged.Value = restored
		if len(merged.String()) > len(current.String())+len(right.String())+1 {
			return
		}
	}

	trial.NamePositions = mergePositions(trial.NamePositions, right.NamePositions)
	trial.dirty = true
	*left = trial
	right.Unused = true
	rec.add(ActionMerged, right, left.Name)
}

// mergeable reports whether value may become part of a shorthand under
// current compatibility profile.
func (e *Engine) mergeable(desc *Descriptor, d *Declaration) bool {
	value := d.ValueString()
	switch desc.Name {
	case "background-clip":
		if !e.compat.Properties.BackgroundClipMerging && !desc.IsDefault(d.Value) {
			return false
		}
	case "background-origin":
		if !e.compat.Properties.BackgroundOriginMerging && !desc.IsDefault(d.Value) {
			return false
		}
	case "background-size":
		if !e.compat.Properties.BackgroundSizeMerging && !desc.IsDefault(d.Value) {
			return false
		}
	}
	if desc.NonMergeableValue != "" && strings.EqualFold(value, desc.NonMergeableValue) {
		return false
	}
	if e.hasGlobal(d.Value) {
		return false
	}
	if !e.compat.Properties.Merging && e.wouldBreakCompatibility(d) {
		return false
	}
	return true
}

// wouldBreakCompatibility reports whether value, when moved into shorthand,
// could make the whole shorthand invalid in an old browser.
func (e *Engine) wouldBreakCompatibility(d *Declaration) bool {
	for _, s := range literals(d.Value) {
		if len(e.v.VendorPrefixes(s)) > 0 || e.v.IsFunction(s) && !e.v.IsURL(s) {
			return true
		}
		if e.v.IsHexAlphaColor(s) {
			return true
		}
	}
	return false
}

func (e *Engine) hasGlobal(atoms []Atom) bool {
	for _, s := range literals(atoms) {
		if e.v.IsGlobal(s) {
			return true
		}
	}
	return false
}

// isSystemFont reports font shorthand set to a single system font keyword
// such as caption or menu.
func (e *Engine) isSystemFont(d *Declaration) bool {
	lits := literals(d.Value)
	return d.NameRoot == "font" && len(lits) == 1 && e.v.IsKeyword("font", lits[0]) && !e.v.IsGlobal(lits[0])
}

// findComponent locates component by name root anywhere in component tree.
func findComponent(d *Declaration, root string) *Declaration {
	for i := range d.Components {
		c := &d.Components[i]
		if c.NameRoot == root {
			return c
		}
		if found := findComponent(c, root); found != nil {
			return found
		}
	}
	return nil
}
