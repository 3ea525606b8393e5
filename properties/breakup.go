package properties

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrNotDecomposable is returned when shorthand value cannot be broken into
// components. Such declarations are kept as they are.
var ErrNotDecomposable = errors.New("value is not decomposable")

func notDecomposable(d *Declaration, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrNotDecomposable, d.Name, fmt.Sprintf(format, args...))
}

// BreakUp decomposes shorthand declaration into its component declarations,
// in descriptor order. Components of shorthand components are decomposed as
// well. Missing components get default values.
func (e *Engine) BreakUp(d *Declaration) ([]Declaration, error) {
	desc, ok := e.table.Lookup(d.NameRoot)
	if !ok || !desc.Shorthand() {
		return nil, notDecomposable(d, "not a shorthand")
	}
	lits := literals(d.Value)
	if len(lits) == 0 {
		return nil, notDecomposable(d, "empty value")
	}
	for _, s := range lits {
		if e.v.IsGlobal(s) {
			return nil, notDecomposable(d, "global keyword %q", s)
		}
		if strings.Contains(strings.ToLower(s), "var(") {
			return nil, notDecomposable(d, "variable reference")
		}
	}

	var layers [][]Atom
	if desc.Family.Multiplexed() {
		layers = groups(d.Value)
	} else {
		if desc.Family != FamilyFont && hasSeparator(d.Value, AtomComma) {
			return nil, notDecomposable(d, "unexpected comma")
		}
		layers = [][]Atom{d.Value}
	}

	var result []Declaration
	for li, layer := range layers {
		if len(layer) == 0 {
			return nil, notDecomposable(d, "empty layer")
		}
		comps := e.defaults(d, desc)
		var err error
		switch desc.Family {
		case FamilyFourValues:
			err = e.breakUpFourValues(d, layer, comps)
		case FamilyBorderRadius:
			err = e.breakUpBorderRadius(d, layer, comps)
		case FamilyBorder:
			err = e.breakUpBorder(d, layer, comps)
		case FamilyBackground:
			err = e.breakUpBackground(d, layer, comps, li == len(layers)-1)
		case FamilyFont:
			err = e.breakUpFont(d, layer, comps)
		case FamilyListStyle:
			err = e.breakUpListStyle(d, layer, comps)
		case FamilyAnimation:
			err = e.breakUpAnimation(d, layer, comps)
		case FamilyTransition:
			err = e.breakUpTransition(d, layer, comps)
		default:
			err = notDecomposable(d, "no decomposition for %s family", desc.Family)
		}
		if err != nil {
			return nil, err
		}
		if li == 0 {
			result = comps
			continue
		}
		for i := range result {
			result[i].Value = append(append(result[i].Value, Comma()), comps[i].Value...)
			result[i].Multiplex = true
		}
	}

	for i := range result {
		c := &result[i]
		cd, ok := e.table.Lookup(c.NameRoot)
		if !ok || !cd.Shorthand() {
			continue
		}
		nested, err := e.BreakUp(c)
		if err != nil {
			return nil, err
		}
		c.Shorthand = true
		c.Components = nested
	}
	return result, nil
}

// defaults returns components of shorthand with initial values.
func (e *Engine) defaults(parent *Declaration, desc *Descriptor) []Declaration {
	comps := make([]Declaration, 0, len(desc.Components))
	for _, name := range desc.Components {
		comps = append(comps, e.component(parent, name))
	}
	return comps
}

func (e *Engine) component(parent *Declaration, root string) Declaration {
	c := Declaration{
		Name:          parent.Prefix + root,
		NameRoot:      root,
		Prefix:        parent.Prefix,
		NamePositions: slices.Clone(parent.NamePositions),
		Important:     parent.Important,
		Hack:          parent.Hack,
	}
	if cd, ok := e.table.Lookup(root); ok {
		if cd.Shorthand() {
			// initial value of nested shorthand is its single component default
			c.Value = e.table.byName[cd.Components[0]].defaultAtoms()
		} else {
			c.Value = cd.defaultAtoms()
		}
	}
	return c
}

func (e *Engine) breakUpFourValues(d *Declaration, atoms []Atom, comps []Declaration) error {
	if hasSeparator(atoms, AtomSlash) || len(atoms) > 4 {
		return notDecomposable(d, "expected up to four values")
	}
	for i, a := range expandFour(atoms) {
		comps[i].Value = []Atom{a.clone()}
	}
	return nil
}

// expandFour maps one to four values onto top right bottom left.
func expandFour(atoms []Atom) []Atom {
	switch len(atoms) {
	case 1:
		return []Atom{atoms[0], atoms[0], atoms[0], atoms[0]}
	case 2:
		return []Atom{atoms[0], atoms[1], atoms[0], atoms[1]}
	case 3:
		return []Atom{atoms[0], atoms[1], atoms[2], atoms[1]}
	}
	return atoms[:4]
}

func (e *Engine) breakUpBorderRadius(d *Declaration, atoms []Atom, comps []Declaration) error {
	horizontal, vertical := atoms, atoms
	if i := slices.IndexFunc(atoms, func(a Atom) bool { return a.Kind == AtomSlash }); i >= 0 {
		horizontal, vertical = atoms[:i], atoms[i+1:]
	}
	if len(horizontal) == 0 || len(horizontal) > 4 || len(vertical) == 0 || len(vertical) > 4 || hasSeparator(vertical, AtomSlash) {
		return notDecomposable(d, "malformed radii")
	}
	h, v := expandFour(horizontal), expandFour(vertical)
	for i := range comps {
		if strings.EqualFold(h[i].Text, v[i].Text) {
			comps[i].Value = []Atom{h[i].clone()}
		} else {
			comps[i].Value = []Atom{h[i].clone(), v[i].clone()}
		}
	}
	return nil
}

// breakUpBorder handles width style color triples of border and outline.
func (e *Engine) breakUpBorder(d *Declaration, atoms []Atom, comps []Declaration) error {
	if len(atoms) > 3 || hasSeparator(atoms, AtomSlash) {
		return notDecomposable(d, "expected up to three values")
	}
	var set [3]bool
	for _, a := range atoms {
		slot := -1
		switch {
		case e.v.IsWidth(a.Text):
			slot = 0
		case e.v.IsStyleKeyword(a.Text) || e.v.IsKeyword(comps[1].NameRoot, a.Text):
			slot = 1
		case e.v.IsColor(a.Text):
			slot = 2
		}
		if slot < 0 || set[slot] {
			return notDecomposable(d, "unexpected %q", a.Text)
		}
		set[slot] = true
		comps[slot].Value = []Atom{a.clone()}
	}
	return nil
}

func (e *Engine) isDynamicUnit(s string) bool {
	switch e.v.FunctionName(s) {
	case "calc", "min", "max", "clamp", "-webkit-calc", "-moz-calc":
		return true
	}
	return false
}

func (e *Engine) breakUpBackground(d *Declaration, atoms []Atom, comps []Declaration, last bool) error {
	image, position, size, repeat := &comps[0], &comps[1], &comps[2], &comps[3]
	attachment, origin, clip, color := &comps[4], &comps[5], &comps[6], &comps[7]

	lits := literals(atoms)
	if len(lits) == 2 && lits[0] == "0" && lits[1] == "0" && len(atoms) == 2 {
		return nil
	}

	positional := func(s string) bool {
		return e.v.IsKeyword("background-position", s) || e.v.IsUnit(s) || e.isDynamicUnit(s)
	}
	sizing := func(s string) bool {
		return e.v.IsKeyword("background-size", s) || e.v.IsUnit(s) || e.isDynamicUnit(s)
	}

	var positionSet, repeatSet, clipSet, originSet, colorSet bool
	for i := len(atoms) - 1; i >= 0; i-- {
		a := atoms[i]
		if a.Kind != AtomLiteral {
			return notDecomposable(d, "misplaced separator")
		}
		s := a.Text
		switch {
		case e.v.IsKeyword("background-attachment", s):
			attachment.Value = []Atom{a.clone()}
		case e.v.IsKeyword("background-clip", s) || e.v.IsKeyword("background-origin", s):
			if clipSet {
				if originSet {
					return notDecomposable(d, "too many boxes")
				}
				origin.Value = []Atom{a.clone()}
				originSet = true
			} else {
				clip.Value = []Atom{a.clone()}
				clipSet = true
			}
		case e.v.IsKeyword("background-repeat", s):
			if repeatSet {
				repeat.Value = append([]Atom{a.clone()}, repeat.Value...)
			} else {
				repeat.Value = []Atom{a.clone()}
				repeatSet = true
			}
		case i > 0 && atoms[i-1].Kind == AtomSlash && sizing(s):
			size.Value = []Atom{a.clone()}
			i--
		case i > 1 && atoms[i-2].Kind == AtomSlash && sizing(s) && sizing(atoms[i-1].Text):
			size.Value = []Atom{atoms[i-1].clone(), a.clone()}
			i -= 2
		case positional(s):
			if !positionSet {
				position.Value = nil
				positionSet = true
			}
			position.Value = append([]Atom{a.clone()}, position.Value...)
		case e.v.IsImage(s):
			image.Value = []Atom{a.clone()}
		case e.v.IsColor(s) && !colorSet:
			if !last {
				return notDecomposable(d, "color allowed in final layer only")
			}
			color.Value = []Atom{a.clone()}
			colorSet = true
		default:
			return notDecomposable(d, "unexpected %q", s)
		}
	}
	if len(position.Value) > 4 || len(repeat.Value) > 2 {
		return notDecomposable(d, "too many values")
	}
	if clipSet && !originSet {
		origin.Value = cloneAtoms(clip.Value)
	}
	return nil
}

func (e *Engine) breakUpFont(d *Declaration, atoms []Atom, comps []Declaration) error {
	style, variant, weight, stretch := &comps[0], &comps[1], &comps[2], &comps[3]
	size, height, family := &comps[4], &comps[5], &comps[6]

	if len(atoms) < 2 {
		return notDecomposable(d, "system font or incomplete value")
	}

	index := 0
	var styleSet, variantSet, weightSet, stretchSet bool
fuzzy:
	for ; index < 4 && index < len(atoms); index++ {
		a := atoms[index]
		if a.Kind != AtomLiteral {
			return notDecomposable(d, "misplaced separator")
		}
		isStyle := e.v.IsKeyword("font-style", a.Text)
		isVariant := e.v.IsKeyword("font-variant", a.Text)
		isWeight := e.v.IsKeyword("font-weight", a.Text)
		isStretch := e.v.IsKeyword("font-stretch", a.Text)
		switch {
		case isStyle && !styleSet:
			style.Value, styleSet = []Atom{a.clone()}, true
		case isVariant && !variantSet:
			variant.Value, variantSet = []Atom{a.clone()}, true
		case isWeight && !weightSet:
			weight.Value, weightSet = []Atom{a.clone()}, true
		case isStretch && !stretchSet:
			stretch.Value, stretchSet = []Atom{a.clone()}, true
		case isStyle || isVariant || isWeight || isStretch:
			return notDecomposable(d, "repeated %q", a.Text)
		default:
			break fuzzy
		}
	}
	if index >= len(atoms) {
		return notDecomposable(d, "missing font size")
	}
	if a := atoms[index]; a.Kind == AtomLiteral && (e.v.IsKeyword("font-size", a.Text) || e.v.IsUnit(a.Text)) {
		size.Value = []Atom{a.clone()}
		index++
	} else {
		return notDecomposable(d, "invalid font size %q", a.Text)
	}

	if index+1 < len(atoms) && atoms[index].Kind == AtomSlash {
		lh := atoms[index+1]
		if lh.Kind != AtomLiteral || !(e.v.IsKeyword("line-height", lh.Text) || e.v.IsUnit(lh.Text) || e.v.IsNumber(lh.Text)) {
			return notDecomposable(d, "invalid line height")
		}
		height.Value = []Atom{lh.clone()}
		index += 2
	}

	rest := atoms[index:]
	if len(rest) == 0 || hasSeparator(rest, AtomSlash) || rest[0].Kind != AtomLiteral || rest[len(rest)-1].Kind != AtomLiteral {
		return notDecomposable(d, "missing font family")
	}
	family.Value = cloneAtoms(rest)
	return nil
}

func (e *Engine) breakUpListStyle(d *Declaration, atoms []Atom, comps []Declaration) error {
	typ, position, image := &comps[0], &comps[1], &comps[2]
	if hasSeparator(atoms, AtomSlash) || len(atoms) > 3 {
		return notDecomposable(d, "expected up to three values")
	}

	rest := cloneAtoms(atoms)
	if i := slices.IndexFunc(rest, func(a Atom) bool { return e.v.IsURL(a.Text) || e.v.IsImage(a.Text) && !strings.EqualFold(a.Text, "none") }); i >= 0 {
		image.Value = []Atom{rest[i]}
		rest = slices.Delete(rest, i, i+1)
	}
	if i := slices.IndexFunc(rest, func(a Atom) bool { return e.v.IsKeyword("list-style-position", a.Text) }); i >= 0 {
		position.Value = []Atom{rest[i]}
		rest = slices.Delete(rest, i, i+1)
	}
	switch len(rest) {
	case 0:
	case 1:
		if !e.v.IsKeyword("list-style-type", rest[0].Text) && !e.v.IsIdentifier(rest[0].Text) {
			return notDecomposable(d, "invalid list style type %q", rest[0].Text)
		}
		typ.Value = rest
	default:
		return notDecomposable(d, "unexpected values")
	}
	return nil
}

func (e *Engine) breakUpAnimation(d *Declaration, atoms []Atom, comps []Declaration) error {
	duration, timing, delay, iteration := &comps[0], &comps[1], &comps[2], &comps[3]
	direction, fill, play, name := &comps[4], &comps[5], &comps[6], &comps[7]

	var durationSet, timingSet, delaySet, iterationSet, directionSet, fillSet, playSet, nameSet bool
	for _, a := range atoms {
		if a.Kind != AtomLiteral {
			return notDecomposable(d, "misplaced separator")
		}
		s := a.Text
		switch {
		case e.v.IsTime(s) && !durationSet:
			duration.Value, durationSet = []Atom{a.clone()}, true
		case e.v.IsTime(s) && !delaySet:
			delay.Value, delaySet = []Atom{a.clone()}, true
		case e.v.IsTimingFunction(s) && !timingSet:
			timing.Value, timingSet = []Atom{a.clone()}, true
		case (e.v.IsKeyword("animation-iteration-count", s) || e.v.IsNumber(s) && !strings.HasPrefix(s, "-")) && !iterationSet:
			iteration.Value, iterationSet = []Atom{a.clone()}, true
		case e.v.IsKeyword("animation-direction", s) && !directionSet:
			direction.Value, directionSet = []Atom{a.clone()}, true
		case e.v.IsKeyword("animation-fill-mode", s) && !fillSet:
			fill.Value, fillSet = []Atom{a.clone()}, true
		case e.v.IsKeyword("animation-play-state", s) && !playSet:
			play.Value, playSet = []Atom{a.clone()}, true
		case (e.v.IsIdentifier(s) || e.v.IsKeyword("animation-name", s)) && !nameSet:
			name.Value, nameSet = []Atom{a.clone()}, true
		default:
			return notDecomposable(d, "unexpected %q", s)
		}
	}
	return nil
}

func (e *Engine) breakUpTransition(d *Declaration, atoms []Atom, comps []Declaration) error {
	property, duration, timing, delay := &comps[0], &comps[1], &comps[2], &comps[3]

	var propertySet, durationSet, timingSet, delaySet bool
	for _, a := range atoms {
		if a.Kind != AtomLiteral {
			return notDecomposable(d, "misplaced separator")
		}
		s := a.Text
		switch {
		case e.v.IsTime(s) && !durationSet:
			duration.Value, durationSet = []Atom{a.clone()}, true
		case e.v.IsTime(s) && !delaySet:
			delay.Value, delaySet = []Atom{a.clone()}, true
		case e.v.IsTimingFunction(s) && !timingSet:
			timing.Value, timingSet = []Atom{a.clone()}, true
		case e.v.IsIdentifier(s) && !propertySet:
			property.Value, propertySet = []Atom{a.clone()}, true
		default:
			return notDecomposable(d, "unexpected %q", s)
		}
	}
	return nil
}
