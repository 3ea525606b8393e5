package properties

import (
	"strings"
)

// Family is closed set of decomposition strategies. Every shorthand belongs
// to exactly one family which knows how to break its value into components
// and put it back together.
type Family uint8

const (
	FamilyLonghand     Family = iota // not decomposable
	FamilyFourValues                 // top right bottom left
	FamilyBorderRadius               // four corners, optional "/" vertical radii
	FamilyBorder                     // width style color in any order
	FamilyBackground                 // layered, type directed
	FamilyFont                       // style variant weight stretch size/line-height family
	FamilyListStyle                  // type position image
	FamilyAnimation                  // layered, type directed
	FamilyTransition                 // layered, type directed
)

func (f Family) String() string {
	switch f {
	case FamilyFourValues:
		return "four-values"
	case FamilyBorderRadius:
		return "border-radius"
	case FamilyBorder:
		return "border"
	case FamilyBackground:
		return "background"
	case FamilyFont:
		return "font"
	case FamilyListStyle:
		return "list-style"
	case FamilyAnimation:
		return "animation"
	case FamilyTransition:
		return "transition"
	}
	return "longhand"
}

// Multiplexed reports whether shorthands of the family accept comma
// separated layers.
func (f Family) Multiplexed() bool {
	switch f {
	case FamilyBackground, FamilyAnimation, FamilyTransition:
		return true
	}
	return false
}

// Descriptor is static knowledge about one property.
type Descriptor struct {
	Name     string
	Family   Family
	Override OverrideKind

	Components  []string // ordered, for shorthands
	ComponentOf []string // shorthands this property is component of

	// Default holds atoms of initial value. Properties with DoubleValues
	// may omit the second one.
	Default      []string
	DoubleValues bool

	MultiplexLastOnly   bool   // may appear only in the last layer
	NonMergeableValue   string // value which must never be folded into shorthand
	OverridesShorthands []string
	KeepUnlessDefault   string // component kept even when default unless named one is default
}

// Shorthand reports whether property has components.
func (d *Descriptor) Shorthand() bool {
	return len(d.Components) > 0
}

// IsDefault reports whether value atoms equal default value.
func (d *Descriptor) IsDefault(value []Atom) bool {
	lits := literals(value)
	if len(lits) == 0 || hasSeparator(value, AtomComma) {
		return false
	}
	if d.DoubleValues {
		if len(lits) > 2 {
			return false
		}
		first, second := d.Default[0], d.Default[0]
		if len(d.Default) > 1 {
			second = d.Default[1]
		}
		other := lits[0]
		if len(lits) > 1 {
			other = lits[1]
		}
		return strings.EqualFold(lits[0], first) && strings.EqualFold(other, second)
	}
	if len(lits) != len(d.Default) {
		return false
	}
	for i := range lits {
		if !strings.EqualFold(lits[i], d.Default[i]) {
			return false
		}
	}
	return true
}

func (d *Descriptor) defaultAtoms() []Atom {
	out := make([]Atom, 0, len(d.Default))
	for _, s := range d.Default {
		out = append(out, Literal(s))
	}
	return out
}

// Table maps property names to descriptors. Lookups ignore vendor prefixes.
type Table struct {
	byName map[string]*Descriptor
}

// Lookup returns descriptor for property name root.
func (t *Table) Lookup(root string) (*Descriptor, bool) {
	d, ok := t.byName[root]
	return d, ok
}

// covers reports whether shorthand covers property, directly or through one
// of its shorthand components.
func (t *Table) covers(shorthand, root string) bool {
	d, ok := t.byName[shorthand]
	if !ok {
		return false
	}
	for _, c := range d.Components {
		if c == root || t.covers(c, root) {
			return true
		}
	}
	return false
}

// overrides reports whether shorthand restates property without having it
// as component, like border over border-top.
func (t *Table) overrides(shorthand, root string) bool {
	d, ok := t.byName[shorthand]
	if !ok {
		return false
	}
	for _, s := range d.OverridesShorthands {
		if s == root || t.covers(s, root) {
			return true
		}
	}
	return false
}

// leaves returns all longhands reachable from property.
func (t *Table) leaves(root string) []string {
	d, ok := t.byName[root]
	if !ok || !d.Shorthand() {
		return []string{root}
	}
	var out []string
	for _, c := range d.Components {
		out = append(out, t.leaves(c)...)
	}
	return out
}

// related reports whether two properties touch same longhands.
func (t *Table) related(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := t.leaves(a), t.leaves(b)
	for _, x := range la {
		for _, y := range lb {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (t *Table) add(d *Descriptor) {
	t.byName[d.Name] = d
}

func (t *Table) longhand(name string, kind OverrideKind, def ...string) *Descriptor {
	d := &Descriptor{Name: name, Override: kind, Default: def}
	t.add(d)
	return d
}

func (t *Table) shorthand(name string, family Family, components []string, def ...string) *Descriptor {
	d := &Descriptor{Name: name, Family: family, Components: components, Default: def}
	t.add(d)
	for _, c := range components {
		if cd, ok := t.byName[c]; ok {
			cd.ComponentOf = append(cd.ComponentOf, name)
		}
	}
	return d
}

var sides = []string{"top", "right", "bottom", "left"}

// DefaultTable returns descriptors of all properties the optimizer knows.
func DefaultTable() *Table {
	return defaultTable
}

var defaultTable = buildTable()

func buildTable() *Table {
	t := &Table{byName: make(map[string]*Descriptor)}

	fourSided := func(name string, side func(s string) string, kind OverrideKind, def string) *Descriptor {
		components := make([]string, 0, len(sides))
		for _, s := range sides {
			c := side(s)
			t.longhand(c, kind, def)
			components = append(components, c)
		}
		return t.shorthand(name, FamilyFourValues, components, def)
	}

	fourSided("margin", func(s string) string { return "margin-" + s }, OverrideUnitOrKeyword, "0")
	fourSided("padding", func(s string) string { return "padding-" + s }, OverrideUnit, "0")
	fourSided("border-width", func(s string) string { return "border-" + s + "-width" }, OverrideUnitOrKeyword, "medium")
	fourSided("border-style", func(s string) string { return "border-" + s + "-style" }, OverrideKeywordWithGlobal, "none")
	fourSided("border-color", func(s string) string { return "border-" + s + "-color" }, OverrideColor, "currentcolor")

	corners := []string{"top-left", "top-right", "bottom-right", "bottom-left"}
	radii := make([]string, 0, len(corners))
	for _, c := range corners {
		name := "border-" + c + "-radius"
		t.longhand(name, OverrideUnit, "0")
		radii = append(radii, name)
	}
	t.shorthand("border-radius", FamilyBorderRadius, radii, "0")

	for _, s := range sides {
		name := "border-" + s
		t.shorthand(name, FamilyBorder, []string{name + "-width", name + "-style", name + "-color"}, "none").
			Override = OverrideBorder
	}
	border := t.shorthand("border", FamilyBorder, []string{"border-width", "border-style", "border-color"}, "none")
	border.Override = OverrideBorder
	border.OverridesShorthands = []string{"border-top", "border-right", "border-bottom", "border-left"}

	t.longhand("outline-width", OverrideUnitOrKeyword, "medium")
	t.longhand("outline-style", OverrideKeywordWithGlobal, "none")
	t.longhand("outline-color", OverrideColor, "currentcolor")
	t.shorthand("outline", FamilyBorder, []string{"outline-width", "outline-style", "outline-color"}, "none").
		Override = OverrideBorder

	t.longhand("background-image", OverrideBackgroundImage, "none")
	t.longhand("background-position", OverrideBackgroundPosition, "0", "0").DoubleValues = true
	t.longhand("background-size", OverrideBackgroundSize, "auto").DoubleValues = true
	t.longhand("background-repeat", OverrideKeywordWithGlobal, "repeat").DoubleValues = true
	t.longhand("background-attachment", OverrideKeywordWithGlobal, "scroll")
	t.longhand("background-origin", OverrideKeywordWithGlobal, "padding-box")
	t.longhand("background-clip", OverrideKeywordWithGlobal, "border-box")
	bgColor := t.longhand("background-color", OverrideColor, "transparent")
	bgColor.MultiplexLastOnly = true
	bgColor.NonMergeableValue = "none"
	t.shorthand("background", FamilyBackground, []string{
		"background-image", "background-position", "background-size", "background-repeat",
		"background-attachment", "background-origin", "background-clip", "background-color",
	}, "0", "0")

	t.longhand("font-style", OverrideKeywordWithGlobal, "normal")
	t.longhand("font-variant", OverrideKeywordWithGlobal, "normal")
	t.longhand("font-weight", OverrideKeywordWithGlobal, "normal")
	t.longhand("font-stretch", OverrideKeywordWithGlobal, "normal")
	t.longhand("font-size", OverrideUnitOrKeyword, "medium")
	t.longhand("line-height", OverrideUnitOrNumber, "normal")
	t.longhand("font-family", OverrideFontFamily, "user|agent|specific")
	t.shorthand("font", FamilyFont, []string{
		"font-style", "font-variant", "font-weight", "font-stretch", "font-size", "line-height", "font-family",
	})

	t.longhand("list-style-type", OverrideKeywordWithGlobal, "__hack")
	t.longhand("list-style-position", OverrideKeywordWithGlobal, "outside")
	t.longhand("list-style-image", OverrideBackgroundImage, "none")
	t.shorthand("list-style", FamilyListStyle, []string{"list-style-type", "list-style-position", "list-style-image"}, "outside")

	t.longhand("transition-property", OverridePropertyName, "all")
	t.longhand("transition-duration", OverrideTime, "0s").KeepUnlessDefault = "transition-delay"
	t.longhand("transition-timing-function", OverrideTimingFunction, "ease")
	t.longhand("transition-delay", OverrideTime, "0s")
	t.shorthand("transition", FamilyTransition, []string{
		"transition-property", "transition-duration", "transition-timing-function", "transition-delay",
	}, "all")

	t.longhand("animation-duration", OverrideTime, "0s").KeepUnlessDefault = "animation-delay"
	t.longhand("animation-timing-function", OverrideTimingFunction, "ease")
	t.longhand("animation-delay", OverrideTime, "0s")
	t.longhand("animation-iteration-count", OverrideAnimationIterationCount, "1")
	t.longhand("animation-direction", OverrideKeywordWithGlobal, "normal")
	t.longhand("animation-fill-mode", OverrideKeywordWithGlobal, "none")
	t.longhand("animation-play-state", OverrideKeywordWithGlobal, "running")
	t.longhand("animation-name", OverrideAnimationName, "none")
	t.shorthand("animation", FamilyAnimation, []string{
		"animation-duration", "animation-timing-function", "animation-delay", "animation-iteration-count",
		"animation-direction", "animation-fill-mode", "animation-play-state", "animation-name",
	}, "none")

	for _, name := range []string{"width", "height", "min-width", "min-height", "max-width", "max-height", "top", "right", "bottom", "left"} {
		t.longhand(name, OverrideUnitOrKeyword)
	}
	for _, name := range []string{"letter-spacing", "word-spacing", "text-indent", "vertical-align"} {
		t.longhand(name, OverrideUnitOrKeyword)
	}
	for _, name := range []string{
		"clear", "cursor", "display", "float", "overflow", "position", "text-align",
		"text-decoration", "text-overflow", "visibility", "white-space",
	} {
		t.longhand(name, OverrideKeywordWithGlobal)
	}
	t.longhand("color", OverrideColor)
	t.longhand("z-index", OverrideZIndex)
	t.longhand("opacity", OverrideUnitOrNumber)
	t.longhand("border-collapse", OverrideAlways)
	t.longhand("table-layout", OverrideAlways)
	t.longhand("box-shadow", OverrideAlwaysButIntoFunction)
	t.longhand("text-shadow", OverrideAlwaysButIntoFunction)
	t.longhand("transform", OverrideSameFunctionOrValue)
	t.longhand("filter", OverrideSameFunctionOrValue)
	t.longhand("content", OverrideSameValue)

	return t
}
