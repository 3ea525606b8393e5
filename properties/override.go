package properties

import (
	"slices"
	"strings"
)

// OverrideKind selects predicate deciding whether a later value may
// replace an earlier one of the same property without losing a fallback.
type OverrideKind uint8

const (
	OverrideSameValue OverrideKind = iota
	OverrideAlways
	OverrideAlwaysButIntoFunction
	OverrideSameFunctionOrValue
	OverrideColor
	OverrideUnit
	OverrideUnitOrNumber
	OverrideUnitOrKeyword
	OverrideKeyword
	OverrideKeywordWithGlobal
	OverrideBackgroundImage
	OverrideBackgroundPosition
	OverrideBackgroundSize
	OverrideBorder
	OverrideTime
	OverrideTimingFunction
	OverrideFontFamily
	OverridePropertyName
	OverrideZIndex
	OverrideAnimationName
	OverrideAnimationIterationCount
)

var overrideKindNames = [...]string{
	"same-value", "always", "always-but-into-function", "same-function-or-value",
	"color", "unit", "unit-or-number", "unit-or-keyword", "keyword", "keyword-with-global",
	"background-image", "background-position", "background-size", "border", "time",
	"timing-function", "font-family", "property-name", "z-index", "animation-name",
	"animation-iteration-count",
}

func (k OverrideKind) String() string {
	if int(k) < len(overrideKindNames) {
		return overrideKindNames[k]
	}
	return "unknown"
}

// Understandable reports whether two values are understood by the same set
// of browsers: they use the same vendor prefixes and, when paired, either
// both or neither are var() references.
func (e *Engine) Understandable(a, b string, paired bool) bool {
	if !slices.Equal(e.v.VendorPrefixes(a), e.v.VendorPrefixes(b)) {
		return false
	}
	if paired && e.v.IsVariable(a) != e.v.IsVariable(b) {
		return false
	}
	return true
}

// CanOverride reports whether value b (appearing later) may replace value a
// of property under predicate k.
func (e *Engine) CanOverride(k OverrideKind, property, a, b string) bool {
	if !e.Understandable(a, b, true) {
		return false
	}
	if k != OverrideSameValue && e.v.IsVariable(a) && e.v.IsVariable(b) {
		return true
	}

	switch k {
	case OverrideAlways:
		return true
	case OverrideAlwaysButIntoFunction:
		return !(e.v.IsFunction(b) && !e.v.IsFunction(a))
	case OverrideSameFunctionOrValue:
		return e.sameFunctionOrValue(a, b)
	case OverrideColor:
		return e.color(a, b)
	case OverrideUnit:
		return e.unitLike(property, a, b, false, false)
	case OverrideUnitOrNumber:
		return e.unitLike(property, a, b, true, true)
	case OverrideUnitOrKeyword:
		return e.unitLike(property, a, b, false, true)
	case OverrideKeyword:
		return e.v.IsKeyword(property, b)
	case OverrideKeywordWithGlobal:
		return e.v.IsKeyword(property, b) || e.v.IsGlobal(b)
	case OverrideBackgroundImage:
		switch {
		case e.v.IsImage(b):
			return true
		case e.v.IsImage(a):
			return false
		}
		return e.sameFunctionOrValue(a, b)
	case OverrideBackgroundPosition, OverrideBackgroundSize:
		if e.v.IsKeyword(property, b) || e.v.IsGlobal(b) {
			return true
		}
		return e.unitLike(property, a, b, false, false)
	case OverrideBorder:
		return e.borderAtom(a, b)
	case OverrideTime:
		switch {
		case e.v.IsFunction(a) != e.v.IsFunction(b):
			return false
		case e.v.IsTime(b) || e.v.IsGlobal(b):
			return true
		case e.v.IsTime(a):
			return false
		}
		return e.sameFunctionOrValue(a, b)
	case OverrideTimingFunction:
		return e.v.IsTimingFunction(b) || e.v.IsGlobal(b)
	case OverrideFontFamily:
		return true
	case OverridePropertyName:
		return e.v.IsIdentifier(b) || e.v.IsGlobal(b)
	case OverrideZIndex:
		return isInteger(b) || strings.EqualFold(b, "auto") || e.v.IsGlobal(b)
	case OverrideAnimationName:
		return e.v.IsIdentifier(b) || e.v.IsGlobal(b)
	case OverrideAnimationIterationCount:
		return strings.EqualFold(b, "infinite") || e.v.IsNumber(b) && !strings.HasPrefix(b, "-") || e.v.IsGlobal(b)
	}
	return strings.EqualFold(a, b)
}

func (e *Engine) sameFunctionOrValue(a, b string) bool {
	if e.v.IsFunction(a) && e.v.IsFunction(b) {
		return e.v.FunctionName(a) == e.v.FunctionName(b)
	}
	return strings.EqualFold(a, b)
}

func (e *Engine) color(a, b string) bool {
	if !e.compat.Colors.Opacity && (e.v.IsColorFunction(a) && e.hasAlphaFunction(a) || e.v.IsColorFunction(b) && e.hasAlphaFunction(b)) {
		return false
	}
	if !e.compat.Colors.HexAlpha && (e.v.IsHexAlphaColor(a) || e.v.IsHexAlphaColor(b)) {
		return false
	}
	if e.v.IsColor(a) && e.v.IsColor(b) {
		return true
	}
	return e.sameFunctionOrValue(a, b)
}

func (e *Engine) hasAlphaFunction(v string) bool {
	switch e.v.FunctionName(v) {
	case "rgba", "hsla":
		return true
	}
	return false
}

// unitLike checks length-like values. A plain value and a function call
// never replace each other: a later literal cannot be proven to dominate an
// earlier calc() in every browser and vice versa.
func (e *Engine) unitLike(property, a, b string, number, keyword bool) bool {
	plain := func(v string) bool {
		return e.v.IsUnit(v) ||
			number && e.v.IsNumber(v) ||
			keyword && (e.v.IsKeyword(property, v) || e.v.IsGlobal(v))
	}
	fa, fb := e.v.IsFunction(a), e.v.IsFunction(b)
	switch {
	case fa && plain(b), plain(a) && fb:
		return false
	case plain(b):
		return true
	case plain(a):
		return false
	case fa && fb:
		return true
	}
	return e.sameFunctionOrValue(a, b)
}

// borderAtom compares single atoms of border-like shorthands by their slot.
func (e *Engine) borderAtom(a, b string) bool {
	slot := func(v string) int {
		switch {
		case e.v.IsWidth(v):
			return 0
		case e.v.IsStyleKeyword(v):
			return 1
		case e.v.IsColor(v):
			return 2
		}
		return -1
	}
	sa, sb := slot(a), slot(b)
	switch {
	case sa != sb || sa < 0:
		return e.v.IsGlobal(b)
	case sa == 0:
		return e.unitLike("border-width", a, b, false, true)
	case sa == 2:
		return e.color(a, b)
	}
	return true
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// valuesPairOK applies predicate to each pair of literal atoms of a and b,
// layer by layer. Within a layer shorter list is padded by repeating its
// last atom, which also makes single value of a double valued property stand
// for both slots.
func (e *Engine) valuesPairOK(k OverrideKind, property string, a, b []Atom) bool {
	ga, gb := groups(a), groups(b)
	if len(ga) != len(gb) {
		return false
	}
	for g := range ga {
		la, lb := literals(ga[g]), literals(gb[g])
		if len(la) == 0 || len(lb) == 0 {
			if len(la) != len(lb) {
				return false
			}
			continue
		}
		for i := range max(len(la), len(lb)) {
			if !e.CanOverride(k, property, la[min(i, len(la)-1)], lb[min(i, len(lb)-1)]) {
				return false
			}
		}
	}
	return true
}

// canOverrideDecl checks whether later declaration value may replace the
// earlier one, component by component for decomposed shorthands.
func (e *Engine) canOverrideDecl(desc *Descriptor, earlier, later *Declaration) bool {
	if groupCount(earlier.Value) != groupCount(later.Value) {
		return false
	}
	if earlier.Components == nil || later.Components == nil {
		if desc.Shorthand() && desc.Override != OverrideBorder {
			return sameAtoms(earlier.Value, later.Value)
		}
		return e.valuesPairOK(desc.Override, desc.Name, earlier.Value, later.Value)
	}
	if len(earlier.Components) != len(later.Components) {
		return false
	}
	for i := range earlier.Components {
		cd, ok := e.table.Lookup(earlier.Components[i].NameRoot)
		if !ok || !e.canOverrideDecl(cd, &earlier.Components[i], &later.Components[i]) {
			return false
		}
	}
	return true
}
