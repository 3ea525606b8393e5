// Package validator classifies single CSS value atoms: colors, units, images,
// keywords and so on. Classification honors a compatibility profile.
package validator

import (
	"slices"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"cssopt/compat"
)

// Validator answers value classification questions for a given compatibility
// profile. It is safe for concurrent use.
type Validator struct {
	compat *compat.Profile
}

// New returns validator for the profile, nil means all modern browsers.
func New(p *compat.Profile) *Validator {
	if p == nil {
		p = compat.Default()
	}
	return &Validator{compat: p}
}

type token struct {
	tt   css.TokenType
	data string
}

// lex splits value text into non-whitespace tokens.
func lex(value string) []token {
	l := css.NewLexer(parse.NewInputString(value))
	var tokens []token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return tokens
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		tokens = append(tokens, token{tt: tt, data: string(data)})
	}
}

// single returns the only token of the value when value is a single token.
func single(value string) (token, bool) {
	tokens := lex(value)
	if len(tokens) != 1 {
		return token{}, false
	}
	return tokens[0], true
}

// functionName returns lowercased function name (without vendor prefix
// stripping) when value is one complete balanced function call.
func functionName(value string) (string, bool) {
	tokens := lex(value)
	if len(tokens) < 2 || tokens[0].tt != css.FunctionToken {
		return "", false
	}
	depth := 0
	for i, t := range tokens {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 && i != len(tokens)-1 {
				return "", false
			}
		}
	}
	if depth != 0 {
		return "", false
	}
	return strings.ToLower(strings.TrimSuffix(tokens[0].data, "(")), true
}

func unprefixed(name string) string {
	if len(name) > 1 && name[0] == '-' && name[1] != '-' {
		if i := strings.IndexByte(name[1:], '-'); i > 0 {
			return name[i+2:]
		}
	}
	return name
}

// IsFunction reports whether value is a single function call, url() excluded.
func (v *Validator) IsFunction(value string) bool {
	_, ok := functionName(value)
	return ok
}

// FunctionName returns name of the function call value, empty otherwise.
func (v *Validator) FunctionName(value string) string {
	name, _ := functionName(value)
	return name
}

// IsURL reports whether value is a single url() token.
func (v *Validator) IsURL(value string) bool {
	t, ok := single(value)
	return ok && t.tt == css.URLToken
}

// IsVariable reports whether value is a var() reference.
func (v *Validator) IsVariable(value string) bool {
	name, ok := functionName(value)
	return ok && name == "var"
}

// IsGlobal reports whether value is a CSS-wide keyword.
func (v *Validator) IsGlobal(value string) bool {
	switch strings.ToLower(value) {
	case "inherit", "initial", "unset", "revert", "revert-layer":
		return true
	}
	return false
}

// IsIdentifier reports whether value is a single identifier.
func (v *Validator) IsIdentifier(value string) bool {
	t, ok := single(value)
	return ok && t.tt == css.IdentToken
}

// IsNumber reports whether value is a plain number.
func (v *Validator) IsNumber(value string) bool {
	t, ok := single(value)
	return ok && t.tt == css.NumberToken
}

// IsUnit reports whether value is a length or percentage (or bare zero)
// expressed in units understood by target browsers. Functions do not count.
func (v *Validator) IsUnit(value string) bool {
	t, ok := single(value)
	if !ok {
		return false
	}
	switch t.tt {
	case css.PercentageToken:
		return true
	case css.NumberToken:
		return strings.Trim(strings.TrimLeft(t.data, "+-"), "0.") == ""
	case css.DimensionToken:
		unit := strings.ToLower(dimensionUnit(t.data))
		return lengthUnits[unit] && v.compat.SupportsUnit(unit)
	}
	return false
}

// IsTime reports whether value is a time dimension.
func (v *Validator) IsTime(value string) bool {
	t, ok := single(value)
	if !ok || t.tt != css.DimensionToken {
		return false
	}
	switch strings.ToLower(dimensionUnit(t.data)) {
	case "s", "ms":
		return true
	}
	return false
}

// IsTimingFunction reports whether value is an easing keyword or function.
func (v *Validator) IsTimingFunction(value string) bool {
	if name, ok := functionName(value); ok {
		return name == "cubic-bezier" || name == "steps" || name == "linear"
	}
	return v.IsKeyword("animation-timing-function", value)
}

// IsImage reports whether value is an image: url(), gradient or none.
func (v *Validator) IsImage(value string) bool {
	if v.IsURL(value) || strings.EqualFold(value, "none") {
		return true
	}
	name, ok := functionName(value)
	if !ok {
		return false
	}
	switch unprefixed(name) {
	case "linear-gradient", "radial-gradient", "conic-gradient",
		"repeating-linear-gradient", "repeating-radial-gradient", "repeating-conic-gradient",
		"gradient", "image-set", "cross-fade", "element", "image":
		return true
	}
	return false
}

// VendorPrefixes returns sorted set of vendor prefixes ("-webkit-" and the
// like) used anywhere in value.
func (v *Validator) VendorPrefixes(value string) []string {
	var prefixes []string
	for _, t := range lex(value) {
		if t.tt != css.IdentToken && t.tt != css.FunctionToken {
			continue
		}
		name := strings.ToLower(t.data)
		if len(name) < 3 || name[0] != '-' || name[1] == '-' {
			continue
		}
		if i := strings.IndexByte(name[1:], '-'); i > 0 {
			prefix := name[:i+2]
			if !slices.Contains(prefixes, prefix) {
				prefixes = append(prefixes, prefix)
			}
		}
	}
	slices.Sort(prefixes)
	return prefixes
}

func dimensionUnit(data string) string {
	for i := len(data) - 1; i >= 0; i-- {
		c := data[i]
		if c >= '0' && c <= '9' || c == '.' {
			return data[i+1:]
		}
	}
	return data
}

var lengthUnits = map[string]bool{
	"px": true, "em": true, "ex": true, "ch": true, "rem": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true, "vm": true,
	"cm": true, "mm": true, "q": true, "in": true, "pt": true, "pc": true,
}
