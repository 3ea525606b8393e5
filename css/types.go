package css

import (
	"slices"
	"strings"

	"cssopt/properties"
)

// Stylesheet is parsed CSS source in document order.
type Stylesheet struct {
	Items    []Item
	Warnings []string
}

// Item is a single stylesheet construct. Exactly one field is set.
type Item struct {
	Rule    *Rule
	Block   *Block
	AtRule  *AtRule
	Comment string // preserved "/*! ... */" comment
}

// Rule is a qualified rule: selector list and declarations.
type Rule struct {
	Selectors    []string
	Declarations []properties.Declaration
	Position     properties.Position
}

// Block is an at-rule with a body. Conditional group rules and keyframes
// hold nested items, descriptor at-rules (@font-face, @page) hold
// declarations.
type Block struct {
	Name         string // lowercase, "@media" for example
	Prelude      string
	Items        []Item
	Declarations []properties.Declaration
	Position     properties.Position
}

// AtRule is an at-rule without body, @import or @charset for example.
type AtRule struct {
	Name    string
	Prelude string
}

// at-rules whose body is a declaration list
var declarationBlocks = map[string]bool{
	"@font-face":           true,
	"@page":                true,
	"@viewport":            true,
	"@counter-style":       true,
	"@property":            true,
	"@font-palette-values": true,
	"@position-try":        true,
}

// unprefixedAtRule strips vendor prefix: "@-webkit-keyframes" becomes
// "@keyframes".
func unprefixedAtRule(name string) string {
	if len(name) > 2 && name[0] == '@' && name[1] == '-' {
		if i := strings.IndexByte(name[2:], '-'); i > 0 {
			return "@" + name[i+3:]
		}
	}
	return name
}

// HoldsDeclarations reports whether block body is a declaration list.
func (b *Block) HoldsDeclarations() bool {
	return declarationBlocks[unprefixedAtRule(b.Name)]
}

// Keyframes reports whether block is @keyframes (vendor prefixed or not).
func (b *Block) Keyframes() bool {
	return unprefixedAtRule(b.Name) == "@keyframes"
}

// Clone makes deep copy of the stylesheet.
func (s *Stylesheet) Clone() *Stylesheet {
	return &Stylesheet{
		Items:    CloneItems(s.Items),
		Warnings: slices.Clone(s.Warnings),
	}
}

// CloneItems makes deep copy of items.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		switch {
		case item.Rule != nil:
			out[i].Rule = item.Rule.Clone()
		case item.Block != nil:
			b := *item.Block
			b.Items = CloneItems(item.Block.Items)
			b.Declarations = cloneDeclarations(item.Block.Declarations)
			out[i].Block = &b
		case item.AtRule != nil:
			a := *item.AtRule
			out[i].AtRule = &a
		default:
			out[i].Comment = item.Comment
		}
	}
	return out
}

// Clone makes deep copy of the rule.
func (r *Rule) Clone() *Rule {
	return &Rule{
		Selectors:    slices.Clone(r.Selectors),
		Declarations: cloneDeclarations(r.Declarations),
		Position:     r.Position,
	}
}

func cloneDeclarations(decls []properties.Declaration) []properties.Declaration {
	if decls == nil {
		return nil
	}
	out := make([]properties.Declaration, len(decls))
	for i := range decls {
		out[i] = decls[i].Clone()
	}
	return out
}

// SelectorText returns selector list as written in compact output.
func (r *Rule) SelectorText() string {
	return strings.Join(r.Selectors, ",")
}

// BodyText returns live declarations in compact form, used to compare rule
// bodies.
func (r *Rule) BodyText() string {
	var sb strings.Builder
	first := true
	for i := range r.Declarations {
		if r.Declarations[i].Unused {
			continue
		}
		if !first {
			sb.WriteByte(';')
		}
		first = false
		sb.WriteString(r.Declarations[i].String())
	}
	return sb.String()
}

// Rules returns all rules, including ones nested in blocks, in document
// order.
func (s *Stylesheet) Rules() []*Rule {
	return collectRules(s.Items, nil)
}

func collectRules(items []Item, out []*Rule) []*Rule {
	for _, item := range items {
		switch {
		case item.Rule != nil:
			out = append(out, item.Rule)
		case item.Block != nil:
			out = collectRules(item.Block.Items, out)
		}
	}
	return out
}

// RulesBySelector returns top level rules listing given selector.
func (s *Stylesheet) RulesBySelector(selector string) []*Rule {
	var matches []*Rule
	for _, item := range s.Items {
		if item.Rule != nil && slices.Contains(item.Rule.Selectors, selector) {
			matches = append(matches, item.Rule)
		}
	}
	return matches
}
