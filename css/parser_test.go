package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"cssopt/css"
)

func parse(t *testing.T, text string) *css.Stylesheet {
	t.Helper()
	return css.NewParser(zaptest.NewLogger(t)).Parse([]byte(text), "test.css")
}

// allRules collects top level rules only.
func allRules(sheet *css.Stylesheet) []*css.Rule {
	var rules []*css.Rule
	for _, item := range sheet.Items {
		if item.Rule != nil {
			rules = append(rules, item.Rule)
		}
	}
	return rules
}

func TestParser_SimpleRule(t *testing.T) {
	sheet := parse(t, `p { text-indent: 1em; color: red }`)

	rules := allRules(sheet)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	rule := rules[0]
	if len(rule.Selectors) != 1 || rule.Selectors[0] != "p" {
		t.Errorf("expected selector 'p', got %v", rule.Selectors)
	}
	if len(rule.Declarations) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(rule.Declarations))
	}
	if d := rule.Declarations[0]; d.Name != "text-indent" || d.ValueString() != "1em" {
		t.Errorf("unexpected first declaration %q", d.String())
	}
	if d := rule.Declarations[1]; d.Name != "color" || d.ValueString() != "red" {
		t.Errorf("unexpected second declaration %q", d.String())
	}
}

func TestParser_SelectorList(t *testing.T) {
	sheet := parse(t, `h1, h2.title > span { margin: 0 }`)

	rules := allRules(sheet)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	got := rules[0].Selectors
	if len(got) != 2 || got[0] != "h1" || got[1] != "h2.title > span" {
		t.Errorf("unexpected selectors %q", got)
	}
}

func TestParser_Important(t *testing.T) {
	sheet := parse(t, `a { color: red !important; margin: 0!important; width: 1px }`)

	rules := allRules(sheet)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	decls := rules[0].Declarations
	if len(decls) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(decls))
	}
	for i, expected := range []bool{true, true, false} {
		if decls[i].Important != expected {
			t.Errorf("expected %s important=%v", decls[i].Name, expected)
		}
	}
	if decls[0].ValueString() != "red" {
		t.Errorf("expected importance marker to be stripped, got %q", decls[0].ValueString())
	}
}

func TestParser_ValueAtoms(t *testing.T) {
	sheet := parse(t, `a { font: italic bold 12px/1.5 Arial, sans-serif; background: url(a.png) rgba(0, 0, 0, .5); width: calc(100% - 10px) }`)

	rules := allRules(sheet)
	if len(rules) != 1 || len(rules[0].Declarations) != 3 {
		t.Fatalf("expected one rule with 3 declarations")
	}
	if got := rules[0].Declarations[0].ValueString(); got != "italic bold 12px/1.5 Arial,sans-serif" {
		t.Errorf("unexpected font value %q", got)
	}
	bg := rules[0].Declarations[1]
	if len(bg.Value) != 2 {
		t.Fatalf("expected 2 background atoms, got %d", len(bg.Value))
	}
	// arguments come back compacted, except around calc() operators
	if bg.Value[1].Text != "rgba(0,0,0,.5)" {
		t.Errorf("expected function to stay single atom, got %q", bg.Value[1].Text)
	}
	width := rules[0].Declarations[2]
	if len(width.Value) != 1 || width.Value[0].Text != "calc(100% - 10px)" {
		t.Errorf("expected calc() to keep operator spacing, got %q", width.ValueString())
	}
}

func TestParser_Media(t *testing.T) {
	sheet := parse(t, `a { color: red }
@media screen and (max-width: 100px) {
  a { color: blue }
  b { margin: 0 }
}`)

	if len(sheet.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(sheet.Items))
	}
	block := sheet.Items[1].Block
	if block == nil {
		t.Fatalf("expected second item to be block")
	}
	if block.Name != "@media" {
		t.Errorf("expected @media, got %q", block.Name)
	}
	if !strings.Contains(block.Prelude, "max-width") {
		t.Errorf("unexpected prelude %q", block.Prelude)
	}
	if len(block.Items) != 2 {
		t.Errorf("expected 2 nested rules, got %d", len(block.Items))
	}
	if got := len(sheet.Rules()); got != 3 {
		t.Errorf("expected 3 rules in total, got %d", got)
	}
}

func TestParser_FontFace(t *testing.T) {
	sheet := parse(t, `@font-face { font-family: "My Font"; src: url(font.woff2) format("woff2") }`)

	if len(sheet.Items) != 1 || sheet.Items[0].Block == nil {
		t.Fatalf("expected single block")
	}
	block := sheet.Items[0].Block
	if !block.HoldsDeclarations() {
		t.Errorf("expected @font-face to hold declarations")
	}
	if len(block.Declarations) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(block.Declarations))
	}
	if got := block.Declarations[0].ValueString(); got != `"My Font"` {
		t.Errorf("unexpected font family %q", got)
	}
}

func TestParser_Keyframes(t *testing.T) {
	sheet := parse(t, `@-webkit-keyframes spin { from { opacity: 0 } to { opacity: 1 } }`)

	if len(sheet.Items) != 1 || sheet.Items[0].Block == nil {
		t.Fatalf("expected single block")
	}
	block := sheet.Items[0].Block
	if !block.Keyframes() {
		t.Errorf("expected prefixed keyframes to be recognized")
	}
	if len(block.Items) != 2 {
		t.Errorf("expected 2 keyframe rules, got %d", len(block.Items))
	}
}

func TestParser_AtRules(t *testing.T) {
	sheet := parse(t, `@import url(base.css);
/*! license */
a { color: red }`)

	if len(sheet.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(sheet.Items))
	}
	if a := sheet.Items[0].AtRule; a == nil || a.Name != "@import" || a.Prelude != "url(base.css)" {
		t.Errorf("unexpected first item %+v", sheet.Items[0])
	}
	if sheet.Items[1].Comment != "/*! license */" {
		t.Errorf("expected preserved comment, got %q", sheet.Items[1].Comment)
	}
}

func TestParser_CustomProperty(t *testing.T) {
	sheet := parse(t, `:root { --main-color: #06c; --gap: 4px !important }`)

	rules := allRules(sheet)
	if len(rules) != 1 || len(rules[0].Declarations) != 2 {
		t.Fatalf("expected one rule with 2 declarations")
	}
	d := rules[0].Declarations[0]
	if !d.IsCustom() || d.Name != "--main-color" {
		t.Errorf("expected custom property, got %q", d.Name)
	}
	if got := d.ValueString(); got != "#06c" {
		t.Errorf("unexpected value %q", got)
	}
	if gap := rules[0].Declarations[1]; !gap.Important || gap.ValueString() != "4px" {
		t.Errorf("unexpected custom property %q", gap.String())
	}
}

func TestParser_Positions(t *testing.T) {
	sheet := parse(t, "a { color: red }\n\nb {\n  color: blue\n}")

	rules := allRules(sheet)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if got := rules[1].Position; got.Line != 3 || got.Source != "test.css" {
		t.Errorf("expected second rule at test.css line 3, got %s", got)
	}
}

func TestParser_Empty(t *testing.T) {
	sheet := parse(t, "")
	if len(sheet.Items) != 0 {
		t.Errorf("expected no items, got %d", len(sheet.Items))
	}
}
