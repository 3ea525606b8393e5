package validator

import "strings"

// IsKeyword reports whether value is one of known keywords for property.
// Property name is expected without vendor prefix and hacks.
func (v *Validator) IsKeyword(property, value string) bool {
	set, ok := keywords[property]
	if !ok {
		return false
	}
	_, ok = set[strings.ToLower(value)]
	return ok
}

// IsStyleKeyword reports whether value is a border/outline style.
func (v *Validator) IsStyleKeyword(value string) bool {
	return v.IsKeyword("border-style", value)
}

// IsWidth reports whether value is a border/outline width.
func (v *Validator) IsWidth(value string) bool {
	return v.IsUnit(value) || v.IsKeyword("border-width", value)
}

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, s := range values {
		m[s] = struct{}{}
	}
	return m
}

var (
	styles     = set("none", "hidden", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset")
	widths     = set("thin", "medium", "thick")
	boxes      = set("border-box", "padding-box", "content-box")
	fontSizes  = set("xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large", "xxx-large", "larger", "smaller")
	listTypes  = set("armenian", "circle", "cjk-ideographic", "decimal", "decimal-leading-zero", "disc", "georgian", "hebrew", "hiragana", "hiragana-iroha", "katakana", "katakana-iroha", "lower-alpha", "lower-greek", "lower-latin", "lower-roman", "none", "square", "upper-alpha", "upper-latin", "upper-roman")
	timings    = set("ease", "ease-in", "ease-in-out", "ease-out", "linear", "step-end", "step-start")
	alignments = set("left", "right", "center", "justify", "start", "end", "match-parent", "justify-all")
)

var keywords = map[string]map[string]struct{}{
	"animation-direction":        set("alternate", "alternate-reverse", "normal", "reverse"),
	"animation-fill-mode":        set("backwards", "both", "forwards", "none"),
	"animation-iteration-count":  set("infinite"),
	"animation-name":             set("none"),
	"animation-play-state":       set("paused", "running"),
	"animation-timing-function":  timings,
	"transition-timing-function": timings,
	"transition-property":        set("all", "none"),
	"background-attachment":      set("fixed", "inherit", "local", "scroll"),
	"background-clip":            set("border-box", "content-box", "inherit", "padding-box", "text"),
	"background-origin":          set("border-box", "content-box", "inherit", "padding-box"),
	"background-position":        set("bottom", "center", "left", "right", "top"),
	"background-repeat":          set("no-repeat", "inherit", "repeat", "repeat-x", "repeat-y", "round", "space"),
	"background-size":            set("auto", "cover", "contain"),
	"border-collapse":            set("collapse", "inherit", "separate"),
	"border-style":               styles,
	"border-top-style":           styles,
	"border-right-style":         styles,
	"border-bottom-style":        styles,
	"border-left-style":          styles,
	"outline-style":              set("auto", "none", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset"),
	"border-width":               widths,
	"border-top-width":           widths,
	"border-right-width":         widths,
	"border-bottom-width":        widths,
	"border-left-width":          widths,
	"outline-width":              widths,
	"outline-color":              set("invert"),
	"bottom":                     set("auto"),
	"left":                       set("auto"),
	"right":                      set("auto"),
	"top":                        set("auto"),
	"clear":                      set("both", "left", "none", "right"),
	"color":                      set("transparent"),
	"cursor":                     set("all-scroll", "auto", "col-resize", "crosshair", "default", "e-resize", "help", "move", "n-resize", "ne-resize", "no-drop", "not-allowed", "nw-resize", "pointer", "progress", "row-resize", "s-resize", "se-resize", "sw-resize", "text", "vertical-text", "w-resize", "wait"),
	"display":                    set("block", "contents", "flex", "grid", "inline", "inline-block", "inline-flex", "inline-grid", "inline-table", "list-item", "none", "table", "table-caption", "table-cell", "table-column", "table-column-group", "table-footer-group", "table-header-group", "table-row", "table-row-group"),
	"float":                      set("left", "none", "right", "inline-start", "inline-end"),
	"font":                       set("caption", "icon", "menu", "message-box", "small-caption", "status-bar", "unset"),
	"font-size":                  fontSizes,
	"font-stretch":               set("condensed", "expanded", "extra-condensed", "extra-expanded", "normal", "semi-condensed", "semi-expanded", "ultra-condensed", "ultra-expanded"),
	"font-style":                 set("italic", "normal", "oblique"),
	"font-variant":               set("normal", "small-caps"),
	"font-weight":                set("100", "200", "300", "400", "500", "600", "700", "800", "900", "bold", "bolder", "lighter", "normal"),
	"line-height":                set("normal"),
	"list-style-position":        set("inside", "outside"),
	"list-style-type":            listTypes,
	"list-style-image":           set("none"),
	"overflow":                   set("auto", "hidden", "scroll", "visible", "clip"),
	"position":                   set("absolute", "fixed", "relative", "static", "sticky"),
	"text-align":                 alignments,
	"text-decoration":            set("line-through", "none", "overline", "underline"),
	"text-overflow":              set("clip", "ellipsis"),
	"text-shadow":                set("none"),
	"box-shadow":                 set("none"),
	"vertical-align":             set("baseline", "bottom", "middle", "sub", "super", "text-bottom", "text-top", "top"),
	"visibility":                 set("collapse", "hidden", "visible"),
	"white-space":                set("normal", "nowrap", "pre", "pre-line", "pre-wrap", "break-spaces"),
	"width":                      set("auto", "max-content", "min-content", "fit-content"),
	"height":                     set("auto", "max-content", "min-content", "fit-content"),
	"max-width":                  set("none", "max-content", "min-content", "fit-content"),
	"max-height":                 set("none", "max-content", "min-content", "fit-content"),
	"min-width":                  set("auto", "max-content", "min-content", "fit-content"),
	"min-height":                 set("auto", "max-content", "min-content", "fit-content"),
	"margin":                     set("auto"),
	"margin-top":                 set("auto"),
	"margin-right":               set("auto"),
	"margin-bottom":              set("auto"),
	"margin-left":                set("auto"),
	"z-index":                    set("auto"),
}
