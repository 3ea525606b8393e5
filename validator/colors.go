package validator

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// IsColor reports whether value is a color understood by target browsers.
func (v *Validator) IsColor(value string) bool {
	if name, ok := functionName(value); ok {
		switch name {
		case "rgb", "hsl":
			return true
		case "rgba", "hsla", "hwb", "lab", "lch", "oklab", "oklch", "color", "color-mix":
			return v.compat.Colors.Opacity
		}
		return false
	}
	t, ok := single(value)
	if !ok {
		return false
	}
	switch t.tt {
	case css.HashToken:
		switch len(t.data) - 1 {
		case 3, 6:
			return isHex(t.data[1:])
		case 4, 8:
			return v.compat.Colors.HexAlpha && isHex(t.data[1:])
		}
	case css.IdentToken:
		_, ok := namedColors[strings.ToLower(t.data)]
		return ok
	}
	return false
}

// IsColorFunction reports whether value is rgb()/rgba()/hsl()/hsla() call.
func (v *Validator) IsColorFunction(value string) bool {
	switch v.FunctionName(value) {
	case "rgb", "rgba", "hsl", "hsla":
		return true
	}
	return false
}

// IsHexAlphaColor reports whether value is four or eight digit hex color.
func (v *Validator) IsHexAlphaColor(value string) bool {
	t, ok := single(value)
	if !ok || t.tt != css.HashToken {
		return false
	}
	n := len(t.data) - 1
	return (n == 4 || n == 8) && isHex(t.data[1:])
}

// HasOpacity reports whether color value carries alpha channel.
func (v *Validator) HasOpacity(value string) bool {
	if v.IsHexAlphaColor(value) {
		return true
	}
	switch v.FunctionName(value) {
	case "rgba", "hsla":
		return true
	case "rgb", "hsl":
		return strings.Contains(value, "/") || strings.Count(value, ",") == 3
	}
	return strings.EqualFold(value, "transparent")
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

var namedColors = map[string]struct{}{
	"transparent": {}, "currentcolor": {},
	"aliceblue": {}, "antiquewhite": {}, "aqua": {}, "aquamarine": {}, "azure": {},
	"beige": {}, "bisque": {}, "black": {}, "blanchedalmond": {}, "blue": {},
	"blueviolet": {}, "brown": {}, "burlywood": {}, "cadetblue": {}, "chartreuse": {},
	"chocolate": {}, "coral": {}, "cornflowerblue": {}, "cornsilk": {}, "crimson": {},
	"cyan": {}, "darkblue": {}, "darkcyan": {}, "darkgoldenrod": {}, "darkgray": {},
	"darkgreen": {}, "darkgrey": {}, "darkkhaki": {}, "darkmagenta": {}, "darkolivegreen": {},
	"darkorange": {}, "darkorchid": {}, "darkred": {}, "darksalmon": {}, "darkseagreen": {},
	"darkslateblue": {}, "darkslategray": {}, "darkslategrey": {}, "darkturquoise": {}, "darkviolet": {},
	"deeppink": {}, "deepskyblue": {}, "dimgray": {}, "dimgrey": {}, "dodgerblue": {},
	"firebrick": {}, "floralwhite": {}, "forestgreen": {}, "fuchsia": {}, "gainsboro": {},
	"ghostwhite": {}, "gold": {}, "goldenrod": {}, "gray": {}, "green": {},
	"greenyellow": {}, "grey": {}, "honeydew": {}, "hotpink": {}, "indianred": {},
	"indigo": {}, "ivory": {}, "khaki": {}, "lavender": {}, "lavenderblush": {},
	"lawngreen": {}, "lemonchiffon": {}, "lightblue": {}, "lightcoral": {}, "lightcyan": {},
	"lightgoldenrodyellow": {}, "lightgray": {}, "lightgreen": {}, "lightgrey": {}, "lightpink": {},
	"lightsalmon": {}, "lightseagreen": {}, "lightskyblue": {}, "lightslategray": {}, "lightslategrey": {},
	"lightsteelblue": {}, "lightyellow": {}, "lime": {}, "limegreen": {}, "linen": {},
	"magenta": {}, "maroon": {}, "mediumaquamarine": {}, "mediumblue": {}, "mediumorchid": {},
	"mediumpurple": {}, "mediumseagreen": {}, "mediumslateblue": {}, "mediumspringgreen": {}, "mediumturquoise": {},
	"mediumvioletred": {}, "midnightblue": {}, "mintcream": {}, "mistyrose": {}, "moccasin": {},
	"navajowhite": {}, "navy": {}, "oldlace": {}, "olive": {}, "olivedrab": {},
	"orange": {}, "orangered": {}, "orchid": {}, "palegoldenrod": {}, "palegreen": {},
	"paleturquoise": {}, "palevioletred": {}, "papayawhip": {}, "peachpuff": {}, "peru": {},
	"pink": {}, "plum": {}, "powderblue": {}, "purple": {}, "rebeccapurple": {},
	"red": {}, "rosybrown": {}, "royalblue": {}, "saddlebrown": {}, "salmon": {},
	"sandybrown": {}, "seagreen": {}, "seashell": {}, "sienna": {}, "silver": {},
	"skyblue": {}, "slateblue": {}, "slategray": {}, "slategrey": {}, "snow": {},
	"springgreen": {}, "steelblue": {}, "tan": {}, "teal": {}, "thistle": {},
	"tomato": {}, "turquoise": {}, "violet": {}, "wheat": {}, "white": {},
	"whitesmoke": {}, "yellow": {}, "yellowgreen": {},
}
