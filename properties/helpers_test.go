package properties_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"cssopt/compat"
	"cssopt/properties"
	"cssopt/validator"
)

func newEngine(t *testing.T, p *compat.Profile, opts properties.Options) *properties.Engine {
	t.Helper()
	return properties.New(zaptest.NewLogger(t), validator.New(p), p, opts)
}

func defaultEngine(t *testing.T) *properties.Engine {
	t.Helper()
	return newEngine(t, nil, properties.DefaultOptions())
}

// atoms splits value text on top level whitespace, commas and slashes.
func atoms(value string) []properties.Atom {
	var (
		out   []properties.Atom
		cur   strings.Builder
		depth int
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, properties.Literal(cur.String()))
			cur.Reset()
		}
	}
	for _, r := range value {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			cur.WriteRune(r)
		case depth > 0:
			cur.WriteRune(r)
		case r == ' ':
			flush()
		case r == ',':
			flush()
			out = append(out, properties.Comma())
		case r == '/':
			flush()
			out = append(out, properties.Slash())
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func decl(name, value string) properties.Declaration {
	return properties.Wrap(name, atoms(value))
}

// body parses "a:b;c:d" into declarations.
func body(text string) []properties.Declaration {
	var out []properties.Declaration
	for part := range strings.SplitSeq(text, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		name, value, _ := strings.Cut(part, ":")
		value = strings.ReplaceAll(value, "!important", " !important")
		out = append(out, decl(strings.TrimSpace(name), strings.TrimSpace(value)))
	}
	return out
}

func render(list []properties.Declaration) string {
	parts := make([]string, 0, len(list))
	for _, d := range properties.Live(list) {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ";")
}
