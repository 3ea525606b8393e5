package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"cssopt/properties"
)

// pseudo-elements which may be written with a single colon
var legacyPseudoElements = map[string]bool{
	"before": true, "after": true, "first-line": true, "first-letter": true,
}

// Specificity computes (ids, classes, elements) of a single selector.
// Arguments of :is(), :not() and :has() count as their most specific
// alternative and :where() counts as nothing.
func Specificity(selector string) properties.Specificity {
	var spec properties.Specificity
	l := css.NewLexer(parse.NewInputString(selector))

	colons, dot := 0, false
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return spec
		}
		switch tt {
		case css.ColonToken:
			colons++
			continue
		case css.DelimToken:
			if string(data) == "." {
				dot = true
				continue
			}
		case css.HashToken:
			spec[0]++
		case css.LeftBracketToken:
			spec[1]++
			skipGroup(l)
		case css.IdentToken:
			name := strings.ToLower(string(data))
			switch {
			case dot:
				spec[1]++
			case colons == 1 && legacyPseudoElements[name]:
				spec[2]++
			case colons == 1:
				spec[1]++
			default:
				// type selector or pseudo-element
				spec[2]++
			}
		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(string(data), "("))
			args := skipGroup(l)
			switch {
			case colons >= 2:
				spec[2]++
			case colons == 1 && (name == "is" || name == "not" || name == "has" || name == "matches" || name == "-webkit-any" || name == "-moz-any"):
				spec = add(spec, mostSpecific(args))
			case colons == 1 && name == "where":
			case colons == 1 && strings.HasPrefix(name, "nth-"):
				spec[1]++
				if _, of, ok := strings.Cut(args, " of "); ok {
					spec = add(spec, mostSpecific(of))
				}
			default:
				spec[1]++
			}
		}
		colons, dot = 0, false
	}
}

// skipGroup consumes tokens up to the matching closing bracket or
// parenthesis and returns their text.
func skipGroup(l *css.Lexer) string {
	var sb strings.Builder
	depth := 1
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return sb.String()
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
			if depth == 0 {
				return sb.String()
			}
		}
		sb.Write(data)
	}
}

func mostSpecific(list string) properties.Specificity {
	var best properties.Specificity
	for _, sel := range SplitSelectors(list) {
		if s := Specificity(sel); s.Compare(best) > 0 {
			best = s
		}
	}
	return best
}

func add(a, b properties.Specificity) properties.Specificity {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// SplitSelectors splits selector list on top level commas.
func SplitSelectors(list string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				if s := strings.TrimSpace(list[start:i]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(list[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
