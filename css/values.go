package css

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"cssopt/properties"
)

// valueAtoms converts declaration value tokens into atoms: top level
// whitespace separates literals, commas and slashes become separators,
// function calls and bracketed groups stay single literals and "!" sticks
// to the following identifier. Whitespace inside functions survives only
// where the parser keeps it, which is around calc() operators.
func valueAtoms(tokens []css.Token, pos properties.Position) []properties.Atom {
	var (
		out   []properties.Atom
		cur   strings.Builder
		depth int
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, properties.Literal(cur.String(), pos))
			cur.Reset()
		}
	}

	for _, t := range tokens {
		data := string(t.Data)
		if depth > 0 {
			switch t.TokenType {
			case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
				depth++
			case css.RightParenthesisToken, css.RightBracketToken:
				depth--
			case css.WhitespaceToken:
				data = " "
			case css.CommentToken:
				continue
			}
			cur.WriteString(data)
			continue
		}

		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
			if cur.String() != "!" {
				flush()
			}
		case css.CommaToken:
			flush()
			out = append(out, properties.Comma())
		case css.DelimToken:
			switch data {
			case "/":
				flush()
				out = append(out, properties.Slash())
			case "!":
				flush()
				cur.WriteString(data)
			default:
				cur.WriteString(data)
			}
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
			cur.WriteString(data)
		default:
			cur.WriteString(data)
		}
	}
	flush()
	return out
}

// tokensText joins tokens collapsing whitespace runs into single space.
func tokensText(tokens []css.Token) string {
	var sb strings.Builder
	space := false
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken:
			space = true
			continue
		case css.CommentToken:
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.Write(t.Data)
	}
	return sb.String()
}
