package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"cssopt/properties"
)

// Parser parses CSS stylesheets into rules and blocks.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// session holds state of a single Parse call.
type session struct {
	parser *css.Parser
	input  *parse.Input
	lines  *lineIndex
	sheet  *Stylesheet
	// offset of the last reported error, used to detect lack of progress
	lastError int
}

func (s *session) warn(offset int, format string, args ...any) {
	s.sheet.Warnings = append(s.sheet.Warnings, s.lines.position(offset).String()+": "+fmt.Sprintf(format, args...))
}

// recover reports parse error and tells whether parsing may go on.
func (s *session) recover(before int) bool {
	err := s.parser.Err()
	if err == nil || errors.Is(err, io.EOF) {
		return false
	}
	offset := s.input.Offset()
	if offset <= s.lastError && offset == before {
		return false
	}
	s.lastError = offset
	s.warn(before, "%v", err)
	return true
}

// Parse parses CSS text into a Stylesheet. Parsing never fails: problems
// are collected as warnings and the offending construct is skipped.
// The optional source parameter names the input in positions and logs.
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	name := ""
	if len(source) > 0 {
		name = source[0]
	}
	if name != "" {
		p.log.Debug("Parsing CSS", zap.String("source", name), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	s := &session{
		parser:    css.NewParser(input, false),
		input:     input,
		lines:     newLineIndex(name, data),
		sheet:     &Stylesheet{Items: make([]Item, 0), Warnings: make([]string, 0)},
		lastError: -1,
	}
	s.sheet.Items = p.parseItems(s, false)

	if len(s.sheet.Warnings) > 0 {
		p.log.Debug("CSS parsed with warnings", zap.String("source", name), zap.Int("warnings", len(s.sheet.Warnings)))
	}
	return s.sheet
}

// parseItems reads rules and at-rules until end of input or, when nested,
// end of the enclosing block.
func (p *Parser) parseItems(s *session, nested bool) []Item {
	items := make([]Item, 0)
	var (
		selectors []string
		start     int
	)

	for {
		before := s.input.Offset()
		gt, _, data := s.parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if !s.recover(before) {
				return items
			}

		case css.EndAtRuleGrammar:
			if nested {
				return items
			}
			s.warn(before, "unexpected end of block")

		case css.CommentGrammar:
			if bytes.HasPrefix(data, []byte("/*!")) {
				items = append(items, Item{Comment: string(data)})
			}

		case css.AtRuleGrammar:
			items = append(items, Item{AtRule: &AtRule{
				Name:    strings.ToLower(string(data)),
				Prelude: tokensText(s.parser.Values()),
			}})

		case css.BeginAtRuleGrammar:
			block := &Block{
				Name:     strings.ToLower(string(data)),
				Prelude:  tokensText(s.parser.Values()),
				Position: s.lines.position(before),
			}
			if block.HoldsDeclarations() {
				block.Declarations = p.parseDeclarations(s, css.EndAtRuleGrammar)
			} else {
				block.Items = p.parseItems(s, true)
			}
			p.log.Debug("Parsed block", zap.String("name", block.Name), zap.String("prelude", block.Prelude))
			items = append(items, Item{Block: block})

		case css.QualifiedRuleGrammar:
			if len(selectors) == 0 {
				start = before
			}
			selectors = append(selectors, SplitSelectors(tokensText(s.parser.Values()))...)

		case css.BeginRulesetGrammar:
			if len(selectors) == 0 {
				start = before
			}
			if sel := tokensText(s.parser.Values()); sel != "{" {
				// selector list arrives as a single prelude
				selectors = append(selectors, SplitSelectors(sel)...)
			}
			rule := &Rule{Selectors: selectors, Position: s.lines.position(start)}
			rule.Declarations = p.parseDeclarations(s, css.EndRulesetGrammar)
			if len(rule.Selectors) == 0 {
				s.warn(before, "rule without selector dropped")
			} else {
				items = append(items, Item{Rule: rule})
			}
			selectors = nil

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			s.warn(before, "declaration %q outside of rule dropped", string(data))

		case css.EndRulesetGrammar:
			s.warn(before, "unexpected end of rule")
		}
	}
}

// parseDeclarations reads declaration list until end grammar.
func (p *Parser) parseDeclarations(s *session, end css.GrammarType) []properties.Declaration {
	decls := make([]properties.Declaration, 0)

	for {
		before := s.input.Offset()
		gt, _, data := s.parser.Next()

		switch gt {
		case end:
			return decls

		case css.ErrorGrammar:
			if !s.recover(before) {
				return decls
			}

		case css.DeclarationGrammar:
			pos := s.lines.position(before)
			decls = append(decls, properties.Wrap(string(data), valueAtoms(s.parser.Values(), pos), pos))

		case css.CustomPropertyGrammar:
			decls = append(decls, p.customProperty(s, string(data), s.parser.Values(), s.lines.position(before)))

		case css.BeginRulesetGrammar, css.BeginAtRuleGrammar:
			// nested rules are not part of declaration lists
			s.warn(before, "nested rule dropped")
			p.skipBlock(s)
		}
	}
}

// customProperty keeps custom property value opaque. A value in braces is
// parsed as nested declaration list.
func (p *Parser) customProperty(s *session, name string, tokens []css.Token, pos properties.Position) properties.Declaration {
	var raw strings.Builder
	for _, t := range tokens {
		raw.Write(t.Data)
	}
	value := strings.TrimSpace(raw.String())

	var atoms []properties.Atom
	if n := len("!important"); len(value) >= n && strings.EqualFold(value[len(value)-n:], "!important") {
		value = strings.TrimSpace(value[:len(value)-n])
		atoms = append(atoms, properties.Literal("!important"))
	}

	if strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}") {
		d := properties.Wrap(name, atoms, pos)
		d.Block = true
		d.Nested = p.parseInline(value[1:len(value)-1], s.lines.source)
		return d
	}
	if value != "" {
		atoms = append([]properties.Atom{properties.Literal(value, pos)}, atoms...)
	}
	return properties.Wrap(name, atoms, pos)
}

// parseInline parses bare declaration list, as found inside custom property
// blocks.
func (p *Parser) parseInline(text, source string) []properties.Declaration {
	data := []byte(text)
	input := parse.NewInput(bytes.NewReader(data))
	s := &session{
		parser:    css.NewParser(input, true),
		input:     input,
		lines:     newLineIndex(source, data),
		sheet:     &Stylesheet{},
		lastError: -1,
	}
	decls := p.parseDeclarations(s, css.ErrorGrammar)
	for _, w := range s.sheet.Warnings {
		p.log.Debug("Custom property block", zap.String("warning", w))
	}
	return decls
}

// skipBlock consumes tokens up to the end of current block.
func (p *Parser) skipBlock(s *session) {
	depth := 1
	for depth > 0 {
		before := s.input.Offset()
		gt, _, _ := s.parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if !s.recover(before) {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}
