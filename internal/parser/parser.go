package parser

import (
	"strings"

	"dml-mapper/internal/lexer"
	"dml-mapper/internal/mapping"
)

// Parser consumes a token slice produced by lexer.Tokenize.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New returns a parser over tokens. The slice must end with an EOF token.
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		tokens = append(tokens, lexer.Token{Kind: lexer.EOF})
	}

	return &Parser{tokens: tokens}
}

// Parse parses a complete mapping document.
func Parse(tokens []lexer.Token) (*mapping.Mapping, error) {
	return New(tokens).ParseMapping()
}

// ParseString lexes and parses text.
func ParseString(text string) (*mapping.Mapping, error) {
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}

	return Parse(tokens)
}

// ParseMapping parses `MAPPING name { ... }` followed by EOF.
func (p *Parser) ParseMapping() (*mapping.Mapping, error) {
	start, err := p.expect(lexer.Mapping, `"MAPPING"`)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.Ident, "mapping name")
	if err != nil {
		return nil, err
	}

	m := &mapping.Mapping{Name: name.Text, Pos: position(start)}

	if _, err := p.expect(lexer.LBrace, `"{"`); err != nil {
		return nil, err
	}

	for p.peek().Kind == lexer.Source {
		src, err := p.parseSource()
		if err != nil {
			return nil, err
		}

		m.Sources = append(m.Sources, src)
	}

	if len(m.Sources) == 0 {
		return nil, p.errorf(`"SOURCE"`)
	}

	assignImplicitAlias(m.Sources)

	if p.peek().Kind == lexer.Component {
		m.Component, err = p.parseComponent()
		if err != nil {
			return nil, err
		}
	}

	if m.Target, err = p.parseTarget(); err != nil {
		return nil, err
	}

	rules, err := p.expect(lexer.Rules, `"RULES"`)
	if err != nil {
		return nil, err
	}

	m.RulesPos = position(rules)

	if m.Rules, err = p.parseBlock(); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RBrace, `"}" closing MAPPING`); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.EOF, "end of input"); err != nil {
		return nil, err
	}

	return m, nil
}

// assignImplicitAlias names the first unaliased source "main". Further
// unaliased sources keep an empty alias and are reported by the validator.
func assignImplicitAlias(sources []*mapping.SourceDecl) {
	for _, s := range sources {
		if s.Alias == "" {
			s.Alias = mapping.DefaultAlias
			s.ImplicitAlias = true

			return
		}
	}
}

func (p *Parser) parseSource() (*mapping.SourceDecl, error) {
	start := p.next()

	format, err := p.parseFormat()
	if err != nil {
		return nil, err
	}

	src := &mapping.SourceDecl{Format: format, Pos: position(start)}

	if p.accept(lexer.As) {
		alias, err := p.expect(lexer.Ident, "source alias")
		if err != nil {
			return nil, err
		}

		if strings.ContainsAny(alias.Text, "/.") {
			return nil, &ParseError{Token: alias, Expected: "source alias", Detail: "aliases cannot contain '/' or '.'"}
		}

		src.Alias = alias.Text
	}

	if src.Config, err = p.parseConfigBlock(); err != nil {
		return nil, err
	}

	return src, nil
}

func (p *Parser) parseTarget() (*mapping.TargetDecl, error) {
	start, err := p.expect(lexer.Target, `"TARGET"`)
	if err != nil {
		return nil, err
	}

	format, err := p.parseFormat()
	if err != nil {
		return nil, err
	}

	cfg, err := p.parseConfigBlock()
	if err != nil {
		return nil, err
	}

	return &mapping.TargetDecl{Format: format, Config: cfg, Pos: position(start)}, nil
}

func (p *Parser) parseComponent() (*mapping.ComponentDecl, error) {
	start := p.next()

	kind := p.next()
	if kind.Kind != lexer.Ident || !strings.EqualFold(kind.Text, "DB") {
		return nil, &ParseError{Token: kind, Expected: `"DB"`}
	}

	cfg, err := p.parseConfigBlock()
	if err != nil {
		return nil, err
	}

	comp := &mapping.ComponentDecl{
		Kind:     strings.ToUpper(kind.Text),
		Config:   cfg,
		Pos:      position(start),
		QueryPos: position(start),
	}

	if e, ok := cfg.Lookup("query"); ok && !e.IsBlock() {
		comp.Query = e.Value.Text()
		comp.QueryPos = e.Value.Pos
	}

	if e, ok := cfg.Lookup("schema"); ok && !e.IsBlock() {
		comp.Schema, err = mapping.ParseSchema(e.Value.Text())
		if err != nil {
			tok := lexer.Token{
				Kind: lexer.String,
				Text: e.Value.String(),
				Pos:  lexer.Pos{Line: e.Value.Pos.Line, Column: e.Value.Pos.Column},
			}

			return nil, &ParseError{Token: tok, Expected: `column list "name TYPE, ..."`, Detail: err.Error()}
		}
	}

	return comp, nil
}

func (p *Parser) parseFormat() (mapping.Format, error) {
	tok := p.next()
	if tok.Kind == lexer.Ident {
		if f, ok := mapping.ParseFormat(tok.Text); ok {
			return f, nil
		}
	}

	return mapping.FormatUnknown, &ParseError{Token: tok, Expected: "format (XML, CSV, DB, EDI, JSON)"}
}

// parseConfigBlock parses `{ key: value, ... }`. Colons and commas are optional.
func (p *Parser) parseConfigBlock() (mapping.Config, error) {
	if _, err := p.expect(lexer.LBrace, `"{"`); err != nil {
		return nil, err
	}

	cfg := mapping.Config{}

	for {
		tok := p.peek()

		switch {
		case tok.Kind == lexer.RBrace:
			p.next()

			return cfg, nil
		case tok.Kind == lexer.Ident || tok.Kind == lexer.String || tok.Kind.IsKeyword():
			p.next()
		default:
			return nil, p.errorf(`configuration key or "}"`)
		}

		entry := mapping.ConfigEntry{Key: keyText(tok), Pos: position(tok)}

		p.accept(lexer.Colon)

		value := p.peek()

		switch value.Kind {
		case lexer.LBrace:
			block, err := p.parseConfigBlock()
			if err != nil {
				return nil, err
			}

			entry.Block = block
		case lexer.Ident:
			p.next()
			entry.Value = mapping.Literal{Kind: mapping.LiteralString, Value: value.Text, Bare: true, Pos: position(value)}
		case lexer.String, lexer.Number, lexer.Bool, lexer.Null:
			p.next()
			entry.Value = literal(value)
		default:
			return nil, p.errorf("configuration value")
		}

		cfg = append(cfg, entry)

		p.accept(lexer.Comma)
	}
}

func keyText(tok lexer.Token) string {
	if tok.Kind == lexer.String {
		s, _ := tok.Value.(string)
		return s
	}

	return tok.Text
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) next() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}

	return tok
}

func (p *Parser) accept(kind lexer.Kind) bool {
	if p.peek().Kind == kind {
		p.next()
		return true
	}

	return false
}

func (p *Parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, &ParseError{Token: tok, Expected: what}
	}

	p.next()

	return tok, nil
}

func (p *Parser) errorf(expected string) *ParseError {
	return &ParseError{Token: p.peek(), Expected: expected}
}

func position(tok lexer.Token) mapping.Position {
	return mapping.Position{Line: tok.Pos.Line, Column: tok.Pos.Column}
}

func literal(tok lexer.Token) mapping.Literal {
	lit := mapping.Literal{Value: tok.Value, Pos: position(tok)}

	switch tok.Kind {
	case lexer.String:
		lit.Kind = mapping.LiteralString
	case lexer.Number:
		if _, ok := tok.Value.(float64); ok {
			lit.Kind = mapping.LiteralFloat
		} else {
			lit.Kind = mapping.LiteralInt
		}
	case lexer.Bool:
		lit.Kind = mapping.LiteralBool
	default:
		lit.Kind = mapping.LiteralNull
		lit.Value = nil
	}

	return lit
}
