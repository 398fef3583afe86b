package parser

import (
	"strings"

	"dml-mapper/internal/lexer"
	"dml-mapper/internal/mapping"
)

// parseBlock parses `{ RuleStmt* }`.
func (p *Parser) parseBlock() ([]mapping.Statement, error) {
	if _, err := p.expect(lexer.LBrace, `"{"`); err != nil {
		return nil, err
	}

	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RBrace, `"}"`); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *Parser) parseStatements() ([]mapping.Statement, error) {
	var stmts []mapping.Statement

	for {
		var (
			parsed []mapping.Statement
			stmt   mapping.Statement
			err    error
		)

		switch p.peek().Kind {
		case lexer.RBrace, lexer.EOF:
			return stmts, nil
		case lexer.Map:
			stmt, err = p.parseMapRule()
		case lexer.Loop:
			stmt, err = p.parseLoopRule()
		case lexer.If:
			stmt, err = p.parseIfBlock()
		case lexer.Aggregate:
			parsed, err = p.parseAggregate()
		default:
			return nil, p.errorf(`rule ("map", "loop", "IF" or "AGGREGATE")`)
		}

		if err != nil {
			return nil, err
		}

		if stmt != nil {
			stmts = append(stmts, stmt)
		}

		stmts = append(stmts, parsed...)
	}
}

func (p *Parser) parseMapRule() (*mapping.MapRule, error) {
	start := p.next()
	rule := &mapping.MapRule{Pos: position(start)}

	for {
		ref, err := p.parseFieldRef(true)
		if err != nil {
			return nil, err
		}

		rule.Sources = append(rule.Sources, ref)

		if !p.accept(lexer.Comma) {
			break
		}
	}

	if _, err := p.expect(lexer.Arrow, `"->"`); err != nil {
		return nil, err
	}

	target, err := p.parseTargetRef()
	if err != nil {
		return nil, err
	}

	rule.Target = target

	if err := p.parseModifiers(rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// parseModifiers consumes trailing AS, TRANSFORM, IF, DEFAULT and ELSE in any
// order.
func (p *Parser) parseModifiers(rule *mapping.MapRule) error {
	for {
		tok := p.peek()

		switch tok.Kind {
		case lexer.As:
			p.next()

			typ, err := p.expect(lexer.Ident, "type name")
			if err != nil {
				return err
			}

			rule.CastType = typ.Text
			rule.CastPos = position(typ)
			rule.Modifiers = append(rule.Modifiers, mapping.Modifier{Kind: mapping.ModifierCast, Pos: position(tok)})
		case lexer.Transform:
			p.next()

			call, err := p.parseTransformCall()
			if err != nil {
				return err
			}

			rule.Transform = call
			rule.Modifiers = append(rule.Modifiers, mapping.Modifier{Kind: mapping.ModifierTransform, Pos: position(tok)})
		case lexer.If:
			mark := p.pos
			p.next()

			cond, err := p.parseCondition()
			if err != nil {
				return err
			}

			if p.peek().Kind == lexer.LBrace {
				// The IF opens a conditional block, not a modifier of this rule.
				p.pos = mark
				return nil
			}

			rule.Condition = cond
			rule.Modifiers = append(rule.Modifiers, mapping.Modifier{Kind: mapping.ModifierIf, Pos: position(tok)})
		case lexer.Default:
			p.next()

			lit, err := p.parseLiteral()
			if err != nil {
				return err
			}

			rule.Default = &lit
			rule.Modifiers = append(rule.Modifiers, mapping.Modifier{Kind: mapping.ModifierDefault, Pos: position(tok)})
		case lexer.Else:
			p.next()
			p.accept(lexer.Default)

			lit, err := p.parseLiteral()
			if err != nil {
				return err
			}

			rule.ElseDefault = &lit
			rule.Modifiers = append(rule.Modifiers, mapping.Modifier{Kind: mapping.ModifierElse, Pos: position(tok)})
		default:
			return nil
		}
	}
}

func (p *Parser) parseTransformCall() (*mapping.TransformCall, error) {
	name, err := p.expect(lexer.Ident, "transform name")
	if err != nil {
		return nil, err
	}

	call := &mapping.TransformCall{Name: strings.ToLower(name.Text), Pos: position(name)}

	if _, err := p.expect(lexer.LParen, `"("`); err != nil {
		return nil, err
	}

	if p.accept(lexer.RParen) {
		return call, nil
	}

	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)

		if p.accept(lexer.RParen) {
			return call, nil
		}

		if _, err := p.expect(lexer.Comma, `"," or ")"`); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseArg() (mapping.Arg, error) {
	if p.peek().Kind == lexer.Ident {
		ref, err := p.parseFieldRef(false)
		if err != nil {
			return mapping.Arg{}, err
		}

		return mapping.Arg{Field: &ref}, nil
	}

	lit, err := p.parseLiteral()
	if err != nil {
		return mapping.Arg{}, &ParseError{Token: p.peek(), Expected: "argument (literal or field)"}
	}

	return mapping.Arg{Literal: &lit}, nil
}

func (p *Parser) parseLoopRule() (*mapping.LoopRule, error) {
	start := p.next()

	coll, err := p.parseFieldRef(false)
	if err != nil {
		return nil, err
	}

	loop := &mapping.LoopRule{Collection: coll, Pos: position(start)}

	if p.accept(lexer.Arrow) {
		if loop.Target, err = p.parseTargetRef(); err != nil {
			return nil, err
		}
	} else {
		loop.Target = mapping.FieldRef{
			Path: mapping.FieldPath{Segments: []string{coll.Path.Last()}},
			Pos:  coll.Pos,
		}
	}

	if _, err := p.expect(lexer.LBrace, `"{"`); err != nil {
		return nil, err
	}

	if p.accept(lexer.SubRules) {
		p.accept(lexer.Colon)

		if loop.Rules, err = p.parseBlock(); err != nil {
			return nil, err
		}
	} else if loop.Rules, err = p.parseStatements(); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RBrace, `"}" closing loop`); err != nil {
		return nil, err
	}

	return loop, nil
}

func (p *Parser) parseIfBlock() (*mapping.IfBlock, error) {
	start := p.next()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	block := &mapping.IfBlock{Condition: cond, Pos: position(start)}

	if block.Then, err = p.parseBlock(); err != nil {
		return nil, err
	}

	if !p.accept(lexer.Else) {
		return block, nil
	}

	if p.peek().Kind == lexer.If {
		nested, err := p.parseIfBlock()
		if err != nil {
			return nil, err
		}

		block.Else = []mapping.Statement{nested}

		return block, nil
	}

	if block.Else, err = p.parseBlock(); err != nil {
		return nil, err
	}

	return block, nil
}

// parseAggregate parses either `AGGREGATE item` or `AGGREGATE { item* }`.
func (p *Parser) parseAggregate() ([]mapping.Statement, error) {
	p.next()

	if !p.accept(lexer.LBrace) {
		item, err := p.parseAggregateItem()
		if err != nil {
			return nil, err
		}

		return []mapping.Statement{item}, nil
	}

	var items []mapping.Statement

	for !p.accept(lexer.RBrace) {
		if p.peek().Kind == lexer.EOF {
			return nil, p.errorf(`"}" closing AGGREGATE`)
		}

		item, err := p.parseAggregateItem()
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

func (p *Parser) parseAggregateItem() (*mapping.AggregateRule, error) {
	start := p.peek()
	p.accept(lexer.Map)

	src, err := p.parseFieldRef(false)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.Arrow, `"->"`); err != nil {
		return nil, err
	}

	target, err := p.parseTargetRef()
	if err != nil {
		return nil, err
	}

	agg := &mapping.AggregateRule{Source: src, Target: target, Pos: position(start)}

	for {
		tok := p.peek()

		switch tok.Kind {
		case lexer.Function:
			p.next()

			name, err := p.expect(lexer.Ident, "aggregate function name")
			if err != nil {
				return nil, err
			}

			agg.Function = strings.ToLower(name.Text)
			agg.Modifiers = append(agg.Modifiers, mapping.Modifier{Kind: mapping.ModifierFunction, Pos: position(tok)})
		case lexer.As:
			p.next()

			typ, err := p.expect(lexer.Ident, "type name")
			if err != nil {
				return nil, err
			}

			agg.CastType = typ.Text
			agg.CastPos = position(typ)
			agg.Modifiers = append(agg.Modifiers, mapping.Modifier{Kind: mapping.ModifierCast, Pos: position(tok)})
		default:
			return agg, nil
		}
	}
}

// parseFieldRef parses `[alias ":"] path`. Quoted names are accepted as paths
// when quoted is true.
func (p *Parser) parseFieldRef(quoted bool) (mapping.FieldRef, error) {
	tok := p.peek()

	switch {
	case tok.Kind == lexer.Ident:
	case tok.Kind == lexer.String && quoted:
	default:
		return mapping.FieldRef{}, p.errorf("field reference")
	}

	p.next()

	ref := mapping.FieldRef{Pos: position(tok)}
	pathTok := tok

	if tok.Kind == lexer.Ident && p.peek().Kind == lexer.Colon {
		if strings.ContainsAny(tok.Text, "/.") {
			return mapping.FieldRef{}, &ParseError{Token: tok, Expected: "source alias", Detail: "aliases cannot contain '/' or '.'"}
		}

		p.next()

		pathTok = p.next()
		if pathTok.Kind != lexer.Ident && pathTok.Kind != lexer.String {
			return mapping.FieldRef{}, &ParseError{Token: pathTok, Expected: "field path after alias"}
		}

		ref.Alias = tok.Text
	}

	raw := pathTok.Text
	if pathTok.Kind == lexer.String {
		raw, _ = pathTok.Value.(string)
	}

	path, err := mapping.ParsePath(raw)
	if err != nil {
		return mapping.FieldRef{}, &ParseError{Token: pathTok, Expected: "field path", Detail: err.Error()}
	}

	ref.Path = path

	return ref, nil
}

func (p *Parser) parseTargetRef() (mapping.FieldRef, error) {
	tok := p.peek()

	ref, err := p.parseFieldRef(true)
	if err != nil {
		return ref, err
	}

	if ref.Alias != "" {
		return mapping.FieldRef{}, &ParseError{Token: tok, Expected: "target field path", Detail: "target fields are not alias-qualified"}
	}

	return ref, nil
}

func (p *Parser) parseLiteral() (mapping.Literal, error) {
	tok := p.peek()

	switch tok.Kind {
	case lexer.String, lexer.Number, lexer.Bool, lexer.Null:
		p.next()
		return literal(tok), nil
	default:
		return mapping.Literal{}, p.errorf("literal")
	}
}
