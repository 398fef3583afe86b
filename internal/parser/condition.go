package parser

import (
	"dml-mapper/internal/lexer"
	"dml-mapper/internal/mapping"
)

var compareOps = map[lexer.Kind]mapping.CompareOp{
	lexer.Eq:  mapping.OpEq,
	lexer.Neq: mapping.OpNeq,
	lexer.Gt:  mapping.OpGt,
	lexer.Gte: mapping.OpGte,
	lexer.Lt:  mapping.OpLt,
	lexer.Lte: mapping.OpLte,
}

// parseCondition parses an expression where comparisons bind tighter than
// NOT, NOT tighter than AND, and AND tighter than OR.
func (p *Parser) parseCondition() (mapping.Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (mapping.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == lexer.Or {
		op := p.next()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &mapping.LogicalExpr{Op: mapping.OpOr, Left: left, Right: right, Pos: position(op)}
	}

	return left, nil
}

func (p *Parser) parseAnd() (mapping.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.peek().Kind == lexer.And {
		op := p.next()

		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		left = &mapping.LogicalExpr{Op: mapping.OpAnd, Left: left, Right: right, Pos: position(op)}
	}

	return left, nil
}

func (p *Parser) parseNot() (mapping.Expr, error) {
	if p.peek().Kind != lexer.Not {
		return p.parseComparison()
	}

	op := p.next()

	x, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	return &mapping.NotExpr{X: x, Pos: position(op)}, nil
}

func (p *Parser) parseComparison() (mapping.Expr, error) {
	if p.accept(lexer.LParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.RParen, `")"`); err != nil {
			return nil, err
		}

		return inner, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	op, ok := compareOps[p.peek().Kind]
	if !ok {
		return left, nil
	}

	opTok := p.next()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	return &mapping.CompareExpr{Op: op, Left: left, Right: right, Pos: position(opTok)}, nil
}

func (p *Parser) parseOperand() (mapping.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case lexer.Ident:
		ref, err := p.parseFieldRef(false)
		if err != nil {
			return nil, err
		}

		return &mapping.FieldExpr{Ref: ref}, nil
	case lexer.String, lexer.Number, lexer.Bool, lexer.Null:
		p.next()
		return &mapping.LiteralExpr{Value: literal(tok)}, nil
	default:
		return nil, p.errorf("condition operand")
	}
}
