package parser

import (
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// Expression parsing by precedence climbing.
//
// Grammar, lowest to highest precedence:
//
//	expr           → additive ((AND | OR) additive)*
//	additive       → multiplicative (("+" | "-") multiplicative)*
//	multiplicative → comparison (("*" | "/") comparison)*
//	comparison     → primary [cmp_op primary] [IS [NOT] NULL]
//	cmp_op         → "=" | "<>" | "!=" | "<" | "<=" | ">" | ">="
//
// Comparison binds tighter than arithmetic, so a + b = c is a + (b = c).
// AND and OR share one level and are flattened into a single LogicalExpr.

// binaryOps maps operator tokens to their canonical spelling.
var binaryOps = map[token.TokenType]string{
	token.PLUS:  "+",
	token.MINUS: "-",
	token.STAR:  "*",
	token.SLASH: "/",
	token.EQ:    "=",
	token.NE:    "<>",
	token.LT:    "<",
	token.LE:    "<=",
	token.GT:    ">",
	token.GE:    ">=",
}

// parseExpression parses a full expression.
func (p *Parser) parseExpression() (core.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseLogical()
}

func (p *Parser) parseLogical() (core.Expr, error) {
	first, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	operands := []core.Expr{first}
	var operators []core.LogicalOp
	for {
		var op core.LogicalOp
		switch {
		case p.cur.MatchKeyword(token.AND):
			op = core.LogicalAnd
		case p.cur.MatchKeyword(token.OR):
			op = core.LogicalOr
		default:
			if len(operands) == 1 {
				return first, nil
			}
			return core.NewLogical(operands, operators), nil
		}

		next, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
		operators = append(operators, op)
	}
}

func (p *Parser) parseAdditive() (core.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Check(token.PLUS) || p.cur.Check(token.MINUS) {
		op := binaryOps[p.cur.Consume().Type]
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = core.NewBinary(left, op, right)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (core.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur.Check(token.STAR) || p.cur.Check(token.SLASH) {
		op := binaryOps[p.cur.Consume().Type]
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = core.NewBinary(left, op, right)
	}
	return left, nil
}

func (p *Parser) parseComparison() (core.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if token.IsComparison(p.cur.Current().Type) {
		op := binaryOps[p.cur.Consume().Type]
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = core.NewBinary(left, op, right)
	}

	if p.cur.MatchKeyword(token.IS) {
		not := p.cur.MatchKeyword(token.NOT)
		if !p.cur.MatchKeyword(token.NULL) {
			return nil, p.cur.Errorf(ErrExpectedNull)
		}
		left = core.NewIsNull(left, not)
	}

	return left, nil
}
