package parser

import (
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// CASE expressions.
//
// Grammar:
//
//	case → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//
// The CASE is simple when a value expression precedes the first WHEN.

func (p *Parser) parseCase() (core.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if _, err := p.cur.ExpectKeyword(token.CASE); err != nil {
		return nil, err
	}

	var value core.Expr
	if !p.cur.CheckKeyword(token.WHEN) {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		value = v
	}

	var whens []*core.CaseWhen
	for p.cur.MatchKeyword(token.WHEN) {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.cur.ExpectKeyword(token.THEN); err != nil {
			return nil, err
		}
		result, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		whens = append(whens, &core.CaseWhen{Condition: cond, Result: result})
	}
	if len(whens) == 0 {
		return nil, p.cur.Errorf(ErrExpectedKeyword, token.WHEN)
	}

	var elseExpr core.Expr
	if p.cur.MatchKeyword(token.ELSE) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elseExpr = e
	}

	if _, err := p.cur.ExpectKeyword(token.END); err != nil {
		return nil, err
	}
	return core.NewCase(value, whens, elseExpr), nil
}
