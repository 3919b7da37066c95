package parser

import (
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// Primary expressions.
//
// Grammar:
//
//	primary  → PARAMETER | STRING | NUMBER | "-" NUMBER | NULL
//	         | case
//	         | name "(" [args] ")"
//	         | name "." (name | "*")
//	         | name | "*"
//	         | "(" expr ")"
//	args     → expr ("," expr)*

func (p *Parser) parsePrimary() (core.Expr, error) {
	tok := p.cur.Current()

	switch tok.Type {
	case token.PARAMETER:
		p.cur.Consume()
		return core.NewParameter(tok.Literal), nil

	case token.STRING:
		p.cur.Consume()
		return core.NewLiteral(core.LiteralString, tok.Text()), nil

	case token.NUMBER:
		p.cur.Consume()
		return core.NewLiteral(core.LiteralNumber, tok.Literal), nil

	case token.MINUS:
		if next := p.cur.LookAhead(1); next.Type == token.NUMBER {
			p.cur.Consume()
			p.cur.Consume()
			return core.NewLiteral(core.LiteralNumber, "-"+next.Literal), nil
		}

	case token.STAR:
		p.cur.Consume()
		return core.NewColumnRef("", "*"), nil

	case token.LPAREN:
		p.cur.Consume()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.cur.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case token.KEYWORD:
		switch {
		case tok.Is(token.NULL):
			p.cur.Consume()
			return core.NewLiteral(core.LiteralNull, "NULL"), nil
		case tok.Is(token.CASE):
			return p.parseCase()
		}
	}

	if isFunctionName(tok) && p.cur.LookAhead(1).Type == token.LPAREN {
		return p.parseFunctionCall()
	}

	if isIdentLike(tok) {
		return p.parseColumnRef()
	}

	return nil, p.cur.Errorf(ErrExpectedExpression)
}

// parseColumnRef parses name, name.name or name.*.
func (p *Parser) parseColumnRef() (core.Expr, error) {
	first := p.cur.Consume()
	if !p.cur.Match(token.DOT) {
		return core.NewColumnRef("", first.Text()), nil
	}

	if p.cur.Match(token.STAR) {
		return core.NewColumnRef(first.Text(), "*"), nil
	}
	col := p.cur.Current()
	if !isIdentLike(col) {
		return nil, p.cur.Errorf(ErrExpectedIdentifier)
	}
	p.cur.Consume()
	return core.NewColumnRef(first.Text(), col.Text()), nil
}

// parseFunctionCall parses name(args). Functions that take a date part
// read their first argument as a bare keyword literal.
func (p *Parser) parseFunctionCall() (core.Expr, error) {
	nameTok := p.cur.Consume()
	p.cur.Consume() // (

	var args []core.Expr
	if p.cur.Match(token.RPAREN) {
		return core.NewFunctionCall(nameTok.Text(), args), nil
	}

	more := true
	if kw, ok := nameTok.Keyword(); ok && kw.TakesDatePart() {
		part, err := p.parseDatePart()
		if err != nil {
			return nil, err
		}
		args = append(args, part)
		more = p.cur.Match(token.COMMA)
	}

	for more {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		more = p.cur.Match(token.COMMA)
	}

	if _, err := p.cur.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return core.NewFunctionCall(nameTok.Text(), args), nil
}

// parseDatePart parses DAY, MONTH, YEAR, HOUR, MINUTE or SECOND as a literal.
func (p *Parser) parseDatePart() (core.Expr, error) {
	tok := p.cur.Current()
	kw, ok := tok.Keyword()
	if !ok || !kw.IsDatePart() {
		return nil, p.cur.Errorf(ErrDatePartExpected)
	}
	p.cur.Consume()
	return core.NewLiteral(core.LiteralKeyword, kw.String()), nil
}
