package parser

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// Statement parsing.
//
// Grammar:
//
//	statement   → SELECT [DISTINCT] column_list FROM table_source join* [WHERE expr] [";"]
//	column_list → column ("," column)*
//	column      → (case | expr) [AS (name | STRING) | IDENT]
//
// A column must end at ",", FROM or EOF. Any failure inside a column is
// recovered locally: the column becomes an UnparseableExpression_<n>
// placeholder and parsing resumes at the next top-level "," or FROM.

// unparseablePrefix names recovery placeholders.
const unparseablePrefix = "UnparseableExpression_"

// operatorNames names expression columns by their top-level operator.
var operatorNames = map[string]string{
	"+":  "Concatenation",
	"-":  "Subtraction",
	"*":  "Multiplication",
	"/":  "Division",
	"=":  "Equal",
	"<>": "NotEqual",
	"<":  "LessThan",
	"<=": "LessThanOrEqual",
	">":  "GreaterThan",
	">=": "GreaterThanOrEqual",
}

// columnResult is the outcome of parsing one select item.
type columnResult struct {
	col *core.Column
	err error
}

func (p *Parser) parseStatement() (*core.Statement, error) {
	if _, err := p.cur.ExpectKeyword(token.SELECT); err != nil {
		return nil, err
	}

	stmt := &core.Statement{}
	stmt.Distinct = p.cur.MatchKeyword(token.DISTINCT)

	if err := p.parseColumnList(stmt); err != nil {
		return nil, err
	}

	if _, err := p.cur.ExpectKeyword(token.FROM); err != nil {
		return nil, err
	}
	main, err := p.parseTableSource()
	if err != nil {
		return nil, err
	}
	stmt.MainTable = main

	for isJoinStart(p.cur.Current()) {
		join, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		stmt.Joins = append(stmt.Joins, join)
	}

	if p.cur.MatchKeyword(token.WHERE) {
		where, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	p.cur.Match(token.SEMICOLON)
	if !p.cur.AtEOF() {
		start := p.cur.Position()
		for !p.cur.AtEOF() {
			p.cur.Consume()
		}
		p.warn(fmt.Sprintf(ErrTrailingTokens, p.cur.Text(start, start+1)),
			"text", p.cur.Text(start, p.cur.Position()))
	}

	return stmt, nil
}

// parseColumnList parses select items until FROM or EOF.
func (p *Parser) parseColumnList(stmt *core.Statement) error {
	if p.cur.CheckKeyword(token.FROM) || p.cur.AtEOF() {
		return p.cur.Errorf(ErrNoColumns)
	}

	for {
		start := p.cur.Position()
		raw := p.cur.PeekConsume(p.skipColumn)

		res := p.parseColumn()
		if res.err != nil {
			p.recoverColumn(stmt, start, raw, res.err)
		} else {
			stmt.Columns = append(stmt.Columns, res.col)
		}

		if !p.cur.Match(token.COMMA) {
			return nil
		}
	}
}

// parseColumn parses one select item and its alias.
func (p *Parser) parseColumn() columnResult {
	var (
		expr core.Expr
		err  error
	)
	if p.cur.CheckKeyword(token.CASE) {
		expr, err = p.parseCase()
	} else {
		expr, err = p.parseExpression()
	}
	if err != nil {
		return columnResult{err: err}
	}

	col := columnFromExpr(expr)

	alias, err := p.parseColumnAlias()
	if err != nil {
		return columnResult{err: err}
	}
	col.Alias = alias

	if !p.cur.Check(token.COMMA) && !p.cur.CheckKeyword(token.FROM) && !p.cur.AtEOF() {
		return columnResult{err: p.cur.Errorf(ErrColumnTerminator, p.cur.Current())}
	}
	return columnResult{col: col}
}

// parseColumnAlias parses AS name, AS 'string' or a bare identifier.
func (p *Parser) parseColumnAlias() (string, error) {
	if p.cur.MatchKeyword(token.AS) {
		tok := p.cur.Current()
		if tok.Type != token.STRING && !isIdentLike(tok) {
			return "", p.cur.Errorf(ErrExpectedIdentifier)
		}
		p.cur.Consume()
		return tok.Text(), nil
	}
	if p.cur.Check(token.IDENT) {
		return p.cur.Consume().Text(), nil
	}
	return "", nil
}

// recoverColumn replaces a failed item with a placeholder and moves the
// cursor to the item's end.
func (p *Parser) recoverColumn(stmt *core.Statement, start int, raw string, cause error) {
	if raw == "" {
		raw = p.cur.Text(start, p.cur.Position())
	}
	if raw == "" {
		// Empty item such as "a, , b": name the token that stopped it.
		raw = p.cur.Text(start, start+1)
	}

	p.unparseable++
	name := fmt.Sprintf("%s%d", unparseablePrefix, p.unparseable)
	stmt.Columns = append(stmt.Columns, &core.Column{
		Name: name,
		Expr: core.NewUnparseable(raw),
	})
	p.skipped = append(p.skipped, raw)

	if !stmt.Incomplete {
		stmt.Incomplete = true
		stmt.ErrorMessage = cause.Error()
	}
	p.logger.Warn("skipped unparseable column", "placeholder", name, "text", raw, "error", cause)

	p.cur.SetPosition(start)
	p.skipColumn()
}

// skipColumn advances to the next top-level "," or FROM, or to EOF,
// without consuming it. Parentheses and CASE...END blocks are skipped whole.
// An unclosed CASE still stops at FROM.
func (p *Parser) skipColumn() {
	parens, caseDepth := 0, 0
	for !p.cur.AtEOF() {
		tok := p.cur.Current()
		if parens == 0 && (tok.Is(token.FROM) || (caseDepth == 0 && tok.Type == token.COMMA)) {
			return
		}
		switch {
		case tok.Type == token.LPAREN:
			parens++
		case tok.Type == token.RPAREN:
			if parens > 0 {
				parens--
			}
		case tok.Is(token.CASE):
			caseDepth++
		case tok.Is(token.END):
			if caseDepth > 0 {
				caseDepth--
			}
		}
		p.cur.Consume()
	}
}

// columnFromExpr collapses a lone column reference into a plain column and
// names any other expression after its kind.
func columnFromExpr(expr core.Expr) *core.Column {
	if ref, ok := expr.(*core.ColumnRefExpr); ok {
		return &core.Column{Name: ref.Column, TableName: ref.Table}
	}
	return &core.Column{Name: expressionName(expr), Expr: expr}
}

// expressionName synthesizes a column name such as SumExpression or
// ConcatenationExpression.
func expressionName(expr core.Expr) string {
	switch e := expr.(type) {
	case *core.FunctionCallExpr:
		return cases.Title(language.English).String(e.Name) + "Expression"
	case *core.CaseExpr:
		return "CaseExpression"
	case *core.BinaryExpr:
		if name, ok := operatorNames[e.Op]; ok {
			return name + "Expression"
		}
	case *core.LogicalExpr:
		return "LogicalExpression"
	case *core.IsNullExpr:
		return "IsNullExpression"
	case *core.LiteralExpr:
		return "LiteralExpression"
	case *core.ParameterExpr:
		return "ParameterExpression"
	}
	return "Expression"
}
