package parser

import (
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// FROM clause parsing: table sources, derived tables, JOINs.
//
// Grammar:
//
//	table_source  → table_name [alias] | derived_table
//	table_name    → name ["." name ["." name]]
//	derived_table → "(" ... ")" alias
//	alias         → AS name | IDENT
//	join          → join_type JOIN table_source [ON cond]
//	join_type     → [INNER] | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | CROSS
//	cond          → name "." name cmp_op name "." name [(AND | OR) ...]
//
// ON is required for every join type except CROSS, where it is an error.
// Predicates after the first are skipped and reported.

// maxTableParts is catalog.schema.table.
const maxTableParts = 3

// parseTableSource parses a table reference or a derived table.
func (p *Parser) parseTableSource() (*core.TableSource, error) {
	if p.cur.Check(token.LPAREN) {
		return p.parseDerivedTable()
	}

	tok := p.cur.Current()
	if !isIdentLike(tok) {
		return nil, p.cur.Errorf(ErrExpectedIdentifier)
	}
	p.cur.Consume()

	parts := []string{tok.Text()}
	for p.cur.Match(token.DOT) {
		if len(parts) == maxTableParts {
			return nil, p.cur.Errorf(ErrTooManyQualifiers)
		}
		next := p.cur.Current()
		if !isIdentLike(next) {
			return nil, p.cur.Errorf(ErrExpectedIdentifier)
		}
		p.cur.Consume()
		parts = append(parts, next.Text())
	}

	table := &core.TableSource{Name: parts[len(parts)-1]}
	if len(parts) > 1 {
		table.Qualifiers = parts[:len(parts)-1]
	}

	alias, err := p.parseTableAlias()
	if err != nil {
		return nil, err
	}
	table.Alias = alias
	return table, nil
}

// parseDerivedTable skips a parenthesized subquery, keeping only its text.
func (p *Parser) parseDerivedTable() (*core.TableSource, error) {
	start := p.cur.Position()
	p.cur.Consume() // (

	depth := 1
	for depth > 0 {
		switch p.cur.Consume().Type {
		case token.EOF:
			return nil, p.cur.Errorf(ErrUnbalancedParens)
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
	}
	text := p.cur.Text(start, p.cur.Position())

	alias, err := p.parseTableAlias()
	if err != nil {
		return nil, err
	}
	if alias == "" {
		return nil, p.cur.Errorf(ErrDerivedTableAlias)
	}

	p.logger.Debug("skipped derived table", "alias", alias)
	return &core.TableSource{
		Name:       core.DerivedTableName,
		Alias:      alias,
		Derived:    true,
		DerivedSQL: text,
	}, nil
}

// parseTableAlias parses AS name or a bare identifier. A name is mandatory
// after AS. Keywords never become bare aliases.
func (p *Parser) parseTableAlias() (string, error) {
	if p.cur.MatchKeyword(token.AS) {
		tok := p.cur.Current()
		if !isIdentLike(tok) {
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

// parseJoin parses one join clause. The caller has checked isJoinStart.
func (p *Parser) parseJoin() (*core.Join, error) {
	joinType := core.JoinInner
	kw, _ := p.cur.Current().Keyword()
	switch kw {
	case token.INNER:
		p.cur.Consume()
	case token.LEFT:
		p.cur.Consume()
		p.cur.MatchKeyword(token.OUTER)
		joinType = core.JoinLeft
	case token.RIGHT:
		p.cur.Consume()
		p.cur.MatchKeyword(token.OUTER)
		joinType = core.JoinRight
	case token.FULL:
		p.cur.Consume()
		p.cur.MatchKeyword(token.OUTER)
		joinType = core.JoinFull
	case token.CROSS:
		p.cur.Consume()
		joinType = core.JoinCross
	}

	if _, err := p.cur.ExpectKeyword(token.JOIN); err != nil {
		return nil, err
	}

	table, err := p.parseTableSource()
	if err != nil {
		return nil, err
	}
	join := &core.Join{Type: joinType, Table: table}

	if joinType == core.JoinCross {
		if p.cur.CheckKeyword(token.ON) {
			return nil, p.cur.Errorf(ErrCrossJoinCondition)
		}
		return join, nil
	}

	if _, err := p.cur.ExpectKeyword(token.ON); err != nil {
		return nil, err
	}
	cond, err := p.parseJoinCondition()
	if err != nil {
		return nil, err
	}
	join.Condition = cond

	if p.cur.CheckKeyword(token.AND) || p.cur.CheckKeyword(token.OR) {
		join.SkippedPredicates = p.skipJoinPredicates()
		p.warn(ErrMultiPredicateJoin, "join", table.EffectiveName(), "skipped", join.SkippedPredicates)
	}
	return join, nil
}

// parseJoinCondition parses left.col op right.col.
func (p *Parser) parseJoinCondition() (*core.JoinCondition, error) {
	left, err := p.parseConditionRef()
	if err != nil {
		return nil, err
	}

	opTok := p.cur.Current()
	if !token.IsComparison(opTok.Type) {
		return nil, p.cur.Errorf(ErrJoinOperator)
	}
	p.cur.Consume()

	right, err := p.parseConditionRef()
	if err != nil {
		return nil, err
	}
	return &core.JoinCondition{Left: left, Operator: binaryOps[opTok.Type], Right: right}, nil
}

// parseConditionRef parses a qualified table.column reference.
func (p *Parser) parseConditionRef() (core.ColumnRef, error) {
	tok := p.cur.Current()
	if !isIdentLike(tok) {
		return core.ColumnRef{}, p.cur.Errorf(ErrMissingConditionRef)
	}
	p.cur.Consume()
	if !p.cur.Match(token.DOT) {
		return core.ColumnRef{}, p.cur.Errorf(ErrUnqualifiedJoin, tok.Text())
	}
	col := p.cur.Current()
	if !isIdentLike(col) {
		return core.ColumnRef{}, p.cur.Errorf(ErrExpectedIdentifier)
	}
	p.cur.Consume()
	return core.ColumnRef{Table: tok.Text(), Column: col.Text()}, nil
}

// skipJoinPredicates consumes AND/OR-chained predicates up to the next
// top-level clause keyword, ";" or EOF and returns their text.
func (p *Parser) skipJoinPredicates() string {
	start := p.cur.Position()
	depth := 0
	for !p.cur.AtEOF() {
		tok := p.cur.Current()
		if depth == 0 {
			if tok.Type == token.SEMICOLON {
				break
			}
			isCall := (tok.Is(token.LEFT) || tok.Is(token.RIGHT)) && p.cur.LookAhead(1).Type == token.LPAREN
			if kw, ok := tok.Keyword(); ok && kw.IsClause() && !isCall {
				break
			}
		}
		switch tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth > 0 {
				depth--
			}
		}
		p.cur.Consume()
	}
	return p.cur.Text(start, p.cur.Position())
}
